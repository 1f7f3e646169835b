package models

type ReportType string

const (
	ReportDaily  ReportType = "daily"
	ReportWeekly ReportType = "weekly"
)

type TopSellingItem struct {
	ItemID   string `json:"itemId"`
	ItemName string `json:"itemName"`
	Quantity int    `json:"quantity"`
}

// Report is unique per (type, date). Weekly dates are "start_to_end".
type Report struct {
	ID              uint             `gorm:"primaryKey" json:"_id"`
	ReportType      ReportType       `gorm:"size:20;not null;uniqueIndex:idx_report_type_date" json:"reportType"`
	Date            string           `gorm:"size:32;not null;uniqueIndex:idx_report_type_date" json:"date"`
	TotalOrders     int              `json:"totalOrders"`
	TotalRevenue    float64          `json:"totalRevenue"`
	TotalDeliveries int              `json:"totalDeliveries"`
	TopSellingItems []TopSellingItem `gorm:"serializer:json;type:text" json:"topSellingItems"`
	CreatedAt       int64            `gorm:"autoCreateTime:milli" json:"createdAt"`
}
