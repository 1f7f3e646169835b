package models

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Offer windows are epoch milliseconds, inclusive on both ends.
type Offer struct {
	ID             uint         `gorm:"primaryKey" json:"_id"`
	Title          string       `gorm:"size:150;not null" json:"title"`
	Description    string       `gorm:"size:1000" json:"description"`
	Code           string       `gorm:"size:50;uniqueIndex;not null" json:"code"`
	DiscountType   DiscountType `gorm:"size:20;not null" json:"discountType"`
	DiscountValue  float64      `gorm:"not null" json:"discountValue"`
	MinOrderAmount *float64     `json:"minOrderAmount,omitempty"`
	MaxDiscount    *float64     `json:"maxDiscount,omitempty"`
	ValidFrom      int64        `gorm:"not null" json:"validFrom"`
	ValidTo        int64        `gorm:"not null" json:"validTo"`
	IsActive       bool         `gorm:"index" json:"isActive"`
	CreatedAt      int64        `gorm:"autoCreateTime:milli" json:"createdAt"`
	UpdatedAt      int64        `gorm:"autoUpdateTime:milli" json:"updatedAt"`
}
