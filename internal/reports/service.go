package reports

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"sahone-backend/internal/apperr"
	"sahone-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	dateLayout  = "2006-01-02"
	topItemsMax = 10
)

type DailyRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type WeeklyRequest struct {
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
}

// Aggregate is what a report stores about a set of orders.
type Aggregate struct {
	TotalOrders     int
	TotalRevenue    float64
	TotalDeliveries int
	TopSellingItems []models.TopSellingItem
}

type RevenueSummary struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalOrders       int     `json:"totalOrders"`
	AverageOrderValue float64 `json:"averageOrderValue"`
	TodayRevenue      float64 `json:"todayRevenue"`
	TodayOrders       int     `json:"todayOrders"`
}

// Summarize counts every order, but revenue, deliveries and top items only
// come from delivered ones. Top items are ranked by quantity, ties by id.
func Summarize(orders []models.Order) Aggregate {
	agg := Aggregate{TotalOrders: len(orders), TopSellingItems: []models.TopSellingItem{}}

	byItem := map[string]*models.TopSellingItem{}
	for _, o := range orders {
		if o.Status != models.OrderDelivered {
			continue
		}
		agg.TotalDeliveries++
		agg.TotalRevenue += o.TotalAmount
		for _, it := range o.Items {
			t, ok := byItem[it.ItemID]
			if !ok {
				t = &models.TopSellingItem{ItemID: it.ItemID, ItemName: it.Name}
				byItem[it.ItemID] = t
			}
			t.Quantity += it.Quantity
		}
	}
	agg.TotalRevenue = math.Round(agg.TotalRevenue*100) / 100

	for _, t := range byItem {
		agg.TopSellingItems = append(agg.TopSellingItems, *t)
	}
	sort.Slice(agg.TopSellingItems, func(i, j int) bool {
		a, b := agg.TopSellingItems[i], agg.TopSellingItems[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.ItemID < b.ItemID
	})
	if len(agg.TopSellingItems) > topItemsMax {
		agg.TopSellingItems = agg.TopSellingItems[:topItemsMax]
	}
	return agg
}

// dayRange is [start of first day, start of the day after last) in local time.
func dayRange(first, last string) (from, to time.Time, err error) {
	from, err = time.ParseInLocation(dateLayout, first, time.Local)
	if err != nil {
		return from, to, apperr.Invalid("date must be YYYY-MM-DD")
	}
	end, err := time.ParseInLocation(dateLayout, last, time.Local)
	if err != nil {
		return from, to, apperr.Invalid("date must be YYYY-MM-DD")
	}
	if end.Before(from) {
		return from, to, apperr.Invalid("endDate must not be before startDate")
	}
	return from, end.AddDate(0, 0, 1), nil
}

func ordersBetween(db *gorm.DB, from, to time.Time) ([]models.Order, error) {
	var list []models.Order
	err := db.Where("created_at >= ? AND created_at < ?", from.UnixMilli(), to.UnixMilli()).Find(&list).Error
	return list, err
}

func generate(db *gorm.DB, typ models.ReportType, key string, from, to time.Time) (*models.Report, error) {
	orders, err := ordersBetween(db, from, to)
	if err != nil {
		return nil, err
	}
	agg := Summarize(orders)

	r := models.Report{
		ReportType:      typ,
		Date:            key,
		TotalOrders:     agg.TotalOrders,
		TotalRevenue:    agg.TotalRevenue,
		TotalDeliveries: agg.TotalDeliveries,
		TopSellingItems: agg.TopSellingItems,
		CreatedAt:       time.Now().UnixMilli(),
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "report_type"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_orders", "total_revenue", "total_deliveries", "top_selling_items", "created_at"}),
	}).Create(&r).Error
	if err != nil {
		return nil, fmt.Errorf("save %s report %s: %w", typ, key, err)
	}
	return Get(db, typ, key)
}

// GenerateDaily (re)builds the report for one local calendar day.
func GenerateDaily(db *gorm.DB, date string) (*models.Report, error) {
	from, to, err := dayRange(date, date)
	if err != nil {
		return nil, err
	}
	return generate(db, models.ReportDaily, date, from, to)
}

// GenerateWeekly (re)builds the report for an inclusive day range keyed
// "start_to_end".
func GenerateWeekly(db *gorm.DB, start, end string) (*models.Report, error) {
	from, to, err := dayRange(start, end)
	if err != nil {
		return nil, err
	}
	return generate(db, models.ReportWeekly, start+"_to_"+end, from, to)
}

func List(db *gorm.DB, typ models.ReportType, date string) ([]models.Report, error) {
	q := db.Model(&models.Report{})
	if typ != "" {
		q = q.Where("report_type = ?", typ)
	}
	if date != "" {
		q = q.Where("date = ?", date)
	}
	list := []models.Report{}
	err := q.Order("date desc").Find(&list).Error
	return list, err
}

// Get returns nil when no report exists for (typ, date).
func Get(db *gorm.DB, typ models.ReportType, date string) (*models.Report, error) {
	var r models.Report
	err := db.Where("report_type = ? AND date = ?", typ, date).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func GetByID(db *gorm.DB, id uint) (*models.Report, error) {
	var r models.Report
	if err := db.First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Report not found")
		}
		return nil, err
	}
	return &r, nil
}

// Revenue scans delivered orders. "Today" starts at local midnight of now.
func Revenue(db *gorm.DB, now time.Time) (RevenueSummary, error) {
	var delivered []models.Order
	if err := db.Where("status = ?", models.OrderDelivered).Find(&delivered).Error; err != nil {
		return RevenueSummary{}, err
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).UnixMilli()

	var s RevenueSummary
	for _, o := range delivered {
		s.TotalRevenue += o.TotalAmount
		s.TotalOrders++
		if o.CreatedAt >= today {
			s.TodayRevenue += o.TotalAmount
			s.TodayOrders++
		}
	}
	if s.TotalOrders > 0 {
		s.AverageOrderValue = math.Round(s.TotalRevenue/float64(s.TotalOrders)*100) / 100
	}
	s.TotalRevenue = math.Round(s.TotalRevenue*100) / 100
	s.TodayRevenue = math.Round(s.TodayRevenue*100) / 100
	return s, nil
}
