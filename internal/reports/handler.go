package reports

import (
	"bytes"
	"fmt"
	"time"

	"sahone-backend/internal/audit"
	"sahone-backend/internal/database"
	"sahone-backend/internal/export"
	"sahone-backend/internal/models"
	"sahone-backend/internal/request"

	"github.com/gofiber/fiber/v2"
)

// GET /api/admin/reports?type=&date=
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		typ := models.ReportType(c.Query("type"))
		if typ != "" && typ != models.ReportDaily && typ != models.ReportWeekly {
			return fiber.NewError(fiber.StatusBadRequest, "type must be daily or weekly")
		}
		list, err := List(database.DB, typ, c.Query("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list reports")
		}
		return c.JSON(list)
	}
}

// GET /api/admin/reports/:type/:date
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := Get(database.DB, models.ReportType(c.Params("type")), c.Params("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load report")
		}
		if r == nil {
			return c.JSON(nil)
		}
		return c.JSON(r)
	}
}

// POST /api/admin/reports/daily
func GenerateDailyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body DailyRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		r, err := GenerateDaily(database.DB, body.Date)
		if err != nil {
			return err
		}
		recordGenerated(c, r)
		return c.JSON(fiber.Map{"id": r.ID})
	}
}

// POST /api/admin/reports/weekly
func GenerateWeeklyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body WeeklyRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		r, err := GenerateWeekly(database.DB, body.StartDate, body.EndDate)
		if err != nil {
			return err
		}
		recordGenerated(c, r)
		return c.JSON(fiber.Map{"id": r.ID})
	}
}

func recordGenerated(c *fiber.Ctx, r *models.Report) {
	audit.Record(c, audit.LogOptions{
		EntityType:  "report",
		EntityID:    r.ID,
		Action:      models.AuditActionCreate,
		Description: fmt.Sprintf("%s report generated for %s", r.ReportType, r.Date),
		After:       r,
	})
}

// GET /api/admin/reports/revenue
func RevenueHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := Revenue(database.DB, time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute revenue")
		}
		return c.JSON(s)
	}
}

// GET /api/admin/reports/:id/export
func ExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ParamID(c, "id")
		if err != nil {
			return err
		}
		r, err := GetByID(database.DB, id)
		if err != nil {
			return err
		}
		buf, err := ExportXLSX(r)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build export")
		}
		return export.Send(c, fmt.Sprintf("report-%s-%s.xlsx", r.ReportType, r.Date), buf)
	}
}

// ExportXLSX writes a summary sheet and a top items sheet.
func ExportXLSX(r *models.Report) (*bytes.Buffer, error) {
	summary := export.Sheet{
		Name:   "Summary",
		Header: []string{"Type", "Date", "Total Orders", "Total Revenue", "Total Deliveries", "Generated"},
		Rows: [][]any{{
			string(r.ReportType),
			r.Date,
			r.TotalOrders,
			r.TotalRevenue,
			r.TotalDeliveries,
			time.UnixMilli(r.CreatedAt).Format("2006-01-02 15:04"),
		}},
	}
	top := export.Sheet{Name: "Top Items", Header: []string{"Rank", "Item ID", "Item", "Quantity"}}
	for i, it := range r.TopSellingItems {
		top.Rows = append(top.Rows, []any{i + 1, it.ItemID, it.ItemName, it.Quantity})
	}
	return export.Workbook(summary, top)
}
