package reports_test

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"
	"time"

	"sahone-backend/internal/models"
	"sahone-backend/internal/reports"
	"sahone-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeOrder(t *testing.T, env *testutil.Env, userID uint, status models.OrderStatus, total float64, at time.Time, items ...models.OrderItem) {
	t.Helper()
	o := models.Order{
		UserID:          userID,
		Items:           items,
		Subtotal:        total,
		TotalAmount:     total,
		DeliveryAddress: "Butwal",
		Status:          status,
		CreatedAt:       at.UnixMilli(),
	}
	require.NoError(t, env.DB.Create(&o).Error)
}

func TestGenerateDaily_UpsertsByDate(t *testing.T) {
	env := testutil.New(t, nil, nil)
	u, _ := env.User(t, "c@sahone.test")
	day := time.Date(2026, 4, 2, 12, 0, 0, 0, time.Local)
	momo := models.OrderItem{ItemID: "m1", Name: "Momo", Quantity: 2, Price: 90}

	placeOrder(t, env, u.ID, models.OrderDelivered, 230, day, momo)
	placeOrder(t, env, u.ID, models.OrderPending, 100, day.Add(time.Hour), momo)
	placeOrder(t, env, u.ID, models.OrderDelivered, 500, day.AddDate(0, 0, 1), momo)

	r, err := reports.GenerateDaily(env.DB, "2026-04-02")
	require.NoError(t, err)
	assert.Equal(t, 2, r.TotalOrders)
	assert.Equal(t, 1, r.TotalDeliveries)
	assert.Equal(t, 230.0, r.TotalRevenue)
	require.Len(t, r.TopSellingItems, 1)
	assert.Equal(t, 2, r.TopSellingItems[0].Quantity)

	placeOrder(t, env, u.ID, models.OrderDelivered, 70, day.Add(2*time.Hour), momo)
	again, err := reports.GenerateDaily(env.DB, "2026-04-02")
	require.NoError(t, err)
	assert.Equal(t, r.ID, again.ID)
	assert.Equal(t, 3, again.TotalOrders)
	assert.Equal(t, 300.0, again.TotalRevenue)

	var count int64
	require.NoError(t, env.DB.Model(&models.Report{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGenerateWeekly(t *testing.T) {
	env := testutil.New(t, nil, nil)
	u, _ := env.User(t, "c@sahone.test")
	start := time.Date(2026, 4, 6, 9, 0, 0, 0, time.Local)
	for i := 0; i < 7; i++ {
		placeOrder(t, env, u.ID, models.OrderDelivered, 100, start.AddDate(0, 0, i), models.OrderItem{ItemID: "r1", Name: "Roll", Quantity: 1, Price: 100})
	}
	placeOrder(t, env, u.ID, models.OrderDelivered, 100, start.AddDate(0, 0, 7))

	r, err := reports.GenerateWeekly(env.DB, "2026-04-06", "2026-04-12")
	require.NoError(t, err)
	assert.Equal(t, models.ReportWeekly, r.ReportType)
	assert.Equal(t, "2026-04-06_to_2026-04-12", r.Date)
	assert.Equal(t, 7, r.TotalOrders)
	assert.Equal(t, 700.0, r.TotalRevenue)
	require.Len(t, r.TopSellingItems, 1)
	assert.Equal(t, 7, r.TopSellingItems[0].Quantity)
}

func TestRevenue(t *testing.T) {
	env := testutil.New(t, nil, nil)
	u, _ := env.User(t, "c@sahone.test")
	now := time.Date(2026, 4, 10, 15, 0, 0, 0, time.Local)

	placeOrder(t, env, u.ID, models.OrderDelivered, 200, now.Add(-time.Hour))
	placeOrder(t, env, u.ID, models.OrderDelivered, 100, now.AddDate(0, 0, -2))
	placeOrder(t, env, u.ID, models.OrderCancelled, 900, now.Add(-time.Hour))

	s, err := reports.Revenue(env.DB, now)
	require.NoError(t, err)
	assert.Equal(t, reports.RevenueSummary{
		TotalRevenue:      300,
		TotalOrders:       2,
		AverageOrderValue: 150,
		TodayRevenue:      200,
		TodayOrders:       1,
	}, s)
}

func TestReportsHTTP(t *testing.T) {
	env := testutil.New(t, nil, nil)
	_, admin := env.Admin(t, "boss@sahone.test")
	_, menuOnly := env.Admin(t, "menu@sahone.test", "manage_menu")

	var created struct {
		ID uint `json:"id"`
	}
	require.Equal(t, http.StatusOK, env.JSON(t, http.MethodPost, "/api/admin/reports/daily", map[string]any{"date": "2026-04-02"}, admin, &created))
	require.NotZero(t, created.ID)

	status, raw := env.Do(t, http.MethodPost, "/api/admin/reports/daily", map[string]any{"date": "02-04-2026"}, admin)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "date must match 2006-01-02", testutil.ErrorMessage(t, raw))

	status, _ = env.Do(t, http.MethodPost, "/api/admin/reports/weekly", map[string]any{"startDate": "2026-04-12", "endDate": "2026-04-06"}, admin)
	assert.Equal(t, http.StatusBadRequest, status)

	var got models.Report
	require.Equal(t, http.StatusOK, env.JSON(t, http.MethodGet, "/api/admin/reports/daily/2026-04-02", nil, admin, &got))
	assert.Equal(t, created.ID, got.ID)

	status, raw = env.Do(t, http.MethodGet, "/api/admin/reports/daily/2026-04-03", nil, admin)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "null", string(raw))

	var list []models.Report
	require.Equal(t, http.StatusOK, env.JSON(t, http.MethodGet, "/api/admin/reports?type=daily", nil, admin, &list))
	assert.Len(t, list, 1)

	status, _ = env.Do(t, http.MethodGet, "/api/admin/reports?type=monthly", nil, admin)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := env.Do(t, http.MethodGet, fmt.Sprintf("/api/admin/reports/%d/export", created.ID), nil, admin)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, bytes.HasPrefix(body, []byte("PK")))

	status, _ = env.Do(t, http.MethodGet, "/api/admin/reports/revenue", nil, menuOnly)
	assert.Equal(t, http.StatusForbidden, status)
}
