package reports

import (
	"fmt"
	"testing"
	"time"

	"sahone-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func order(status models.OrderStatus, total float64, items ...models.OrderItem) models.Order {
	return models.Order{Status: status, TotalAmount: total, Items: items}
}

func line(id string, qty int) models.OrderItem {
	return models.OrderItem{ItemID: id, Name: "Item " + id, Quantity: qty, Price: 100}
}

func TestSummarize_OnlyDeliveredCountsTowardRevenue(t *testing.T) {
	agg := Summarize([]models.Order{
		order(models.OrderDelivered, 250.50, line("momo", 2), line("roll", 1)),
		order(models.OrderDelivered, 120.25, line("roll", 3)),
		order(models.OrderCancelled, 999, line("thali", 9)),
		order(models.OrderPending, 80, line("thali", 9)),
	})

	assert.Equal(t, 4, agg.TotalOrders)
	assert.Equal(t, 2, agg.TotalDeliveries)
	assert.Equal(t, 370.75, agg.TotalRevenue)
	assert.Equal(t, []models.TopSellingItem{
		{ItemID: "roll", ItemName: "Item roll", Quantity: 4},
		{ItemID: "momo", ItemName: "Item momo", Quantity: 2},
	}, agg.TopSellingItems)
}

func TestSummarize_TopItemsCappedAndTieBroken(t *testing.T) {
	var lines []models.OrderItem
	for i := 0; i < 15; i++ {
		lines = append(lines, line(fmt.Sprintf("i%02d", i), 1))
	}
	agg := Summarize([]models.Order{order(models.OrderDelivered, 1500, lines...)})

	require.Len(t, agg.TopSellingItems, topItemsMax)
	assert.Equal(t, "i00", agg.TopSellingItems[0].ItemID)
	assert.Equal(t, "i09", agg.TopSellingItems[9].ItemID)
}

func TestSummarize_Empty(t *testing.T) {
	agg := Summarize(nil)
	assert.Zero(t, agg.TotalOrders)
	assert.NotNil(t, agg.TopSellingItems)
}

func TestDayRange(t *testing.T) {
	from, to, err := dayRange("2026-03-01", "2026-03-07")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local), from)
	assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.Local), to)

	_, _, err = dayRange("2026-03-07", "2026-03-01")
	assert.Error(t, err)

	_, _, err = dayRange("03/01/2026", "2026-03-01")
	assert.Error(t, err)
}

func TestNextRun(t *testing.T) {
	now := time.Date(2026, 5, 10, 1, 30, 0, 0, time.Local)

	next, err := nextRun(now, "02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 10, 2, 0, 0, 0, time.Local), next)

	next, err = nextRun(now, "01:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 11, 1, 30, 0, 0, time.Local), next, "same minute rolls to tomorrow")

	next, err = nextRun(now, "00:15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 11, 0, 15, 0, 0, time.Local), next)

	_, err = nextRun(now, "late")
	assert.Error(t, err)
}
