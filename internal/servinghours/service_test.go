package servinghours

import (
	"testing"
	"time"

	"sahone-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 14, hour, min, 0, 0, time.Local)
}

func slot(active bool, start, end string, items ...models.SpecialItem) *models.ServingSlot {
	return &models.ServingSlot{IsActive: active, StartTime: start, EndTime: end, Items: items}
}

func item(id string, active bool) models.SpecialItem {
	return models.SpecialItem{ID: id, Name: "Special " + id, Price: 120, IsActive: active}
}

func TestActiveCategories_UnconfiguredOrClosed(t *testing.T) {
	assert.Empty(t, ActiveCategories(nil, at(9, 0)))
	assert.NotNil(t, ActiveCategories(nil, at(9, 0)))

	cfg := &models.ServingHoursConfig{
		IsClosed:  true,
		Reason:    "Dashain",
		Breakfast: slot(true, "07:00", "10:00", item("b1", true)),
	}
	assert.Empty(t, ActiveCategories(cfg, at(8, 0)))
}

func TestActiveCategories_SkipsInactiveSlotsAndItems(t *testing.T) {
	cfg := &models.ServingHoursConfig{
		Breakfast: slot(false, "07:00", "10:00", item("b1", true)),
		Lunch:     slot(true, "12:00", "15:00", item("l1", true), item("l2", false)),
		Dinner:    slot(true, "19:00", "22:00", item("d1", false)),
	}

	got := ActiveCategories(cfg, at(13, 30))
	require.Len(t, got, 1)
	assert.Equal(t, "lunch", got[0].ID)
	assert.Equal(t, "Lunch", got[0].Name)
	assert.Equal(t, "12:00 - 15:00", got[0].Time)
	assert.True(t, got[0].IsCurrent)
	require.Len(t, got[0].Items, 1)
	assert.Equal(t, "l1", got[0].Items[0].ID)
}

func TestActiveCategories_KeepsSlotOrder(t *testing.T) {
	cfg := &models.ServingHoursConfig{
		Dinner:    slot(true, "19:00", "22:00", item("d1", true)),
		Breakfast: slot(true, "07:00", "10:00", item("b1", true)),
	}
	got := ActiveCategories(cfg, at(20, 0))
	require.Len(t, got, 2)
	assert.Equal(t, "breakfast", got[0].ID)
	assert.False(t, got[0].IsCurrent)
	assert.Equal(t, "dinner", got[1].ID)
	assert.True(t, got[1].IsCurrent)
}

func TestSlotContains(t *testing.T) {
	day := models.ServingSlot{StartTime: "12:00", EndTime: "15:00"}
	late := models.ServingSlot{StartTime: "22:00", EndTime: "02:00"}
	broken := models.ServingSlot{StartTime: "noon", EndTime: "15:00"}

	cases := []struct {
		name string
		slot models.ServingSlot
		now  time.Time
		want bool
	}{
		{"start inclusive", day, at(12, 0), true},
		{"inside", day, at(14, 59), true},
		{"end exclusive", day, at(15, 0), false},
		{"before", day, at(11, 59), false},
		{"wrap before midnight", late, at(23, 30), true},
		{"wrap after midnight", late, at(1, 15), true},
		{"wrap outside", late, at(3, 0), false},
		{"unparseable", broken, at(13, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.slot.Contains(tc.now))
		})
	}
}
