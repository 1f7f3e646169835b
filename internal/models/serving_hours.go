package models

import (
	"fmt"
	"time"
)

type SpecialItem struct {
	ID          string  `json:"id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
	IsActive    bool    `json:"isActive"`
}

// ServingSlot times are "HH:MM" in the server's local time.
type ServingSlot struct {
	IsActive  bool          `json:"isActive"`
	StartTime string        `json:"startTime" validate:"required,hhmm"`
	EndTime   string        `json:"endTime" validate:"required,hhmm"`
	Items     []SpecialItem `json:"items" validate:"dive"`
}

// Contains reports whether now falls inside [StartTime, EndTime).
// A window whose end is before its start wraps past midnight.
func (s ServingSlot) Contains(now time.Time) bool {
	start, err1 := ParseClock(s.StartTime)
	end, err2 := ParseClock(s.EndTime)
	if err1 != nil || err2 != nil {
		return false
	}
	cur := now.Hour()*60 + now.Minute()
	if start <= end {
		return cur >= start && cur < end
	}
	return cur >= start || cur < end
}

func (s ServingSlot) HasActiveItem() bool {
	for _, it := range s.Items {
		if it.IsActive {
			return true
		}
	}
	return false
}

// ParseClock returns minutes since midnight for an "HH:MM" string.
func ParseClock(v string) (int, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", v, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Single global row; slots are optional.
type ServingHoursConfig struct {
	ID        uint         `gorm:"primaryKey" json:"_id"`
	IsClosed  bool         `json:"isClosed"`
	Reason    string       `gorm:"size:500" json:"reason,omitempty"`
	Breakfast *ServingSlot `gorm:"serializer:json;type:text" json:"breakfast,omitempty"`
	Lunch     *ServingSlot `gorm:"serializer:json;type:text" json:"lunch,omitempty"`
	Dinner    *ServingSlot `gorm:"serializer:json;type:text" json:"dinner,omitempty"`
	CreatedAt int64        `gorm:"autoCreateTime:milli" json:"createdAt"`
	UpdatedAt int64        `gorm:"autoUpdateTime:milli" json:"updatedAt"`
}

func (ServingHoursConfig) TableName() string { return "serving_hours_config" }

// Slot returns the named slot ("breakfast", "lunch", "dinner").
func (c *ServingHoursConfig) Slot(name string) *ServingSlot {
	switch name {
	case "breakfast":
		return c.Breakfast
	case "lunch":
		return c.Lunch
	case "dinner":
		return c.Dinner
	}
	return nil
}
