package models

type Category struct {
	ID        uint   `gorm:"primaryKey" json:"_id"`
	Name      string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	IsActive  bool   `gorm:"index" json:"isActive"`
	SortOrder int    `gorm:"column:sort_order" json:"order"`
	CreatedAt int64  `gorm:"autoCreateTime:milli" json:"createdAt"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli" json:"updatedAt"`
}

// MenuItem refers to its category by name, not by id.
type MenuItem struct {
	ID             uint     `gorm:"primaryKey" json:"_id"`
	Name           string   `gorm:"size:150;not null" json:"name"`
	Description    string   `gorm:"size:1000" json:"description"`
	Category       string   `gorm:"size:100;index;not null" json:"category"`
	Image          string   `gorm:"size:500" json:"image,omitempty"`
	HasHalfPortion bool     `json:"hasHalfPortion"`
	HalfPrice      *float64 `json:"halfPrice,omitempty"`
	FullPrice      float64  `gorm:"not null" json:"fullPrice"`
	IsAvailable    bool     `gorm:"index" json:"isAvailable"`
	CreatedAt      int64    `gorm:"autoCreateTime:milli" json:"createdAt"`
	UpdatedAt      int64    `gorm:"autoUpdateTime:milli" json:"updatedAt"`
}
