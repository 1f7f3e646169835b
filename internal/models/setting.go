package models

const SettingRestaurantOpen = "restaurantOpen"

type RestaurantSetting struct {
	ID           uint   `gorm:"primaryKey" json:"_id"`
	SettingKey   string `gorm:"size:100;uniqueIndex;not null" json:"settingKey"`
	SettingValue string `gorm:"type:text" json:"settingValue"`
	Description  string `gorm:"size:500" json:"description,omitempty"`
	UpdatedAt    int64  `gorm:"autoUpdateTime:milli" json:"updatedAt"`
}
