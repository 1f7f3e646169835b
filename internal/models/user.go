package models

type UserRole string

const (
	RoleUser     UserRole = "user"
	RoleAdmin    UserRole = "admin"
	RoleDelivery UserRole = "delivery"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleDelivery:
		return true
	}
	return false
}

// Customer account. UID comes from the identity provider.
type User struct {
	ID          uint     `gorm:"primaryKey" json:"_id"`
	FirebaseUID string   `gorm:"size:128;uniqueIndex;not null" json:"firebaseUid"`
	Email       string   `gorm:"size:255;index;not null" json:"email"`
	Name        string   `gorm:"size:100" json:"name"`
	Phone       string   `gorm:"size:30" json:"phone"`
	Address     string   `gorm:"size:500" json:"address"`
	Role        UserRole `gorm:"size:20;index;not null" json:"role"`
	CreatedAt   int64    `gorm:"autoCreateTime:milli" json:"createdAt"`
	UpdatedAt   int64    `gorm:"autoUpdateTime:milli" json:"updatedAt"`
}

type Admin struct {
	ID          uint     `gorm:"primaryKey" json:"_id"`
	FirebaseUID string   `gorm:"size:128;uniqueIndex;not null" json:"firebaseUid"`
	Email       string   `gorm:"size:255;index;not null" json:"email"`
	Name        string   `gorm:"size:100;not null" json:"name"`
	Phone       string   `gorm:"size:30" json:"phone"`
	Role        UserRole `gorm:"size:20;not null" json:"role"`
	Permissions []string `gorm:"serializer:json;type:text" json:"permissions"`
	CreatedAt   int64    `gorm:"autoCreateTime:milli" json:"createdAt"`
	UpdatedAt   int64    `gorm:"autoUpdateTime:milli" json:"updatedAt"`
}

type DeliveryPerson struct {
	ID            uint     `gorm:"primaryKey" json:"_id"`
	FirebaseUID   string   `gorm:"size:128;uniqueIndex;not null" json:"firebaseUid"`
	Email         string   `gorm:"size:255;index;not null" json:"email"`
	Name          string   `gorm:"size:100;not null" json:"name"`
	Phone         string   `gorm:"size:30" json:"phone"`
	Role          UserRole `gorm:"size:20;not null" json:"role"`
	VehicleNumber string   `gorm:"size:30" json:"vehicleNumber"`
	IsAvailable   bool     `gorm:"index" json:"isAvailable"`
	CurrentOrders []string `gorm:"serializer:json;type:text" json:"currentOrders"`
	CreatedAt     int64    `gorm:"autoCreateTime:milli" json:"createdAt"`
	UpdatedAt     int64    `gorm:"autoUpdateTime:milli" json:"updatedAt"`
}

func (DeliveryPerson) TableName() string { return "delivery_personnel" }

// LocalCredential backs the email/password provider used when the external
// identity provider is not configured.
type LocalCredential struct {
	ID           uint   `gorm:"primaryKey"`
	UID          string `gorm:"size:128;uniqueIndex;not null"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	CreatedAt    int64  `gorm:"autoCreateTime:milli"`
}
