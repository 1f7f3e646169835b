package models

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionStatus AuditAction = "status"
)

type AuditLog struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	CreatedAt int64 `gorm:"autoCreateTime:milli;index" json:"created_at"`

	// Who? Account id within the table of its role.
	ActorID    uint     `gorm:"index" json:"actor_id"`
	ActorRole  UserRole `gorm:"size:20" json:"actor_role"`
	ActorEmail string   `gorm:"size:255" json:"actor_email"`

	// e.g. "order", "menu_item", "category", "offer", "setting"
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action      AuditAction `gorm:"size:20" json:"action"`
	Description string      `gorm:"size:255" json:"description"`

	BeforeData string `gorm:"type:text" json:"before_data"`
	AfterData  string `gorm:"type:text" json:"after_data"`
}
