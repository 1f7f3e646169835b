package models

type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderPreparing      OrderStatus = "preparing"
	OrderOutForDelivery OrderStatus = "out-for-delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	OrderPending,
	OrderConfirmed,
	OrderPreparing,
	OrderOutForDelivery,
	OrderDelivered,
	OrderCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, st := range OrderStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Final reports whether the order has left the rider's hands for good.
func (s OrderStatus) Final() bool {
	return s == OrderDelivered || s == OrderCancelled
}

const DefaultPaymentMethod = "Cash on Delivery"

// OrderItem is a snapshot of the menu item at order time.
type OrderItem struct {
	ItemID   string  `json:"itemId" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Quantity int     `json:"quantity" validate:"gte=1"`
	Price    float64 `json:"price" validate:"gte=0"`
	Portion  string  `json:"portion,omitempty"`
	Image    string  `json:"image,omitempty"`
}

type Order struct {
	ID               uint        `gorm:"primaryKey" json:"_id"`
	UserID           uint        `gorm:"index;not null" json:"userId"`
	Items            []OrderItem `gorm:"serializer:json;type:text" json:"items"`
	Subtotal         float64     `json:"subtotal"`
	DeliveryCharge   float64     `json:"deliveryCharge"`
	TotalAmount      float64     `json:"totalAmount"`
	DeliveryAddress  string      `gorm:"size:500;not null" json:"deliveryAddress"`
	CustomerName     string      `gorm:"size:100" json:"customerName"`
	CustomerPhone    string      `gorm:"size:30" json:"customerPhone"`
	CustomerEmail    string      `gorm:"size:255" json:"customerEmail"`
	PaymentMethod    string      `gorm:"size:50" json:"paymentMethod"`
	DeliveryPersonID *uint       `gorm:"index" json:"deliveryPersonId"`
	Status           OrderStatus `gorm:"size:30;index;not null" json:"status"`
	CreatedAt        int64       `gorm:"autoCreateTime:milli;index" json:"createdAt"`
	UpdatedAt        int64       `gorm:"autoUpdateTime:milli" json:"updatedAt"`
}
