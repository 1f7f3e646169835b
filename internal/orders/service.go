package orders

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"sahone-backend/internal/apperr"
	"sahone-backend/internal/delivery"
	"sahone-backend/internal/metrics"
	"sahone-backend/internal/models"
	"sahone-backend/internal/principal"
	"sahone-backend/internal/settings"

	"gorm.io/gorm"
)

const recentLimit = 50

type CreateOrderRequest struct {
	Items           []models.OrderItem `json:"items" validate:"required,min=1,dive"`
	DeliveryAddress string             `json:"deliveryAddress" validate:"required,max=500"`
	CustomerName    string             `json:"customerName" validate:"max=100"`
	CustomerPhone   string             `json:"customerPhone" validate:"max=30"`
	CustomerEmail   string             `json:"customerEmail" validate:"omitempty,email"`
	PaymentMethod   string             `json:"paymentMethod" validate:"max=50"`
	DeliveryCharge  *float64           `json:"deliveryCharge" validate:"omitempty,gte=0"`
}

type StatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

type AssignRequest struct {
	DeliveryPersonID uint `json:"deliveryPersonId" validate:"required"`
}

type Statistics struct {
	TotalOrders     int64   `json:"totalOrders"`
	PendingOrders   int64   `json:"pendingOrders"`
	ConfirmedOrders int64   `json:"confirmedOrders"`
	PreparingOrders int64   `json:"preparingOrders"`
	OutForDelivery  int64   `json:"outForDelivery"`
	DeliveredOrders int64   `json:"deliveredOrders"`
	CancelledOrders int64   `json:"cancelledOrders"`
	TotalRevenue    float64 `json:"totalRevenue"`
}

// Create places a pending order for userID. Totals are always computed
// here; the client never supplies them.
func Create(db *gorm.DB, userID uint, in CreateOrderRequest, defaultCharge float64) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperr.Invalid("Order must contain at least one item")
	}
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return nil, apperr.Invalid("Item quantity must be at least 1")
		}
		if it.Price < 0 {
			return nil, apperr.Invalid("Item price cannot be negative")
		}
	}
	address := strings.TrimSpace(in.DeliveryAddress)
	if address == "" {
		return nil, apperr.Invalid("deliveryAddress is required")
	}

	status, err := settings.CurrentStatus(db)
	if err != nil {
		return nil, err
	}
	if !status.IsOpen {
		return nil, apperr.Conflict("Restaurant is closed: " + status.Reason)
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}

	charge := defaultCharge
	if in.DeliveryCharge != nil {
		charge = *in.DeliveryCharge
	}
	totals := ComputeTotals(in.Items, charge)

	order := models.Order{
		UserID:          userID,
		Items:           in.Items,
		Subtotal:        totals.Subtotal,
		DeliveryCharge:  totals.DeliveryCharge,
		TotalAmount:     totals.Total,
		DeliveryAddress: address,
		CustomerName:    firstNonEmpty(in.CustomerName, user.Name),
		CustomerPhone:   firstNonEmpty(in.CustomerPhone, user.Phone),
		CustomerEmail:   firstNonEmpty(in.CustomerEmail, user.Email),
		PaymentMethod:   firstNonEmpty(in.PaymentMethod, models.DefaultPaymentMethod),
		Status:          models.OrderPending,
	}
	if err := db.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	metrics.OrdersCreated.Inc()
	return &order, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func Get(db *gorm.DB, id uint) (*models.Order, error) {
	var o models.Order
	if err := db.First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Order not found")
		}
		return nil, err
	}
	return &o, nil
}

// CanView reports whether p may read o: its owner, the assigned delivery
// person or any admin.
func CanView(o *models.Order, p principal.Principal) bool {
	switch p.Role {
	case models.RoleAdmin:
		return true
	case models.RoleUser:
		return o.UserID == p.AccountID
	case models.RoleDelivery:
		return o.DeliveryPersonID != nil && *o.DeliveryPersonID == p.AccountID
	}
	return false
}

// Filter narrows List. Zero fields are ignored.
type Filter struct {
	UserID           uint
	Status           models.OrderStatus
	DeliveryPersonID uint
	Limit            int
}

func List(db *gorm.DB, f Filter) ([]models.Order, error) {
	q := db.Model(&models.Order{})
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.DeliveryPersonID != 0 {
		q = q.Where("delivery_person_id = ?", f.DeliveryPersonID)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	list := []models.Order{}
	err := q.Order("created_at desc").Order("id desc").Find(&list).Error
	return list, err
}

func Recent(db *gorm.DB) ([]models.Order, error) {
	return List(db, Filter{Limit: recentLimit})
}

// UpdateStatus writes status unconditionally unless strict is set, in which
// case the move must be in the transition table for actor.
func UpdateStatus(db *gorm.DB, id uint, status models.OrderStatus, actor Actor, strict bool) (before, after *models.Order, err error) {
	if !status.Valid() {
		return nil, nil, apperr.Invalid("Unknown order status: " + string(status))
	}
	o, err := Get(db, id)
	if err != nil {
		return nil, nil, err
	}
	if strict {
		if err := checkTransition(o.Status, status, actor); err != nil {
			return nil, nil, err
		}
	}
	snapshot := *o
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := setStatus(tx, o, status); err != nil {
			return err
		}
		if status.Final() {
			return releaseRider(tx, o.DeliveryPersonID, id)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &snapshot, o, nil
}

// releaseRider drops the order from the rider's current orders. A rider that
// no longer exists has nothing to release.
func releaseRider(tx *gorm.DB, personID *uint, orderID uint) error {
	if personID == nil {
		return nil
	}
	_, err := delivery.CompleteOrder(tx, *personID, strconv.FormatUint(uint64(orderID), 10))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	return err
}

func setStatus(db *gorm.DB, o *models.Order, status models.OrderStatus) error {
	if err := db.Model(o).Update("status", status).Error; err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	o.Status = status
	metrics.OrderStatusChanges.WithLabelValues(string(status)).Inc()
	return nil
}

// AssignDeliveryPerson sets the delivery person and forces out-for-delivery
// whatever the current status. The order moves to the person's current
// orders, leaving those of any previous person.
func AssignDeliveryPerson(db *gorm.DB, id, personID uint) (before, after *models.Order, err error) {
	var snapshot models.Order
	var order *models.Order
	err = db.Transaction(func(tx *gorm.DB) error {
		o, err := Get(tx, id)
		if err != nil {
			return err
		}
		snapshot = *o
		if o.DeliveryPersonID != nil && *o.DeliveryPersonID != personID {
			if err := releaseRider(tx, o.DeliveryPersonID, id); err != nil {
				return err
			}
		}
		if _, err := delivery.AssignOrder(tx, personID, strconv.FormatUint(uint64(id), 10)); err != nil {
			return err
		}
		if err := tx.Model(o).Updates(map[string]any{
			"delivery_person_id": personID,
			"status":             models.OrderOutForDelivery,
		}).Error; err != nil {
			return fmt.Errorf("assign delivery person: %w", err)
		}
		o.DeliveryPersonID = &personID
		o.Status = models.OrderOutForDelivery
		order = o
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	metrics.OrderStatusChanges.WithLabelValues(string(models.OrderOutForDelivery)).Inc()
	return &snapshot, order, nil
}

// Cancel lets the owner cancel while the kitchen has not handed the order
// over; admins may cancel in any state.
func Cancel(db *gorm.DB, id uint, p principal.Principal) (before, after *models.Order, err error) {
	o, err := Get(db, id)
	if err != nil {
		return nil, nil, err
	}
	switch p.Role {
	case models.RoleAdmin:
	case models.RoleUser:
		if o.UserID != p.AccountID {
			return nil, nil, apperr.NotFound("Order not found")
		}
		if !CanTransition(o.Status, models.OrderCancelled, ActorCustomer) {
			return nil, nil, apperr.Conflict("Order can no longer be cancelled")
		}
	default:
		return nil, nil, apperr.Forbidden("Not allowed to cancel this order")
	}
	snapshot := *o
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := setStatus(tx, o, models.OrderCancelled); err != nil {
			return err
		}
		return releaseRider(tx, o.DeliveryPersonID, id)
	})
	if err != nil {
		return nil, nil, err
	}
	return &snapshot, o, nil
}

// MarkDelivered is the delivery person's own completion: the order becomes
// delivered and leaves the person's current orders.
func MarkDelivered(db *gorm.DB, id, personID uint, strict bool) (before, after *models.Order, err error) {
	var snapshot models.Order
	var order *models.Order
	err = db.Transaction(func(tx *gorm.DB) error {
		o, err := Get(tx, id)
		if err != nil {
			return err
		}
		if o.DeliveryPersonID == nil || *o.DeliveryPersonID != personID {
			return apperr.NotFound("Order not found")
		}
		if strict {
			if err := checkTransition(o.Status, models.OrderDelivered, ActorDelivery); err != nil {
				return err
			}
		}
		snapshot = *o
		if err := setStatus(tx, o, models.OrderDelivered); err != nil {
			return err
		}
		if _, err := delivery.CompleteOrder(tx, personID, strconv.FormatUint(uint64(id), 10)); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &snapshot, order, nil
}

// Stats scans every order; there is no incremental bookkeeping.
func Stats(db *gorm.DB) (Statistics, error) {
	type row struct {
		Status  models.OrderStatus
		Count   int64
		Revenue float64
	}
	var rows []row
	err := db.Model(&models.Order{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS revenue").
		Group("status").Scan(&rows).Error
	if err != nil {
		return Statistics{}, err
	}

	var s Statistics
	for _, r := range rows {
		s.TotalOrders += r.Count
		switch r.Status {
		case models.OrderPending:
			s.PendingOrders = r.Count
		case models.OrderConfirmed:
			s.ConfirmedOrders = r.Count
		case models.OrderPreparing:
			s.PreparingOrders = r.Count
		case models.OrderOutForDelivery:
			s.OutForDelivery = r.Count
		case models.OrderDelivered:
			s.DeliveredOrders = r.Count
			s.TotalRevenue = round2(r.Revenue)
		case models.OrderCancelled:
			s.CancelledOrders = r.Count
		}
	}
	return s, nil
}
