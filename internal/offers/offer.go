package offers

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"sahone-backend/internal/models"
)

// Result is the answer to a code validation.
type Result struct {
	Valid    bool          `json:"valid"`
	Message  string        `json:"message,omitempty"`
	Discount float64       `json:"discount"`
	Offer    *models.Offer `json:"offer,omitempty"`
}

// Active reports whether o is switched on and now is inside its window.
func Active(o *models.Offer, now time.Time) bool {
	ms := now.UnixMilli()
	return o.IsActive && o.ValidFrom <= ms && o.ValidTo >= ms
}

// Discount computes what o takes off amount. Percentage discounts are
// capped at MaxDiscount, and no discount exceeds the amount itself.
func Discount(o *models.Offer, amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	var d float64
	switch o.DiscountType {
	case models.DiscountPercentage:
		d = amount * o.DiscountValue / 100
		if o.MaxDiscount != nil && *o.MaxDiscount > 0 && d > *o.MaxDiscount {
			d = *o.MaxDiscount
		}
	default:
		d = o.DiscountValue
	}
	d = math.Max(0, math.Min(d, amount))
	return math.Round(d*100) / 100
}

// Validate checks o (nil when the code is unknown) against an order amount.
func Validate(o *models.Offer, amount float64, now time.Time) Result {
	if o == nil {
		return Result{Message: "Invalid offer code"}
	}
	ms := now.UnixMilli()
	switch {
	case !o.IsActive:
		return Result{Message: "Offer is inactive"}
	case o.ValidFrom > ms:
		return Result{Message: "Offer not yet valid"}
	case o.ValidTo < ms:
		return Result{Message: "Offer has expired"}
	}
	if o.MinOrderAmount != nil && *o.MinOrderAmount > 0 && amount < *o.MinOrderAmount {
		return Result{Message: fmt.Sprintf("Minimum order amount is %s", strconv.FormatFloat(*o.MinOrderAmount, 'f', -1, 64))}
	}
	return Result{Valid: true, Discount: Discount(o, amount), Offer: o}
}
