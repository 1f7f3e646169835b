package orders

import (
	"math"

	"sahone-backend/internal/models"
)

type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DeliveryCharge float64 `json:"deliveryCharge"`
	Total          float64 `json:"totalAmount"`
}

// ComputeTotals sums price × quantity over items and adds the delivery charge.
// Amounts are rounded to two decimals.
func ComputeTotals(items []models.OrderItem, deliveryCharge float64) Totals {
	var sub float64
	for _, it := range items {
		sub += it.Price * float64(it.Quantity)
	}
	sub = round2(sub)
	charge := round2(deliveryCharge)
	return Totals{
		Subtotal:       sub,
		DeliveryCharge: charge,
		Total:          round2(sub + charge),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
