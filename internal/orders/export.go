package orders

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"sahone-backend/internal/export"
	"sahone-backend/internal/models"
)

var orderHeader = []string{
	"Order ID", "Created", "Status", "Customer", "Phone", "Email",
	"Address", "Items", "Subtotal", "Delivery Charge", "Total", "Payment", "Delivery Person",
}

func itemsSummary(items []models.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		s := it.Name
		if it.Portion != "" {
			s += " (" + it.Portion + ")"
		}
		parts = append(parts, s+" x"+strconv.Itoa(it.Quantity))
	}
	return strings.Join(parts, ", ")
}

// ExportXLSX renders orders, one row each, into a single "Orders" sheet.
func ExportXLSX(list []models.Order) (*bytes.Buffer, error) {
	rows := make([][]any, 0, len(list))
	for _, o := range list {
		var person any = ""
		if o.DeliveryPersonID != nil {
			person = *o.DeliveryPersonID
		}
		rows = append(rows, []any{
			o.ID,
			time.UnixMilli(o.CreatedAt).Format("2006-01-02 15:04"),
			string(o.Status),
			o.CustomerName,
			o.CustomerPhone,
			o.CustomerEmail,
			o.DeliveryAddress,
			itemsSummary(o.Items),
			o.Subtotal,
			o.DeliveryCharge,
			o.TotalAmount,
			o.PaymentMethod,
			person,
		})
	}
	return export.Workbook(export.Sheet{Name: "Orders", Header: orderHeader, Rows: rows})
}
