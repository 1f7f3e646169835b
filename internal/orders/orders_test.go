package orders_test

import (
	"fmt"
	"net/http"
	"testing"

	"sahone-backend/internal/models"
	"sahone-backend/internal/orders"
	"sahone-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []models.OrderItem {
	return []models.OrderItem{
		{ItemID: "m1", Name: "Chicken Roll", Quantity: 2, Price: 200},
		{ItemID: "m2", Name: "Veg Chowmein", Quantity: 1, Price: 150, Portion: "full"},
	}
}

func TestComputeTotals(t *testing.T) {
	got := orders.ComputeTotals(sampleItems(), 50)
	assert.Equal(t, 550.0, got.Subtotal)
	assert.Equal(t, 50.0, got.DeliveryCharge)
	assert.Equal(t, 600.0, got.Total)

	assert.Equal(t, orders.Totals{}, orders.ComputeTotals(nil, 0))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, orders.CanTransition(models.OrderPending, models.OrderConfirmed, orders.ActorAdmin))
	assert.True(t, orders.CanTransition(models.OrderPreparing, models.OrderCancelled, orders.ActorCustomer))
	assert.True(t, orders.CanTransition(models.OrderOutForDelivery, models.OrderDelivered, orders.ActorDelivery))

	assert.False(t, orders.CanTransition(models.OrderOutForDelivery, models.OrderCancelled, orders.ActorCustomer))
	assert.False(t, orders.CanTransition(models.OrderDelivered, models.OrderPending, orders.ActorAdmin))
	assert.False(t, orders.CanTransition(models.OrderPending, models.OrderConfirmed, orders.ActorCustomer))

	assert.Empty(t, orders.ValidTransitionsFrom(models.OrderDelivered))
	assert.ElementsMatch(t,
		[]models.OrderStatus{models.OrderConfirmed, models.OrderCancelled},
		orders.ValidTransitionsFrom(models.OrderPending))
}

type created struct {
	ID uint `json:"id"`
}

func placeOrder(t *testing.T, env *testutil.Env, token string, body map[string]any) uint {
	t.Helper()
	var c created
	status := env.JSON(t, http.MethodPost, "/api/orders", body, token, &c)
	require.Equal(t, http.StatusCreated, status)
	require.NotZero(t, c.ID)
	return c.ID
}

func defaultBody() map[string]any {
	return map[string]any{"items": sampleItems(), "deliveryAddress": "Traffic Chowk, Butwal"}
}

func TestCreateOrder_ComputesTotalsAndDefaults(t *testing.T) {
	env := testutil.New(t, nil, nil)
	u, token := env.User(t, "c@sahone.test")

	body := defaultBody()
	body["totalAmount"] = 1 // ignored
	id := placeOrder(t, env, token, body)

	o, err := orders.Get(env.DB, id)
	require.NoError(t, err)
	assert.Equal(t, u.ID, o.UserID)
	assert.Equal(t, 550.0, o.Subtotal)
	assert.Equal(t, 50.0, o.DeliveryCharge)
	assert.Equal(t, 600.0, o.TotalAmount)
	assert.Equal(t, models.OrderPending, o.Status)
	assert.Equal(t, models.DefaultPaymentMethod, o.PaymentMethod)
	assert.Equal(t, u.Name, o.CustomerName)
	assert.Equal(t, u.Email, o.CustomerEmail)
	assert.Len(t, o.Items, 2)
	assert.Nil(t, o.DeliveryPersonID)
}

func TestCreateOrder_Validation(t *testing.T) {
	env := testutil.New(t, nil, nil)
	_, token := env.User(t, "c@sahone.test")

	cases := []struct {
		name string
		body map[string]any
	}{
		{"no items", map[string]any{"items": []any{}, "deliveryAddress": "x"}},
		{"zero quantity", map[string]any{"items": []map[string]any{{"itemId": "m1", "name": "Roll", "quantity": 0, "price": 10}}, "deliveryAddress": "x"}},
		{"negative price", map[string]any{"items": []map[string]any{{"itemId": "m1", "name": "Roll", "quantity": 1, "price": -1}}, "deliveryAddress": "x"}},
		{"no address", map[string]any{"items": sampleItems()}},
		{"negative charge", map[string]any{"items": sampleItems(), "deliveryAddress": "x", "deliveryCharge": -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := env.Do(t, http.MethodPost, "/api/orders", tc.body, token)
			assert.Equal(t, http.StatusBadRequest, status)
		})
	}
}

func TestCreateOrder_RejectedWhileClosed(t *testing.T) {
	env := testutil.New(t, nil, nil)
	_, token := env.User(t, "c@sahone.test")
	_, admin := env.Admin(t, "boss@sahone.test")

	status, _ := env.Do(t, http.MethodPut, "/api/admin/restaurant/status", map[string]any{"isOpen": false}, admin)
	require.Equal(t, http.StatusOK, status)

	status, _ = env.Do(t, http.MethodPost, "/api/orders", defaultBody(), token)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = env.Do(t, http.MethodPut, "/api/admin/restaurant/status", map[string]any{"isOpen": true}, admin)
	require.Equal(t, http.StatusOK, status)

	require.NoError(t, env.DB.Create(&models.ServingHoursConfig{IsClosed: true, Reason: "Festival"}).Error)
	status, raw := env.Do(t, http.MethodPost, "/api/orders", defaultBody(), token)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, testutil.ErrorMessage(t, raw), "Festival")
}

func TestCreateOrder_OnlyCustomers(t *testing.T) {
	env := testutil.New(t, nil, nil)
	_, admin := env.Admin(t, "boss@sahone.test")
	status, _ := env.Do(t, http.MethodPost, "/api/orders", defaultBody(), admin)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestUpdateStatus_TotalNeverRecomputed(t *testing.T) {
	env := testutil.New(t, nil, nil)
	_, token := env.User(t, "c@sahone.test")
	_, admin := env.Admin(t, "boss@sahone.test")
	id := placeOrder(t, env, token, defaultBody())

	for _, st := range []models.OrderStatus{models.OrderConfirmed, models.OrderPreparing} {
		status, _ := env.Do(t, http.MethodPatch, fmt.Sprintf("/api/admin/orders/%d/status", id), map[string]any{"status": st}, admin)
		require.Equal(t, http.StatusOK, status)
	}
	// price changes after the fact do not touch the stored totals
	require.NoError(t, env.DB.Model(&models.Order{}).Where("id = ?", id).Update("delivery_charge", 999).Error)
	status, _ := env.Do(t, http.MethodPatch, fmt.Sprintf("/api/admin/orders/%d/status", id), map[string]any{"status": models.OrderOutForDelivery}, admin)
	require.Equal(t, http.StatusOK, status)

	o, err := orders.Get(env.DB, id)
	require.NoError(t, err)
	assert.Equal(t, models.OrderOutForDelivery, o.Status)
	assert.Equal(t, 600.0, o.TotalAmount)
	assert.Equal(t, 550.0, o.Subtotal)
}

func TestUpdateStatus_UnguardedByDefault(t *testing.T) {
	env := testutil.New(t, nil, nil)
	_, token := env.User(t, "c@sahone.test")
	_, admin := env.Admin(t, "boss@sahone.test")
	id := placeOrder(t, env, token, defaultBody())

	status, _ := env.Do(t, http.MethodPatch, fmt.Sprintf("/api/admin/orders/%d/status", id), map[string]any{"status": "delivered"}, admin)
	require.Equal(t, http.StatusOK, status)
	status, _ = env.Do(t, http.MethodPatch, fmt.Sprintf("/api/admin/orders/%d/status", id), map[string]any{"status": "pending"}, admin)
	assert.Equal(t, http.StatusOK, status)

	status, _ = env.Do(t, http.MethodPatch, fmt.Sprintf("/api/admin/orders/%d/status", id), map[string]any{"status": "lost"}, admin)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestUpdateStatus_StrictMode(t *testing.T) {
	cfg := testutil.Config()
	cfg.StrictOrderTransitions = true
	env := testutil.New(t, cfg, nil)
	_, token := env.User(t, "c@sahone.test")
	_, admin := env.Admin(t, "boss@sahone.test")
	id := placeOrder(t, env, token, defaultBody())

	status, _ := env.Do(t, http.MethodPatch, fmt.Sprintf("/api/admin/orders/%d/status", id), map[string]any{"status": "delivered"}, admin)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = env.Do(t, http.MethodPatch, fmt.Sprintf("/api/admin/orders/%d/status", id), map[string]any{"status": "confirmed"}, admin)
	assert.Equal(t, http.StatusOK, status)
}

func TestAssignDeliveryPerson_ForcesOutForDelivery(t *testing.T) {
	for _, prior := range []models.OrderStatus{models.OrderPending, models.OrderDelivered, models.OrderCancelled} {
		t.Run(string(prior), func(t *testing.T) {
			env := testutil.New(t, nil, nil)
			_, token := env.User(t, "c@sahone.test")
			_, admin := env.Admin(t, "boss@sahone.test")
			rider, _ := env.Rider(t, "rider@sahone.test")
			id := placeOrder(t, env, token, defaultBody())
			require.NoError(t, env.DB.Model(&models.Order{}).Where("id = ?", id).Update("status", prior).Error)

			path := fmt.Sprintf("/api/admin/orders/%d/assign", id)
			status, _ := env.Do(t, http.MethodPost, path, map[string]any{"deliveryPersonId": rider.ID}, admin)
			require.Equal(t, http.StatusOK, status)
			// assigning twice keeps a single entry
			status, _ = env.Do(t, http.MethodPost, path, map[string]any{"deliveryPersonId": rider.ID}, admin)
			require.Equal(t, http.StatusOK, status)

			o, err := orders.Get(env.DB, id)
			require.NoError(t, err)
			assert.Equal(t, models.OrderOutForDelivery, o.Status)
			require.NotNil(t, o.DeliveryPersonID)
			assert.Equal(t, rider.ID, *o.DeliveryPersonID)

			var person models.DeliveryPerson
			require.NoError(t, env.DB.First(&person, rider.ID).Error)
			assert.Equal(t, []string{fmt.Sprint(id)}, person.CurrentOrders)
		})
	}
}

func currentOrders(t *testing.T, env *testutil.Env, id uint) []string {
	t.Helper()
	var person models.DeliveryPerson
	require.NoError(t, env.DB.First(&person, id).Error)
	return person.CurrentOrders
}

func TestAssignDeliveryPerson_ReassignMovesOrder(t *testing.T) {
	env := testutil.New(t, nil, nil)
	_, token := env.User(t, "c@sahone.test")
	_, admin := env.Admin(t, "boss@sahone.test")
	first, _ := env.Rider(t, "rider@sahone.test")
	second, _ := env.Rider(t, "rider2@sahone.test")
	id := placeOrder(t, env, token, defaultBody())
	path := fmt.Sprintf("/api/admin/orders/%d/assign", id)

	status, _ := env.Do(t, http.MethodPost, path, map[string]any{"deliveryPersonId": first.ID}, admin)
	require.Equal(t, http.StatusOK, status)
	status, _ = env.Do(t, http.MethodPost, path, map[string]any{"deliveryPersonId": second.ID}, admin)
	require.Equal(t, http.StatusOK, status)

	assert.Empty(t, currentOrders(t, env, first.ID))
	assert.Equal(t, []string{fmt.Sprint(id)}, currentOrders(t, env, second.ID))

	status, _ = env.Do(t, http.MethodPost, fmt.Sprintf("/api/orders/%d/cancel", id), nil, admin)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, currentOrders(t, env, second.ID))
}

func TestUpdateStatus_FinalStatusReleasesRider(t *testing.T) {
	env := testutil.New(t, nil, nil)
	_, token := env.User(t, "c@sahone.test")
	_, admin := env.Admin(t, "boss@sahone.test")
	rider, _ := env.Rider(t, "rider@sahone.test")

	delivered := placeOrder(t, env, token, defaultBody())
	kept := placeOrder(t, env, token, defaultBody())
	for _, id := range []uint{delivered, kept} {
		status, _ := env.Do(t, http.MethodPost, fmt.Sprintf("/api/admin/orders/%d/assign", id), map[string]any{"deliveryPersonId": rider.ID}, admin)
		require.Equal(t, http.StatusOK, status)
	}

	status, _ := env.Do(t, http.MethodPatch, fmt.Sprintf("/api/admin/orders/%d/status", kept), map[string]any{"status": "preparing"}, admin)
	require.Equal(t, http.StatusOK, status)
	status, _ = env.Do(t, http.MethodPatch, fmt.Sprintf("/api/admin/orders/%d/status", delivered), map[string]any{"status": "delivered"}, admin)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, []string{fmt.Sprint(kept)}, currentOrders(t, env, rider.ID))
}

func TestCancel_DeletedRiderIsIgnored(t *testing.T) {
	env := testutil.New(t, nil, nil)
	_, token := env.User(t, "c@sahone.test")
	_, admin := env.Admin(t, "boss@sahone.test")
	rider, _ := env.Rider(t, "rider@sahone.test")
	id := placeOrder(t, env, token, defaultBody())

	status, _ := env.Do(t, http.MethodPost, fmt.Sprintf("/api/admin/orders/%d/assign", id), map[string]any{"deliveryPersonId": rider.ID}, admin)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, env.DB.Delete(&models.DeliveryPerson{}, rider.ID).Error)

	status, _ = env.Do(t, http.MethodPost, fmt.Sprintf("/api/orders/%d/cancel", id), nil, admin)
	assert.Equal(t, http.StatusOK, status)
}

func TestAssignDeliveryPerson_UnknownPerson(t *testing.T) {
	env := testutil.New(t, nil, nil)
	_, token := env.User(t, "c@sahone.test")
	_, admin := env.Admin(t, "boss@sahone.test")
	id := placeOrder(t, env, token, defaultBody())

	status, _ := env.Do(t, http.MethodPost, fmt.Sprintf("/api/admin/orders/%d/assign", id), map[string]any{"deliveryPersonId": 42}, admin)
	assert.Equal(t, http.StatusNotFound, status)

	o, err := orders.Get(env.DB, id)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, o.Status)
}

func TestCancel_OwnerRules(t *testing.T) {
	env := testutil.New(t, nil, nil)
	_, owner := env.User(t, "c@sahone.test")
	_, other := env.User(t, "d@sahone.test")
	_, admin := env.Admin(t, "boss@sahone.test")

	id := placeOrder(t, env, owner, defaultBody())
	status, _ := env.Do(t, http.MethodPost, fmt.Sprintf("/api/orders/%d/cancel", id), nil, other)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = env.Do(t, http.MethodPost, fmt.Sprintf("/api/orders/%d/cancel", id), nil, owner)
	assert.Equal(t, http.StatusOK, status)

	late := placeOrder(t, env, owner, defaultBody())
	require.NoError(t, env.DB.Model(&models.Order{}).Where("id = ?", late).Update("status", models.OrderOutForDelivery).Error)
	status, _ = env.Do(t, http.MethodPost, fmt.Sprintf("/api/orders/%d/cancel", late), nil, owner)
	assert.Equal(t, http.StatusConflict, status)
	status, _ = env.Do(t, http.MethodPost, fmt.Sprintf("/api/orders/%d/cancel", late), nil, admin)
	assert.Equal(t, http.StatusOK, status)

	o, err := orders.Get(env.DB, late)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, o.Status)
}

func TestGetOrder_Visibility(t *testing.T) {
	env := testutil.New(t, nil, nil)
	_, owner := env.User(t, "c@sahone.test")
	_, other := env.User(t, "d@sahone.test")
	_, admin := env.Admin(t, "boss@sahone.test")
	rider, riderTok := env.Rider(t, "rider@sahone.test")
	_, otherRider := env.Rider(t, "rider2@sahone.test")
	id := placeOrder(t, env, owner, defaultBody())

	path := fmt.Sprintf("/api/orders/%d", id)
	status, _ := env.Do(t, http.MethodGet, path, nil, owner)
	assert.Equal(t, http.StatusOK, status)
	status, _ = env.Do(t, http.MethodGet, path, nil, other)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = env.Do(t, http.MethodGet, path, nil, riderTok)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.Do(t, http.MethodPost, fmt.Sprintf("/api/admin/orders/%d/assign", id), map[string]any{"deliveryPersonId": rider.ID}, admin)
	require.Equal(t, http.StatusOK, status)

	status, _ = env.Do(t, http.MethodGet, path, nil, riderTok)
	assert.Equal(t, http.StatusOK, status)
	status, _ = env.Do(t, http.MethodGet, path, nil, otherRider)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = env.Do(t, http.MethodGet, path, nil, admin)
	assert.Equal(t, http.StatusOK, status)
}

func TestDeliverySelfService(t *testing.T) {
	env := testutil.New(t, nil, nil)
	_, owner := env.User(t, "c@sahone.test")
	_, admin := env.Admin(t, "boss@sahone.test")
	rider, riderTok := env.Rider(t, "rider@sahone.test")
	id := placeOrder(t, env, owner, defaultBody())

	status, _ := env.Do(t, http.MethodPost, fmt.Sprintf("/api/admin/orders/%d/assign", id), map[string]any{"deliveryPersonId": rider.ID}, admin)
	require.Equal(t, http.StatusOK, status)

	var mine []models.Order
	require.Equal(t, http.StatusOK, env.JSON(t, http.MethodGet, "/api/delivery/me/orders", nil, riderTok, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, id, mine[0].ID)

	status, _ = env.Do(t, http.MethodPost, fmt.Sprintf("/api/delivery/me/orders/%d/delivered", id), nil, riderTok)
	require.Equal(t, http.StatusOK, status)

	o, err := orders.Get(env.DB, id)
	require.NoError(t, err)
	assert.Equal(t, models.OrderDelivered, o.Status)

	var person models.DeliveryPerson
	require.NoError(t, env.DB.First(&person, rider.ID).Error)
	assert.Empty(t, person.CurrentOrders)

	status, _ = env.Do(t, http.MethodGet, "/api/delivery/me/orders", nil, owner)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestListsAndStatistics(t *testing.T) {
	env := testutil.New(t, nil, nil)
	_, c1 := env.User(t, "c@sahone.test")
	u2, c2 := env.User(t, "d@sahone.test")
	_, admin := env.Admin(t, "boss@sahone.test")

	a := placeOrder(t, env, c1, defaultBody())
	placeOrder(t, env, c1, defaultBody())
	placeOrder(t, env, c2, map[string]any{"items": sampleItems()[:1], "deliveryAddress": "x", "deliveryCharge": 0})
	require.NoError(t, env.DB.Model(&models.Order{}).Where("id = ?", a).Update("status", models.OrderDelivered).Error)

	var mine []models.Order
	require.Equal(t, http.StatusOK, env.JSON(t, http.MethodGet, "/api/orders/mine", nil, c1, &mine))
	assert.Len(t, mine, 2)

	var byUser []models.Order
	require.Equal(t, http.StatusOK, env.JSON(t, http.MethodGet, fmt.Sprintf("/api/admin/orders/user/%d", u2.ID), nil, admin, &byUser))
	require.Len(t, byUser, 1)
	assert.Equal(t, 400.0, byUser[0].TotalAmount)

	var pending []models.Order
	require.Equal(t, http.StatusOK, env.JSON(t, http.MethodGet, "/api/admin/orders/status/pending", nil, admin, &pending))
	assert.Len(t, pending, 2)

	var stats orders.Statistics
	require.Equal(t, http.StatusOK, env.JSON(t, http.MethodGet, "/api/admin/orders/statistics", nil, admin, &stats))
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(2), stats.PendingOrders)
	assert.Equal(t, int64(1), stats.DeliveredOrders)
	assert.Equal(t, 600.0, stats.TotalRevenue)

	var recent []models.Order
	require.Equal(t, http.StatusOK, env.JSON(t, http.MethodGet, "/api/admin/orders/recent", nil, admin, &recent))
	assert.Len(t, recent, 3)
}

func TestExportOrders(t *testing.T) {
	env := testutil.New(t, nil, nil)
	_, c1 := env.User(t, "c@sahone.test")
	_, admin := env.Admin(t, "boss@sahone.test")
	placeOrder(t, env, c1, defaultBody())

	status, raw := env.Do(t, http.MethodGet, "/api/admin/orders/export", nil, admin)
	require.Equal(t, http.StatusOK, status)
	// xlsx is a zip archive
	require.Greater(t, len(raw), 4)
	assert.Equal(t, "PK", string(raw[:2]))
}
