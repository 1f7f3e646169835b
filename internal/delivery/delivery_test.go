package delivery_test

import (
	"fmt"
	"net/http"
	"testing"

	"sahone-backend/internal/delivery"
	"sahone-backend/internal/models"
	"sahone-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignAndCompleteOrder(t *testing.T) {
	env := testutil.New(t, nil, nil)
	rider, _ := env.Rider(t, "r@sahone.test")

	_, err := delivery.AssignOrder(env.DB, rider.ID, "11")
	require.NoError(t, err)
	_, err = delivery.AssignOrder(env.DB, rider.ID, "12")
	require.NoError(t, err)
	got, err := delivery.AssignOrder(env.DB, rider.ID, "11")
	require.NoError(t, err)
	assert.Equal(t, []string{"11", "12"}, got.CurrentOrders)

	got, err = delivery.CompleteOrder(env.DB, rider.ID, "11")
	require.NoError(t, err)
	assert.Equal(t, []string{"12"}, got.CurrentOrders)

	stored, err := delivery.Get(env.DB, rider.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"12"}, stored.CurrentOrders)

	_, err = delivery.AssignOrder(env.DB, rider.ID+100, "13")
	assert.Error(t, err)
}

func TestCreateOrUpdate(t *testing.T) {
	env := testutil.New(t, nil, nil)

	person, created, err := delivery.CreateOrUpdate(env.DB, delivery.Input{
		FirebaseUID: "fb-ram", Email: "ram@sahone.test", Name: "Ram", VehicleNumber: "Lu 1 Pa 2233",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, person.IsAvailable)
	assert.Empty(t, person.CurrentOrders)

	off := false
	again, created, err := delivery.CreateOrUpdate(env.DB, delivery.Input{
		FirebaseUID: "fb-ram", Email: "ram@sahone.test", Name: "Ram B", IsAvailable: &off,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, person.ID, again.ID)

	stored, err := delivery.Get(env.DB, person.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ram B", stored.Name)
	assert.False(t, stored.IsAvailable)
}

func TestDeliveryHTTP_AdminManagement(t *testing.T) {
	env := testutil.New(t, nil, nil)
	_, admin := env.Admin(t, "boss@sahone.test")

	var res struct {
		ID    uint `json:"id"`
		IsNew bool `json:"isNew"`
	}
	status := env.JSON(t, http.MethodPost, "/api/admin/delivery", map[string]any{
		"firebaseUid": "fb-hari", "email": "hari@sahone.test", "name": "Hari",
	}, admin, &res)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, res.IsNew)

	var available []models.DeliveryPerson
	require.Equal(t, http.StatusOK, env.JSON(t, http.MethodGet, "/api/admin/delivery/available", nil, admin, &available))
	require.Len(t, available, 1)

	status, _ = env.Do(t, http.MethodPatch, fmt.Sprintf("/api/admin/delivery/%d/availability", res.ID), map[string]any{"isAvailable": false}, admin)
	require.Equal(t, http.StatusOK, status)

	available = nil
	require.Equal(t, http.StatusOK, env.JSON(t, http.MethodGet, "/api/admin/delivery/available", nil, admin, &available))
	assert.Empty(t, available)

	status, _ = env.Do(t, http.MethodPost, fmt.Sprintf("/api/admin/delivery/%d/orders", res.ID), map[string]any{"orderId": "42"}, admin)
	require.Equal(t, http.StatusOK, status)

	var person models.DeliveryPerson
	require.Equal(t, http.StatusOK, env.JSON(t, http.MethodGet, "/api/admin/delivery/by-uid/fb-hari", nil, admin, &person))
	assert.Equal(t, []string{"42"}, person.CurrentOrders)

	status, _ = env.Do(t, http.MethodPost, fmt.Sprintf("/api/admin/delivery/%d/orders/42/complete", res.ID), nil, admin)
	require.Equal(t, http.StatusOK, status)

	status, _ = env.Do(t, http.MethodDelete, fmt.Sprintf("/api/admin/delivery/%d", res.ID), nil, admin)
	require.Equal(t, http.StatusOK, status)

	status, raw := env.Do(t, http.MethodGet, "/api/admin/delivery/by-uid/fb-hari", nil, admin)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "null", string(raw))
}

func TestDeliveryHTTP_SelfAvailability(t *testing.T) {
	env := testutil.New(t, nil, nil)
	rider, token := env.Rider(t, "r@sahone.test")
	_, customer := env.User(t, "c@sahone.test")

	status, _ := env.Do(t, http.MethodPatch, "/api/delivery/me/availability", map[string]any{"isAvailable": false}, token)
	require.Equal(t, http.StatusOK, status)

	stored, err := delivery.Get(env.DB, rider.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAvailable)

	status, _ = env.Do(t, http.MethodPatch, "/api/delivery/me/availability", map[string]any{"isAvailable": true}, customer)
	assert.Equal(t, http.StatusForbidden, status)
}
