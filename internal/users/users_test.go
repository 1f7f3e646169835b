package users_test

import (
	"net/http"
	"testing"

	"sahone-backend/internal/models"
	"sahone-backend/internal/testutil"
	"sahone-backend/internal/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrUpdateUser_KeepsFieldsNotSent(t *testing.T) {
	env := testutil.New(t, nil, nil)

	u, created, err := users.CreateOrUpdateUser(env.DB, users.Input{
		FirebaseUID: "fb-1", Email: "maya@sahone.test", Name: "Maya", Phone: "9800000001", Address: "Tilottama",
	})
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = users.CreateOrUpdateUser(env.DB, users.Input{FirebaseUID: "fb-1", Phone: "9800000002"})
	require.NoError(t, err)
	assert.False(t, created)

	var got models.User
	require.NoError(t, env.DB.First(&got, u.ID).Error)
	assert.Equal(t, "Maya", got.Name)
	assert.Equal(t, "9800000002", got.Phone)
	assert.Equal(t, "Tilottama", got.Address)
}

func TestUpdateMe(t *testing.T) {
	env := testutil.New(t, nil, nil)
	u, token := env.User(t, "c@sahone.test")
	_, riderToken := env.Rider(t, "r@sahone.test")

	status, _ := env.Do(t, http.MethodPut, "/api/users/me", map[string]any{"address": "Devinagar"}, token)
	require.Equal(t, http.StatusOK, status)

	var got models.User
	require.NoError(t, env.DB.First(&got, u.ID).Error)
	assert.Equal(t, "Devinagar", got.Address)
	assert.Equal(t, u.Name, got.Name)

	status, _ = env.Do(t, http.MethodPut, "/api/users/me", map[string]any{"address": "x"}, riderToken)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAdminUserLookups(t *testing.T) {
	env := testutil.New(t, nil, nil)
	_, admin := env.Admin(t, "boss@sahone.test")
	u, _ := env.User(t, "shyam@sahone.test")
	env.User(t, "gopal@sahone.test")

	var list []models.User
	require.Equal(t, http.StatusOK, env.JSON(t, http.MethodGet, "/api/admin/users", nil, admin, &list))
	assert.Len(t, list, 2)

	var got models.User
	require.Equal(t, http.StatusOK, env.JSON(t, http.MethodGet, "/api/admin/users/by-email?email=SHYAM@sahone.test", nil, admin, &got))
	assert.Equal(t, u.ID, got.ID)

	got = models.User{}
	require.Equal(t, http.StatusOK, env.JSON(t, http.MethodGet, "/api/admin/users/by-uid/"+u.FirebaseUID, nil, admin, &got))
	assert.Equal(t, u.Email, got.Email)

	status, raw := env.Do(t, http.MethodGet, "/api/admin/users/by-email?email=ghost@sahone.test", nil, admin)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "null", string(raw))

	status, _ = env.Do(t, http.MethodGet, "/api/admin/users/by-email", nil, admin)
	assert.Equal(t, http.StatusBadRequest, status)
}
