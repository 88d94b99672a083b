package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/tablemate/models"
)

func TestJoinTableAndViews(t *testing.T) {
	app := setupTestApp(t)
	will, willToken := app.server(t, "will")
	_, aliceToken := app.customer(t, "alice")
	_, bobToken := app.customer(t, "bob")

	table := app.join(t, aliceToken, "7")
	assert.Equal(t, 1, table.PartySize)
	assert.Equal(t, int64(will.ID), table.ServerID)

	table = app.join(t, bobToken, "7")
	assert.Equal(t, 2, table.PartySize)

	code, env := app.do(t, http.MethodGet, "/tables/active", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	var active models.Table
	decode(t, env, &active)
	assert.Equal(t, table.ID, active.ID)

	code, env = app.do(t, http.MethodGet, "/tables/active/id", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	var ids map[string]int64
	decode(t, env, &ids)
	assert.Equal(t, int64(table.ID), ids["active_table_id"])

	code, env = app.do(t, http.MethodGet, "/servers/current", bobToken, nil)
	require.Equal(t, http.StatusOK, code)
	decode(t, env, &ids)
	assert.Equal(t, int64(will.ID), ids["current_server_id"])

	code, env = app.do(t, http.MethodGet, "/tables/users?address_table_combo="+urlEscape(table.AddressTableCombo), aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	var users []models.User
	decode(t, env, &users)
	assert.Len(t, users, 2)

	code, env = app.do(t, http.MethodGet, "/tables/server", willToken, nil)
	require.Equal(t, http.StatusOK, code)
	var mine []models.Table
	decode(t, env, &mine)
	assert.Len(t, mine, 1)

	code, _ = app.do(t, http.MethodGet, "/tables/server", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestActiveTableNotSeated(t *testing.T) {
	app := setupTestApp(t)
	_, token := app.customer(t, "alice")

	code, env := app.do(t, http.MethodGet, "/tables/active", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Status)

	code, env = app.do(t, http.MethodGet, "/tables/active/id", token, nil)
	require.Equal(t, http.StatusOK, code)
	var ids map[string]int64
	decode(t, env, &ids)
	assert.Equal(t, int64(models.NoActiveTable), ids["active_table_id"])
}

func TestJoinWithoutServerIsConflict(t *testing.T) {
	app := setupTestApp(t)
	_, token := app.customer(t, "alice")

	code, env := app.do(t, http.MethodPost, "/tables/join", token, map[string]string{
		"restaurant_address": restaurant,
		"table_number":       "1",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, env.Message, "no server available")

	code, _ = app.do(t, http.MethodGet, "/servers/assign?restaurant_address="+urlEscape(restaurant), token, nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestJoinRequiresAuthAndBody(t *testing.T) {
	app := setupTestApp(t)
	_, token := app.customer(t, "alice")

	code, _ := app.do(t, http.MethodPost, "/tables/join", "", map[string]string{"table_number": "1"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = app.do(t, http.MethodPost, "/tables/join", token, map[string]string{"table_number": "1"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestDeleteTableIsServerOnly(t *testing.T) {
	app := setupTestApp(t)
	_, willToken := app.server(t, "will")
	alice, aliceToken := app.customer(t, "alice")
	table := app.join(t, aliceToken, "3")

	body := map[string]string{"address_table_combo": table.AddressTableCombo}
	code, _ := app.do(t, http.MethodPost, "/tables/delete", aliceToken, body)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = app.do(t, http.MethodPost, "/tables/delete", willToken, body)
	require.Equal(t, http.StatusOK, code)

	code, _ = app.do(t, http.MethodGet, "/tables/lookup?address_table_combo="+urlEscape(table.AddressTableCombo), aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, code)

	var fresh models.User
	require.NoError(t, app.db.First(&fresh, alice.ID).Error)
	assert.False(t, fresh.HasActiveTable())
}

func TestServiceRequestRoutes(t *testing.T) {
	app := setupTestApp(t)
	_, willToken := app.server(t, "will")
	_, aliceToken := app.customer(t, "alice")
	combo := app.join(t, aliceToken, "5").AddressTableCombo
	body := map[string]string{"address_table_combo": combo}

	code, _ := app.do(t, http.MethodPost, "/requests", aliceToken, body)
	require.Equal(t, http.StatusCreated, code)

	code, env := app.do(t, http.MethodPost, "/requests", aliceToken, body)
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, env.Retriable)

	code, env = app.do(t, http.MethodGet, "/requests?address_table_combo="+urlEscape(combo), aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	var status map[string]interface{}
	decode(t, env, &status)
	assert.Equal(t, true, status["request_made"])

	code, _ = app.do(t, http.MethodPost, "/requests/serve", willToken, body)
	require.Equal(t, http.StatusOK, code)

	code, env = app.do(t, http.MethodGet, "/requests?address_table_combo="+urlEscape(combo), aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	decode(t, env, &status)
	assert.Equal(t, false, status["request_made"])

	code, _ = app.do(t, http.MethodGet, "/requests", aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}
