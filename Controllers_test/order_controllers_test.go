package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/tablemate/models"
)

func placeOrder(t *testing.T, app *testApp, token, name string, price float64) models.Order {
	t.Helper()
	code, env := app.do(t, http.MethodPost, "/orders", token, map[string]interface{}{
		"order_name":  name,
		"order_price": price,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var order models.Order
	decode(t, env, &order)
	return order
}

func TestCreateOrderUsesSeat(t *testing.T) {
	app := setupTestApp(t)
	app.server(t, "will")
	alice, token := app.customer(t, "alice")
	table := app.join(t, token, "2")

	order := placeOrder(t, app, token, "Pancakes", 7.5)

	assert.Equal(t, alice.ID, order.CustomerID)
	assert.Equal(t, "alice", order.CustomerFirstName)
	assert.Equal(t, table.AddressTableCombo, order.AddressTableCombo)
	assert.Equal(t, "2", order.TableNumber)
	assert.Equal(t, models.OrderStateNew, order.State)
	assert.True(t, order.Active)
}

func TestCreateOrderValidation(t *testing.T) {
	app := setupTestApp(t)
	app.server(t, "will")
	_, token := app.customer(t, "alice")

	// not seated yet
	code, _ := app.do(t, http.MethodPost, "/orders", token, map[string]interface{}{
		"order_name": "Soup", "order_price": 3,
	})
	assert.Equal(t, http.StatusNotFound, code)

	app.join(t, token, "2")

	code, _ = app.do(t, http.MethodPost, "/orders", token, map[string]interface{}{
		"order_name": "Soup", "order_price": -1,
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = app.do(t, http.MethodPost, "/orders", token, map[string]interface{}{
		"order_name": "Soup",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	var count int64
	require.NoError(t, app.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOrderLifecycleRoutes(t *testing.T) {
	app := setupTestApp(t)
	_, willToken := app.server(t, "will")
	_, token := app.customer(t, "alice")
	app.join(t, token, "2")
	order := placeOrder(t, app, token, "Soup", 4)

	advance := func(path string, body interface{}) (int, models.Order) {
		code, env := app.do(t, http.MethodPost, fmt.Sprintf("/orders/%d/%s", order.ID, path), willToken, body)
		var o models.Order
		if code == http.StatusOK {
			decode(t, env, &o)
		}
		return code, o
	}

	code, _ := advance("advance", map[string]string{"state": "paid"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = advance("advance", map[string]string{"state": "cooking"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, o := advance("queue", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.OrderStateQueued, o.State)

	code, o = advance("deliver", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.OrderStateDelivered, o.State)
	assert.True(t, o.PaymentPending)

	code, _ = app.do(t, http.MethodPost, fmt.Sprintf("/orders/%d/queue", order.ID), token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = app.do(t, http.MethodPost, "/orders/999/queue", willToken, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = app.do(t, http.MethodPost, "/orders/abc/queue", willToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCheckoutRoute(t *testing.T) {
	app := setupTestApp(t)
	app.server(t, "will")
	_, token := app.customer(t, "alice")
	table := app.join(t, token, "6")
	placeOrder(t, app, token, "Soup", 10)
	placeOrder(t, app, token, "Salad", 5.5)

	code, env := app.do(t, http.MethodGet, "/tables/orders?address_table_combo="+urlEscape(table.AddressTableCombo), token, nil)
	require.Equal(t, http.StatusOK, code)
	var tableOrders []models.Order
	decode(t, env, &tableOrders)
	assert.Len(t, tableOrders, 2)

	code, env = app.do(t, http.MethodPost, "/checkout", token, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, "Checkout complete, total $15.50", env.Message)
	var result struct {
		Bill          float64 `json:"bill"`
		ReceiptID     uint    `json:"receipt_id"`
		TableReleased bool    `json:"table_released"`
	}
	decode(t, env, &result)
	assert.Equal(t, 15.5, result.Bill)
	assert.True(t, result.TableReleased)

	code, env = app.do(t, http.MethodGet, "/receipts", token, nil)
	require.Equal(t, http.StatusOK, code)
	var receipts []models.Receipt
	decode(t, env, &receipts)
	require.Len(t, receipts, 1)
	assert.Equal(t, result.ReceiptID, receipts[0].ID)
	assert.Equal(t, "will", receipts[0].ServerName)

	code, env = app.do(t, http.MethodGet, "/orders", token, nil)
	require.Equal(t, http.StatusOK, code)
	var history []models.Order
	decode(t, env, &history)
	require.Len(t, history, 2)
	for _, o := range history {
		assert.False(t, o.Active)
		assert.Equal(t, models.OrderStatePaid, o.State)
	}

	// seat is gone, so a second checkout has nothing to close
	code, _ = app.do(t, http.MethodPost, "/checkout", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}
