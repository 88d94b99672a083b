package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderStateFlow(t *testing.T) {
	assert.True(t, OrderStateNew.CanAdvanceTo(OrderStateQueued))
	assert.True(t, OrderStateQueued.CanAdvanceTo(OrderStateDelivered))
	assert.True(t, OrderStateDelivered.CanAdvanceTo(OrderStatePaid))

	assert.False(t, OrderStateNew.CanAdvanceTo(OrderStatePaid))
	assert.False(t, OrderStateNew.CanAdvanceTo(OrderStateNew))
	assert.False(t, OrderStateQueued.CanAdvanceTo(OrderStateNew))
	assert.False(t, OrderStatePaid.CanAdvanceTo(OrderStateNew))

	_, ok := OrderStatePaid.Next()
	assert.False(t, ok)
}

func TestParseOrderState(t *testing.T) {
	st, err := ParseOrderState("delivered")
	assert.NoError(t, err)
	assert.Equal(t, OrderStateDelivered, st)

	_, err = ParseOrderState("cooking")
	assert.Error(t, err)
}

func TestComboKeyAndReceiptNumber(t *testing.T) {
	assert.Equal(t, "1234 Restaurant St.12", ComboKey("1234 Restaurant St.", "12"))

	at := time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, "RCP/20240309/AB12CD34", NewReceiptNumber(at, "AB12CD34"))
}

func TestHasActiveTable(t *testing.T) {
	u := User{ActiveTableID: NoActiveTable}
	assert.False(t, u.HasActiveTable())
	u.ActiveTableID = 3
	assert.True(t, u.HasActiveTable())
}
