package models

import (
	"fmt"
	"time"
)

// OrderState is the lifecycle position of an order.
type OrderState string

const (
	OrderStateNew       OrderState = "new"
	OrderStateQueued    OrderState = "queued"
	OrderStateDelivered OrderState = "delivered"
	OrderStatePaid      OrderState = "paid"
)

// orderFlow lists the single legal successor of each state.
var orderFlow = map[OrderState]OrderState{
	OrderStateNew:       OrderStateQueued,
	OrderStateQueued:    OrderStateDelivered,
	OrderStateDelivered: OrderStatePaid,
}

// ParseOrderState accepts the wire names of the lifecycle states.
func ParseOrderState(s string) (OrderState, error) {
	switch st := OrderState(s); st {
	case OrderStateNew, OrderStateQueued, OrderStateDelivered, OrderStatePaid:
		return st, nil
	}
	return "", fmt.Errorf("unknown order state %q", s)
}

// Next returns the successor state, false for the terminal state.
func (s OrderState) Next() (OrderState, bool) {
	next, ok := orderFlow[s]
	return next, ok
}

// CanAdvanceTo reports whether target is the immediate successor of s.
func (s OrderState) CanAdvanceTo(target OrderState) bool {
	next, ok := s.Next()
	return ok && next == target
}

type Order struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	CustomerID        uint       `gorm:"not null;index:idx_customer_table" json:"customer_id"`
	CustomerFirstName string     `gorm:"type:varchar(100)" json:"customer_first_name"`
	AddressTableCombo string     `gorm:"type:varchar(255);not null;index:idx_customer_table" json:"address_table_combo"`
	RestaurantAddress string     `gorm:"type:varchar(255)" json:"restaurant_address"`
	TableNumber       string     `gorm:"type:varchar(50)" json:"table_number"`
	ItemName          string     `gorm:"type:varchar(255);not null" json:"order_name"`
	Price             float64    `gorm:"type:decimal(10,2);not null" json:"order_price"`
	Active            bool       `gorm:"not null;default:true;index" json:"active_order"`
	State             OrderState `gorm:"type:varchar(20);not null;default:'new'" json:"state"`
	PaymentPending    bool       `gorm:"not null;default:false" json:"payment_pending"`
	ReceiptID         *uint      `gorm:"index" json:"receipt_id,omitempty"`
	CreatedAt         time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"not null" json:"updated_at"`
}
