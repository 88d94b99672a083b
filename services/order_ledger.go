package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlaceOrder is an already-authenticated order from the API layer.
type PlaceOrder struct {
	CustomerID        uint
	CustomerFirstName string
	ComboKey          string
	RestaurantAddress string
	TableNumber       string
	ItemName          string
	Price             float64
}

// OrderLedger tracks orders from placement until checkout closes them.
type OrderLedger struct {
	db *gorm.DB
}

func NewOrderLedger(db *gorm.DB) *OrderLedger {
	return &OrderLedger{db: db}
}

// Place stores a new, active order.
func (l *OrderLedger) Place(ctx context.Context, in PlaceOrder) (*models.Order, error) {
	item := strings.TrimSpace(in.ItemName)
	if item == "" {
		return nil, validationError("order_name is required")
	}
	if math.IsNaN(in.Price) || math.IsInf(in.Price, 0) || in.Price < 0 {
		return nil, validationError("order_price must be a non-negative number, got %v", in.Price)
	}

	order := models.Order{
		CustomerID:        in.CustomerID,
		CustomerFirstName: in.CustomerFirstName,
		AddressTableCombo: in.ComboKey,
		RestaurantAddress: in.RestaurantAddress,
		TableNumber:       in.TableNumber,
		ItemName:          item,
		Price:             in.Price,
		Active:            true,
		State:             models.OrderStateNew,
	}
	if err := l.db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, storeError("place order", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"combo":    order.AddressTableCombo,
		"customer": order.CustomerID,
	}).Infof("Order placed: %s (%.2f)", order.ItemName, order.Price)
	return &order, nil
}

// Advance moves an order one step along new -> queued -> delivered -> paid.
func (l *OrderLedger) Advance(ctx context.Context, orderID uint, target models.OrderState) (*models.Order, error) {
	var order models.Order
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		from := order.State
		if !order.Active || !from.CanAdvanceTo(target) {
			return fmt.Errorf("%w: order %d cannot go from %s to %s", ErrInvalidTransition, orderID, from, target)
		}

		changes := map[string]interface{}{"state": target}
		switch target {
		case models.OrderStateDelivered:
			changes["payment_pending"] = true
		case models.OrderStatePaid:
			changes["payment_pending"] = false
			changes["active"] = false
		}

		// the state guard turns a lost race into a rejected transition
		moved := tx.Model(&models.Order{}).
			Where("id = ? AND state = ?", orderID, from).
			Updates(changes)
		if moved.Error != nil {
			return moved.Error
		}
		if moved.RowsAffected == 0 {
			return fmt.Errorf("%w: order %d changed concurrently", ErrInvalidTransition, orderID)
		}
		return tx.First(&order, orderID).Error
	})
	if err != nil {
		return nil, storeError("advance order", err)
	}

	orderTransitions.WithLabelValues(string(target)).Inc()
	utils.InfoLogger.WithField("order_id", orderID).Infof("Order moved to %s", target)
	return &order, nil
}

// ActiveForCustomerAtTable lists what the customer still owes at that table.
func (l *OrderLedger) ActiveForCustomerAtTable(ctx context.Context, customerID uint, comboKey string) ([]models.Order, error) {
	orders, err := l.activeOrders(l.db.WithContext(ctx), customerID, comboKey)
	return orders, storeError("list active orders", err)
}

func (l *OrderLedger) activeOrders(tx *gorm.DB, customerID uint, comboKey string) ([]models.Order, error) {
	var orders []models.Order
	err := tx.
		Where("customer_id = ? AND address_table_combo = ? AND active = ?", customerID, comboKey, true).
		Order("id ASC").
		Find(&orders).Error
	return orders, err
}

// CloseOut marks the orders paid and stamps the receipt on them, all or nothing.
func (l *OrderLedger) CloseOut(ctx context.Context, orders []models.Order, receiptID uint) error {
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return l.closeOut(tx, orders, receiptID)
	})
	return storeError("close out orders", err)
}

// closeOut fails with ErrOrderSetChanged when any order was closed by someone else.
func (l *OrderLedger) closeOut(tx *gorm.DB, orders []models.Order, receiptID uint) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]uint, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	closed := tx.Model(&models.Order{}).
		Where("id IN ? AND active = ?", ids, true).
		Updates(map[string]interface{}{
			"active":          false,
			"payment_pending": false,
			"state":           models.OrderStatePaid,
			"receipt_id":      receiptID,
		})
	if closed.Error != nil {
		return closed.Error
	}
	if closed.RowsAffected != int64(len(ids)) {
		return ErrOrderSetChanged
	}
	return nil
}

// TableOrders lists the active orders of everybody at the table.
func (l *OrderLedger) TableOrders(ctx context.Context, comboKey string) ([]models.Order, error) {
	var orders []models.Order
	if err := l.db.WithContext(ctx).
		Where("address_table_combo = ? AND active = ?", comboKey, true).
		Order("id ASC").
		Find(&orders).Error; err != nil {
		return nil, storeError("list table orders", err)
	}
	return orders, nil
}

// CustomerOrders is the customer's full history, paid orders included.
func (l *OrderLedger) CustomerOrders(ctx context.Context, customerID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := l.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Find(&orders).Error; err != nil {
		return nil, storeError("list customer orders", err)
	}
	return orders, nil
}
