package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CheckoutRequest closes one customer's participation at a table.
type CheckoutRequest struct {
	ComboKey          string
	CustomerID        uint
	ServerName        string
	RestaurantName    string
	RestaurantAddress string
}

// CheckoutResult is what the customer was billed.
type CheckoutResult struct {
	Total         float64 `json:"bill"`
	ReceiptID     uint    `json:"receipt_id"`
	ReceiptNumber string  `json:"receipt_number"`
	OrderCount    int     `json:"order_count"`
	TableReleased bool    `json:"table_released"`
}

// CheckoutService bills a customer and releases their seat in a single transaction.
type CheckoutService struct {
	db     *gorm.DB
	tables *TableService
	ledger *OrderLedger
	clock  func() time.Time
}

func NewCheckoutService(db *gorm.DB, tables *TableService, ledger *OrderLedger) *CheckoutService {
	return &CheckoutService{
		db:     db,
		tables: tables,
		ledger: ledger,
		clock:  time.Now,
	}
}

// FinishAndPay sums the customer's active orders at the table, takes them off
// the table, writes the receipt and closes the orders against it. Tax and
// payment capture are not applied: the total is the subtotal.
func (s *CheckoutService) FinishAndPay(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	result := &CheckoutResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var table models.Table
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("address_table_combo = ?", req.ComboKey).
			First(&table).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTableNotFound
		}
		if err != nil {
			return err
		}

		orders, err := s.ledger.activeOrders(tx, req.CustomerID, req.ComboKey)
		if err != nil {
			return err
		}
		result.Total = SumPrices(orders)
		result.OrderCount = len(orders)

		if result.TableReleased, err = s.tables.leave(tx, req.ComboKey); err != nil {
			return err
		}

		now := s.clock()
		receipt := models.Receipt{
			CustomerID:        req.CustomerID,
			TotalBill:         result.Total,
			ServerName:        req.ServerName,
			RestaurantName:    req.RestaurantName,
			RestaurantAddress: req.RestaurantAddress,
			ReceiptNumber:     models.NewReceiptNumber(now, strings.ToUpper(uuid.NewString()[:8])),
			CreatedAt:         now,
		}
		if err := tx.Create(&receipt).Error; err != nil {
			return err
		}
		result.ReceiptID = receipt.ID
		result.ReceiptNumber = receipt.ReceiptNumber

		if err := s.ledger.closeOut(tx, orders, receipt.ID); err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ? AND address_table_combo = ?", req.CustomerID, req.ComboKey).
			Updates(clearedSeat()).Error
	})
	if err != nil {
		return nil, storeError("finish and pay", err)
	}

	checkoutTotal.Inc()
	billedAmount.Add(result.Total)
	if result.TableReleased {
		tableEvents.WithLabelValues("released").Inc()
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"combo":      req.ComboKey,
		"customer":   req.CustomerID,
		"receipt_id": result.ReceiptID,
		"released":   result.TableReleased,
	}).Infof("Checkout complete, bill %s", utils.FormatBill(result.Total))

	return result, nil
}

// Receipts lists a customer's receipts, oldest first.
func (s *CheckoutService) Receipts(ctx context.Context, customerID uint) ([]models.Receipt, error) {
	var receipts []models.Receipt
	if err := s.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Find(&receipts).Error; err != nil {
		return nil, storeError("list receipts", err)
	}
	return receipts, nil
}

// SumPrices adds prices in whole cents so totals do not drift.
func SumPrices(orders []models.Order) float64 {
	var cents int64
	for _, o := range orders {
		cents += int64(math.Round(o.Price * 100))
	}
	return float64(cents) / 100
}
