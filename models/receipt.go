package models

import (
	"fmt"
	"time"
)

// Receipt is written once per checkout and never updated.
type Receipt struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	CustomerID        uint      `gorm:"not null;index" json:"customer_id"`
	TotalBill         float64   `gorm:"type:decimal(12,2);not null" json:"total_bill"`
	ServerName        string    `gorm:"type:varchar(100)" json:"server_name"`
	RestaurantName    string    `gorm:"type:varchar(255)" json:"restaurant_name"`
	RestaurantAddress string    `gorm:"type:varchar(255)" json:"restaurant_address"`
	ReceiptNumber     string    `gorm:"type:varchar(64);uniqueIndex" json:"receipt_number"`
	CreatedAt         time.Time `gorm:"not null" json:"created_at"`
}

// NewReceiptNumber formats a printable receipt number, RCP/20060102/<token>.
func NewReceiptNumber(at time.Time, token string) string {
	return fmt.Sprintf("RCP/%s/%s", at.Format("20060102"), token)
}
