package models

import "time"

// Table is one occupied table session. The row exists only while PartySize > 0.
type Table struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	AddressTableCombo string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"address_table_combo"`
	PartySize         int       `gorm:"not null;default:1" json:"party_size"`
	ServerID          int64     `gorm:"not null;index" json:"server_id"`
	ServerName        string    `gorm:"type:varchar(100)" json:"server_name"`
	RestaurantName    string    `gorm:"type:varchar(255)" json:"restaurant_name"`
	RestaurantAddress string    `gorm:"type:varchar(255);index" json:"restaurant_address"`
	RequestMade       bool      `gorm:"not null;default:false" json:"request_made"`
	CreatedAt         time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null" json:"updated_at"`
}

// TableRequest is an outstanding service call. At most one per combo key.
type TableRequest struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	AddressTableCombo string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"address_table_combo"`
	CreatedAt         time.Time `gorm:"not null" json:"created_at"`
}

// ComboKey builds the key naming one physical table at one restaurant.
func ComboKey(restaurantAddress, tableNumber string) string {
	return restaurantAddress + tableNumber
}
