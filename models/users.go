package models

import "time"

// NoActiveTable marks an empty pointer in the user's seating cache.
const NoActiveTable = -1

type User struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	FirstName         string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName          string `gorm:"type:varchar(100)" json:"last_name"`
	Email             string `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password          string `gorm:"type:varchar(255);not null" json:"-"`
	IsServer          bool   `gorm:"not null;default:false;index:idx_server_pool" json:"is_server"`
	IsWorking         bool   `gorm:"not null;default:false;index:idx_server_pool" json:"is_working"`
	WorkingRestaurant string `gorm:"type:varchar(255);index:idx_server_pool" json:"working_restaurant"`

	// Seating cache. Only rewritten inside the transaction that mutates the table.
	AddressTableCombo string `gorm:"type:varchar(255);index" json:"address_table_combo"`
	ActiveTableID     int64  `gorm:"not null;default:-1" json:"active_table_id"`
	ActiveTableNumber string `gorm:"type:varchar(50)" json:"active_table_number"`
	ActiveRestaurant  string `gorm:"type:varchar(255)" json:"active_restaurant"`
	CurrentServerID   int64  `gorm:"not null;default:-1" json:"current_server_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasActiveTable reports whether the cache points at a table session.
func (u *User) HasActiveTable() bool {
	return u.ActiveTableID != NoActiveTable
}
