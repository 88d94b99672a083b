package database

import (
	"context"
	"errors"

	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/services"
	"github.com/yeremiapane/tablemate/utils"
	"gorm.io/gorm"
)

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.TableRequest{},
		&models.Order{},
		&models.Receipt{},
	)
	if err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

// SeedDemoServer makes sure the demo server exists and is clocked in.
// Running it twice is harmless.
func SeedDemoServer(ctx context.Context, users *services.UserService) error {
	_, err := users.CreateDemoServer(ctx)
	if errors.Is(err, services.ErrEmailTaken) {
		utils.InfoLogger.Println("Demo server already present")
		return nil
	}
	if err != nil {
		return err
	}
	utils.InfoLogger.Printf("Demo server seeded at %s", services.DemoServerRestaurant)
	return nil
}
