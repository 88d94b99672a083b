package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory store. One connection keeps every
// goroutine on the same database and serializes transactions.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger("warn")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.TableRequest{},
		&models.Order{},
		&models.Receipt{},
	))
	return db
}

type fixture struct {
	db       *gorm.DB
	users    *UserService
	assigner *ServerAssigner
	tables   *TableService
	requests *ServiceRequestTracker
	ledger   *OrderLedger
	checkout *CheckoutService
}

func newFixture(t *testing.T) *fixture {
	db := newTestDB(t)
	assigner := NewServerAssigner(db)
	tables := NewTableService(db, assigner)
	ledger := NewOrderLedger(db)
	return &fixture{
		db:       db,
		users:    NewUserService(db),
		assigner: assigner,
		tables:   tables,
		requests: NewServiceRequestTracker(db),
		ledger:   ledger,
		checkout: NewCheckoutService(db, tables, ledger),
	}
}

const testRestaurant = "1234 Restaurant St."

func (f *fixture) customer(t *testing.T, name string) *models.User {
	t.Helper()
	user, err := f.users.Register(context.Background(), RegisterInput{
		FirstName: name,
		Email:     fmt.Sprintf("%s@example.com", name),
		Password:  "secret",
	})
	require.NoError(t, err)
	return user
}

// server inserts a working server directly; bcrypt would slow the tests for nothing.
func (f *fixture) server(t *testing.T, name, restaurant string) *models.User {
	t.Helper()
	user := models.User{
		FirstName:         name,
		Email:             fmt.Sprintf("%s@staff.example.com", name),
		Password:          "x",
		IsServer:          true,
		IsWorking:         true,
		WorkingRestaurant: restaurant,
		ActiveTableID:     models.NoActiveTable,
		CurrentServerID:   NoServerID,
	}
	require.NoError(t, f.db.Create(&user).Error)
	return &user
}

func (f *fixture) join(t *testing.T, user *models.User, tableNumber string) *models.Table {
	t.Helper()
	table, err := f.tables.JoinOrCreate(context.Background(), JoinRequest{
		ComboKey:          models.ComboKey(testRestaurant, tableNumber),
		RestaurantAddress: testRestaurant,
		RestaurantName:    "Woodhouse Diner",
		UserID:            user.ID,
		TableNumber:       tableNumber,
	})
	require.NoError(t, err)
	return table
}

func (f *fixture) reload(t *testing.T, user *models.User) *models.User {
	t.Helper()
	fresh, err := f.users.Get(context.Background(), user.ID)
	require.NoError(t, err)
	return fresh
}
