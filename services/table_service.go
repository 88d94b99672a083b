package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JoinRequest carries an authenticated customer's request to sit at a table.
type JoinRequest struct {
	ComboKey          string
	RestaurantAddress string
	RestaurantName    string
	UserID            uint
	TableNumber       string
}

// TableService owns table sessions and keeps the users' seating cache in step with them.
type TableService struct {
	db       *gorm.DB
	assigner *ServerAssigner
}

func NewTableService(db *gorm.DB, assigner *ServerAssigner) *TableService {
	return &TableService{db: db, assigner: assigner}
}

// JoinOrCreate seats the user at comboKey, opening the table with a freshly
// assigned server when nobody sits there yet.
func (s *TableService) JoinOrCreate(ctx context.Context, req JoinRequest) (*models.Table, error) {
	if strings.TrimSpace(req.ComboKey) == "" {
		return nil, validationError("address_table_combo is required")
	}
	if req.UserID == 0 {
		return nil, validationError("user_id is required")
	}

	var (
		table  models.Table
		opened bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		joined := tx.Model(&models.Table{}).
			Where("address_table_combo = ?", req.ComboKey).
			Update("party_size", gorm.Expr("party_size + 1"))
		if joined.Error != nil {
			return joined.Error
		}

		if joined.RowsAffected == 0 {
			assignment, err := s.assigner.pick(tx, req.RestaurantAddress)
			if err != nil {
				return err
			}
			fresh := models.Table{
				AddressTableCombo: req.ComboKey,
				PartySize:         1,
				ServerID:          assignment.ServerID,
				ServerName:        assignment.ServerName,
				RestaurantName:    req.RestaurantName,
				RestaurantAddress: req.RestaurantAddress,
			}
			// a concurrent first joiner may have won the insert; then we only add ourselves
			if err := tx.Clauses(joinOnConflict()).Create(&fresh).Error; err != nil {
				return err
			}
			opened = true
		}

		if err := tx.Where("address_table_combo = ?", req.ComboKey).First(&table).Error; err != nil {
			return err
		}
		opened = opened && table.PartySize == 1

		seated := tx.Model(&models.User{}).
			Where("id = ?", req.UserID).
			Updates(map[string]interface{}{
				"address_table_combo": req.ComboKey,
				"active_table_id":     int64(table.ID),
				"active_table_number": req.TableNumber,
				"active_restaurant":   req.RestaurantAddress,
				"current_server_id":   table.ServerID,
			})
		if seated.Error != nil {
			return seated.Error
		}
		if seated.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return nil, storeError("join table", err)
	}

	event := "joined"
	if opened {
		event = "opened"
	}
	tableEvents.WithLabelValues(event).Inc()
	utils.InfoLogger.WithFields(logrus.Fields{
		"combo":      table.AddressTableCombo,
		"user_id":    req.UserID,
		"party_size": table.PartySize,
		"server_id":  table.ServerID,
	}).Infof("Table %s", event)

	return &table, nil
}

// Delete tears a table session down whatever its party size. Deleting a
// missing table succeeds.
func (s *TableService) Delete(ctx context.Context, comboKey string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("address_table_combo = ?", comboKey).Delete(&models.Table{}).Error; err != nil {
			return err
		}
		if err := tx.Where("address_table_combo = ?", comboKey).Delete(&models.TableRequest{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("address_table_combo = ?", comboKey).
			Updates(clearedSeat()).Error
	})
	if err != nil {
		return storeError("delete table", err)
	}

	tableEvents.WithLabelValues("deleted").Inc()
	utils.InfoLogger.WithField("combo", comboKey).Info("Table deleted")
	return nil
}

// Leave takes one occupant off the table and drops the table when it empties.
func (s *TableService) Leave(ctx context.Context, comboKey string) error {
	var released bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		released, err = s.leave(tx, comboKey)
		return err
	})
	if err != nil {
		return storeError("leave table", err)
	}
	if released {
		tableEvents.WithLabelValues("released").Inc()
		utils.InfoLogger.WithField("combo", comboKey).Info("Table released")
	}
	return nil
}

// leave must run inside a transaction. It reports whether the table was removed.
func (s *TableService) leave(tx *gorm.DB, comboKey string) (bool, error) {
	left := tx.Model(&models.Table{}).
		Where("address_table_combo = ? AND party_size > 0", comboKey).
		Update("party_size", gorm.Expr("party_size - 1"))
	if left.Error != nil {
		return false, left.Error
	}
	if left.RowsAffected == 0 {
		return false, ErrTableNotFound
	}

	emptied := tx.Where("address_table_combo = ? AND party_size <= 0", comboKey).Delete(&models.Table{})
	if emptied.Error != nil {
		return false, emptied.Error
	}
	if emptied.RowsAffected == 0 {
		return false, nil
	}
	// an empty table has nobody left to serve
	if err := tx.Where("address_table_combo = ?", comboKey).Delete(&models.TableRequest{}).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Get never creates a table.
func (s *TableService) Get(ctx context.Context, comboKey string) (*models.Table, error) {
	var table models.Table
	err := s.db.WithContext(ctx).Where("address_table_combo = ?", comboKey).First(&table).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, storeError("get table", err)
	}
	return &table, nil
}

// List returns every open table.
func (s *TableService) List(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&tables).Error; err != nil {
		return nil, storeError("list tables", err)
	}
	return tables, nil
}

// ForServer returns the tables a server is currently looking after.
func (s *TableService) ForServer(ctx context.Context, serverID uint) ([]models.Table, error) {
	var tables []models.Table
	if err := s.db.WithContext(ctx).
		Where("server_id = ?", int64(serverID)).
		Order("id ASC").
		Find(&tables).Error; err != nil {
		return nil, storeError("list server tables", err)
	}
	return tables, nil
}

// UsersAtTable lists the customers whose seating cache points at comboKey.
func (s *TableService) UsersAtTable(ctx context.Context, comboKey string) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).
		Where("address_table_combo = ?", comboKey).
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, storeError("list users at table", err)
	}
	return users, nil
}

// ActiveTable resolves the table the user is seated at.
func (s *TableService) ActiveTable(ctx context.Context, userID uint) (*models.Table, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, storeError("get user", err)
	}
	if !user.HasActiveTable() {
		return nil, ErrNoActiveTable
	}

	var table models.Table
	err = s.db.WithContext(ctx).First(&table, user.ActiveTableID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, storeError("get active table", err)
	}
	return &table, nil
}

// joinOnConflict adds the joiner to a row that already exists. The column is
// qualified with the table name: postgres also sees EXCLUDED.party_size here.
func joinOnConflict() clause.OnConflict {
	return clause.OnConflict{
		Columns: []clause.Column{{Name: "address_table_combo"}},
		DoUpdates: clause.Set{{
			Column: clause.Column{Name: "party_size"},
			Value: clause.Expr{
				SQL:  "?.party_size + 1",
				Vars: []interface{}{clause.Table{Name: clause.CurrentTable}},
			},
		}},
	}
}

func clearedSeat() map[string]interface{} {
	return map[string]interface{}{
		"address_table_combo": "",
		"active_table_id":     int64(models.NoActiveTable),
		"active_table_number": "",
		"active_restaurant":   "",
		"current_server_id":   NoServerID,
	}
}
