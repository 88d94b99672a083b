package services

import (
	"context"

	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ServiceRequestTracker records at most one outstanding "call the server" per table.
type ServiceRequestTracker struct {
	db *gorm.DB
}

func NewServiceRequestTracker(db *gorm.DB) *ServiceRequestTracker {
	return &ServiceRequestTracker{db: db}
}

// Request creates the request or fails with ErrAlreadyRequested. The table's
// flag is raised when the table exists; a request for a table still being set
// up is recorded all the same.
func (t *ServiceRequestTracker) Request(ctx context.Context, comboKey string) error {
	if comboKey == "" {
		return validationError("address_table_combo is required")
	}

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		request := models.TableRequest{AddressTableCombo: comboKey}
		created := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "address_table_combo"}},
			DoNothing: true,
		}).Create(&request)
		if created.Error != nil {
			return created.Error
		}
		if created.RowsAffected == 0 {
			return ErrAlreadyRequested
		}
		return tx.Model(&models.Table{}).
			Where("address_table_combo = ?", comboKey).
			Update("request_made", true).Error
	})
	if err != nil {
		serviceRequests.WithLabelValues("rejected").Inc()
		return storeError("request service", err)
	}

	serviceRequests.WithLabelValues("requested").Inc()
	utils.InfoLogger.WithField("combo", comboKey).Info("Service requested")
	return nil
}

// Serve clears the request and the table's flag. Serving a table with no
// request is not an error.
func (t *ServiceRequestTracker) Serve(ctx context.Context, comboKey string) error {
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("address_table_combo = ?", comboKey).Delete(&models.TableRequest{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Table{}).
			Where("address_table_combo = ?", comboKey).
			Update("request_made", false).Error
	})
	if err != nil {
		return storeError("serve request", err)
	}

	serviceRequests.WithLabelValues("served").Inc()
	utils.InfoLogger.WithField("combo", comboKey).Info("Service request served")
	return nil
}

// HasPending is a pure existence check.
func (t *ServiceRequestTracker) HasPending(ctx context.Context, comboKey string) (bool, error) {
	var count int64
	if err := t.db.WithContext(ctx).
		Model(&models.TableRequest{}).
		Where("address_table_combo = ?", comboKey).
		Count(&count).Error; err != nil {
		return false, storeError("check request", err)
	}
	return count > 0, nil
}
