package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/farellandr/givingate/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// GormStore implements Store on the shared Postgres database. Atomicity
// comes from db.Transaction; the status guard is a conditional UPDATE whose
// RowsAffected decides whether this caller won the transition.
type GormStore struct {
	db *gorm.DB
}

func (s *GormStore) FindTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.db.WithContext(ctx).First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (s *GormStore) Finalize(ctx context.Context, fin Finalization) (bool, error) {
	applied := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND status = ?", fin.TransactionID, models.StatusPending).
			Update("status", fin.Status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true

		if err := tx.Create(&fin.Payment).Error; err != nil {
			return err
		}

		if fin.CardSave == nil {
			return nil
		}
		if fin.CardSave.RefreshOnly {
			return tx.Model(&models.SavedPaymentMethod{}).
				Where("user_id = ? AND token = ?", fin.CardSave.Method.UserID, fin.CardSave.Method.Token).
				Update("last_used_at", fin.CardSave.Method.LastUsedAt).Error
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "card_no_mask"}, {Name: "card_exp"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"token", "token_type", "card_brand", "last_used_at", "updated_at",
			}),
		}).Create(&fin.CardSave.Method).Error
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (s *GormStore) MarkFailed(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Update("status", models.StatusFailed)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) ListStuckPending(ctx context.Context, olderThan, horizon time.Time) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := s.db.WithContext(ctx).
		Where("status = ? AND created_at < ? AND created_at > ?", models.StatusPending, olderThan, horizon).
		Order("created_at asc").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}
