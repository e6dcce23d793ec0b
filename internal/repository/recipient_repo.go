package repository

import (
	"context"
	"errors"

	"github.com/quocanhngo/signalsender/internal/model"
	"gorm.io/gorm"
)

// RecipientRepository handles database operations for Recipient.
// Registration always inserts; nothing is updated or deleted.
type RecipientRepository struct {
	db *gorm.DB
}

func NewRecipientRepository(db *gorm.DB) *RecipientRepository {
	return &RecipientRepository{db: db}
}

// Create inserts a new active recipient
func (r *RecipientRepository) Create(ctx context.Context, email string) (*model.Recipient, error) {
	recipient := &model.Recipient{Email: email, IsActive: true}
	if err := r.db.WithContext(ctx).Create(recipient).Error; err != nil {
		return nil, wrapErr("create recipient", err)
	}
	return recipient, nil
}

// FindActive returns the most recently updated active recipient, or nil
// when none is registered
func (r *RecipientRepository) FindActive(ctx context.Context) (*model.Recipient, error) {
	var recipient model.Recipient
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("updated_at DESC").
		Order("id DESC").
		First(&recipient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("find active recipient", err)
	}
	return &recipient, nil
}

// List returns the full registration history, newest first
func (r *RecipientRepository) List(ctx context.Context) ([]model.Recipient, error) {
	recipients := []model.Recipient{}
	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&recipients).Error
	if err != nil {
		return nil, wrapErr("list recipients", err)
	}
	return recipients, nil
}
