package repository

import (
	"context"

	"github.com/quocanhngo/signalsender/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AlertLogRepository handles database operations for AlertLog
type AlertLogRepository struct {
	db *gorm.DB
}

func NewAlertLogRepository(db *gorm.DB) *AlertLogRepository {
	return &AlertLogRepository{db: db}
}

// Create inserts an immutable log row. ID and Timestamp are assigned here;
// EmailSent always starts false.
func (r *AlertLogRepository) Create(ctx context.Context, entry *model.AlertLog) error {
	entry.ID = 0
	entry.EmailSent = false
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return wrapErr("create alert log", err)
	}
	return nil
}

// List returns every log, newest first. Equal timestamps fall back to
// insertion order.
func (r *AlertLogRepository) List(ctx context.Context) ([]model.AlertLog, error) {
	logs := []model.AlertLog{}
	err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
		Order("id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, wrapErr("list alert logs", err)
	}
	return logs, nil
}

// FindByID finds a log by ID
func (r *AlertLogRepository) FindByID(ctx context.Context, id uint) (*model.AlertLog, error) {
	var entry model.AlertLog
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, wrapErr("find alert log", err)
	}
	return &entry, nil
}

// MarkEmailSent sets email_sent. The update is a single idempotent statement,
// so repeated or concurrent calls for the same ID converge on the same row.
func (r *AlertLogRepository) MarkEmailSent(ctx context.Context, id uint) (*model.AlertLog, error) {
	res := r.db.WithContext(ctx).
		Model(&model.AlertLog{}).
		Where("id = ?", id).
		Update("email_sent", true)
	if res.Error != nil {
		return nil, wrapErr("mark email sent", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, wrapErr("mark email sent", gorm.ErrRecordNotFound)
	}
	return r.FindByID(ctx, id)
}
