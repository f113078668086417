package repository

import (
	"context"
	"time"

	"ecopark/internal/model"

	"gorm.io/gorm"
)

// AuditQuery narrows the audit trail. Empty fields match everything.
type AuditQuery struct {
	Action   string
	EntityID string
	Offset   int
	Limit    int
}

type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, q AuditQuery) ([]model.AuditLog, int64, error)
	Timestamps(ctx context.Context, action string, since time.Time) ([]time.Time, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, q AuditQuery) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var total int64

	db := GetDB(ctx, r.db)
	filter := func(tx *gorm.DB) *gorm.DB {
		if q.Action != "" {
			tx = tx.Where("action = ?", q.Action)
		}
		if q.EntityID != "" {
			tx = tx.Where("entity_id = ?", q.EntityID)
		}
		return tx
	}

	if err := db.Model(&model.AuditLog{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("User").Scopes(filter).Order("created_at desc").
		Offset(q.Offset).Limit(q.Limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// Timestamps returns when each entry for action was written, oldest first.
func (r *auditRepository) Timestamps(ctx context.Context, action string, since time.Time) ([]time.Time, error) {
	var at []time.Time
	err := GetDB(ctx, r.db).Model(&model.AuditLog{}).
		Where("action = ? AND created_at >= ?", action, since).
		Order("created_at").
		Pluck("created_at", &at).Error
	return at, err
}
