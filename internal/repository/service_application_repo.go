package repository

import (
	"context"

	"ecopark/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ServiceApplicationRepository interface {
	Create(ctx context.Context, app *model.ServiceApplication) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ServiceApplication, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.ServiceApplication, error)
	List(ctx context.Context, status string, offset, limit int) ([]model.ServiceApplication, int64, error)
	Update(ctx context.Context, app *model.ServiceApplication) error
}

type serviceApplicationRepository struct {
	db *gorm.DB
}

func NewServiceApplicationRepository(db *gorm.DB) ServiceApplicationRepository {
	return &serviceApplicationRepository{db: db}
}

func (r *serviceApplicationRepository) Create(ctx context.Context, app *model.ServiceApplication) error {
	return GetDB(ctx, r.db).Create(app).Error
}

func (r *serviceApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ServiceApplication, error) {
	var app model.ServiceApplication
	if err := GetDB(ctx, r.db).Preload("Reviewer").First(&app, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (r *serviceApplicationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.ServiceApplication, error) {
	var app model.ServiceApplication
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&app, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *serviceApplicationRepository) List(ctx context.Context, status string, offset, limit int) ([]model.ServiceApplication, int64, error) {
	var apps []model.ServiceApplication
	var total int64

	byStatus := func(tx *gorm.DB) *gorm.DB {
		if status != "" {
			tx = tx.Where("status = ?", status)
		}
		return tx
	}

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.ServiceApplication{}).Scopes(byStatus).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Preload("Reviewer").Scopes(byStatus).Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&apps).Error; err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

func (r *serviceApplicationRepository) Update(ctx context.Context, app *model.ServiceApplication) error {
	return GetDB(ctx, r.db).Save(app).Error
}
