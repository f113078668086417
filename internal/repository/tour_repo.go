package repository

import (
	"context"

	"ecopark/internal/model"

	"gorm.io/gorm"
)

type TourRepository interface {
	Create(ctx context.Context, t *model.TourBooking) error
	List(ctx context.Context, park string, offset, limit int) ([]model.TourBooking, int64, error)
}

type tourRepository struct {
	db *gorm.DB
}

func NewTourRepository(db *gorm.DB) TourRepository {
	return &tourRepository{db: db}
}

func (r *tourRepository) Create(ctx context.Context, t *model.TourBooking) error {
	return GetDB(ctx, r.db).Create(t).Error
}

func (r *tourRepository) List(ctx context.Context, park string, offset, limit int) ([]model.TourBooking, int64, error) {
	var tours []model.TourBooking
	var total int64

	byPark := func(tx *gorm.DB) *gorm.DB {
		if park != "" {
			tx = tx.Where("park_name = ?", park)
		}
		return tx
	}

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.TourBooking{}).Scopes(byPark).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Scopes(byPark).Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&tours).Error; err != nil {
		return nil, 0, err
	}

	return tours, total, nil
}
