package repository

import (
	"context"

	"ecopark/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DonationRepository interface {
	Create(ctx context.Context, d *model.Donation) error
	List(ctx context.Context, park string, offset, limit int) ([]model.Donation, int64, error)
	SumByPark(ctx context.Context) (map[string]decimal.Decimal, error)
}

type donationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) Create(ctx context.Context, d *model.Donation) error {
	return GetDB(ctx, r.db).Create(d).Error
}

func (r *donationRepository) List(ctx context.Context, park string, offset, limit int) ([]model.Donation, int64, error) {
	var donations []model.Donation
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Donation{})
	if park != "" {
		query = query.Where("park_name = ?", park)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	fetchQuery := db.Order("created_at DESC")
	if park != "" {
		fetchQuery = fetchQuery.Where("park_name = ?", park)
	}
	if err := fetchQuery.Offset(offset).Limit(limit).Find(&donations).Error; err != nil {
		return nil, 0, err
	}

	return donations, total, nil
}

func (r *donationRepository) SumByPark(ctx context.Context) (map[string]decimal.Decimal, error) {
	var rows []struct {
		ParkName string
		Total    decimal.Decimal
	}
	if err := GetDB(ctx, r.db).Model(&model.Donation{}).
		Select("park_name, SUM(amount) AS total").
		Group("park_name").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		totals[row.ParkName] = row.Total
	}
	return totals, nil
}
