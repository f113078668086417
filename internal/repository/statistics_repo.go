package repository

import (
	"context"
	"fmt"
	"time"

	"ecopark/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatisticsQuery bounds an aggregate to one kind and the half-open range [From, To).
type StatisticsQuery struct {
	Kind        string
	RequestedBy *uuid.UUID
	From        time.Time
	To          time.Time
}

type StatisticsRepository interface {
	TotalsByStatus(ctx context.Context, q StatisticsQuery) ([]model.StatusTotal, error)
	TopParks(ctx context.Context, q StatisticsQuery, limit int) ([]model.ParkRanking, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) TotalsByStatus(ctx context.Context, q StatisticsQuery) ([]model.StatusTotal, error) {
	var totals []model.StatusTotal
	if err := r.bounded(GetDB(ctx, r.db), q).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Group("status").
		Order("status").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("failed to total requests by status: %w", err)
	}
	return totals, nil
}

func (r *statisticsRepository) TopParks(ctx context.Context, q StatisticsQuery, limit int) ([]model.ParkRanking, error) {
	var rankings []model.ParkRanking
	if err := r.bounded(GetDB(ctx, r.db), q).
		Select("park_name, COUNT(*) AS requests, COALESCE(SUM(amount), 0) AS amount").
		Group("park_name").
		Order("amount DESC").
		Limit(limit).
		Scan(&rankings).Error; err != nil {
		return nil, fmt.Errorf("failed to rank parks: %w", err)
	}
	return rankings, nil
}

func (r *statisticsRepository) bounded(db *gorm.DB, q StatisticsQuery) *gorm.DB {
	db = db.Model(&model.FundingRequest{}).
		Where("kind = ? AND created_at >= ? AND created_at < ?", q.Kind, q.From, q.To)
	if q.RequestedBy != nil {
		db = db.Where("requested_by = ?", *q.RequestedBy)
	}
	return db
}
