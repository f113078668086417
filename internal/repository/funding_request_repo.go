package repository

import (
	"context"
	"strings"

	"ecopark/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FundingRequestQuery selects one page of a request kind.
type FundingRequestQuery struct {
	Kind        string
	Filter      model.RequestFilter
	RequestedBy *uuid.UUID // restricts to one submitter when set
	Offset      int
	Limit       int
}

type FundingRequestRepository interface {
	Create(ctx context.Context, req *model.FundingRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.FundingRequest, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.FundingRequest, error)
	List(ctx context.Context, q FundingRequestQuery) ([]model.FundingRequest, int64, error)
	Update(ctx context.Context, req *model.FundingRequest) error
	CountByStatus(ctx context.Context, kind string, requestedBy *uuid.UUID) (map[string]int64, error)
}

type fundingRequestRepository struct {
	db *gorm.DB
}

func NewFundingRequestRepository(db *gorm.DB) FundingRequestRepository {
	return &fundingRequestRepository{db: db}
}

func (r *fundingRequestRepository) Create(ctx context.Context, req *model.FundingRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *fundingRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.FundingRequest, error) {
	var req model.FundingRequest
	if err := GetDB(ctx, r.db).Preload("Requester").Preload("Reviewer").First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (r *fundingRequestRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.FundingRequest, error) {
	var req model.FundingRequest
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *fundingRequestRepository) List(ctx context.Context, q FundingRequestQuery) ([]model.FundingRequest, int64, error) {
	var requests []model.FundingRequest
	var total int64

	db := GetDB(ctx, r.db)
	if err := r.scoped(db.Model(&model.FundingRequest{}), q.Kind, q.Filter, q.RequestedBy).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	fetchQuery := r.scoped(db.Preload("Requester").Preload("Reviewer"), q.Kind, q.Filter, q.RequestedBy)
	if err := fetchQuery.Order("created_at DESC").Offset(q.Offset).Limit(q.Limit).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *fundingRequestRepository) Update(ctx context.Context, req *model.FundingRequest) error {
	return GetDB(ctx, r.db).Save(req).Error
}

func (r *fundingRequestRepository) CountByStatus(ctx context.Context, kind string, requestedBy *uuid.UUID) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}

	query := GetDB(ctx, r.db).Model(&model.FundingRequest{}).
		Select("status, COUNT(*) AS count").
		Where("kind = ?", kind)
	if requestedBy != nil {
		query = query.Where("requested_by = ?", *requestedBy)
	}
	if err := query.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// scoped applies the same criteria as model.RequestFilter.Matches in SQL.
func (r *fundingRequestRepository) scoped(db *gorm.DB, kind string, f model.RequestFilter, requestedBy *uuid.UUID) *gorm.DB {
	db = db.Where("kind = ?", kind)
	if requestedBy != nil {
		db = db.Where("requested_by = ?", *requestedBy)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		db = db.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(park_name) LIKE ?)",
			pattern, pattern, pattern)
	}
	if status := f.StatusValue(); status != "" {
		db = db.Where("status = ?", status)
	}
	if park := f.ParkValue(); park != "" {
		db = db.Where("park_name = ?", park)
	}
	if start, end, ok := f.DateBounds(); ok {
		db = db.Where("created_at >= ? AND created_at < ?", start, end)
	}
	return db
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
