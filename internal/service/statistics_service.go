package service

import (
	"context"
	"time"

	"ecopark/internal/access"
	"ecopark/internal/apperror"
	"ecopark/internal/model"
	"ecopark/internal/repository"

	"github.com/shopspring/decimal"
)

const topParksLimit = 5

type StatisticsService interface {
	GetStatistics(ctx context.Context, actor access.Actor, from, to time.Time) (*model.StatisticsResponse, error)
}

type statisticsService struct {
	repo repository.StatisticsRepository
}

func NewStatisticsService(repo repository.StatisticsRepository) StatisticsService {
	return &statisticsService{repo: repo}
}

// GetStatistics totals every kind the actor may view for the calendar days
// from through to. Park staff only count their own submissions.
func (s *statisticsService) GetStatistics(ctx context.Context, actor access.Actor, from, to time.Time) (*model.StatisticsResponse, error) {
	kinds := access.VisibleKinds(actor.Role)
	if len(kinds) == 0 {
		return nil, apperror.ErrForbidden
	}

	start, end, _ := model.RequestFilter{From: &from, To: &to}.DateBounds()
	if !end.After(start) {
		return nil, apperror.Validation(map[string]string{"to": "must not be before from"})
	}

	res := &model.StatisticsResponse{From: start, To: end, Kinds: make([]model.KindStatistics, 0, len(kinds))}
	for _, kind := range kinds {
		q := repository.StatisticsQuery{
			Kind:        kind,
			RequestedBy: ownerScope(actor),
			From:        start,
			To:          end,
		}

		totals, err := s.repo.TotalsByStatus(ctx, q)
		if err != nil {
			return nil, err
		}
		parks, err := s.repo.TopParks(ctx, q, topParksLimit)
		if err != nil {
			return nil, err
		}

		ks := model.KindStatistics{
			Kind:            kind,
			RequestedAmount: decimal.Zero,
			ApprovedAmount:  decimal.Zero,
			Statuses:        totals,
			TopParks:        parks,
		}
		for _, t := range totals {
			ks.Requests += t.Count
			ks.RequestedAmount = ks.RequestedAmount.Add(t.Amount)
			if t.Status == model.StatusApproved {
				ks.ApprovedAmount = ks.ApprovedAmount.Add(t.Amount)
			}
		}
		res.Kinds = append(res.Kinds, ks)
	}
	return res, nil
}
