package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ecopark/internal/model"
	"ecopark/internal/repository"
)

const (
	defaultRecentLogins = 5
	maxRecentLogins     = 50
	defaultMetricMonths = 12
	maxMetricMonths     = 36
)

type RecentLoginResponse struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	LastLogin string `json:"last_login"`
}

type MonthlyLogins struct {
	Month  string `json:"month"` // YYYY-MM
	Label  string `json:"label"` // Jan, Feb, ...
	Logins int64  `json:"logins"`
}

// LoginActivityService reports sign-ins for the admin dashboard. It reads the
// LOGIN entries of the audit trail.
type LoginActivityService interface {
	RecentLogins(ctx context.Context, limit int) ([]RecentLoginResponse, error)
	LoginMetrics(ctx context.Context, months int) ([]MonthlyLogins, error)
}

type loginActivityService struct {
	audits repository.AuditRepository
	now    func() time.Time
}

func NewLoginActivityService(audits repository.AuditRepository) LoginActivityService {
	return &loginActivityService{audits: audits, now: time.Now}
}

func (s *loginActivityService) RecentLogins(ctx context.Context, limit int) ([]RecentLoginResponse, error) {
	if limit < 1 {
		limit = defaultRecentLogins
	}
	if limit > maxRecentLogins {
		limit = maxRecentLogins
	}

	logs, _, err := s.audits.List(ctx, repository.AuditQuery{Action: model.ActionLogin, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logins: %w", err)
	}

	res := make([]RecentLoginResponse, 0, len(logs))
	for _, l := range logs {
		entry := RecentLoginResponse{
			Email:     l.EntityName,
			LastLogin: l.CreatedAt.Format(time.RFC3339),
		}
		var details struct {
			Role string `json:"role"`
		}
		if json.Unmarshal([]byte(l.Details), &details) == nil {
			entry.Role = details.Role
		}
		if l.UserID != nil {
			entry.UserID = l.UserID.String()
		}
		if l.User != nil {
			entry.Name = l.User.FullName()
			entry.Email = l.User.Email
			entry.Role = l.User.Role
		}
		res = append(res, entry)
	}
	return res, nil
}

// LoginMetrics counts logins per calendar month, oldest first, including
// months without any.
func (s *loginActivityService) LoginMetrics(ctx context.Context, months int) ([]MonthlyLogins, error) {
	if months < 1 {
		months = defaultMetricMonths
	}
	if months > maxMetricMonths {
		months = maxMetricMonths
	}

	now := s.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)

	stamps, err := s.audits.Timestamps(ctx, model.ActionLogin, first)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch login metrics: %w", err)
	}

	res := make([]MonthlyLogins, months)
	index := make(map[string]int, months)
	for i := range res {
		m := first.AddDate(0, i, 0)
		res[i] = MonthlyLogins{Month: m.Format("2006-01"), Label: m.Format("Jan")}
		index[res[i].Month] = i
	}
	for _, at := range stamps {
		if i, ok := index[at.In(now.Location()).Format("2006-01")]; ok {
			res[i].Logins++
		}
	}
	return res, nil
}
