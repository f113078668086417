package service

import (
	"context"
	"fmt"

	"ecopark/internal/model"
	"ecopark/internal/repository"
	"ecopark/pkg/pagination"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type AuditFilter struct {
	Action   string
	EntityID string
	Page     int
	Limit    int
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, filter AuditFilter) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// GetAuditLogs returns one page of the audit trail, newest first
func (s *auditService) GetAuditLogs(ctx context.Context, filter AuditFilter) ([]AuditLogResponse, int64, error) {
	page := pagination.Normalize(filter.Page, filter.Limit)
	logs, total, err := s.repo.List(ctx, repository.AuditQuery{
		Action:   filter.Action,
		EntityID: filter.EntityID,
		Offset:   page.Offset,
		Limit:    page.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, toAuditLogResponse(l))
	}

	return res, total, nil
}

func toAuditLogResponse(l model.AuditLog) AuditLogResponse {
	userName := "System"
	userID := ""
	if l.User != nil {
		userName = l.User.FullName()
	}
	if l.UserID != nil {
		userID = l.UserID.String()
	}

	return AuditLogResponse{
		ID:         l.ID.String(),
		UserID:     userID,
		UserName:   userName,
		Action:     l.Action,
		EntityID:   l.EntityID,
		EntityName: l.EntityName,
		Details:    l.Details,
		CreatedAt:  l.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
