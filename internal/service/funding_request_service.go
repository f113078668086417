package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ecopark/internal/access"
	"ecopark/internal/apperror"
	"ecopark/internal/logger"
	"ecopark/internal/model"
	"ecopark/internal/notify"
	"ecopark/internal/repository"
	"ecopark/internal/validation"
	"ecopark/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// --- DTOs ---

type SubmitRequestDTO struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount" swaggertype:"number"`
	Category      string          `json:"category"`
	ParkName      string          `json:"park_name"`
	Priority      string          `json:"priority"`
	Justification string          `json:"justification"`
}

type ReviewRequestDTO struct {
	Decision string `json:"decision"` // approved | rejected (denied, declined accepted)
	Note     string `json:"note"`
	Reason   string `json:"reason,omitempty"` // older clients send the note as reason
}

type ListFundingRequestsQuery struct {
	Filter model.RequestFilter
	Page   int
	Limit  int
}

type FundingRequestResponse struct {
	ID            string  `json:"id"`
	ReferenceNo   string  `json:"reference_no"`
	Kind          string  `json:"kind"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Amount        string  `json:"amount"`
	Category      string  `json:"category"`
	ParkName      string  `json:"park_name"`
	Priority      string  `json:"priority"`
	Justification string  `json:"justification"`
	Status        string  `json:"status"`
	RequestedBy   string  `json:"requested_by"`
	RequesterName string  `json:"requester_name"`
	ReviewedBy    *string `json:"reviewed_by"`
	ReviewerName  string  `json:"reviewer_name"`
	ReviewedAt    *string `json:"reviewed_at"`
	DecisionNote  string  `json:"decision_note"`
	CreatedAt     string  `json:"created_at"`
}

type RequestStatsResponse struct {
	Kind     string `json:"kind"`
	Pending  int64  `json:"pending"`
	Approved int64  `json:"approved"`
	Rejected int64  `json:"rejected"`
	Total    int64  `json:"total"`
}

// --- Interface ---

type FundingRequestService interface {
	Submit(ctx context.Context, actor access.Actor, kind string, req SubmitRequestDTO) (*FundingRequestResponse, error)
	List(ctx context.Context, actor access.Actor, kind string, q ListFundingRequestsQuery) ([]FundingRequestResponse, int64, error)
	Get(ctx context.Context, actor access.Actor, kind, id string) (*FundingRequestResponse, error)
	Review(ctx context.Context, actor access.Actor, kind, id string, req ReviewRequestDTO) (*FundingRequestResponse, error)
	Stats(ctx context.Context, actor access.Actor, kind string) (*RequestStatsResponse, error)
}

type fundingRequestService struct {
	repo      repository.FundingRequestRepository
	audits    repository.AuditRepository
	txManager repository.TransactionManager
	publisher notify.Publisher
	validator *validation.Validator
}

// NewFundingRequestService wires the lifecycle service. publisher may be nil.
func NewFundingRequestService(
	repo repository.FundingRequestRepository,
	audits repository.AuditRepository,
	txManager repository.TransactionManager,
	publisher notify.Publisher,
) FundingRequestService {
	return &fundingRequestService{
		repo:      repo,
		audits:    audits,
		txManager: txManager,
		publisher: publisher,
		validator: validation.Default,
	}
}

// --- Implementation ---

func (s *fundingRequestService) Submit(ctx context.Context, actor access.Actor, kind string, req SubmitRequestDTO) (*FundingRequestResponse, error) {
	if err := s.authorize(actor, kind, access.Submit); err != nil {
		return nil, err
	}

	input := s.validator.SanitizeSubmission(validation.Submission{
		Title:         req.Title,
		Description:   req.Description,
		Amount:        req.Amount,
		Category:      req.Category,
		ParkName:      req.ParkName,
		Priority:      req.Priority,
		Justification: req.Justification,
	})
	if fields := s.validator.Submission(kind, input); fields != nil {
		return nil, apperror.Validation(fields)
	}

	ref, err := model.NewReferenceNo(kind)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reference number: %w", err)
	}

	fr := &model.FundingRequest{
		ID:            uuid.New(),
		ReferenceNo:   ref,
		Kind:          kind,
		Title:         input.Title,
		Description:   input.Description,
		Amount:        input.Amount,
		Category:      input.Category,
		ParkName:      input.ParkName,
		Priority:      input.Priority,
		Justification: input.Justification,
		Status:        model.StatusPending,
		RequestedBy:   actor.ID,
		CreatedAt:     time.Now(),
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, fr); err != nil {
			return fmt.Errorf("failed to create funding request: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"kind":      kind,
			"amount":    fr.Amount.StringFixed(2),
			"park_name": fr.ParkName,
		})
		if err := s.audits.Log(txCtx, &model.AuditLog{
			UserID:     &actor.ID,
			Action:     model.ActionSubmitRequest,
			EntityID:   fr.ID.String(),
			EntityName: fr.ReferenceNo,
			Details:    string(details),
		}); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"request_id": fr.ID.String(),
		"kind":       kind,
		"actor":      actor.ID.String(),
	}).Info("funding request submitted")

	s.publish(ctx, notify.EventSubmitted, fr, actor)

	resp := toFundingRequestResponse(*fr)
	return &resp, nil
}

func (s *fundingRequestService) List(ctx context.Context, actor access.Actor, kind string, q ListFundingRequestsQuery) ([]FundingRequestResponse, int64, error) {
	if err := s.authorize(actor, kind, access.View); err != nil {
		return nil, 0, err
	}

	page := pagination.Normalize(q.Page, q.Limit)
	requests, total, err := s.repo.List(ctx, repository.FundingRequestQuery{
		Kind:        kind,
		Filter:      q.Filter,
		RequestedBy: ownerScope(actor),
		Offset:      page.Offset,
		Limit:       page.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch funding requests: %w", err)
	}

	result := make([]FundingRequestResponse, 0, len(requests))
	for _, r := range requests {
		result = append(result, toFundingRequestResponse(r))
	}
	return result, total, nil
}

func (s *fundingRequestService) Get(ctx context.Context, actor access.Actor, kind, id string) (*FundingRequestResponse, error) {
	if err := s.authorize(actor, kind, access.View); err != nil {
		return nil, err
	}

	requestID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.ErrRequestNotFound
	}

	fr, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return nil, notFoundOr(err, "failed to load funding request")
	}
	if fr.Kind != kind {
		return nil, apperror.ErrRequestNotFound
	}
	if owner := ownerScope(actor); owner != nil && fr.RequestedBy != *owner {
		return nil, apperror.ErrRequestNotFound
	}

	resp := toFundingRequestResponse(*fr)
	return &resp, nil
}

func (s *fundingRequestService) Review(ctx context.Context, actor access.Actor, kind, id string, req ReviewRequestDTO) (*FundingRequestResponse, error) {
	if err := s.authorize(actor, kind, access.Review); err != nil {
		return nil, err
	}

	if req.Note == "" {
		req.Note = req.Reason
	}
	decision := s.validator.NormalizeReview(validation.Review{Decision: req.Decision, Note: req.Note})
	if fields := s.validator.Review(kind, decision); fields != nil {
		return nil, apperror.Validation(fields)
	}

	requestID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.ErrRequestNotFound
	}

	var fr *model.FundingRequest
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		fr, findErr = s.repo.FindByIDForUpdate(txCtx, requestID)
		if findErr != nil {
			return notFoundOr(findErr, "failed to load funding request")
		}
		if fr.Kind != kind {
			return apperror.ErrRequestNotFound
		}

		if !fr.CanTransition(decision.Decision) {
			return apperror.New(apperror.ErrCodeConflict, fmt.Sprintf("request is already %s", fr.Status))
		}

		now := time.Now()
		fr.Status = decision.Decision
		fr.ReviewedBy = &actor.ID
		fr.ReviewedAt = &now
		fr.DecisionNote = decision.Note

		if err := s.repo.Update(txCtx, fr); err != nil {
			return fmt.Errorf("failed to update funding request: %w", err)
		}

		action := model.ActionApproveRequest
		if fr.Status == model.StatusRejected {
			action = model.ActionRejectRequest
		}
		details, _ := json.Marshal(map[string]interface{}{
			"kind":   kind,
			"status": fr.Status,
			"note":   fr.DecisionNote,
		})
		if err := s.audits.Log(txCtx, &model.AuditLog{
			UserID:     &actor.ID,
			Action:     action,
			EntityID:   fr.ID.String(),
			EntityName: fr.ReferenceNo,
			Details:    string(details),
		}); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"request_id": fr.ID.String(),
		"kind":       kind,
		"status":     fr.Status,
		"actor":      actor.ID.String(),
	}).Info("funding request reviewed")

	s.publish(ctx, notify.EventReviewed, fr, actor)

	// Reload with relations
	if reloaded, loadErr := s.repo.FindByID(ctx, fr.ID); loadErr == nil {
		fr = reloaded
	}

	resp := toFundingRequestResponse(*fr)
	return &resp, nil
}

func (s *fundingRequestService) Stats(ctx context.Context, actor access.Actor, kind string) (*RequestStatsResponse, error) {
	if err := s.authorize(actor, kind, access.View); err != nil {
		return nil, err
	}

	counts, err := s.repo.CountByStatus(ctx, kind, ownerScope(actor))
	if err != nil {
		return nil, fmt.Errorf("failed to count funding requests: %w", err)
	}

	stats := &RequestStatsResponse{
		Kind:     kind,
		Pending:  counts[model.StatusPending],
		Approved: counts[model.StatusApproved],
		Rejected: counts[model.StatusRejected],
	}
	stats.Total = stats.Pending + stats.Approved + stats.Rejected
	return stats, nil
}

// --- Helpers ---

func (s *fundingRequestService) authorize(actor access.Actor, kind string, action access.Action) error {
	if !model.IsValidKind(kind) {
		return apperror.New(apperror.ErrCodeNotFound, "unknown request kind")
	}
	if !access.Can(actor.Role, kind, action) {
		return apperror.ErrForbidden
	}
	return nil
}

func (s *fundingRequestService) publish(ctx context.Context, eventType string, fr *model.FundingRequest, actor access.Actor) {
	if s.publisher == nil {
		return
	}
	ev := notify.Event{
		Type:        eventType,
		Kind:        fr.Kind,
		RequestID:   fr.ID.String(),
		ReferenceNo: fr.ReferenceNo,
		Status:      fr.Status,
		ParkName:    fr.ParkName,
		RequestedBy: fr.RequestedBy.String(),
		ActorID:     actor.ID.String(),
		At:          time.Now(),
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		logger.Log.WithError(err).WithField("event", eventType).Warn("failed to publish request event")
	}
}

// ownerScope limits park staff to their own submissions.
func ownerScope(actor access.Actor) *uuid.UUID {
	if access.OwnSubmissionsOnly(actor.Role) {
		id := actor.ID
		return &id
	}
	return nil
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrRequestNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func toFundingRequestResponse(r model.FundingRequest) FundingRequestResponse {
	resp := FundingRequestResponse{
		ID:            r.ID.String(),
		ReferenceNo:   r.ReferenceNo,
		Kind:          r.Kind,
		Title:         r.Title,
		Description:   r.Description,
		Amount:        r.Amount.StringFixed(2),
		Category:      r.Category,
		ParkName:      r.ParkName,
		Priority:      r.Priority,
		Justification: r.Justification,
		Status:        r.Status,
		RequestedBy:   r.RequestedBy.String(),
		DecisionNote:  r.DecisionNote,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}

	if r.Requester != nil {
		resp.RequesterName = r.Requester.FullName()
	}
	if r.ReviewedBy != nil {
		s := r.ReviewedBy.String()
		resp.ReviewedBy = &s
	}
	if r.Reviewer != nil {
		resp.ReviewerName = r.Reviewer.FullName()
	}
	if r.ReviewedAt != nil {
		s := r.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &s
	}

	return resp
}
