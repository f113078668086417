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
	"ecopark/internal/repository"
	"ecopark/internal/validation"
	"ecopark/pkg/pagination"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ApplyServiceRequestDTO struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	CompanyType     string `json:"company_type"`     // LLC | Corporation | Sole Proprietorship
	ProvidedService string `json:"provided_service"` // optional
	CompanyName     string `json:"company_name"`
	TaxID           string `json:"tax_id"`
}

type ServiceApplicationResponse struct {
	ID              string  `json:"id"`
	ApplicantName   string  `json:"applicant_name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	CompanyType     string  `json:"company_type"`
	ProvidedService string  `json:"provided_service"`
	CompanyName     string  `json:"company_name"`
	TaxID           string  `json:"tax_id"`
	Status          string  `json:"status"`
	ReviewedBy      *string `json:"reviewed_by"`
	ReviewerName    string  `json:"reviewer_name,omitempty"`
	ReviewedAt      *string `json:"reviewed_at"`
	DecisionNote    string  `json:"decision_note"`
	CreatedAt       string  `json:"created_at"`
}

type ServiceApplicationService interface {
	Apply(ctx context.Context, req ApplyServiceRequestDTO) (*ServiceApplicationResponse, error)
	List(ctx context.Context, actor access.Actor, status string, page, limit int) ([]ServiceApplicationResponse, int64, error)
	Review(ctx context.Context, actor access.Actor, id string, req ReviewRequestDTO) (*ServiceApplicationResponse, error)
}

type serviceApplicationService struct {
	repo      repository.ServiceApplicationRepository
	audits    repository.AuditRepository
	txManager repository.TransactionManager
	validator *validation.Validator
}

func NewServiceApplicationService(repo repository.ServiceApplicationRepository, audits repository.AuditRepository, txManager repository.TransactionManager) ServiceApplicationService {
	return &serviceApplicationService{
		repo:      repo,
		audits:    audits,
		txManager: txManager,
		validator: validation.Default,
	}
}

var errApplicationNotFound = apperror.New(apperror.ErrCodeNotFound, "service application not found")

func (s *serviceApplicationService) Apply(ctx context.Context, req ApplyServiceRequestDTO) (*ServiceApplicationResponse, error) {
	input, fields := s.validator.ServiceApplication(validation.ServiceApplication(req))
	if fields != nil {
		return nil, apperror.Validation(fields)
	}

	app := &model.ServiceApplication{
		ID:              uuid.New(),
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Email:           input.Email,
		Phone:           input.Phone,
		CompanyType:     input.CompanyType,
		ProvidedService: input.ProvidedService,
		CompanyName:     input.CompanyName,
		TaxID:           input.TaxID,
		Status:          model.StatusPending,
		CreatedAt:       time.Now(),
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, app); err != nil {
			return fmt.Errorf("failed to create service application: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"company_type":     app.CompanyType,
			"provided_service": app.ProvidedService,
		})
		if err := s.audits.Log(txCtx, &model.AuditLog{
			Action:     model.ActionSubmitApplication,
			EntityID:   app.ID.String(),
			EntityName: app.CompanyName,
			Details:    string(details),
		}); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toServiceApplicationResponse(*app)
	return &resp, nil
}

func (s *serviceApplicationService) List(ctx context.Context, actor access.Actor, status string, page, limit int) ([]ServiceApplicationResponse, int64, error) {
	if !access.Can(actor.Role, model.KindServiceApplication, access.View) {
		return nil, 0, apperror.ErrForbidden
	}

	filter := model.RequestFilter{Status: status}.StatusValue()
	p := pagination.Normalize(page, limit)
	apps, total, err := s.repo.List(ctx, filter, p.Offset, p.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch service applications: %w", err)
	}

	res := make([]ServiceApplicationResponse, 0, len(apps))
	for _, a := range apps {
		res = append(res, toServiceApplicationResponse(a))
	}
	return res, total, nil
}

func (s *serviceApplicationService) Review(ctx context.Context, actor access.Actor, id string, req ReviewRequestDTO) (*ServiceApplicationResponse, error) {
	if !access.Can(actor.Role, model.KindServiceApplication, access.Review) {
		return nil, apperror.ErrForbidden
	}

	if req.Note == "" {
		req.Note = req.Reason
	}
	decision := s.validator.NormalizeReview(validation.Review{Decision: req.Decision, Note: req.Note})
	if fields := s.validator.ApplicationReview(decision); fields != nil {
		return nil, apperror.Validation(fields)
	}

	appID, err := uuid.Parse(id)
	if err != nil {
		return nil, errApplicationNotFound
	}

	var app *model.ServiceApplication
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		app, findErr = s.repo.FindByIDForUpdate(txCtx, appID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return errApplicationNotFound
			}
			return fmt.Errorf("failed to load service application: %w", findErr)
		}

		if !app.CanTransition(decision.Decision) {
			return apperror.New(apperror.ErrCodeConflict, fmt.Sprintf("application is already %s", app.Status))
		}

		now := time.Now()
		app.Status = decision.Decision
		app.ReviewedBy = &actor.ID
		app.ReviewedAt = &now
		app.DecisionNote = decision.Note

		if err := s.repo.Update(txCtx, app); err != nil {
			return fmt.Errorf("failed to update service application: %w", err)
		}

		action := model.ActionApproveApplication
		if app.Status == model.StatusRejected {
			action = model.ActionRejectApplication
		}
		details, _ := json.Marshal(map[string]interface{}{
			"status": app.Status,
			"note":   app.DecisionNote,
		})
		if err := s.audits.Log(txCtx, &model.AuditLog{
			UserID:     &actor.ID,
			Action:     action,
			EntityID:   app.ID.String(),
			EntityName: app.CompanyName,
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
		"application_id": app.ID.String(),
		"status":         app.Status,
		"actor":          actor.ID.String(),
	}).Info("service application reviewed")

	if reloaded, loadErr := s.repo.FindByID(ctx, app.ID); loadErr == nil {
		app = reloaded
	}

	resp := toServiceApplicationResponse(*app)
	return &resp, nil
}

func toServiceApplicationResponse(a model.ServiceApplication) ServiceApplicationResponse {
	resp := ServiceApplicationResponse{
		ID:              a.ID.String(),
		ApplicantName:   a.FirstName + " " + a.LastName,
		Email:           a.Email,
		Phone:           a.Phone,
		CompanyType:     a.CompanyType,
		ProvidedService: a.ProvidedService,
		CompanyName:     a.CompanyName,
		TaxID:           a.TaxID,
		Status:          a.Status,
		DecisionNote:    a.DecisionNote,
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
	}
	if a.ReviewedBy != nil {
		s := a.ReviewedBy.String()
		resp.ReviewedBy = &s
	}
	if a.Reviewer != nil {
		resp.ReviewerName = a.Reviewer.FullName()
	}
	if a.ReviewedAt != nil {
		s := a.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &s
	}
	return resp
}
