package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ecopark/internal/apperror"
	"ecopark/internal/model"
	"ecopark/internal/repository"
	"ecopark/internal/validation"
	"ecopark/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DonateRequestDTO struct {
	DonationType string          `json:"donation_type"`
	Amount       decimal.Decimal `json:"amount" swaggertype:"number"`
	ParkName     string          `json:"park_name"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	Email        string          `json:"email"`
	Message      string          `json:"message"`
}

type DonationResponse struct {
	ID           string `json:"id"`
	DonationType string `json:"donation_type"`
	Amount       string `json:"amount"`
	ParkName     string `json:"park_name"`
	DonorName    string `json:"donor_name"`
	Email        string `json:"email"`
	Message      string `json:"message"`
	CreatedAt    string `json:"created_at"`
}

type DonationService interface {
	Donate(ctx context.Context, req DonateRequestDTO) (*DonationResponse, error)
	ListDonations(ctx context.Context, park string, page, limit int) ([]DonationResponse, int64, error)
	TotalsByPark(ctx context.Context) (map[string]string, error)
}

type donationService struct {
	repo      repository.DonationRepository
	audits    repository.AuditRepository
	txManager repository.TransactionManager
	validator *validation.Validator
}

func NewDonationService(repo repository.DonationRepository, audits repository.AuditRepository, txManager repository.TransactionManager) DonationService {
	return &donationService{
		repo:      repo,
		audits:    audits,
		txManager: txManager,
		validator: validation.Default,
	}
}

func (s *donationService) Donate(ctx context.Context, req DonateRequestDTO) (*DonationResponse, error) {
	input, fields := s.validator.Donation(validation.Donation(req))
	if fields != nil {
		return nil, apperror.Validation(fields)
	}

	donation := &model.Donation{
		ID:           uuid.New(),
		DonationType: input.DonationType,
		Amount:       input.Amount,
		ParkName:     input.ParkName,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Message:      input.Message,
		CreatedAt:    time.Now(),
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, donation); err != nil {
			return fmt.Errorf("failed to record donation: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"amount":    donation.Amount.StringFixed(2),
			"park_name": donation.ParkName,
			"type":      donation.DonationType,
		})
		if err := s.audits.Log(txCtx, &model.AuditLog{
			Action:     model.ActionReceiveDonation,
			EntityID:   donation.ID.String(),
			EntityName: donation.ParkName,
			Details:    string(details),
		}); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toDonationResponse(*donation)
	return &resp, nil
}

func (s *donationService) ListDonations(ctx context.Context, park string, page, limit int) ([]DonationResponse, int64, error) {
	p := pagination.Normalize(page, limit)
	donations, total, err := s.repo.List(ctx, park, p.Offset, p.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch donations: %w", err)
	}

	res := make([]DonationResponse, 0, len(donations))
	for _, d := range donations {
		res = append(res, toDonationResponse(d))
	}
	return res, total, nil
}

func (s *donationService) TotalsByPark(ctx context.Context) (map[string]string, error) {
	sums, err := s.repo.SumByPark(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to total donations: %w", err)
	}

	totals := make(map[string]string, len(sums))
	for park, sum := range sums {
		totals[park] = sum.StringFixed(2)
	}
	return totals, nil
}

func toDonationResponse(d model.Donation) DonationResponse {
	return DonationResponse{
		ID:           d.ID.String(),
		DonationType: d.DonationType,
		Amount:       d.Amount.StringFixed(2),
		ParkName:     d.ParkName,
		DonorName:    d.FirstName + " " + d.LastName,
		Email:        d.Email,
		Message:      d.Message,
		CreatedAt:    d.CreatedAt.Format(time.RFC3339),
	}
}
