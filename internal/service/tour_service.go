package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ecopark/internal/apperror"
	"ecopark/internal/logger"
	"ecopark/internal/model"
	"ecopark/internal/repository"
	"ecopark/internal/validation"
	"ecopark/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type BookTourRequestDTO struct {
	ParkName        string          `json:"park_name"`
	TourName        string          `json:"tour_name"`
	Date            string          `json:"date" example:"2026-07-04"`
	Time            string          `json:"time" example:"09:30"`
	Guests          int             `json:"guests"`
	Amount          decimal.Decimal `json:"amount" swaggertype:"number"`
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	SpecialRequests string          `json:"special_requests"`
}

type TourBookingResponse struct {
	ID              string `json:"id"`
	ParkName        string `json:"park_name"`
	TourName        string `json:"tour_name"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Guests          int    `json:"guests"`
	Amount          string `json:"amount"`
	GuestName       string `json:"guest_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	SpecialRequests string `json:"special_requests"`
	CreatedAt       string `json:"created_at"`
}

type TourService interface {
	BookTour(ctx context.Context, req BookTourRequestDTO) (*TourBookingResponse, error)
	ListTours(ctx context.Context, park string, page, limit int) ([]TourBookingResponse, int64, error)
}

type tourService struct {
	repo      repository.TourRepository
	audits    repository.AuditRepository
	txManager repository.TransactionManager
	validator *validation.Validator
}

func NewTourService(repo repository.TourRepository, audits repository.AuditRepository, txManager repository.TransactionManager) TourService {
	return &tourService{
		repo:      repo,
		audits:    audits,
		txManager: txManager,
		validator: validation.Default,
	}
}

func (s *tourService) BookTour(ctx context.Context, req BookTourRequestDTO) (*TourBookingResponse, error) {
	input, fields := s.validator.Tour(validation.Tour(req))
	if fields != nil {
		return nil, apperror.Validation(fields)
	}

	booking := &model.TourBooking{
		ID:              uuid.New(),
		ParkName:        input.ParkName,
		TourName:        input.TourName,
		TourDate:        input.Date,
		TourTime:        input.Time,
		Guests:          input.Guests,
		Amount:          input.Amount,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Email:           input.Email,
		Phone:           input.Phone,
		SpecialRequests: input.SpecialRequests,
		CreatedAt:       time.Now(),
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, booking); err != nil {
			return fmt.Errorf("failed to book tour: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"park_name": booking.ParkName,
			"tour_name": booking.TourName,
			"date":      booking.TourDate,
			"guests":    booking.Guests,
			"amount":    booking.Amount.StringFixed(2),
		})
		if err := s.audits.Log(txCtx, &model.AuditLog{
			Action:     model.ActionBookTour,
			EntityID:   booking.ID.String(),
			EntityName: booking.TourName,
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
		"booking_id": booking.ID.String(),
		"park":       booking.ParkName,
		"guests":     booking.Guests,
	}).Info("tour booked")

	resp := toTourBookingResponse(*booking)
	return &resp, nil
}

func (s *tourService) ListTours(ctx context.Context, park string, page, limit int) ([]TourBookingResponse, int64, error) {
	p := pagination.Normalize(page, limit)
	tours, total, err := s.repo.List(ctx, park, p.Offset, p.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch tour bookings: %w", err)
	}

	res := make([]TourBookingResponse, 0, len(tours))
	for _, t := range tours {
		res = append(res, toTourBookingResponse(t))
	}
	return res, total, nil
}

func toTourBookingResponse(t model.TourBooking) TourBookingResponse {
	return TourBookingResponse{
		ID:              t.ID.String(),
		ParkName:        t.ParkName,
		TourName:        t.TourName,
		Date:            t.TourDate,
		Time:            t.TourTime,
		Guests:          t.Guests,
		Amount:          t.Amount.StringFixed(2),
		GuestName:       t.FirstName + " " + t.LastName,
		Email:           t.Email,
		Phone:           t.Phone,
		SpecialRequests: t.SpecialRequests,
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
	}
}
