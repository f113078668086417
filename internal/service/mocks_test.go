package service

import (
	"context"
	"time"

	"ecopark/internal/model"
	"ecopark/internal/notify"
	"ecopark/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type mockFundingRepo struct {
	mock.Mock
}

func (m *mockFundingRepo) Create(ctx context.Context, req *model.FundingRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockFundingRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.FundingRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FundingRequest), args.Error(1)
}

func (m *mockFundingRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.FundingRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FundingRequest), args.Error(1)
}

func (m *mockFundingRepo) List(ctx context.Context, q repository.FundingRequestQuery) ([]model.FundingRequest, int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.FundingRequest), args.Get(1).(int64), args.Error(2)
}

func (m *mockFundingRepo) Update(ctx context.Context, req *model.FundingRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockFundingRepo) CountByStatus(ctx context.Context, kind string, requestedBy *uuid.UUID) (map[string]int64, error) {
	args := m.Called(ctx, kind, requestedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

type mockAuditRepo struct {
	mock.Mock
}

func (m *mockAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockAuditRepo) List(ctx context.Context, q repository.AuditQuery) ([]model.AuditLog, int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.AuditLog), args.Get(1).(int64), args.Error(2)
}

func (m *mockAuditRepo) Timestamps(ctx context.Context, action string, since time.Time) ([]time.Time, error) {
	args := m.Called(ctx, action, since)
	return args.Get(0).([]time.Time), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context, role string, page, limit int) ([]model.User, int64, error) {
	args := m.Called(ctx, role, page, limit)
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockDonationRepo struct {
	mock.Mock
}

func (m *mockDonationRepo) Create(ctx context.Context, d *model.Donation) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *mockDonationRepo) List(ctx context.Context, park string, offset, limit int) ([]model.Donation, int64, error) {
	args := m.Called(ctx, park, offset, limit)
	return args.Get(0).([]model.Donation), args.Get(1).(int64), args.Error(2)
}

func (m *mockDonationRepo) SumByPark(ctx context.Context) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

// fakeTx runs fn inline and reports whether it was used.
type fakeTx struct {
	calls int
}

func (f *fakeTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type recordingPublisher struct {
	events []notify.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev notify.Event) error {
	p.events = append(p.events, ev)
	return nil
}

type mockStatisticsRepo struct {
	mock.Mock
}

func (m *mockStatisticsRepo) TotalsByStatus(ctx context.Context, q repository.StatisticsQuery) ([]model.StatusTotal, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.StatusTotal), args.Error(1)
}

func (m *mockStatisticsRepo) TopParks(ctx context.Context, q repository.StatisticsQuery, limit int) ([]model.ParkRanking, error) {
	args := m.Called(ctx, q, limit)
	return args.Get(0).([]model.ParkRanking), args.Error(1)
}

type mockTourRepo struct {
	mock.Mock
}

func (m *mockTourRepo) Create(ctx context.Context, t *model.TourBooking) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTourRepo) List(ctx context.Context, park string, offset, limit int) ([]model.TourBooking, int64, error) {
	args := m.Called(ctx, park, offset, limit)
	return args.Get(0).([]model.TourBooking), args.Get(1).(int64), args.Error(2)
}

type mockApplicationRepo struct {
	mock.Mock
}

func (m *mockApplicationRepo) Create(ctx context.Context, app *model.ServiceApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *mockApplicationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ServiceApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ServiceApplication), args.Error(1)
}

func (m *mockApplicationRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.ServiceApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ServiceApplication), args.Error(1)
}

func (m *mockApplicationRepo) List(ctx context.Context, status string, offset, limit int) ([]model.ServiceApplication, int64, error) {
	args := m.Called(ctx, status, offset, limit)
	return args.Get(0).([]model.ServiceApplication), args.Get(1).(int64), args.Error(2)
}

func (m *mockApplicationRepo) Update(ctx context.Context, app *model.ServiceApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}
