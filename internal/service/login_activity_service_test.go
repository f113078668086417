package service

import (
	"context"
	"testing"
	"time"

	"ecopark/internal/model"
	"ecopark/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLoginActivityService_RecentLogins(t *testing.T) {
	audits := new(mockAuditRepo)
	svc := NewLoginActivityService(audits)
	ctx := context.Background()
	userID := uuid.New()
	at := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	audits.On("List", ctx, repository.AuditQuery{Action: model.ActionLogin, Limit: 5}).Return([]model.AuditLog{
		{
			UserID:     &userID,
			Action:     model.ActionLogin,
			EntityName: "finance@ecopark.com",
			Details:    `{"email":"finance@ecopark.com","role":"finance"}`,
			CreatedAt:  at,
		},
	}, int64(1), nil)

	logins, err := svc.RecentLogins(ctx, 0)
	require.NoError(t, err)
	require.Len(t, logins, 1)
	assert.Equal(t, "finance@ecopark.com", logins[0].Email)
	assert.Equal(t, model.RoleFinance, logins[0].Role)
	assert.Equal(t, userID.String(), logins[0].UserID)
	assert.Equal(t, at.Format(time.RFC3339), logins[0].LastLogin)
}

func TestLoginActivityService_MetricsFillEmptyMonths(t *testing.T) {
	audits := new(mockAuditRepo)
	svc := &loginActivityService{
		audits: audits,
		now:    func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) },
	}
	ctx := context.Background()
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	audits.On("Timestamps", ctx, model.ActionLogin, mock.MatchedBy(since.Equal)).Return([]time.Time{
		time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 30, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}, nil)

	metrics, err := svc.LoginMetrics(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []MonthlyLogins{
		{Month: "2026-01", Label: "Jan", Logins: 2},
		{Month: "2026-02", Label: "Feb", Logins: 0},
		{Month: "2026-03", Label: "Mar", Logins: 1},
	}, metrics)
}
