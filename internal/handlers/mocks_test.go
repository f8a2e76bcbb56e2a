package handlers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mt5crm/backoffice/internal/models"
	"github.com/mt5crm/backoffice/internal/services"
)

type MockDepositService struct {
	mock.Mock
}

func (m *MockDepositService) ListDeposits(ctx context.Context, page models.PageRequest) (*models.DepositPage, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DepositPage), args.Error(1)
}

func (m *MockDepositService) ApproveDeposit(ctx context.Context, id int64, comment string) models.ActionResult {
	return m.Called(ctx, id, comment).Get(0).(models.ActionResult)
}

func (m *MockDepositService) RejectDeposit(ctx context.Context, id int64, comment string) models.ActionResult {
	return m.Called(ctx, id, comment).Get(0).(models.ActionResult)
}

type MockWithdrawalService struct {
	mock.Mock
}

func (m *MockWithdrawalService) ListWithdrawals(ctx context.Context, page models.PageRequest, filter models.WithdrawalFilter) (*models.WithdrawalPage, error) {
	args := m.Called(ctx, page, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WithdrawalPage), args.Error(1)
}

func (m *MockWithdrawalService) ApproveWithdrawal(ctx context.Context, id int64, comment, operator string) models.ActionResult {
	return m.Called(ctx, id, comment, operator).Get(0).(models.ActionResult)
}

func (m *MockWithdrawalService) RejectWithdrawalAndRefund(ctx context.Context, id int64, comment, operator string) models.ActionResult {
	return m.Called(ctx, id, comment, operator).Get(0).(models.ActionResult)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) PendingSummary(ctx context.Context) (*models.DashboardSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardSummary), args.Error(1)
}

func (m *MockDashboardService) TotalUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Authenticate(ctx context.Context, username, password string) (*models.Operator, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Operator), args.Error(1)
}

func (m *MockAuthService) IssueToken(op *models.Operator) (string, time.Time, error) {
	args := m.Called(op)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockAuthService) Revoke(ctx context.Context, claims *services.OperatorClaims) error {
	return m.Called(ctx, claims).Error(0)
}
