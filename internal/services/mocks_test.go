package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mt5crm/backoffice/internal/ledger"
)

type MockAdjuster struct {
	mock.Mock
}

func (m *MockAdjuster) Adjust(ctx context.Context, adj ledger.Adjustment) (*ledger.Receipt, error) {
	args := m.Called(ctx, adj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Receipt), args.Error(1)
}

// adjustment matches an Adjustment by login, amount and comment.
func adjustment(login, amount, comment string) any {
	return mock.MatchedBy(func(adj ledger.Adjustment) bool {
		return adj.Login == login &&
			adj.Type == ledger.TypeBalance &&
			adj.Amount.String() == amount &&
			adj.Comment == comment
	})
}
