package resolver

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/4wpdev/4wp-auth/internal/repository"
)

// mockRepository is a mock implementation of repository.Repository.
type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) FindAccountIDByEmail(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *mockRepository) HandleExists(ctx context.Context, handle string) (bool, error) {
	args := m.Called(ctx, handle)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) CreateAccount(ctx context.Context, account repository.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockRepository) FindLinkAccountID(ctx context.Context, provider, providerUserID string) (string, error) {
	args := m.Called(ctx, provider, providerUserID)
	return args.String(0), args.Error(1)
}

func (m *mockRepository) CreateLink(ctx context.Context, link repository.Link) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *mockRepository) UpdateLinkTokens(ctx context.Context, provider, providerUserID string, link repository.Link) error {
	args := m.Called(ctx, provider, providerUserID, link)
	return args.Error(0)
}
