package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/texdrill-api/internal/service/auth"
)

var _ auth.JWTService = (*MockJWTService)(nil)

// MockJWTService returns canned tokens and claims. A non-nil Fn field
// replaces the canned behavior of its method. Every user a token is issued
// for is recorded in IssuedFor.
type MockJWTService struct {
	Token        string
	RefreshToken string
	// Err fails both token generators.
	Err error
	// ValidateErr fails both validators.
	ValidateErr error
	Claims      *auth.Claims

	GenerateTokenFn        func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFn        func(ctx context.Context, tokenString string) (*auth.Claims, error)
	GenerateRefreshTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateRefreshTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	mu        sync.Mutex
	IssuedFor []uuid.UUID
}

func (m *MockJWTService) record(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IssuedFor = append(m.IssuedFor, userID)
}

func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	m.record(userID)
	if fn := m.GenerateTokenFn; fn != nil {
		return fn(ctx, userID)
	}
	return m.Token, m.Err
}

func (m *MockJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	m.record(userID)
	if fn := m.GenerateRefreshTokenFn; fn != nil {
		return fn(ctx, userID)
	}
	return m.RefreshToken, m.Err
}

func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if fn := m.ValidateTokenFn; fn != nil {
		return fn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

func (m *MockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if fn := m.ValidateRefreshTokenFn; fn != nil {
		return fn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}
