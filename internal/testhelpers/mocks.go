package testhelpers

import (
	"github.com/stretchr/testify/mock"

	"github.com/pageza/platewise/backend/internal/types"
)

// MockTokenValidator is a testify mock of middleware.TokenValidator.
type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if claims, ok := args.Get(0).(*types.TokenClaims); ok {
		return claims, args.Error(1)
	}
	return nil, args.Error(1)
}
