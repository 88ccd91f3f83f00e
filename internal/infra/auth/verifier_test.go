package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/dental-funnel/internal/infra/integration/supabase"
)

type MockUserFetcher struct {
	mock.Mock
}

func (m *MockUserFetcher) GetUser(ctx context.Context, token string) (*supabase.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supabase.User), args.Error(1)
}

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

// TestJWTVerifierValid - sub e email saem das claims
func TestJWTVerifierValid(t *testing.T) {
	v := NewJWTVerifier("segredo")
	token := sign(t, "segredo", jwt.MapClaims{
		"sub":   "user-1",
		"email": "ana@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	id, err := v.Verify(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, "ana@example.com", id.Email)
}

// TestJWTVerifierRejects - assinatura errada, expirado e sem sub
func TestJWTVerifierRejects(t *testing.T) {
	v := NewJWTVerifier("segredo")
	cases := map[string]string{
		"wrong secret": sign(t, "outro", jwt.MapClaims{"sub": "u", "exp": time.Now().Add(time.Hour).Unix()}),
		"expired":      sign(t, "segredo", jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Hour).Unix()}),
		"no sub":       sign(t, "segredo", jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}),
		"no exp":       sign(t, "segredo", jwt.MapClaims{"sub": "u"}),
		"garbage":      "not-a-jwt",
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

// TestRemoteVerifier - token rejeitado pelo Supabase vira ErrInvalidToken
func TestRemoteVerifier(t *testing.T) {
	fetcher := new(MockUserFetcher)
	fetcher.On("GetUser", mock.Anything, "good").Return(&supabase.User{ID: "user-2", Email: "b@example.com"}, nil)
	fetcher.On("GetUser", mock.Anything, "bad").Return(nil, supabase.ErrInvalidToken)
	fetcher.On("GetUser", mock.Anything, "down").Return(nil, errors.New("dial tcp: refused"))

	v := NewRemoteVerifier(fetcher)

	id, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "user-2", id.UserID)

	_, err = v.Verify(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(context.Background(), "down")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

func TestNewVerifierSelection(t *testing.T) {
	_, isJWT := NewVerifier("s", nil).(*JWTVerifier)
	assert.True(t, isJWT)

	_, isRemote := NewVerifier("", new(MockUserFetcher)).(*RemoteVerifier)
	assert.True(t, isRemote)
}
