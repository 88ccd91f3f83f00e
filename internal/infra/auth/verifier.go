package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/xavierca1/dental-funnel/internal/infra/integration/supabase"
	"github.com/xavierca1/dental-funnel/internal/usecase"
)

var ErrInvalidToken = errors.New("auth: invalid token")

type userFetcher interface {
	GetUser(ctx context.Context, accessToken string) (*supabase.User, error)
}

// RemoteVerifier confirma o token direto no Supabase Auth.
type RemoteVerifier struct {
	client userFetcher
}

func NewRemoteVerifier(client userFetcher) *RemoteVerifier {
	return &RemoteVerifier{client: client}
}

func (v *RemoteVerifier) Verify(ctx context.Context, token string) (*usecase.Identity, error) {
	user, err := v.client.GetUser(ctx, token)
	if err != nil {
		if errors.Is(err, supabase.ErrInvalidToken) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return &usecase.Identity{UserID: user.ID, Email: user.Email}, nil
}

// JWTVerifier valida o access token localmente com o JWT secret do projeto
// (HS256). Não consulta o Supabase.
type JWTVerifier struct {
	secret []byte
	now    func() time.Time
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), now: time.Now}
}

func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (*usecase.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := claims.GetSubject()
	if sub == "" {
		return nil, ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	return &usecase.Identity{UserID: sub, Email: email}, nil
}

// NewVerifier escolhe a verificação local quando há JWT secret configurado.
func NewVerifier(jwtSecret string, client userFetcher) usecase.TokenVerifier {
	if jwtSecret != "" {
		return NewJWTVerifier(jwtSecret)
	}
	return NewRemoteVerifier(client)
}
