package jwt

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type Service interface {
	GenerateAccessToken(userID string, email string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

// GenerateAccessToken issues tokens in the shape AuthRequired accepts. Login
// lives in the identity provider; this is used by tooling and tests.
func (j *JWTService) GenerateAccessToken(userID string, email string) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id": userID,
		"email":   email,
		"type":    "access",
		"exp":     expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// SessionFromContext builds the explicit session from verified JWT claims.
func SessionFromContext(ctx context.Context) (auth.Session, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return auth.Session{}, fmt.Errorf("failed to extract claims from context: %w", auth.ErrMissingSession)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return auth.Session{}, fmt.Errorf("user_id claim is missing or invalid: %w", auth.ErrMissingSession)
	}

	email, _ := claims["email"].(string)
	return auth.Session{UserID: userID, Email: email}, nil
}
