package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/opsdesk/payroll-backend-go/internal/domain/user"
)

var ErrMissingCompany = errors.New("company_id claim is missing or invalid")

type Service interface {
	GenerateAccessToken(actor user.Actor) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

// GenerateAccessToken issues tokens for operator tooling and tests. Regular
// sign-in happens in the identity service.
func (j *JWTService) GenerateAccessToken(actor user.Actor) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(actorClaims(actor, expiresAt))
	return tokenString, expiresAt, err
}

func actorClaims(actor user.Actor, expiresAt int64) map[string]interface{} {
	claims := map[string]interface{}{
		"user_id":    actor.UserID,
		"company_id": actor.CompanyID,
		"role":       string(actor.Role),
		"type":       "access",
		"exp":        expiresAt,
	}
	if actor.EmployeeID != "" {
		claims["employee_id"] = actor.EmployeeID
	}
	return claims
}

// ActorFromContext reads the verified token claims placed in ctx by the
// jwtauth verifier.
func ActorFromContext(ctx context.Context) (user.Actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.Actor{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return user.Actor{}, ErrMissingCompany
	}

	actor := user.Actor{CompanyID: companyID}
	actor.UserID, _ = claims["user_id"].(string)
	actor.EmployeeID, _ = claims["employee_id"].(string)
	role, _ := claims["role"].(string)
	actor.Role = user.Role(role)
	return actor, nil
}

// NewContext attaches a freshly signed token for actor to ctx, as the verifier
// middleware would. Used by background jobs and tests.
func NewContext(ctx context.Context, ja *jwtauth.JWTAuth, actor user.Actor) (context.Context, error) {
	token, _, err := ja.Encode(actorClaims(actor, time.Now().Add(time.Hour).Unix()))
	if err != nil {
		return nil, err
	}
	return jwtauth.NewContext(ctx, token, nil), nil
}
