package jwt

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/opsdesk/payroll-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "15m")
	actor := user.Actor{UserID: "u-1", CompanyID: "c-1", EmployeeID: "e-1", Role: user.RoleManager}

	tokenString, expiresAt, err := svc.GenerateAccessToken(actor)
	require.NoError(t, err)
	assert.NotEmpty(t, tokenString)
	assert.Positive(t, expiresAt)

	token, err := jwtauth.VerifyToken(svc.JWTAuth(), tokenString)
	require.NoError(t, err)

	got, err := ActorFromContext(jwtauth.NewContext(context.Background(), token, nil))
	require.NoError(t, err)
	assert.Equal(t, actor, got)
}

func TestGenerateAccessToken_BadDuration(t *testing.T) {
	svc := NewJWTService("test-secret", "soon")
	_, _, err := svc.GenerateAccessToken(user.Actor{CompanyID: "c-1"})
	assert.Error(t, err)
}

func TestActorFromContext_MissingCompany(t *testing.T) {
	svc := NewJWTService("test-secret", "15m")
	ctx, err := NewContext(context.Background(), svc.JWTAuth(), user.Actor{UserID: "u-1", Role: user.RoleEmployee})
	require.NoError(t, err)

	_, err = ActorFromContext(ctx)
	assert.ErrorIs(t, err, ErrMissingCompany)
}

func TestActorFromContext_NoToken(t *testing.T) {
	_, err := ActorFromContext(context.Background())
	assert.Error(t, err)
}
