package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/recipe-catalog/backend/internal/forms"
	"github.com/pageza/recipe-catalog/backend/internal/service"
	"github.com/pageza/recipe-catalog/backend/internal/testhelpers"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

func setupAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	return service.NewAuthService(db, "test-secret", time.Hour).WithHashCost(bcrypt.MinCost)
}

func TestSignUpAndAuthenticate(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	user, err := svc.SignUp(ctx, forms.SignUpInput{Username: "meera", Email: "meera@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	_, err = svc.SignUp(ctx, forms.SignUpInput{Username: "meera", Email: "other@example.com", Password: "another-pass"})
	assert.ErrorIs(t, err, service.ErrUsernameTaken)

	got, err := svc.Authenticate(ctx, "meera", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, "meera", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody", "s3cret-pass")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	byID, err := svc.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "meera", byID.Username)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := setupAuthService(t)
	user, err := svc.SignUp(context.Background(), forms.SignUpInput{Username: "ravi", Email: "ravi@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "ravi", claims.Username)
	assert.Equal(t, user.ID.String(), claims.Subject)
}

func TestValidateTokenRejects(t *testing.T) {
	svc := setupAuthService(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256,
		types.NewSessionClaims("recipe-catalog", uuid.New(), "ravi", time.Now().Add(-2*time.Hour), time.Hour))
	expiredToken, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	other := service.NewAuthService(testhelpers.SetupSQLite(t), "other-secret", time.Hour)
	user := testhelpers.CreateUser(t, testhelpers.SetupSQLite(t), "x")
	foreignToken, err := other.GenerateToken(user)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"expired":      expiredToken,
		"wrong secret": foreignToken,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.ErrorIs(t, err, service.ErrInvalidToken)
		})
	}
}
