package service_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/auth-api/internal/auth/service"
	"github.com/AlibekovAA/auth-api/internal/common/clock"
)

const testSecret = "test-secret-key-must-be-at-least-32-bytes-long"

func TestTokenIssuer_IssueAndParse(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := service.NewTokenIssuer(testSecret, time.Hour, clock.NewMockClock(now))

	token, err := issuer.Issue(service.Claims{UserID: "user-1", Email: "a@b.io", Username: "a"})
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@b.io", claims.Email)
	assert.Equal(t, "a", claims.Username)
	assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestTokenIssuer_PayloadKeys(t *testing.T) {
	issuer := service.NewTokenIssuer(testSecret, time.Hour, clock.NewRealClock())

	token, err := issuer.Issue(service.Claims{UserID: "user-1", Email: "a@b.io", Username: "a"})
	require.NoError(t, err)

	payload := jwt.MapClaims{}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, payload)
	require.NoError(t, err)
	assert.Equal(t, "HS256", parsed.Method.Alg())

	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"id", "email", "username", "iat", "exp"}, keys)
}

func TestTokenIssuer_Expired(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := service.NewTokenIssuer(testSecret, time.Minute, clk)

	token, err := issuer.Issue(service.Claims{UserID: "user-1"})
	require.NoError(t, err)

	clk.Advance(2 * time.Minute)
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	clk := clock.NewRealClock()
	token, err := service.NewTokenIssuer(testSecret, time.Hour, clk).Issue(service.Claims{UserID: "user-1"})
	require.NoError(t, err)

	other := service.NewTokenIssuer("another-secret-key-that-is-32-bytes-or-more", time.Hour, clk)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	issuer := service.NewTokenIssuer(testSecret, time.Hour, clock.NewRealClock())

	claims := service.Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	_, err = issuer.Parse("not-a-token")
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}
