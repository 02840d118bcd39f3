package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/auth-api/internal/common/clock"
)

// Claims is the session token payload: id, email and username plus the
// registered iat and exp.
type Claims struct {
	UserID   string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type TokenSigner interface {
	Issue(claims Claims) (string, error)
}

var ErrInvalidToken = errors.New("invalid token")

type TokenIssuer struct {
	jwtSecret []byte
	ttl       time.Duration
	clock     clock.Clock
}

func NewTokenIssuer(jwtSecret string, ttl time.Duration, clock clock.Clock) *TokenIssuer {
	return &TokenIssuer{
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		clock:     clock,
	}
}

func (ti *TokenIssuer) Issue(claims Claims) (string, error) {
	now := ti.clock.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	incrementAccessTokensIssued()
	return signed, nil
}

// Parse verifies signature, algorithm and expiry of tokenString.
func (ti *TokenIssuer) Parse(tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(*jwt.Token) (any, error) { return ti.jwtSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(ti.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
