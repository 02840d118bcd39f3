package service_test

import (
	"context"

	"github.com/AlibekovAA/auth-api/internal/auth/service"
	userdomain "github.com/AlibekovAA/auth-api/internal/user/domain"
	userrepo "github.com/AlibekovAA/auth-api/internal/user/repository"
)

type mockUserRepo struct {
	createFunc      func(ctx context.Context, user userdomain.NewUser) (userdomain.User, error)
	findByEmailFunc func(ctx context.Context, email string) (userdomain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.NewUser) (userdomain.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return userdomain.User{
		ID:           "user-123",
		Email:        user.Email,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
	}, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

type mockHasher struct {
	hashFunc   func(password string) (string, error)
	verifyFunc func(password, hash string) bool
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockHasher) Verify(password, hash string) bool {
	if m.verifyFunc != nil {
		return m.verifyFunc(password, hash)
	}
	return hash == "hashed_"+password
}

type mockTokenSigner struct {
	issueFunc func(claims service.Claims) (string, error)
}

func (m *mockTokenSigner) Issue(claims service.Claims) (string, error) {
	if m.issueFunc != nil {
		return m.issueFunc(claims)
	}
	return "token-for-" + claims.UserID, nil
}
