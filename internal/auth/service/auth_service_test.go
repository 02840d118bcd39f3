package service_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/auth-api/internal/auth/service"
	commonerrors "github.com/AlibekovAA/auth-api/internal/common/errors"
	"github.com/AlibekovAA/auth-api/internal/common/logger"
	userdomain "github.com/AlibekovAA/auth-api/internal/user/domain"
	userrepo "github.com/AlibekovAA/auth-api/internal/user/repository"
)

func setupAuthService() (*service.AuthService, *mockUserRepo, *mockHasher, *mockTokenSigner) {
	repo := &mockUserRepo{}
	hasher := &mockHasher{}
	tokens := &mockTokenSigner{}

	svc := service.NewAuthService(service.AuthServiceDeps{
		Repo:   repo,
		Hasher: hasher,
		Tokens: tokens,
		Log:    logger.NewWithWriter(io.Discard, "test", "error"),
	})
	return svc, repo, hasher, tokens
}

func requireDomainError(t *testing.T, err error, code string, status int, message string) commonerrors.DomainError {
	t.Helper()
	domainErr, ok := commonerrors.AsDomainError(err)
	require.True(t, ok, "expected domain error, got %v", err)
	assert.Equal(t, code, domainErr.Code())
	assert.Equal(t, status, domainErr.HTTPStatus())
	assert.Equal(t, message, domainErr.Message())
	return domainErr
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, repo, _, tokens := setupAuthService()
	first := "Ada"
	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	repo.createFunc = func(ctx context.Context, user userdomain.NewUser) (userdomain.User, error) {
		assert.Equal(t, "ada@example.com", user.Email)
		assert.Equal(t, "ada", user.Username)
		assert.Equal(t, "hashed_s3cret", user.PasswordHash)
		return userdomain.User{
			ID:           "user-1",
			Email:        user.Email,
			Username:     user.Username,
			PasswordHash: user.PasswordHash,
			FirstName:    user.FirstName,
			CreatedAt:    createdAt,
		}, nil
	}

	var issued service.Claims
	tokens.issueFunc = func(claims service.Claims) (string, error) {
		issued = claims
		return "signed-token", nil
	}

	result, err := svc.Register(context.Background(), service.RegisterInput{
		Email:     "ada@example.com",
		Username:  "ada",
		Password:  "s3cret",
		FirstName: &first,
	})
	require.NoError(t, err)

	assert.Equal(t, "signed-token", result.Token)
	assert.Equal(t, "user-1", result.User.ID)
	assert.Equal(t, "ada@example.com", result.User.Email)
	assert.Equal(t, createdAt, result.User.CreatedAt)
	require.NotNil(t, result.User.FirstName)
	assert.Equal(t, "Ada", *result.User.FirstName)
	assert.Nil(t, result.User.LastName)

	assert.Equal(t, service.Claims{UserID: "user-1", Email: "ada@example.com", Username: "ada"}, issued)
}

func TestAuthService_Register_Conflict(t *testing.T) {
	tests := []struct {
		field   string
		message string
	}{
		{userrepo.FieldEmail, "User with this email already exists"},
		{userrepo.FieldUsername, "User with this username already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			svc, repo, _, tokens := setupAuthService()
			repo.createFunc = func(ctx context.Context, user userdomain.NewUser) (userdomain.User, error) {
				return userdomain.User{}, &userrepo.ConflictError{Field: tt.field, Detail: "duplicate"}
			}
			tokens.issueFunc = func(claims service.Claims) (string, error) {
				t.Fatal("token must not be issued on conflict")
				return "", nil
			}

			_, err := svc.Register(context.Background(), service.RegisterInput{Email: "a@b.io", Username: "a", Password: "p"})

			domainErr := requireDomainError(t, err, "USER_EXISTS", http.StatusConflict, tt.message)
			assert.Empty(t, domainErr.Details())
			assert.ErrorIs(t, err, service.ErrUserExists)
		})
	}
}

func TestAuthService_Register_RepositoryError(t *testing.T) {
	svc, repo, _, _ := setupAuthService()
	repo.createFunc = func(ctx context.Context, user userdomain.NewUser) (userdomain.User, error) {
		return userdomain.User{}, &userrepo.Error{Op: "create user", Err: errors.New("connection refused")}
	}

	_, err := svc.Register(context.Background(), service.RegisterInput{Email: "a@b.io", Username: "a", Password: "p"})

	domainErr := requireDomainError(t, err, "DB_ERROR", http.StatusInternalServerError, "Database error")
	assert.Equal(t, "connection refused", domainErr.Details())
}

func TestAuthService_Register_UnexpectedError(t *testing.T) {
	svc, repo, _, _ := setupAuthService()
	repo.createFunc = func(ctx context.Context, user userdomain.NewUser) (userdomain.User, error) {
		return userdomain.User{}, errors.New("something odd")
	}

	_, err := svc.Register(context.Background(), service.RegisterInput{Email: "a@b.io", Username: "a", Password: "p"})

	domainErr := requireDomainError(t, err, "REGISTER_FAILED", http.StatusInternalServerError, "Failed to create user")
	assert.Equal(t, "something odd", domainErr.Details())
}

func TestAuthService_Register_HashFailure(t *testing.T) {
	svc, repo, hasher, _ := setupAuthService()
	hasher.hashFunc = func(password string) (string, error) {
		return "", errors.New("password length exceeds 72 bytes")
	}
	repo.createFunc = func(ctx context.Context, user userdomain.NewUser) (userdomain.User, error) {
		t.Fatal("repository must not be called when hashing fails")
		return userdomain.User{}, nil
	}

	_, err := svc.Register(context.Background(), service.RegisterInput{Email: "a@b.io", Username: "a", Password: "p"})

	domainErr := requireDomainError(t, err, "REGISTER_FAILED", http.StatusInternalServerError, "Failed to create user")
	assert.Equal(t, "password length exceeds 72 bytes", domainErr.Details())
}

func TestAuthService_Register_TokenFailure(t *testing.T) {
	svc, _, _, tokens := setupAuthService()
	tokens.issueFunc = func(claims service.Claims) (string, error) {
		return "", errors.New("sign token: key is invalid")
	}

	_, err := svc.Register(context.Background(), service.RegisterInput{Email: "a@b.io", Username: "a", Password: "p"})

	requireDomainError(t, err, "REGISTER_FAILED", http.StatusInternalServerError, "Failed to create user")
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, repo, _, _ := setupAuthService()
	repo.findByEmailFunc = func(ctx context.Context, email string) (userdomain.User, error) {
		assert.Equal(t, "ada@example.com", email)
		return userdomain.User{ID: "user-1", Email: email, Username: "ada", PasswordHash: "hashed_s3cret"}, nil
	}

	result, err := svc.Login(context.Background(), service.LoginInput{Email: "ada@example.com", Password: "s3cret"})
	require.NoError(t, err)

	assert.Equal(t, "token-for-user-1", result.Token)
	assert.Equal(t, "ada", result.User.Username)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	t.Run("unknown email", func(t *testing.T) {
		svc, _, _, _ := setupAuthService()

		_, err := svc.Login(context.Background(), service.LoginInput{Email: "ghost@example.com", Password: "x"})

		requireDomainError(t, err, "INVALID_CREDENTIALS", http.StatusUnauthorized, "Invalid Credentials")
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, repo, _, _ := setupAuthService()
		repo.findByEmailFunc = func(ctx context.Context, email string) (userdomain.User, error) {
			return userdomain.User{ID: "user-1", Email: email, PasswordHash: "hashed_right"}, nil
		}

		_, err := svc.Login(context.Background(), service.LoginInput{Email: "ada@example.com", Password: "wrong"})

		requireDomainError(t, err, "INVALID_CREDENTIALS", http.StatusUnauthorized, "Invalid Credentials")
	})
}

func TestAuthService_Login_RepositoryError(t *testing.T) {
	svc, repo, _, _ := setupAuthService()
	repo.findByEmailFunc = func(ctx context.Context, email string) (userdomain.User, error) {
		return userdomain.User{}, &userrepo.Error{Op: "find user by email", Err: context.DeadlineExceeded}
	}

	_, err := svc.Login(context.Background(), service.LoginInput{Email: "ada@example.com", Password: "x"})

	domainErr := requireDomainError(t, err, "LOGIN_FAILED", http.StatusInternalServerError, "Failed to Login")
	assert.Empty(t, domainErr.Details())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAuthService_Login_TokenFailure(t *testing.T) {
	svc, repo, _, tokens := setupAuthService()
	repo.findByEmailFunc = func(ctx context.Context, email string) (userdomain.User, error) {
		return userdomain.User{ID: "user-1", Email: email, PasswordHash: "hashed_pw"}, nil
	}
	tokens.issueFunc = func(claims service.Claims) (string, error) {
		return "", errors.New("signing failed")
	}

	_, err := svc.Login(context.Background(), service.LoginInput{Email: "ada@example.com", Password: "pw"})

	requireDomainError(t, err, "LOGIN_FAILED", http.StatusInternalServerError, "Failed to Login")
}
