package service

import (
	"context"
	"errors"
	"time"

	authdto "github.com/AlibekovAA/auth-api/internal/auth/service/dto"
	"github.com/AlibekovAA/auth-api/internal/auth/service/mapper"
	commoncrypto "github.com/AlibekovAA/auth-api/internal/common/crypto"
	"github.com/AlibekovAA/auth-api/internal/common/logger"
	userdomain "github.com/AlibekovAA/auth-api/internal/user/domain"
	userrepo "github.com/AlibekovAA/auth-api/internal/user/repository"
)

type AuthServiceDeps struct {
	Repo   userrepo.Repository
	Hasher commoncrypto.PasswordHasher
	Tokens TokenSigner
	Log    *logger.Logger
}

type AuthService struct {
	repo   userrepo.Repository
	hasher commoncrypto.PasswordHasher
	tokens TokenSigner
	log    *logger.Logger
}

func NewAuthService(deps AuthServiceDeps) *AuthService {
	return &AuthService{
		repo:   deps.Repo,
		hasher: deps.Hasher,
		tokens: deps.Tokens,
		log:    deps.Log,
	}
}

type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FirstName *string
	LastName  *string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User  authdto.User
	Token string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	start := time.Now()
	hash, err := s.hasher.Hash(input.Password)
	observePasswordHash("hash", start)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		recordRegistration(outcomeError)
		return AuthResult{}, registerFailed(err)
	}

	user, err := s.repo.Create(ctx, userdomain.NewUser{
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	})
	if err != nil {
		return AuthResult{}, s.registerError(ctx, input, err)
	}

	token, err := s.tokens.Issue(claimsFor(user))
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  string(user.ID),
			"action":   "register_token_issue_failed",
		}).Errorf("register failed: token issue error: %v", err)
		recordRegistration(outcomeError)
		return AuthResult{}, registerFailed(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "register_success",
	}).Info("register success")
	recordRegistration(outcomeSuccess)

	return AuthResult{User: mapper.UserToDTO(user), Token: token}, nil
}

func (s *AuthService) registerError(ctx context.Context, input RegisterInput, err error) error {
	var conflict *userrepo.ConflictError
	if errors.As(err, &conflict) {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"field":    conflict.Field,
			"action":   "register_user_exists",
		}).Warn("register failed: already exists")
		recordRegistration(outcomeConflict)
		return userExists(conflict.Field, err)
	}

	recordRegistration(outcomeError)

	var repoErr *userrepo.Error
	if errors.As(err, &repoErr) {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_db_failed",
		}).Errorf("register failed: %v", err)
		details := err.Error()
		if repoErr.Err != nil {
			details = repoErr.Err.Error()
		}
		return ErrDatabase.WithDetails(details).WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_create_failed",
	}).Errorf("register failed: %v", err)
	return registerFailed(err)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"action": "login_attempt",
	}).Info("login attempt")

	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"action": "login_user_not_found",
			}).Warn("login failed: invalid credentials")
			recordLogin(outcomeInvalidCredentials)
			return AuthResult{}, ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"action": "login_lookup_failed",
		}).Errorf("login failed: %v", err)
		recordLogin(outcomeError)
		return AuthResult{}, ErrLoginFailed.WithCause(err)
	}

	start := time.Now()
	ok := s.hasher.Verify(input.Password, user.PasswordHash)
	observePasswordHash("verify", start)
	if !ok {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_invalid_password",
		}).Warn("login failed: invalid credentials")
		recordLogin(outcomeInvalidCredentials)
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(claimsFor(user))
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		recordLogin(outcomeError)
		return AuthResult{}, ErrLoginFailed.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "login_success",
	}).Info("login success")
	recordLogin(outcomeSuccess)

	return AuthResult{User: mapper.UserToDTO(user), Token: token}, nil
}

func claimsFor(user userdomain.User) Claims {
	return Claims{
		UserID:   string(user.ID),
		Email:    user.Email,
		Username: user.Username,
	}
}
