package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AlibekovAA/auth-api/internal/auth/service"
	authdto "github.com/AlibekovAA/auth-api/internal/auth/service/dto"
	commonhttp "github.com/AlibekovAA/auth-api/internal/common/http"
	"github.com/AlibekovAA/auth-api/internal/common/httpmetrics"
	"github.com/AlibekovAA/auth-api/internal/common/logger"
	"github.com/AlibekovAA/auth-api/internal/common/validation"
)

type AuthService interface {
	Register(ctx context.Context, input service.RegisterInput) (service.AuthResult, error)
	Login(ctx context.Context, input service.LoginInput) (service.AuthResult, error)
}

type Config struct {
	RequestTimeout time.Duration
	HealthChecks   []commonhttp.HealthCheck
}

type authResponse struct {
	Message string       `json:"message"`
	User    authdto.User `json:"user"`
	Token   string       `json:"token"`
}

type Handler struct {
	auth AuthService
	log  *logger.Logger
}

func NewHandler(auth AuthService, log *logger.Logger, cfg Config) http.Handler {
	h := &Handler{auth: auth, log: log}
	errs := commonhttp.NewErrorHandler(log)
	v := validation.New(log)

	r := chi.NewRouter()
	r.Use(httpmetrics.New().Wrap)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		commonhttp.WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", commonhttp.HealthHandler(log, cfg.HealthChecks...))

	r.Group(func(r chi.Router) {
		r.Use(commonhttp.TimeoutMiddleware(cfg.RequestTimeout))

		r.Post("/register", commonhttp.NewPipeline(errs, validation.Body[registerRequest](v)).Handle(h.register))
		r.Post("/login", commonhttp.NewPipeline(errs, validation.Body[loginRequest](v)).Handle(h.login))
	})

	return r
}

func (h *Handler) register(r *http.Request) (commonhttp.Response, error) {
	req, _ := validation.BodyFrom[registerRequest](r)

	result, err := h.auth.Register(r.Context(), service.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return commonhttp.Response{}, err
	}

	return commonhttp.Response{
		Status: http.StatusCreated,
		Body:   authResponse{Message: "User Created", User: result.User, Token: result.Token},
	}, nil
}

// login answers 201, the documented status for a successful login.
func (h *Handler) login(r *http.Request) (commonhttp.Response, error) {
	req, _ := validation.BodyFrom[loginRequest](r)

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return commonhttp.Response{}, err
	}

	return commonhttp.Response{
		Status: http.StatusCreated,
		Body:   authResponse{Message: "Login Success", User: result.User, Token: result.Token},
	}, nil
}
