package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/AlibekovAA/auth-api/internal/auth/http"
	"github.com/AlibekovAA/auth-api/internal/auth/service"
	"github.com/AlibekovAA/auth-api/internal/common/bootstrap"
	"github.com/AlibekovAA/auth-api/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/auth-api/internal/common/crypto"
	commonhttp "github.com/AlibekovAA/auth-api/internal/common/http"
	srv "github.com/AlibekovAA/auth-api/internal/common/server"
)

func main() {
	configPath := flag.String("config", os.Getenv("AUTH_CONFIG"), "path to an optional YAML config file")
	flag.Parse()

	ctx := context.Background()

	app, err := bootstrap.NewAuthApp(ctx, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "auth: %v\n", err)
		os.Exit(1)
	}

	cfg := app.Config
	log := app.Log

	tokenIssuer := service.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL, clock.NewRealClock())
	authService := service.NewAuthService(service.AuthServiceDeps{
		Repo:   app.UserRepo,
		Hasher: commoncrypto.NewBcryptHasher(cfg.Bcrypt.Cost),
		Tokens: tokenIssuer,
		Log:    log,
	})

	handler := authhttp.NewHandler(authService, log, authhttp.Config{
		RequestTimeout: cfg.HTTP.RequestTimeout,
		HealthChecks:   []commonhttp.HealthCheck{app.HealthCheck},
	})

	root := chi.NewRouter()
	root.Handle("/metrics", promhttp.Handler())
	root.Mount("/", handler)

	server := srv.ConfigFor(cfg.HTTP).NewServer(commonhttp.BuildBaseHandler(log, root))

	err = srv.Run(ctx, server, log, "auth", func(context.Context) error {
		return app.Close()
	})
	if err != nil {
		os.Exit(1)
	}
}
