package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AlibekovAA/auth-api/internal/common/clock"
	"github.com/AlibekovAA/auth-api/internal/common/config"
	commoncrypto "github.com/AlibekovAA/auth-api/internal/common/crypto"
	"github.com/AlibekovAA/auth-api/internal/common/db"
	commonhttp "github.com/AlibekovAA/auth-api/internal/common/http"
	"github.com/AlibekovAA/auth-api/internal/common/logger"
	userrepo "github.com/AlibekovAA/auth-api/internal/user/repository"
)

type App struct {
	Log         *logger.Logger
	Config      config.AuthConfig
	UserRepo    userrepo.Repository
	HealthCheck commonhttp.HealthCheck

	closers []func() error
}

func NewAuthApp(ctx context.Context, configPath string) (*App, error) {
	cfg, err := config.LoadAuthConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Dir, "auth", cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app := &App{Log: log, Config: cfg}
	app.closers = append(app.closers, log.Close)

	if err := app.initializeStorage(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}

	return app, nil
}

func (a *App) initializeStorage(ctx context.Context) error {
	cfg := a.Config.Database
	idGenerator := commoncrypto.NewUUIDGenerator()

	switch cfg.Driver {
	case config.DriverSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.URL)
		if err != nil {
			return err
		}
		a.addCloser(conn.Close)

		if cfg.AutoMigrate {
			if err := db.Migrate(ctx, conn, db.DialectSQLite, a.Log); err != nil {
				return err
			}
		}

		a.UserRepo = userrepo.NewSQLiteRepository(conn, idGenerator, clock.NewRealClock())
		a.HealthCheck = conn.PingContext
		a.Log.Infof("using sqlite database at %s", cfg.URL)

	case config.DriverPostgres:
		if cfg.AutoMigrate {
			if err := migratePostgres(ctx, cfg.URL, a.Log); err != nil {
				return err
			}
		}

		pool, err := db.NewPool(ctx, a.Log, cfg.URL)
		if err != nil {
			return err
		}
		a.addCloser(func() error {
			pool.Close()
			return nil
		})

		a.UserRepo = userrepo.NewPgRepository(pool, idGenerator)
		a.HealthCheck = pool.Ping

	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	return nil
}

func migratePostgres(ctx context.Context, url string, log *logger.Logger) error {
	conn, err := db.OpenPostgresSQL(ctx, url)
	if err != nil {
		return err
	}
	defer conn.Close()

	return db.Migrate(ctx, conn, db.DialectPostgres, log)
}

// OpenMigrationDB returns a database/sql handle and goose dialect for the
// configured driver.
func OpenMigrationDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, string, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.URL)
		return conn, db.DialectSQLite, err
	case config.DriverPostgres:
		conn, err := db.OpenPostgresSQL(ctx, cfg.URL)
		return conn, db.DialectPostgres, err
	}
	return nil, "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

func (a *App) addCloser(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
