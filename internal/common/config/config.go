package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"

	"github.com/AlibekovAA/auth-api/internal/common/constants"
	commonerrors "github.com/AlibekovAA/auth-api/internal/common/errors"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type AuthConfig struct {
	HTTP     HTTPConfig     `koanf:"http"`
	Database DatabaseConfig `koanf:"database"`
	JWT      JWTConfig      `koanf:"jwt"`
	Bcrypt   BcryptConfig   `koanf:"bcrypt"`
	Log      LogConfig      `koanf:"log"`
}

type HTTPConfig struct {
	Port           string        `koanf:"port"`
	RequestTimeout time.Duration `koanf:"requestTimeout"`
}

type DatabaseConfig struct {
	Driver      string `koanf:"driver"`
	URL         string `koanf:"url"`
	AutoMigrate bool   `koanf:"autoMigrate"`
}

type JWTConfig struct {
	Secret string        `koanf:"secret"`
	TTL    time.Duration `koanf:"ttl"`
}

type BcryptConfig struct {
	Cost int `koanf:"cost"`
}

type LogConfig struct {
	Dir   string `koanf:"dir"`
	Level string `koanf:"level"`
}

// envKeys maps the supported environment variables onto config paths.
// Anything not listed is ignored.
var envKeys = map[string]string{
	"AUTH_HTTP_PORT":       "http.port",
	"AUTH_REQUEST_TIMEOUT": "http.requestTimeout",
	"DATABASE_DRIVER":      "database.driver",
	"DATABASE_URL":         "database.url",
	"AUTH_AUTO_MIGRATE":    "database.autoMigrate",
	"JWT_SECRET":           "jwt.secret",
	"JWT_EXPIRES_IN":       "jwt.ttl",
	"BCRYPT_COST":          "bcrypt.cost",
	"LOG_DIR":              "log.dir",
	"LOG_LEVEL":            "log.level",
}

func Defaults() AuthConfig {
	return AuthConfig{
		HTTP: HTTPConfig{
			Port:           constants.DefaultAuthHTTPPort,
			RequestTimeout: constants.DefaultAuthRequestTimeout,
		},
		Database: DatabaseConfig{
			Driver:      constants.DefaultDatabaseDriver,
			AutoMigrate: true,
		},
		JWT: JWTConfig{
			TTL: constants.DefaultTokenTTL,
		},
		Bcrypt: BcryptConfig{
			Cost: constants.DefaultBcryptCost,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadAuthConfig loads and fully validates the service configuration.
func LoadAuthConfig(path string) (AuthConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return AuthConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return AuthConfig{}, err
	}
	return cfg, nil
}

// Load layers defaults, the optional YAML file at path and the process
// environment, in that order. The result is not validated.
func Load(path string) (AuthConfig, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return AuthConfig{}, errors.Wrapf(err, "config file %s", path)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return AuthConfig{}, errors.Wrapf(err, "read config file %s", path)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			return envKeys[key], value
		},
	}), nil); err != nil {
		return AuthConfig{}, errors.Wrap(err, "load env variables")
	}

	cfg := Defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return AuthConfig{}, errors.Wrap(err, "unmarshal config")
	}
	cfg.Database.Driver = strings.ToLower(cfg.Database.Driver)

	return cfg, nil
}

func (c AuthConfig) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return err
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("%w: JWT_SECRET", commonerrors.ErrMissingRequiredEnv)
	}

	return validateJWTSecret(c.JWT.Secret)
}

func (c DatabaseConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("%w: DATABASE_URL", commonerrors.ErrMissingRequiredEnv)
	}

	switch c.Driver {
	case DriverPostgres, DriverSQLite:
		return nil
	}
	return fmt.Errorf("%w: %q", commonerrors.ErrUnsupportedDriver, c.Driver)
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return fmt.Errorf("%w: got %d bytes", commonerrors.ErrInvalidJWTSecret, len(secret))
	}
	return nil
}
