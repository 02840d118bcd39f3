package server

import (
	"net"
	"net/http"
	"time"

	"github.com/AlibekovAA/auth-api/internal/common/config"
	"github.com/AlibekovAA/auth-api/internal/common/constants"
)

type Config struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

// ConfigFor derives listener settings from the HTTP section. The write
// deadline always outlasts the per-request timeout by ServerWriteGrace, so a
// request cut off by its timeout still gets its JSON error body.
func ConfigFor(cfg config.HTTPConfig) Config {
	writeTimeout := constants.ServerWriteTimeout
	if floor := cfg.RequestTimeout + constants.ServerWriteGrace; floor > writeTimeout {
		writeTimeout = floor
	}

	return Config{
		Addr:              net.JoinHostPort("", cfg.Port),
		ReadHeaderTimeout: constants.ServerReadHeaderTimeout,
		ReadTimeout:       constants.ServerReadTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       constants.ServerIdleTimeout,
	}
}

func (c Config) NewServer(handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              c.Addr,
		Handler:           handler,
		ReadHeaderTimeout: c.ReadHeaderTimeout,
		ReadTimeout:       c.ReadTimeout,
		WriteTimeout:      c.WriteTimeout,
		IdleTimeout:       c.IdleTimeout,
	}
}
