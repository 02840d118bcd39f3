package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/AlibekovAA/auth-api/internal/common/bootstrap"
	"github.com/AlibekovAA/auth-api/internal/common/config"
	"github.com/AlibekovAA/auth-api/internal/common/db"
	"github.com/AlibekovAA/auth-api/internal/common/logger"
)

const usage = `usage: migrate [-config file] <command> [args]

commands: up, up-by-one, up-to VERSION, down, down-to VERSION, redo, reset, status, version`

func main() {
	configPath := flag.String("config", os.Getenv("AUTH_CONFIG"), "path to an optional YAML config file")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	command := "up"
	var args []string
	if flag.NArg() > 0 {
		command = flag.Arg(0)
		args = flag.Args()[1:]
	}

	if err := run(context.Background(), *configPath, command, args); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, command string, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Database.Validate(); err != nil {
		return err
	}

	log, err := logger.New("", "migrate", cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Close()

	conn, dialect, err := bootstrap.OpenMigrationDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer conn.Close()

	return db.Run(ctx, conn, dialect, command, log, args...)
}
