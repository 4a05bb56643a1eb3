package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tnc-ca-geo/swarmfw/internal/cli"
	"github.com/tnc-ca-geo/swarmfw/pkg/config"
	"github.com/tnc-ca-geo/swarmfw/pkg/logger"
	"github.com/tnc-ca-geo/swarmfw/pkg/secrets"
	"github.com/tnc-ca-geo/swarmfw/pkg/utils"
)

var version = "development"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel, zap.String("run_id", uuid.NewString()))
	defer logger.Sync()
	log := logger.L()

	log.Debug("hive.config_loaded",
		zap.String("base_url", utils.MaskDSN(cfg.BaseURL)),
		zap.String("user", cfg.Username),
		zap.Bool("password_set", cfg.Password != ""),
		zap.Bool("api_token_set", cfg.APIToken != ""),
		zap.Bool("secret_id_set", cfg.SecretID != ""),
		zap.Duration("http_timeout", cfg.HTTPTimeout))

	app := cli.New(ctx, getVersion(), cli.Deps{
		Config:     cfg,
		Logger:     log,
		Stdout:     os.Stdout,
		Stdin:      os.Stdin,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		Secrets:    secrets.NewAWSProvider,
	})

	if _, err := app.Parse(os.Args[1:]); err != nil {
		log.Error("hive.run_failed", zap.Error(err))
		return 1
	}
	return 0
}

func getVersion() string {
	if version != "development" {
		return version
	}

	nfo, ok := debug.ReadBuildInfo()
	if !ok || (nfo != nil && nfo.Main.Version == "") {
		return version
	}

	return nfo.Main.Version
}
