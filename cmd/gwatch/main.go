package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/gwatch/internal/adapters/driven/auth"
	"github.com/custodia-labs/gwatch/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/gwatch/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/gwatch/internal/adapters/driving/cli"
	"github.com/custodia-labs/gwatch/internal/config"
	"github.com/custodia-labs/gwatch/internal/connectors/google/gmail"
	"github.com/custodia-labs/gwatch/internal/core/domain"
	"github.com/custodia-labs/gwatch/internal/core/ports/driven"
	"github.com/custodia-labs/gwatch/internal/core/services"
	"github.com/custodia-labs/gwatch/internal/logger"
)

// version is overridden at build time via ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("GWATCH_CONFIG")
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		logger.SetVerbose(true)
	}

	cli.SetVersion(version)
	cli.SetServices(nil, cfg)

	// An incomplete configuration still allows version and help; the
	// commands that need the renewer report the problem themselves.
	if err := cfg.Validate(); err != nil {
		logger.Warn("configuration incomplete, renewal commands disabled: %v", err)
		return cli.Execute()
	}

	leaseStore, err := file.NewLeaseStore(cfg.TokensDir)
	if err != nil {
		return fmt.Errorf("initialising lease store: %w", err)
	}

	tokenStore := auth.NewTokenStore(cfg.TokensDir, cfg.Subjects)

	registrar, err := gmail.NewRegistrar(gmail.Config{
		Project:  cfg.Project,
		Topic:    cfg.Topic,
		LabelIDs: cfg.LabelIDs,
	}, tokenStore)
	if err != nil {
		return fmt.Errorf("initialising registrar: %w", err)
	}

	// History is best-effort; a broken database never blocks renewals.
	var history driven.HistoryStore
	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		logger.Warn("renewal history disabled: %v", err)
	} else {
		defer store.Close()
		history = store.HistoryStore()
	}

	renewerConfig := domain.RenewerConfig{
		Enabled:          true,
		CheckInterval:    cfg.CheckInterval.Std(),
		RenewalWindow:    cfg.RenewalWindow.Std(),
		HistoryRetention: cfg.HistoryRetention,
	}

	renewer := services.NewRenewer(
		renewerConfig,
		cfg.Project,
		cfg.Topic,
		leaseStore,
		tokenStore,
		registrar,
		history,
	)

	cli.SetServices(renewer, cfg)
	return cli.Execute()
}
