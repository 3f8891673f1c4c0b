package commands

import (
	"fmt"

	"github.com/quantlab/feargreed/internal/external/eastmoney"
	"github.com/quantlab/feargreed/internal/factorconfig"
	"github.com/quantlab/feargreed/internal/groundtruth"
	"github.com/quantlab/feargreed/internal/ledger"
	"github.com/quantlab/feargreed/internal/notify"
	"github.com/quantlab/feargreed/internal/pipeline"
	"github.com/quantlab/feargreed/pkg/config"
	"github.com/quantlab/feargreed/pkg/httputil"
	"github.com/quantlab/feargreed/pkg/logger"
)

// app holds the wired components shared by every command.
type app struct {
	cfg      *config.Config
	factors  *factorconfig.Config
	store    *ledger.Repository
	pipeline *pipeline.Pipeline
	log      *logger.Logger
}

// initApp loads configuration and wires the pipeline.
func initApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	factors, err := factorconfig.LoadOrDefault(cfg.FactorsPath)
	if err != nil {
		return nil, fmt.Errorf("load factor catalogue: %w", err)
	}

	provider := eastmoney.NewClient(cfg.Provider, log)
	truth := groundtruth.NewSource(cfg.GroundTruthDir, log)
	store := ledger.NewRepository(cfg.LedgerPath, factors.FactorNames(), log)
	notifier := notify.NewFeishuNotifier(cfg.WebhookURL, httputil.New(cfg.Provider, log), log)

	return &app{
		cfg:      cfg,
		factors:  factors,
		store:    store,
		pipeline: pipeline.New(cfg, factors, provider, truth, store, notifier, log),
		log:      log,
	}, nil
}
