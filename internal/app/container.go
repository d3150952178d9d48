package app

import (
	"context"
	"time"

	"cliscope/internal/application/analyze"
	"cliscope/internal/infrastructure/cache"
	"cliscope/internal/infrastructure/config"
	"cliscope/internal/infrastructure/history"
	"cliscope/internal/infrastructure/probe"
	"cliscope/internal/infrastructure/runner"
	"cliscope/internal/infrastructure/security"
	"cliscope/internal/pkg/logger"
	"cliscope/internal/ports"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	AnalyzeService *analyze.Service
	Classifier     ports.RiskClassifier
	CacheStore     ports.CacheStore
	HistoryStore   ports.HistoryRepository
	Config         ports.ConfigProvider
	Logger         ports.Logger
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New(verbose)
	run := runner.NewLocalRunner()

	probeTimeout := time.Duration(cfg.Probe.TimeoutSeconds) * time.Second
	helpTimeout := time.Duration(cfg.Probe.HelpTimeoutSeconds) * time.Second

	helpFetcher := probe.NewHelpFetcher(run, helpTimeout)
	helpParser := probe.NewParser(helpFetcher, cfg.Probe.MaxSubcommands)
	detector := probe.NewDetector(run, helpFetcher, probeTimeout)
	completion := probe.NewCompletionProbe(run, probeTimeout)
	fingerprinter := probe.NewFingerprinter()

	store := cache.NewStore(cfg.Cache.Path)
	if err := store.Load(); err != nil {
		// treated as an empty store; never fatal
		log.Warn("cache load failed", map[string]interface{}{"error": err.Error()})
	}

	classifier, err := security.NewClassifier(cfg.Security.RulesFile)
	if err != nil {
		classifier, err = security.NewClassifier("")
		if err != nil {
			return nil, err
		}
	}

	var historyStore ports.HistoryRepository
	if cfg.History.Enabled {
		historyStore = history.NewSQLiteStore(cfg.History.Path)
	}

	analyzeService := &analyze.Service{
		Version:          detector,
		Completion:       completion,
		Framework:        fingerprinter,
		Help:             helpParser,
		Cache:            store,
		History:          historyStore,
		Logger:           log,
		SubcommandProbes: cfg.Probe.SubcommandProbes,
	}

	return &Container{
		AnalyzeService: analyzeService,
		Classifier:     classifier,
		CacheStore:     store,
		HistoryStore:   historyStore,
		Config:         cfgLoader,
		Logger:         log,
	}, nil
}
