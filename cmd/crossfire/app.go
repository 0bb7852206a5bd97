package main

import (
	"io"

	"github.com/lorenzotomasdiez/crossfire/internal/config"
	"github.com/lorenzotomasdiez/crossfire/internal/credentials"
	"github.com/lorenzotomasdiez/crossfire/internal/logging"
	"github.com/lorenzotomasdiez/crossfire/internal/models"
	"github.com/lorenzotomasdiez/crossfire/internal/provider"
	"github.com/lorenzotomasdiez/crossfire/internal/provider/gemini"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	out      io.Writer
	cfg      *config.Config
	logger   *zap.Logger
	store    *credentials.FileStore
	creds    *credentials.Set
	registry *models.Registry
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	file, _ := cmd.Flags().GetString("config")
	if file == "" {
		file = config.DefaultFile()
	}
	cfg, err := config.Load(file)
	if err != nil {
		return err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if store, _ := cmd.Flags().GetString("store"); store != "" {
		cfg.StorePath = store
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	store := credentials.NewFileStore(cfg.StorePath)
	creds, err := credentials.Load(store, logger.Named("credentials"))
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.store = store
	a.creds = creds
	a.registry = models.Default()
	return nil
}

func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// keys returns stored credentials with environment keys as fallback.
func (a *app) keys() models.KeySource {
	return credentials.WithFallback{Stored: a.creds, Env: a.cfg.EnvKeys}
}

func (a *app) router() *provider.Router {
	opts := []provider.Option{
		provider.WithEnabled(a.cfg.EnabledProviders...),
		provider.WithLogger(a.logger.Named("provider")),
		provider.WithFactory(models.Gemini, gemini.Factory(a.cfg.GeminiBaseURL)),
	}
	for p, url := range provider.BaseURLs {
		opts = append(opts, provider.WithFactory(p, provider.ChatFactory(url)))
	}
	return provider.NewRouter(a.registry, a.keys(), opts...)
}
