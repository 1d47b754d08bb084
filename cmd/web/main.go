package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/donseba/go-htmx"
	"github.com/joho/godotenv"
	"github.com/myrjola/hotseat/internal/ai"
	"github.com/myrjola/hotseat/internal/ai/metrics"
	"github.com/myrjola/hotseat/internal/ai/retry"
	"github.com/myrjola/hotseat/internal/catalog"
	"github.com/myrjola/hotseat/internal/coach"
	"github.com/myrjola/hotseat/internal/envstruct"
	"github.com/myrjola/hotseat/internal/errors"
	"github.com/myrjola/hotseat/internal/logging"
	"github.com/myrjola/hotseat/internal/pprofserver"
	"github.com/myrjola/hotseat/internal/questions"
	"github.com/myrjola/hotseat/internal/reports"
	"github.com/myrjola/hotseat/internal/repositories"
	"github.com/myrjola/hotseat/internal/research"
	"github.com/myrjola/hotseat/internal/sqlite"
	"github.com/myrjola/hotseat/internal/webfetch"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type application struct {
	logger         *slog.Logger
	config         config
	catalog        catalog.Catalog
	questions      *questions.Store
	coach          *coach.Coach
	researcher     *research.Service
	interviews     *repositories.InterviewRepository
	artifacts      *repositories.ArtifactRepository
	reports        *reports.FileStore
	sessionManager *scs.SessionManager
	htmx           *htmx.HTMX
}

type config struct {
	Addr           string        `env:"HOTSEAT_ADDR" envDefault:"localhost:4000"`
	AdminPort      string        `env:"HOTSEAT_ADMIN_PORT" envDefault:":6060"`
	SqliteURL      string        `env:"HOTSEAT_SQLITE_URL" envDefault:"./hotseat.sqlite"`
	QuestionsDir   string        `env:"HOTSEAT_QUESTIONS_DIR" envDefault:"./data/questions"`
	OutputDir      string        `env:"HOTSEAT_OUTPUT_DIR" envDefault:"./output"`
	CatalogPath    string        `env:"HOTSEAT_CATALOG_PATH" envDefault:""`
	LLMProvider    string        `env:"HOTSEAT_LLM_PROVIDER" envDefault:"openrouter"`
	LLMModel       string        `env:"HOTSEAT_LLM_MODEL" envDefault:"google/gemini-2.0-flash-001"`
	LLMBaseURL     string        `env:"HOTSEAT_LLM_BASE_URL" envDefault:""`
	LLMMaxAttempts int           `env:"HOTSEAT_LLM_MAX_ATTEMPTS" envDefault:"3"`
	LLMTimeout     time.Duration `env:"HOTSEAT_LLM_TIMEOUT" envDefault:"90s"`
	// SearchBaseURL points every searcher at one host. Only tests set it.
	SearchBaseURL string `env:"HOTSEAT_SEARCH_BASE_URL" envDefault:""`
}

func main() {
	// A missing .env file is fine, the environment may be set by other means.
	_ = godotenv.Load()

	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	})))

	if err := run(context.Background(), logger, os.LookupEnv); err != nil {
		logger.LogAttrs(context.Background(), slog.LevelError, "server failed", errors.SlogError(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	// Each run owns its metrics registry so that tests can start several
	// servers in one process without duplicate registration.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// The admin listener stays on localhost so that it's not open to the world.
	pprofserver.Launch(ctx, cfg.AdminPort, logger, registry)

	app, err := newApplication(ctx, logger, cfg, lookupEnv, registry)
	if err != nil {
		return errors.Wrap(err, "initialise application")
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}

func newApplication(
	ctx context.Context,
	logger *slog.Logger,
	cfg config,
	lookupEnv func(string) (string, bool),
	registerer prometheus.Registerer,
) (*application, error) {
	var (
		err error
		dbs *sqlite.Database
	)

	if dbs, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		if cat, err = catalog.Load(cfg.CatalogPath); err != nil {
			return nil, errors.Wrap(err, "load catalog")
		}
	}

	questionStore := questions.NewStore(cfg.QuestionsDir)
	if err = questionStore.Seed(false); err != nil {
		return nil, errors.Wrap(err, "seed question banks")
	}

	var client ai.Client
	if client, err = newAIClient(ctx, cfg, lookupEnv, registerer); err != nil {
		return nil, errors.Wrap(err, "initialise AI client")
	}

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(dbs.ReadWrite, 24*time.Hour)
	sessionManager.Lifetime = 12 * time.Hour

	artifacts := repositories.NewArtifactRepository(dbs, logger)

	searchers := []webfetch.Searcher{
		&webfetch.DuckDuckGo{BaseURL: cfg.SearchBaseURL},
		&webfetch.Wikipedia{BaseURL: cfg.SearchBaseURL},
	}
	// Google joins only when its credentials are configured.
	apiKey, hasKey := lookupEnv("GOOGLE_API_KEY")
	engineID, hasEngine := lookupEnv("SEARCH_ENGINE_ID")
	if hasKey && hasEngine {
		searchers = append(searchers, &webfetch.Google{
			BaseURL:  cfg.SearchBaseURL,
			APIKey:   apiKey,
			EngineID: engineID,
		})
	}

	return &application{
		logger:         logger,
		config:         cfg,
		catalog:        cat,
		questions:      questionStore,
		coach:          coach.New(client),
		researcher:     research.NewService(client, webfetch.NewClient(0), searchers, artifacts, cfg.OutputDir, logger),
		interviews:     repositories.NewInterviewRepository(dbs, logger),
		artifacts:      artifacts,
		reports:        reports.NewFileStore(cfg.OutputDir),
		sessionManager: sessionManager,
		htmx:           htmx.New(),
	}, nil
}

func newAIClient(
	ctx context.Context,
	cfg config,
	lookupEnv func(string) (string, bool),
	registerer prometheus.Registerer,
) (ai.Client, error) {
	apiKeyEnvVar := "OPENROUTER_API_KEY"
	switch cfg.LLMProvider {
	case ai.ProviderOpenAI:
		apiKeyEnvVar = "OPENAI_API_KEY"
	case ai.ProviderAnthropic:
		apiKeyEnvVar = "ANTHROPIC_API_KEY"
	case ai.ProviderGoogleAI:
		apiKeyEnvVar = "GEMINI_API_KEY"
	}
	apiKey, _ := lookupEnv(apiKeyEnvVar)

	client, err := ai.NewClient(ctx, ai.Config{
		Provider: cfg.LLMProvider,
		Model:    cfg.LLMModel,
		APIKey:   apiKey,
		BaseURL:  cfg.LLMBaseURL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "new AI client")
	}

	retryConfig := retry.DefaultConfig
	retryConfig.MaxAttempts = cfg.LLMMaxAttempts

	recorder := metrics.NewRecorder(registerer, cfg.LLMProvider)

	return ai.Chain(client, metrics.Middleware(recorder), retry.Middleware(retryConfig)), nil
}
