// Package prep runs the interview preparation operations from the terminal.
// It talks to the same database and output directory as the web application,
// so generated files show up on the files page afterwards.
package prep

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/myrjola/hotseat/internal/ai"
	"github.com/myrjola/hotseat/internal/ai/retry"
	"github.com/myrjola/hotseat/internal/envstruct"
	"github.com/myrjola/hotseat/internal/errors"
	"github.com/myrjola/hotseat/internal/repositories"
	"github.com/myrjola/hotseat/internal/research"
	"github.com/myrjola/hotseat/internal/sqlite"
	"github.com/myrjola/hotseat/internal/webfetch"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "prep",
	Title: "Interview preparation",
}

var Cmd = &cobra.Command{
	Use:     "prep",
	GroupID: "prep",
	Short:   "Research employers and build preparation materials",
}

var (
	company string
	jobRole string
	quick   bool
	days    int
)

func init() {
	Cmd.PersistentFlags().StringVar(&company, "company", "", "company to prepare for")
	Cmd.PersistentFlags().StringVar(&jobRole, "role", "", "job role to prepare for")
	Cmd.PersistentFlags().BoolVar(&quick, "quick", false, "fewer web lookups and a condensed answer")
	_ = Cmd.MarkPersistentFlagRequired("company")
	_ = Cmd.MarkPersistentFlagRequired("role")

	planCmd.Flags().IntVar(&days, "days", 7, "days until the interview")

	Cmd.AddCommand(researchCmd, questionsCmd, planCmd)
}

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Research the company with live web lookups",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runOperation(cmd, func(ctx context.Context, svc *research.Service, req research.Request) (research.Result, error) {
			return svc.ResearchCompany(ctx, req)
		})
	},
}

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Generate likely interview questions with suggested approaches",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runOperation(cmd, func(ctx context.Context, svc *research.Service, req research.Request) (research.Result, error) {
			return svc.GenerateQuestions(ctx, req)
		})
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build a day-by-day preparation plan",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runOperation(cmd, func(ctx context.Context, svc *research.Service, req research.Request) (research.Result, error) {
			return svc.PrepPlan(ctx, req)
		})
	},
}

// operationTimeout bounds one full run: the web lookups plus a single LLM
// completion with retries.
const operationTimeout = 5 * time.Minute

type config struct {
	SqliteURL      string `env:"HOTSEAT_SQLITE_URL" envDefault:"./hotseat.sqlite"`
	OutputDir      string `env:"HOTSEAT_OUTPUT_DIR" envDefault:"./output"`
	LLMProvider    string `env:"HOTSEAT_LLM_PROVIDER" envDefault:"openrouter"`
	LLMModel       string `env:"HOTSEAT_LLM_MODEL" envDefault:"google/gemini-2.0-flash-001"`
	LLMBaseURL     string `env:"HOTSEAT_LLM_BASE_URL" envDefault:""`
	LLMMaxAttempts int    `env:"HOTSEAT_LLM_MAX_ATTEMPTS" envDefault:"3"`
	SearchBaseURL  string `env:"HOTSEAT_SEARCH_BASE_URL" envDefault:""`
}

func runOperation(
	cmd *cobra.Command,
	operation func(context.Context, *research.Service, research.Request) (research.Result, error),
) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), operationTimeout)
	defer cancel()

	// The answer goes to stdout, only warnings and errors reach the terminal
	// through the logger.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	var cfg config
	if err := envstruct.Populate(&cfg, os.LookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	svc, err := newService(ctx, cfg, logger)
	if err != nil {
		return err
	}

	result, err := operation(ctx, svc, research.Request{
		Company: company,
		JobRole: jobRole,
		Quick:   quick,
		Days:    days,
	})
	if err != nil {
		return errors.Wrap(err, "run preparation")
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, result.Answer)
	_, _ = fmt.Fprintf(out, "\nSaved to %s (%d tokens, %s)\n",
		result.ArtifactPath, result.TokensUsed, result.Duration.Round(100*time.Millisecond))

	return nil
}

func newService(ctx context.Context, cfg config, logger *slog.Logger) (*research.Service, error) {
	dbs, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	apiKeyEnvVar := "OPENROUTER_API_KEY"
	switch cfg.LLMProvider {
	case ai.ProviderOpenAI:
		apiKeyEnvVar = "OPENAI_API_KEY"
	case ai.ProviderAnthropic:
		apiKeyEnvVar = "ANTHROPIC_API_KEY"
	case ai.ProviderGoogleAI:
		apiKeyEnvVar = "GEMINI_API_KEY"
	}

	client, err := ai.NewClient(ctx, ai.Config{
		Provider: cfg.LLMProvider,
		Model:    cfg.LLMModel,
		APIKey:   os.Getenv(apiKeyEnvVar),
		BaseURL:  cfg.LLMBaseURL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "new AI client")
	}

	retryConfig := retry.DefaultConfig
	retryConfig.MaxAttempts = cfg.LLMMaxAttempts
	client = ai.Chain(client, retry.Middleware(retryConfig))

	searchers := []webfetch.Searcher{
		&webfetch.DuckDuckGo{BaseURL: cfg.SearchBaseURL},
		&webfetch.Wikipedia{BaseURL: cfg.SearchBaseURL},
	}
	apiKey, hasKey := os.LookupEnv("GOOGLE_API_KEY")
	engineID, hasEngine := os.LookupEnv("SEARCH_ENGINE_ID")
	if hasKey && hasEngine {
		searchers = append(searchers, &webfetch.Google{
			BaseURL:  cfg.SearchBaseURL,
			APIKey:   apiKey,
			EngineID: engineID,
		})
	}

	artifacts := repositories.NewArtifactRepository(dbs, logger)

	return research.NewService(client, webfetch.NewClient(0), searchers, artifacts, cfg.OutputDir, logger), nil
}
