package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/corpuskit/harvester/internal/api"
	"github.com/corpuskit/harvester/internal/clock/system"
	"github.com/corpuskit/harvester/internal/config"
	"github.com/corpuskit/harvester/internal/crawler"
	"github.com/corpuskit/harvester/internal/enrich"
	"github.com/corpuskit/harvester/internal/extractor"
	collyfetcher "github.com/corpuskit/harvester/internal/fetcher/colly"
	"github.com/corpuskit/harvester/internal/hash/sha256"
	"github.com/corpuskit/harvester/internal/id/uuid"
	"github.com/corpuskit/harvester/internal/logging"
	"github.com/corpuskit/harvester/internal/sink/jsonl"
	"github.com/corpuskit/harvester/internal/sink/postgres"
)

// newCrawlCmd creates and configures the 'crawl' subcommand.
func newCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Runs one bounded BFS crawl and writes documents to the sink",
		Long: `Runs a breadth-first crawl from the configured seed URLs, staying
within the allowed domain and path prefixes, and emits one JSON document per
unique page. With --dry-run, traversal and enrichment are identical but
nothing is persisted.`,
		RunE: runCrawlCommand,
	}

	cmd.Flags().String("profile", "", "named crawl profile to use")
	cmd.Flags().String("output", "", "override the JSONL output path")
	cmd.Flags().Int("max-pages", 0, "override the page cap")
	cmd.Flags().Int("max-depth", -1, "override the depth cap")
	cmd.Flags().Duration("delay", 0, "override the politeness delay between fetches")
	cmd.Flags().Bool("dry-run", false, "traverse and enrich without persisting")

	return cmd
}

func runCrawlCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sink, counting, err := buildSink(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil {
			logger.Warn("failed to close sink", zap.Error(cerr))
		}
	}()

	engine, err := buildEngine(cfg, sink, logger)
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}

	if cfg.Server.Enabled {
		statusServer := api.NewServer(cfg.Server.Port, logger)
		statusServer.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if serr := statusServer.Shutdown(shutdownCtx); serr != nil {
				logger.Warn("failed to stop status server", zap.Error(serr))
			}
		}()
	}

	stats, err := engine.Run(ctx, cfg.Crawl.SeedURLs)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run crawl: %w", err)
	}

	if counting != nil {
		logger.Info("dry run finished",
			zap.Int("documents_counted", counting.Count()),
			zap.Int("fetch_errors", stats.FetchErrors),
			zap.Duration("duration", stats.Duration),
		)
	}
	return nil
}

// resolveConfig loads the config file, overlays the selected profile, then
// applies CLI overrides, and validates the result.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}

	profile, _ := cmd.Flags().GetString("profile")
	if err := cfg.ApplyProfile(profile); err != nil {
		return config.Config{}, err
	}

	if cmd.Flags().Changed("output") {
		cfg.Output.Path, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("max-pages") {
		cfg.Crawl.MaxPages, _ = cmd.Flags().GetInt("max-pages")
	}
	if cmd.Flags().Changed("max-depth") {
		cfg.Crawl.MaxDepth, _ = cmd.Flags().GetInt("max-depth")
	}
	if cmd.Flags().Changed("delay") {
		cfg.Crawl.Delay, _ = cmd.Flags().GetDuration("delay")
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.Crawl.DryRun, _ = cmd.Flags().GetBool("dry-run")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// buildSink selects the record sink. Dry runs always get the counting sink.
func buildSink(
	ctx context.Context,
	cfg config.Config,
	logger *zap.Logger,
) (crawler.Sink, *crawler.CountingSink, error) {
	if cfg.Crawl.DryRun {
		counting := crawler.NewCountingSink()
		return counting, counting, nil
	}
	switch cfg.Storage.Backend {
	case "postgres":
		store, err := postgres.New(ctx, postgres.Config{
			DSN:   cfg.Storage.DSN,
			Table: cfg.Storage.Table,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init postgres sink: %w", err)
		}
		return store, nil, nil
	default:
		sink, err := jsonl.New(cfg.Output.Path, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("init jsonl sink: %w", err)
		}
		return sink, nil, nil
	}
}

func buildEngine(cfg config.Config, sink crawler.Sink, logger *zap.Logger) (*crawler.Engine, error) {
	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent:    cfg.Fetch.UserAgent,
		Timeout:      cfg.Fetch.Timeout,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
	})
	hasher := sha256.New()

	return crawler.NewEngine(
		crawler.Limits{
			AllowedDomain:          cfg.Crawl.AllowedDomain,
			AllowedPathPrefixes:    cfg.Crawl.AllowedPathPrefixes,
			DisallowedPathPrefixes: cfg.Crawl.DisallowedPathPrefixes,
			MaxPages:               cfg.Crawl.MaxPages,
			MaxDepth:               cfg.Crawl.MaxDepth,
		},
		cfg.Crawl.Delay,
		fetcher,
		extractor.New(extractor.DefaultHeuristics()),
		enrich.New(enrich.DefaultConfig(), hasher),
		sink,
		system.New(),
		uuid.NewGenerator(),
		logger,
	)
}
