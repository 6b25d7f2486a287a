// Package app initializes and holds long-lived application services,
// acting as a dependency injection container.
package app

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	gstorage "cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/firasmosbehi/about-us-team-extractor/internal/browser"
	"github.com/firasmosbehi/about-us-team-extractor/internal/clock/system"
	"github.com/firasmosbehi/about-us-team-extractor/internal/config"
	"github.com/firasmosbehi/about-us-team-extractor/internal/extractor"
	"github.com/firasmosbehi/about-us-team-extractor/internal/fetch"
	"github.com/firasmosbehi/about-us-team-extractor/internal/frontier"
	"github.com/firasmosbehi/about-us-team-extractor/internal/id/uuid"
	"github.com/firasmosbehi/about-us-team-extractor/internal/llm"
	"github.com/firasmosbehi/about-us-team-extractor/internal/logging"
	"github.com/firasmosbehi/about-us-team-extractor/internal/metrics"
	"github.com/firasmosbehi/about-us-team-extractor/internal/orchestrator"
	"github.com/firasmosbehi/about-us-team-extractor/internal/registry"
	"github.com/firasmosbehi/about-us-team-extractor/internal/sink"
	"github.com/firasmosbehi/about-us-team-extractor/internal/sitemap"
	"github.com/firasmosbehi/about-us-team-extractor/internal/storage/gcs"
	"github.com/firasmosbehi/about-us-team-extractor/internal/storage/local"
	"github.com/firasmosbehi/about-us-team-extractor/pkg/textgen"
)

// App holds the shared, long-lived services for the extraction service.
// It is initialized once at startup and passed to the commands that
// need it.
type App struct {
	cfg    config.Config
	logger *zap.Logger

	browser  extractor.Browser
	chrome   *browser.Chrome
	fetcher  *fetch.Fetcher
	sink     extractor.Sink
	archive  extractor.BlobStore
	memory   *sink.Memory
	closers  []func() error
	registry *registry.Registry
}

// New creates and initializes an App from configuration. It fails fast
// if any critical service cannot be initialized.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	metrics.Init()

	a := &App{
		cfg:      cfg,
		logger:   logger,
		registry: registry.New(),
	}

	a.fetcher, err = fetch.New(fetch.Config{
		UserAgent: cfg.Extractor.UserAgent,
		Timeout:   cfg.Fetch.Timeout,
		ProxyURL:  cfg.Fetch.ProxyURL,
	})
	if err != nil {
		return nil, fmt.Errorf("build fetcher: %w", err)
	}

	if cfg.Browser.Enabled {
		chrome, err := browser.NewChrome(browser.Config{
			MaxParallel:       cfg.Browser.MaxTabs,
			UserAgent:         cfg.Extractor.UserAgent,
			NavigationTimeout: cfg.Browser.NavTimeout,
			DomainQPS:         cfg.Browser.DomainQPS,
		})
		if err != nil {
			return nil, fmt.Errorf("build browser: %w", err)
		}
		a.chrome = chrome
		a.browser = chrome
		logger.Info("using headless browser sessions", zap.Int("max_tabs", cfg.Browser.MaxTabs))
	} else {
		a.browser = browser.NewStatic(a.fetcher)
		logger.Info("using static fetch sessions")
	}

	if err := a.initSink(ctx); err != nil {
		return nil, err
	}
	if err := a.initArchive(ctx); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *App) initSink(ctx context.Context) error {
	cfg := a.cfg.Sink
	switch cfg.Provider {
	case "jsonl":
		s, err := sink.NewJSONL(cfg.JSONLPath)
		if err != nil {
			return fmt.Errorf("build jsonl sink: %w", err)
		}
		a.sink = s
		a.closers = append(a.closers, s.Close)
		a.logger.Info("using jsonl sink", zap.String("path", cfg.JSONLPath))
	case "postgres":
		pool, err := sink.NewPostgresPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("connect postgres sink: %w", err)
		}
		s, err := sink.NewPostgres(pool, cfg.PostgresTable)
		if err != nil {
			return fmt.Errorf("build postgres sink: %w", err)
		}
		a.sink = s
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
		a.logger.Info("using postgres sink")
	case "pubsub":
		client, err := pubsub.NewClient(ctx, cfg.PubSubProject)
		if err != nil {
			return fmt.Errorf("connect pubsub: %w", err)
		}
		s, err := sink.NewPubSub(client, cfg.PubSubTopic)
		if err != nil {
			return fmt.Errorf("build pubsub sink: %w", err)
		}
		a.sink = s
		a.closers = append(a.closers, s.Close, client.Close)
		a.logger.Info("using pubsub sink", zap.String("topic", cfg.PubSubTopic))
	case "memory":
		a.memory = sink.NewMemory()
		a.sink = a.memory
		a.logger.Info("using in-memory sink")
	default:
		return fmt.Errorf("unknown sink provider: %s", cfg.Provider)
	}
	return nil
}

func (a *App) initArchive(ctx context.Context) error {
	cfg := a.cfg.Archive
	switch cfg.Provider {
	case "":
		return nil
	case "gcs":
		client, err := gstorage.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("connect gcs: %w", err)
		}
		store, err := gcs.New(client, gcs.Config{Bucket: cfg.GCSBucket})
		if err != nil {
			return fmt.Errorf("build gcs archive: %w", err)
		}
		a.archive = store
		a.closers = append(a.closers, client.Close)
		a.logger.Info("archiving snapshots to gcs", zap.String("bucket", cfg.GCSBucket))
	case "local":
		store, err := local.New(local.Config{BaseDir: cfg.LocalDir})
		if err != nil {
			return fmt.Errorf("build local archive: %w", err)
		}
		a.archive = store
		a.logger.Info("archiving snapshots locally", zap.String("dir", cfg.LocalDir))
	default:
		return fmt.Errorf("unknown archive provider: %s", cfg.Provider)
	}
	return nil
}

// Logger returns the shared zap logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Records returns records captured by the in-memory sink, if configured.
func (a *App) Records() []extractor.OutputRecord {
	if a.memory == nil {
		return nil
	}
	return a.memory.Records()
}

// Run seeds the given start URLs (config start URLs when empty) and
// drains the frontier with the configured worker count.
func (a *App) Run(ctx context.Context, startURLs []string) error {
	if len(startURLs) == 0 {
		startURLs = a.cfg.Extractor.StartURLs
	}
	if len(startURLs) == 0 {
		return fmt.Errorf("no start urls configured")
	}
	if limit := a.cfg.Extractor.MaxCompanies; limit > 0 && len(startURLs) > limit {
		startURLs = startURLs[:limit]
	}

	front := frontier.NewMemory()
	orch := a.buildOrchestrator(front)

	seeded := 0
	for _, u := range startURLs {
		if err := orch.SeedCompany(ctx, u); err != nil {
			a.logger.Warn("skipping start url", zap.String("url", u), zap.Error(err))
			continue
		}
		seeded++
	}
	if seeded == 0 {
		return fmt.Errorf("no valid start urls")
	}

	a.logger.Info("starting extraction run",
		zap.Int("companies", seeded),
		zap.Int("workers", a.cfg.Extractor.MaxConcurrency),
	)
	if err := front.Run(ctx, a.cfg.Extractor.MaxConcurrency, orch); err != nil {
		return fmt.Errorf("run frontier: %w", err)
	}
	a.logger.Info("extraction run complete", zap.Int("companies", seeded))
	return nil
}

func (a *App) buildOrchestrator(front extractor.Frontier) *orchestrator.Orchestrator {
	opts := orchestrator.Options{
		Archive:       a.archive,
		ArchivePrefix: a.cfg.Archive.Prefix,
		Clock:         system.New(),
		IDs:           uuid.New(),
		Logger:        a.logger,
	}
	if a.cfg.Extractor.UseSitemapFallback {
		opts.Sitemaps = sitemap.NewMiner(a.fetcher, a.cfg.Sitemap.MaxFetches, a.logger)
	}
	if a.cfg.LLM.Enabled {
		completer := textgen.NewAnthropic(a.cfg.LLM.APIKey)
		ext := llm.New(completer, llm.Config{
			Model:     a.cfg.LLM.Model,
			MaxChars:  a.cfg.LLM.MaxChars,
			MaxTokens: int64(a.cfg.LLM.MaxTokens),
		}, a.logger)
		opts.LLM = &timeoutExtractor{inner: ext, timeout: a.cfg.LLM.Timeout}
	}

	return orchestrator.New(
		orchestrator.Config{
			MaxTeamCandidates:   a.cfg.Extractor.MaxTeamCandidates,
			MaxDiscoveryPages:   a.cfg.Extractor.MaxDiscoveryPages,
			TryExpandMenus:      a.cfg.Extractor.TryExpandMenus,
			UseSitemapFallback:  a.cfg.Extractor.UseSitemapFallback,
			UseDepth2Discovery:  a.cfg.Extractor.UseDepth2Discovery,
			RoleIncludeKeywords: a.cfg.Extractor.RoleIncludeKeywords,
		},
		a.browser,
		front,
		a.sink,
		a.registry,
		opts,
	)
}

// timeoutExtractor bounds each LLM call with the configured timeout.
type timeoutExtractor struct {
	inner   orchestrator.PeopleExtractor
	timeout time.Duration
}

func (t *timeoutExtractor) ExtractPeople(ctx context.Context, pageURL, rawHTML, visibleText string, pageEmails []string) ([]extractor.Person, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	return t.inner.ExtractPeople(ctx, pageURL, rawHTML, visibleText, pageEmails)
}

// Close gracefully shuts down all services in the App container.
func (a *App) Close() {
	if a.chrome != nil {
		a.chrome.Close()
	}
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn("error closing service", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
