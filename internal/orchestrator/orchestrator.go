// Package orchestrator drives the per-company state machine: a
// homepage visit ranks candidate pages, discover visits promote team
// links, team visits extract people and emit records.
package orchestrator

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/firasmosbehi/about-us-team-extractor/internal/extractor"
	"github.com/firasmosbehi/about-us-team-extractor/internal/hash/sha256"
	"github.com/firasmosbehi/about-us-team-extractor/internal/metrics"
	"github.com/firasmosbehi/about-us-team-extractor/internal/page"
	"github.com/firasmosbehi/about-us-team-extractor/internal/registry"
)

// Config carries the per-run knobs.
type Config struct {
	MaxTeamCandidates   int
	MaxDiscoveryPages   int
	TryExpandMenus      bool
	UseSitemapFallback  bool
	UseDepth2Discovery  bool
	RoleIncludeKeywords []string
}

// SitemapMiner finds team-page candidates through a site's sitemaps.
type SitemapMiner interface {
	Discover(ctx context.Context, siteURL string) []extractor.Candidate
}

// PeopleExtractor is the LLM fallback.
type PeopleExtractor interface {
	ExtractPeople(ctx context.Context, pageURL, rawHTML, visibleText string, pageEmails []string) ([]extractor.Person, error)
}

// Orchestrator processes frontier visits. Browser, frontier, sink and
// registry are required; sitemaps, llm and archive are optional.
type Orchestrator struct {
	cfg      Config
	browser  extractor.Browser
	frontier extractor.Frontier
	sink     extractor.Sink
	registry *registry.Registry
	sitemaps SitemapMiner
	llm      PeopleExtractor
	archive  extractor.BlobStore
	prefix   string
	clock    extractor.Clock
	ids      extractor.IDGenerator
	logger   *zap.Logger
}

// Options bundles the optional collaborators.
type Options struct {
	Sitemaps SitemapMiner
	LLM      PeopleExtractor
	Archive  extractor.BlobStore

	// ArchivePrefix is prepended to every archived snapshot path.
	ArchivePrefix string

	Clock  extractor.Clock
	IDs    extractor.IDGenerator
	Logger *zap.Logger
}

// New builds an Orchestrator. Limits are clamped the same way the
// ranking package clamps them.
func New(cfg Config, browser extractor.Browser, frontier extractor.Frontier, sink extractor.Sink, reg *registry.Registry, opts Options) *Orchestrator {
	if cfg.MaxTeamCandidates <= 0 {
		cfg.MaxTeamCandidates = 3
	}
	if cfg.MaxTeamCandidates > 10 {
		cfg.MaxTeamCandidates = 10
	}
	if cfg.MaxDiscoveryPages < 0 {
		cfg.MaxDiscoveryPages = 0
	}
	if cfg.MaxDiscoveryPages > 10 {
		cfg.MaxDiscoveryPages = 10
	}
	for i, k := range cfg.RoleIncludeKeywords {
		cfg.RoleIncludeKeywords[i] = strings.ToLower(strings.TrimSpace(k))
	}

	o := &Orchestrator{
		cfg:      cfg,
		browser:  browser,
		frontier: frontier,
		sink:     sink,
		registry: reg,
		sitemaps: opts.Sitemaps,
		llm:      opts.LLM,
		archive:  opts.Archive,
		prefix:   strings.Trim(opts.ArchivePrefix, "/"),
		clock:    opts.Clock,
		ids:      opts.IDs,
		logger:   opts.Logger,
	}
	if o.clock == nil {
		o.clock = extractor.SystemClock{}
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// SeedCompany normalizes a start URL and enqueues its HOME visit.
func (o *Orchestrator) SeedCompany(ctx context.Context, rawURL string) error {
	start, ok := extractor.NormalizeStart(rawURL)
	if !ok {
		return fmt.Errorf("invalid start url %q", rawURL)
	}
	u, err := url.Parse(start)
	if err != nil {
		return fmt.Errorf("parse start url: %w", err)
	}
	variants := extractor.HomepageVariants(start)

	return o.frontier.Enqueue(ctx, extractor.Visit{
		URL:           variants[0],
		Label:         extractor.LabelHome,
		CompanyURL:    u.Scheme + "://" + u.Host + "/",
		CompanyDomain: extractor.StripWWW(u.Hostname()),
		HomeVariants:  variants,
	})
}

// Process handles one visit end to end. Failures never propagate: a
// broken page becomes a terminal record, not a crashed run.
func (o *Orchestrator) Process(ctx context.Context, v extractor.Visit) {
	metrics.IncActiveWorkers()
	defer metrics.DecActiveWorkers()

	switch v.Label {
	case extractor.LabelHome:
		o.processHome(ctx, v)
	case extractor.LabelDiscover:
		o.processDiscover(ctx, v)
	case extractor.LabelTeam:
		o.processTeam(ctx, v)
	default:
		o.logger.Warn("unknown visit label", zap.String("label", string(v.Label)), zap.String("url", v.URL))
	}
}

// openSnapshot opens the page and parses the rendered HTML once.
func (o *Orchestrator) openSnapshot(ctx context.Context, v extractor.Visit) (extractor.Session, *page.Snapshot, error) {
	start := time.Now()
	sess, err := o.browser.Open(ctx, v.URL)
	if err != nil {
		return nil, nil, err
	}
	metrics.ObservePageOpen(v.URL, time.Since(start))

	html, err := sess.HTML(ctx)
	if err != nil {
		_ = sess.Close()
		return nil, nil, err
	}
	snap, err := page.Parse(html, sess.FinalURL())
	if err != nil {
		_ = sess.Close()
		return nil, nil, err
	}
	return sess, snap, nil
}

// handleFailure mirrors the homepage-variant retry: a failed HOME
// visit tries the next scheme/www permutation at the head of the
// queue; everything else becomes a terminal failure record.
func (o *Orchestrator) handleFailure(ctx context.Context, v extractor.Visit, cause error) {
	metrics.ObserveVisit(string(v.Label), "failed")

	if v.Label == extractor.LabelHome {
		nextIdx := v.HomeVariantIndex + 1
		if nextIdx < len(v.HomeVariants) {
			retry := v
			retry.URL = v.HomeVariants[nextIdx]
			retry.HomeVariantIndex = nextIdx
			retry.Forefront = true
			if err := o.frontier.Enqueue(ctx, retry); err == nil {
				o.logger.Warn("homepage failed, retrying variant",
					zap.String("domain", v.CompanyDomain),
					zap.String("next", retry.URL),
					zap.Int("variant", nextIdx+1),
					zap.Int("variants", len(v.HomeVariants)),
					zap.Error(cause),
				)
				return
			}
		}
	}

	o.emitTerminal(ctx, v, v.URL, nil, fmt.Sprintf("Request failed (%s): %v", v.Label, cause))
}

func (o *Orchestrator) shouldIncludeByRole(title string) bool {
	if len(o.cfg.RoleIncludeKeywords) == 0 {
		return true
	}
	if title == "" {
		return false
	}
	t := strings.ToLower(title)
	for _, k := range o.cfg.RoleIncludeKeywords {
		if k != "" && strings.Contains(t, k) {
			return true
		}
	}
	return false
}

func (o *Orchestrator) filterByRole(people []extractor.Person) []extractor.Person {
	out := people[:0]
	for _, p := range people {
		if o.shouldIncludeByRole(p.Title) {
			out = append(out, p)
		}
	}
	return out
}

// archiveSnapshot stores the raw rendered HTML when an archive is
// configured. Best effort.
func (o *Orchestrator) archiveSnapshot(ctx context.Context, v extractor.Visit, snap *page.Snapshot) {
	if o.archive == nil || o.ids == nil {
		return
	}
	path := fmt.Sprintf("%s/%s/%s.html", v.CompanyDomain, strings.ToLower(string(v.Label)), o.ids.NewID())
	if o.prefix != "" {
		path = o.prefix + "/" + path
	}
	raw := []byte(snap.Raw())
	uri, err := o.archive.PutObject(ctx, path, "text/html; charset=utf-8", raw)
	if err != nil {
		o.logger.Debug("snapshot archive failed", zap.String("url", v.URL), zap.Error(err))
		return
	}
	digest, _ := sha256.New().Hash(raw)
	o.logger.Debug("snapshot archived",
		zap.String("url", v.URL),
		zap.String("uri", uri),
		zap.String("sha256", digest),
	)
}
