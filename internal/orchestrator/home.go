package orchestrator

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/firasmosbehi/about-us-team-extractor/internal/extractor"
	"github.com/firasmosbehi/about-us-team-extractor/internal/metrics"
	"github.com/firasmosbehi/about-us-team-extractor/internal/page"
	"github.com/firasmosbehi/about-us-team-extractor/internal/rank"
)

const noCandidatesNote = "No team/about/leadership link candidates found on homepage."

func (o *Orchestrator) processHome(ctx context.Context, v extractor.Visit) {
	sess, snap, err := o.openSnapshot(ctx, v)
	if err != nil {
		o.handleFailure(ctx, v, err)
		return
	}
	defer sess.Close()

	// Redirects can land on a different host; everything downstream
	// keys off where the homepage actually resolved.
	loadedURL := sess.FinalURL()
	companyURL, companyDomain := v.CompanyURL, v.CompanyDomain
	if u, err := url.Parse(loadedURL); err == nil && u.Host != "" {
		companyURL = u.Scheme + "://" + u.Host + "/"
		companyDomain = extractor.StripWWW(u.Hostname())
	}

	anchors := snap.Anchors()
	ranked := rank.TeamCandidates(anchors, companyURL, o.cfg.MaxTeamCandidates)

	if o.cfg.TryExpandMenus && len(ranked) == 0 {
		if opened, err := sess.ExpandNavigation(ctx); err == nil && opened {
			if html, err := sess.HTML(ctx); err == nil {
				if expanded, err := page.Parse(html, loadedURL); err == nil {
					anchors = rank.MergeAnchors(anchors, expanded.Anchors())
					ranked = rank.TeamCandidates(anchors, companyURL, o.cfg.MaxTeamCandidates)
				}
			}
		}
	}

	candidates := dedupeCandidates(
		append(ranked, rank.FallbackCandidates(companyURL, o.cfg.MaxTeamCandidates)...),
		o.cfg.MaxTeamCandidates,
	)

	if o.cfg.UseSitemapFallback && o.sitemaps != nil && len(candidates) < o.cfg.MaxTeamCandidates {
		mined := o.sitemaps.Discover(ctx, companyURL)
		sitemapAnchors := make([]extractor.Anchor, 0, len(mined))
		for _, c := range mined {
			sitemapAnchors = append(sitemapAnchors, extractor.Anchor{Href: c.URL, Text: "sitemap"})
		}
		sitemapRanked := rank.TeamCandidates(sitemapAnchors, companyURL, o.cfg.MaxTeamCandidates)
		candidates = dedupeCandidates(append(candidates, sitemapRanked...), o.cfg.MaxTeamCandidates)
	}

	if len(candidates) == 0 {
		o.emitTerminalWithCompany(ctx, v, companyURL, companyDomain, loadedURL, nil, noCandidatesNote)
		metrics.ObserveVisit(string(v.Label), "no_candidates")
		return
	}

	hasTeamSignal := false
	for _, c := range candidates {
		if rank.HasTeamSignal(c.Text, c.URL) {
			hasTeamSignal = true
			break
		}
	}
	allowDiscovery := o.cfg.UseDepth2Discovery && o.cfg.MaxDiscoveryPages > 0

	discoveryQueued := 0
	queued := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		wantsDiscover := allowDiscovery &&
			discoveryQueued < o.cfg.MaxDiscoveryPages &&
			rank.HasAboutSignal(c.Text, c.URL) &&
			!rank.HasTeamSignal(c.Text, c.URL)

		label := extractor.LabelTeam
		depth := 0
		if wantsDiscover {
			label = extractor.LabelDiscover
			depth = 1
		}

		_ = o.frontier.Enqueue(ctx, extractor.Visit{
			URL:            c.URL,
			Label:          label,
			CompanyURL:     companyURL,
			CompanyDomain:  companyDomain,
			DiscoveredFrom: loadedURL,
			DiscoveryScore: c.Score,
			DiscoveryText:  c.Text,
			DiscoveryDepth: depth,
		})
		queued[c.URL] = struct{}{}
		if wantsDiscover {
			discoveryQueued++
		}
	}

	// Without an explicit team keyword anywhere, spend the remaining
	// discovery budget on about-flavored pages.
	if allowDiscovery && !hasTeamSignal && discoveryQueued < o.cfg.MaxDiscoveryPages {
		aboutLimit := o.cfg.MaxDiscoveryPages * 3
		if aboutLimit > 10 {
			aboutLimit = 10
		}
		for _, c := range rank.AboutCandidates(anchors, companyURL, aboutLimit) {
			if discoveryQueued >= o.cfg.MaxDiscoveryPages {
				break
			}
			if _, dup := queued[c.URL]; dup {
				continue
			}
			queued[c.URL] = struct{}{}
			discoveryQueued++

			_ = o.frontier.Enqueue(ctx, extractor.Visit{
				URL:            c.URL,
				Label:          extractor.LabelDiscover,
				CompanyURL:     companyURL,
				CompanyDomain:  companyDomain,
				DiscoveredFrom: loadedURL,
				DiscoveryScore: c.Score,
				DiscoveryText:  c.Text,
				DiscoveryDepth: 1,
			})
		}
	}

	metrics.ObserveVisit(string(v.Label), "ok")
	o.logger.Info("queued candidate pages",
		zap.String("domain", companyDomain),
		zap.Int("candidates", len(candidates)),
		zap.Int("discover", discoveryQueued),
	)
}

func dedupeCandidates(candidates []extractor.Candidate, limit int) []extractor.Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]extractor.Candidate, 0, limit)
	for _, c := range candidates {
		if c.URL == "" {
			continue
		}
		if _, dup := seen[c.URL]; dup {
			continue
		}
		seen[c.URL] = struct{}{}
		out = append(out, c)
		if len(out) >= limit {
			break
		}
	}
	return out
}
