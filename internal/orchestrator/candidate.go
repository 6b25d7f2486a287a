package orchestrator

import (
	"context"

	"go.uber.org/zap"

	"github.com/firasmosbehi/about-us-team-extractor/internal/extract"
	"github.com/firasmosbehi/about-us-team-extractor/internal/extractor"
	"github.com/firasmosbehi/about-us-team-extractor/internal/metrics"
	"github.com/firasmosbehi/about-us-team-extractor/internal/page"
	"github.com/firasmosbehi/about-us-team-extractor/internal/rank"
)

const (
	discoverEmailsNote  = "No people detected on discover page; emitting page-level emails."
	discoverDeadEndNote = "Discover page yielded no people/emails and no team links."
	teamEmailsNote      = "No people detected; emitting page-level emails."
	teamDeadEndNote     = "No people/emails detected on this candidate page."
)

func (o *Orchestrator) processDiscover(ctx context.Context, v extractor.Visit) {
	if o.registry.Satisfied(v.CompanyDomain) {
		o.logger.Debug("skipping discover page, company satisfied",
			zap.String("domain", v.CompanyDomain), zap.String("url", v.URL))
		metrics.ObserveVisit(string(v.Label), "skipped")
		return
	}

	sess, snap, err := o.openSnapshot(ctx, v)
	if err != nil {
		o.handleFailure(ctx, v, err)
		return
	}
	defer sess.Close()
	o.archiveSnapshot(ctx, v, snap)

	sourceURL := sess.FinalURL()
	emails := extract.CollectEmails(snap)
	people := o.extractDeterministic(snap)

	if len(people) > 0 {
		o.emitPeople(ctx, v, sourceURL, people, emails)
		metrics.ObserveVisit(string(v.Label), "people")
		return
	}

	if len(emails) > 0 && len(o.cfg.RoleIncludeKeywords) == 0 {
		o.emitEmails(ctx, v, sourceURL, emails, discoverEmailsNote)
		metrics.ObserveVisit(string(v.Label), "emails")
		return
	}

	// Nothing extractable here; promote explicit team links instead.
	limit := o.cfg.MaxTeamCandidates * 3
	if limit > 10 {
		limit = 10
	}
	var promoted []extractor.Candidate
	for _, c := range rank.TeamCandidates(snap.Anchors(), sourceURL, limit) {
		if rank.HasTeamSignal(c.Text, c.URL) {
			promoted = append(promoted, c)
		}
	}
	promoted = dedupeCandidates(promoted, o.cfg.MaxTeamCandidates)

	for _, c := range promoted {
		_ = o.frontier.Enqueue(ctx, extractor.Visit{
			URL:            c.URL,
			Label:          extractor.LabelTeam,
			CompanyURL:     v.CompanyURL,
			CompanyDomain:  v.CompanyDomain,
			DiscoveredFrom: sourceURL,
			DiscoveryScore: c.Score,
			DiscoveryText:  c.Text,
		})
	}

	if len(promoted) == 0 {
		o.emitTerminal(ctx, v, sourceURL, emails, discoverDeadEndNote)
		metrics.ObserveVisit(string(v.Label), "dead_end")
		return
	}
	metrics.ObserveVisit(string(v.Label), "promoted")
}

func (o *Orchestrator) processTeam(ctx context.Context, v extractor.Visit) {
	if o.registry.Satisfied(v.CompanyDomain) {
		o.logger.Debug("skipping team candidate, company satisfied",
			zap.String("domain", v.CompanyDomain), zap.String("url", v.URL))
		metrics.ObserveVisit(string(v.Label), "skipped")
		return
	}

	sess, snap, err := o.openSnapshot(ctx, v)
	if err != nil {
		o.handleFailure(ctx, v, err)
		return
	}
	defer sess.Close()
	o.archiveSnapshot(ctx, v, snap)

	sourceURL := sess.FinalURL()
	emails := extract.CollectEmails(snap)
	people := o.extractDeterministic(snap)

	if len(people) == 0 && o.llm != nil {
		llmPeople, err := o.llm.ExtractPeople(ctx, sourceURL, snap.Raw(), snap.VisibleText(), emails)
		if err != nil {
			metrics.ObserveLLMCall("error")
			o.logger.Debug("llm extraction failed", zap.String("url", sourceURL), zap.Error(err))
		} else {
			metrics.ObserveLLMCall("ok")
			people = o.filterByRole(extract.MergePeople(llmPeople))
		}
	}

	if len(people) > 0 {
		o.emitPeople(ctx, v, sourceURL, people, emails)
		metrics.ObserveVisit(string(v.Label), "people")
		return
	}

	if len(emails) > 0 && len(o.cfg.RoleIncludeKeywords) == 0 {
		o.emitEmails(ctx, v, sourceURL, emails, teamEmailsNote)
		metrics.ObserveVisit(string(v.Label), "emails")
		return
	}

	o.emitTerminal(ctx, v, sourceURL, emails, teamDeadEndNote)
	metrics.ObserveVisit(string(v.Label), "dead_end")
}

// extractDeterministic fuses the three non-LLM strategies and applies
// the role filter.
func (o *Orchestrator) extractDeterministic(snap *page.Snapshot) []extractor.Person {
	people := extract.MergePeople(
		extract.PeopleFromJSONLD(snap.JSONLD()),
		extract.PeopleFromCards(snap),
		extract.PeopleFromGeneric(snap),
	)
	for _, p := range people {
		metrics.ObservePerson(p.Source)
	}
	return o.filterByRole(people)
}
