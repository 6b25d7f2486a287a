package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/firasmosbehi/about-us-team-extractor/internal/extractor"
	"github.com/firasmosbehi/about-us-team-extractor/internal/metrics"
)

func (o *Orchestrator) newRecord(v extractor.Visit, sourceURL string, emails []string) extractor.OutputRecord {
	if emails == nil {
		emails = []string{}
	}
	rec := extractor.OutputRecord{
		CompanyDomain: v.CompanyDomain,
		CompanyURL:    v.CompanyURL,
		SourceURL:     sourceURL,
		EmailsOnPage:  emails,
		ExtractedAt:   o.clock.Now(),
	}
	if o.ids != nil {
		rec.ID = o.ids.NewID()
	}
	return rec
}

func (o *Orchestrator) emitPeople(ctx context.Context, v extractor.Visit, sourceURL string, people []extractor.Person, emails []string) {
	o.registry.MarkSatisfied(v.CompanyDomain)

	notes := provenanceNotes(v)
	for _, p := range people {
		if !o.registry.ClaimPerson(v.CompanyDomain, p.Name, p.Title, p.Email) {
			continue
		}

		rec := o.newRecord(v, sourceURL, emails)
		rec.Name = optional(p.Name)
		rec.Title = optional(p.Title)
		rec.Email = optional(p.Email)
		rec.ProfileURL = optional(p.ProfileURL)
		rec.LinkedinURL = optional(p.LinkedinURL)
		rec.TwitterURL = optional(p.TwitterURL)
		rec.GithubURL = optional(p.GithubURL)
		rec.BlueskyURL = optional(p.BlueskyURL)
		rec.Notes = joinNotes(notes, noteIf(p.Source != "", "personSource="+p.Source))

		o.emit(ctx, rec, "person")
	}
}

func (o *Orchestrator) emitEmails(ctx context.Context, v extractor.Visit, sourceURL string, emails []string, note string) {
	o.registry.MarkSatisfied(v.CompanyDomain)

	for _, e := range emails {
		if !o.registry.ClaimEmail(v.CompanyDomain, e) {
			continue
		}
		rec := o.newRecord(v, sourceURL, emails)
		rec.Email = optional(e)
		rec.Notes = note
		o.emit(ctx, rec, "email")
	}
}

func (o *Orchestrator) emitTerminal(ctx context.Context, v extractor.Visit, sourceURL string, emails []string, note string) {
	o.emitTerminalWithCompany(ctx, v, v.CompanyURL, v.CompanyDomain, sourceURL, emails, note)
}

func (o *Orchestrator) emitTerminalWithCompany(ctx context.Context, v extractor.Visit, companyURL, companyDomain, sourceURL string, emails []string, note string) {
	rec := o.newRecord(v, sourceURL, emails)
	rec.CompanyURL = companyURL
	rec.CompanyDomain = companyDomain
	rec.Notes = note
	o.emit(ctx, rec, "terminal")
}

func (o *Orchestrator) emit(ctx context.Context, rec extractor.OutputRecord, kind string) {
	if err := o.sink.Emit(ctx, rec); err != nil {
		o.logger.Error("sink emit failed",
			zap.String("domain", rec.CompanyDomain),
			zap.String("source_url", rec.SourceURL),
			zap.Error(err),
		)
		return
	}
	metrics.ObserveRecord(kind)
}

func provenanceNotes(v extractor.Visit) []string {
	var notes []string
	if v.DiscoveredFrom != "" {
		notes = append(notes, "discoveredFrom="+v.DiscoveredFrom)
	}
	if v.DiscoveryScore != 0 {
		notes = append(notes, fmt.Sprintf("discoveryScore=%d", v.DiscoveryScore))
	}
	if v.DiscoveryText != "" {
		notes = append(notes, "discoveryText="+v.DiscoveryText)
	}
	return notes
}

func joinNotes(notes []string, extra string) string {
	all := notes
	if extra != "" {
		all = append(append([]string{}, notes...), extra)
	}
	return strings.Join(all, "; ")
}

func noteIf(cond bool, note string) string {
	if !cond {
		return ""
	}
	return note
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
