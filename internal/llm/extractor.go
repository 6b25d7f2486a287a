package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/firasmosbehi/about-us-team-extractor/internal/extractor"
	"github.com/firasmosbehi/about-us-team-extractor/pkg/textgen"
)

// Config controls the fallback extractor.
type Config struct {
	Model     string
	MaxChars  int
	MaxTokens int64
}

const (
	defaultMaxChars  = 40000
	defaultMaxTokens = 800

	systemPrompt = "You extract structured data from web pages. Return only valid JSON, no commentary, no markdown."
)

// Extractor asks a language model for the people on a page.
type Extractor struct {
	completer textgen.Completer
	cfg       Config
	logger    *zap.Logger
}

// New builds an Extractor.
func New(completer textgen.Completer, cfg Config, logger *zap.Logger) *Extractor {
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = defaultMaxChars
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{completer: completer, cfg: cfg, logger: logger}
}

// ExtractPeople prompts the model with cleaned HTML and visible text
// and returns validated people. Emails the page never showed are
// removed before anything leaves this package.
func (e *Extractor) ExtractPeople(ctx context.Context, pageURL, rawHTML, visibleText string, pageEmails []string) ([]extractor.Person, error) {
	// The char budget splits 70/30 between markup and text: markup
	// carries the pairing structure, text catches content markup hid.
	promptHTML := truncate(CleanHTML(rawHTML), e.cfg.MaxChars*7/10)
	promptText := truncate(visibleText, e.cfg.MaxChars*3/10)

	temperature := 0.0
	raw, err := e.completer.Complete(ctx, textgen.Request{
		Model:       e.cfg.Model,
		MaxTokens:   e.cfg.MaxTokens,
		System:      systemPrompt,
		Prompt:      buildPrompt(pageURL, promptHTML, promptText),
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("llm completion: %w", err)
	}

	people := GuardEmails(ParsePeople(raw), pageEmails)
	e.logger.Debug("llm extraction",
		zap.String("url", pageURL),
		zap.Int("people", len(people)),
	)
	return people, nil
}

func buildPrompt(pageURL, promptHTML, promptText string) string {
	return strings.Join([]string{
		"URL: " + pageURL,
		"",
		"Task: Extract a JSON array of people listed on this page.",
		"Each array item must be an object with keys:",
		"- name (string, required)",
		"- title (string, optional)",
		"- email (string, optional; only if explicitly present on the page)",
		"- linkedinUrl (string, optional; only if explicitly present on the page)",
		"- twitterUrl (string, optional; only if explicitly present on the page)",
		"- githubUrl (string, optional; only if explicitly present on the page)",
		"- blueskyUrl (string, optional; only if explicitly present on the page)",
		"- profileUrl (string, optional; only if explicitly present on the page)",
		"",
		"Exclude non-human entries such as \"Support\" or \"Sales Team\".",
		"Exclude testimonials and client quotes.",
		"",
		"Return [] if no people are listed.",
		"",
		"HTML:",
		promptHTML,
		"",
		"VISIBLE_TEXT:",
		promptText,
	}, "\n")
}

func truncate(s string, maxChars int) string {
	if maxChars <= 0 || len(s) <= maxChars {
		return s
	}
	return s[:maxChars]
}
