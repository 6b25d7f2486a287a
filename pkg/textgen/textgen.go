// Package textgen wraps LLM completion behind a single-method
// interface so extraction code never touches an SDK directly.
package textgen

import "context"

// Request is one completion call.
type Request struct {
	Model       string
	MaxTokens   int64
	System      string
	Prompt      string
	Temperature *float64
}

// Completer produces a text completion for a request.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}
