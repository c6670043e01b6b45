// Package provider adapts external text-completion services to a single
// Complete operation.
package provider

import (
	"context"
	"errors"
)

// ErrMissingAPIKey is returned when a provider is called without credentials.
var ErrMissingAPIKey = errors.New("provider API key not configured")

// Request is one system+user completion call.
type Request struct {
	System      string
	Prompt      string
	Model       string
	Temperature float64
	// JSONMode asks the provider to constrain output to a JSON object.
	JSONMode bool
}

// Completer returns the text of a single completion.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}
