// Package guidance turns a patient concern into a multi-perspective,
// educational guidance document produced by a completion provider.
package guidance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Skufu/holistic-guidance/internal/provider"
)

var (
	ErrConcernRequired   = errors.New("patient concern is required")
	ErrProviderFailed    = errors.New("failed to generate guidance")
	ErrMalformedGuidance = errors.New("failed to parse guidance JSON")
)

// FailurePolicy decides what happens when provider output is unusable.
type FailurePolicy string

const (
	// PolicyResilient serves the fallback document with a success status.
	PolicyResilient FailurePolicy = "resilient"
	// PolicyStrict surfaces ErrMalformedGuidance.
	PolicyStrict FailurePolicy = "strict"
)

type Options struct {
	Model       string
	Temperature float64
	Policy      FailurePolicy
}

type Response struct {
	Concern  string    `json:"concern"`
	Guidance *Document `json:"guidance"`
	// Fallback is set when Guidance is the fallback document.
	Fallback bool `json:"-"`
}

// Service is stateless apart from its configuration and safe for concurrent use.
type Service struct {
	completer provider.Completer
	logger    *zap.Logger
	opts      Options
}

func NewService(completer provider.Completer, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Policy == "" {
		opts.Policy = PolicyResilient
	}
	return &Service{completer: completer, logger: logger, opts: opts}
}

// Handle makes exactly one provider call for a valid concern and none for an
// invalid one.
func (s *Service) Handle(ctx context.Context, concern string) (*Response, error) {
	if strings.TrimSpace(concern) == "" {
		return nil, ErrConcernRequired
	}

	text, err := s.completer.Complete(ctx, provider.Request{
		System:      SystemMessage,
		Prompt:      BuildPrompt(concern),
		Model:       s.opts.Model,
		Temperature: s.opts.Temperature,
		JSONMode:    true,
	})
	if err != nil {
		s.logger.Error("guidance provider call failed", zap.String("model", s.opts.Model), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}

	doc, dropped, err := ParseDocument(text)
	if len(dropped) > 0 {
		s.logger.Warn("guidance options discarded",
			zap.Strings("dropped", dropped),
			zap.String("reason", "missing name"),
		)
	}
	if err != nil {
		s.logger.Warn("guidance JSON parse failed",
			zap.String("policy", string(s.opts.Policy)),
			zap.String("raw", text),
			zap.Error(err),
		)
		if s.opts.Policy == PolicyStrict {
			return nil, err
		}
		return &Response{Concern: concern, Guidance: Fallback(), Fallback: true}, nil
	}

	return &Response{Concern: concern, Guidance: doc}, nil
}
