package guidance

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ParseDocument decodes provider output into a Document, applies the
// deterministic repairs and validates the result. The second return value
// lists the options discarded during repair as "perspective/category[index]".
// Every failure wraps ErrMalformedGuidance.
func ParseDocument(text string) (*Document, []string, error) {
	var doc Document
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedGuidance, err)
	}

	dropped := repair(&doc)

	if err := validate.Struct(&doc); err != nil {
		return nil, dropped, fmt.Errorf("%w: %v", ErrMalformedGuidance, err)
	}
	return &doc, dropped, nil
}

// stripCodeFence removes one markdown fence wrapped around the whole payload.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") || len(trimmed) < 6 {
		return trimmed
	}
	body := strings.TrimSuffix(strings.TrimPrefix(trimmed, "```"), "```")
	// Drop an info string such as "json" on the opening line.
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "{[") {
		body = body[nl+1:]
	}
	return strings.TrimSpace(body)
}

// repair fills the disclaimer, normalizes null categories, clamps scores and
// drops options without a name. It returns where the dropped options were.
func repair(doc *Document) []string {
	if strings.TrimSpace(doc.Disclaimer) == "" {
		doc.Disclaimer = StandardDisclaimer
	}

	var dropped []string
	for i := range doc.Perspectives {
		entry := &doc.Perspectives[i]
		opts := entry.Perspective.SpecificOptions
		for _, category := range Categories {
			list, ok := opts[category]
			if !ok {
				continue
			}
			kept := make([]Option, 0, len(list))
			for j, opt := range list {
				if strings.TrimSpace(opt.Name) == "" {
					dropped = append(dropped, fmt.Sprintf("%s/%s[%d]", entry.Name, category, j))
					continue
				}
				opt.EvidenceScore = clampScore(opt.EvidenceScore)
				kept = append(kept, opt)
			}
			opts[category] = kept
		}
	}
	return dropped
}

func clampScore(s Score) Score {
	switch {
	case s < 0:
		return 0
	case s > 100:
		return 100
	default:
		return s
	}
}
