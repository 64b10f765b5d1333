// Package corrections extracts grammar corrections from tutor replies.
// The persona is instructed to introduce corrections with fixed marker
// phrases; this package scans replies for those markers so clients can
// render corrections separately from the reply text.
package corrections

import (
	"regexp"
	"strings"

	"github.com/andre-ai/tutor/pkg/tutor/types"
)

// DefaultMarkers are the phrases the persona uses to introduce a
// correction. Each marker captures the rest of the line as the corrected
// form.
var DefaultMarkers = []string{
	"Attention! On dit plutôt:",
	"La forme correcte est:",
	"Il faut dire:",
}

// Extractor scans reply text for correction markers.
type Extractor struct {
	patterns []*regexp.Regexp
}

// New builds an extractor from marker phrases. Passing no markers uses
// DefaultMarkers. Matching is case-insensitive.
func New(markers []string) *Extractor {
	if markers == nil {
		markers = DefaultMarkers
	}
	patterns := make([]*regexp.Regexp, 0, len(markers))
	for _, m := range markers {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		patterns = append(patterns, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(m)+` *(.+)`))
	}
	return &Extractor{patterns: patterns}
}

// Extract returns every correction found in text, in marker order then
// occurrence order. A reply without markers yields an empty slice, never
// nil, so the wire encoding is always a JSON array.
func (e *Extractor) Extract(text string) []types.Correction {
	corrections := []types.Correction{}
	for _, p := range e.patterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			correct := strings.TrimSpace(m[1])
			if correct == "" {
				continue
			}
			corrections = append(corrections, types.Correction{
				Type:    "correction",
				Correct: correct,
			})
		}
	}
	return corrections
}
