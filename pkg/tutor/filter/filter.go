// Package filter classifies raw transcriptions as genuine speech or
// recognizer artifacts. It is a heuristic allow/deny list, not a
// confidence-scored model; occasional misclassification is acceptable.
package filter

import (
	"strings"
	"unicode"
)

// Default artifact phrases produced by speech recognizers on silence or
// noise: video credits, subscribe prompts, subtitle boilerplate, URLs.
// Matching is case-insensitive substring.
var DefaultArtifacts = []string{
	"sous-titre",
	"amara.org",
	"subtitles",
	"st' 501",
	"sous-titrage",
	"cc by",
	"translated by",
	"subtítulos",
	"www.",
	".com",
	".org",
	"thank you for watching",
	"merci d'avoir regardé",
	"[music]",
	"[musique]",
	"♪",
	"please subscribe",
	"like and subscribe",
}

// DefaultMinLength is the minimum trimmed character count for a
// transcript to be considered real speech.
const DefaultMinLength = 2

// Reason explains a rejection.
type Reason string

const (
	ReasonArtifact        Reason = "artifact"
	ReasonTooShort        Reason = "too_short"
	ReasonOnlyPunctuation Reason = "only_punctuation"
)

// Result is the outcome of classification.
type Result struct {
	Accepted bool
	Reason   Reason
}

// Filter rejects transcripts that are too short, punctuation-only, or
// contain a known artifact phrase.
type Filter struct {
	artifacts []string // lowercased
	minLength int
}

// New creates a filter. Passing no artifacts uses DefaultArtifacts;
// minLength <= 0 uses DefaultMinLength.
func New(artifacts []string, minLength int) *Filter {
	if artifacts == nil {
		artifacts = DefaultArtifacts
	}
	lowered := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		lowered = append(lowered, a)
	}
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	return &Filter{artifacts: lowered, minLength: minLength}
}

// Classify decides whether text represents real user speech.
func (f *Filter) Classify(text string) Result {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < f.minLength {
		return Result{Reason: ReasonTooShort}
	}
	if onlyPunctuation(trimmed) {
		return Result{Reason: ReasonOnlyPunctuation}
	}
	lowered := strings.ToLower(trimmed)
	for _, artifact := range f.artifacts {
		if strings.Contains(lowered, artifact) {
			return Result{Reason: ReasonArtifact}
		}
	}
	return Result{Accepted: true}
}

func onlyPunctuation(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		return false
	}
	return true
}
