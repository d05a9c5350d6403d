// Package safety holds the content gates applied to story text before it is
// sent to image generation: a prompt sanitizer that redacts disallowed terms
// and a moderator that accepts or rejects a whole story.
package safety

import (
	"regexp"
	"strings"
)

// Placeholder replaces every redacted term
const Placeholder = "[redacted]"

// defaultDenylist is redacted from prompts before they reach a provider
var defaultDenylist = []string{"kill", "blood", "naked", "curse", "violence"}

// Sanitizer redacts a fixed denylist from prompts. Matching is
// case-insensitive and whole-word: "skill" and "bloodhound" pass through.
type Sanitizer struct {
	pattern *regexp.Regexp
}

// NewSanitizer builds a sanitizer over the default denylist
func NewSanitizer() *Sanitizer {
	return NewSanitizerWithDenylist(defaultDenylist)
}

// NewSanitizerWithDenylist builds a sanitizer over a custom denylist.
// An empty denylist yields a sanitizer that returns input unchanged.
func NewSanitizerWithDenylist(words []string) *Sanitizer {
	if len(words) == 0 {
		return &Sanitizer{}
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return &Sanitizer{
		pattern: regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`),
	}
}

// Sanitize returns text with every denylisted word replaced by the
// placeholder. Pure and idempotent: the placeholder itself never matches.
func (s *Sanitizer) Sanitize(text string) string {
	if s.pattern == nil {
		return text
	}
	return s.pattern.ReplaceAllString(text, Placeholder)
}
