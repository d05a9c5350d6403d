package safety

import (
	"regexp"
	"strings"
)

// blockedTerms reject a story outright. Stricter than the sanitizer's
// denylist: these cannot be fixed by redaction.
var blockedTerms = []string{
	"gore", "torture", "suicide", "self-harm", "rape",
	"explicit", "nsfw", "porn", "nude", "terrorism", "massacre",
}

// Moderator is the binary accept/reject gate over assembled story text.
// Evaluated once per run, before any generation work.
type Moderator struct {
	pattern *regexp.Regexp
}

// NewModerator builds a moderator over the default blocked-term list
func NewModerator() *Moderator {
	return NewModeratorWithBlocklist(blockedTerms)
}

// NewModeratorWithBlocklist builds a moderator over a custom list.
// An empty list accepts everything.
func NewModeratorWithBlocklist(words []string) *Moderator {
	if len(words) == 0 {
		return &Moderator{}
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return &Moderator{
		pattern: regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`),
	}
}

// IsClean reports whether text contains no blocked term
func (m *Moderator) IsClean(text string) bool {
	if m.pattern == nil {
		return true
	}
	return !m.pattern.MatchString(text)
}
