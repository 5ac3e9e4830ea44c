// Package profanity screens player names against a denylist.
package profanity

import (
	goaway "github.com/TwiN/go-away"
)

// Filter checks free-form player names for disallowed words.
// Matching is case-insensitive and tolerant of leet-speak substitutions.
type Filter struct {
	detector *goaway.ProfanityDetector
}

// New creates a Filter for the given denylist
func New(words []string) *Filter {
	return &Filter{
		detector: goaway.NewProfanityDetector().WithCustomDictionary(words, nil, nil),
	}
}

// Default returns a Filter using the built-in Dutch denylist,
// optionally extended with extra words.
func Default(extra ...string) *Filter {
	words := make([]string, 0, len(dutchWordlist)+len(extra))
	words = append(words, dutchWordlist...)
	words = append(words, extra...)
	return New(words)
}

// IsProfane reports whether the name contains a denylisted word
func (f *Filter) IsProfane(name string) bool {
	return f.detector.IsProfane(name)
}
