// Package moderation masks censored words in broadcast content and tags
// each message with its detected language.
package moderation

import (
	"unicode"

	"github.com/abadojack/whatlanggo"
	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator matches a fixed word list with an Aho-Corasick automaton and
// replaces every matched rune with the mask character. Matching is
// case-insensitive; the original casing and spacing of unmatched text is
// left untouched.
type Moderator struct {
	matcher *goahocorasick.Machine
	mask    rune
}

// NewModerator builds the automaton from the word list. An empty list gives
// a moderator that passes everything through.
func NewModerator(words []string, mask rune) (*Moderator, error) {
	patterns := make([][]rune, 0, len(words))
	for _, word := range words {
		patterns = append(patterns, lowerRunes(word))
	}

	if len(patterns) == 0 {
		return &Moderator{mask: mask}, nil
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: m, mask: mask}, nil
}

// Censor replaces every occurrence of a censored word with mask runes of the
// same length. Lowercasing is rune-for-rune, so match positions map directly
// back onto the original text.
func (m *Moderator) Censor(text string) string {
	if m == nil || m.matcher == nil || text == "" {
		return text
	}
	original := []rune(text)
	spans := m.matcher.MultiPatternSearch(lowerRunes(text), false)
	if len(spans) == 0 {
		return text
	}

	for _, span := range spans {
		end := span.Pos + len(span.Word)
		if span.Pos < 0 || end > len(original) {
			continue
		}
		for i := span.Pos; i < end; i++ {
			original[i] = m.mask
		}
	}
	return string(original)
}

// Language returns the ISO 639-1 code of the detected language, empty when
// detection is unreliable.
func (m *Moderator) Language(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}

func lowerRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}
