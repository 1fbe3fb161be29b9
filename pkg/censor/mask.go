package censor

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	markupClass = "profanity-highlight"
	markupTitle = "Inappropriate language detected"
)

var markupTerm = regexp.MustCompile(`<span class="` + markupClass + `" data-word="([^"]*)"`)

type span struct {
	start, end int
	term       string
}

// spans finds whole-word occurrences of lexicon terms in text. A span is
// claimed by the first term in lexicon order that covers it; later terms
// overlapping a claimed span are dropped.
func (c *Censor) spans(text string) []span {
	var claimed []span
	for i, re := range c.patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			if !wholeWord(text, loc[0], loc[1]) || overlaps(claimed, loc[0], loc[1]) {
				continue
			}
			claimed = append(claimed, span{start: loc[0], end: loc[1], term: c.terms[i]})
		}
	}

	sort.Slice(claimed, func(i, j int) bool {
		return claimed[i].start < claimed[j].start
	})

	return claimed
}

func wholeWord(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ValidMaskRune reports whether r may be used as a mask rune. It must be a
// visible rune that is not part of a word, so masked runs never join
// neighbouring words.
func ValidMaskRune(r rune) bool {
	return r != utf8.RuneError && unicode.IsGraphic(r) && !unicode.IsSpace(r) && !isWordRune(r)
}

func overlaps(spans []span, start, end int) bool {
	for _, s := range spans {
		if start < s.end && s.start < end {
			return true
		}
	}
	return false
}

// Mask replaces whole-word lexicon terms with a run of the mask rune as long
// as the matched text. Unlike Contains, terms inside longer words are left
// alone.
func (c *Censor) Mask(text string) string {
	return c.rewrite(text, func(sb *strings.Builder, s span, matched string) {
		sb.WriteString(strings.Repeat(string(c.mask), utf8.RuneCountInString(matched)))
	})
}

// Markup wraps whole-word lexicon terms in a highlight span carrying the
// term in data-word. The visible text is unchanged.
func (c *Censor) Markup(text string) string {
	return c.rewrite(text, func(sb *strings.Builder, s span, matched string) {
		fmt.Fprintf(sb, `<span class="%s" data-word="%s" title="%s">%s</span>`,
			markupClass, html.EscapeString(s.term), markupTitle, matched)
	})
}

func (c *Censor) rewrite(text string, replace func(sb *strings.Builder, s span, matched string)) string {
	spans := c.spans(text)
	if len(spans) == 0 {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text))
	last := 0
	for _, s := range spans {
		sb.WriteString(text[last:s.start])
		replace(&sb, s, text[s.start:s.end])
		last = s.end
	}
	sb.WriteString(text[last:])

	return sb.String()
}

// ParseMarkup returns the terms carried by the highlight spans of a Markup
// result, deduplicated in order of appearance.
func ParseMarkup(marked string) []string {
	terms := []string{}
	seen := make(map[string]struct{})
	for _, m := range markupTerm.FindAllStringSubmatch(marked, -1) {
		t := html.UnescapeString(m[1])
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		terms = append(terms, t)
	}
	return terms
}
