// Package censor detects, masks and highlights inappropriate language using
// a lexicon of banned terms.
//
// The built-in lexicon and the files under test_data hold explicit and
// offensive words on purpose. They exist only to be filtered out.
package censor

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const defaultMaskRune = '*'

// Result is the outcome of a single Detect call.
type Result struct {
	HasMatch bool     `json:"has_match"`
	Matches  []string `json:"matches"`
	Severity Level    `json:"severity"`
	Message  string   `json:"message"`
}

// Censor matches text against an immutable lexicon. It holds no per-call
// state and is safe for concurrent use.
type Censor struct {
	terms   []string
	termSet map[string]struct{}
	tiers   map[Level]map[string]struct{}
	alts    map[string][]string

	// patterns[i] matches terms[i] literally, ignoring case.
	patterns []*regexp.Regexp
	mask     rune
}

type Option func(*Censor)

// WithMaskRune sets the rune Mask replaces matched characters with. Runes
// rejected by ValidMaskRune are ignored.
func WithMaskRune(r rune) Option {
	return func(c *Censor) {
		if ValidMaskRune(r) {
			c.mask = r
		}
	}
}

// New builds a Censor over a copy of lex.
func New(lex Lexicon, opts ...Option) (*Censor, error) {
	lex, err := lex.clean()
	if err != nil {
		return nil, err
	}

	c := Censor{
		terms:    lex.Terms,
		termSet:  make(map[string]struct{}, len(lex.Terms)),
		tiers:    make(map[Level]map[string]struct{}, len(lex.Tiers)),
		alts:     lex.Alternatives,
		patterns: make([]*regexp.Regexp, len(lex.Terms)),
		mask:     defaultMaskRune,
	}

	for i, t := range c.terms {
		c.termSet[t] = struct{}{}
		c.patterns[i], err = regexp.Compile("(?i)" + regexp.QuoteMeta(t))
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern for %q: %w", t, err)
		}
	}

	for lvl, terms := range lex.Tiers {
		set := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			set[t] = struct{}{}
		}
		c.tiers[lvl] = set
	}

	for _, opt := range opts {
		opt(&c)
	}

	return &c, nil
}

// Default returns a Censor over DefaultLexicon.
func Default(opts ...Option) *Censor {
	c, err := New(DefaultLexicon(), opts...)
	if err != nil {
		panic(fmt.Sprintf("censor: invalid default lexicon: %v", err))
	}
	return c
}

// NewFromJSON loads a lexicon from a JSON file and builds a Censor over it.
func NewFromJSON(path string, opts ...Option) (*Censor, error) {
	lex, err := LoadLexicon(path)
	if err != nil {
		return nil, err
	}
	return New(lex, opts...)
}

// Normalize replaces every rune that is not a letter, digit or whitespace
// with a space, collapses whitespace runs and trims the result.
func Normalize(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			sb.WriteRune(r)
			continue
		}
		sb.WriteByte(' ')
	}

	return strings.Join(strings.Fields(sb.String()), " ")
}

// Contains reports whether text holds any lexicon term, either as a whole
// token or as a substring of the normalized text. The substring pass is
// deliberately broad: "classy" contains "ass".
func (c *Censor) Contains(text string) bool {
	normalized := strings.ToLower(Normalize(text))
	if normalized == "" {
		return false
	}

	for _, w := range strings.Fields(normalized) {
		if _, ok := c.termSet[w]; ok {
			return true
		}
	}

	for _, t := range c.terms {
		if strings.Contains(normalized, t) {
			return true
		}
	}

	return false
}

// Matches returns every lexicon term found in text by the same two passes
// as Contains. Terms are deduplicated and kept in first-seen order: token
// hits first, then substring hits in lexicon order.
func (c *Censor) Matches(text string) []string {
	found := []string{}

	normalized := strings.ToLower(Normalize(text))
	if normalized == "" {
		return found
	}

	seen := make(map[string]struct{})
	add := func(t string) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		found = append(found, t)
	}

	for _, w := range strings.Fields(normalized) {
		if _, ok := c.termSet[w]; ok {
			add(w)
		}
	}

	for _, t := range c.terms {
		if strings.Contains(normalized, t) {
			add(t)
		}
	}

	return found
}

// Detect runs Matches and classifies the outcome.
func (c *Censor) Detect(text string) Result {
	matches := c.Matches(text)
	if len(matches) == 0 {
		return Result{Matches: matches, Severity: LevelNone}
	}

	return Result{
		HasMatch: true,
		Matches:  matches,
		Severity: c.Severity(matches),
		Message:  fmt.Sprintf("Inappropriate language detected: %s. Please use polite language.", strings.Join(matches, ", ")),
	}
}
