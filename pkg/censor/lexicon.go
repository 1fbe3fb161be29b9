package censor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrEmptyTerm = errors.New("lexicon term is empty")

// Lexicon is the word list the censor matches against, together with the
// severity tiers and polite alternatives for some of the terms.
type Lexicon struct {
	Terms        []string            `json:"terms"`
	Tiers        map[Level][]string  `json:"severity"`
	Alternatives map[string][]string `json:"alternatives"`
}

// LoadLexicon reads a lexicon from a JSON file.
func LoadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, err
	}

	var lex Lexicon
	if err := json.Unmarshal(data, &lex); err != nil {
		return Lexicon{}, fmt.Errorf("failed to decode lexicon %s: %w", path, err)
	}

	return lex, nil
}

// clean returns a lowercased deep copy of the lexicon. Duplicate terms keep
// their first position.
func (l Lexicon) clean() (Lexicon, error) {
	out := Lexicon{
		Terms:        make([]string, 0, len(l.Terms)),
		Tiers:        make(map[Level][]string, len(l.Tiers)),
		Alternatives: make(map[string][]string, len(l.Alternatives)),
	}

	seen := make(map[string]struct{}, len(l.Terms))
	for i, t := range l.Terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			return Lexicon{}, fmt.Errorf("%w: position %d", ErrEmptyTerm, i)
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out.Terms = append(out.Terms, t)
	}

	for lvl, terms := range l.Tiers {
		if lvl.Rank() <= LevelNone.Rank() {
			return Lexicon{}, fmt.Errorf("unknown severity tier %q", lvl)
		}
		for _, t := range terms {
			out.Tiers[lvl] = append(out.Tiers[lvl], strings.ToLower(strings.TrimSpace(t)))
		}
	}

	for term, alts := range l.Alternatives {
		out.Alternatives[strings.ToLower(term)] = append([]string(nil), alts...)
	}

	return out, nil
}

// DefaultLexicon returns the built-in word list. Entries with symbols
// (f*ck, @ss) can only be hit by Mask and Markup because detection
// normalizes symbols away.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Terms: []string{
			// English
			"fuck", "fucking", "fucker", "fucked", "fck", "f*ck", "f**k",
			"shit", "sh*t", "sh**", "crap", "damn", "damned",
			"bitch", "bastard", "asshole", "ass", "arse", "piss", "pissed",
			"hell", "bloody", "whore", "slut", "dick", "cock", "penis",
			"pussy", "vagina", "sex", "sexy", "porn", "naked", "nude",
			"gay", "lesbian", "homo", "fag", "faggot", "queer",
			"nigger", "nigga", "negro", "colored", "coon", "spic", "wetback",
			"chink", "gook", "jap", "kike", "wop", "dago", "gringo",
			"retard", "retarded", "stupid", "idiot", "moron", "dumb", "dumbass",
			"kill", "murder", "die", "death", "suicide", "gun", "weapon",
			"drug", "drugs", "cocaine", "heroin", "marijuana", "weed", "pot",
			"alcohol", "beer", "wine", "drunk", "drinking",

			// Swahili
			"malaya", "kahaba", "mkundu", "msenge", "mjinga",
			"pumbavu", "kuma", "mbwa", "nyama", "mwizi", "fala",
			"kipii", "shoga", "msagaji", "makende", "bilashi",

			"scam", "fraud", "cheat", "steal", "rob", "robbery",
			"hate", "racist", "racism", "discrimination", "violence",
			"terrorist", "bomb", "attack", "kidnap", "rape",

			// Leetspeak
			"sh1t", "fvck", "a55", "a$$", "b1tch", "b!tch",
			"d1ck", "p0rn", "f4g", "n1gga", "h0m0",

			// Symbol replacements
			"@ss", "@$$hole", "sh!t", "f@ck", "sh@t", "d@mn", "h@te", "k!ll",
		},
		Tiers: map[Level][]string{
			LevelMild:     {"damn", "hell", "crap"},
			LevelModerate: {"shit", "ass", "bitch"},
			LevelSevere:   {"fuck", "nigger", "rape", "kill"},
		},
		Alternatives: map[string][]string{
			"damn":   {"darn", "blast", "shoot"},
			"hell":   {"heck", "awful", "terrible"},
			"shit":   {"nonsense", "rubbish", "garbage"},
			"stupid": {"foolish", "unwise", "poor"},
			"idiot":  {"person", "individual", "someone"},
			"hate":   {"dislike", "disapprove of", "find problematic"},
			"kill":   {"stop", "end", "eliminate"},
			"crazy":  {"unusual", "unexpected", "surprising"},
		},
	}
}
