package censor

import "strings"

type Suggestion struct {
	Term         string   `json:"term"`
	Alternatives []string `json:"alternatives"`
}

// Suggest returns polite alternatives for each term. Terms without known
// alternatives get an empty list.
func (c *Censor) Suggest(terms []string) []Suggestion {
	out := make([]Suggestion, 0, len(terms))
	for _, t := range terms {
		src := c.alts[strings.ToLower(t)]
		alts := make([]string, len(src))
		copy(alts, src)
		out = append(out, Suggestion{Term: t, Alternatives: alts})
	}
	return out
}

// Verdict is the outcome of validating a set of named form fields.
type Verdict struct {
	Valid    bool              `json:"valid"`
	Severity Level             `json:"severity"`
	Fields   map[string]Result `json:"fields,omitempty"`
}

// Validate detects every field. The verdict holds results for flagged
// fields only and the highest severity among them.
func (c *Censor) Validate(fields map[string]string) Verdict {
	v := Verdict{Valid: true, Severity: LevelNone}
	for name, text := range fields {
		res := c.Detect(text)
		if !res.HasMatch {
			continue
		}
		if v.Fields == nil {
			v.Fields = make(map[string]Result)
		}
		v.Fields[name] = res
		v.Valid = false
		v.Severity = Max(v.Severity, res.Severity)
	}
	return v
}
