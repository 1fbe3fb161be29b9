package censor

import "strings"

// Level is the severity of a detection result.
type Level string

const (
	LevelNone     Level = "none"
	LevelMild     Level = "mild"
	LevelModerate Level = "moderate"
	LevelSevere   Level = "severe"
)

// Rank orders levels: severe > moderate > mild > none. Unknown levels rank
// below none.
func (l Level) Rank() int {
	switch l {
	case LevelSevere:
		return 3
	case LevelModerate:
		return 2
	case LevelMild:
		return 1
	case LevelNone:
		return 0
	default:
		return -1
	}
}

func (l Level) String() string {
	return string(l)
}

// Max returns the more severe of two levels.
func Max(a, b Level) Level {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// tierOrder is the lookup priority used by Severity.
var tierOrder = []Level{LevelSevere, LevelModerate, LevelMild}

// Severity classifies a set of matched terms. The highest tier found wins;
// terms that belong to no tier count as mild. An empty set is LevelNone.
func (c *Censor) Severity(terms []string) Level {
	if len(terms) == 0 {
		return LevelNone
	}

	for _, lvl := range tierOrder {
		tier := c.tiers[lvl]
		for _, t := range terms {
			if _, ok := tier[strings.ToLower(t)]; ok {
				return lvl
			}
		}
	}

	return LevelMild
}
