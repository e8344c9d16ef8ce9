// Package grade defines the fixed skill grading scale and its score table.
package grade

import (
	"fmt"
	"strings"
)

// Grade is an ordinal skill rating. The zero value is not a valid grade.
type Grade uint8

// Grades from best to worst.
const (
	APlus Grade = iota + 1
	A
	B
	C
	D
	E
)

// Best and Worst bound the scale.
const (
	Best  = APlus
	Worst = E
)

var symbols = [...]string{
	APlus: "A+",
	A:     "A",
	B:     "B",
	C:     "C",
	D:     "D",
	E:     "E",
}

var scores = [...]int{
	APlus: 100,
	A:     90,
	B:     75,
	C:     60,
	D:     40,
	E:     20,
}

// All returns every grade ordered best to worst.
func All() []Grade {
	return []Grade{APlus, A, B, C, D, E}
}

// Valid reports whether g is one of the enumerated grades.
func (g Grade) Valid() bool {
	return g >= APlus && g <= E
}

// Score returns the numeric score for g. Values outside the scale score 0.
func (g Grade) Score() int {
	if !g.Valid() {
		return 0
	}
	return scores[g]
}

// Score is the function form of Grade.Score.
func Score(g Grade) int { return g.Score() }

// String returns the grade symbol, e.g. "A+".
func (g Grade) String() string {
	if !g.Valid() {
		return fmt.Sprintf("Grade(%d)", uint8(g))
	}
	return symbols[g]
}

// Parse converts a symbol such as "A+" or " b " into a Grade.
func Parse(s string) (Grade, error) {
	sym := strings.ToUpper(strings.TrimSpace(s))
	for _, g := range All() {
		if symbols[g] == sym {
			return g, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGrade, s)
}

// MaxScore is the highest total achievable over n skills.
func MaxScore(n int) int { return n * Best.Score() }

// MinScore is the lowest total achievable over n skills.
func MinScore(n int) int { return n * Worst.Score() }

// MarshalText implements encoding.TextMarshaler.
func (g Grade) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGrade, uint8(g))
	}
	return []byte(symbols[g]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Grade) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
