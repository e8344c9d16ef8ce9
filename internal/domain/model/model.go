// Package model contains domain models passed between layers.
package model

import (
	"strings"

	"github.com/okian/archer/internal/domain/grade"
)

// Batch is a named schedule slot taught at a level, e.g. "TF 5 PM IST".
type Batch struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

// Coach owns zero or more batches.
type Coach struct {
	Name    string  `json:"name"`
	Batches []Batch `json:"batches"`
}

// Clone returns a copy of c that shares no slice storage with it.
func (c Coach) Clone() Coach {
	out := Coach{Name: c.Name, Batches: make([]Batch, len(c.Batches))}
	copy(out.Batches, c.Batches)
	return out
}

// Student is the session's selection state. Level is derived from the
// selected batch and never set directly.
type Student struct {
	Name  string `json:"name"`
	Coach string `json:"coach"`
	Batch string `json:"batch"`
	Level string `json:"level"`
}

// SkillEvaluation is the current grade for one evaluated skill.
type SkillEvaluation struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Grade grade.Grade `json:"grade"`
}

// Score returns the grade score of the evaluation.
func (s SkillEvaluation) Score() int { return s.Grade.Score() }

// SkillID derives the stable identifier for a skill name:
// lowercase with every whitespace run replaced by a hyphen.
func SkillID(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// Skills is the fixed list of evaluated competencies, in report order.
var Skills = []string{
	"Tactics",
	"Logical Thinking",
	"Creativity",
	"Patience",
	"Focus",
	"Positional Play",
	"Opening",
	"Middle Game",
	"Endgame",
}

// Levels is the known set of level labels offered for selection. It is not
// a validation list: batches may carry any label.
var Levels = []string{
	"Beginner",
	"Intermediate",
	"AL-1",
	"AL-2",
	"AL-3",
	"Expert",
	"Expert-1 (Module-1)",
	"Expert-1 (Module-3)",
}
