// Package scoring computes composite scores from per-skill grades and owns
// the session's skill sheet.
package scoring

import (
	"fmt"
	"slices"

	"github.com/okian/archer/internal/domain/grade"
	"github.com/okian/archer/internal/domain/model"
)

// Default scoring configuration constants.
const (
	defaultGrade = grade.C
)

// Total sums the grade scores of evals. An empty sequence totals 0.
func Total(evals []model.SkillEvaluation) int {
	total := 0
	for _, e := range evals {
		total += e.Score()
	}
	return total
}

// Max is the highest total achievable over n skills.
func Max(n int) int { return grade.MaxScore(n) }

// Option applies a configuration option to a Sheet.
type Option func(*Sheet)

// WithDefaultGrade sets the grade every skill starts at.
func WithDefaultGrade(g grade.Grade) Option {
	return func(s *Sheet) {
		if g.Valid() {
			s.defaultGrade = g
		}
	}
}

// WithSkills replaces the evaluated skill list. Names that derive the same
// identifier as an earlier name are dropped.
func WithSkills(names []string) Option {
	return func(s *Sheet) {
		if len(names) > 0 {
			s.names = slices.Clone(names)
		}
	}
}

// Sheet holds one evaluation per fixed skill. Entries are created once and
// only their grades change afterwards.
type Sheet struct {
	defaultGrade grade.Grade
	names        []string

	evals []model.SkillEvaluation
	index map[string]int
}

// NewSheet builds a sheet with every skill at the default grade.
func NewSheet(opts ...Option) *Sheet {
	s := &Sheet{
		defaultGrade: defaultGrade,
		names:        model.Skills,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	s.evals = make([]model.SkillEvaluation, 0, len(s.names))
	s.index = make(map[string]int, len(s.names))
	for _, name := range s.names {
		id := model.SkillID(name)
		if _, dup := s.index[id]; dup {
			continue
		}
		s.index[id] = len(s.evals)
		s.evals = append(s.evals, model.SkillEvaluation{ID: id, Name: name, Grade: s.defaultGrade})
	}
	return s
}

// Len returns the number of evaluated skills.
func (s *Sheet) Len() int { return len(s.evals) }

// Evaluations returns a copy of the evaluations in report order.
func (s *Sheet) Evaluations() []model.SkillEvaluation {
	return slices.Clone(s.evals)
}

// SetGrade changes the grade of the skill with the given id.
func (s *Sheet) SetGrade(id string, g grade.Grade) error {
	if !g.Valid() {
		return fmt.Errorf("%w: %d", grade.ErrUnknownGrade, uint8(g))
	}
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSkill, id)
	}
	s.evals[i].Grade = g
	return nil
}

// Evaluation returns the evaluation with the given id.
func (s *Sheet) Evaluation(id string) (model.SkillEvaluation, bool) {
	i, ok := s.index[id]
	if !ok {
		return model.SkillEvaluation{}, false
	}
	return s.evals[i], true
}

// Total returns the composite score of the sheet.
func (s *Sheet) Total() int { return Total(s.evals) }

// Max returns the highest total the sheet can reach.
func (s *Sheet) Max() int { return Max(len(s.evals)) }

// ScoreOf returns the score of the skill with the given display name, or 0
// when the sheet has no such skill.
func (s *Sheet) ScoreOf(name string) int {
	return ScoreOf(s.evals, name)
}

// Lowest returns up to n evaluations ordered by ascending score. Ties keep
// report order.
func (s *Sheet) Lowest(n int) []model.SkillEvaluation {
	return Lowest(s.evals, n)
}

// ScoreOf looks up a skill by display name in evals. Missing skills score 0.
func ScoreOf(evals []model.SkillEvaluation, name string) int {
	for _, e := range evals {
		if e.Name == name {
			return e.Score()
		}
	}
	return 0
}

// Lowest returns up to n of evals ordered by ascending score, stable on ties.
func Lowest(evals []model.SkillEvaluation, n int) []model.SkillEvaluation {
	if n <= 0 {
		return nil
	}
	sorted := slices.Clone(evals)
	slices.SortStableFunc(sorted, func(a, b model.SkillEvaluation) int {
		return a.Score() - b.Score()
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
