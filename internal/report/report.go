// Package report assembles the derived report snapshot that renderers turn
// into the printable one-page report.
package report

import (
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/okian/archer/internal/domain/model"
	"github.com/okian/archer/internal/domain/scoring"
	"github.com/okian/archer/internal/domain/verdict"
)

// Default report configuration constants.
const (
	defaultImprovementAreas = 3
	dateLayout              = "2 January 2006"
	noReviewText            = "No additional comments provided by the coach."
	signatoryFallback       = "Coach"
	filenamePrefix          = "Archer_Report_"
	filenameFallback        = "Student"
	readinessFull           = 100
	gapColor                = "#e5e7eb"
)

// Skill groupings used by the focused charts.
var (
	tacticalPositional = []string{"Tactics", "Positional Play", "Opening", "Middle Game", "Endgame"}
	mentalStability    = []string{"Focus", "Patience"}
	gamePhases         = []string{"Opening", "Middle Game", "Endgame"}
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Input is the session state a report is built from.
type Input struct {
	Student model.Student
	Skills  []model.SkillEvaluation
	Review  string

	// Signature is the coach's signature as an image data URL, or empty.
	Signature string
}

// SkillScore is one skill with its grade and score.
type SkillScore struct {
	model.SkillEvaluation
	Score int `json:"score"`
}

// Point is a labelled chart value.
type Point struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Gauge is the half-doughnut verdict indicator.
type Gauge struct {
	Score int    `json:"score"`
	Gap   int    `json:"gap"`
	Color string `json:"color"`
	Track string `json:"track"`
}

// Charts carries the series behind every chart on the report.
type Charts struct {
	SkillWise          []Point `json:"skill_wise"`
	TacticalPositional []Point `json:"tactical_positional"`
	MentalStability    []Point `json:"mental_stability"`
	GamePhases         []Point `json:"game_phases"`
	LogicalCreative    []Point `json:"logical_creative"`
	Consistency        []Point `json:"consistency"`
	Gauge              Gauge   `json:"gauge"`
}

// Report is the complete derived snapshot of a session.
type Report struct {
	ID               string          `json:"id"`
	GeneratedAt      time.Time       `json:"generated_at"`
	Date             string          `json:"date"`
	Student          model.Student   `json:"student"`
	Skills           []SkillScore    `json:"skills"`
	Total            int             `json:"total"`
	Max              int             `json:"max"`
	Verdict          verdict.Verdict `json:"verdict"`
	Readiness        *int            `json:"readiness,omitempty"`
	ImprovementAreas []SkillScore    `json:"improvement_areas,omitempty"`
	Charts           Charts          `json:"charts"`
	Review           string          `json:"review"`
	Signature        string          `json:"signature,omitempty"`
	Signatory        string          `json:"signatory"`
	Filename         string          `json:"filename"`
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithClassifier sets the verdict classifier.
func WithClassifier(c *verdict.Classifier) Option {
	return func(b *Builder) {
		if c != nil {
			b.classifier = c
		}
	}
}

// WithClock sets the time source used for the report date.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithIDGenerator sets the report ID source.
func WithIDGenerator(newID func() string) Option {
	return func(b *Builder) {
		if newID != nil {
			b.newID = newID
		}
	}
}

// WithImprovementAreas sets how many of the weakest skills are listed when
// the verdict is ALMOST.
func WithImprovementAreas(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.improvementAreas = n
		}
	}
}

// Builder builds reports. It holds no session state.
type Builder struct {
	classifier       *verdict.Classifier
	now              func() time.Time
	newID            func() string
	improvementAreas int
}

// NewBuilder creates a Builder with default configuration.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		classifier:       verdict.NewClassifier(),
		now:              time.Now,
		newID:            uuid.NewString,
		improvementAreas: defaultImprovementAreas,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build derives a report from in.
func (b *Builder) Build(in Input) Report {
	total := scoring.Total(in.Skills)
	v := b.classifier.Classify(total)
	maxScore := scoring.Max(len(in.Skills))
	now := b.now()

	r := Report{
		ID:          b.newID(),
		GeneratedAt: now,
		Date:        now.Format(dateLayout),
		Student:     in.Student,
		Skills:      skillScores(in.Skills),
		Total:       total,
		Max:         maxScore,
		Verdict:     v,
		Charts:      b.charts(in.Skills, total, maxScore, v.Status),
		Review:      in.Review,
		Signature:   in.Signature,
		Signatory:   in.Student.Coach,
		Filename:    Filename(in.Student.Name),
	}
	if r.Review == "" {
		r.Review = noReviewText
	}
	if r.Signatory == "" {
		r.Signatory = signatoryFallback
	}

	switch v.Status {
	case verdict.StatusReady:
		full := readinessFull
		r.Readiness = &full
	case verdict.StatusAlmost:
		r.ImprovementAreas = skillScores(scoring.Lowest(in.Skills, b.improvementAreas))
	default:
		none := 0
		r.Readiness = &none
	}
	return r
}

func (b *Builder) charts(skills []model.SkillEvaluation, total, maxScore int, status verdict.Status) Charts {
	gap := maxScore - total
	if gap < 0 {
		gap = 0
	}
	c := Charts{
		SkillWise:          make([]Point, len(skills)),
		TacticalPositional: pointsFor(skills, tacticalPositional),
		MentalStability:    pointsFor(skills, mentalStability),
		GamePhases:         pointsFor(skills, gamePhases),
		LogicalCreative: []Point{
			{Label: "Logical", Value: scoring.ScoreOf(skills, "Logical Thinking")},
			{Label: "Creative", Value: scoring.ScoreOf(skills, "Creativity")},
		},
		Consistency: make([]Point, len(skills)),
		Gauge:       Gauge{Score: total, Gap: gap, Color: status.Hex(), Track: gapColor},
	}
	for i, s := range skills {
		c.SkillWise[i] = Point{Label: s.Name, Value: s.Score()}
		c.Consistency[i] = Point{Label: "S" + strconv.Itoa(i+1), Value: s.Score()}
	}
	return c
}

// Filename derives the export filename for a student. Every character that
// is not an ASCII letter or digit becomes an underscore.
func Filename(studentName string) string {
	safe := unsafeFilenameChars.ReplaceAllString(studentName, "_")
	if safe == "" {
		safe = filenameFallback
	}
	return filenamePrefix + safe + ".pdf"
}

func skillScores(evals []model.SkillEvaluation) []SkillScore {
	out := make([]SkillScore, len(evals))
	for i, e := range evals {
		out[i] = SkillScore{SkillEvaluation: e, Score: e.Score()}
	}
	return out
}

func pointsFor(skills []model.SkillEvaluation, names []string) []Point {
	out := make([]Point, len(names))
	for i, name := range names {
		out[i] = Point{Label: name, Value: scoring.ScoreOf(skills, name)}
	}
	return out
}
