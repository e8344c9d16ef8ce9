// Package service hosts a single report-building session and implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"sync"
	"time"

	"github.com/okian/archer/internal/domain/grade"
	"github.com/okian/archer/internal/domain/model"
	"github.com/okian/archer/internal/domain/roster"
	"github.com/okian/archer/internal/domain/scoring"
	"github.com/okian/archer/internal/domain/signature"
	"github.com/okian/archer/internal/domain/verdict"
	"github.com/okian/archer/internal/report"
	"github.com/okian/archer/pkg/logger"
	"github.com/okian/archer/pkg/metrics"
)

const (
	defaultMaxReviewChars   = 3000
	defaultImprovementAreas = 3
)

// Service owns one session: the roster, the skill sheet, the student
// selection and the coach review. It is safe for concurrent use.
type Service struct {
	mu sync.RWMutex

	roster    *roster.Roster
	sheet     *scoring.Sheet
	student   model.Student
	review    string
	signature signature.Signature
	builder   *report.Builder

	// Configuration
	rosterSource     string
	aliases          map[string]string
	classifier       *verdict.Classifier
	defaultGrade     grade.Grade
	maxReviewChars   int
	improvementAreas int
	now              func() time.Time

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRosterSource sets the CSV file the roster is loaded from on Start.
// Empty keeps the embedded academy roster.
func WithRosterSource(path string) Option {
	return func(s *Service) {
		s.rosterSource = path
	}
}

// WithClassifier sets the verdict classifier.
func WithClassifier(c *verdict.Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithAliases replaces the coach name corrections applied to the roster.
func WithAliases(aliases map[string]string) Option {
	return func(s *Service) {
		if aliases != nil {
			s.aliases = maps.Clone(aliases)
		}
	}
}

// WithDefaultGrade sets the grade every skill starts with.
func WithDefaultGrade(g grade.Grade) Option {
	return func(s *Service) {
		if g.Valid() {
			s.defaultGrade = g
		}
	}
}

// WithMaxReviewChars caps the review length in characters.
func WithMaxReviewChars(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxReviewChars = n
		}
	}
}

// WithImprovementAreas sets how many weak skills an ALMOST report lists.
func WithImprovementAreas(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.improvementAreas = n
		}
	}
}

// WithClock sets the time source used for report dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service with default configuration. The session is
// usable immediately with an empty roster; Start loads the real one.
func New(opts ...Option) *Service {
	s := &Service{
		aliases:          roster.DefaultAliases(),
		classifier:       verdict.NewClassifier(),
		defaultGrade:     grade.C,
		maxReviewChars:   defaultMaxReviewChars,
		improvementAreas: defaultImprovementAreas,
		now:              time.Now,
		logger:           logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.roster = roster.New(roster.WithAliases(s.aliases))
	s.sheet = scoring.NewSheet(scoring.WithDefaultGrade(s.defaultGrade))
	s.builder = report.NewBuilder(
		report.WithClassifier(s.classifier),
		report.WithClock(s.now),
		report.WithImprovementAreas(s.improvementAreas),
	)
	return s
}

// Start loads the roster and resets the skill sheet.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting report service...")

	r, err := s.loadRoster(ctx)
	if err != nil {
		return err
	}
	s.roster = r
	s.sheet = scoring.NewSheet(scoring.WithDefaultGrade(s.defaultGrade))
	s.student = model.Student{}
	s.review = ""
	s.signature = signature.Signature{}

	metrics.UpdateRosterSize(r.Len(), r.BatchCount())
	metrics.UpdateSessionTotal(s.sheet.Total())

	s.started = true
	s.logger.Info(ctx, "report service started",
		logger.Int("coaches", r.Len()),
		logger.Int("batches", r.BatchCount()),
		logger.Int("skills", s.sheet.Len()),
		logger.String("defaultGrade", s.defaultGrade.String()),
	)
	return nil
}

func (s *Service) loadRoster(ctx context.Context) (*roster.Roster, error) {
	opts := []roster.Option{
		roster.WithAliases(s.aliases),
		roster.WithSkipHook(func(line int, reason string) {
			metrics.RecordRosterRowSkipped(reason)
			s.logger.Warn(ctx, "roster row skipped",
				logger.Int("line", line),
				logger.String("reason", reason),
			)
		}),
	}

	if s.rosterSource == "" {
		s.logger.Info(ctx, "using embedded roster")
		return roster.Default(opts...), nil
	}

	f, err := os.Open(s.rosterSource)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadRoster, err)
	}
	defer func() { _ = f.Close() }()

	r, err := roster.Load(f, opts...)
	if err != nil {
		// Rows read before the failure are kept.
		metrics.RecordErrorByComponent("roster", "read_source")
		s.logger.Error(ctx, "roster source truncated",
			logger.String("path", s.rosterSource),
			logger.Error(err),
		)
	}
	s.logger.Info(ctx, "roster loaded", logger.String("path", s.rosterSource))
	return r, nil
}

// Stop ends the session.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "report service stopped")
}

// Roster returns every coach with their batches.
func (s *Service) Roster(_ context.Context) []model.Coach {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roster.Coaches()
}

// AddCoach adds an empty coach to the roster.
func (s *Service) AddCoach(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.roster.AddCoach(name); err != nil {
		if errors.Is(err, roster.ErrDuplicateCoach) {
			metrics.RecordDuplicateCoach()
		}
		s.logger.Debug(ctx, "coach rejected", logger.String("coach", name), logger.Error(err))
		return err
	}
	metrics.UpdateRosterSize(s.roster.Len(), s.roster.BatchCount())
	s.logger.Info(ctx, "coach added", logger.String("coach", name), logger.Int("coaches", s.roster.Len()))
	return nil
}

// AddBatch appends a batch to an existing coach. It reports whether the
// coach was found; an unknown coach leaves the roster untouched.
func (s *Service) AddBatch(ctx context.Context, coach string, b model.Batch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.roster.AddBatch(coach, b) {
		metrics.RecordUnknownCoachBatch()
		s.logger.Debug(ctx, "batch ignored for unknown coach", logger.String("coach", coach))
		return false
	}
	metrics.UpdateRosterSize(s.roster.Len(), s.roster.BatchCount())
	s.logger.Info(ctx, "batch added",
		logger.String("coach", coach),
		logger.String("batch", b.Name),
		logger.String("level", b.Level),
	)
	return true
}

// Skills returns the current skill evaluations in display order.
func (s *Service) Skills(_ context.Context) []model.SkillEvaluation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sheet.Evaluations()
}

// SetGrade assigns a grade to the skill with the given id.
func (s *Service) SetGrade(ctx context.Context, skillID string, g grade.Grade) (model.SkillEvaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sheet.SetGrade(skillID, g); err != nil {
		return model.SkillEvaluation{}, err
	}
	e, _ := s.sheet.Evaluation(skillID)
	total := s.sheet.Total()

	metrics.RecordGradeChange(g.String())
	metrics.UpdateSessionTotal(total)
	s.logger.Debug(ctx, "grade set",
		logger.String("skill", skillID),
		logger.String("grade", g.String()),
		logger.Int("total", total),
	)
	return e, nil
}

// Student returns the current student selection.
func (s *Service) Student(_ context.Context) model.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.student
}

// SetStudentName sets the student's name.
func (s *Service) SetStudentName(_ context.Context, name string) model.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.student.Name = name
	return s.student
}

// SelectCoach selects a coach and clears the batch and level.
func (s *Service) SelectCoach(_ context.Context, coach string) model.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.student.Coach = coach
	s.student.Batch = ""
	s.student.Level = ""
	return s.student
}

// SelectBatch selects a batch of the selected coach and derives the level
// from it. The level is empty when the coach has no such batch.
func (s *Service) SelectBatch(ctx context.Context, batch string) model.Student {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.student.Batch = batch
	s.student.Level = ""
	if b, ok := s.roster.Batch(s.student.Coach, batch); ok {
		s.student.Level = b.Level
	} else if batch != "" {
		s.logger.Debug(ctx, "batch not found for coach",
			logger.String("coach", s.student.Coach),
			logger.String("batch", batch),
		)
	}
	return s.student
}

// SetReview stores the coach review, cut to the configured length.
func (s *Service) SetReview(_ context.Context, text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if runes := []rune(text); len(runes) > s.maxReviewChars {
		text = string(runes[:s.maxReviewChars])
	}
	s.review = text
	return s.review
}

// Review returns the stored review.
func (s *Service) Review(_ context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.review
}

// SetSignature stores the coach signature given as an image data URL and
// returns it re-encoded. An invalid image leaves the stored one untouched.
func (s *Service) SetSignature(ctx context.Context, dataURL string) (string, error) {
	sig, err := signature.Parse(dataURL)
	if err != nil {
		metrics.RecordSignatureChange("rejected")
		s.logger.Debug(ctx, "signature rejected", logger.Error(err))
		return "", err
	}

	s.mu.Lock()
	s.signature = sig
	s.mu.Unlock()

	metrics.RecordSignatureChange("set")
	s.logger.Info(ctx, "signature set",
		logger.String("mediaType", sig.MediaType),
		logger.Int("bytes", len(sig.Data)),
	)
	return sig.DataURL(), nil
}

// ClearSignature removes the coach signature.
func (s *Service) ClearSignature(ctx context.Context) {
	s.mu.Lock()
	s.signature = signature.Signature{}
	s.mu.Unlock()

	metrics.RecordSignatureChange("clear")
	s.logger.Info(ctx, "signature cleared")
}

// Signature returns the stored signature as a data URL, or "" when none.
func (s *Service) Signature(_ context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.signature.DataURL()
}

// Total returns the current total score.
func (s *Service) Total(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sheet.Total()
}

// Verdict classifies the current total.
func (s *Service) Verdict(_ context.Context) verdict.Verdict {
	s.mu.RLock()
	total := s.sheet.Total()
	s.mu.RUnlock()

	v := s.classifier.Classify(total)
	metrics.RecordVerdict(string(v.Status))
	return v
}

// Classify classifies an arbitrary score with the session thresholds.
func (s *Service) Classify(score int) verdict.Verdict {
	return s.classifier.Classify(score)
}

// Report builds the report snapshot for the current session.
func (s *Service) Report(ctx context.Context) report.Report {
	start := time.Now()

	s.mu.RLock()
	in := report.Input{
		Student:   s.student,
		Skills:    s.sheet.Evaluations(),
		Review:    s.review,
		Signature: s.signature.DataURL(),
	}
	s.mu.RUnlock()

	r := s.builder.Build(in)

	metrics.RecordReportGenerated(float64(time.Since(start).Microseconds()) / 1000)
	metrics.RecordVerdict(string(r.Verdict.Status))
	s.logger.Info(ctx, "report built",
		logger.String("id", r.ID),
		logger.String("student", r.Student.Name),
		logger.Int("total", r.Total),
		logger.String("status", string(r.Verdict.Status)),
	)
	return r
}

// GetStats returns session statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ready, almost := s.classifier.Thresholds()
	source := s.rosterSource
	if source == "" {
		source = "embedded"
	}
	return map[string]interface{}{
		"started":         s.started,
		"rosterSource":    source,
		"coaches":         s.roster.Len(),
		"batches":         s.roster.BatchCount(),
		"skills":          s.sheet.Len(),
		"total":           s.sheet.Total(),
		"max":             s.sheet.Max(),
		"readyThreshold":  ready,
		"almostThreshold": almost,
		"reviewLength":    len([]rune(s.review)),
		"maxReviewChars":  s.maxReviewChars,
		"hasSignature":    !s.signature.IsZero(),
	}
}
