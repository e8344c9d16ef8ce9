// Package roster loads and maintains the ordered coach/batch roster.
//
// A Roster is owned by a single caller and is not safe for concurrent use;
// the owner serialises access.
package roster

import (
	_ "embed"
	"maps"
	"slices"
	"strings"

	"github.com/okian/archer/internal/domain/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

//go:embed academy.csv
var academySource string

// defaultAliases corrects known misspellings of coach names in the source
// data. Keys are matched exactly against the trimmed raw name.
var defaultAliases = map[string]string{
	"Aayush":    "Ayush Bharadwaj",
	"Chandresh": "Chandreesh",
	"Ambarish":  "Ambarnish",
}

// DefaultAliases returns a copy of the built-in coach name corrections.
func DefaultAliases() map[string]string {
	return maps.Clone(defaultAliases)
}

// SkipHook is notified for every data row dropped during loading. line is
// the 1-based line in the source where the row starts.
type SkipHook func(line int, reason string)

// Option applies a configuration option to the Roster.
type Option func(*Roster)

// WithAliases replaces the coach name normalisation table.
func WithAliases(aliases map[string]string) Option {
	return func(r *Roster) {
		if aliases == nil {
			return
		}
		r.aliases = make(map[string]string, len(aliases))
		for from, to := range aliases {
			if strings.TrimSpace(to) != "" {
				r.aliases[from] = strings.TrimSpace(to)
			}
		}
	}
}

// WithSkipHook registers a callback for rows dropped while loading.
func WithSkipHook(hook SkipHook) Option {
	return func(r *Roster) {
		if hook != nil {
			r.onSkip = hook
		}
	}
}

// Roster is the ordered set of coaches. The coach list is always sorted by
// name and names are unique ignoring case.
type Roster struct {
	coaches []model.Coach
	aliases map[string]string
	onSkip  SkipHook
	coll    *collate.Collator
}

// New returns an empty roster.
func New(opts ...Option) *Roster {
	r := &Roster{
		aliases: DefaultAliases(),
		onSkip:  func(int, string) {},
		coll:    collate.New(language.English),
	}

	// Apply all options
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Default parses the embedded academy roster.
func Default(opts ...Option) *Roster {
	return Parse(academySource, opts...)
}

// Normalize trims a raw coach name and applies the alias table.
func (r *Roster) Normalize(raw string) string {
	name := strings.TrimSpace(raw)
	if to, ok := r.aliases[name]; ok {
		return to
	}
	return name
}

// Len returns the number of coaches.
func (r *Roster) Len() int { return len(r.coaches) }

// BatchCount returns the number of batches across all coaches.
func (r *Roster) BatchCount() int {
	n := 0
	for _, c := range r.coaches {
		n += len(c.Batches)
	}
	return n
}

// Coaches returns a deep copy of the roster in order.
func (r *Roster) Coaches() []model.Coach {
	out := make([]model.Coach, len(r.coaches))
	for i, c := range r.coaches {
		out[i] = c.Clone()
	}
	return out
}

// Names returns the coach names in roster order.
func (r *Roster) Names() []string {
	out := make([]string, len(r.coaches))
	for i, c := range r.coaches {
		out[i] = c.Name
	}
	return out
}

// Coach returns the coach whose name matches exactly.
func (r *Roster) Coach(name string) (model.Coach, bool) {
	i := r.indexOf(name)
	if i < 0 {
		return model.Coach{}, false
	}
	return r.coaches[i].Clone(), true
}

// Batch returns the first batch called batchName owned by coachName. A batch
// that exists only under another coach is reported as not found.
func (r *Roster) Batch(coachName, batchName string) (model.Batch, bool) {
	i := r.indexOf(coachName)
	if i < 0 {
		return model.Batch{}, false
	}
	for _, b := range r.coaches[i].Batches {
		if b.Name == batchName {
			return b, true
		}
	}
	return model.Batch{}, false
}

// AddCoach inserts a coach with no batches. A name equal to an existing coach
// ignoring case is rejected with ErrDuplicateCoach and the roster is left
// unchanged.
func (r *Roster) AddCoach(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidCoachName
	}
	if r.indexFold(name) >= 0 {
		return &DuplicateCoachError{Name: name}
	}
	r.coaches = append(r.coaches, model.Coach{Name: name, Batches: []model.Batch{}})
	r.sortCoaches()
	return nil
}

// AddBatch appends b to the coach named exactly coachName. Unknown coaches
// are ignored and false is returned. Batch names are not required to be
// unique and the batch list is not re-sorted.
func (r *Roster) AddBatch(coachName string, b model.Batch) bool {
	i := r.indexOf(coachName)
	if i < 0 {
		return false
	}
	r.coaches[i].Batches = append(r.coaches[i].Batches, b)
	return true
}

func (r *Roster) indexOf(name string) int {
	return slices.IndexFunc(r.coaches, func(c model.Coach) bool { return c.Name == name })
}

func (r *Roster) indexFold(name string) int {
	return slices.IndexFunc(r.coaches, func(c model.Coach) bool { return strings.EqualFold(c.Name, name) })
}

func (r *Roster) sortCoaches() {
	slices.SortStableFunc(r.coaches, func(a, b model.Coach) int {
		return r.coll.CompareString(a.Name, b.Name)
	})
}

func (r *Roster) sortBatches(batches []model.Batch) {
	slices.SortStableFunc(batches, func(a, b model.Batch) int {
		return r.coll.CompareString(a.Name, b.Name)
	})
}
