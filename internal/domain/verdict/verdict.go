// Package verdict maps a composite score to a readiness tier.
package verdict

// Default thresholds. Both are inclusive lower bounds.
const (
	DefaultReadyThreshold  = 750
	DefaultAlmostThreshold = 600
)

// Status is a readiness tier.
type Status string

// Readiness tiers from highest to lowest.
const (
	StatusReady    Status = "READY"
	StatusAlmost   Status = "ALMOST"
	StatusNotReady Status = "NOT_READY"
)

// Verdict is the classification of a score. It is derived, never stored.
type Verdict struct {
	Score      int    `json:"score"`
	Status     Status `json:"status"`
	Label      string `json:"label"`
	ColorClass string `json:"color_class"`
	Icon       string `json:"icon"`
}

type tier struct {
	label      string
	colorClass string
	icon       string
	hex        string
}

var tiers = map[Status]tier{
	StatusReady: {
		label:      "Tournament Ready",
		colorClass: "text-green-600 border-green-600 bg-green-50",
		icon:       "🟢",
		hex:        "#16a34a",
	},
	StatusAlmost: {
		label:      "Almost Ready",
		colorClass: "text-yellow-600 border-yellow-600 bg-yellow-50",
		icon:       "🟡",
		hex:        "#ca8a04",
	},
	StatusNotReady: {
		label:      "Not Ready",
		colorClass: "text-red-600 border-red-600 bg-red-50",
		icon:       "🔴",
		hex:        "#dc2626",
	},
}

// Statuses returns every tier from highest to lowest.
func Statuses() []Status {
	return []Status{StatusReady, StatusAlmost, StatusNotReady}
}

// Label returns the display label of s.
func (s Status) Label() string { return tiers[s].label }

// Hex returns the gauge colour used for s.
func (s Status) Hex() string { return tiers[s].hex }

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithThresholds sets the ready and almost lower bounds. The pair is ignored
// unless ready is strictly greater than almost.
func WithThresholds(ready, almost int) Option {
	return func(c *Classifier) {
		if ready > almost {
			c.ready = ready
			c.almost = almost
		}
	}
}

// Classifier partitions the integer line into three contiguous tiers.
type Classifier struct {
	ready  int
	almost int
}

// NewClassifier creates a classifier with the default thresholds.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		ready:  DefaultReadyThreshold,
		almost: DefaultAlmostThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Thresholds returns the ready and almost lower bounds.
func (c *Classifier) Thresholds() (ready, almost int) {
	return c.ready, c.almost
}

// Status returns the tier for score. Boundary values belong to the higher tier.
func (c *Classifier) Status(score int) Status {
	switch {
	case score >= c.ready:
		return StatusReady
	case score >= c.almost:
		return StatusAlmost
	default:
		return StatusNotReady
	}
}

// Classify returns the verdict for score. Any integer is accepted.
func (c *Classifier) Classify(score int) Verdict {
	status := c.Status(score)
	t := tiers[status]
	return Verdict{
		Score:      score,
		Status:     status,
		Label:      t.label,
		ColorClass: t.colorClass,
		Icon:       t.icon,
	}
}

var defaultClassifier = NewClassifier()

// Classify classifies score with the default thresholds.
func Classify(score int) Verdict {
	return defaultClassifier.Classify(score)
}
