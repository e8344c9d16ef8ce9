package roster

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/okian/archer/internal/domain/model"
)

// Minimum fields in a data row: serial, coach, batch, level.
const minFields = 4

// Line buffer bounds for the scanner.
const (
	initialLineBuf = 4 << 10
	maxLineBytes   = 1 << 20
)

// Column positions in a data row. The serial number is ignored.
const (
	colCoach = 1
	colBatch = 2
	colLevel = 3
)

// Reasons passed to SkipHook.
const (
	ReasonTooFewFields = "too few fields"
	ReasonUnparseable  = "unparseable row"
	ReasonEmptyCoach   = "empty coach name"
)

// Parse builds a roster from CSV text. The first record is a header. Rows
// that cannot be used are skipped; Parse always returns a roster.
func Parse(source string, opts ...Option) *Roster {
	r, _ := Load(strings.NewReader(source), opts...)
	return r
}

// Load builds a roster from CSV read from src. The first line is a header.
// Every line is parsed on its own, so a malformed row (including a stray
// quote) is skipped without affecting its neighbours. An error is returned
// only when src itself fails; the rows read up to that point are still
// returned.
func Load(src io.Reader, opts ...Option) (*Roster, error) {
	r := New(opts...)

	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, initialLineBuf), maxLineBytes)

	groups := make(map[string]int) // lower-cased name -> index in r.coaches
	line := 0
	for sc.Scan() {
		line++
		if line == 1 {
			continue
		}
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		rec, err := parseLine(text)
		if err != nil {
			r.onSkip(line, ReasonUnparseable)
			continue
		}
		if isBlank(rec) {
			continue
		}
		if len(rec) < minFields {
			r.onSkip(line, ReasonTooFewFields)
			continue
		}

		name := r.Normalize(rec[colCoach])
		if name == "" {
			r.onSkip(line, ReasonEmptyCoach)
			continue
		}
		batch := model.Batch{
			Name:  strings.TrimSpace(rec[colBatch]),
			Level: strings.TrimSpace(rec[colLevel]),
		}

		key := strings.ToLower(name)
		i, ok := groups[key]
		if !ok {
			i = len(r.coaches)
			groups[key] = i
			r.coaches = append(r.coaches, model.Coach{Name: name})
		}
		r.coaches[i].Batches = append(r.coaches[i].Batches, batch)
	}

	var readErr error
	if err := sc.Err(); err != nil {
		readErr = fmt.Errorf("%w: %w", ErrReadSource, err)
	}

	for i := range r.coaches {
		r.sortBatches(r.coaches[i].Batches)
	}
	r.sortCoaches()
	return r, readErr
}

// parseLine splits one physical line into fields. An unterminated quote
// ends at the end of the line.
func parseLine(text string) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	return cr.Read()
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
