// Package importer loads legacy club records from CSV exports. Rows are
// processed independently: a bad row is recorded and the stream continues.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
)

// Action describes what the importer did with one row.
type Action string

const (
	ActionCreated   Action = "created"
	ActionDuplicate Action = "duplicate"
	ActionSkipped   Action = "skipped"
	ActionFailed    Action = "failed"
)

// RowOutcome is the result of one CSV row. Row is 1-based and counts the
// header.
type RowOutcome struct {
	Row    int
	Action Action
	Err    error
}

// Summary aggregates the outcomes of one import run.
type Summary struct {
	Created    int
	Duplicates int
	Skipped    int
	Failed     int
	Outcomes   []RowOutcome
}

func (s *Summary) record(outcome RowOutcome) {
	switch outcome.Action {
	case ActionCreated:
		s.Created++
	case ActionDuplicate:
		s.Duplicates++
	case ActionSkipped:
		s.Skipped++
	case ActionFailed:
		s.Failed++
	}
	s.Outcomes = append(s.Outcomes, outcome)
}

// Errors returns the outcomes that carry an error.
func (s *Summary) Errors() []RowOutcome {
	var failed []RowOutcome
	for _, outcome := range s.Outcomes {
		if outcome.Err != nil {
			failed = append(failed, outcome)
		}
	}
	return failed
}

// row is one CSV record with header-based field access.
type row struct {
	number int
	fields map[string]string
}

func (r row) get(column string) string {
	return strings.TrimSpace(r.fields[column])
}

func (r row) date(column string) (*time.Time, error) {
	raw := r.get(column)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", "01/02/2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			utc := t.UTC()
			return &utc, nil
		}
	}
	return nil, fmt.Errorf("column %q: unparseable date %q", column, raw)
}

// forEachRow streams CSV records to fn, mapping fields by the header row.
// Read errors on individual records are surfaced as failed outcomes; a
// missing or empty header aborts the run.
func forEachRow(reader io.Reader, summary *Summary, fn func(row) RowOutcome) error {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(name))
	}

	for number := 2; ; number++ {
		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			summary.record(RowOutcome{Row: number, Action: ActionFailed, Err: err})
			continue
		}

		fields := make(map[string]string, len(columns))
		for i, value := range record {
			if i < len(columns) {
				fields[columns[i]] = value
			}
		}
		summary.record(fn(row{number: number, fields: fields}))
	}
}

func failed(number int, err error) RowOutcome {
	return RowOutcome{Row: number, Action: ActionFailed, Err: err}
}

func skipped(number int, err error) RowOutcome {
	return RowOutcome{Row: number, Action: ActionSkipped, Err: err}
}
