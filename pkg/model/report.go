package model

import (
	"fmt"
	"strconv"
	"time"
)

// ReportRow is one emitted (label, count) pair. The json form is the
// shape of the documents written to an output collection.
type ReportRow struct {
	Label BucketKey `json:"_id"`
	Count int64     `json:"value"`
}

func (r ReportRow) String() string {
	return string(r.Label) + ": " + strconv.FormatInt(r.Count, 10)
}

// EmptyLabelID is the document id of the row of the empty group,
// the store has no empty keys.
const EmptyLabelID = "_empty"

// Document converts the row into an output collection document.
func (r ReportRow) Document() *Document {
	if r.Label == "" {
		return &Document{
			ID: EmptyLabelID,
			Data: map[string]interface{}{
				"label": "",
				"value": r.Count,
			},
		}
	}
	return &Document{
		ID: string(r.Label),
		Data: map[string]interface{}{
			"value": r.Count,
		},
	}
}

type Report struct {
	Name        string      `json:"name"`
	Collection  string      `json:"collection"`
	Rows        []ReportRow `json:"rows"`
	Total       int         `json:"total"`
	Skipped     int         `json:"skipped"`
	RunID       string      `json:"run_id"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// Count returns the count of the given label, 0 if the label is not
// part of the report.
func (r Report) Count(label BucketKey) int64 {
	for _, row := range r.Rows {
		if row.Label == label {
			return row.Count
		}
	}
	return 0
}

func (r Report) String() string {
	return fmt.Sprintf("<Report name=%q collection=%q rows=%d total=%d skipped=%d>",
		r.Name, r.Collection, len(r.Rows), r.Total, r.Skipped)
}
