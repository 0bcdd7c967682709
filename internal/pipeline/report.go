package pipeline

import (
	"sort"

	"github.com/goydb/goyreport/pkg/model"
)

type OrderPolicy int

const (
	// ByBucketOrder keeps the order of the bucket definition.
	ByBucketOrder OrderPolicy = iota
	// ByCountDesc orders by count, ties keep the order in which
	// the buckets were first seen.
	ByCountDesc
)

func (p OrderPolicy) String() string {
	switch p {
	case ByBucketOrder:
		return "bucket"
	case ByCountDesc:
		return "count"
	default:
		return "unknown"
	}
}

func BuildReport(name string, result model.AggregationResult, policy OrderPolicy) *model.Report {
	rows := make([]model.ReportRow, len(result.Order))
	for i, label := range result.Order {
		rows[i] = model.ReportRow{Label: label, Count: result.Counts[label]}
	}

	if policy == ByCountDesc {
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Count > rows[j].Count
		})
	}

	return &model.Report{
		Name:    name,
		Rows:    rows,
		Total:   result.Total,
		Skipped: result.Skipped,
	}
}
