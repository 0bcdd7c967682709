package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"
)

const (
	DayOfWeekReportName = "day_of_week"
	TimeOfDayReportName = "time_of_day"
	TypeReportName      = "type"
)

// ReportNames lists the built-in reports in run order.
var ReportNames = []string{DayOfWeekReportName, TimeOfDayReportName, TypeReportName}

// Definition describes one report: where the records come from,
// how they are read and bucketed, and how the rows are ordered.
type Definition struct {
	Name       string
	Collection string
	// Filter restricts the records, nil reads all
	Filter    model.Selector
	Extractor Extractor
	Assigner  Assigner
	Policy    OrderPolicy
	// Output is the suffix of the output collection
	Output string
}

func DayOfWeekReport(collection, timestampField string, loc *time.Location) Definition {
	return Definition{
		Name:       DayOfWeekReportName,
		Collection: collection,
		Extractor:  Extractor{TimestampField: timestampField, Location: loc},
		Assigner:   DayOfWeek{},
		Policy:     ByBucketOrder,
		Output:     "day_frequencies",
	}
}

func TimeOfDayReport(collection, timestampField string, loc *time.Location) Definition {
	return Definition{
		Name:       TimeOfDayReportName,
		Collection: collection,
		Extractor:  Extractor{TimestampField: timestampField, Location: loc},
		Assigner:   TimeOfDay{},
		Policy:     ByBucketOrder,
		Output:     "time_frequencies",
	}
}

func TypeReport(collection, groupByField string) Definition {
	return Definition{
		Name:       TypeReportName,
		Collection: collection,
		Extractor:  Extractor{GroupByField: groupByField},
		Assigner:   GroupBy{Field: groupByField},
		Policy:     ByCountDesc,
		Output:     "type_frequencies",
	}
}

// Definitions returns the built-in reports over collection in the
// order of ReportNames.
func Definitions(collection, timestampField, groupByField string, loc *time.Location) []Definition {
	return []Definition{
		DayOfWeekReport(collection, timestampField, loc),
		TimeOfDayReport(collection, timestampField, loc),
		TypeReport(collection, groupByField),
	}
}

// OutputCollection returns the collection the report is written
// to for the given prefix.
func (d Definition) OutputCollection(prefix string) string {
	if prefix == "" {
		return d.Output
	}
	return prefix + "_" + d.Output
}

// Runner executes report definitions against a record source.
type Runner struct {
	Source port.RecordSource
	Logger *zap.Logger
}

// Run reads all records of the definition once and returns the
// finished report. Records that can't be parsed or assigned are
// skipped and counted. Read failures abort the run.
func (r Runner) Run(ctx context.Context, def Definition) (*model.Report, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("report", def.Name), zap.String("collection", def.Collection))

	cursor, err := r.Source.OpenCursor(ctx, def.Collection, def.Filter)
	if err != nil {
		return nil, fmt.Errorf("report %q: open cursor: %w", def.Name, err)
	}
	defer cursor.Close()

	agg := NewAggregator(def.Assigner.Labels())
	for {
		doc, err := cursor.Next(ctx)
		if err != nil {
			return nil, fmt.Errorf("report %q: %w", def.Name, err)
		}
		if doc == nil {
			break
		}

		key, err := r.assign(def, doc)
		if err != nil {
			var perr *model.ParseError
			if !errors.As(err, &perr) {
				return nil, fmt.Errorf("report %q: %w", def.Name, err)
			}
			logger.Debug("skipping record", zap.Error(err))
			agg.Skip()
			continue
		}
		agg.Add(key)
	}

	report := BuildReport(def.Name, agg.Result(), def.Policy)
	report.Collection = def.Collection
	report.RunID = uuid.NewV4().String()
	report.GeneratedAt = time.Now().UTC()

	if report.Skipped > 0 {
		logger.Warn("records skipped", zap.Int("skipped", report.Skipped), zap.Int("total", report.Total))
	}
	logger.Info("report finished", zap.String("run_id", report.RunID), zap.Int("rows", len(report.Rows)), zap.Int("total", report.Total))

	return report, nil
}

func (r Runner) assign(def Definition, doc *model.Document) (model.BucketKey, error) {
	rec, err := def.Extractor.Extract(doc)
	if err != nil {
		return "", err
	}
	return def.Assigner.Assign(rec)
}
