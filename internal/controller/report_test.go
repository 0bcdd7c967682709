package controller

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goydb/goyreport/internal/adapter/cache"
	"github.com/goydb/goyreport/internal/adapter/sink"
	"github.com/goydb/goyreport/internal/adapter/storage"
	"github.com/goydb/goyreport/internal/pipeline"
	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func definitions() []pipeline.Definition {
	return pipeline.Definitions("crimes", "Date", "Primary Type", time.UTC)
}

type failingSink struct {
	err   error
	calls atomic.Int32
}

func (s *failingSink) Name() string {
	return "failing"
}

func (s *failingSink) Emit(ctx context.Context, report *model.Report, output string) error {
	s.calls.Add(1)
	return s.err
}

func TestReportsRunAll(t *testing.T) {
	WithTestDatabase(t, func(ctx context.Context, db *storage.Database) {
		insertCrimes(t, ctx, db, testCrimes)

		var buf bytes.Buffer
		c := Reports{
			DB:           db,
			Definitions:  definitions(),
			OutputPrefix: "crime",
			Sinks:        []port.ReportSink{sink.NewCollection(db), sink.NewLines(&buf)},
			Retry:        testRetry,
			Logger:       zaptest.NewLogger(t),
		}

		outcomes, err := c.RunAll(ctx)
		require.NoError(t, err)
		require.Len(t, outcomes, 3)

		days := outcomes[0]
		assert.Equal(t, "crime_day_frequencies", days.Output)
		assert.EqualValues(t, 2, days.Report.Count("Sunday"))
		assert.EqualValues(t, 1, days.Report.Count("Monday"))
		assert.Empty(t, days.Errors)

		times := outcomes[1]
		assert.EqualValues(t, 3, times.Report.Count("12:01PM - 3:00PM"))

		types := outcomes[2]
		assert.Equal(t, model.BucketKey("THEFT"), types.Report.Rows[0].Label)

		doc, err := db.FindOne(ctx, "crime_type_frequencies", "THEFT")
		require.NoError(t, err)
		assert.EqualValues(t, 2, doc.Field("value"))

		stats, err := db.Stats(ctx, "crime_day_frequencies")
		require.NoError(t, err)
		assert.EqualValues(t, 7, stats.Documents)

		assert.Contains(t, buf.String(), "Sunday: 2\n")
	})
}

func TestReportsRunAllLinesBlocks(t *testing.T) {
	WithTestDatabase(t, func(ctx context.Context, db *storage.Database) {
		insertCrimes(t, ctx, db, testCrimes)

		for i := 0; i < 20; i++ {
			var buf bytes.Buffer
			c := Reports{
				DB:          db,
				Definitions: definitions(),
				Sinks:       []port.ReportSink{sink.NewLines(&buf)},
			}

			outcomes, err := c.RunAll(ctx)
			require.NoError(t, err)
			require.Len(t, outcomes, 3)

			var size int
			for _, o := range outcomes {
				var block bytes.Buffer
				require.NoError(t, sink.NewLines(&block).Emit(ctx, o.Report, o.Output))
				assert.True(t, strings.Contains(buf.String(), block.String()), "block of %s is not contiguous", o.Report.Name)
				size += block.Len()
			}
			assert.Equal(t, size, buf.Len())
		}
	})
}

func TestReportsTypeEmptyGroup(t *testing.T) {
	WithTestDatabase(t, func(ctx context.Context, db *storage.Database) {
		insertCrimes(t, ctx, db, map[string][2]string{
			"1": {"2020-01-05T12:00:00Z", ""},
			"2": {"2020-01-06T12:00:00Z", "THEFT"},
			"3": {"2020-01-07T12:00:00Z", ""},
		})
		c := Reports{
			DB:          db,
			Definitions: definitions(),
			Sinks:       []port.ReportSink{sink.NewCollection(db)},
		}

		outcomes, err := c.RunAll(ctx, pipeline.TypeReportName)
		require.NoError(t, err)
		report := outcomes[0].Report
		assert.EqualValues(t, 2, report.Count(""))
		assert.Equal(t, 3, report.Total)
		assert.Equal(t, 0, report.Skipped)

		doc, err := db.FindOne(ctx, "type_frequencies", model.EmptyLabelID)
		require.NoError(t, err)
		assert.Equal(t, "", doc.Field("label"))
		assert.EqualValues(t, 2, doc.Field("value"))
	})
}

func TestReportsRunNamed(t *testing.T) {
	WithTestDatabase(t, func(ctx context.Context, db *storage.Database) {
		insertCrimes(t, ctx, db, testCrimes)
		c := Reports{DB: db, Definitions: definitions()}

		outcomes, err := c.RunAll(ctx, pipeline.TypeReportName)
		require.NoError(t, err)
		require.Len(t, outcomes, 1)
		assert.Equal(t, pipeline.TypeReportName, outcomes[0].Report.Name)

		_, err = c.RunAll(ctx, "weather")
		assert.ErrorIs(t, err, ErrUnknownReport)
	})
}

func TestReportsCache(t *testing.T) {
	WithTestDatabase(t, func(ctx context.Context, db *storage.Database) {
		insertCrimes(t, ctx, db, testCrimes)

		rc, err := cache.NewReports(1000)
		require.NoError(t, err)
		defer rc.Close()

		c := Reports{DB: db, Definitions: definitions(), Cache: rc}
		def := definitions()[0]

		first, err := c.Run(ctx, def)
		require.NoError(t, err)
		assert.False(t, first.Cached)

		second, err := c.Run(ctx, def)
		require.NoError(t, err)
		assert.True(t, second.Cached)
		assert.Equal(t, first.Report.RunID, second.Report.RunID)

		_, err = db.Insert(ctx, "crimes", &model.Document{Data: map[string]interface{}{"Date": "2020-01-07T12:00:00Z"}})
		require.NoError(t, err)

		third, err := c.Run(ctx, def)
		require.NoError(t, err)
		assert.False(t, third.Cached)
		assert.EqualValues(t, 1, third.Report.Count("Tuesday"))
	})
}

func TestReportsWriteFailure(t *testing.T) {
	WithTestDatabase(t, func(ctx context.Context, db *storage.Database) {
		insertCrimes(t, ctx, db, testCrimes)

		failing := &failingSink{err: errors.New("disk full")}
		c := Reports{
			DB:          db,
			Definitions: definitions(),
			Sinks:       []port.ReportSink{failing, sink.NewCollection(db)},
			Retry:       testRetry,
		}

		outcomes, err := c.RunAll(ctx, pipeline.DayOfWeekReportName)
		require.NoError(t, err)
		require.Len(t, outcomes[0].Errors, 1)
		assert.EqualValues(t, 1, failing.calls.Load(), "permanent errors are not retried")

		var werr *model.WriteError
		require.ErrorAs(t, outcomes[0].Errors[0], &werr)
		assert.Equal(t, "day_frequencies", werr.Collection)

		// the other sinks still ran
		_, err = db.FindOne(ctx, "day_frequencies", "Sunday")
		assert.NoError(t, err)
	})
}

func TestReportsTransientRetry(t *testing.T) {
	WithTestDatabase(t, func(ctx context.Context, db *storage.Database) {
		insertCrimes(t, ctx, db, testCrimes)

		failing := &failingSink{err: port.ErrTransient}
		c := Reports{
			DB:          db,
			Definitions: definitions(),
			Sinks:       []port.ReportSink{failing},
			Retry:       testRetry,
		}

		outcomes, err := c.RunAll(ctx, pipeline.DayOfWeekReportName)
		require.NoError(t, err)
		assert.Len(t, outcomes[0].Errors, 1)
		assert.EqualValues(t, 3, failing.calls.Load())
	})
}

func TestReportsConnectionFailure(t *testing.T) {
	WithTestDatabase(t, func(ctx context.Context, db *storage.Database) {
		insertCrimes(t, ctx, db, testCrimes)

		c := Reports{
			DB:          db,
			Definitions: definitions(),
			Sinks:       []port.ReportSink{&failingSink{err: port.ErrConnection}},
		}

		_, err := c.RunAll(ctx)
		assert.ErrorIs(t, err, port.ErrConnection)
	})
}

func TestRetry(t *testing.T) {
	var calls int
	err := testRetry.Do(context.Background(), func() error {
		calls++
		if calls < 2 {
			return port.ErrTransient
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	err = testRetry.Do(context.Background(), func() error {
		calls++
		return port.ErrNotFound
	})
	assert.ErrorIs(t, err, port.ErrNotFound)
	assert.Equal(t, 1, calls)
}
