package controller

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/goydb/goyreport/internal/adapter/storage"
	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const crimesCSV = `ID,Date,Primary Type
10,01/05/2020 12:00:00 PM,THEFT
11,01/06/2020 01:30:00 AM,BATTERY
12,01/05/2020 11:00:00 PM,THEFT
`

func TestImportCSV(t *testing.T) {
	WithTestDatabase(t, func(ctx context.Context, db *storage.Database) {
		c := Importer{DB: db, Logger: zaptest.NewLogger(t), Retry: testRetry}

		n, err := c.ImportCSV(ctx, "crimes", strings.NewReader(crimesCSV))
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		doc, err := db.FindOne(ctx, "crimes", "11")
		require.NoError(t, err)
		assert.Equal(t, "BATTERY", doc.Field("Primary Type"))
		assert.Equal(t, "01/06/2020 01:30:00 AM", doc.Field("Date"))

		outcomes, err := Reports{DB: db, Definitions: definitions()}.RunAll(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, outcomes[0].Report.Count("Sunday"))
		assert.EqualValues(t, 1, outcomes[1].Report.Count("12:01AM-3AM"))
		assert.Equal(t, 0, outcomes[0].Report.Skipped)
	})
}

func TestImportCSVBatches(t *testing.T) {
	WithTestDatabase(t, func(ctx context.Context, db *storage.Database) {
		var b strings.Builder
		b.WriteString("Date,Primary Type\n")
		for i := 0; i < importBatchSize+10; i++ {
			fmt.Fprintf(&b, "2020-01-0%dT10:00:00Z,THEFT\n", i%7+1)
		}

		n, err := Importer{DB: db}.ImportCSV(ctx, "crimes", strings.NewReader(b.String()))
		require.NoError(t, err)
		assert.Equal(t, importBatchSize+10, n)

		stats, err := db.Stats(ctx, "crimes")
		require.NoError(t, err)
		assert.EqualValues(t, importBatchSize+10, stats.Documents)
	})
}

func TestImportCSVConflict(t *testing.T) {
	WithTestDatabase(t, func(ctx context.Context, db *storage.Database) {
		_, err := db.Insert(ctx, "crimes", &model.Document{ID: "11", Data: map[string]interface{}{}})
		require.NoError(t, err)

		n, err := Importer{DB: db}.ImportCSV(ctx, "crimes", strings.NewReader(crimesCSV))
		assert.Equal(t, 0, n)
		assert.ErrorIs(t, err, port.ErrConflict)

		var werr *model.WriteError
		assert.ErrorAs(t, err, &werr)
	})
}

func TestImportCSVEmpty(t *testing.T) {
	WithTestDatabase(t, func(ctx context.Context, db *storage.Database) {
		_, err := Importer{DB: db}.ImportCSV(ctx, "crimes", strings.NewReader(""))
		assert.Error(t, err)
	})
}
