package controller

import (
	"context"
	"testing"
	"time"

	"github.com/goydb/goyreport/internal/adapter/storage"
	"github.com/goydb/goyreport/pkg/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func WithTestDatabase(t *testing.T, fn func(ctx context.Context, db *storage.Database)) {
	ctx := context.Background()
	s, err := storage.Open(t.TempDir(), storage.WithLogger(zaptest.NewLogger(t)), storage.WithReadBatchSize(2))
	require.NoError(t, err)
	defer s.Close()

	db, err := s.CreateDatabase(ctx, "test")
	require.NoError(t, err)
	fn(ctx, db)
}

// insertCrimes stores one crime per date, all at noon UTC.
func insertCrimes(t *testing.T, ctx context.Context, db *storage.Database, crimes map[string][2]string) {
	for id, c := range crimes {
		_, err := db.Insert(ctx, "crimes", &model.Document{
			ID: id,
			Data: map[string]interface{}{
				"Date":         c[0],
				"Primary Type": c[1],
			},
		})
		require.NoError(t, err)
	}
}

var testCrimes = map[string][2]string{
	"1": {"2020-01-05T12:00:00Z", "THEFT"},
	"2": {"2020-01-06T12:00:00Z", "BATTERY"},
	"3": {"2020-01-05T12:00:00Z", "THEFT"},
}

var testRetry = Retry{Max: 2, Interval: time.Millisecond}
