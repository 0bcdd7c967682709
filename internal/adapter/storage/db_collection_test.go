package storage

import (
	"context"
	"testing"

	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollections(t *testing.T) {
	WithTestDatabase(t, func(ctx context.Context, db *Database) {
		for _, coll := range []string{"events", "customers"} {
			_, err := db.Insert(ctx, coll, &model.Document{Data: map[string]interface{}{}})
			require.NoError(t, err)
		}

		names, err := db.Collections(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"customers", "events"}, names)

		require.NoError(t, db.DropCollection(ctx, "customers"))
		names, err = db.Collections(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"events"}, names)

		assert.ErrorIs(t, db.DropCollection(ctx, "customers"), port.ErrNotFound)
	})
}

func TestReplaceCollection(t *testing.T) {
	WithTestDatabase(t, func(ctx context.Context, db *Database) {
		insertEvents(t, ctx, db, 5)

		n, err := db.ReplaceCollection(ctx, "events", []*model.Document{
			{ID: "Sunday", Data: map[string]interface{}{"value": 2}},
			{ID: "Monday", Data: map[string]interface{}{"value": 1}},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		stats, err := db.Stats(ctx, "events")
		require.NoError(t, err)
		assert.EqualValues(t, 2, stats.Documents)

		doc, err := db.FindOne(ctx, "events", "Sunday")
		require.NoError(t, err)
		assert.EqualValues(t, 2, doc.Field("value"))
	})
}

func TestSequence(t *testing.T) {
	WithTestDatabase(t, func(ctx context.Context, db *Database) {
		seq, err := db.Sequence(ctx, "events")
		require.NoError(t, err)
		assert.EqualValues(t, 0, seq)

		_, err = db.Insert(ctx, "events", &model.Document{ID: "a", Data: map[string]interface{}{}})
		require.NoError(t, err)
		_, err = db.Upsert(ctx, "events", "a", &model.Document{Data: map[string]interface{}{"x": 1}})
		require.NoError(t, err)

		seq, err = db.Sequence(ctx, "events")
		require.NoError(t, err)
		assert.EqualValues(t, 2, seq)

		require.NoError(t, db.DropCollection(ctx, "events"))
		after, err := db.Sequence(ctx, "events")
		require.NoError(t, err)
		assert.Greater(t, after, seq, "dropping keeps the sequence growing")

		_, err = db.Stats(ctx, "events")
		assert.ErrorIs(t, err, port.ErrNotFound)
	})
}
