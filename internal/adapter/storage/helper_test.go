package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func WithTestStorage(t *testing.T, fn func(ctx context.Context, s *Storage), opts ...Option) {
	ctx := context.Background()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)

	s, err := Open(t.TempDir(), opts...)
	require.NoError(t, err)
	defer s.Close()

	fn(ctx, s)
}

func WithTestDatabase(t *testing.T, fn func(ctx context.Context, db *Database), opts ...Option) {
	WithTestStorage(t, func(ctx context.Context, s *Storage) {
		db, err := s.CreateDatabase(ctx, "test")
		assert.NoError(t, err)
		if err == nil {
			fn(ctx, db)
		}
	}, opts...)
}
