package controller

import (
	"context"
	"testing"

	"github.com/goydb/goyreport/internal/adapter/storage"
	"github.com/goydb/goyreport/pkg/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestBankDemo(t *testing.T) {
	WithTestDatabase(t, func(ctx context.Context, db *storage.Database) {
		result, err := BankDemo{DB: db, Logger: zaptest.NewLogger(t)}.Run(ctx)
		require.NoError(t, err)

		assert.NotEmpty(t, result.ID)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, 1, result.Removed)
		require.Len(t, result.Customer.Accounts, 1)
		assert.Equal(t, "50100000", result.Customer.Accounts[0].Balance)
		assert.Equal(t, "USD", result.Customer.Accounts[0].Currency)
		assert.Equal(t, "Steven", result.Customer.FirstName)

		_, err = db.FindOne(ctx, DefaultBankCollection, result.ID)
		assert.ErrorIs(t, err, port.ErrNotFound)
	})
}
