package bbolt_engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goydb/goyreport/pkg/port"
	"go.etcd.io/bbolt"
)

var _ port.DatabaseEngine = (*DB)(nil)

// openTimeout bounds the wait for the file lock held by another process
const openTimeout = 5 * time.Second

type DB struct {
	db *bbolt.DB
}

func Open(path string) (*DB, error) {
	db, err := bbolt.Open(path, 0666, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, translateError(err))
	}
	return &DB{
		db: db,
	}, nil
}

func (db *DB) Path() string {
	return db.db.Path()
}

func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) ReadTransaction(ctx context.Context, fn func(tx port.EngineReadTransaction) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := db.db.View(func(btx *bbolt.Tx) error {
		return fn(NewReadTransaction(btx))
	})
	return translateError(err)
}

// WriteTransaction executes the given function in a read transaction
// that collects all database updates into an operation log that will
// be executed at the end of the transaction execution as one transaction.
// Reads inside fn see the state before the transaction.
// If no writes are made, the update transaction is omitted.
func (db *DB) WriteTransaction(ctx context.Context, fn func(tx port.EngineWriteTransaction) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var wtx *WriteTransaction
	err := db.db.View(func(btx *bbolt.Tx) error {
		wtx = NewWriteTransaction(btx)
		return fn(wtx)
	})
	if err != nil {
		return translateError(err)
	}

	// only attempt the update transaction if there is something to do
	if wtx.Pending() == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err = db.db.Update(func(btx *bbolt.Tx) error {
		return wtx.Commit(btx)
	})
	return translateError(err)
}

// translateError maps engine failures onto the port error kinds
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bbolt.ErrTimeout):
		return fmt.Errorf("%w: %w", port.ErrTransient, err)
	case errors.Is(err, bbolt.ErrDatabaseNotOpen), errors.Is(err, bbolt.ErrDatabaseReadOnly):
		return fmt.Errorf("%w: %w", port.ErrConnection, err)
	default:
		return err
	}
}
