package port

import (
	"context"
	"errors"

	"github.com/goydb/goyreport/pkg/model"
)

var (
	ErrUnknownBucket = errors.New("bucket is unknown")
	ErrNotFound      = errors.New("resource not found")
	ErrConflict      = errors.New("document update conflict")
	// ErrConnection is returned when the data store can't be reached
	// or was closed. It aborts a report run.
	ErrConnection = errors.New("data store not available")
	// ErrTransient marks failures that may succeed on retry.
	ErrTransient    = errors.New("transient data store failure")
	ErrCursorClosed = errors.New("cursor is closed")
	// ErrInvalidName is returned for database or collection names
	// that can't be stored.
	ErrInvalidName = errors.New("invalid name")
)

type DatabaseEngine interface {
	ReadTransaction(ctx context.Context, fn func(tx EngineReadTransaction) error) error
	WriteTransaction(ctx context.Context, fn func(tx EngineWriteTransaction) error) error
	Close() error
}

// KeyWithSeq should return a new key based on the given
// key and a sequence
type KeyWithSeq func(key []byte, seq uint64) []byte

type EngineWriteTransaction interface {
	EnsureBucket(bucket []byte)
	DeleteBucket(bucket []byte)
	Put(bucket, k, v []byte)
	// PutWithSequence will get the next sequence for the bucket
	// and then call the fn func using the passed key and seq to
	// generate the final key
	PutWithSequence(bucket, k, v []byte, fn KeyWithSeq)
	Delete(bucket, k []byte)
	EngineReadTransaction
}

type EngineReadTransaction interface {
	BucketStats(bucket []byte) (*model.CollectionStats, error)
	Buckets() ([][]byte, error)
	Cursor(bucket []byte) (EngineCursor, error)
	Get(bucket, key []byte) ([]byte, error)
	Sequence(bucket []byte) uint64
}

type EngineCursor interface {
	First() (key []byte, value []byte)
	Last() (key []byte, value []byte)
	Next() (key []byte, value []byte)
	Prev() (key []byte, value []byte)
	Seek(seek []byte) (key []byte, value []byte)
}
