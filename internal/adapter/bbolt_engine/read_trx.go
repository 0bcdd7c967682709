package bbolt_engine

import (
	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
	"go.etcd.io/bbolt"
)

var _ port.EngineReadTransaction = (*ReadTransaction)(nil)

type ReadTransaction struct {
	tx *bbolt.Tx
}

func NewReadTransaction(tx *bbolt.Tx) *ReadTransaction {
	return &ReadTransaction{
		tx: tx,
	}
}

// BucketStats of an unknown bucket are all zero.
func (tx *ReadTransaction) BucketStats(bucket []byte) (*model.CollectionStats, error) {
	b := tx.tx.Bucket(bucket)
	if b == nil {
		return &model.CollectionStats{Name: string(bucket)}, nil
	}
	s := b.Stats()

	return &model.CollectionStats{
		Name:      string(bucket),
		Documents: uint64(s.KeyN),
		Used:      uint64(s.BranchInuse + s.LeafInuse),
		Allocated: uint64(s.BranchAlloc + s.LeafAlloc),
	}, nil
}

// Buckets lists the names of all top level buckets.
func (tx *ReadTransaction) Buckets() ([][]byte, error) {
	var names [][]byte
	err := tx.tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
		// name is only valid during the transaction
		names = append(names, append([]byte(nil), name...))
		return nil
	})
	return names, err
}

func (tx *ReadTransaction) Get(bucket, key []byte) ([]byte, error) {
	b := tx.tx.Bucket(bucket)
	if b == nil {
		return nil, port.ErrNotFound
	}
	value := b.Get(key)
	if value == nil {
		return nil, port.ErrNotFound
	}
	return value, nil
}

func (tx *ReadTransaction) Cursor(bucket []byte) (port.EngineCursor, error) {
	b := tx.tx.Bucket(bucket)
	if b == nil {
		return emptyCursor{}, nil
	}

	return b.Cursor(), nil
}

func (tx *ReadTransaction) Sequence(bucket []byte) uint64 {
	b := tx.tx.Bucket(bucket)
	if b == nil {
		return 0
	}

	return b.Sequence()
}

// emptyCursor iterates a bucket that doesn't exist.
type emptyCursor struct{}

func (emptyCursor) First() ([]byte, []byte) { return nil, nil }
func (emptyCursor) Last() ([]byte, []byte) { return nil, nil }
func (emptyCursor) Next() ([]byte, []byte) { return nil, nil }
func (emptyCursor) Prev() ([]byte, []byte) { return nil, nil }
func (emptyCursor) Seek([]byte) ([]byte, []byte) { return nil, nil }
