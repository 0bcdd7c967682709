package bbolt_engine

import (
	"errors"
	"fmt"

	"github.com/goydb/goyreport/pkg/port"
	"go.etcd.io/bbolt"
)

var _ port.EngineWriteTransaction = (*WriteTransaction)(nil)

type opKind int

const (
	opEnsureBucket opKind = iota
	opDeleteBucket
	opPut
	opPutWithSequence
	opDelete
)

func (k opKind) String() string {
	switch k {
	case opEnsureBucket:
		return "ensure bucket"
	case opDeleteBucket:
		return "delete bucket"
	case opPut:
		return "put"
	case opPutWithSequence:
		return "put with sequence"
	case opDelete:
		return "delete"
	default:
		return fmt.Sprintf("op(%d)", int(k))
	}
}

// pendingOp is one logged write. All slices are owned by the op.
type pendingOp struct {
	kind       opKind
	bucket     []byte
	key        []byte
	value      []byte
	keyWithSeq port.KeyWithSeq
}

// WriteTransaction collects the writes of a transaction function.
// Reads go to the snapshot of the read transaction and don't see
// pending writes. Commit applies the log in order.
type WriteTransaction struct {
	ReadTransaction
	log []pendingOp
}

func NewWriteTransaction(readTx *bbolt.Tx) *WriteTransaction {
	return &WriteTransaction{
		ReadTransaction: ReadTransaction{
			tx: readTx,
		},
	}
}

func (t *WriteTransaction) record(kind opKind, bucket, key, value []byte) {
	t.log = append(t.log, pendingOp{
		kind:   kind,
		bucket: clone(bucket),
		key:    clone(key),
		value:  clone(value),
	})
}

func (t *WriteTransaction) EnsureBucket(bucket []byte) {
	t.record(opEnsureBucket, bucket, nil, nil)
}

func (t *WriteTransaction) DeleteBucket(bucket []byte) {
	t.record(opDeleteBucket, bucket, nil, nil)
}

func (t *WriteTransaction) Put(bucket, k, v []byte) {
	t.record(opPut, bucket, k, v)
}

// PutWithSequence stores v under the key fn derives from k and the
// next sequence of the bucket.
func (t *WriteTransaction) PutWithSequence(bucket, k, v []byte, fn port.KeyWithSeq) {
	t.record(opPutWithSequence, bucket, k, v)
	t.log[len(t.log)-1].keyWithSeq = fn
}

func (t *WriteTransaction) Delete(bucket, k []byte) {
	t.record(opDelete, bucket, k, nil)
}

// Pending returns the number of logged operations.
func (t *WriteTransaction) Pending() int {
	return len(t.log)
}

func (t *WriteTransaction) Commit(tx *bbolt.Tx) error {
	for i, op := range t.log {
		err := op.apply(tx)
		if err != nil {
			return fmt.Errorf("%s (op %d of %d): %w", op.kind, i+1, len(t.log), err)
		}
	}
	return nil
}

func (op pendingOp) apply(tx *bbolt.Tx) error {
	switch op.kind {
	case opEnsureBucket:
		_, err := tx.CreateBucketIfNotExists(op.bucket)
		return err
	case opDeleteBucket:
		err := tx.DeleteBucket(op.bucket)
		if errors.Is(err, bbolt.ErrBucketNotFound) {
			return nil
		}
		return err
	case opDelete:
		if b := tx.Bucket(op.bucket); b != nil {
			return b.Delete(op.key)
		}
		return nil
	}

	b := tx.Bucket(op.bucket)
	if b == nil {
		return fmt.Errorf("key %q in bucket %q: %w", string(op.key), string(op.bucket), port.ErrUnknownBucket)
	}
	switch op.kind {
	case opPut:
		return b.Put(op.key, op.value)
	case opPutWithSequence:
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(op.keyWithSeq(op.key, seq), op.value)
	default:
		return fmt.Errorf("invalid operation %s", op.kind)
	}
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
