package port

import (
	"context"

	"github.com/goydb/goyreport/pkg/model"
)

// Cursor is a lazy, finite sequence of documents. Next returns nil
// once the sequence is exhausted and keeps doing so, a consumed
// cursor can't be restarted.
type Cursor interface {
	Next(ctx context.Context) (*model.Document, error)
	Close() error
}

// RecordSource yields the records of a collection.
type RecordSource interface {
	// OpenCursor returns a cursor over all documents of the collection
	// matching filter. A nil filter matches everything.
	OpenCursor(ctx context.Context, collection string, filter model.Selector) (Cursor, error)
	// Sequence is increased on every write to the collection
	Sequence(ctx context.Context, collection string) (uint64, error)
}

// DocumentWriter is the write-back side used to persist results.
type DocumentWriter interface {
	Upsert(ctx context.Context, collection, key string, doc *model.Document) (string, error)
	Delete(ctx context.Context, collection, key string) (int, error)
	// ReplaceCollection drops the collection and stores docs in its
	// place within one transaction.
	ReplaceCollection(ctx context.Context, collection string, docs []*model.Document) (int, error)
}

type Database interface {
	RecordSource
	DocumentWriter

	Name() string
	String() string

	Insert(ctx context.Context, collection string, doc *model.Document) (string, error)
	Update(ctx context.Context, collection string, doc *model.Document) (int, error)
	FindOne(ctx context.Context, collection, docID string) (*model.Document, error)
	Remove(ctx context.Context, collection, docID string) (int, error)
	InsertMany(ctx context.Context, collection string, docs []*model.Document) (int, error)

	Collections(ctx context.Context) ([]string, error)
	DropCollection(ctx context.Context, collection string) error
	Stats(ctx context.Context, collection string) (*model.CollectionStats, error)
}
