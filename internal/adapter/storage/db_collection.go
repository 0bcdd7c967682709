package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
	"go.uber.org/zap"
)

// Collections returns the names of all collections in key order.
func (d *Database) Collections(ctx context.Context) ([]string, error) {
	var names []string
	err := d.engine.ReadTransaction(ctx, func(tx port.EngineReadTransaction) error {
		buckets, err := tx.Buckets()
		if err != nil {
			return err
		}
		for _, b := range buckets {
			if strings.HasPrefix(string(b), "_") {
				continue
			}
			names = append(names, string(b))
		}
		return nil
	})
	return names, err
}

func (d *Database) hasCollection(tx port.EngineReadTransaction, collection string) (bool, error) {
	buckets, err := tx.Buckets()
	if err != nil {
		return false, err
	}
	for _, b := range buckets {
		if string(b) == collection {
			return true, nil
		}
	}
	return false, nil
}

// DropCollection removes the collection with all documents. The
// change log is kept so the sequence keeps growing.
func (d *Database) DropCollection(ctx context.Context, collection string) error {
	if err := validCollection(collection); err != nil {
		return err
	}

	err := d.engine.WriteTransaction(ctx, func(tx port.EngineWriteTransaction) error {
		ok, err := d.hasCollection(tx, collection)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("collection %q: %w", collection, port.ErrNotFound)
		}

		tx.DeleteBucket([]byte(collection))
		logChange(tx, collection, "")
		return nil
	})
	if err != nil {
		return err
	}

	d.logger.Info("dropped collection", zap.String("collection", collection))
	return nil
}

// ReplaceCollection drops the collection and stores docs in
// its place within one transaction.
func (d *Database) ReplaceCollection(ctx context.Context, collection string, docs []*model.Document) (int, error) {
	if err := validCollection(collection); err != nil {
		return 0, err
	}

	err := d.engine.WriteTransaction(ctx, func(tx port.EngineWriteTransaction) error {
		tx.DeleteBucket([]byte(collection))
		ensureCollection(tx, collection)

		for _, doc := range docs {
			if doc.ID == "" {
				doc.ID = model.NewDocumentID()
			}
			_, err := putDocument(tx, collection, nil, doc)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, &model.WriteError{Collection: collection, Err: err}
	}

	d.logger.Debug("replaced collection", zap.String("collection", collection), zap.Int("documents", len(docs)))
	return len(docs), nil
}

func (d *Database) Sequence(ctx context.Context, collection string) (uint64, error) {
	var seq uint64
	err := d.engine.ReadTransaction(ctx, func(tx port.EngineReadTransaction) error {
		seq = tx.Sequence(changesBucket(collection))
		return nil
	})
	return seq, err
}

func (d *Database) Stats(ctx context.Context, collection string) (*model.CollectionStats, error) {
	var stats *model.CollectionStats
	err := d.engine.ReadTransaction(ctx, func(tx port.EngineReadTransaction) error {
		ok, err := d.hasCollection(tx, collection)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("collection %q: %w", collection, port.ErrNotFound)
		}

		stats, err = tx.BucketStats([]byte(collection))
		if err != nil {
			return err
		}
		stats.Sequence = tx.Sequence(changesBucket(collection))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
