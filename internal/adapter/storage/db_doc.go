package storage

import (
	"context"
	"fmt"

	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
	"go.uber.org/zap"
)

// Insert stores a new document. Documents without id get an
// ObjectId, an existing id is a conflict.
func (d *Database) Insert(ctx context.Context, collection string, doc *model.Document) (string, error) {
	if err := validCollection(collection); err != nil {
		return "", err
	}
	if doc.ID == "" {
		doc.ID = model.NewDocumentID()
	}

	var rev string
	err := d.engine.WriteTransaction(ctx, func(tx port.EngineWriteTransaction) error {
		oldDoc, err := getDocument(tx, collection, doc.ID)
		if err != nil {
			return err
		}
		if oldDoc != nil {
			return fmt.Errorf("document %q: %w", doc.ID, port.ErrConflict)
		}

		ensureCollection(tx, collection)
		rev, err = putDocument(tx, collection, nil, doc)
		return err
	})
	if err != nil {
		return "", err
	}

	d.logger.Debug("inserted document", zap.String("collection", collection), zap.String("id", doc.ID))
	return rev, nil
}

// InsertMany stores all docs in one transaction. It fails as a whole
// if one of the ids exists.
func (d *Database) InsertMany(ctx context.Context, collection string, docs []*model.Document) (int, error) {
	if err := validCollection(collection); err != nil {
		return 0, err
	}

	err := d.engine.WriteTransaction(ctx, func(tx port.EngineWriteTransaction) error {
		ensureCollection(tx, collection)

		seen := make(map[string]struct{}, len(docs))
		for _, doc := range docs {
			if doc.ID == "" {
				doc.ID = model.NewDocumentID()
			}
			if _, ok := seen[doc.ID]; ok {
				return fmt.Errorf("document %q: %w", doc.ID, port.ErrConflict)
			}
			seen[doc.ID] = struct{}{}

			oldDoc, err := getDocument(tx, collection, doc.ID)
			if err != nil {
				return err
			}
			if oldDoc != nil {
				return fmt.Errorf("document %q: %w", doc.ID, port.ErrConflict)
			}

			_, err = putDocument(tx, collection, nil, doc)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(docs), nil
}

// Update replaces an existing document. It returns the number of
// updated documents, a missing document is not an error.
func (d *Database) Update(ctx context.Context, collection string, doc *model.Document) (int, error) {
	if err := validCollection(collection); err != nil {
		return 0, err
	}

	var n int
	err := d.engine.WriteTransaction(ctx, func(tx port.EngineWriteTransaction) error {
		oldDoc, err := getDocument(tx, collection, doc.ID)
		if err != nil {
			return err
		}
		if oldDoc == nil {
			return nil
		}
		if !oldDoc.ValidUpdateRevision(doc) {
			return fmt.Errorf("document %q: %w", doc.ID, port.ErrConflict)
		}

		_, err = putDocument(tx, collection, oldDoc, doc)
		if err != nil {
			return err
		}
		n = 1
		return nil
	})
	if err != nil {
		return 0, err
	}

	return n, nil
}

// Upsert stores doc under key, creating the collection if needed.
func (d *Database) Upsert(ctx context.Context, collection, key string, doc *model.Document) (string, error) {
	if err := validCollection(collection); err != nil {
		return "", err
	}
	doc.ID = key

	var rev string
	err := d.engine.WriteTransaction(ctx, func(tx port.EngineWriteTransaction) error {
		oldDoc, err := getDocument(tx, collection, key)
		if err != nil {
			return err
		}
		if oldDoc != nil && !oldDoc.ValidUpdateRevision(doc) {
			return fmt.Errorf("document %q: %w", key, port.ErrConflict)
		}

		ensureCollection(tx, collection)
		rev, err = putDocument(tx, collection, oldDoc, doc)
		return err
	})
	if err != nil {
		return "", err
	}

	return rev, nil
}

func (d *Database) FindOne(ctx context.Context, collection, docID string) (*model.Document, error) {
	var doc *model.Document
	err := d.engine.ReadTransaction(ctx, func(tx port.EngineReadTransaction) error {
		var err error
		doc, err = getDocument(tx, collection, docID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document %q in %q: %w", docID, collection, port.ErrNotFound)
	}

	return doc, nil
}

// Delete removes the document stored under key and returns the
// number of removed documents.
func (d *Database) Delete(ctx context.Context, collection, key string) (int, error) {
	var n int
	err := d.engine.WriteTransaction(ctx, func(tx port.EngineWriteTransaction) error {
		oldDoc, err := getDocument(tx, collection, key)
		if err != nil || oldDoc == nil {
			return err
		}

		tx.Delete([]byte(collection), []byte(key))
		logChange(tx, collection, key)
		n = 1
		return nil
	})
	if err != nil {
		return 0, err
	}

	return n, nil
}

func (d *Database) Remove(ctx context.Context, collection, docID string) (int, error) {
	return d.Delete(ctx, collection, docID)
}
