package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
)

var _ port.Cursor = (*Cursor)(nil)

// Cursor reads a collection in key order. Every batch is read in
// its own short read transaction, so a long scan doesn't pin the
// database file. Writes made during the scan may or may not be seen.
type Cursor struct {
	db         *Database
	collection []byte
	filter     model.Selector
	batchSize  int

	lastKey []byte
	buf     []*model.Document
	done    bool
	closed  bool
}

// OpenCursor returns a cursor over all documents of the collection
// matching filter. A nil filter matches everything, an unknown
// collection yields no documents.
func (d *Database) OpenCursor(ctx context.Context, collection string, filter model.Selector) (port.Cursor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Cursor{
		db:         d,
		collection: []byte(collection),
		filter:     filter,
		batchSize:  d.batchSize,
	}, nil
}

// Next returns the next document or nil once the collection is
// exhausted.
func (c *Cursor) Next(ctx context.Context) (*model.Document, error) {
	if c.closed {
		return nil, port.ErrCursorClosed
	}

	for len(c.buf) == 0 {
		if c.done {
			return nil, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := c.buf[0]
	c.buf[0] = nil
	c.buf = c.buf[1:]
	return doc, nil
}

// fetch reads the next batch after lastKey. The batch may be
// empty if no document of the range matches the filter.
func (c *Cursor) fetch(ctx context.Context) error {
	return c.db.engine.ReadTransaction(ctx, func(tx port.EngineReadTransaction) error {
		cur, err := tx.Cursor(c.collection)
		if err != nil {
			return err
		}

		var k, v []byte
		if c.lastKey == nil {
			k, v = cur.First()
		} else {
			k, v = cur.Seek(c.lastKey)
			if k != nil && bytes.Equal(k, c.lastKey) {
				k, v = cur.Next()
			}
		}

		for n := 0; n < c.batchSize; n++ {
			if k == nil {
				c.done = true
				return nil
			}

			doc, err := decodeDocument(v)
			if err != nil {
				return fmt.Errorf("failed to decode %q in %q: %w", string(k), string(c.collection), err)
			}
			// k is only valid inside the transaction
			c.lastKey = append(c.lastKey[:0], k...)

			match := true
			if c.filter != nil {
				match, err = c.filter.Match(doc)
				if err != nil {
					return fmt.Errorf("failed to match %q with %s: %w", string(k), c.filter, err)
				}
			}
			if match {
				c.buf = append(c.buf, doc)
			}
			k, v = cur.Next()
		}
		if k == nil {
			c.done = true
		}

		return nil
	})
}

func (c *Cursor) Close() error {
	c.closed = true
	c.buf = nil
	return nil
}
