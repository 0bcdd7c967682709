package pipeline

import (
	"context"

	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
)

// sliceSource serves documents from memory.
type sliceSource struct {
	docs []*model.Document
	// failAfter makes the cursor fail after n documents if > 0
	failAfter int
	err       error
}

func (s *sliceSource) OpenCursor(ctx context.Context, collection string, filter model.Selector) (port.Cursor, error) {
	return &sliceCursor{source: s, filter: filter}, nil
}

func (s *sliceSource) Sequence(ctx context.Context, collection string) (uint64, error) {
	return uint64(len(s.docs)), nil
}

type sliceCursor struct {
	source *sliceSource
	filter model.Selector
	pos    int
}

func (c *sliceCursor) Next(ctx context.Context) (*model.Document, error) {
	for c.pos < len(c.source.docs) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.source.failAfter > 0 && c.pos >= c.source.failAfter {
			return nil, c.source.err
		}
		doc := c.source.docs[c.pos]
		c.pos++
		if c.filter != nil {
			ok, err := c.filter.Match(doc)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		return doc, nil
	}
	return nil, nil
}

func (c *sliceCursor) Close() error {
	return nil
}

func crime(id string, date interface{}, primaryType interface{}) *model.Document {
	data := map[string]interface{}{}
	if date != nil {
		data["Date"] = date
	}
	if primaryType != nil {
		data["Primary Type"] = primaryType
	}
	return &model.Document{ID: id, Data: data}
}
