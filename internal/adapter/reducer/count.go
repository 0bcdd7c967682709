package reducer

import (
	"context"

	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
)

var _ port.Reducer = (*Count)(nil)

// Count counts the rows emitted per key.
type Count struct {
	groups
}

func NewCount() *Count {
	return &Count{}
}

func (r *Count) Reduce(doc *model.Document) {
	r.add(doc)
}

func (r *Count) Result(ctx context.Context) ([]*model.Document, error) {
	return r.result(ctx, func(key interface{}, values []interface{}) (interface{}, error) {
		return int64(len(values)), nil
	})
}
