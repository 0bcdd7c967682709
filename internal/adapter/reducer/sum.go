package reducer

import (
	"context"
	"fmt"

	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
)

var _ port.Reducer = (*Sum)(nil)

// Sum adds up the numeric values emitted per key. The sum stays
// an integer as long as all values are integers.
type Sum struct {
	groups
}

func NewSum() *Sum {
	return &Sum{}
}

func (r *Sum) Reduce(doc *model.Document) {
	r.add(doc)
}

func (r *Sum) Result(ctx context.Context) ([]*model.Document, error) {
	return r.result(ctx, sum)
}

func sum(key interface{}, values []interface{}) (interface{}, error) {
	var isum int64
	var fsum float64
	isFloat := false

	for _, v := range values {
		switch n := v.(type) {
		case int:
			isum += int64(n)
		case int32:
			isum += int64(n)
		case int64:
			isum += n
		case float32:
			fsum += float64(n)
			isFloat = true
		case float64:
			fsum += n
			isFloat = true
		default:
			return nil, fmt.Errorf("_sum of key %v: value %v (%T) is not a number", key, v, v)
		}
	}

	if isFloat {
		return fsum + float64(isum), nil
	}
	return isum, nil
}
