package reducer

import (
	"context"

	"github.com/goydb/goyreport/internal/adapter/view/gojaview"
	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
)

var _ port.Reducer = (*Stats)(nil)

// source: https://docs.couchdb.org/en/stable/ddocs/ddocs.html?highlight=_stats#built-in-reduce-functions
var jsStats = `
function(key, values) {
	return {
		'sum': Array.sum(values),
		'min': Math.min.apply(null, values),
		'max': Math.max.apply(null, values),
		'count': values.length,
		'sumsqr': (function() {
			var sumsqr = 0;
			values.forEach(function (value) {
				sumsqr += value * value;
			});
			return sumsqr;
		})()
	}
}`

// Stats computes sum, min, max, count and sum of squares per key.
type Stats struct {
	groups
	fn *gojaview.ReduceFunc
}

func NewStats() *Stats {
	fn, err := gojaview.NewReduceFunc(jsStats)
	if err != nil {
		panic(err)
	}
	return &Stats{fn: fn}
}

func (r *Stats) Reduce(doc *model.Document) {
	r.add(doc)
}

func (r *Stats) Result(ctx context.Context) ([]*model.Document, error) {
	return r.result(ctx, func(key interface{}, values []interface{}) (interface{}, error) {
		return r.fn.Call(ctx, key, values)
	})
}
