package reducer

import (
	"context"
	"fmt"
	"strings"

	"github.com/goydb/goyreport/internal/adapter/view/gojaview"
	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
)

var _ port.Reducer = (*Script)(nil)

// Script reduces with a javascript function(key, values). Keys
// that were emitted once keep their value without a reduce call.
type Script struct {
	groups
	fn *gojaview.ReduceFunc
}

func NewScript(source string) (*Script, error) {
	fn, err := gojaview.NewReduceFunc(source)
	if err != nil {
		return nil, err
	}
	return &Script{fn: fn}, nil
}

func (r *Script) Reduce(doc *model.Document) {
	r.add(doc)
}

func (r *Script) Result(ctx context.Context) ([]*model.Document, error) {
	return r.result(ctx, func(key interface{}, values []interface{}) (interface{}, error) {
		if len(values) == 1 {
			return values[0], nil
		}
		v, err := r.fn.Call(ctx, key, values)
		if err != nil {
			return nil, fmt.Errorf("reduce of key %v: %w", key, err)
		}
		return v, nil
	})
}

// Engines are the built-in reduce functions by name.
var Engines = port.ReducerEngines{
	"_sum": func(string) (port.Reducer, error) {
		return NewSum(), nil
	},
	"_count": func(string) (port.Reducer, error) {
		return NewCount(), nil
	},
	"_stats": func(string) (port.Reducer, error) {
		return NewStats(), nil
	},
}

// New returns the built-in reducer of that name or compiles the
// source as javascript reduce function.
func New(source string) (port.Reducer, error) {
	name := strings.TrimSpace(source)
	if builder, ok := Engines[name]; ok {
		return builder(name)
	}
	if strings.HasPrefix(name, "_") {
		return nil, fmt.Errorf("unknown built-in reduce function %q", name)
	}
	return NewScript(source)
}
