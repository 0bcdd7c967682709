package port

import (
	"context"

	"github.com/goydb/goyreport/pkg/model"
)

type ReducerEngines map[string]ReducerServerBuilder

type ReducerServerBuilder func(fn string) (Reducer, error)

// Reducer folds emitted rows into one row per key. Keys keep the
// order in which they were first reduced. Result stops once ctx
// is done.
type Reducer interface {
	Reduce(doc *model.Document)
	Result(ctx context.Context) ([]*model.Document, error)
}
