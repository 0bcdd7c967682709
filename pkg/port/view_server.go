package port

import (
	"context"

	"github.com/goydb/goyreport/pkg/model"
)

type ViewServerBuilder func(fn string) (ViewServer, error)

// ViewServer runs a map function over documents and returns one
// row (ID, Key, Value) per emit call.
type ViewServer interface {
	ExecuteView(ctx context.Context, docs []*model.Document) ([]*model.Document, error)
}
