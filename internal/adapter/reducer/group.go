package reducer

import (
	"context"

	"github.com/fxamacker/cbor/v2"
	"github.com/goydb/goyreport/pkg/model"
)

var keyMode cbor.EncMode

func init() {
	var err error
	keyMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

// groups collects emitted values per key. Keys are compared by
// their canonical encoding so maps and arrays can be keys too.
type groups struct {
	keys   []interface{}
	values [][]interface{}
	index  map[string]int
	err    error
}

func (g *groups) add(doc *model.Document) {
	if g.err != nil {
		return
	}
	if g.index == nil {
		g.index = make(map[string]int)
	}

	k, err := keyMode.Marshal(doc.Key)
	if err != nil {
		g.err = err
		return
	}

	i, ok := g.index[string(k)]
	if !ok {
		i = len(g.keys)
		g.index[string(k)] = i
		g.keys = append(g.keys, doc.Key)
		g.values = append(g.values, nil)
	}
	g.values[i] = append(g.values[i], doc.Value)
}

// result builds one row per key using fn.
func (g *groups) result(ctx context.Context, fn func(key interface{}, values []interface{}) (interface{}, error)) ([]*model.Document, error) {
	if g.err != nil {
		return nil, g.err
	}

	rows := make([]*model.Document, len(g.keys))
	for i, key := range g.keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		value, err := fn(key, g.values[i])
		if err != nil {
			return nil, err
		}
		rows[i] = &model.Document{Key: key, Value: value}
	}
	return rows, nil
}
