package tengoview

import (
	"context"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
)

var _ port.ViewServer = (*ViewServer)(nil)

// modules available to map functions without import
var modules = []string{"text", "math", "times", "fmt", "json", "enum"}

// ViewServer runs a tengo map function func(doc) { emit(key, value) }.
// Every emit is collected as a [key, value, id] triple.
type ViewServer struct {
	compiled *tengo.Compiled
}

func NewViewServer(fn string) (port.ViewServer, error) {
	var src []byte
	for _, m := range modules {
		src = fmt.Appendf(src, "%s := import(%q)\n", m, m)
	}
	src = fmt.Appendf(src, `emitted := []
current := undefined
emit := func(key, value) {
	emitted = append(emitted, [key, value, current._id])
}
mapFn := %s
for doc in docs {
	current = doc
	mapFn(doc)
}
`, fn)

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(modules...))
	err := script.Add("docs", []interface{}{})
	if err != nil {
		return nil, err
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("invalid map function: %w", err)
	}

	return &ViewServer{compiled: compiled}, nil
}

func (s *ViewServer) ExecuteView(ctx context.Context, docs []*model.Document) ([]*model.Document, error) {
	bodies := make([]interface{}, len(docs))
	for i, doc := range docs {
		bodies[i] = doc.Body()
	}

	// the compiled script keeps its globals, run a fresh copy per batch
	run := s.compiled.Clone()
	err := run.Set("docs", bodies)
	if err != nil {
		return nil, err
	}
	err = run.RunContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("map function failed: %w", err)
	}

	emitted := run.Get("emitted").Array()
	rows := make([]*model.Document, 0, len(emitted))
	for _, e := range emitted {
		triple, ok := e.([]interface{})
		if !ok || len(triple) != 3 {
			return nil, fmt.Errorf("unexpected emit %v", e)
		}
		id, _ := triple[2].(string)
		rows = append(rows, &model.Document{ID: id, Key: triple[0], Value: triple[1]})
	}

	return rows, nil
}
