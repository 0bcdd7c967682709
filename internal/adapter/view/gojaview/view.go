package gojaview

import (
	"context"
	"fmt"

	"github.com/dop251/goja"
	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
)

var _ port.ViewServer = (*ViewServer)(nil)

// ViewServer runs a javascript map function. The document is passed
// as argument and as this, so both function(doc) { emit(doc.x, 1) }
// and function() { emit(this.x, 1) } work.
type ViewServer struct {
	vm *goja.Runtime
}

func NewViewServer(fn string) (port.ViewServer, error) {
	vm := goja.New()
	fn = `
	var _result = [];
	var _doc = {};
	var docs = [];
	function emit(key, value) {
		_result.push([key, value, _doc._id]);
	}
	var docFn = ` + fn + `;`
	_, err := vm.RunString(fn)
	if err != nil {
		return nil, fmt.Errorf("script error %v: %w", fn, err)
	}
	if _, ok := goja.AssertFunction(vm.Get("docFn")); !ok {
		return nil, fmt.Errorf("map is not a function")
	}
	installArrayHelpers(vm)

	return &ViewServer{
		vm: vm,
	}, nil
}

func (s *ViewServer) ExecuteView(ctx context.Context, docs []*model.Document) ([]*model.Document, error) {
	simpleDocs := make([]interface{}, len(docs))
	for i, doc := range docs {
		simpleDocs[i] = doc.Body()
	}

	s.vm.ClearInterrupt()
	stop := context.AfterFunc(ctx, func() {
		s.vm.Interrupt(ctx.Err())
	})
	defer stop()

	err := s.vm.Set("docs", simpleDocs)
	if err != nil {
		return nil, err
	}
	_, err = s.vm.RunString(`_result = [];
	docs.forEach(function (doc) {
		_doc = doc;
		docFn.call(doc, doc);
	});`)
	if err != nil {
		return nil, err
	}

	resultData, ok := s.vm.Get("_result").Export().([]interface{})
	if !ok {
		return nil, fmt.Errorf("unable to export")
	}
	result := make([]*model.Document, len(resultData))

	for i, rd := range resultData {
		row := rd.([]interface{})
		id, _ := row[2].(string)
		result[i] = &model.Document{
			Key:   row[0],
			Value: row[1],
			ID:    id,
		}
	}

	return result, nil
}

// installArrayHelpers adds the Array.sum helper reduce
// functions of mongo map/reduce rely on.
func installArrayHelpers(vm *goja.Runtime) {
	_, err := vm.RunString(`Array.sum = function (values) {
		var sum = 0;
		for (var i = 0; i < values.length; i++) {
			sum += values[i];
		}
		return sum;
	};`)
	if err != nil {
		panic(err)
	}
}
