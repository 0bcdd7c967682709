package gojaview

import (
	"context"
	"fmt"

	"github.com/dop251/goja"
)

// ReduceFunc calls a javascript function(key, values) and
// returns its exported result.
type ReduceFunc struct {
	vm *goja.Runtime
	fn goja.Callable
}

func NewReduceFunc(source string) (*ReduceFunc, error) {
	vm := goja.New()
	installArrayHelpers(vm)
	_, err := vm.RunScript("reducer.js", "var reduceFn = "+source+";")
	if err != nil {
		return nil, fmt.Errorf("script error %v: %w", source, err)
	}

	fn, ok := goja.AssertFunction(vm.Get("reduceFn"))
	if !ok {
		return nil, fmt.Errorf("reduce is not a function")
	}

	return &ReduceFunc{
		vm: vm,
		fn: fn,
	}, nil
}

func (r *ReduceFunc) Call(ctx context.Context, key interface{}, values []interface{}) (interface{}, error) {
	r.vm.ClearInterrupt()
	stop := context.AfterFunc(ctx, func() {
		r.vm.Interrupt(ctx.Err())
	})
	defer stop()

	result, err := r.fn(goja.Undefined(), r.vm.ToValue(key), r.vm.NewArray(values...))
	if err != nil {
		return nil, err
	}
	return result.Export(), nil
}
