package reducer

import (
	"context"
	"testing"
	"time"

	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emitted(pairs ...interface{}) []*model.Document {
	docs := make([]*model.Document, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		docs = append(docs, &model.Document{Key: pairs[i], Value: pairs[i+1]})
	}
	return docs
}

func reduceAll(t *testing.T, r port.Reducer, docs []*model.Document) []*model.Document {
	for _, doc := range docs {
		r.Reduce(doc)
	}
	rows, err := r.Result(context.Background())
	require.NoError(t, err)
	return rows
}

func TestReducers(t *testing.T) {
	docs := emitted(
		"Sunday", int64(1),
		"Monday", int64(1),
		"Sunday", int64(1),
		"Friday", 2.5,
	)

	tests := []struct {
		name   string
		source string
		want   []*model.Document
	}{
		{"sum", "_sum", emitted("Sunday", int64(2), "Monday", int64(1), "Friday", 2.5)},
		{"count", "_count", emitted("Sunday", int64(2), "Monday", int64(1), "Friday", int64(1))},
		{"script", `function(key, values) { return Array.sum(values); }`,
			emitted("Sunday", int64(2), "Monday", int64(1), "Friday", 2.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, reduceAll(t, r, docs))
		})
	}
}

func TestStats(t *testing.T) {
	rows := reduceAll(t, NewStats(), emitted("a", 1, "a", 2, "a", 3))
	require.Len(t, rows, 1)
	assert.Equal(t, map[string]interface{}{
		"sum":    int64(6),
		"min":    int64(1),
		"max":    int64(3),
		"count":  int64(3),
		"sumsqr": int64(14),
	}, rows[0].Value)
}

func TestScriptSingleValueNotReduced(t *testing.T) {
	r, err := NewScript(`function(key, values) { return "reduced"; }`)
	require.NoError(t, err)

	rows := reduceAll(t, r, emitted("a", int64(1), "b", int64(1), "b", int64(1)))
	assert.Equal(t, emitted("a", int64(1), "b", "reduced"), rows)
}

func TestComplexKeys(t *testing.T) {
	rows := reduceAll(t, NewCount(), emitted(
		[]interface{}{"2020", int64(1)}, 1,
		map[string]interface{}{"y": "2020"}, 1,
		[]interface{}{"2020", int64(1)}, 1,
	))
	require.Len(t, rows, 2)
	assert.EqualValues(t, 2, rows[0].Value)
}

func TestSumInvalid(t *testing.T) {
	r := NewSum()
	r.Reduce(&model.Document{Key: "a", Value: "x"})
	_, err := r.Result(context.Background())
	assert.Error(t, err)
}

func TestResultCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewCount()
	r.Reduce(&model.Document{Key: "a", Value: 1})
	_, err := r.Result(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScriptInterrupted(t *testing.T) {
	r, err := NewScript(`function(key, values) { while (true) {} }`)
	require.NoError(t, err)
	r.Reduce(&model.Document{Key: "a", Value: 1})
	r.Reduce(&model.Document{Key: "a", Value: 2})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := r.Result(ctx)
		done <- err
	}()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("reduce was not interrupted")
	}
}

func TestNewUnknownBuiltin(t *testing.T) {
	_, err := New("_median")
	assert.Error(t, err)

	_, err = New("function(key, values) {")
	assert.Error(t, err)
}
