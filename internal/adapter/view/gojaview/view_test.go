package gojaview

import (
	"context"
	"testing"

	"github.com/goydb/goyreport/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewServer_ExecuteView(t *testing.T) {
	tests := []struct {
		name   string
		script string
		docs   []*model.Document
		want   []*model.Document
	}{
		{
			name:   "empty emit",
			script: `function(doc) {}`,
			docs: []*model.Document{
				{ID: "1", Rev: "0-REV", Data: map[string]interface{}{
					"test": 1,
				}},
			},
			want: []*model.Document{},
		},
		{
			name: "one emit",
			script: `function(doc) {
				emit(doc.test, 1)
			}`,
			docs: []*model.Document{
				{ID: "1", Rev: "0-REV", Data: map[string]interface{}{
					"test": 1,
				}},
			},
			want: []*model.Document{
				{ID: "1", Key: int64(1), Value: int64(1)},
			},
		},
		{
			name: "this as document",
			script: `function() {
				emit(this._id, this["Primary Type"])
			}`,
			docs: []*model.Document{
				{ID: "1", Data: map[string]interface{}{"Primary Type": "THEFT"}},
				{ID: "2", Data: map[string]interface{}{"Primary Type": "ARSON"}},
			},
			want: []*model.Document{
				{ID: "1", Key: "1", Value: "THEFT"},
				{ID: "2", Key: "2", Value: "ARSON"},
			},
		},
		{
			name: "day of week",
			script: `function(){
				var milis = Date.parse(this.Date);
				var date = new Date(milis);
				var daysOfWeek = ["Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"];
				emit(daysOfWeek[date.getUTCDay()], 1);
			}`,
			docs: []*model.Document{
				{ID: "1", Data: map[string]interface{}{"Date": "2020-01-05T12:00:00Z"}},
				{ID: "2", Data: map[string]interface{}{"Date": "2020-01-06T12:00:00Z"}},
			},
			want: []*model.Document{
				{ID: "1", Key: "Sunday", Value: int64(1)},
				{ID: "2", Key: "Monday", Value: int64(1)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewViewServer(tt.script)
			require.NoError(t, err)

			got, err := s.ExecuteView(context.Background(), tt.docs)
			require.NoError(t, err)
			assert.EqualValues(t, tt.want, got)
		})
	}
}

func TestViewServer_DocumentsUnchanged(t *testing.T) {
	s, err := NewViewServer(`function(doc) { doc.test = 2; emit(doc._id, doc.test) }`)
	require.NoError(t, err)

	doc := &model.Document{ID: "1", Data: map[string]interface{}{"test": 1}}
	_, err = s.ExecuteView(context.Background(), []*model.Document{doc})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"test": 1}, doc.Data)
}

func TestViewServer_Invalid(t *testing.T) {
	_, err := NewViewServer(`function(doc) {`)
	assert.Error(t, err)

	_, err = NewViewServer(`42`)
	assert.Error(t, err)
}

func TestViewServer_Canceled(t *testing.T) {
	s, err := NewViewServer(`function(doc) { while (true) {} }`)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.ExecuteView(ctx, []*model.Document{{ID: "1", Data: map[string]interface{}{}}})
	assert.Error(t, err)
}

func TestReduceFunc(t *testing.T) {
	tests := []struct {
		name   string
		script string
		values []interface{}
		want   interface{}
	}{
		{"array sum", `function(key, values) { return Array.sum(values); }`, []interface{}{1, 2, 3}, int64(6)},
		{"key", `function(key, values) { return key + values.length; }`, []interface{}{1, 2}, "k2"},
		{"reduce", `function(key, values) { return values.reduce(function(a, b) { return a * b }, 1); }`, []interface{}{2, 3, 4}, int64(24)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := NewReduceFunc(tt.script)
			require.NoError(t, err)

			got, err := fn.Call(context.Background(), "k", tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
