package tengoview

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
			script: `func(doc) {}`,
			docs: []*model.Document{
				{ID: "1", Rev: "0-REV", Data: map[string]interface{}{
					"test": 1,
				}},
			},
			want: []*model.Document{},
		},
		{
			name: "one emit",
			script: `func(doc) {
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
			name: "group by type",
			script: `func(doc) {
				emit(text.to_upper(doc["Primary Type"]), 1)
			}`,
			docs: []*model.Document{
				{ID: "1", Data: map[string]interface{}{"Primary Type": "theft"}},
				{ID: "2", Data: map[string]interface{}{"Primary Type": "arson"}},
			},
			want: []*model.Document{
				{ID: "1", Key: "THEFT", Value: int64(1)},
				{ID: "2", Key: "ARSON", Value: int64(1)},
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

func TestViewServer_Rerun(t *testing.T) {
	s, err := NewViewServer(`func(doc) { emit(doc._id, 1) }`)
	require.NoError(t, err)

	for _, id := range []string{"a", "b"} {
		got, err := s.ExecuteView(context.Background(), []*model.Document{
			{ID: id, Data: map[string]interface{}{}},
		})
		require.NoError(t, err)
		require.Len(t, got, 1, "results don't leak between runs")
		assert.Equal(t, id, got[0].Key)
	}
}

func TestViewServer_Invalid(t *testing.T) {
	_, err := NewViewServer(`func(doc) {`)
	assert.Error(t, err)
}
