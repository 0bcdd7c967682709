package pipeline

import (
	"testing"

	"github.com/goydb/goyreport/pkg/model"
	"github.com/stretchr/testify/assert"
)

func TestAggregatorFixedLabels(t *testing.T) {
	a := NewAggregator(model.DayOfWeekLabels)
	a.Add("Sunday")
	a.Add("Monday")
	a.Add("Sunday")
	a.Skip()

	r := a.Result()
	assert.Equal(t, model.DayOfWeekLabels, r.Order)
	assert.EqualValues(t, 2, r.Counts["Sunday"])
	assert.EqualValues(t, 1, r.Counts["Monday"])
	assert.EqualValues(t, 0, r.Counts["Saturday"])
	assert.Equal(t, 4, r.Total)
	assert.Equal(t, 1, r.Skipped)
	assert.EqualValues(t, r.Counted(), r.Sum())
}

func TestAggregatorOpenLabels(t *testing.T) {
	a := NewAggregator(nil)
	for _, k := range []model.BucketKey{"THEFT", "BATTERY", "THEFT", "ARSON"} {
		a.Add(k)
	}

	r := a.Result()
	assert.Equal(t, []model.BucketKey{"THEFT", "BATTERY", "ARSON"}, r.Order)
	assert.EqualValues(t, 4, r.Sum())

	// results are snapshots
	a.Add("THEFT")
	assert.EqualValues(t, 2, r.Counts["THEFT"])
}

func TestAggregatorSumInvariant(t *testing.T) {
	a := NewAggregator(model.TimeOfDayLabels)
	for i := 0; i < 1000; i++ {
		if i%7 == 0 {
			a.Skip()
			continue
		}
		a.Add(model.TimeOfDayLabels[i%8])
	}

	r := a.Result()
	assert.EqualValues(t, r.Total-r.Skipped, r.Sum())
}
