package pipeline

import (
	"testing"

	"github.com/goydb/goyreport/pkg/model"
	"github.com/stretchr/testify/assert"
)

func TestBuildReportBucketOrder(t *testing.T) {
	a := NewAggregator(model.DayOfWeekLabels)
	a.Add("Saturday")
	a.Add("Saturday")
	a.Add("Monday")

	r := BuildReport("days", a.Result(), ByBucketOrder)
	assert.Len(t, r.Rows, 7)
	assert.Equal(t, model.BucketKey("Sunday"), r.Rows[0].Label)
	assert.Equal(t, model.BucketKey("Saturday"), r.Rows[6].Label)
	assert.EqualValues(t, 2, r.Count("Saturday"))
	assert.Equal(t, 3, r.Total)
}

func TestBuildReportCountDescStable(t *testing.T) {
	a := NewAggregator(nil)
	for _, k := range []model.BucketKey{"ARSON", "THEFT", "BATTERY", "THEFT", "NARCOTICS", "BATTERY", "THEFT"} {
		a.Add(k)
	}

	r := BuildReport("types", a.Result(), ByCountDesc)
	assert.Equal(t, []model.ReportRow{
		{Label: "THEFT", Count: 3},
		{Label: "BATTERY", Count: 2},
		{Label: "ARSON", Count: 1},
		{Label: "NARCOTICS", Count: 1},
	}, r.Rows)
	assert.Equal(t, "THEFT: 3", r.Rows[0].String())
}
