package model

// BucketKey names one bucket of a report.
type BucketKey string

var DayOfWeekLabels = []BucketKey{
	"Sunday",
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
}

// TimeOfDayLabels are the eight three hour windows of a day.
var TimeOfDayLabels = []BucketKey{
	"12:01AM-3AM",
	"3:01AM - 6:00AM",
	"6:01AM - 9:00AM",
	"9:01AM - 12:00PM",
	"12:01PM - 3:00PM",
	"3:01PM - 6:00PM",
	"6:01PM - 9:00PM",
	"9:01PM - 12:00AM",
}

// AggregationResult holds the counts of one report run.
type AggregationResult struct {
	Counts map[BucketKey]int64
	// Order is the fixed label order of the report, or the order in
	// which keys were first seen if the bucket set is open.
	Order []BucketKey

	Total   int
	Skipped int
}

// Counted is the number of records that landed in a bucket.
func (r AggregationResult) Counted() int {
	return r.Total - r.Skipped
}

// Sum adds up all bucket counts.
func (r AggregationResult) Sum() int64 {
	var sum int64
	for _, c := range r.Counts {
		sum += c
	}
	return sum
}
