package pipeline

import (
	"fmt"

	"github.com/goydb/goyreport/pkg/model"
)

// Assigner maps a record onto the bucket it is counted in.
type Assigner interface {
	Assign(rec model.EventRecord) (model.BucketKey, error)
	// Labels returns the fixed bucket labels in report order,
	// nil if the set of buckets is open.
	Labels() []model.BucketKey
}

var (
	_ Assigner = DayOfWeek{}
	_ Assigner = TimeOfDay{}
	_ Assigner = GroupBy{}
)

type DayOfWeek struct{}

func (DayOfWeek) Assign(rec model.EventRecord) (model.BucketKey, error) {
	return model.DayOfWeekLabels[rec.Weekday()], nil
}

func (DayOfWeek) Labels() []model.BucketKey {
	return model.DayOfWeekLabels
}

// TimeOfDay buckets records into eight three hour windows.
type TimeOfDay struct{}

func (TimeOfDay) Assign(rec model.EventRecord) (model.BucketKey, error) {
	i := TimeOfDayIndex(rec.Hour())
	if i < 0 {
		return "", &model.ParseError{DocID: rec.ID, Field: "hour", Err: fmt.Errorf("hour %d out of range", rec.Hour())}
	}
	return model.TimeOfDayLabels[i], nil
}

func (TimeOfDay) Labels() []model.BucketKey {
	return model.TimeOfDayLabels
}

// TimeOfDayIndex returns the window of the hour: 0-2 is window 0,
// 21-23 is window 7. Hours outside 0-23 return -1.
func TimeOfDayIndex(hour int) int {
	switch {
	case hour < 0 || hour > 23:
		return -1
	case hour == 0:
		// midnight opens the first window
		return 0
	default:
		return hour / 3
	}
}

// GroupBy buckets records by the raw value of their group field.
// An empty value is a bucket of its own.
type GroupBy struct {
	Field string
}

func (g GroupBy) Assign(rec model.EventRecord) (model.BucketKey, error) {
	if !rec.HasGroup {
		return "", &model.ParseError{DocID: rec.ID, Field: g.Field, Err: ErrMissingField}
	}
	return model.BucketKey(rec.Group), nil
}

func (GroupBy) Labels() []model.BucketKey {
	return nil
}
