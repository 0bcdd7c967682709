package model

import "time"

// EventRecord is the typed view of a stored event that the reports
// work on. It is built from a document by the field extractor and
// never written back. A record carries a timestamp, a group or both.
type EventRecord struct {
	ID        string      `mapstructure:"_id" validate:"required"`
	Timestamp interface{} `mapstructure:"timestamp"`
	// Group is the raw group value, the empty string is a valid group
	Group string `mapstructure:"group"`
	// HasGroup is set when the group field was present
	HasGroup bool `mapstructure:"-"`

	// Time is the parsed Timestamp
	Time time.Time `mapstructure:"-"`
}

// Weekday returns 0 (Sunday) through 6 (Saturday).
func (r EventRecord) Weekday() int {
	return int(r.Time.Weekday())
}

// Hour returns the hour of day, 0 through 23.
func (r EventRecord) Hour() int {
	return r.Time.Hour()
}
