package pipeline

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goydb/goyreport/pkg/model"
	"github.com/mitchellh/mapstructure"
)

var (
	ErrMissingField     = errors.New("field is missing")
	ErrInvalidTimestamp = errors.New("not a valid timestamp")
)

// timestampLayouts are tried in order for string timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 03:04:05 PM",
	"01/02/2006 15:04",
	"01/02/2006",
}

var validate = validator.New()

// Extractor turns stored documents into event records. Only the
// configured fields are read, an empty field name is not extracted.
type Extractor struct {
	TimestampField string
	GroupByField   string
	// Location is used for timestamps without zone and for
	// the weekday and hour of all timestamps. Defaults to UTC.
	Location *time.Location
}

// Extract builds the record of doc. Absent or unparseable fields
// result in a *model.ParseError.
func (e Extractor) Extract(doc *model.Document) (model.EventRecord, error) {
	var rec model.EventRecord

	input := map[string]interface{}{
		"_id": doc.ID,
	}
	if e.TimestampField != "" {
		ts := doc.Field(e.TimestampField)
		if ts == nil {
			return rec, &model.ParseError{DocID: doc.ID, Field: e.TimestampField, Err: ErrMissingField}
		}
		input["timestamp"] = ts
	}
	if e.GroupByField != "" {
		group := doc.Field(e.GroupByField)
		if group == nil {
			return rec, &model.ParseError{DocID: doc.ID, Field: e.GroupByField, Err: ErrMissingField}
		}
		input["group"] = group
	}

	err := mapstructure.Decode(input, &rec)
	if err != nil {
		// only group can fail to decode, timestamp takes any value
		return rec, &model.ParseError{DocID: doc.ID, Field: e.GroupByField, Value: input["group"], Err: err}
	}

	rec.HasGroup = e.GroupByField != ""

	err = validate.Struct(rec)
	if err != nil {
		return rec, &model.ParseError{DocID: doc.ID, Field: e.fieldOf(err), Err: err}
	}

	if e.TimestampField != "" {
		rec.Time, err = ParseTimestamp(rec.Timestamp, e.location())
		if err != nil {
			return rec, &model.ParseError{DocID: doc.ID, Field: e.TimestampField, Value: rec.Timestamp, Err: err}
		}
	}

	return rec, nil
}

func (e Extractor) location() *time.Location {
	if e.Location == nil {
		return time.UTC
	}
	return e.Location
}

// fieldOf maps a validation failure back to the document field.
func (e Extractor) fieldOf(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ""
	}
	for _, fe := range verrs {
		switch {
		case fe.Field() == "ID":
			return "_id"
		case fe.Field() == "Timestamp" && e.TimestampField != "":
			return e.TimestampField
		case fe.Field() == "Group" && e.GroupByField != "":
			return e.GroupByField
		}
	}
	return ""
}

// ParseTimestamp accepts times, epoch milliseconds and the string
// layouts of common exports. The result is in loc.
func ParseTimestamp(v interface{}, loc *time.Location) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.In(loc), nil
	case int:
		return time.UnixMilli(int64(t)).In(loc), nil
	case int32:
		return time.UnixMilli(int64(t)).In(loc), nil
	case int64:
		return time.UnixMilli(t).In(loc), nil
	case float64:
		// beyond ±2^63 the conversion to int64 is undefined
		if math.IsNaN(t) || t >= math.MaxInt64 || t <= math.MinInt64 {
			return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTimestamp, t)
		}
		return time.UnixMilli(int64(t)).In(loc), nil
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timestampLayouts {
			ts, err := time.ParseInLocation(layout, s, loc)
			if err == nil {
				return ts.In(loc), nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, t)
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidTimestamp, v)
	}
}
