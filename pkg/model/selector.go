package model

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
)

// DocumentField provide a field from a document
// handles nested document traversal
type DocumentField interface {
	// Field get a field value (nesting supported with . operator)
	Field(path string) interface{}
	Exists(path string) bool
}

// Selector matches a document or doesn't
type Selector interface {
	// Match returns true if the selector matched
	// the passed otherwise false
	Match(df DocumentField) (bool, error)
	String() string
}

type SelectorGroupOp string

const (
	SelectorAnd SelectorGroupOp = "$and" // Matches if all the selectors in the array match.
	SelectorOr  SelectorGroupOp = "$or"  // Matches if any of the selectors in the array match.
	SelectorNot SelectorGroupOp = "$not" // Matches if the given selector does not match.
	SelectorNor SelectorGroupOp = "$nor" // Matches if none of the selectors in the array match.
)

type SelectorOp string

const (
	SelectorOpLt     SelectorOp = "$lt"     // The field is less than the argument
	SelectorOpLte    SelectorOp = "$lte"    // The field is less than or equal to the argument.
	SelectorOpEq     SelectorOp = "$eq"     // The field is equal to the argument
	SelectorOpNe     SelectorOp = "$ne"     // The field is not equal to the argument.
	SelectorOpGte    SelectorOp = "$gte"    // The field is greater than or equal to the argument.
	SelectorOpGt     SelectorOp = "$gt"     // The field is greater than the to the argument.
	SelectorOpExists SelectorOp = "$exists" // Check whether the field exists or not, regardless of its value.
	SelectorOpIn     SelectorOp = "$in"     // The document field must exist in the list provided.
	SelectorOpNin    SelectorOp = "$nin"    // The document field not must exist in the list provided.
	SelectorOpRegex  SelectorOp = "$regex"  // A regular expression (https://golang.org/pkg/regexp/) the string field has to match.
)

var fieldOps = map[SelectorOp]bool{
	SelectorOpLt:     true,
	SelectorOpLte:    true,
	SelectorOpEq:     true,
	SelectorOpNe:     true,
	SelectorOpGte:    true,
	SelectorOpGt:     true,
	SelectorOpExists: true,
	SelectorOpIn:     true,
	SelectorOpNin:    true,
	SelectorOpRegex:  true,
}

// SelectorGroup combines member selectors. The zero value is an
// empty $and and matches every document.
type SelectorGroup struct {
	Members   []Selector
	Operation SelectorGroupOp
}

// ParseSelector builds a selector from a decoded JSON object, e.g.
//
//	{"Primary Type": "THEFT", "Date": {"$gte": "01/01/2015"}}
func ParseSelector(def map[string]interface{}) (*SelectorGroup, error) {
	sg := &SelectorGroup{Operation: SelectorAnd}

	// stable member order makes String() usable as a cache key
	keys := make([]string, 0, len(def))
	for k := range def {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := def[key]
		switch SelectorGroupOp(key) {
		case SelectorAnd, SelectorOr, SelectorNor:
			list, ok := value.([]interface{})
			if !ok {
				return nil, fmt.Errorf("%s expects an array, got %T", key, value)
			}
			sub := &SelectorGroup{Operation: SelectorGroupOp(key)}
			for i, elem := range list {
				m, ok := elem.(map[string]interface{})
				if !ok {
					return nil, fmt.Errorf("%s element %d is no object", key, i)
				}
				member, err := ParseSelector(m)
				if err != nil {
					return nil, err
				}
				sub.Members = append(sub.Members, member)
			}
			sg.Members = append(sg.Members, sub)
		case SelectorNot:
			m, ok := value.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("$not expects an object, got %T", value)
			}
			member, err := ParseSelector(m)
			if err != nil {
				return nil, err
			}
			sg.Members = append(sg.Members, &SelectorGroup{
				Operation: SelectorNot,
				Members:   []Selector{member},
			})
		default:
			members, err := parseField(key, value)
			if err != nil {
				return nil, err
			}
			sg.Members = append(sg.Members, members...)
		}
	}

	return sg, nil
}

func parseField(field string, value interface{}) ([]Selector, error) {
	def, ok := value.(map[string]interface{})
	if !ok {
		return []Selector{&FieldSelector{Field: field, Operation: SelectorOpEq, Value: value}}, nil
	}

	keys := make([]string, 0, len(def))
	for k := range def {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var members []Selector
	for _, k := range keys {
		if !strings.HasPrefix(k, "$") {
			// nested field
			nested, err := parseField(field+"."+k, def[k])
			if err != nil {
				return nil, err
			}
			members = append(members, nested...)
			continue
		}

		op := SelectorOp(k)
		if !fieldOps[op] {
			return nil, fmt.Errorf("undefined operation: %q", k)
		}
		fs := &FieldSelector{Field: field, Operation: op, Value: def[k]}
		if op == SelectorOpRegex {
			pattern, ok := def[k].(string)
			if !ok {
				return nil, fmt.Errorf("value has to be of type string")
			}
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("failed to compile regex: %w", err)
			}
			fs.re = re
		}
		members = append(members, fs)
	}

	return members, nil
}

func (sg *SelectorGroup) UnmarshalJSON(blob []byte) error {
	var def map[string]interface{}
	err := json.Unmarshal(blob, &def)
	if err != nil {
		return err
	}
	parsed, err := ParseSelector(def)
	if err != nil {
		return err
	}
	*sg = *parsed
	return nil
}

func (sg SelectorGroup) String() string {
	members := make([]string, len(sg.Members))
	for i, m := range sg.Members {
		members[i] = m.String()
	}
	op := sg.Operation
	if op == "" {
		op = SelectorAnd
	}

	return fmt.Sprintf("%s(%v)", string(op), strings.Join(members, ", "))
}

func (sg SelectorGroup) Match(df DocumentField) (bool, error) {
	switch sg.Operation {
	case SelectorAnd, "":
		for _, m := range sg.Members {
			ok, err := m.Match(df)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case SelectorOr:
		for _, m := range sg.Members {
			ok, err := m.Match(df)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case SelectorNot:
		if len(sg.Members) == 0 {
			return false, nil
		}
		ok, err := sg.Members[0].Match(df)
		return !ok, err
	case SelectorNor:
		for _, m := range sg.Members {
			ok, err := m.Match(df)
			if err != nil {
				return false, err
			}
			if ok {
				return false, nil
			}
		}
		return true, nil
	default:
		return false, fmt.Errorf("undefined operation: %q", sg.Operation)
	}
}

type FieldSelector struct {
	Field     string
	Value     interface{}
	Operation SelectorOp

	re *regexp.Regexp
}

func (fs FieldSelector) String() string {
	return fmt.Sprintf("%s(%v, %v)", string(fs.Operation), fs.Field, fs.Value)
}

func (fs FieldSelector) Match(df DocumentField) (bool, error) {
	field := df.Field(fs.Field)

	switch fs.Operation {
	case SelectorOpEq:
		return equalValues(field, fs.Value), nil
	case SelectorOpNe:
		return !equalValues(field, fs.Value), nil
	case SelectorOpLt:
		c, ok := compareValues(field, fs.Value)
		return ok && c < 0, nil
	case SelectorOpLte:
		c, ok := compareValues(field, fs.Value)
		return ok && c <= 0, nil
	case SelectorOpGt:
		c, ok := compareValues(field, fs.Value)
		return ok && c > 0, nil
	case SelectorOpGte:
		c, ok := compareValues(field, fs.Value)
		return ok && c >= 0, nil
	case SelectorOpExists:
		want, ok := fs.Value.(bool)
		if !ok {
			return false, fmt.Errorf("$exists expects a boolean")
		}
		return df.Exists(fs.Field) == want, nil
	case SelectorOpIn, SelectorOpNin:
		list, ok := fs.Value.([]interface{})
		if !ok {
			return false, fmt.Errorf("%s expects an array", fs.Operation)
		}
		found := false
		for _, v := range list {
			if equalValues(field, v) {
				found = true
				break
			}
		}
		if fs.Operation == SelectorOpIn {
			return found, nil
		}
		return !found, nil
	case SelectorOpRegex:
		s, ok := field.(string)
		if !ok {
			return false, nil
		}
		re := fs.re
		if re == nil {
			var err error
			re, err = regexp.Compile(fmt.Sprint(fs.Value))
			if err != nil {
				return false, fmt.Errorf("failed to compile regex: %w", err)
			}
		}
		return re.MatchString(s), nil
	default:
		return false, fmt.Errorf("undefined operation: %q", fs.Operation)
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func equalValues(a, b interface{}) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders numbers and strings, ok is false for values
// that can't be ordered against each other.
func compareValues(a, b interface{}) (int, bool) {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		default:
			return 0, true
		}
	}

	sa, ok := a.(string)
	if !ok {
		return 0, false
	}
	sb, ok := b.(string)
	if !ok {
		return 0, false
	}
	return strings.Compare(sa, sb), true
}
