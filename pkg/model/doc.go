package model

import (
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/mgo.v2/bson"
)

// Document is the unit stored in a collection. Map/reduce rows
// reuse the type and carry their result in Key and Value.
type Document struct {
	ID      string                 `json:"_id,omitempty" bson:"_id,omitempty"`
	Rev     string                 `json:"_rev,omitempty" bson:"_rev,omitempty"`
	Deleted bool                   `json:"_deleted,omitempty" bson:"_deleted,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty" bson:"data,omitempty"`
	Key     interface{}            `json:"key,omitempty" bson:"key,omitempty"`
	Value   interface{}            `json:"value,omitempty" bson:"value,omitempty"`
}

// NewDocumentID returns a fresh ObjectId in hex form, the same
// identifiers a mongo driver assigns on insert.
func NewDocumentID() string {
	return bson.NewObjectId().Hex()
}

// NewDocument builds a document from a plain map, picking up
// _id and _rev if they are present.
func NewDocument(data map[string]interface{}) *Document {
	doc := &Document{Data: data}
	if doc.Data == nil {
		doc.Data = make(map[string]interface{})
	}
	if id, ok := doc.Data["_id"].(string); ok {
		doc.ID = id
	}
	if rev, ok := doc.Data["_rev"].(string); ok {
		doc.Rev = rev
	}
	return doc
}

func (doc Document) ValidUpdateRevision(newDoc *Document) bool {
	oldRev, ok := doc.Revision()
	if ok {
		newRev, ok := newDoc.Revision()
		if ok && newRev != oldRev {
			// an update that names a revision must name the current one
			return false
		}
	}
	return true
}

func (doc Document) Revision() (string, bool) {
	if doc.Rev != "" {
		return doc.Rev, true
	}
	rev, ok := doc.Data["_rev"].(string)
	return rev, ok && rev != ""
}

// NextSequence returns the generation number of the next revision.
func (doc Document) NextSequence() int {
	rev, ok := doc.Revision()
	if !ok {
		return 1
	}

	i := strings.Index(rev, "-")
	if i < 0 {
		return 1
	}
	val, err := strconv.ParseInt(rev[:i], 10, 64)
	if err != nil {
		return 1
	}
	return int(val) + 1
}

// Body returns the user visible document, the data plus _id and _rev.
func (doc Document) Body() map[string]interface{} {
	body := make(map[string]interface{}, len(doc.Data)+2)
	for k, v := range doc.Data {
		body[k] = v
	}
	body["_id"] = doc.ID
	if doc.Rev != "" {
		body["_rev"] = doc.Rev
	}
	return body
}

// Field walks a dotted path through the document data. It returns
// nil if any part of the path is missing.
func (doc *Document) Field(path string) interface{} {
	if doc.Data == nil {
		return nil
	}
	if path == "_id" {
		return doc.ID
	}

	var v interface{} = doc.Data
	for _, part := range strings.Split(path, ".") {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
			return nil
		}

		value := rv.MapIndex(reflect.ValueOf(part).Convert(rv.Type().Key()))
		if !value.IsValid() {
			return nil
		}
		v = value.Interface()
		if v == nil {
			return nil
		}
	}

	return v
}

func (doc *Document) Exists(path string) bool {
	return doc.Field(path) != nil
}

// Normalize converts the nested bson.M and bson.D values produced by
// the decoder into plain maps and slices.
func Normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case bson.M:
		return normalizeMap(t)
	case map[string]interface{}:
		return normalizeMap(t)
	case bson.D:
		m := make(map[string]interface{}, len(t))
		for _, e := range t {
			m[e.Name] = Normalize(e.Value)
		}
		return m
	case []interface{}:
		for i := range t {
			t[i] = Normalize(t[i])
		}
		return t
	default:
		return v
	}
}

func normalizeMap(m map[string]interface{}) map[string]interface{} {
	for k, v := range m {
		m[k] = Normalize(v)
	}
	return m
}
