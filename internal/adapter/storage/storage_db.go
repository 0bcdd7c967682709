package storage

import (
	"context"
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
	"go.uber.org/zap"
	"gopkg.in/mgo.v2/bson"
)

var _ port.Database = (*Database)(nil)

// changesPrefix marks the buckets that log the writes of a
// collection. Their sequence is the collection sequence.
const changesPrefix = "_changes:"

type Database struct {
	name      string
	engine    port.DatabaseEngine
	logger    *zap.Logger
	batchSize int
}

func (d *Database) Name() string {
	return d.name
}

func (d *Database) String() string {
	collections, err := d.Collections(context.Background())
	if err == nil {
		return fmt.Sprintf("<Database name=%q collections=%d>", d.name, len(collections))
	}

	return fmt.Sprintf("<Database name=%q collections=%v>", d.name, err)
}

func validCollection(collection string) error {
	if collection == "" || strings.HasPrefix(collection, "_") {
		return fmt.Errorf("collection %q: %w", collection, port.ErrInvalidName)
	}
	return nil
}

func changesBucket(collection string) []byte {
	return []byte(changesPrefix + collection)
}

// changeKey orders the change log by sequence
func changeKey(key []byte, seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

// logChange records a write of docID, increasing the
// collection sequence.
func logChange(tx port.EngineWriteTransaction, collection, docID string) {
	tx.PutWithSequence(changesBucket(collection), nil, []byte(docID), changeKey)
}

func encodeDocument(doc *model.Document) ([]byte, error) {
	return bson.Marshal(doc)
}

func decodeDocument(data []byte) (*model.Document, error) {
	var doc model.Document
	err := bson.Unmarshal(data, &doc)
	if err != nil {
		return nil, err
	}
	if doc.Data == nil {
		doc.Data = make(map[string]interface{})
	} else {
		model.Normalize(doc.Data)
	}
	return &doc, nil
}

// revision derives the next revision of doc following the
// revision of the stored document (if any).
func revision(oldDoc, doc *model.Document) (string, error) {
	seq := 1
	if oldDoc != nil {
		seq = oldDoc.NextSequence()
	}

	hash := md5.New()
	err := cbor.NewEncoder(hash).Encode(map[string]interface{}{
		"_id":  doc.ID,
		"data": doc.Data,
	})
	if err != nil {
		return "", err
	}

	return strconv.Itoa(seq) + "-" + hex.EncodeToString(hash.Sum(nil)), nil
}

// getDocument returns nil if the document doesn't exist.
func getDocument(tx port.EngineReadTransaction, collection, docID string) (*model.Document, error) {
	data, err := tx.Get([]byte(collection), []byte(docID))
	if errors.Is(err, port.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeDocument(data)
}

// putDocument stores doc after oldDoc and sets the new revision
// on doc. _id and _rev are kept out of the data.
func putDocument(tx port.EngineWriteTransaction, collection string, oldDoc, doc *model.Document) (string, error) {
	delete(doc.Data, "_id")
	delete(doc.Data, "_rev")

	rev, err := revision(oldDoc, doc)
	if err != nil {
		return "", err
	}
	doc.Rev = rev

	data, err := encodeDocument(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode document %q: %w", doc.ID, err)
	}

	tx.Put([]byte(collection), []byte(doc.ID), data)
	logChange(tx, collection, doc.ID)

	return rev, nil
}

func ensureCollection(tx port.EngineWriteTransaction, collection string) {
	tx.EnsureBucket([]byte(collection))
	tx.EnsureBucket(changesBucket(collection))
}
