package cache

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/dgraph-io/ristretto"
	"github.com/fxamacker/cbor/v2"
	"github.com/goydb/goyreport/pkg/model"
)

// DefaultSize is the number of report rows kept by default.
const DefaultSize = 1 << 16

// Reports caches finished reports. Entries are keyed by the
// collection sequence, a write to the collection invalidates them.
type Reports struct {
	cache *ristretto.Cache
}

// NewReports returns a cache holding up to size report rows.
func NewReports(size int64) (*Reports, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: size * 10,
		MaxCost:     size,
		BufferItems: 64,

		// cost is counted in rows
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &Reports{cache: c}, nil
}

// Key identifies a report run over the given state of a collection.
func Key(database, collection, report string, sequence uint64, filter model.Selector) (string, error) {
	var f string
	if filter != nil {
		f = filter.String()
	}

	hash := md5.New()
	err := cbor.NewEncoder(hash).Encode([]interface{}{database, collection, report, sequence, f})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

func (c *Reports) Get(key string) (*model.Report, bool) {
	v, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	report, ok := v.(*model.Report)
	if !ok {
		return nil, false
	}
	return clone(report), true
}

// Set stores the report and waits until it is visible to Get.
// The cache may still reject it.
func (c *Reports) Set(key string, report *model.Report) bool {
	ok := c.cache.Set(key, clone(report), int64(len(report.Rows)+1))
	c.cache.Wait()
	return ok
}

func (c *Reports) Close() {
	c.cache.Close()
}

func clone(report *model.Report) *model.Report {
	r := *report
	r.Rows = append([]model.ReportRow(nil), report.Rows...)
	return &r
}
