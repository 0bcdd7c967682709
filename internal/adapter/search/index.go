package search

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/goydb/goyreport/pkg/port"
)

const (
	textField = "text"
	batchSize = 1000
)

// Index is an in-memory full text index over one field of a
// collection.
type Index struct {
	idx     bleve.Index
	field   string
	indexed int
}

type Hit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

type Result struct {
	Total uint64 `json:"total_rows"`
	Hits  []Hit  `json:"rows"`
}

// Build reads the cursor to the end and indexes the string values
// of field. Documents without a string value are not indexed.
func Build(ctx context.Context, cursor port.Cursor, field string) (*Index, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, err
	}
	index := &Index{idx: idx, field: field}

	batch := idx.NewBatch()
	for {
		doc, err := cursor.Next(ctx)
		if err != nil {
			idx.Close()
			return nil, err
		}
		if doc == nil {
			break
		}

		text, ok := doc.Field(field).(string)
		if !ok {
			continue
		}
		err = batch.Index(doc.ID, map[string]interface{}{textField: text})
		if err != nil {
			idx.Close()
			return nil, fmt.Errorf("failed to index %q: %w", doc.ID, err)
		}
		index.indexed++

		if batch.Size() >= batchSize {
			err = idx.Batch(batch)
			if err != nil {
				idx.Close()
				return nil, err
			}
			batch = idx.NewBatch()
		}
	}

	if batch.Size() > 0 {
		err = idx.Batch(batch)
		if err != nil {
			idx.Close()
			return nil, err
		}
	}

	return index, nil
}

// Indexed returns the number of indexed documents.
func (i *Index) Indexed() int {
	return i.indexed
}

// Search runs a query string query (e.g. "+theft -retail").
func (i *Index) Search(ctx context.Context, query string, limit, skip int) (*Result, error) {
	q := bleve.NewQueryStringQuery(query)
	req := bleve.NewSearchRequestOptions(q, limit, skip, false)
	res, err := i.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Total: res.Total,
		Hits:  make([]Hit, len(res.Hits)),
	}
	for j, hit := range res.Hits {
		result.Hits[j] = Hit{ID: hit.ID, Score: hit.Score}
	}
	return result, nil
}

func (i *Index) Close() error {
	return i.idx.Close()
}
