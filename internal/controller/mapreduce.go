package controller

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goydb/goyreport/internal/adapter/reducer"
	"github.com/goydb/goyreport/internal/adapter/view/gojaview"
	"github.com/goydb/goyreport/internal/adapter/view/tengoview"
	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
	"go.uber.org/zap"
)

const mapBatchSize = 1000

// MapReduce runs map/reduce queries over a collection.
type MapReduce struct {
	DB     port.Database
	Logger *zap.Logger
}

func (c MapReduce) ViewServer(q *model.MapReduceQuery) (port.ViewServer, error) {
	switch q.Language {
	case model.LanguageJavaScript, "":
		return gojaview.NewViewServer(q.Map)
	case model.LanguageTengo:
		return tengoview.NewViewServer(q.Map)
	default:
		return nil, fmt.Errorf("language %q unknown", q.Language)
	}
}

// Run maps every document of the collection matching the query,
// reduces the emitted values per key and, if Out is set, replaces
// the Out collection with {_id: key, value: value} documents.
func (c MapReduce) Run(ctx context.Context, collection string, q *model.MapReduceQuery) (*model.MapReduceResult, error) {
	err := q.Validate()
	if err != nil {
		return nil, err
	}

	server, err := c.ViewServer(q)
	if err != nil {
		return nil, err
	}
	red, err := reducer.New(q.Reduce)
	if err != nil {
		return nil, err
	}

	var filter model.Selector
	if q.Query != nil {
		filter = q.Query
	}
	cursor, err := c.DB.OpenCursor(ctx, collection, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var stats model.MapReduceStats
	docs := make([]*model.Document, 0, mapBatchSize)
	flush := func() error {
		if len(docs) == 0 {
			return nil
		}
		rows, err := server.ExecuteView(ctx, docs)
		if err != nil {
			return fmt.Errorf("map failed: %w", err)
		}
		stats.Input += len(docs)
		stats.Emit += len(rows)
		for _, row := range rows {
			red.Reduce(row)
		}
		docs = docs[:0]
		return nil
	}

	for {
		doc, err := cursor.Next(ctx)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			break
		}
		docs = append(docs, doc)
		if len(docs) == mapBatchSize {
			err = flush()
			if err != nil {
				return nil, err
			}
		}
	}
	err = flush()
	if err != nil {
		return nil, err
	}

	reduced, err := red.Result(ctx)
	if err != nil {
		return nil, fmt.Errorf("reduce failed: %w", err)
	}

	rows := make([]*model.Document, len(reduced))
	for i, r := range reduced {
		id, err := keyID(r.Key)
		if err != nil {
			return nil, err
		}
		rows[i] = &model.Document{
			ID:   id,
			Data: map[string]interface{}{"value": r.Value},
		}
	}
	stats.Output = len(rows)

	result := &model.MapReduceResult{Rows: rows, Out: q.Out, Stats: stats}
	if q.Out != "" {
		_, err = c.DB.ReplaceCollection(ctx, q.Out, rows)
		if err != nil {
			return nil, err
		}
	}

	if c.Logger != nil {
		c.Logger.Info("map/reduce finished",
			zap.String("collection", collection),
			zap.String("out", q.Out),
			zap.Int("input", stats.Input),
			zap.Int("emit", stats.Emit),
			zap.Int("output", stats.Output))
	}

	return result, nil
}

// keyID turns an emitted key into a document id, non string
// keys use their json form.
func keyID(key interface{}) (string, error) {
	if s, ok := key.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(key)
	if err != nil {
		return "", fmt.Errorf("invalid key %v: %w", key, err)
	}
	return string(b), nil
}
