package controller

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
	"go.uber.org/zap"
)

const importBatchSize = 1000

// Importer loads CSV exports into a collection.
type Importer struct {
	DB     port.Database
	Logger *zap.Logger
	Retry  Retry
}

// ImportCSV reads the header row as field names and stores every
// following row as a document. An ID column becomes the document
// id. Rows are written in batches, one transaction each.
func (c Importer) ImportCSV(ctx context.Context, collection string, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	header = append([]string(nil), header...)
	idColumn := -1
	for i, name := range header {
		if name == "ID" {
			idColumn = i
		}
	}

	var total int
	batch := make([]*model.Document, 0, importBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := c.Retry.Do(ctx, func() error {
			_, err := c.DB.InsertMany(ctx, collection, batch)
			return err
		})
		if err != nil {
			return &model.WriteError{Collection: collection, Affected: total, Err: err}
		}
		total += len(batch)
		if c.Logger != nil {
			c.Logger.Debug("imported batch", zap.String("collection", collection), zap.Int("total", total))
		}
		batch = make([]*model.Document, 0, importBatchSize)
		return nil
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return total, fmt.Errorf("read row: %w", err)
		}

		data := make(map[string]interface{}, len(header))
		for i, value := range record {
			if i < len(header) {
				data[header[i]] = value
			}
		}
		doc := &model.Document{Data: data}
		if idColumn >= 0 && idColumn < len(record) {
			doc.ID = record[idColumn]
		}
		batch = append(batch, doc)

		if len(batch) == importBatchSize {
			err = flush()
			if err != nil {
				return total, err
			}
		}
	}

	err = flush()
	if err != nil {
		return total, err
	}

	if c.Logger != nil {
		c.Logger.Info("import finished", zap.String("collection", collection), zap.Int("documents", total))
	}
	return total, nil
}
