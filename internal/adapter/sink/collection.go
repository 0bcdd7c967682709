package sink

import (
	"context"
	"errors"

	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
)

var _ port.ReportSink = (*Collection)(nil)

// Collection replaces the output collection with one
// {_id: label, value: count} document per row.
type Collection struct {
	Writer port.DocumentWriter
}

func NewCollection(w port.DocumentWriter) *Collection {
	return &Collection{Writer: w}
}

func (s *Collection) Name() string {
	return "collection"
}

func (s *Collection) Emit(ctx context.Context, report *model.Report, output string) error {
	docs := make([]*model.Document, len(report.Rows))
	for i, row := range report.Rows {
		docs[i] = row.Document()
	}

	_, err := s.Writer.ReplaceCollection(ctx, output, docs)
	if err != nil {
		var werr *model.WriteError
		if errors.As(err, &werr) {
			return err
		}
		return &model.WriteError{Collection: output, Err: err}
	}
	return nil
}
