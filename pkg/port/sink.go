package port

import (
	"context"

	"github.com/goydb/goyreport/pkg/model"
)

// ReportSink emits a finished report.
type ReportSink interface {
	Name() string
	Emit(ctx context.Context, report *model.Report, output string) error
}
