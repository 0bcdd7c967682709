package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
)

var _ port.ReportSink = (*Lines)(nil)

// Lines prints reports as "<label>: <count>" lines. Reports emitted
// concurrently are written as whole blocks, one at a time.
type Lines struct {
	W io.Writer

	mu sync.Mutex
}

func NewLines(w io.Writer) *Lines {
	return &Lines{W: w}
}

func (s *Lines) Name() string {
	return "lines"
}

func (s *Lines) Emit(ctx context.Context, report *model.Report, output string) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s of %s\n", report.Name, report.Collection)
	for _, row := range report.Rows {
		fmt.Fprintln(&buf, row.String())
	}
	fmt.Fprintf(&buf, "total: %d skipped: %d\n", report.Total, report.Skipped)

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.W.Write(buf.Bytes())
	return err
}
