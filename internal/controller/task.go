package controller

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Task reruns all reports on an interval until the context ends.
// Unchanged collections are served from the report cache.
type Task struct {
	Reports  Reports
	Interval time.Duration
	Logger   *zap.Logger
}

func (c Task) Run(ctx context.Context) {
	t := time.NewTicker(c.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			err := c.ProcessAllReports(ctx)
			if err != nil && c.Logger != nil {
				c.Logger.Error("failed processing of all reports", zap.Error(err))
			}
		}
	}
}

func (c Task) ProcessAllReports(ctx context.Context) error {
	outcomes, err := c.Reports.RunAll(ctx)
	if err != nil {
		return err
	}

	if c.Logger != nil {
		for _, o := range outcomes {
			c.Logger.Debug("report processed",
				zap.String("report", o.Report.Name),
				zap.Bool("cached", o.Cached),
				zap.Int("write_errors", len(o.Errors)))
		}
	}
	return nil
}
