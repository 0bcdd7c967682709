package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/goydb/goyreport/internal/adapter/cache"
	"github.com/goydb/goyreport/internal/pipeline"
	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrUnknownReport = errors.New("unknown report")

// Reports runs report definitions against a database and
// emits the results to the sinks.
type Reports struct {
	DB          port.Database
	Definitions []pipeline.Definition
	// OutputPrefix is prepended to the output collection names
	OutputPrefix string
	Sinks        []port.ReportSink
	// Cache is optional
	Cache  *cache.Reports
	Retry  Retry
	Logger *zap.Logger
}

// Outcome is the result of one report run. Errors holds the
// failed writes, the report itself is complete.
type Outcome struct {
	Report *model.Report `json:"report"`
	Output string        `json:"output"`
	Cached bool          `json:"cached"`
	Errors []error       `json:"-"`
}

func (c Reports) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Definition returns the definition with the given name.
func (c Reports) Definition(name string) (pipeline.Definition, error) {
	for _, def := range c.Definitions {
		if def.Name == name {
			return def, nil
		}
	}
	return pipeline.Definition{}, fmt.Errorf("%w: %q", ErrUnknownReport, name)
}

// RunAll runs the named reports concurrently, all reports if no
// name is given. Outcomes are in the order of the names. A failed
// read aborts all reports, failed writes are only recorded.
func (c Reports) RunAll(ctx context.Context, names ...string) ([]*Outcome, error) {
	defs := c.Definitions
	if len(names) > 0 {
		defs = make([]pipeline.Definition, len(names))
		for i, name := range names {
			def, err := c.Definition(name)
			if err != nil {
				return nil, err
			}
			defs[i] = def
		}
	}

	outcomes := make([]*Outcome, len(defs))
	g, gctx := errgroup.WithContext(ctx)
	for i, def := range defs {
		g.Go(func() error {
			outcome, err := c.Run(gctx, def)
			if err != nil {
				return err
			}
			outcomes[i] = outcome
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}
	return outcomes, nil
}

// Run executes a single report. Results are served from the cache
// as long as the collection wasn't written.
func (c Reports) Run(ctx context.Context, def pipeline.Definition) (*Outcome, error) {
	logger := c.logger().With(zap.String("report", def.Name))
	outcome := &Outcome{Output: def.OutputCollection(c.OutputPrefix)}

	report, key, err := c.cached(ctx, def)
	if err != nil {
		return nil, err
	}

	if report != nil {
		outcome.Cached = true
	} else {
		runner := pipeline.Runner{Source: c.DB, Logger: logger}
		err = c.Retry.Do(ctx, func() error {
			var err error
			report, err = runner.Run(ctx, def)
			return err
		})
		if err != nil {
			return nil, err
		}
		if c.Cache != nil && key != "" {
			c.Cache.Set(key, report)
		}
	}
	outcome.Report = report

	for _, sink := range c.Sinks {
		err := c.Retry.Do(ctx, func() error {
			return sink.Emit(ctx, report, outcome.Output)
		})
		if err == nil {
			continue
		}
		if errors.Is(err, port.ErrConnection) || errors.Is(err, context.Canceled) {
			return nil, err
		}

		var werr *model.WriteError
		if !errors.As(err, &werr) {
			werr = &model.WriteError{Collection: outcome.Output, Err: err}
		}
		logger.Error("emitting report failed", zap.String("sink", sink.Name()), zap.Int("affected", werr.Affected), zap.Error(err))
		outcome.Errors = append(outcome.Errors, werr)
	}

	return outcome, nil
}

// cached returns the cached report if present and the cache key.
func (c Reports) cached(ctx context.Context, def pipeline.Definition) (*model.Report, string, error) {
	if c.Cache == nil {
		return nil, "", nil
	}

	var seq uint64
	err := c.Retry.Do(ctx, func() error {
		var err error
		seq, err = c.DB.Sequence(ctx, def.Collection)
		return err
	})
	if err != nil {
		return nil, "", err
	}

	key, err := cache.Key(c.DB.Name(), def.Collection, def.Name, seq, def.Filter)
	if err != nil {
		return nil, "", err
	}

	report, ok := c.Cache.Get(key)
	if !ok {
		return nil, key, nil
	}
	return report, key, nil
}
