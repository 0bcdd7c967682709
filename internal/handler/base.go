package handler

import (
	"time"

	"github.com/goydb/goyreport/internal/adapter/cache"
	"github.com/goydb/goyreport/internal/adapter/storage"
	"github.com/goydb/goyreport/internal/controller"
	"github.com/goydb/goyreport/internal/pipeline"
	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

type Base struct {
	Storage      *storage.Storage
	SessionStore sessions.Store
	Admins       model.AdminUsers
	Reports      ReportSettings
	Logger       *zap.Logger
}

func (b Base) logger() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

// ReportSettings configure the reports served over HTTP.
type ReportSettings struct {
	TimestampField string
	GroupByField   string
	Location       *time.Location
	OutputPrefix   string
	// Sinks receive persisted reports next to the output collection
	Sinks []port.ReportSink
	Cache *cache.Reports
	Retry controller.Retry
}

// Controller returns the report controller for a collection of db.
func (s ReportSettings) Controller(db *storage.Database, collection string, logger *zap.Logger) controller.Reports {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	return controller.Reports{
		DB:           db,
		Definitions:  pipeline.Definitions(collection, s.TimestampField, s.GroupByField, loc),
		OutputPrefix: s.OutputPrefix,
		Cache:        s.Cache,
		Retry:        s.Retry,
		Logger:       logger,
	}
}
