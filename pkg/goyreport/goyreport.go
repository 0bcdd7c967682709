package goyreport

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/goydb/goyreport/internal/adapter/cache"
	"github.com/goydb/goyreport/internal/adapter/sink"
	"github.com/goydb/goyreport/internal/adapter/storage"
	"github.com/goydb/goyreport/internal/controller"
	"github.com/goydb/goyreport/internal/handler"
	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
	"go.uber.org/zap"
)

// Goyreport is an opened storage with the configured database, the
// http handler and the report controller.
type Goyreport struct {
	Storage  *storage.Storage
	Database *storage.Database
	Handler  http.Handler
	Reports  controller.Reports
	Logger   *zap.Logger

	cache *cache.Reports
	kafka *sink.Kafka
}

func (c Config) BuildDatabase(logger *zap.Logger) (*Goyreport, error) {
	err := c.Validate()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	admins, err := model.ParseAdmins(c.Admins)
	if err != nil {
		return nil, err
	}
	if len(admins) == 0 {
		logger.Warn("no admins configured, everyone is admin")
	}
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	defs, err := c.Definitions()
	if err != nil {
		return nil, err
	}

	s, err := storage.Open(c.DatabaseDir,
		storage.WithLogger(logger),
		storage.WithReadBatchSize(c.ReadBatchSize))
	if err != nil {
		return nil, err
	}
	db, err := s.CreateDatabase(context.Background(), c.Database)
	if err != nil {
		s.Close()
		return nil, err
	}

	gr := &Goyreport{
		Storage:  s,
		Database: db,
		Logger:   logger,
	}

	if c.CacheSize > 0 {
		gr.cache, err = cache.NewReports(c.CacheSize)
		if err != nil {
			gr.Close()
			return nil, err
		}
	}

	var extraSinks []port.ReportSink
	if len(c.KafkaBrokers) > 0 {
		gr.kafka = sink.NewKafka(c.KafkaBrokers, c.KafkaTopic)
		extraSinks = append(extraSinks, gr.kafka)
	}

	retry := controller.Retry{Max: c.RetryMax, Interval: controller.DefaultRetryInterval}
	gr.Reports = controller.Reports{
		DB:           db,
		Definitions:  defs,
		OutputPrefix: c.OutputCollection,
		Sinks:        append([]port.ReportSink{sink.NewCollection(db)}, extraSinks...),
		Cache:        gr.cache,
		Retry:        retry,
		Logger:       logger,
	}

	r := mux.NewRouter()
	err = handler.Router{
		Storage:      s,
		SessionStore: sessions.NewCookieStore([]byte(c.SessionSecret)),
		Admins:       admins,
		Reports: handler.ReportSettings{
			TimestampField: c.TimestampField,
			GroupByField:   c.GroupByField,
			Location:       loc,
			OutputPrefix:   c.OutputCollection,
			Sinks:          extraSinks,
			Cache:          gr.cache,
			Retry:          retry,
		},
		Logger: logger,
	}.Build(r)
	if err != nil {
		gr.Close()
		return nil, err
	}
	gr.Handler = handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(logger)),
		handlers.PrintRecoveryStack(true),
	)(r)

	return gr, nil
}

// Task reruns all reports of the configured database.
func (gr *Goyreport) Task(c Config) controller.Task {
	return controller.Task{
		Reports:  gr.Reports,
		Interval: c.ReportInterval,
		Logger:   gr.Logger,
	}
}

func (gr *Goyreport) Close() error {
	var errs []error
	if gr.kafka != nil {
		errs = append(errs, gr.kafka.Close())
	}
	if gr.cache != nil {
		gr.cache.Close()
	}
	errs = append(errs, gr.Storage.Close())
	return errors.Join(errs...)
}
