package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/goydb/goyreport/internal/adapter/sink"
	"github.com/goydb/goyreport/internal/controller"
	"github.com/goydb/goyreport/pkg/goyreport"
	"github.com/goydb/goyreport/pkg/model"
	"go.uber.org/zap"
)

const usage = `usage: goyreport [flags] <command> [args]

commands:
  serve                 serve the http api (default)
  report [names...]     run reports (day_of_week, time_of_day, type)
  mapreduce <file.json> run a map/reduce query over the source collection
  import <file.csv>     import a csv export into the source collection
  demo                  run the bank customer demo

flags:
`

func main() {
	cfg, err := goyreport.NewConfig()
	if err != nil {
		log.Fatal(err)
	}

	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	cfg.ParseFlags()

	logger, err := cfg.Logger()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync() // nolint: errcheck

	gr, err := cfg.BuildDatabase(logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command, args := "serve", flag.Args()
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		err = serve(ctx, cfg, gr)
	case "report":
		err = report(ctx, gr, args)
	case "mapreduce":
		err = mapReduce(ctx, cfg, gr, args)
	case "import":
		err = importCSV(ctx, cfg, gr, args)
	case "demo":
		err = demo(ctx, gr)
	default:
		flag.Usage()
		err = fmt.Errorf("unknown command %q", command)
	}

	closeErr := gr.Close()
	if err != nil {
		logger.Fatal("command failed", zap.String("command", command), zap.Error(err))
	}
	if closeErr != nil {
		logger.Error("closing failed", zap.Error(closeErr))
	}
}

func serve(ctx context.Context, cfg *goyreport.Config, gr *goyreport.Goyreport) error {
	if cfg.ReportInterval > 0 {
		go gr.Task(*cfg).Run(ctx)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           handlers.LoggingHandler(os.Stdout, gr.Handler),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx) // nolint: errcheck
	}()

	gr.Logger.Info("listening", zap.String("address", cfg.ListenAddress))
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func report(ctx context.Context, gr *goyreport.Goyreport, names []string) error {
	c := gr.Reports
	c.Sinks = append(c.Sinks, sink.NewLines(os.Stdout))

	outcomes, err := c.RunAll(ctx, names...)
	if err != nil {
		return err
	}
	for _, o := range outcomes {
		for _, err := range o.Errors {
			gr.Logger.Error("report output incomplete", zap.String("report", o.Report.Name), zap.Error(err))
		}
	}
	return nil
}

func mapReduce(ctx context.Context, cfg *goyreport.Config, gr *goyreport.Goyreport, args []string) error {
	if len(args) != 1 {
		return errors.New("mapreduce needs a query file")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var q model.MapReduceQuery
	err = json.Unmarshal(data, &q)
	if err != nil {
		return fmt.Errorf("invalid query %q: %w", args[0], err)
	}

	result, err := controller.MapReduce{DB: gr.Database, Logger: gr.Logger}.Run(ctx, cfg.SourceCollection, &q)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	for _, row := range result.Rows {
		err = enc.Encode(row.Body())
		if err != nil {
			return err
		}
	}
	return nil
}

func importCSV(ctx context.Context, cfg *goyreport.Config, gr *goyreport.Goyreport, args []string) error {
	if len(args) != 1 {
		return errors.New("import needs a csv file")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	importer := controller.Importer{
		DB:     gr.Database,
		Logger: gr.Logger,
		Retry:  gr.Reports.Retry,
	}
	_, err = importer.ImportCSV(ctx, cfg.SourceCollection, f)
	return err
}

func demo(ctx context.Context, gr *goyreport.Goyreport) error {
	result, err := controller.BankDemo{DB: gr.Database, Logger: gr.Logger}.Run(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
