package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/goydb/goyreport/internal/adapter/sink"
	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
)

// Report runs a built-in report over the collection. With
// persist=true the rows replace the output collection and are sent
// to the configured sinks.
type Report struct {
	Base
}

func (s *Report) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	db, coll, ok := (Database{Base: s.Base}.Access(w, r))
	if !ok {
		return
	}

	c := s.Reports.Controller(db, coll, s.logger())
	def, err := c.Definition(mux.Vars(r)["report"])
	if err != nil {
		s.WriteStoreError(w, r, err)
		return
	}

	persist := boolOption("persist", false, r.URL.Query())
	if persist {
		c.Sinks = append([]port.ReportSink{sink.NewCollection(db)}, s.Reports.Sinks...)
	}

	outcome, err := c.Run(r.Context(), def)
	if err != nil {
		s.WriteStoreError(w, r, err)
		return
	}

	resp := ReportResponse{
		Report:    outcome.Report,
		Cached:    outcome.Cached,
		Persisted: persist && len(outcome.Errors) == 0,
	}
	if persist {
		resp.Output = outcome.Output
	}
	for _, err := range outcome.Errors {
		resp.Errors = append(resp.Errors, err.Error())
	}

	writeJSON(w, http.StatusOK, resp)
}

type ReportResponse struct {
	*model.Report
	Output    string   `json:"output,omitempty"`
	Cached    bool     `json:"cached"`
	Persisted bool     `json:"persisted"`
	Errors    []string `json:"errors,omitempty"`
}
