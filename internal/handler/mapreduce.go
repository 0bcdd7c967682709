package handler

import (
	"encoding/json"
	"net/http"

	"github.com/goydb/goyreport/internal/controller"
	"github.com/goydb/goyreport/pkg/model"
)

// MapReduce runs a map/reduce query over the collection. The
// reduced rows are returned and, if out is set, written to out.
type MapReduce struct {
	Base
}

func (s *MapReduce) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	db, coll, ok := (Database{Base: s.Base}.Access(w, r))
	if !ok {
		return
	}

	var q model.MapReduceQuery
	err := json.NewDecoder(r.Body).Decode(&q)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	err = q.Validate()
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := controller.MapReduce{DB: db, Logger: s.logger()}.Run(r.Context(), coll, &q)
	if err != nil {
		s.WriteStoreError(w, r, err)
		return
	}

	resp := MapReduceResponse{
		Out:   result.Out,
		Stats: result.Stats,
		Rows:  make([]map[string]interface{}, len(result.Rows)),
	}
	for i, row := range result.Rows {
		resp.Rows[i] = row.Body()
	}

	writeJSON(w, http.StatusOK, resp)
}

type MapReduceResponse struct {
	Out   string                   `json:"out,omitempty"`
	Stats model.MapReduceStats     `json:"counts"`
	Rows  []map[string]interface{} `json:"rows"`
}
