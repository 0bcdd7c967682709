package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/goydb/goyreport/pkg/model"
)

// DocPut creates or replaces the document. Replacing a document
// with a _rev other than the current one is a conflict.
type DocPut struct {
	Base
}

func (s *DocPut) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	db, coll, ok := (Database{Base: s.Base}.Access(w, r))
	if !ok {
		return
	}

	var body map[string]interface{}
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	docID := mux.Vars(r)["docid"]
	if id, ok := body["_id"].(string); ok && id != docID {
		WriteError(w, http.StatusBadRequest, "_id doesn't match the document path")
		return
	}
	if rev := r.URL.Query().Get("rev"); rev != "" {
		body["_rev"] = rev
	}

	doc := model.NewDocument(body)
	rev, err := db.Upsert(r.Context(), coll, docID, doc)
	if err != nil {
		s.WriteStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, OkResponse{Ok: true, ID: docID, Rev: rev})
}
