package handler

import (
	"encoding/json"
	"net/http"

	"github.com/goydb/goyreport/pkg/model"
)

// DocPost inserts a new document. Documents without _id get a
// generated one.
type DocPost struct {
	Base
}

func (s *DocPost) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	doc := model.NewDocument(body)
	rev, err := db.Insert(r.Context(), coll, doc)
	if err != nil {
		s.WriteStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, OkResponse{Ok: true, ID: doc.ID, Rev: rev})
}
