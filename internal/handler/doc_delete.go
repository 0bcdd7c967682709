package handler

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/goydb/goyreport/pkg/port"
)

type DocDelete struct {
	Base
}

func (s *DocDelete) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	db, coll, ok := (Database{Base: s.Base}.Access(w, r))
	if !ok {
		return
	}

	docID := mux.Vars(r)["docid"]
	if rev := r.URL.Query().Get("rev"); rev != "" {
		doc, err := db.FindOne(r.Context(), coll, docID)
		if err != nil {
			s.WriteStoreError(w, r, err)
			return
		}
		if doc.Rev != rev {
			s.WriteStoreError(w, r, fmt.Errorf("document %q: %w", docID, port.ErrConflict))
			return
		}
	}

	n, err := db.Delete(r.Context(), coll, docID)
	if err != nil {
		s.WriteStoreError(w, r, err)
		return
	}
	if n == 0 {
		WriteError(w, http.StatusNotFound, "missing")
		return
	}

	writeJSON(w, http.StatusOK, OkResponse{Ok: true, ID: docID})
}
