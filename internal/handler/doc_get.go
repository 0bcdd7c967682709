package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

type DocGet struct {
	Base
}

func (s *DocGet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	db, coll, ok := (Database{Base: s.Base}.Access(w, r))
	if !ok {
		return
	}

	doc, err := db.FindOne(r.Context(), coll, mux.Vars(r)["docid"])
	if err != nil {
		s.WriteStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, doc.Body())
}
