package handler

import (
	"net/http"
)

type CollectionInfo struct {
	Base
}

func (s *CollectionInfo) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	db, coll, ok := (Database{Base: s.Base}.Access(w, r))
	if !ok {
		return
	}

	stats, err := db.Stats(r.Context(), coll)
	if err != nil {
		s.WriteStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

type CollectionDelete struct {
	Base
}

func (s *CollectionDelete) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	db, coll, ok := (Database{Base: s.Base}.Access(w, r))
	if !ok {
		return
	}

	err := db.DropCollection(r.Context(), coll)
	if err != nil {
		s.WriteStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, OkResponse{Ok: true})
}
