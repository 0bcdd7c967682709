package handler

import (
	"net/http"

	"github.com/goydb/goyreport/pkg/model"
)

// DBIndex describes a database with the stats of all its
// collections.
type DBIndex struct {
	Base
}

func (s *DBIndex) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	db, _, ok := (Database{Base: s.Base}.Access(w, r))
	if !ok {
		return
	}

	names, err := db.Collections(r.Context())
	if err != nil {
		s.WriteStoreError(w, r, err)
		return
	}

	resp := DBResponse{
		DBName:      db.Name(),
		Collections: make([]*model.CollectionStats, 0, len(names)),
	}
	for _, name := range names {
		stats, err := db.Stats(r.Context(), name)
		if err != nil {
			s.WriteStoreError(w, r, err)
			return
		}
		resp.DocCount += stats.Documents
		resp.Collections = append(resp.Collections, stats)
	}

	writeJSON(w, http.StatusOK, resp)
}

type DBResponse struct {
	DBName      string                   `json:"db_name"`
	DocCount    uint64                   `json:"doc_count"`
	Collections []*model.CollectionStats `json:"collections"`
}
