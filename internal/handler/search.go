package handler

import (
	"net/http"

	"github.com/goydb/goyreport/internal/adapter/search"
	"go.uber.org/zap"
)

const defaultSearchLimit = 25

// Search indexes a text field of the collection and runs a query
// string query against it, e.g. ?field=Description&q=+retail -theft
type Search struct {
	Base
}

func (s *Search) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	db, coll, ok := (Database{Base: s.Base}.Access(w, r))
	if !ok {
		return
	}

	opts := r.URL.Query()
	field := opts.Get("field")
	query := stringOption("q", "query", opts)
	if field == "" || query == "" {
		WriteError(w, http.StatusBadRequest, "field and q are required")
		return
	}
	limit := int(intOption("limit", defaultSearchLimit, opts))
	skip := int(intOption("skip", 0, opts))

	cursor, err := db.OpenCursor(r.Context(), coll, nil)
	if err != nil {
		s.WriteStoreError(w, r, err)
		return
	}
	idx, err := search.Build(r.Context(), cursor, field)
	cursor.Close()
	if err != nil {
		s.WriteStoreError(w, r, err)
		return
	}
	defer idx.Close()

	result, err := idx.Search(r.Context(), query, limit, skip)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger().Debug("searched collection",
		zap.String("collection", coll),
		zap.String("field", field),
		zap.Int("indexed", idx.Indexed()),
		zap.Uint64("total", result.Total))

	writeJSON(w, http.StatusOK, SearchResponse{Indexed: idx.Indexed(), Result: result})
}

type SearchResponse struct {
	Indexed int `json:"indexed"`
	*search.Result
}
