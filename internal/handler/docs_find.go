package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/goydb/goyreport/pkg/model"
)

const defaultFindLimit = 25

type DocsFind struct {
	Base
}

func (s *DocsFind) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	db, coll, ok := (Database{Base: s.Base}.Access(w, r))
	if !ok {
		return
	}

	var find FindRequest
	err := json.NewDecoder(r.Body).Decode(&find)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if find.Limit <= 0 {
		find.Limit = defaultFindLimit
	}

	var filter model.Selector
	if len(find.Selector) > 0 {
		sg, err := model.ParseSelector(find.Selector)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter = sg
	}

	start := time.Now()
	cursor, err := db.OpenCursor(r.Context(), coll, filter)
	if err != nil {
		s.WriteStoreError(w, r, err)
		return
	}
	defer cursor.Close()

	response := FindResponse{
		Docs: make([]map[string]interface{}, 0, find.Limit),
	}
	for skipped := 0; len(response.Docs) < find.Limit; {
		doc, err := cursor.Next(r.Context())
		if err != nil {
			s.WriteStoreError(w, r, err)
			return
		}
		if doc == nil {
			break
		}
		if skipped < find.Skip {
			skipped++
			continue
		}
		response.Docs = append(response.Docs, doc.Body())
		// bookmark is simply the last document in the list
		response.Bookmark = doc.ID
	}

	if find.ExecutionStats {
		response.ExecutionStats = &ExecutionStats{
			ResultsReturned: len(response.Docs),
			ExecutionTimeMs: float64(time.Since(start)) / float64(time.Millisecond),
		}
	}

	writeJSON(w, http.StatusOK, response)
}

type FindRequest struct {
	Selector       map[string]interface{} `json:"selector"`
	Limit          int                    `json:"limit"`
	Skip           int                    `json:"skip"`
	ExecutionStats bool                   `json:"execution_stats"`
}

type FindResponse struct {
	Docs           []map[string]interface{} `json:"docs"`
	Bookmark       string                   `json:"bookmark,omitempty"`
	ExecutionStats *ExecutionStats          `json:"execution_stats,omitempty"`
}

type ExecutionStats struct {
	ResultsReturned int     `json:"results_returned"`
	ExecutionTimeMs float64 `json:"execution_time_ms"`
}
