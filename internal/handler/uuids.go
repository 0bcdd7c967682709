package handler

import (
	"net/http"

	uuid "github.com/satori/go.uuid"
)

const maxUUIDs = 1000

type UUIDs struct{}

func (s *UUIDs) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	count := intOption("count", 1, r.URL.Query())
	if count < 1 || count > maxUUIDs {
		WriteError(w, http.StatusBadRequest, "count must be between 1 and 1000")
		return
	}

	response := &UUIDsResponse{
		UUIDs: make([]string, count),
	}
	for i := range response.UUIDs {
		response.UUIDs[i] = uuid.NewV4().String()
	}

	writeJSON(w, http.StatusOK, response)
}

type UUIDsResponse struct {
	UUIDs []string `json:"uuids"`
}
