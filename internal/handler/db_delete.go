package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

type DBDelete struct {
	Base
}

func (s *DBDelete) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if _, ok := (Authenticator{Base: s.Base, RequiresAdmin: true}.Do(w, r)); !ok {
		return
	}

	err := s.Storage.DeleteDatabase(r.Context(), mux.Vars(r)["db"])
	if err != nil {
		s.WriteStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, OkResponse{Ok: true})
}
