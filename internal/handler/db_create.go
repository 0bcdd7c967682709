package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

type DBCreate struct {
	Base
}

func (s *DBCreate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if _, ok := (Authenticator{Base: s.Base, RequiresAdmin: true}.Do(w, r)); !ok {
		return
	}

	dbName := mux.Vars(r)["db"]
	if db, _ := s.Storage.Database(r.Context(), dbName); db != nil {
		WriteError(w, http.StatusPreconditionFailed, "The database could not be created, the file already exists.")
		return
	}

	_, err := s.Storage.CreateDatabase(r.Context(), dbName)
	if err != nil {
		s.WriteStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, OkResponse{Ok: true})
}
