package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/goydb/goyreport/internal/adapter/storage"
)

type Database struct {
	Base
}

// Do resolves the database of the request, writing a 404 if it
// doesn't exist.
func (c Database) Do(w http.ResponseWriter, r *http.Request) *storage.Database {
	dbName := mux.Vars(r)["db"]
	db, err := c.Storage.Database(r.Context(), dbName)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Database does not exist.")
		return nil
	}
	return db
}

// Access authenticates the request and resolves its database.
func (c Database) Access(w http.ResponseWriter, r *http.Request) (*storage.Database, string, bool) {
	if _, ok := (Authenticator{Base: c.Base}.Do(w, r)); !ok {
		return nil, "", false
	}
	db := c.Do(w, r)
	if db == nil {
		return nil, "", false
	}
	return db, mux.Vars(r)["coll"], true
}
