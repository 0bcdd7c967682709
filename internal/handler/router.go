package handler

import (
	"github.com/goydb/goyreport/internal/adapter/storage"
	"github.com/goydb/goyreport/pkg/model"
	"go.uber.org/zap"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
)

type Router struct {
	Storage      *storage.Storage
	SessionStore sessions.Store
	Admins       model.AdminUsers
	Reports      ReportSettings
	Logger       *zap.Logger
}

func (router Router) Build(r *mux.Router) error {
	b := Base{
		Storage:      router.Storage,
		SessionStore: router.SessionStore,
		Admins:       router.Admins,
		Reports:      router.Reports,
		Logger:       router.Logger,
	}

	r.Methods("GET").Path("/_all_dbs").Handler(&DBAll{Base: b})
	r.Methods("GET").Path("/_uuids").Handler(&UUIDs{})

	r.Methods("GET").Path("/_session").Handler(&SessionGet{Base: b})
	r.Methods("POST").Path("/_session").Handler(&SessionPost{Base: b})
	r.Methods("DELETE").Path("/_session").Handler(&SessionDelete{Base: b})

	r.Methods("POST").Path("/{db}/{coll}/_find").Handler(&DocsFind{Base: b})
	r.Methods("POST").Path("/{db}/{coll}/_mapreduce").Handler(&MapReduce{Base: b})
	r.Methods("GET").Path("/{db}/{coll}/_report/{report}").Handler(&Report{Base: b})
	r.Methods("GET").Path("/{db}/{coll}/_search").Handler(&Search{Base: b})

	r.Methods("GET").Path("/{db}/{coll}/{docid}").Handler(&DocGet{Base: b})
	r.Methods("PUT").Path("/{db}/{coll}/{docid}").Handler(&DocPut{Base: b})
	r.Methods("DELETE").Path("/{db}/{coll}/{docid}").Handler(&DocDelete{Base: b})

	r.Methods("GET").Path("/{db}/{coll}").Handler(&CollectionInfo{Base: b})
	r.Methods("POST").Path("/{db}/{coll}").Handler(&DocPost{Base: b})
	r.Methods("DELETE").Path("/{db}/{coll}").Handler(&CollectionDelete{Base: b})

	r.Methods("GET").Path("/{db}").Handler(&DBIndex{Base: b})
	r.Methods("PUT").Path("/{db}").Handler(&DBCreate{Base: b})
	r.Methods("DELETE").Path("/{db}").Handler(&DBDelete{Base: b})

	r.Methods("GET").Path("/").Handler(&Index{})

	return nil
}
