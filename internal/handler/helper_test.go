package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/goydb/goyreport/internal/adapter/storage"
	"github.com/goydb/goyreport/internal/controller"
	"github.com/goydb/goyreport/pkg/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	storage *storage.Storage
}

func WithTestServer(t *testing.T, admins model.AdminUsers, fn func(ts *testServer)) {
	logger := zaptest.NewLogger(t)
	s, err := storage.Open(t.TempDir(), storage.WithLogger(logger))
	require.NoError(t, err)
	defer s.Close()

	r := mux.NewRouter()
	err = Router{
		Storage:      s,
		SessionStore: sessions.NewCookieStore([]byte("secret")),
		Admins:       admins,
		Reports: ReportSettings{
			TimestampField: "Date",
			GroupByField:   "Primary Type",
			Location:       time.UTC,
			OutputPrefix:   "crime",
			Retry:          controller.Retry{Max: 1, Interval: time.Millisecond},
		},
		Logger: logger,
	}.Build(r)
	require.NoError(t, err)

	fn(&testServer{t: t, handler: r, storage: s})
}

// do sends the request and decodes a JSON response into out
// if given.
func (ts *testServer) do(req *http.Request, out interface{}) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	if out != nil {
		require.NoError(ts.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec
}

func (ts *testServer) request(method, path string, body interface{}, out interface{}) *httptest.ResponseRecorder {
	var r io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(ts.t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return ts.do(req, out)
}

func (ts *testServer) createCrimes() *storage.Database {
	ctx := context.Background()
	db, err := ts.storage.CreateDatabase(ctx, "chicago")
	require.NoError(ts.t, err)

	crimes := []map[string]interface{}{
		{"_id": "1", "Date": "01/05/2020 12:00:00 PM", "Primary Type": "THEFT", "Description": "RETAIL THEFT"},
		{"_id": "2", "Date": "01/06/2020 01:00:00 AM", "Primary Type": "BATTERY", "Description": "SIMPLE"},
		{"_id": "3", "Date": "01/05/2020 11:30:00 PM", "Primary Type": "THEFT", "Description": "FROM BUILDING"},
		{"_id": "4", "Date": "not a date", "Primary Type": "ASSAULT", "Description": "SIMPLE"},
	}
	for _, c := range crimes {
		_, err := db.Insert(ctx, "crimes", model.NewDocument(c))
		require.NoError(ts.t, err)
	}
	return db
}
