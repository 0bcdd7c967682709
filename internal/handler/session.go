package handler

import (
	"net/http"
	"strings"

	"github.com/goydb/goyreport/pkg/model"
	"go.uber.org/zap"
)

type SessionGet struct {
	Base
}

func (s *SessionGet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	session, via := Authenticator{Base: s.Base}.Auth(r)
	if session == nil {
		WriteError(w, http.StatusBadRequest, "session is invalid")
		return
	}

	resp := &SessionResponse{
		Ok: true,
		SessionInfo: SessionInfo{
			AuthenticationHandlers: []string{"cookie", "default"},
		},
		SessionUserCtx: model.Session{Roles: []string{}},
	}
	if session.Authenticated() || via == "party" {
		resp.SessionUserCtx = *session
		resp.SessionInfo.Authenticated = via
	}

	writeJSON(w, http.StatusOK, resp)
}

type SessionResponse struct {
	Ok             bool          `json:"ok"`
	SessionUserCtx model.Session `json:"userCtx"`
	SessionInfo    SessionInfo   `json:"info"`
}

type SessionInfo struct {
	AuthenticationHandlers []string `json:"authentication_handlers"`
	Authenticated          string   `json:"authenticated,omitempty"`
}

// SessionPost logs an admin in with form values name and password
// and stores the session in a cookie.
type SessionPost struct {
	Base
}

func (s *SessionPost) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	err := r.ParseForm()
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	username := strings.Join(r.Form["name"], "")
	password := strings.Join(r.Form["password"], "")

	admin := Authenticator{Base: s.Base}.Authenticate(username, password)
	if admin == nil {
		WriteError(w, http.StatusUnauthorized, "Name or password is incorrect.")
		return
	}

	session, err := s.SessionStore.New(r, sessionName)
	if err != nil && session == nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	adminSession := admin.Session()
	adminSession.Store(session.Values)

	err = session.Save(r, w)
	if err != nil {
		s.logger().Error("saving session failed", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "Failed to save.")
		return
	}
	s.logger().Info("admin logged in", zap.String("name", admin.Username))

	writeJSON(w, http.StatusOK, &SessionPostResponse{
		Ok:      true,
		Session: adminSession,
	})
}

type SessionPostResponse struct {
	Ok             bool `json:"ok"`
	*model.Session `json:"userCtx,omitempty"`
}

type SessionDelete struct {
	Base
}

func (s *SessionDelete) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	session, err := s.SessionStore.Get(r, sessionName)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if session.IsNew {
		WriteError(w, http.StatusBadRequest, "can't logout if not logged in")
		return
	}

	session.Options.MaxAge = -1
	err = session.Save(r, w)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, OkResponse{Ok: true})
}

type OkResponse struct {
	Ok  bool   `json:"ok"`
	ID  string `json:"id,omitempty"`
	Rev string `json:"rev,omitempty"`
}
