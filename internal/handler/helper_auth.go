package handler

import (
	"net/http"

	"github.com/goydb/goyreport/pkg/model"
)

const sessionName = "AuthSession"

type Authenticator struct {
	Base
	RequiresAdmin bool
}

// partySession is granted to everyone while no admin is configured.
func partySession() *model.Session {
	return &model.Session{Roles: []string{model.RoleServerAdmin}}
}

func (a Authenticator) Authenticate(username, password string) *model.AdminUser {
	return a.Admins.Authenticate(username, password)
}

// Auth returns the session of the request and how it was
// established.
func (a Authenticator) Auth(r *http.Request) (*model.Session, string) {
	if len(a.Admins) == 0 {
		return partySession(), "party"
	}

	var s model.Session
	var via string

	if a.SessionStore != nil {
		session, err := a.SessionStore.Get(r, sessionName)
		if err != nil {
			return nil, ""
		}
		if !session.IsNew {
			s.Restore(session.Values)
			via = "cookie"
		}
	}

	if !s.Authenticated() {
		username, password, ok := r.BasicAuth()
		if ok {
			admin := a.Authenticate(username, password)
			if admin != nil {
				return admin.Session(), "default"
			}
		}
	}

	return &s, via
}

func (a Authenticator) Do(w http.ResponseWriter, r *http.Request) (*model.Session, bool) {
	s, via := a.Auth(r)
	if s == nil {
		WriteError(w, http.StatusBadRequest, "session is invalid")
		return nil, false
	}
	if via == "party" {
		return s, true
	}

	if !s.Authenticated() {
		if a.RequiresAdmin {
			WriteError(w, http.StatusUnauthorized, "You are not authorized as a server admin.")
		} else {
			WriteError(w, http.StatusUnauthorized, "You are not authorized to access this db.")
		}
		return nil, false
	}

	if a.RequiresAdmin && !s.IsServerAdmin() {
		WriteError(w, http.StatusUnauthorized, "You are not a server admin.")
		return nil, false
	}

	return s, true
}
