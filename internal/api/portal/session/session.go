package session

import (
	"github.com/skybi/portal-gateway/internal/role"
	"time"
)

// Session represents an authenticated portal session.
// A session is identified by the hash of its raw token; the raw token only ever lives in the client's cookie.
// AccessToken is the bearer token forwarded to the backend on behalf of the session's user.
type Session struct {
	Token       string   `json:"token"`
	AccessToken string   `json:"access_token"`
	UserID      string   `json:"user_id"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Expires     int64    `json:"expires"`
}

// RoleSet returns the known roles of the session as a role set
func (ses *Session) RoleSet() role.Set {
	return role.Parse(ses.Roles)
}

// IsExpired checks whether the session is expired at the given point in time
func (ses *Session) IsExpired(now time.Time) bool {
	return ses.Expires <= now.Unix()
}

// Create is used to create a new session
type Create struct {
	AccessToken string
	UserID      string
	Email       string
	Roles       []string
	Expires     int64
}
