package web

import (
	"net/http"
	"strconv"

	"github.com/gorilla/securecookie"
)

const sessionName = "roombooking_session"

// SessionManager signs and encrypts the web surface's session cookie.
// Only the user id is stored; the staff flag is re-read from the
// database on every request so a revoked flag takes effect immediately.
type SessionManager struct{ sc *securecookie.SecureCookie }

func NewSessionManager(hashKey, blockKey []byte) *SessionManager {
	return &SessionManager{sc: securecookie.New(hashKey, blockKey)}
}

func (s *SessionManager) SetUserID(w http.ResponseWriter, userID uint) error {
	value := map[string]string{"uid": strconv.FormatUint(uint64(userID), 10)}
	encoded, err := s.sc.Encode(sessionName, value)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name: sessionName, Value: encoded, Path: "/",
		HttpOnly: true, SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name: sessionName, Value: "", Path: "/", MaxAge: -1,
		HttpOnly: true, SameSite: http.SameSiteLaxMode,
	})
}

func (s *SessionManager) GetUserID(r *http.Request) (uint, bool) {
	c, err := r.Cookie(sessionName)
	if err != nil {
		return 0, false
	}
	value := map[string]string{}
	if err := s.sc.Decode(sessionName, c.Value, &value); err != nil {
		return 0, false
	}
	uid, err := strconv.ParseUint(value["uid"], 10, 32)
	if err != nil || uid == 0 {
		return 0, false
	}
	return uint(uid), true
}
