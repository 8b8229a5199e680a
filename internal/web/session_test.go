package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestSessionManager() *SessionManager {
	hashKey := make([]byte, 32)
	blockKey := make([]byte, 32)
	for i := range hashKey {
		hashKey[i] = byte(i)
		blockKey[i] = byte(31 - i)
	}
	return NewSessionManager(hashKey, blockKey)
}

func cookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	return cookies[0]
}

func TestSessionRoundTrip(t *testing.T) {
	sm := newTestSessionManager()

	w := httptest.NewRecorder()
	if err := sm.SetUserID(w, 7); err != nil {
		t.Fatalf("SetUserID failed: %v", err)
	}
	cookie := cookieFrom(t, w)
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)

	uid, ok := sm.GetUserID(r)
	if !ok || uid != 7 {
		t.Errorf("GetUserID = %d, %v, want 7, true", uid, ok)
	}
}

func TestSessionRejectsForgedCookie(t *testing.T) {
	sm := newTestSessionManager()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: sessionName, Value: "forged"})
	if _, ok := sm.GetUserID(r); ok {
		t.Error("forged cookie accepted")
	}

	// A cookie minted with different keys must not decode either.
	other := NewSessionManager(make([]byte, 32), make([]byte, 32))
	w := httptest.NewRecorder()
	if err := other.SetUserID(w, 7); err != nil {
		t.Fatalf("SetUserID failed: %v", err)
	}
	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.AddCookie(cookieFrom(t, w))
	if _, ok := sm.GetUserID(r2); ok {
		t.Error("cookie from foreign keys accepted")
	}
}

func TestSessionClear(t *testing.T) {
	sm := newTestSessionManager()

	w := httptest.NewRecorder()
	sm.Clear(w)
	cookie := cookieFrom(t, w)
	if cookie.MaxAge != -1 {
		t.Errorf("MaxAge = %d, want -1", cookie.MaxAge)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	if _, ok := sm.GetUserID(r); ok {
		t.Error("cleared cookie still resolves a user")
	}
}
