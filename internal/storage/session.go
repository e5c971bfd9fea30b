package storage

import (
	"fmt"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// ClientSessionName is the cookie session that plays the role of the
// browser's local storage.
const ClientSessionName = "client-storage"

// SessionStore writes values into a cookie-backed session of the current
// request. It must be created per request.
type SessionStore struct {
	c    echo.Context
	name string
}

// NewSessionStore binds a store to the request in c. The echo-contrib
// session middleware must be installed.
func NewSessionStore(c echo.Context) *SessionStore {
	return &SessionStore{c: c, name: ClientSessionName}
}

func (s *SessionStore) session() (*sessions.Session, error) {
	sess, err := session.Get(s.name, s.c)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s session: %w", s.name, err)
	}
	return sess, nil
}

// Set stores key and saves the session cookie on the response.
func (s *SessionStore) Set(key, value string) error {
	return s.SetMany(map[string]string{key: value})
}

// SetMany stores every key and saves the session cookie once.
func (s *SessionStore) SetMany(values map[string]string) error {
	sess, err := s.session()
	if err != nil {
		return err
	}
	for k, v := range values {
		sess.Values[k] = v
	}
	return sess.Save(s.c.Request(), s.c.Response())
}

// Delete removes key and saves the session cookie.
func (s *SessionStore) Delete(key string) error {
	sess, err := s.session()
	if err != nil {
		return err
	}
	delete(sess.Values, key)
	return sess.Save(s.c.Request(), s.c.Response())
}

// Get reads key from the session carried by the request.
func (s *SessionStore) Get(key string) (string, bool) {
	sess, err := s.session()
	if err != nil {
		return "", false
	}
	v, ok := sess.Values[key].(string)
	return v, ok
}

// Clear expires the session cookie.
func (s *SessionStore) Clear() error {
	sess, err := s.session()
	if err != nil {
		return err
	}
	sess.Values = make(map[interface{}]interface{})
	sess.Options.MaxAge = -1
	return sess.Save(s.c.Request(), s.c.Response())
}
