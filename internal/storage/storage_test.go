package storage

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Set("accessToken", "T"))

	v, ok := s.Get("accessToken")
	assert.True(t, ok)
	assert.Equal(t, "T", v)

	require.NoError(t, s.Clear())
	_, ok = s.Get("accessToken")
	assert.False(t, ok)
}

func TestFileStore_Unit(t *testing.T) {
	// An in-memory filesystem keeps the test off the disk.
	memFs := afero.NewMemMapFs()
	store := NewFileStore(memFs, "/home/ana/.authform/credentials.json")

	_, ok := store.Get("accessToken")
	assert.False(t, ok, "a missing file reads as empty")

	require.NoError(t, store.Set("accessToken", "T"))
	require.NoError(t, store.Set("name", "N"))
	require.NoError(t, store.Set("email", "E"))

	// A second store over the same file sees the persisted values.
	reopened := NewFileStore(memFs, "/home/ana/.authform/credentials.json")
	for key, want := range map[string]string{"accessToken": "T", "name": "N", "email": "E"} {
		got, ok := reopened.Get(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}

	info, err := memFs.Stat("/home/ana/.authform/credentials.json")
	require.NoError(t, err)
	assert.Equal(t, "-rw-------", info.Mode().Perm().String())

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear(), "clearing twice is not an error")
	_, ok = reopened.Get("accessToken")
	assert.False(t, ok)
}

func TestFileStore_CorruptFile(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, "/creds.json", []byte("not json"), 0600))
	store := NewFileStore(memFs, "/creds.json")

	assert.Error(t, store.Set("accessToken", "T"))
	_, ok := store.Get("accessToken")
	assert.False(t, ok)
}

func TestSessionStore(t *testing.T) {
	cookieStore := sessions.NewCookieStore([]byte("a-very-secret-key-for-testing-!"))
	e := echo.New()
	e.Use(session.Middleware(cookieStore))
	e.GET("/set", func(c echo.Context) error {
		s := NewSessionStore(c)
		if err := s.Set("accessToken", "T"); err != nil {
			return err
		}
		if err := s.Set("name", "N"); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/get", func(c echo.Context) error {
		v, _ := NewSessionStore(c).Get("name")
		return c.String(http.StatusOK, v)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/set", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	last := cookies[len(cookies)-1]
	assert.Equal(t, ClientSessionName, last.Name)

	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(last)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "N", rec.Body.String())
}

func TestStores_SetManyAndDelete(t *testing.T) {
	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(afero.NewMemMapFs(), "/creds.json"),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.SetMany(map[string]string{"accessToken": "T", "name": "N", "email": "E"}))
			v, ok := store.Get("name")
			require.True(t, ok)
			assert.Equal(t, "N", v)

			require.NoError(t, store.Delete("accessToken"))
			require.NoError(t, store.Delete("accessToken"), "deleting a missing key is not an error")
			_, ok = store.Get("accessToken")
			assert.False(t, ok)
			v, _ = store.Get("email")
			assert.Equal(t, "E", v, "other keys survive a delete")
		})
	}
}

func TestFileStore_SetManyLeavesFileUntouchedOnError(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, "/creds.json", []byte("not json"), 0600))
	store := NewFileStore(memFs, "/creds.json")

	assert.Error(t, store.SetMany(map[string]string{"accessToken": "T", "name": "N"}))

	data, err := afero.ReadFile(memFs, "/creds.json")
	require.NoError(t, err)
	assert.Equal(t, "not json", string(data))
}

func TestSessionStore_SetManySavesOnce(t *testing.T) {
	e := echo.New()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte("a-very-secret-key-for-testing-!"))))
	e.GET("/set", func(c echo.Context) error {
		if err := NewSessionStore(c).SetMany(map[string]string{"accessToken": "T", "name": "N", "email": "E"}); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/get", func(c echo.Context) error {
		s := NewSessionStore(c)
		token, _ := s.Get("accessToken")
		email, _ := s.Get("email")
		return c.String(http.StatusOK, token+"|"+email)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/set", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1, "one Set-Cookie per login")
	assert.Equal(t, ClientSessionName, cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "T|E", rec.Body.String())
}
