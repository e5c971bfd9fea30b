package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nfrund/authform/internal/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/")
}

func TestClient_Login(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody map[string]string

	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"T","name":"N","email":"E"}`))
	})

	sess, err := client.Login(context.Background(), form.Credentials{Login: "a@b.com", Password: "x"})
	require.NoError(t, err)

	assert.Equal(t, form.Session{Token: "T", Name: "N", Email: "E"}, sess)
	assert.Equal(t, "/login", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, map[string]string{"login": "a@b.com", "password": "x"}, gotBody)
}

func TestClient_LoginErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantStatus  int
		wantMessage string
	}{
		{"structured error", http.StatusUnauthorized, `{"error":"bad creds"}`, http.StatusUnauthorized, "bad creds"},
		{"unstructured error", http.StatusInternalServerError, `oops`, http.StatusInternalServerError, ""},
		{"message kept verbatim", http.StatusUnauthorized, `{"error":"  Senha inválida\n"}`, http.StatusUnauthorized, "  Senha inválida\n"},
		{"blank error field", http.StatusBadRequest, `{"error":"  "}`, http.StatusBadRequest, ""},
		{"incomplete session", http.StatusOK, `{"token":"T"}`, http.StatusOK, ""},
		{"malformed session", http.StatusOK, `[1,2]`, http.StatusOK, ""},
		{"empty body", http.StatusOK, ``, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Login(context.Background(), form.Credentials{Login: "a", Password: "b"})
			require.Error(t, err)

			var detail *form.ErrorDetail
			require.True(t, errors.As(err, &detail))
			assert.Equal(t, tt.wantStatus, detail.Status)
			assert.Equal(t, tt.wantMessage, detail.Message)
		})
	}
}

func TestClient_Register(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotBody map[string]string
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/register", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, &gotBody)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"msg":"ok"}`))
		})

		err := client.Register(context.Background(), form.Registration{Name: "Ana", Email: "ana@example.com", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"name": "Ana", "email": "ana@example.com", "password": "pw"}, gotBody)
	})

	t.Run("empty success body", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`null`))
		})

		err := client.Register(context.Background(), form.Registration{Name: "Ana", Email: "a", Password: "pw"})
		assert.ErrorIs(t, err, form.ErrEmptyResponse)
	})

	t.Run("conflict", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"email taken"}`))
		})

		err := client.Register(context.Background(), form.Registration{Name: "Ana", Email: "a", Password: "pw"})
		msg, ok := form.ServerMessage(err)
		assert.True(t, ok)
		assert.Equal(t, "email taken", msg)
	})
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := New(srv.URL, WithTimeout(20*time.Millisecond))
	_, err := client.Login(context.Background(), form.Credentials{Login: "a", Password: "b"})
	require.Error(t, err)

	_, ok := form.ServerMessage(err)
	assert.False(t, ok)
}
