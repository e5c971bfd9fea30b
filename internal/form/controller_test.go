package form

import (
	"context"
	"errors"
	"testing"

	"github.com/nfrund/authform/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	loginCalls    int
	registerCalls int
	gotLogin      Credentials
	gotRegister   Registration
	session       Session
	err           error
	during        func()
}

func (f *fakeAPI) Login(ctx context.Context, c Credentials) (Session, error) {
	f.loginCalls++
	f.gotLogin = c
	if f.during != nil {
		f.during()
	}
	return f.session, f.err
}

func (f *fakeAPI) Register(ctx context.Context, r Registration) error {
	f.registerCalls++
	f.gotRegister = r
	if f.during != nil {
		f.during()
	}
	return f.err
}

// mapStorage fails every Set once failAfter writes have succeeded. A zero
// failAfter with a nil err never fails.
type mapStorage struct {
	values    map[string]string
	err       error
	failAfter int
	sets      int
}

func (m *mapStorage) Set(key, value string) error {
	if m.err != nil && m.sets >= m.failAfter {
		return m.err
	}
	m.sets++
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

func (m *mapStorage) Delete(key string) error {
	delete(m.values, key)
	return nil
}

// setOnlyStorage has no way to delete keys.
type setOnlyStorage struct {
	values map[string]string
	err    error
}

func (m *setOnlyStorage) Set(key, value string) error {
	if len(m.values) > 0 && m.err != nil {
		return m.err
	}
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

type batchStorage struct {
	batches []map[string]string
	err     error
}

func (b *batchStorage) Set(key, value string) error {
	return errors.New("single-key writes are not expected")
}

func (b *batchStorage) SetMany(values map[string]string) error {
	if b.err != nil {
		return b.err
	}
	b.batches = append(b.batches, values)
	return nil
}

type recordingReporter struct {
	events []Event
}

func (r *recordingReporter) Report(ctx context.Context, ev Event) {
	r.events = append(r.events, ev)
}

type harness struct {
	api      *fakeAPI
	storage  *mapStorage
	reporter *recordingReporter
	tokens   []string
	ctrl     *Controller
}

func newHarness() *harness {
	h := &harness{
		api:      &fakeAPI{},
		storage:  &mapStorage{},
		reporter: &recordingReporter{},
	}
	h.ctrl = NewController(Dependencies{
		API:      h.api,
		Storage:  h.storage,
		OnToken:  func(token string) { h.tokens = append(h.tokens, token) },
		Reporter: h.reporter,
	})
	return h
}

func loginHolder(login, password string) *Holder {
	holder := NewHolder()
	holder.SetFields("", login, password)
	return holder
}

func signupHolder(name, login, password string) *Holder {
	holder := NewHolder()
	holder.ToggleMode()
	holder.SetFields(name, login, password)
	return holder
}

func TestSubmitLogin_Success(t *testing.T) {
	h := newHarness()
	h.api.session = Session{Token: "T", Name: "N", Email: "E"}
	holder := loginHolder("a@b.com", "x")

	var loadingDuringCall bool
	h.api.during = func() { loadingDuringCall = holder.Snapshot().Loading }

	s := h.ctrl.SubmitLogin(context.Background(), holder)

	assert.Equal(t, Credentials{Login: "a@b.com", Password: "x"}, h.api.gotLogin)
	assert.True(t, loadingDuringCall)
	assert.Equal(t, map[string]string{"accessToken": "T", "name": "N", "email": "E"}, h.storage.values)
	assert.Equal(t, []string{"T"}, h.tokens)
	assert.False(t, s.Loading)
	assert.Empty(t, s.ErrorMsg)
	assert.Empty(t, h.reporter.events)
}

func TestSubmitLogin_ServerError(t *testing.T) {
	h := newHarness()
	h.api.err = &ErrorDetail{Status: 401, Message: "bad creds"}

	s := h.ctrl.SubmitLogin(context.Background(), loginHolder("a@b.com", "x"))

	assert.Equal(t, "bad creds", s.ErrorMsg)
	assert.Empty(t, h.storage.values)
	assert.Empty(t, h.tokens)
	assert.False(t, s.Loading)
	require.Len(t, h.reporter.events, 1)
	assert.Equal(t, FlowLogin, h.reporter.events[0].Flow)
	assert.Equal(t, 401, h.reporter.events[0].Status)
}

func TestSubmitLogin_UnstructuredError(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"plain error", errors.New("connection refused")},
		{"detail without message", &ErrorDetail{Status: 500}},
		{"empty response", ErrEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.api.err = tt.err

			s := h.ctrl.SubmitLogin(context.Background(), loginHolder("a@b.com", "x"))

			assert.Equal(t, i18n.MsgLoginFailed, s.ErrorMsg)
			assert.False(t, s.Loading)
			assert.Empty(t, h.tokens)
		})
	}
}

func TestSubmitLogin_StorageFailure(t *testing.T) {
	h := newHarness()
	h.api.session = Session{Token: "T", Name: "N", Email: "E"}
	h.storage.err = errors.New("quota exceeded")

	s := h.ctrl.SubmitLogin(context.Background(), loginHolder("a@b.com", "x"))

	assert.Equal(t, i18n.MsgLoginFailed, s.ErrorMsg)
	assert.Empty(t, h.tokens)
	assert.False(t, s.Loading)
}

func TestSubmitLogin_PartialStorageFailureRollsBack(t *testing.T) {
	h := newHarness()
	h.api.session = Session{Token: "T", Name: "N", Email: "E"}
	h.storage.err = errors.New("quota exceeded")
	h.storage.failAfter = 1

	s := h.ctrl.SubmitLogin(context.Background(), loginHolder("a@b.com", "x"))

	assert.Equal(t, i18n.MsgLoginFailed, s.ErrorMsg)
	assert.Empty(t, h.tokens)
	assert.Equal(t, 1, h.storage.sets, "the first key was written before the failure")
	assert.Empty(t, h.storage.values, "the written key is removed again")
}

func TestSubmitLogin_PartialFailureWithoutDeleter(t *testing.T) {
	store := &setOnlyStorage{err: errors.New("quota exceeded")}
	var tokens []string
	ctrl := NewController(Dependencies{
		API:     &fakeAPI{session: Session{Token: "T", Name: "N", Email: "E"}},
		Storage: store,
		OnToken: func(token string) { tokens = append(tokens, token) },
	})

	s := ctrl.SubmitLogin(context.Background(), loginHolder("a@b.com", "x"))

	assert.Equal(t, i18n.MsgLoginFailed, s.ErrorMsg)
	assert.Empty(t, tokens)
}

func TestSubmitLogin_BatchStorage(t *testing.T) {
	t.Run("writes every key at once", func(t *testing.T) {
		store := &batchStorage{}
		ctrl := NewController(Dependencies{
			API:     &fakeAPI{session: Session{Token: "T", Name: "N", Email: "E"}},
			Storage: store,
		})

		s := ctrl.SubmitLogin(context.Background(), loginHolder("a@b.com", "x"))

		assert.Empty(t, s.ErrorMsg)
		require.Len(t, store.batches, 1)
		assert.Equal(t, map[string]string{"accessToken": "T", "name": "N", "email": "E"}, store.batches[0])
	})

	t.Run("failure reports the login fallback", func(t *testing.T) {
		store := &batchStorage{err: errors.New("disk full")}
		var tokens []string
		ctrl := NewController(Dependencies{
			API:     &fakeAPI{session: Session{Token: "T", Name: "N", Email: "E"}},
			Storage: store,
			OnToken: func(token string) { tokens = append(tokens, token) },
		})

		s := ctrl.SubmitLogin(context.Background(), loginHolder("a@b.com", "x"))

		assert.Equal(t, i18n.MsgLoginFailed, s.ErrorMsg)
		assert.Empty(t, tokens)
		assert.Empty(t, store.batches)
	})
}

func TestSubmit_InvalidFieldsNeverCallAPI(t *testing.T) {
	tests := []struct {
		name   string
		holder *Holder
	}{
		{"login without password", loginHolder("a@b.com", "")},
		{"login without login", loginHolder("", "x")},
		{"signup without name", signupHolder("", "a@b.com", "x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			var sawLoading bool
			h.api.during = func() { sawLoading = true }

			s := h.ctrl.Submit(context.Background(), tt.holder)

			assert.Equal(t, i18n.MsgFillFields, s.ErrorMsg)
			assert.False(t, s.Loading)
			assert.False(t, sawLoading)
			assert.Zero(t, h.api.loginCalls)
			assert.Zero(t, h.api.registerCalls)
		})
	}
}

func TestSubmit_ClearsPreviousError(t *testing.T) {
	h := newHarness()
	h.api.session = Session{Token: "T", Name: "N", Email: "E"}
	holder := loginHolder("a@b.com", "x")
	holder.Update(func(s *State) { s.ErrorMsg = "old" })

	var errDuringCall string
	h.api.during = func() { errDuringCall = holder.Snapshot().ErrorMsg }

	s := h.ctrl.Submit(context.Background(), holder)
	assert.Empty(t, errDuringCall)
	assert.Empty(t, s.ErrorMsg)
}

func TestSubmit_IgnoresReentrantCalls(t *testing.T) {
	h := newHarness()
	h.api.session = Session{Token: "T", Name: "N", Email: "E"}
	holder := loginHolder("a@b.com", "x")

	var inner State
	h.api.during = func() {
		h.api.during = nil
		inner = h.ctrl.Submit(context.Background(), holder)
	}

	s := h.ctrl.Submit(context.Background(), holder)

	assert.Equal(t, 1, h.api.loginCalls)
	assert.True(t, inner.Loading)
	assert.False(t, s.Loading)
	assert.Equal(t, []string{"T"}, h.tokens)
}

func TestSubmitSignup_Success(t *testing.T) {
	h := newHarness()
	holder := signupHolder("Ana", "ana@example.com", "pw")
	holder.Update(func(s *State) { s.ErrorMsg = "stale" })

	s := h.ctrl.SubmitSignup(context.Background(), holder)

	assert.Equal(t, Registration{Name: "Ana", Email: "ana@example.com", Password: "pw"}, h.api.gotRegister)
	assert.True(t, s.IsLogin)
	assert.Equal(t, i18n.MsgSignupOK, s.SuccessMsg)
	assert.Empty(t, s.ErrorMsg)
	assert.Empty(t, s.Login)
	assert.Empty(t, s.Password)
	assert.False(t, s.Loading)
	assert.Empty(t, h.storage.values)
	assert.Empty(t, h.tokens)
}

func TestSubmitSignup_Failure(t *testing.T) {
	t.Run("server message", func(t *testing.T) {
		h := newHarness()
		h.api.err = &ErrorDetail{Status: 409, Message: "email taken"}

		s := h.ctrl.SubmitSignup(context.Background(), signupHolder("Ana", "ana@example.com", "pw"))

		assert.Equal(t, "email taken", s.ErrorMsg)
		assert.False(t, s.IsLogin)
		assert.Equal(t, "ana@example.com", s.Login)
		assert.False(t, s.Loading)
	})

	t.Run("fallback message", func(t *testing.T) {
		h := newHarness()
		h.api.err = errors.New("timeout")

		s := h.ctrl.SubmitSignup(context.Background(), signupHolder("Ana", "ana@example.com", "pw"))

		assert.Equal(t, i18n.MsgSignupFailed, s.ErrorMsg)
		require.Len(t, h.reporter.events, 1)
		assert.Equal(t, FlowSignup, h.reporter.events[0].Flow)
	})
}

func TestSubmit_DispatchesOnMode(t *testing.T) {
	h := newHarness()
	h.ctrl.Submit(context.Background(), signupHolder("Ana", "ana@example.com", "pw"))
	assert.Equal(t, 1, h.api.registerCalls)
	assert.Zero(t, h.api.loginCalls)
}

func TestServerMessage(t *testing.T) {
	wrapped := errors.Join(errors.New("outer"), &ErrorDetail{Message: "inner"})
	msg, ok := ServerMessage(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "inner", msg)

	_, ok = ServerMessage(errors.New("plain"))
	assert.False(t, ok)
}
