package form

import "sync"

// State is the transient UI state of the login/signup form.
type State struct {
	Name       string `validate:"required_if=IsLogin false"`
	Login      string `validate:"required"`
	Password   string `validate:"required"`
	ErrorMsg   string
	SuccessMsg string
	Loading    bool
	IsLogin    bool
}

// NewState returns an empty form in login mode.
func NewState() State {
	return State{IsLogin: true}
}

// ApplyModeChange returns the state that results from switching the form to
// the given mode. Credentials and the error banner are always cleared; the
// success banner is only cleared when entering signup mode, so a signup
// confirmation survives the automatic switch back to login.
func ApplyModeChange(old State, isLogin bool) State {
	next := old
	next.IsLogin = isLogin
	next.Name = ""
	next.Login = ""
	next.Password = ""
	next.ErrorMsg = ""
	if !isLogin {
		next.SuccessMsg = ""
	}
	return next
}

// Holder guards one State so that concurrent requests from the same browser
// session see consistent snapshots.
type Holder struct {
	mu    sync.Mutex
	state State
}

// NewHolder creates a Holder around a fresh login-mode state.
func NewHolder() *Holder {
	return &Holder{state: NewState()}
}

// Snapshot returns a copy of the current state.
func (h *Holder) Snapshot() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Update applies fn to the state under the lock and returns the result.
func (h *Holder) Update(fn func(s *State)) State {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(&h.state)
	return h.state
}

// SetFields records user input for the three editable fields.
func (h *Holder) SetFields(name, login, password string) State {
	return h.Update(func(s *State) {
		s.Name = name
		s.Login = login
		s.Password = password
	})
}

// ToggleMode flips between login and signup mode.
func (h *Holder) ToggleMode() State {
	return h.Update(func(s *State) {
		*s = ApplyModeChange(*s, !s.IsLogin)
	})
}
