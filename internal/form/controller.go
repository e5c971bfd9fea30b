package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nfrund/authform/internal/i18n"
	"golang.org/x/text/message"
)

// Printer renders a localized message. *message.Printer satisfies it.
type Printer interface {
	Sprintf(key message.Reference, a ...interface{}) string
}

// Flow names used in logs and diagnostic events.
const (
	FlowLogin  = "login"
	FlowSignup = "signup"
)

// Event is a diagnostic record of a failed submission.
type Event struct {
	Flow    string `json:"flow"`
	Login   string `json:"login"`
	Status  int    `json:"status,omitempty"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Reporter receives diagnostic events. Implementations must not block for long.
type Reporter interface {
	Report(ctx context.Context, ev Event)
}

// Dependencies holds the collaborators a Controller needs.
type Dependencies struct {
	API      APIClient
	Storage  Storage
	OnToken  TokenFunc
	Printer  Printer
	Reporter Reporter
	Logger   *slog.Logger
}

// Controller runs the validate, call, interpret, update sequence for both
// form flows. It never returns errors: every failure ends up in ErrorMsg.
type Controller struct {
	api      APIClient
	storage  Storage
	onToken  TokenFunc
	printer  Printer
	reporter Reporter
	logger   *slog.Logger
}

// NewController creates a Controller. Printer defaults to English texts and
// Logger to slog.Default().
func NewController(deps Dependencies) *Controller {
	c := &Controller{
		api:      deps.API,
		storage:  deps.Storage,
		onToken:  deps.OnToken,
		printer:  deps.Printer,
		reporter: deps.Reporter,
		logger:   deps.Logger,
	}
	if c.printer == nil {
		c.printer = message.NewPrinter(i18n.Supported[0])
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Submit runs the flow matching the form's current mode.
func (c *Controller) Submit(ctx context.Context, h *Holder) State {
	if h.Snapshot().IsLogin {
		return c.SubmitLogin(ctx, h)
	}
	return c.SubmitSignup(ctx, h)
}

// SubmitLogin authenticates with the login and password currently in the
// form. On success the session is written to storage and handed to the
// token callback.
func (c *Controller) SubmitLogin(ctx context.Context, h *Holder) State {
	s, ok := c.begin(h)
	if !ok {
		return h.Snapshot()
	}

	sess, err := c.api.Login(ctx, Credentials{Login: s.Login, Password: s.Password})
	if err == nil {
		err = c.persist(sess)
	}
	if err != nil {
		return c.fail(ctx, h, FlowLogin, s.Login, err, i18n.MsgLoginFailed)
	}

	if c.onToken != nil {
		c.onToken(sess.Token)
	}
	c.logger.Info("Login succeeded", "login", s.Login)
	return h.Update(func(st *State) {
		st.Loading = false
	})
}

// SubmitSignup registers a new account. On success the form switches back
// to login mode and shows a confirmation.
func (c *Controller) SubmitSignup(ctx context.Context, h *Holder) State {
	s, ok := c.begin(h)
	if !ok {
		return h.Snapshot()
	}

	err := c.api.Register(ctx, Registration{Name: s.Name, Email: s.Login, Password: s.Password})
	if err != nil {
		return c.fail(ctx, h, FlowSignup, s.Login, err, i18n.MsgSignupFailed)
	}

	c.logger.Info("Signup succeeded", "email", s.Login)
	confirmation := c.printer.Sprintf(i18n.MsgSignupOK)
	return h.Update(func(st *State) {
		*st = ApplyModeChange(*st, true)
		st.SuccessMsg = confirmation
		st.ErrorMsg = ""
		st.Loading = false
	})
}

// begin clears the error banner, validates, and marks the form as loading.
// It reports false when no API call must be made.
func (c *Controller) begin(h *Holder) (State, bool) {
	fillFields := c.printer.Sprintf(i18n.MsgFillFields)
	proceed := false
	s := h.Update(func(st *State) {
		if st.Loading {
			return
		}
		st.ErrorMsg = ""
		if IsInvalid(*st) {
			st.ErrorMsg = fillFields
			return
		}
		st.Loading = true
		proceed = true
	})
	if !proceed && s.Loading {
		c.logger.Debug("Submission ignored, a request is already in flight", "login", s.Login)
	}
	return s, proceed
}

// sessionKeys is the order keys are written in when the storage cannot
// batch them.
var sessionKeys = []string{KeyAccessToken, KeyName, KeyEmail}

// persist stores the session. A failure leaves no key behind: batch storages
// write all keys at once, others have the keys already written deleted.
func (c *Controller) persist(sess Session) error {
	if c.storage == nil {
		return nil
	}
	values := map[string]string{
		KeyAccessToken: sess.Token,
		KeyName:        sess.Name,
		KeyEmail:       sess.Email,
	}
	if bs, ok := c.storage.(BatchStorage); ok {
		if err := bs.SetMany(values); err != nil {
			return fmt.Errorf("failed to store session: %w", err)
		}
		return nil
	}

	var written []string
	for _, key := range sessionKeys {
		if err := c.storage.Set(key, values[key]); err != nil {
			c.rollback(written)
			return fmt.Errorf("failed to store %s: %w", key, err)
		}
		written = append(written, key)
	}
	return nil
}

func (c *Controller) rollback(keys []string) {
	if len(keys) == 0 {
		return
	}
	d, ok := c.storage.(Deleter)
	if !ok {
		c.logger.Error("Storage cannot delete, partial session left behind", "keys", keys)
		return
	}
	for _, key := range keys {
		if err := d.Delete(key); err != nil {
			c.logger.Error("Failed to roll back stored key", "key", key, "error", err)
		}
	}
}

// fail maps err to the error banner: the server's message when it sent one,
// otherwise the localized fallback.
func (c *Controller) fail(ctx context.Context, h *Holder, flow, login string, err error, fallback string) State {
	msg, ok := ServerMessage(err)
	if !ok {
		msg = c.printer.Sprintf(fallback)
	}

	c.logger.Warn("Form submission failed", "flow", flow, "login", login, "error", err)
	if c.reporter != nil {
		ev := Event{Flow: flow, Login: login, Message: msg, Error: err.Error()}
		var detail *ErrorDetail
		if errors.As(err, &detail) {
			ev.Status = detail.Status
		}
		c.reporter.Report(ctx, ev)
	}

	return h.Update(func(st *State) {
		st.ErrorMsg = msg
		st.Loading = false
	})
}
