package components

import (
	"github.com/nfrund/authform/internal/form"
	"github.com/nfrund/authform/internal/i18n"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

// FormID is the element id htmx swaps when the form re-renders.
const FormID = "auth-form"

// Routes the form posts to.
const (
	SubmitPath = "/login/submit"
	TogglePath = "/login/toggle"
)

// AuthForm renders the login/signup form for s. It is a pure function of its
// arguments.
func AuthForm(s form.State, p form.Printer) g.Node {
	return h.Div(
		h.ID(FormID),
		h.Class("form"),
		g.If(s.ErrorMsg != "", h.P(h.Class("errorMsg"), g.Text(s.ErrorMsg))),
		g.If(s.SuccessMsg != "", h.P(h.Class("successMsg"), g.Text(s.SuccessMsg))),
		g.El("form",
			h.Method("post"),
			h.Action(SubmitPath),
			hx.Post(SubmitPath),
			hx.Target("#"+FormID),
			hx.Swap("outerHTML"),
			g.Attr("hx-disabled-elt", "find button"),
			g.If(!s.IsLogin, field("text", "name", p.Sprintf(i18n.MsgName), s.Name, "/static/person.svg")),
			field("text", "login", p.Sprintf(i18n.MsgLoginField), s.Login, "/static/mail.svg"),
			field("password", "password", p.Sprintf(i18n.MsgPassword), s.Password, "/static/lock.svg"),
			SubmitButton(s, p),
		),
		g.El("form",
			h.Class("signupButton"),
			h.Method("post"),
			h.Action(TogglePath),
			hx.Post(TogglePath),
			hx.Target("#"+FormID),
			hx.Swap("outerHTML"),
			h.Button(h.Type("submit"), g.Text(ToggleLabel(s, p))),
		),
	)
}

func field(kind, name, placeholder, value, icon string) g.Node {
	return h.Div(
		h.Img(h.Src(icon), h.Alt(placeholder)),
		h.Input(
			h.Type(kind),
			h.Name(name),
			h.Placeholder(placeholder),
			h.Value(value),
		),
	)
}

// ButtonLabel returns the submit button text for s.
func ButtonLabel(s form.State, p form.Printer) string {
	switch {
	case s.Loading:
		return p.Sprintf(i18n.MsgLoading)
	case s.IsLogin:
		return p.Sprintf(i18n.MsgLogin)
	default:
		return p.Sprintf(i18n.MsgRegister)
	}
}

// ToggleLabel returns the text of the mode switch link.
func ToggleLabel(s form.State, p form.Printer) string {
	if s.IsLogin {
		return p.Sprintf(i18n.MsgCreateAccount)
	}
	return p.Sprintf(i18n.MsgHaveAccount)
}

// SubmitButton renders the submit button, disabled while a request is in flight.
func SubmitButton(s form.State, p form.Printer) g.Node {
	return h.Button(
		h.Type("submit"),
		g.If(s.Loading, h.Disabled()),
		g.Text(ButtonLabel(s, p)),
	)
}
