package pages

import (
	"github.com/nfrund/authform/internal/form"
	"github.com/nfrund/authform/web/src/templates/components"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Login is the page hosting the login/signup form.
func Login(s form.State, p form.Printer) g.Node {
	return h.Div(
		h.Class("container-login"),
		h.Img(h.Src("/static/logo.svg"), h.Alt("Logo"), h.Class("logo")),
		components.AuthForm(s, p),
	)
}
