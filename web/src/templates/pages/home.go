package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/nfrund/authform/internal/form"
	"github.com/nfrund/authform/internal/i18n"
)

// Home greets the logged-in user. It is written as a templ component so it
// can be dropped into either a templ or a gomponents layout.
func Home(name string, p form.Printer) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		greeting := templ.EscapeString(p.Sprintf(i18n.MsgWelcome, name))
		logout := templ.EscapeString(p.Sprintf(i18n.MsgLogout))
		_, err := io.WriteString(w,
			`<div class="container-login"><h1 id="greeting">`+greeting+`</h1>`+
				`<a href="/logout">`+logout+`</a></div>`)
		return err
	})
}
