package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/authform/internal/form"
	"github.com/nfrund/authform/internal/formsession"
	"github.com/nfrund/authform/internal/i18n"
	"github.com/nfrund/authform/internal/middleware"
	"github.com/nfrund/authform/internal/rendering"
	"github.com/nfrund/authform/internal/storage"
	"github.com/nfrund/authform/web/src/templates/components"
	"github.com/nfrund/authform/web/src/templates/layouts"
	"github.com/nfrund/authform/web/src/templates/pages"
	"golang.org/x/text/language"
)

// FormDependencies holds what FormHandler needs.
type FormDependencies struct {
	Sessions *formsession.Service
	API      form.APIClient
	Catalog  *i18n.Catalog
	Reporter form.Reporter
	Renderer rendering.Renderer
}

// FormHandler serves the login/signup form.
type FormHandler struct {
	sessions *formsession.Service
	api      form.APIClient
	catalog  *i18n.Catalog
	reporter form.Reporter
	renderer rendering.Renderer
}

// NewFormHandler creates a FormHandler.
func NewFormHandler(deps FormDependencies) *FormHandler {
	return &FormHandler{
		sessions: deps.Sessions,
		api:      deps.API,
		catalog:  deps.Catalog,
		reporter: deps.Reporter,
		renderer: deps.Renderer,
	}
}

func (h *FormHandler) language(c echo.Context) language.Tag {
	return h.catalog.Match(c.Request().Header.Get("Accept-Language"))
}

// render writes the whole page, or only the form fragment for htmx requests.
func (h *FormHandler) render(c echo.Context, s form.State) error {
	tag := h.language(c)
	p := h.catalog.Printer(tag)
	if isHTMX(c) {
		return h.renderer.RenderPage(c, http.StatusOK, components.AuthForm(s, p))
	}
	return h.renderer.RenderPage(c, http.StatusOK, layouts.Base(p.Sprintf(i18n.MsgLogin), tag.String(), pages.Login(s, p)))
}

// LoginGet renders the form page (GET /login).
func (h *FormHandler) LoginGet(c echo.Context) error {
	holder, err := h.sessions.Holder(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}
	return h.render(c, holder.Snapshot())
}

// Submit records the posted fields and runs the flow of the current mode
// (POST /login/submit). A successful login discards the form state and
// redirects to the home page.
func (h *FormHandler) Submit(c echo.Context) error {
	holder, err := h.sessions.Holder(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}
	// Input that arrives while a request is in flight is dropped, so the
	// pending attempt keeps the fields it was sent with.
	name, login, password := c.FormValue("name"), c.FormValue("login"), c.FormValue("password")
	holder.Update(func(s *form.State) {
		if s.Loading {
			return
		}
		s.Name, s.Login, s.Password = name, login, password
	})

	loggedIn := false
	logger := middleware.FromContext(c.Request().Context())
	ctrl := form.NewController(form.Dependencies{
		API:     h.api,
		Storage: storage.NewSessionStore(c),
		OnToken: func(token string) {
			setAuthCookie(c, token)
			loggedIn = true
		},
		Printer:  h.catalog.Printer(h.language(c)),
		Reporter: h.reporter,
		Logger:   logger,
	})

	s := ctrl.Submit(c.Request().Context(), holder)
	if loggedIn {
		h.sessions.Discard(c)
		logger.Debug("Form discarded after login")
		return redirect(c, "/")
	}
	return h.render(c, s)
}

// Toggle switches between login and signup mode (POST /login/toggle).
func (h *FormHandler) Toggle(c echo.Context) error {
	holder, err := h.sessions.Holder(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}
	s := holder.ToggleMode()
	slog.Debug("Form mode toggled", "is_login", s.IsLogin)
	return h.render(c, s)
}
