package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/authform/internal/form"
	"github.com/nfrund/authform/internal/i18n"
	"github.com/nfrund/authform/internal/middleware"
	"github.com/nfrund/authform/internal/storage"
	"github.com/nfrund/authform/internal/view"
	"github.com/nfrund/authform/web/src/templates/layouts"
	"github.com/nfrund/authform/web/src/templates/pages"
)

// HomeHandler serves the page that hosts the form: it receives the token
// and shows who is logged in.
type HomeHandler struct {
	catalog *i18n.Catalog
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(catalog *i18n.Catalog) *HomeHandler {
	return &HomeHandler{catalog: catalog}
}

// HomeGet greets the stored user (GET /). It sits behind RequireToken.
// The stored name is only shown when client storage belongs to the token
// in the auth cookie.
func (h *HomeHandler) HomeGet(c echo.Context) error {
	tag := h.catalog.Match(c.Request().Header.Get("Accept-Language"))
	p := h.catalog.Printer(tag)

	token, _ := c.Get(middleware.TokenContextKey).(string)
	store := storage.NewSessionStore(c)
	name := ""
	if stored, ok := store.Get(form.KeyAccessToken); ok && stored == token {
		name, _ = store.Get(form.KeyName)
	}

	content := view.Node(c.Request().Context(), pages.Home(name, p))
	return c.Render(http.StatusOK, "", layouts.Base("Home", tag.String(), content))
}

// Logout expires the token cookie and wipes client storage (GET /logout).
func (h *HomeHandler) Logout(c echo.Context) error {
	setAuthCookie(c, "")
	if err := storage.NewSessionStore(c).Clear(); err != nil {
		middleware.FromContext(c.Request().Context()).Error("Failed to clear client storage", "error", err)
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}
