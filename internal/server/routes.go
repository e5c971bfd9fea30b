package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/authform/internal/middleware"
	"github.com/nfrund/authform/web/src/templates/components"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	rateLimiter := middleware.RateLimiter()
	requireToken := middleware.RequireToken("/login")

	s.E.GET("/", s.homeHandler.HomeGet, requireToken)
	s.E.GET("/logout", s.homeHandler.Logout)

	s.E.GET("/login", s.formHandler.LoginGet)
	s.E.POST(components.SubmitPath, s.formHandler.Submit, rateLimiter)
	s.E.POST(components.TogglePath, s.formHandler.Toggle)

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
}
