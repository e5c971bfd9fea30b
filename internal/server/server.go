package server

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/authform/internal/handlers"
	"github.com/nfrund/authform/internal/middleware"
	"github.com/nfrund/authform/internal/rendering"
	"github.com/nfrund/authform/web"
)

// Dependencies holds what the HTTP server needs to serve the form.
type Dependencies struct {
	SessionSecret string
	FormHandler   *handlers.FormHandler
	HomeHandler   *handlers.HomeHandler
	Renderer      *rendering.UniversalRenderer
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	E           *echo.Echo
	formHandler *handlers.FormHandler
	homeHandler *handlers.HomeHandler
}

// New creates a new Server instance with its middleware stack and routes.
func New(deps Dependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Renderer = deps.Renderer
	setupErrorHandling(e)

	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(echomw.Recover())

	// Configure and use session middleware
	store := sessions.NewCookieStore([]byte(deps.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	e.StaticFS("/static", echo.MustSubFS(web.FS, "static"))

	s := &Server{
		E:           e,
		formHandler: deps.FormHandler,
		homeHandler: deps.HomeHandler,
	}
	s.RegisterRoutes()
	return s
}

// setupErrorHandling installs an error handler that logs unhandled errors
// with a stack trace before delegating to echo's default response.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
			e.DefaultHTTPErrorHandler(err, c)
			return
		}

		msg := "Internal Server Error"
		if he == nil {
			msg = "Internal Server Error (Unhandled)"
		}
		slog.Error(msg,
			"error", err,
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"stack_trace", string(debug.Stack()),
		)
		e.DefaultHTTPErrorHandler(err, c)
	}
}
