package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AuthCookieName is the cookie holding the access token handed to the page.
const AuthCookieName = "auth_token"

// TokenContextKey is where RequireToken stores the access token.
const TokenContextKey = "token"

// RequireToken redirects to loginPath unless the request carries an access
// token cookie. The token is not verified here; the remote API owns it.
func RequireToken(loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(AuthCookieName)
			if err != nil || cookie.Value == "" {
				return c.Redirect(http.StatusSeeOther, loginPath)
			}
			c.Set(TokenContextKey, cookie.Value)
			return next(c)
		}
	}
}
