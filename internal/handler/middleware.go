package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "bazaar/internal/errors"
	"bazaar/internal/session"
)

// SessionCookie is the cookie carrying the opaque session token. HttpOnly:
// the token must never be script-readable.
const SessionCookie = "sid"

const sessionContextKey = "session"

// CurrentSession returns the session resolved by SessionMiddleware, if any.
func CurrentSession(c echo.Context) (session.Session, bool) {
	s, ok := c.Get(sessionContextKey).(session.Session)
	return s, ok
}

// SessionMiddleware resolves the session cookie on every request and stashes
// the result in the echo context. It never rejects; RequireAuth does.
func SessionMiddleware(sessions session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				if s, ok := sessions.Resolve(cookie.Value); ok {
					c.Set(sessionContextKey, s)
				}
			}
			return next(c)
		}
	}
}

// RequireAuth rejects requests without a valid session.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := CurrentSession(c); !ok {
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrUnauthenticated)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		return next(c)
	}
}

// RequireAdmin rejects requests whose session lacks the administrator role.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s, ok := CurrentSession(c)
		if !ok {
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrUnauthenticated)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		if !s.IsAdmin {
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrForbidden)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		return next(c)
	}
}

// clearSessionCookie expires the session cookie on the client.
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
