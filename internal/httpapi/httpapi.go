// Package httpapi serves the out-of-band web endpoints: the frontend's
// credential check and the prometheus scrape target.
package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hikariosu/hikari/internal/bancho"
)

// API owns the non-bancho HTTP routes.
type API struct {
	srv    *bancho.Server
	secret string
}

func New(srv *bancho.Server, secret string) *API {
	return &API{srv: srv, secret: secret}
}

// Routes registers the API endpoints on e.
func (a *API) Routes(e *echo.Echo) {
	e.GET("/user-auth", a.handleUserAuth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

type userInfo struct {
	ID         int32  `json:"id"`
	Name       string `json:"name"`
	Privileges int32  `json:"privileges"`
	Country    string `json:"country"`
}

// handleUserAuth checks a name/password pair against a live session's
// credentials so the frontend can validate a login without touching the
// password store. Callers authenticate with the shared API secret.
// Outcomes ride in the JSON body; the HTTP status is always 200.
func (a *API) handleUserAuth(c echo.Context) error {
	if c.QueryParam("key") != a.secret {
		return c.JSON(http.StatusOK, apiError("Invalid API key"))
	}

	u := a.srv.UserByName(c.QueryParam("name"))
	if u == nil {
		return c.JSON(http.StatusOK, apiError("User not found"))
	}
	if u.PasswordMD5 != c.QueryParam("password") {
		return c.JSON(http.StatusOK, apiError("Invalid password"))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"user": userInfo{
			ID:         u.ID,
			Name:       u.Name,
			Privileges: int32(a.srv.UserPrivileges(u)),
			Country:    u.Geolocation.Country.Acronym,
		},
	})
}

func apiError(message string) map[string]string {
	return map[string]string{"status": "error", "message": message}
}
