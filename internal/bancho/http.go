package bancho

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hikariosu/hikari/internal/bancho/serverpackets"
)

const indexBody = "and why are you here?"

// octetStream is the media type of every bancho response body. The osu!
// client never looks at it, but proxies do.
const octetStream = "application/octet-stream"

// Routes mounts the bancho protocol endpoints.
func (s *Server) Routes(e *echo.Echo) {
	e.GET("/", s.handleIndex)
	e.POST("/", s.handleBancho)
}

func (s *Server) handleIndex(c echo.Context) error {
	return c.HTML(http.StatusOK, indexBody)
}

// handleBancho serves the whole client protocol: a request without an
// osu-token is a login, everything after rides the token.
func (s *Server) handleBancho(c echo.Context) error {
	req := c.Request()

	if req.Header.Get("User-Agent") != "osu!" {
		return c.HTML(http.StatusOK, indexBody)
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("reading request body: %w", err)
	}

	token := req.Header.Get("osu-token")
	if token == "" {
		result := s.Login(req.Context(), body, s.geo.FromRequest(req))
		c.Response().Header().Set("cho-token", result.Token)
		return c.Blob(http.StatusOK, octetStream, result.Body)
	}

	u := s.UserByToken(token)
	if u == nil {
		// The server restarted and forgot the session; the client
		// reconnects on its own.
		return c.Blob(http.StatusOK, octetStream, serverpackets.RestartServer(0))
	}

	return c.Blob(http.StatusOK, octetStream, s.HandleRequest(req.Context(), u, body))
}
