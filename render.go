package pubcontent

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// render writes cmp as an HTML response. The component renders into a buffer
// first so a failing view turns into an error page instead of half a page.
// Error pages are never cached.
func (a *App) render(c echo.Context, code int, cmp templ.Component) error {
	var buf bytes.Buffer
	if err := cmp.Render(c.Request().Context(), &buf); err != nil {
		return fmt.Errorf("render %s: %w", c.Request().URL.Path, err)
	}
	if code >= http.StatusBadRequest {
		c.Response().Header().Set("Cache-Control", "no-store")
	}
	return c.HTMLBlob(code, buf.Bytes())
}

// httpErrorHandler renders the site's not-found and server-error views for
// page requests. API requests and other statuses get Echo's JSON error body.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
	}
	if code >= http.StatusInternalServerError {
		c.Logger().Errorf("server error: %v", err)
	}

	if !strings.HasPrefix(c.Request().URL.Path, "/api/") {
		var view templ.Component
		switch {
		case code == http.StatusNotFound:
			view = a.Views.NotFound(a.Config.Name)
		case code >= http.StatusInternalServerError:
			view = a.Views.ServerError(a.Config.Name)
		}
		if view != nil {
			rerr := a.render(c, code, view)
			if rerr == nil {
				return
			}
			c.Logger().Errorf("error view: %v", rerr)
		}
	}
	c.Response().Header().Set("Cache-Control", "no-store")
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
