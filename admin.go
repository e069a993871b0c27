package pubcontent

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubcontent/content"
)

// nodeRequest is the JSON body of POST /admin/nodes/.
type nodeRequest struct {
	ID         int               `json:"id"`
	ParentID   int               `json:"parentId"`
	SortOrder  int               `json:"sortOrder"`
	Name       string            `json:"name"`
	Type       string            `json:"type"`
	Segment    string            `json:"segment"`
	Cultures   map[string]string `json:"cultures"`
	Properties []struct {
		Alias  string          `json:"alias"`
		Editor string          `json:"editor"`
		Value  json.RawMessage `json:"value"`
	} `json:"properties"`
}

func (r nodeRequest) node() (*content.Node, error) {
	name := strings.TrimSpace(r.Name)
	switch {
	case r.ID <= 0:
		return nil, errors.New("id must be positive")
	case name == "":
		return nil, errors.New("name is required")
	case strings.TrimSpace(r.Type) == "":
		return nil, errors.New("type is required")
	case r.ParentID == r.ID:
		return nil, errors.New("node cannot be its own parent")
	}

	n := &content.Node{
		ID:         r.ID,
		ParentID:   r.ParentID,
		SortOrder:  r.SortOrder,
		Name:       name,
		DocType:    strings.TrimSpace(r.Type),
		URLSegment: content.Slugify(r.Segment),
	}
	if len(r.Cultures) > 0 {
		n.CultureSegments = make(map[string]string, len(r.Cultures))
		for culture, seg := range r.Cultures {
			n.CultureSegments[strings.ToLower(culture)] = content.Slugify(seg)
		}
	}
	for _, p := range r.Properties {
		if strings.TrimSpace(p.Alias) == "" {
			return nil, errors.New("property alias is required")
		}
		v, err := content.DecodeValue(content.KindOf(p.Editor), string(p.Value))
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", p.Alias, err)
		}
		n.Properties = append(n.Properties, content.Property{Alias: p.Alias, EditorAlias: p.Editor, Value: v})
	}
	return n, nil
}

func (a *App) handleAdmin(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"authenticated": isAdmin(c),
		"csrf":          csrfToken(c),
	})
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) != 1 {
		a.loginLimiter.Record(ip)
		c.Logger().Warnf("failed admin login from %s", ip)
		return echo.ErrUnauthorized
	}
	if err := setAdmin(c, true); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func handleAdminLogout(c echo.Context) error {
	if err := setAdmin(c, false); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleNodeSave(c echo.Context) error {
	var req nodeRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	n, err := req.node()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if err := a.writer.SaveNode(ctx, n); err != nil {
		return err
	}
	if n.IsDocumentType(content.SiteSettingsType) {
		if err := a.loadSettings(ctx); err != nil {
			return err
		}
	}
	u, err := a.URLs.URL(ctx, n, a.Config.Culture, content.URLRelative)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"id": n.ID, "url": u})
}

func (a *App) handleNodeDelete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid node id")
	}
	ctx := c.Request().Context()
	existing, err := a.Store.GetByID(ctx, id)
	if errors.Is(err, content.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "node not found")
	}
	if err != nil {
		return err
	}
	if err := a.writer.DeleteNode(ctx, id); err != nil {
		return err
	}
	if existing.IsDocumentType(content.SiteSettingsType) {
		if err := a.loadSettings(ctx); err != nil {
			return err
		}
	}
	return c.NoContent(http.StatusNoContent)
}
