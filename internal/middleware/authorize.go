package middleware

import (
	"net/http"
	"strings"

	"homerent/internal/apperror"
	"homerent/internal/model"

	"github.com/labstack/echo/v4"
)

// rule is one entry of the authorization policy. An empty method matches
// any verb; a path ending in "/**" matches the prefix and everything
// below it. Empty roles on a non-public rule mean any authenticated user.
type rule struct {
	method string
	path   string
	public bool
	roles  []model.Role
}

func (r rule) matches(method, path string) bool {
	if r.method != "" && r.method != method {
		return false
	}
	if prefix, ok := strings.CutSuffix(r.path, "/**"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == r.path
}

func (r rule) allows(role model.Role) bool {
	if len(r.roles) == 0 {
		return true
	}
	for _, allowed := range r.roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// policy is evaluated top to bottom, first match wins. Anything that
// matches no rule requires an authenticated user of any role.
var policy = []rule{
	{path: "/login", public: true},
	{method: http.MethodPost, path: "/user", public: true},
	{method: http.MethodGet, path: "/health", public: true},
	{method: http.MethodGet, path: "/metrics", public: true},
	{method: http.MethodGet, path: "/images/**", public: true},
	{method: http.MethodPost, path: "/review/house", roles: []model.Role{model.RoleAdmin, model.RoleClient}},
	{method: http.MethodPost, path: "/house/**", roles: []model.Role{model.RoleAdmin, model.RoleOwner}},
	{method: http.MethodPost, path: "/rent", roles: []model.Role{model.RoleAdmin, model.RoleOwner}},
	{method: http.MethodPut, path: "/rent/accept", roles: []model.Role{model.RoleAdmin, model.RoleClient}},
	{method: http.MethodDelete, path: "/rent/**", roles: []model.Role{model.RoleAdmin, model.RoleOwner}},
	{method: http.MethodGet, path: "/rent/locator", roles: []model.Role{model.RoleAdmin, model.RoleClient}},
	{method: http.MethodGet, path: "/rent/owner", roles: []model.Role{model.RoleAdmin, model.RoleOwner}},
}

// Authorize enforces the static role policy after authentication ran.
// Missing identity on a protected route yields 401; a present identity
// with the wrong role yields 403.
func Authorize(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, authenticated := CurrentUser(c)
		method := c.Request().Method
		path := c.Request().URL.Path

		for _, r := range policy {
			if !r.matches(method, path) {
				continue
			}
			if r.public {
				return next(c)
			}
			if !authenticated {
				return apperror.Unauthorized("authentication required")
			}
			if !r.allows(user.Role) {
				return apperror.Forbidden("insufficient permissions")
			}
			return next(c)
		}

		if !authenticated {
			return apperror.Unauthorized("authentication required")
		}
		return next(c)
	}
}
