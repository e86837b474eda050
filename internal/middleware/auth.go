package middleware

import (
	"strings"

	"homerent/internal/apperror"
	"homerent/internal/model"
	"homerent/pkg/database"
	"homerent/pkg/jwtutil"
	"homerent/pkg/logger"
	"homerent/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const userContextKey = "user"

// Authenticate resolves the bearer token into an active user and attaches
// it to the request context. Requests without an Authorization header pass
// through unauthenticated; the authorization policy decides whether that
// is acceptable for the route.
func Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return next(c)
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			log.Error("Invalid Authorization header format")
			prometheus.RecordAuthError("invalid_auth_format")
			return apperror.Unauthorized("invalid authorization format, expected Bearer token")
		}

		subject, err := jwtutil.ParseSubject(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return apperror.Unauthorized("invalid or expired token")
		}

		var user model.User
		result := database.GetDB().Where("email = ? AND is_active = ?", subject, true).First(&user)
		if result.Error != nil {
			log.Error("Token subject not found or inactive", zap.String("email", subject))
			prometheus.RecordAuthError("user_not_found")
			// An unknown subject surfaces as a missing entity, not an
			// auth failure.
			return apperror.NotFound("user not found or inactive")
		}

		c.Set(userContextKey, &user)
		return next(c)
	}
}

// CurrentUser returns the authenticated user attached to the request, if any.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(userContextKey).(*model.User)
	return user, ok
}

// SetCurrentUser attaches a user to the request context. Used by the
// authentication middleware and by tests.
func SetCurrentUser(c echo.Context, user *model.User) {
	c.Set(userContextKey, user)
}
