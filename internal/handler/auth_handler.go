package handler

import (
	"net/http"
	"time"

	"homerent/internal/apperror"
	"homerent/pkg/database"
	"homerent/pkg/jwtutil"
	"homerent/pkg/logger"
	"homerent/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Login authenticates an active user by email and password and issues a
// bearer token.
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return apperror.BadRequest("invalid request")
	}
	if req.Email == "" || req.Password == "" {
		prometheus.RecordAuthError("incomplete_login")
		return apperror.BadRequest("email and password are required")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, err := activeUserByEmail(database.GetDB(), req.Email)
	if err != nil {
		log.Error("User not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return apperror.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Error("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return apperror.Unauthorized("invalid credentials")
	}

	token, err := jwtutil.GenerateToken(user)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return apperror.Internal("token error")
	}

	prometheus.IncreaseActiveTokens()
	log.Info("User logged in", zap.String("email", user.Email), zap.String("role", string(user.Role)))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
	})
}
