package handler

import (
	"net/http"
	"time"

	"homerent/internal/apperror"
	"homerent/internal/middleware"
	"homerent/internal/model"
	"homerent/pkg/database"
	"homerent/pkg/logger"
	"homerent/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// CreateUser registers a new account. This is the only public write
// endpoint besides login.
func CreateUser(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		return apperror.BadRequest("invalid request")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return apperror.BadRequest("name, email, password and role are required")
	}
	if !validPassword(req.Password) {
		return apperror.BadRequest("password must be at least 8 characters long and contain an upper case letter, a lower case letter and a digit")
	}
	role, ok := model.ParseRole(req.Role)
	if !ok {
		return apperror.BadRequest("role must be one of ADMIN, OWNER, CLIENT")
	}

	db := database.GetDB()
	if activeUserExists(db, req.Email) {
		log.Warn("Email already registered", zap.String("email", req.Email))
		return apperror.BadRequest("email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return apperror.Internal("registration failed")
	}

	user := model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     role,
		Stars:    0,
		IsActive: true,
	}
	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := db.Create(&user); result.Error != nil {
		log.Error("Failed to create user", zap.Error(result.Error))
		return apperror.Internal("registration failed")
	}

	log.Info("User registered", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return c.JSON(http.StatusCreated, echo.Map{"message": "user created successfully"})
}

// GetUser returns the public profile of an active user.
func GetUser(c echo.Context) error {
	email := c.Param("email")

	user, err := activeUserByEmail(database.GetDB(), email)
	if err != nil {
		return apperror.NotFound("user not found")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"name":  user.Name,
		"email": user.Email,
		"stars": user.Stars,
		"role":  user.Role,
	})
}

// UpdateUser changes the authenticated user's display name and email.
func UpdateUser(c echo.Context) error {
	log := logger.FromContext(c)
	user, _ := middleware.CurrentUser(c)

	var req struct {
		NewName  string `json:"new_name"`
		NewEmail string `json:"new_email"`
	}
	if err := c.Bind(&req); err != nil {
		return apperror.BadRequest("invalid request")
	}
	if req.NewName == "" || req.NewEmail == "" {
		return apperror.BadRequest("new_name and new_email are required")
	}

	db := database.GetDB()
	if user.Email != req.NewEmail && activeUserExists(db, req.NewEmail) {
		return apperror.BadRequest("email already exists")
	}

	user.Name = req.NewName
	user.Email = req.NewEmail
	if err := db.Save(user).Error; err != nil {
		log.Error("Failed to update user", zap.Error(err))
		return apperror.Internal("update failed")
	}

	log.Info("User updated", zap.String("email", user.Email))
	return c.JSON(http.StatusOK, echo.Map{
		"new_name":  user.Name,
		"new_email": user.Email,
	})
}

// UpdateUserPassword changes the authenticated user's password after
// verifying the current one.
func UpdateUserPassword(c echo.Context) error {
	log := logger.FromContext(c)
	user, _ := middleware.CurrentUser(c)

	var req struct {
		Password    string `json:"password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return apperror.BadRequest("invalid request")
	}
	if !validPassword(req.NewPassword) {
		return apperror.BadRequest("password must be at least 8 characters long and contain an upper case letter, a lower case letter and a digit")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		// A wrong current password surfaces as a missing entity, not a
		// validation failure.
		return apperror.NotFound("old password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Internal("password update failed")
	}
	user.Password = string(hashed)
	if err := database.GetDB().Save(user).Error; err != nil {
		log.Error("Failed to update password", zap.Error(err))
		return apperror.Internal("password update failed")
	}

	log.Info("Password updated", zap.String("email", user.Email))
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated successfully"})
}

// DeleteUser soft-deletes the authenticated user. Accounts holding an
// accepted rent or an active house listing cannot be removed.
func DeleteUser(c echo.Context) error {
	log := logger.FromContext(c)
	user, _ := middleware.CurrentUser(c)

	db := database.GetDB()
	if userHasAcceptedRent(db, user.Email) {
		return apperror.Forbidden("user has active rents")
	}
	if userHasActiveHouse(db, user.Email) {
		return apperror.Forbidden("user has active houses")
	}

	user.IsActive = false
	if err := db.Save(user).Error; err != nil {
		log.Error("Failed to delete user", zap.Error(err))
		return apperror.Internal("delete failed")
	}

	log.Info("User deleted", zap.String("email", user.Email))
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted successfully"})
}
