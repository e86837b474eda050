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
	"gorm.io/gorm"
)

type reviewResponse struct {
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Comment  string    `json:"comment"`
	Stars    int       `json:"stars"`
	PostedAt time.Time `json:"posted_at"`
}

// runningAverage folds one new rating into the current average given the
// number of prior reviews.
func runningAverage(current float32, priorCount int64, stars int) float32 {
	if priorCount == 0 {
		return float32(stars)
	}
	return (current*float32(priorCount) + float32(stars)) / float32(priorCount+1)
}

// CreateHouseReview stores a review about a house and recomputes the
// house's running star average in the same transaction.
func CreateHouseReview(c echo.Context) error {
	log := logger.FromContext(c)
	writer, _ := middleware.CurrentUser(c)

	var req struct {
		HouseID uint   `json:"house_id"`
		Comment string `json:"comment"`
		Stars   *int   `json:"stars"`
	}
	if err := c.Bind(&req); err != nil {
		return apperror.BadRequest("invalid request")
	}
	if req.HouseID == 0 || req.Comment == "" || req.Stars == nil {
		return apperror.BadRequest("house_id, comment and stars are required")
	}
	if *req.Stars < 0 || *req.Stars > 5 {
		return apperror.BadRequest("stars must be between 0 and 5")
	}

	db := database.GetDB()

	var house model.House
	if err := db.Where("id = ? AND is_active = ?", req.HouseID, true).First(&house).Error; err != nil {
		return apperror.NotFound("house not found")
	}

	review := model.HouseReview{
		WriterID: writer.ID,
		HouseID:  house.ID,
		Comment:  req.Comment,
		Stars:    *req.Stars,
		PostedAt: time.Now(),
		IsActive: true,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	err := db.Transaction(func(tx *gorm.DB) error {
		var prior int64
		tx.Model(&model.HouseReview{}).
			Where("house_id = ? AND is_active = ?", house.ID, true).
			Count(&prior)

		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		house.Stars = runningAverage(house.Stars, prior, review.Stars)
		return tx.Save(&house).Error
	})
	if err != nil {
		log.Error("Failed to create house review", zap.Error(err))
		return apperror.Internal("failed to create review")
	}

	prometheus.ReviewCounter.WithLabelValues("house").Inc()
	log.Info("House review created",
		zap.Uint("house_id", house.ID),
		zap.Int("stars", review.Stars))
	return c.JSON(http.StatusCreated, reviewResponse{
		Email:    writer.Email,
		Name:     writer.Name,
		Comment:  review.Comment,
		Stars:    review.Stars,
		PostedAt: review.PostedAt,
	})
}

// CreateUserReview stores a review about another user and recomputes that
// user's running star average in the same transaction.
func CreateUserReview(c echo.Context) error {
	log := logger.FromContext(c)
	writer, _ := middleware.CurrentUser(c)

	var req struct {
		Reviewed string `json:"reviewed"`
		Comment  string `json:"comment"`
		Stars    *int   `json:"stars"`
	}
	if err := c.Bind(&req); err != nil {
		return apperror.BadRequest("invalid request")
	}
	if req.Reviewed == "" || req.Comment == "" || req.Stars == nil {
		return apperror.BadRequest("reviewed, comment and stars are required")
	}
	if *req.Stars < 0 || *req.Stars > 5 {
		return apperror.BadRequest("stars must be between 0 and 5")
	}

	db := database.GetDB()

	reviewed, err := activeUserByEmail(db, req.Reviewed)
	if err != nil {
		return apperror.NotFound("user not found")
	}

	review := model.UserReview{
		WriterID:   writer.ID,
		ReviewedID: reviewed.ID,
		Comment:    req.Comment,
		Stars:      *req.Stars,
		PostedAt:   time.Now(),
		IsActive:   true,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	err = db.Transaction(func(tx *gorm.DB) error {
		var prior int64
		tx.Model(&model.UserReview{}).
			Where("reviewed_id = ? AND is_active = ?", reviewed.ID, true).
			Count(&prior)

		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		reviewed.Stars = runningAverage(reviewed.Stars, prior, review.Stars)
		return tx.Save(reviewed).Error
	})
	if err != nil {
		log.Error("Failed to create user review", zap.Error(err))
		return apperror.Internal("failed to create review")
	}

	prometheus.ReviewCounter.WithLabelValues("user").Inc()
	log.Info("User review created",
		zap.String("reviewed", reviewed.Email),
		zap.Int("stars", review.Stars))
	return c.JSON(http.StatusCreated, reviewResponse{
		Email:    writer.Email,
		Name:     writer.Name,
		Comment:  review.Comment,
		Stars:    review.Stars,
		PostedAt: review.PostedAt,
	})
}

// GetHouseReviews returns a page of active reviews for one house, newest
// first.
func GetHouseReviews(c echo.Context) error {
	id := c.Param("id")
	page, size := pageParams(c, 10)

	db := database.GetDB()

	var house model.House
	if err := db.Where("id = ? AND is_active = ?", id, true).First(&house).Error; err != nil {
		return apperror.NotFound("house not found")
	}

	query := db.Model(&model.HouseReview{}).
		Where("house_id = ? AND is_active = ?", house.ID, true)

	var total int64
	query.Count(&total)

	var reviews []model.HouseReview
	if err := query.Preload("Writer").
		Order("posted_at DESC").
		Offset(page * size).
		Limit(size).
		Find(&reviews).Error; err != nil {
		return apperror.Internal("failed to retrieve reviews")
	}

	content := make([]reviewResponse, 0, len(reviews))
	for _, r := range reviews {
		content = append(content, reviewResponse{
			Email:    r.Writer.Email,
			Name:     r.Writer.Name,
			Comment:  r.Comment,
			Stars:    r.Stars,
			PostedAt: r.PostedAt,
		})
	}
	return c.JSON(http.StatusOK, newPage(content, page, size, total))
}

// GetUserReviews returns a page of active reviews about one user, newest
// first.
func GetUserReviews(c echo.Context) error {
	email := c.Param("email")
	page, size := pageParams(c, 10)

	db := database.GetDB()

	reviewed, err := activeUserByEmail(db, email)
	if err != nil {
		return apperror.NotFound("user not found")
	}

	query := db.Model(&model.UserReview{}).
		Where("reviewed_id = ? AND is_active = ?", reviewed.ID, true)

	var total int64
	query.Count(&total)

	var reviews []model.UserReview
	if err := query.Preload("Writer").
		Order("posted_at DESC").
		Offset(page * size).
		Limit(size).
		Find(&reviews).Error; err != nil {
		return apperror.Internal("failed to retrieve reviews")
	}

	content := make([]reviewResponse, 0, len(reviews))
	for _, r := range reviews {
		content = append(content, reviewResponse{
			Email:    r.Writer.Email,
			Name:     r.Writer.Name,
			Comment:  r.Comment,
			Stars:    r.Stars,
			PostedAt: r.PostedAt,
		})
	}
	return c.JSON(http.StatusOK, newPage(content, page, size, total))
}
