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

type rentResponse struct {
	ID       uint    `json:"id"`
	HouseID  uint    `json:"house_id"`
	Locator  string  `json:"locator"`
	Price    float32 `json:"price"`
	Accepted bool    `json:"accepted"`
	IsActive bool    `json:"is_active"`
}

func toRentResponse(r *model.Rent) rentResponse {
	return rentResponse{
		ID:       r.ID,
		HouseID:  r.HouseID,
		Locator:  r.Locator.Email,
		Price:    r.Price,
		Accepted: r.Accepted,
		IsActive: r.IsActive,
	}
}

// CreateRent opens a rent request on an available house. The new rent
// starts unaccepted and leaves the house's availability untouched.
func CreateRent(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		HouseID uint    `json:"house_id"`
		Locator string  `json:"locator"`
		Price   float32 `json:"price"`
	}
	if err := c.Bind(&req); err != nil {
		return apperror.BadRequest("invalid request")
	}
	if req.HouseID == 0 || req.Locator == "" {
		return apperror.BadRequest("house_id and locator are required")
	}

	db := database.GetDB()

	var house model.House
	err := db.Preload("Owner").
		Where("id = ? AND is_active = ? AND is_available = ?", req.HouseID, true, true).
		First(&house).Error
	if err != nil {
		return apperror.NotFound("house not found")
	}

	locator, err := activeUserByEmail(db, req.Locator)
	if err != nil {
		return apperror.NotFound("user not found")
	}

	if house.Owner.Email == locator.Email {
		return apperror.Forbidden("you cannot rent your own house")
	}
	if userHasAcceptedRent(db, locator.Email) {
		return apperror.Forbidden("you cannot rent a house while you already have an active rent")
	}

	rent := model.Rent{
		HouseID:   house.ID,
		House:     house,
		LocatorID: locator.ID,
		Locator:   *locator,
		Price:     req.Price,
		Accepted:  false,
		IsActive:  true,
	}
	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := db.Create(&rent).Error; err != nil {
		log.Error("Failed to create rent", zap.Error(err))
		return apperror.Internal("failed to create rent")
	}

	prometheus.RentOperationCounter.WithLabelValues("create").Inc()
	log.Info("Rent requested",
		zap.Uint("rent_id", rent.ID),
		zap.Uint("house_id", house.ID),
		zap.String("locator", locator.Email))
	return c.JSON(http.StatusCreated, toRentResponse(&rent))
}

// RentsLocator returns the authenticated user's active rents as locator.
func RentsLocator(c echo.Context) error {
	user, _ := middleware.CurrentUser(c)
	page, size := pageParams(c, 10)

	db := database.GetDB()
	query := db.Model(&model.Rent{}).
		Joins("JOIN users ON users.id = rents.locator_id").
		Where("users.email = ? AND rents.is_active = ?", user.Email, true)

	var total int64
	query.Count(&total)

	var rents []model.Rent
	if err := query.Preload("Locator").
		Offset(page * size).
		Limit(size).
		Find(&rents).Error; err != nil {
		return apperror.Internal("failed to retrieve rents")
	}

	content := make([]rentResponse, 0, len(rents))
	for i := range rents {
		content = append(content, toRentResponse(&rents[i]))
	}
	return c.JSON(http.StatusOK, newPage(content, page, size, total))
}

// RentsOwner returns the active rents on houses the authenticated user owns.
func RentsOwner(c echo.Context) error {
	user, _ := middleware.CurrentUser(c)
	page, size := pageParams(c, 10)

	db := database.GetDB()
	query := db.Model(&model.Rent{}).
		Joins("JOIN houses ON houses.id = rents.house_id").
		Joins("JOIN users ON users.id = houses.owner_id").
		Where("users.email = ? AND rents.is_active = ?", user.Email, true)

	var total int64
	query.Count(&total)

	var rents []model.Rent
	if err := query.Preload("Locator").
		Offset(page * size).
		Limit(size).
		Find(&rents).Error; err != nil {
		return apperror.Internal("failed to retrieve rents")
	}

	content := make([]rentResponse, 0, len(rents))
	for i := range rents {
		content = append(content, toRentResponse(&rents[i]))
	}
	return c.JSON(http.StatusOK, newPage(content, page, size, total))
}

// AcceptRent confirms or rejects a rent request. Accepting makes the house
// unavailable; an explicit rejection leaves it available. Rent and house
// are persisted in one transaction.
func AcceptRent(c echo.Context) error {
	log := logger.FromContext(c)
	user, _ := middleware.CurrentUser(c)

	var req struct {
		ID       uint  `json:"id"`
		Accepted *bool `json:"accepted"`
	}
	if err := c.Bind(&req); err != nil {
		return apperror.BadRequest("invalid request")
	}
	if req.ID == 0 || req.Accepted == nil {
		return apperror.BadRequest("id and accepted are required")
	}

	db := database.GetDB()

	var rent model.Rent
	err := db.Preload("House").Preload("Locator").
		Where("id = ? AND is_active = ?", req.ID, true).
		First(&rent).Error
	if err != nil {
		return apperror.NotFound("rent not found")
	}

	if rent.Locator.Email != user.Email {
		return apperror.Forbidden("you can only accept rents you requested")
	}
	if !rent.House.IsActive {
		return apperror.Forbidden("you cannot accept a rent on a house that is no longer listed")
	}
	if userHasAcceptedRent(db, user.Email) {
		return apperror.Forbidden("you cannot rent a house while you already have an active rent")
	}

	accepted := *req.Accepted
	defer prometheus.TrackDBOperation("update")(time.Now())
	err = db.Transaction(func(tx *gorm.DB) error {
		rent.Accepted = accepted
		if err := tx.Save(&rent).Error; err != nil {
			return err
		}
		rent.House.IsAvailable = !accepted
		return tx.Save(&rent.House).Error
	})
	if err != nil {
		log.Error("Failed to accept rent", zap.Error(err))
		return apperror.Internal("failed to update rent")
	}

	op := "accept"
	if !accepted {
		op = "reject"
	}
	prometheus.RentOperationCounter.WithLabelValues(op).Inc()
	log.Info("Rent decision recorded",
		zap.Uint("rent_id", rent.ID),
		zap.Bool("accepted", accepted))
	return c.JSON(http.StatusOK, toRentResponse(&rent))
}

// DeleteRent cancels a rent. Only the owner of the rented house may cancel;
// the house becomes available again in the same transaction.
func DeleteRent(c echo.Context) error {
	log := logger.FromContext(c)
	user, _ := middleware.CurrentUser(c)
	id := c.Param("id")

	db := database.GetDB()

	var rent model.Rent
	err := db.Preload("House.Owner").
		Where("id = ? AND is_active = ?", id, true).
		First(&rent).Error
	if err != nil {
		return apperror.NotFound("rent not found")
	}

	if rent.House.Owner.Email != user.Email {
		return apperror.Forbidden("you can only cancel rents on your own houses")
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	err = db.Transaction(func(tx *gorm.DB) error {
		rent.IsActive = false
		if err := tx.Save(&rent).Error; err != nil {
			return err
		}
		rent.House.IsAvailable = true
		return tx.Save(&rent.House).Error
	})
	if err != nil {
		log.Error("Failed to delete rent", zap.Error(err))
		return apperror.Internal("failed to delete rent")
	}

	prometheus.RentOperationCounter.WithLabelValues("delete").Inc()
	log.Info("Rent cancelled", zap.Uint("rent_id", rent.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "rent deleted successfully"})
}
