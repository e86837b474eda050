package handler

import (
	"net/http"
	"strconv"
	"time"

	"homerent/internal/apperror"
	"homerent/internal/middleware"
	"homerent/internal/model"
	"homerent/pkg/database"
	"homerent/pkg/logger"
	"homerent/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type addressRequest struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
}

func (a addressRequest) toAddress() model.Address {
	return model.Address{
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		Number:     a.Number,
		Complement: a.Complement,
	}
}

func (a addressRequest) incomplete() bool {
	return a.Street == "" || a.City == "" || a.State == "" || a.Number == ""
}

type houseResponse struct {
	ID          uint          `json:"id"`
	Description string        `json:"description"`
	Address     model.Address `json:"address"`
	OwnerEmail  string        `json:"owner_email"`
	OwnerName   string        `json:"owner_name"`
	Stars       float32       `json:"stars"`
	IsAvailable bool          `json:"is_available"`
}

func toHouseResponse(h *model.House) houseResponse {
	return houseResponse{
		ID:          h.ID,
		Description: h.Description,
		Address:     h.Address,
		OwnerEmail:  h.Owner.Email,
		OwnerName:   h.Owner.Name,
		Stars:       h.Stars,
		IsAvailable: h.IsAvailable,
	}
}

// CreateHouse lists a new property. The house belongs to the authenticated
// user unless an admin supplies another owner id.
func CreateHouse(c echo.Context) error {
	log := logger.FromContext(c)
	actor, _ := middleware.CurrentUser(c)

	var req struct {
		Description string         `json:"description"`
		Address     addressRequest `json:"address"`
		OwnerID     uint           `json:"owner_id"`
	}
	if err := c.Bind(&req); err != nil {
		return apperror.BadRequest("invalid request")
	}
	if req.Description == "" || req.Address.incomplete() {
		return apperror.BadRequest("description and full address are required")
	}

	db := database.GetDB()

	owner := actor
	if req.OwnerID != 0 && req.OwnerID != actor.ID {
		if actor.Role != model.RoleAdmin {
			return apperror.Forbidden("only admins can create houses for other owners")
		}
		var other model.User
		if err := db.Where("id = ? AND is_active = ?", req.OwnerID, true).First(&other).Error; err != nil {
			return apperror.NotFound("user not found")
		}
		owner = &other
	}

	address := req.Address.toAddress()
	if addressExists(db, address, 0) {
		return apperror.BadRequest("address already exists")
	}

	house := model.House{
		Description: req.Description,
		Address:     address,
		OwnerID:     owner.ID,
		Owner:       *owner,
		Stars:       0,
		IsAvailable: true,
		IsActive:    true,
	}
	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := db.Create(&house).Error; err != nil {
		log.Error("Failed to create house", zap.Error(err))
		return apperror.Internal("failed to create house")
	}

	prometheus.HouseOperationCounter.WithLabelValues("create").Inc()
	log.Info("House created", zap.Uint("house_id", house.ID), zap.String("owner", owner.Email))
	return c.JSON(http.StatusCreated, toHouseResponse(&house))
}

// GetHouse returns one active house by id.
func GetHouse(c echo.Context) error {
	id := c.Param("id")

	var house model.House
	err := database.GetDB().Preload("Owner").
		Where("id = ? AND is_active = ?", id, true).
		First(&house).Error
	if err != nil {
		return apperror.NotFound("house not found")
	}

	return c.JSON(http.StatusOK, toHouseResponse(&house))
}

// ListHouses returns a page of active, available houses. Default page size
// is 15, sorted by stars.
func ListHouses(c echo.Context) error {
	page, size := pageParams(c, 15)

	order := "stars DESC"
	switch c.QueryParam("sort") {
	case "", "stars":
	case "created_at":
		order = "created_at DESC"
	default:
		return apperror.BadRequest("sort must be stars or created_at")
	}

	db := database.GetDB()
	query := db.Model(&model.House{}).Where("is_active = ? AND is_available = ?", true, true)

	var total int64
	query.Count(&total)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var houses []model.House
	if err := query.Preload("Owner").
		Order(order).
		Offset(page * size).
		Limit(size).
		Find(&houses).Error; err != nil {
		return apperror.Internal("failed to retrieve houses")
	}

	content := make([]houseResponse, 0, len(houses))
	for i := range houses {
		content = append(content, toHouseResponse(&houses[i]))
	}
	return c.JSON(http.StatusOK, newPage(content, page, size, total))
}

// UpdateHouse changes a house's description and address. Only the owner or
// an admin may update a listing.
func UpdateHouse(c echo.Context) error {
	log := logger.FromContext(c)
	actor, _ := middleware.CurrentUser(c)
	id := c.Param("id")

	var req struct {
		Description string         `json:"description"`
		Address     addressRequest `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return apperror.BadRequest("invalid request")
	}
	if req.Description == "" || req.Address.incomplete() {
		return apperror.BadRequest("description and full address are required")
	}

	db := database.GetDB()
	var house model.House
	if err := db.Preload("Owner").Where("id = ? AND is_active = ?", id, true).First(&house).Error; err != nil {
		return apperror.NotFound("house not found")
	}
	if house.Owner.Email != actor.Email && actor.Role != model.RoleAdmin {
		return apperror.Forbidden("you can only update your own houses")
	}

	address := req.Address.toAddress()
	if address != house.Address && addressExists(db, address, house.ID) {
		return apperror.BadRequest("address already exists")
	}

	house.Description = req.Description
	house.Address = address
	if err := db.Save(&house).Error; err != nil {
		log.Error("Failed to update house", zap.Error(err))
		return apperror.Internal("failed to update house")
	}

	prometheus.HouseOperationCounter.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toHouseResponse(&house))
}

// DeleteHouse soft-deletes a listing. Refused while an active rent still
// references the house.
func DeleteHouse(c echo.Context) error {
	log := logger.FromContext(c)
	actor, _ := middleware.CurrentUser(c)
	id := c.Param("id")

	db := database.GetDB()
	var house model.House
	if err := db.Preload("Owner").Where("id = ? AND is_active = ?", id, true).First(&house).Error; err != nil {
		return apperror.NotFound("house not found")
	}
	if house.Owner.Email != actor.Email && actor.Role != model.RoleAdmin {
		return apperror.Forbidden("you can only delete your own houses")
	}
	if houseHasActiveRent(db, house.ID) {
		return apperror.Forbidden("house has an active rent")
	}

	house.IsActive = false
	if err := db.Save(&house).Error; err != nil {
		log.Error("Failed to delete house", zap.Error(err))
		return apperror.Internal("failed to delete house")
	}

	prometheus.HouseOperationCounter.WithLabelValues("delete").Inc()
	log.Info("House deleted", zap.Uint("house_id", house.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "house deleted successfully"})
}

// UploadHouseImage stores one image file for a house under the uploads
// directory and records it.
func UploadHouseImage(c echo.Context) error {
	log := logger.FromContext(c)

	houseID, err := strconv.ParseUint(c.FormValue("house_id"), 10, 32)
	if err != nil {
		return apperror.BadRequest("house_id is required")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return apperror.BadRequest("image file is required")
	}

	db := database.GetDB()
	var house model.House
	if err := db.Where("id = ? AND is_active = ?", houseID, true).First(&house).Error; err != nil {
		return apperror.NotFound("house not found")
	}

	fileName, err := saveUploadedImage(file)
	if err != nil {
		log.Error("Failed to save image", zap.Error(err))
		return err
	}

	image := model.HouseImage{
		HouseID:  house.ID,
		FileName: fileName,
		IsActive: true,
	}
	if err := db.Create(&image).Error; err != nil {
		return apperror.Internal("failed to save image")
	}

	log.Info("House image uploaded", zap.Uint("house_id", house.ID), zap.String("file", fileName))
	return c.JSON(http.StatusOK, echo.Map{
		"house_id":  house.ID,
		"file_name": fileName,
		"url":       "/images/" + fileName,
	})
}
