package handler

import (
	"unicode"

	"homerent/internal/model"

	"gorm.io/gorm"
)

// Existence and uniqueness checks shared by the handlers. Soft deletion is
// a plain boolean column, so every query repeats the is_active filter
// explicitly.

func activeUserByEmail(db *gorm.DB, email string) (*model.User, error) {
	var user model.User
	if err := db.Where("email = ? AND is_active = ?", email, true).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func activeUserExists(db *gorm.DB, email string) bool {
	var count int64
	db.Model(&model.User{}).Where("email = ? AND is_active = ?", email, true).Count(&count)
	return count > 0
}

// userHasAcceptedRent reports whether the user currently participates in an
// active and accepted rent, either as the locator or as the owner of the
// rented house.
func userHasAcceptedRent(db *gorm.DB, email string) bool {
	var count int64
	db.Model(&model.Rent{}).
		Joins("JOIN houses ON houses.id = rents.house_id").
		Joins("JOIN users AS owners ON owners.id = houses.owner_id").
		Joins("JOIN users AS locators ON locators.id = rents.locator_id").
		Where("rents.is_active = ? AND rents.accepted = ?", true, true).
		Where("owners.email = ? OR locators.email = ?", email, email).
		Count(&count)
	return count > 0
}

// houseHasActiveRent reports whether any active rent references the house.
func houseHasActiveRent(db *gorm.DB, houseID uint) bool {
	var count int64
	db.Model(&model.Rent{}).
		Where("house_id = ? AND is_active = ?", houseID, true).
		Count(&count)
	return count > 0
}

// userHasActiveHouse reports whether the user still owns an active house.
func userHasActiveHouse(db *gorm.DB, email string) bool {
	var count int64
	db.Model(&model.House{}).
		Joins("JOIN users ON users.id = houses.owner_id").
		Where("users.email = ? AND houses.is_active = ?", email, true).
		Count(&count)
	return count > 0
}

// addressExists reports whether an active house already uses the full
// address, optionally excluding one house id (for updates).
func addressExists(db *gorm.DB, addr model.Address, excludeID uint) bool {
	query := db.Model(&model.House{}).
		Where("address_street = ? AND address_city = ? AND address_state = ? AND address_number = ? AND address_complement = ? AND is_active = ?",
			addr.Street, addr.City, addr.State, addr.Number, addr.Complement, true)
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}
	var count int64
	query.Count(&count)
	return count > 0
}

// validPassword enforces the registration password policy: at least eight
// characters including one upper case letter, one lower case letter and
// one digit.
func validPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}
