package model

import "time"

// Rent is a rental agreement between a house owner and a locator (the
// prospective tenant). Lifecycle: requested (accepted=false, active) ->
// accepted (accepted=true, active) -> closed (inactive), or requested ->
// closed directly when rejected or cancelled.
type Rent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	HouseID   uint      `json:"house_id" gorm:"index;not null"`
	House     House     `json:"-" gorm:"foreignKey:HouseID"`
	LocatorID uint      `json:"locator_id" gorm:"index;not null"`
	Locator   User      `json:"-" gorm:"foreignKey:LocatorID"`
	Price     float32   `json:"price" gorm:"not null"`
	Accepted  bool      `json:"accepted" gorm:"default:false"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
