package model

import "time"

// Address is embedded into House. Two active houses may never share the
// same full address (street, city, state, number, complement).
type Address struct {
	Street     string `json:"street" gorm:"type:varchar(150);not null"`
	City       string `json:"city" gorm:"type:varchar(100);not null"`
	State      string `json:"state" gorm:"type:varchar(100);not null"`
	Number     string `json:"number" gorm:"type:varchar(20);not null"`
	Complement string `json:"complement" gorm:"type:varchar(100)"`
}

// House represents a listed property. IsAvailable flips to false exactly
// when one of its rents is accepted and back to true when that rent is
// rejected or cancelled.
type House struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Address     Address   `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	OwnerID     uint      `json:"owner_id" gorm:"index;not null"`
	Owner       User      `json:"owner" gorm:"foreignKey:OwnerID"`
	Stars       float32   `json:"stars" gorm:"default:0"`
	IsAvailable bool      `json:"is_available" gorm:"default:true"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HouseImage records one uploaded image file for a house. The file itself
// lives under the uploads directory and is served back under /images.
type HouseImage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	HouseID   uint      `json:"house_id" gorm:"index;not null"`
	House     House     `json:"-" gorm:"foreignKey:HouseID"`
	FileName  string    `json:"file_name" gorm:"type:varchar(255);not null"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
}
