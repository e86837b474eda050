package model

import "time"

// HouseReview and UserReview are two independent tables sharing the same
// common fields. Writing a review recomputes the reviewed entity's running
// star average from the count of its prior active reviews.

// HouseReview is a review written about a house.
type HouseReview struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	WriterID uint      `json:"writer_id" gorm:"index;not null"`
	Writer   User      `json:"-" gorm:"foreignKey:WriterID"`
	HouseID  uint      `json:"house_id" gorm:"index;not null"`
	House    House     `json:"-" gorm:"foreignKey:HouseID"`
	Comment  string    `json:"comment" gorm:"type:text;not null"`
	Stars    int       `json:"stars" gorm:"not null"`
	PostedAt time.Time `json:"posted_at"`
	IsActive bool      `json:"is_active" gorm:"default:true"`
}

// UserReview is a review written about another user.
type UserReview struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	WriterID   uint      `json:"writer_id" gorm:"index;not null"`
	Writer     User      `json:"-" gorm:"foreignKey:WriterID"`
	ReviewedID uint      `json:"reviewed_id" gorm:"index;not null"`
	Reviewed   User      `json:"-" gorm:"foreignKey:ReviewedID"`
	Comment    string    `json:"comment" gorm:"type:text;not null"`
	Stars      int       `json:"stars" gorm:"not null"`
	PostedAt   time.Time `json:"posted_at"`
	IsActive   bool      `json:"is_active" gorm:"default:true"`
}
