package model

import "time"

// Role determines which routes a user may call.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleOwner  Role = "OWNER"
	RoleClient Role = "CLIENT"
)

// ParseRole converts the wire representation of a role into a Role.
// Returns false for anything outside the known set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleOwner, RoleClient:
		return Role(s), true
	default:
		return "", false
	}
}

// User represents an account stored in the database. IsActive is a
// soft-delete marker: inactive users are invisible to every lookup.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Email     string    `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Password  string    `json:"-" gorm:"type:varchar(255)"`
	Role      Role      `json:"role" gorm:"type:varchar(20);not null"`
	Stars     float32   `json:"stars" gorm:"default:0"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
