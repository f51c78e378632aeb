package models

import "time"

const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// User is an account that owns builds. Admins also manage the catalog.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"` // bcrypt, never serialised
	Role         string    `gorm:"size:20;not null;default:User" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
