package models

import "time"

type UserRole string

const (
	RoleFarmer           UserRole = "farmer"
	RoleBuyer            UserRole = "buyer"
	RoleExtensionOfficer UserRole = "extension_officer"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	Phone        string   `gorm:"size:20"` // E.164, used for SMS notifications
	District     string   `gorm:"size:50;index"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
