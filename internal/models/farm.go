package models

import "time"

type Farm struct {
	ID        uint `gorm:"primaryKey"`
	FarmerID  uint `gorm:"index;not null"`
	Farmer    *User
	Name      string  `gorm:"size:100;not null"`
	District  string  `gorm:"size:50;index"`
	SizeAcres float64 `gorm:"not null"`
	Latitude  float64
	Longitude float64
	SoilType  string `gorm:"size:50"` // loamy, sandy, clay...
	CreatedAt time.Time
	UpdatedAt time.Time
}
