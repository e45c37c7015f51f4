package models

import "time"

type OrderStatus string

const (
	OrderStatusListed    OrderStatus = "listed"
	OrderStatusPurchased OrderStatus = "purchased"
	OrderStatusInTransit OrderStatus = "in_transit"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a produce listing that moves through the marketplace lifecycle:
// listed -> purchased -> in_transit -> delivered. A listing can only be
// cancelled while it is still listed.
type Order struct {
	ID       uint   `gorm:"primaryKey"`
	Code     string `gorm:"size:36;uniqueIndex;not null"` // public reference, uuid
	FarmID   uint   `gorm:"index;not null"`
	Farm     *Farm
	FarmerID uint `gorm:"index;not null"`
	Farmer   *User
	BuyerID  *uint `gorm:"index"` // set on purchase
	Buyer    *User

	Crop       string  `gorm:"size:50;index;not null"`
	District   string  `gorm:"size:50;index"` // denormalized from farm for marketplace filters
	QuantityKg float64 `gorm:"not null"`
	PricePerKg float64 `gorm:"not null"`
	TotalPrice float64

	Status      OrderStatus `gorm:"size:20;index;not null"`
	ListedAt    time.Time
	PurchasedAt *time.Time
	DeliveredAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
