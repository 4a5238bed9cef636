package domain

import "time"

// Store aggregates data required for admin operations.
type Store struct {
	ID          int64
	Name        StoreName
	Address     Address
	Description Description
	PhoneNumber PhoneNumber
	ImagePath   ImagePath
	Location    Location
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Menu is an item registered under a store.
type Menu struct {
	ID          int64
	StoreID     int64
	Name        MenuName
	Description Description
	Price       Money
	ImagePath   ImagePath
}
