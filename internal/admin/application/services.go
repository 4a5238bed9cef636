package application

import (
	"context"

	admindomain "github.com/sngm3741/mymoo-services/api/internal/admin/domain"
)

// StoreRepository exposes admin operations on stores.
type StoreRepository interface {
	FindByID(ctx context.Context, id int64) (*admindomain.Store, error)
	// Create assigns store.ID.
	Create(ctx context.Context, store *admindomain.Store) error
	// AddMenu assigns menu.ID and fails with ErrNotFound for an unknown store.
	AddMenu(ctx context.Context, menu *admindomain.Menu) error
}

// StoreService describes admin store use-cases.
type StoreService interface {
	Detail(ctx context.Context, id int64) (*admindomain.Store, error)
	Register(ctx context.Context, cmd RegisterStoreCommand) (*admindomain.Store, error)
	AddMenu(ctx context.Context, cmd AddMenuCommand) (*admindomain.Menu, error)
}

// RegisterStoreCommand contains inputs for onboarding a store.
type RegisterStoreCommand struct {
	Name        string
	Address     string
	Description string
	PhoneNumber string
	ImagePath   string
	Longitude   float64
	Latitude    float64
}

// AddMenuCommand contains inputs for a new menu item.
type AddMenuCommand struct {
	StoreID     int64
	Name        string
	Description string
	Price       int64
	ImagePath   string
}
