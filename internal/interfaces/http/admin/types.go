package admin

import (
	"time"

	admindomain "github.com/sngm3741/mymoo-services/api/internal/admin/domain"
)

type adminStoreCreateRequest struct {
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Description string  `json:"description"`
	PhoneNumber string  `json:"phoneNumber"`
	ImagePath   string  `json:"imagePath"`
	Longitude   float64 `json:"longitude"`
	Latitude    float64 `json:"latitude"`
}

type adminMenuCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	ImagePath   string `json:"imagePath"`
}

type adminStoreResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Description string    `json:"description,omitempty"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	ImagePath   string    `json:"imagePath,omitempty"`
	Longitude   float64   `json:"longitude"`
	Latitude    float64   `json:"latitude"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type adminMenuResponse struct {
	ID          int64  `json:"id"`
	StoreID     int64  `json:"storeId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	ImagePath   string `json:"imagePath,omitempty"`
}

// adminStoreDomainToResponse は Store 集約を Admin UI 用レスポンスへ変換する。
func adminStoreDomainToResponse(store admindomain.Store) adminStoreResponse {
	return adminStoreResponse{
		ID:          store.ID,
		Name:        store.Name.String(),
		Address:     store.Address.String(),
		Description: store.Description.String(),
		PhoneNumber: store.PhoneNumber.String(),
		ImagePath:   store.ImagePath.String(),
		Longitude:   store.Location.Longitude,
		Latitude:    store.Location.Latitude,
		CreatedAt:   store.CreatedAt,
		UpdatedAt:   store.UpdatedAt,
	}
}

func adminMenuDomainToResponse(menu admindomain.Menu) adminMenuResponse {
	return adminMenuResponse{
		ID:          menu.ID,
		StoreID:     menu.StoreID,
		Name:        menu.Name.String(),
		Description: menu.Description.String(),
		Price:       menu.Price.Int64(),
		ImagePath:   menu.ImagePath.String(),
	}
}
