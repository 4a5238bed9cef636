package domain

import (
	"math"
	"time"
)

// StoreSummary is one row of the public store list.
type StoreSummary struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	ImagePath      string  `json:"imagePath,omitempty"`
	LikeCount      int     `json:"likeCount"`
	ReviewCount    int     `json:"reviewCount"`
	UsableDonation int64   `json:"usableDonation"`
	Distance       float64 `json:"distance"`
	Likeable       bool    `json:"likeable"`
}

// StoreList is the slice envelope around store summaries.
type StoreList struct {
	Stores           []StoreSummary `json:"stores"`
	HasNext          bool           `json:"hasNext"`
	NumberOfElements int            `json:"numberOfElements"`
	PageNumber       int            `json:"pageNumber"`
	PageSize         int            `json:"pageSize"`
}

// StoreDetail is the public store detail view.
type StoreDetail struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Description    string  `json:"description,omitempty"`
	PhoneNumber    string  `json:"phoneNumber,omitempty"`
	ImagePath      string  `json:"imagePath,omitempty"`
	Longitude      float64 `json:"longitude"`
	Latitude       float64 `json:"latitude"`
	LikeCount      int     `json:"likeCount"`
	ReviewCount    int     `json:"reviewCount"`
	AllDonation    int64   `json:"allDonation"`
	UsableDonation int64   `json:"usableDonation"`
	Likeable       bool    `json:"likeable"`
}

// MenuItem is one menu entry of a store.
type MenuItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	ImagePath   string `json:"imagePath,omitempty"`
}

// MenuList wraps the menus of a store.
type MenuList struct {
	Menus []MenuItem `json:"menus"`
}

// DonationItem is one ledger row as shown to clients.
type DonationItem struct {
	DonationID int64     `json:"donationId"`
	Point      int64     `json:"point"`
	Donator    string    `json:"donator"`
	DonatedAt  time.Time `json:"donatedAt"`
}

// DonationList is the slice envelope around donation rows.
type DonationList struct {
	Donations        []DonationItem `json:"donations"`
	HasNext          bool           `json:"hasNext"`
	NumberOfElements int            `json:"numberOfElements"`
	PageNumber       int            `json:"pageNumber"`
	PageSize         int            `json:"pageSize"`
}

// LikeResult is returned by the like toggle.
type LikeResult struct {
	StoreID   int64      `json:"storeId"`
	Action    LikeAction `json:"action"`
	LikeCount int        `json:"likeCount"`
	Likeable  bool       `json:"likeable"`
}

// DonationReceipt is returned after a donation was credited.
type DonationReceipt struct {
	DonationID     int64     `json:"donationId"`
	StoreID        int64     `json:"storeId"`
	Point          int64     `json:"point"`
	AllDonation    int64     `json:"allDonation"`
	UsableDonation int64     `json:"usableDonation"`
	DonatedAt      time.Time `json:"donatedAt"`
}

// NewStoreSummary builds the list row. distance is in metres.
func NewStoreSummary(store Store, likeable bool, distance float64) StoreSummary {
	return StoreSummary{
		ID:             store.ID,
		Name:           store.Name,
		Address:        store.Address,
		ImagePath:      store.ImagePath,
		LikeCount:      store.LikeCount,
		ReviewCount:    store.ReviewCount,
		UsableDonation: store.UsableDonation,
		Distance:       math.Round(distance*10) / 10,
		Likeable:       likeable,
	}
}

// NewStoreList flattens a slice of summaries into the response envelope.
func NewStoreList(slice Slice[StoreSummary]) StoreList {
	stores := slice.Content
	if stores == nil {
		stores = []StoreSummary{}
	}
	return StoreList{
		Stores:           stores,
		HasNext:          slice.HasNext,
		NumberOfElements: slice.NumberOfElements(),
		PageNumber:       slice.Number,
		PageSize:         slice.Size,
	}
}

// NewStoreDetail builds the detail view.
func NewStoreDetail(store Store, likeable bool) StoreDetail {
	return StoreDetail{
		ID:             store.ID,
		Name:           store.Name,
		Address:        store.Address,
		Description:    store.Description,
		PhoneNumber:    store.PhoneNumber,
		ImagePath:      store.ImagePath,
		Longitude:      store.Longitude,
		Latitude:       store.Latitude,
		LikeCount:      store.LikeCount,
		ReviewCount:    store.ReviewCount,
		AllDonation:    store.AllDonation,
		UsableDonation: store.UsableDonation,
		Likeable:       likeable,
	}
}

// NewMenuList builds the menu view; no menus yields an empty list.
func NewMenuList(menus []Menu) MenuList {
	items := make([]MenuItem, 0, len(menus))
	for _, menu := range menus {
		items = append(items, MenuItem{
			ID:          menu.ID,
			Name:        menu.Name,
			Description: menu.Description,
			Price:       menu.Price,
			ImagePath:   menu.ImagePath,
		})
	}
	return MenuList{Menus: items}
}

// NewDonationList flattens a slice of ledger rows. pageNumber and pageSize
// echo the request.
func NewDonationList(slice Slice[DonationEntry]) DonationList {
	items := make([]DonationItem, 0, len(slice.Content))
	for _, entry := range slice.Content {
		items = append(items, DonationItem{
			DonationID: entry.ID,
			Point:      entry.Point,
			Donator:    entry.DonatorNickname,
			DonatedAt:  entry.CreatedAt,
		})
	}
	return DonationList{
		Donations:        items,
		HasNext:          slice.HasNext,
		NumberOfElements: len(items),
		PageNumber:       slice.Number,
		PageSize:         slice.Size,
	}
}

// NewLikeResult builds the toggle response. A store that was just liked can
// no longer be liked by the same caller.
func NewLikeResult(storeID int64, toggle LikeToggle) LikeResult {
	return LikeResult{
		StoreID:   storeID,
		Action:    toggle.Action,
		LikeCount: toggle.LikeCount,
		Likeable:  toggle.Action == LikeActionUnliked,
	}
}

// NewDonationReceipt builds the donation response.
func NewDonationReceipt(credit DonationCredit) DonationReceipt {
	return DonationReceipt{
		DonationID:     credit.Donation.ID,
		StoreID:        credit.Donation.StoreID,
		Point:          credit.Donation.Point,
		AllDonation:    credit.AllDonation,
		UsableDonation: credit.UsableDonation,
		DonatedAt:      credit.Donation.CreatedAt,
	}
}
