package domain

import "time"

// Store represents a publicly visible store entity.
type Store struct {
	ID             int64
	Name           string
	Address        string
	Description    string
	PhoneNumber    string
	ImagePath      string
	Longitude      float64
	Latitude       float64
	LikeCount      int
	ReviewCount    int
	AllDonation    int64
	UsableDonation int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Coordinate returns the store position.
func (s Store) Coordinate() Coordinate {
	return Coordinate{Longitude: s.Longitude, Latitude: s.Latitude}
}

// Menu is a single item a store sells.
type Menu struct {
	ID          int64
	StoreID     int64
	Name        string
	Description string
	Price       int64
	ImagePath   string
}

// Account is the caller as far as the store context cares.
type Account struct {
	ID       int64
	Nickname string
}

// Donation is an append-only ledger entry.
type Donation struct {
	ID        int64
	StoreID   int64
	AccountID int64
	Point     int64
	CreatedAt time.Time
}

// DonationEntry is a ledger row joined with the donator nickname.
type DonationEntry struct {
	ID              int64
	Point           int64
	DonatorNickname string
	CreatedAt       time.Time
}

// LikeAction tells which way a like toggle went.
type LikeAction string

const (
	LikeActionLiked   LikeAction = "liked"
	LikeActionUnliked LikeAction = "unliked"
)

// LikeToggle is what the repository reports after flipping a like relation.
type LikeToggle struct {
	Action    LikeAction
	LikeCount int
}

// DonationCredit is what the repository reports after crediting a donation.
type DonationCredit struct {
	Donation       Donation
	AllDonation    int64
	UsableDonation int64
}
