package application

import (
	"context"
	"time"

	"github.com/sngm3741/mymoo-services/api/internal/public/domain"
)

// StoreRepository is the public-context port to store persistence.
// Implementations translate missing rows into domain.ErrNotFound and driver
// failures into domain.ErrTransientStoreFailure.
type StoreRepository interface {
	// FindNearby returns stores in ascending distance from origin, fetched
	// as a slice of page.Size rows.
	FindNearby(ctx context.Context, origin domain.Coordinate, page domain.Pageable) (domain.Slice[domain.Store], error)
	// SearchByKeyword matches name or description and orders by page.Sort descending.
	SearchByKeyword(ctx context.Context, keyword string, page domain.Pageable) (domain.Slice[domain.Store], error)
	FindByID(ctx context.Context, id int64) (*domain.Store, error)
	FindMenus(ctx context.Context, storeID int64) ([]domain.Menu, error)
	// LikedStoreIDs reports which of storeIDs the account has liked.
	LikedStoreIDs(ctx context.Context, accountID int64, storeIDs []int64) (map[int64]bool, error)
	// ToggleLike flips the like relation and the counter in one transaction.
	// at stamps the like row and the store's updatedAt.
	ToggleLike(ctx context.Context, storeID int64, account domain.Account, at time.Time) (domain.LikeToggle, error)
}

// DonationRepository owns the donation ledger.
type DonationRepository interface {
	// Credit appends the ledger row and adds the point to both store
	// aggregates in one transaction.
	Credit(ctx context.Context, donation domain.Donation, donator domain.Account) (domain.DonationCredit, error)
	FindByStore(ctx context.Context, storeID int64, page domain.Pageable) (domain.Slice[domain.DonationEntry], error)
}

// LocationQuery lists stores around a coordinate.
type LocationQuery struct {
	Origin domain.Coordinate
	Page   domain.Pageable
}

// KeywordQuery searches stores by keyword. Origin is only used for the
// reported distance.
type KeywordQuery struct {
	Keyword string
	Origin  domain.Coordinate
	Page    domain.Pageable
}

// StoreQueryService describes store read use-cases.
type StoreQueryService interface {
	ListByLocation(ctx context.Context, query LocationQuery, callerID int64) (domain.Slice[domain.StoreSummary], error)
	ListByKeyword(ctx context.Context, query KeywordQuery, callerID int64) (domain.Slice[domain.StoreSummary], error)
	Detail(ctx context.Context, storeID, callerID int64) (domain.StoreDetail, error)
	Menus(ctx context.Context, storeID int64) (domain.MenuList, error)
}

// StoreCommandService describes store write use-cases.
type StoreCommandService interface {
	ToggleLike(ctx context.Context, storeID int64, caller domain.Account) (domain.LikeResult, error)
	Donate(ctx context.Context, cmd DonateCommand) (domain.DonationReceipt, error)
}

// DonationQueryService reads the donation ledger of a store.
type DonationQueryService interface {
	List(ctx context.Context, storeID int64, page domain.Pageable) (domain.DonationList, error)
}

// DonateCommand credits points from the caller to a store.
type DonateCommand struct {
	StoreID int64
	Donator domain.Account
	Point   int64
}
