package application

import (
	"context"
	"fmt"

	"github.com/sngm3741/mymoo-services/api/internal/pkg/clock"
	"github.com/sngm3741/mymoo-services/api/internal/public/domain"
)

type storeCommandService struct {
	stores    StoreRepository
	donations DonationRepository
	clock     clock.Clock
}

// NewStoreCommandService creates the like/donation use-cases.
func NewStoreCommandService(stores StoreRepository, donations DonationRepository, clk clock.Clock) StoreCommandService {
	return &storeCommandService{stores: stores, donations: donations, clock: clk}
}

func (s *storeCommandService) ToggleLike(ctx context.Context, storeID int64, caller domain.Account) (domain.LikeResult, error) {
	toggle, err := s.stores.ToggleLike(ctx, storeID, caller, s.clock.Now())
	if err != nil {
		return domain.LikeResult{}, err
	}
	return domain.NewLikeResult(storeID, toggle), nil
}

func (s *storeCommandService) Donate(ctx context.Context, cmd DonateCommand) (domain.DonationReceipt, error) {
	if cmd.Point <= 0 {
		return domain.DonationReceipt{}, fmt.Errorf("%w: point must be positive", domain.ErrInvalidRequest)
	}
	if cmd.Point > domain.MaxDonationPoint {
		return domain.DonationReceipt{}, fmt.Errorf("%w: point must not exceed %d", domain.ErrInvalidRequest, domain.MaxDonationPoint)
	}

	credit, err := s.donations.Credit(ctx, domain.Donation{
		StoreID:   cmd.StoreID,
		AccountID: cmd.Donator.ID,
		Point:     cmd.Point,
		CreatedAt: s.clock.Now(),
	}, cmd.Donator)
	if err != nil {
		return domain.DonationReceipt{}, err
	}
	return domain.NewDonationReceipt(credit), nil
}
