package application

import (
	"context"

	"github.com/sngm3741/mymoo-services/api/internal/public/domain"
)

type donationQueryService struct {
	repo DonationRepository
}

// NewDonationQueryService creates a new DonationQueryService.
func NewDonationQueryService(repo DonationRepository) DonationQueryService {
	return &donationQueryService{repo: repo}
}

func (s *donationQueryService) List(ctx context.Context, storeID int64, page domain.Pageable) (domain.DonationList, error) {
	entries, err := s.repo.FindByStore(ctx, storeID, page)
	if err != nil {
		return domain.DonationList{}, err
	}
	return domain.NewDonationList(entries), nil
}
