package application

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/sngm3741/mymoo-services/api/internal/public/domain"
)

// storeQueryService is the concrete implementation of StoreQueryService.
type storeQueryService struct {
	repo StoreRepository
}

// NewStoreQueryService creates a new store query service.
func NewStoreQueryService(repo StoreRepository) StoreQueryService {
	return &storeQueryService{repo: repo}
}

func (s *storeQueryService) ListByLocation(ctx context.Context, query LocationQuery, callerID int64) (domain.Slice[domain.StoreSummary], error) {
	stores, err := s.repo.FindNearby(ctx, query.Origin, query.Page)
	if err != nil {
		return domain.Slice[domain.StoreSummary]{}, err
	}
	return s.summarize(ctx, stores, query.Origin, callerID)
}

func (s *storeQueryService) ListByKeyword(ctx context.Context, query KeywordQuery, callerID int64) (domain.Slice[domain.StoreSummary], error) {
	keyword := NormalizeKeyword(query.Keyword)
	if keyword == "" {
		return domain.Slice[domain.StoreSummary]{}, fmt.Errorf("%w: keyword is blank", domain.ErrInvalidQuery)
	}

	stores, err := s.repo.SearchByKeyword(ctx, keyword, query.Page)
	if err != nil {
		return domain.Slice[domain.StoreSummary]{}, err
	}
	return s.summarize(ctx, stores, query.Origin, callerID)
}

func (s *storeQueryService) Detail(ctx context.Context, storeID, callerID int64) (domain.StoreDetail, error) {
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		return domain.StoreDetail{}, err
	}

	liked, err := s.repo.LikedStoreIDs(ctx, callerID, []int64{store.ID})
	if err != nil {
		return domain.StoreDetail{}, err
	}
	return domain.NewStoreDetail(*store, !liked[store.ID]), nil
}

func (s *storeQueryService) Menus(ctx context.Context, storeID int64) (domain.MenuList, error) {
	menus, err := s.repo.FindMenus(ctx, storeID)
	if err != nil {
		return domain.MenuList{}, err
	}
	return domain.NewMenuList(menus), nil
}

// summarize resolves the caller's likes for the whole slice in one lookup.
func (s *storeQueryService) summarize(ctx context.Context, stores domain.Slice[domain.Store], origin domain.Coordinate, callerID int64) (domain.Slice[domain.StoreSummary], error) {
	ids := make([]int64, 0, len(stores.Content))
	for _, store := range stores.Content {
		ids = append(ids, store.ID)
	}

	liked := map[int64]bool{}
	if len(ids) > 0 {
		var err error
		liked, err = s.repo.LikedStoreIDs(ctx, callerID, ids)
		if err != nil {
			return domain.Slice[domain.StoreSummary]{}, err
		}
	}

	return domain.MapSlice(stores, func(store domain.Store) domain.StoreSummary {
		return domain.NewStoreSummary(store, !liked[store.ID], domain.DistanceMeters(origin, store.Coordinate()))
	}), nil
}

// NormalizeKeyword folds compatibility forms (full-width latin, half-width
// kana, decomposed hangul) and collapses whitespace.
func NormalizeKeyword(raw string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(raw)), " ")
}
