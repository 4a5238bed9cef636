package application

import (
	"context"
	"fmt"

	admindomain "github.com/sngm3741/mymoo-services/api/internal/admin/domain"
	"github.com/sngm3741/mymoo-services/api/internal/pkg/clock"
	publicdomain "github.com/sngm3741/mymoo-services/api/internal/public/domain"
)

// storeService implements StoreService.
type storeService struct {
	repo  StoreRepository
	clock clock.Clock
}

func NewStoreService(repo StoreRepository, clk clock.Clock) StoreService {
	return &storeService{repo: repo, clock: clk}
}

func (s *storeService) Detail(ctx context.Context, id int64) (*admindomain.Store, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *storeService) Register(ctx context.Context, cmd RegisterStoreCommand) (*admindomain.Store, error) {
	store, err := buildStore(cmd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", publicdomain.ErrInvalidRequest, err)
	}
	now := s.clock.Now()
	store.CreatedAt = now
	store.UpdatedAt = now
	if err := s.repo.Create(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *storeService) AddMenu(ctx context.Context, cmd AddMenuCommand) (*admindomain.Menu, error) {
	menu, err := buildMenu(cmd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", publicdomain.ErrInvalidRequest, err)
	}
	if err := s.repo.AddMenu(ctx, menu); err != nil {
		return nil, err
	}
	return menu, nil
}

func buildStore(cmd RegisterStoreCommand) (*admindomain.Store, error) {
	name, err := admindomain.NewStoreName(cmd.Name)
	if err != nil {
		return nil, err
	}
	address, err := admindomain.NewAddress(cmd.Address)
	if err != nil {
		return nil, err
	}
	description, err := admindomain.NewDescription(cmd.Description)
	if err != nil {
		return nil, err
	}
	phone, err := admindomain.NewPhoneNumber(cmd.PhoneNumber)
	if err != nil {
		return nil, err
	}
	image, err := admindomain.NewImagePath(cmd.ImagePath)
	if err != nil {
		return nil, err
	}
	location, err := admindomain.NewLocation(cmd.Longitude, cmd.Latitude)
	if err != nil {
		return nil, err
	}
	return &admindomain.Store{
		Name:        name,
		Address:     address,
		Description: description,
		PhoneNumber: phone,
		ImagePath:   image,
		Location:    location,
	}, nil
}

func buildMenu(cmd AddMenuCommand) (*admindomain.Menu, error) {
	name, err := admindomain.NewMenuName(cmd.Name)
	if err != nil {
		return nil, err
	}
	description, err := admindomain.NewDescription(cmd.Description)
	if err != nil {
		return nil, err
	}
	price, err := admindomain.NewMoney(cmd.Price)
	if err != nil {
		return nil, err
	}
	image, err := admindomain.NewImagePath(cmd.ImagePath)
	if err != nil {
		return nil, err
	}
	return &admindomain.Menu{
		StoreID:     cmd.StoreID,
		Name:        name,
		Description: description,
		Price:       price,
		ImagePath:   image,
	}, nil
}
