package sqlstore

import (
	"context"
	"fmt"

	adminapp "github.com/sngm3741/mymoo-services/api/internal/admin/application"
	admindomain "github.com/sngm3741/mymoo-services/api/internal/admin/domain"
)

var _ adminapp.StoreRepository = (*AdminStoreRepository)(nil)

// AdminStoreRepository implements admin store onboarding on sqlx.
type AdminStoreRepository struct {
	db *DB
}

func NewAdminStoreRepository(db *DB) *AdminStoreRepository {
	return &AdminStoreRepository{db: db}
}

func (r *AdminStoreRepository) FindByID(ctx context.Context, id int64) (*admindomain.Store, error) {
	var row storeRow
	query := r.db.conn.Rebind(`SELECT ` + storeColumns + ` FROM stores WHERE id = ?`)
	if err := r.db.conn.GetContext(ctx, &row, query, id); err != nil {
		return nil, translate(fmt.Sprintf("find admin store %d", id), err)
	}
	return &admindomain.Store{
		ID:          row.ID,
		Name:        admindomain.StoreName(row.Name),
		Address:     admindomain.Address(row.Address),
		Description: admindomain.Description(row.Description),
		PhoneNumber: admindomain.PhoneNumber(row.PhoneNumber),
		ImagePath:   admindomain.ImagePath(row.ImagePath),
		Location:    admindomain.Location{Longitude: row.Longitude, Latitude: row.Latitude},
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}, nil
}

func (r *AdminStoreRepository) Create(ctx context.Context, store *admindomain.Store) error {
	query := r.db.conn.Rebind(`
INSERT INTO stores (name, address, description, phone_number, image_path, longitude, latitude, search_text, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id`)
	row := r.db.conn.QueryRowxContext(ctx, query,
		store.Name.String(), store.Address.String(), store.Description.String(),
		store.PhoneNumber.String(), store.ImagePath.String(),
		store.Location.Longitude, store.Location.Latitude,
		searchText(store.Name.String(), store.Description.String()),
		store.CreatedAt, store.UpdatedAt)
	if err := row.Scan(&store.ID); err != nil {
		return translate("create store", err)
	}
	return nil
}

func (r *AdminStoreRepository) AddMenu(ctx context.Context, menu *admindomain.Menu) error {
	op := fmt.Sprintf("add menu to store %d", menu.StoreID)
	if err := storeExists(ctx, r.db.conn, menu.StoreID); err != nil {
		return translate(op, err)
	}

	query := r.db.conn.Rebind(`
INSERT INTO menus (store_id, name, description, price, image_path)
VALUES (?, ?, ?, ?, ?)
RETURNING id`)
	row := r.db.conn.QueryRowxContext(ctx, query,
		menu.StoreID, menu.Name.String(), menu.Description.String(), menu.Price.Int64(), menu.ImagePath.String())
	if err := row.Scan(&menu.ID); err != nil {
		return translate(op, err)
	}
	return nil
}
