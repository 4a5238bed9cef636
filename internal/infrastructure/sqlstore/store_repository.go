package sqlstore

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/text/unicode/norm"

	"github.com/sngm3741/mymoo-services/api/internal/public/application"
	"github.com/sngm3741/mymoo-services/api/internal/public/domain"
)

var _ application.StoreRepository = (*StoreRepository)(nil)

const storeColumns = `id, name, address, description, phone_number, image_path, longitude, latitude,
	like_count, review_count, all_donation, usable_donation, created_at, updated_at`

// sortColumns whitelists ORDER BY targets for keyword search.
var sortColumns = map[domain.SortKey]string{
	domain.SortByLikeCount:      "like_count",
	domain.SortByUsableDonation: "usable_donation",
	domain.SortByReviewCount:    "review_count",
}

type storeRow struct {
	ID             int64     `db:"id"`
	Name           string    `db:"name"`
	Address        string    `db:"address"`
	Description    string    `db:"description"`
	PhoneNumber    string    `db:"phone_number"`
	ImagePath      string    `db:"image_path"`
	Longitude      float64   `db:"longitude"`
	Latitude       float64   `db:"latitude"`
	LikeCount      int       `db:"like_count"`
	ReviewCount    int       `db:"review_count"`
	AllDonation    int64     `db:"all_donation"`
	UsableDonation int64     `db:"usable_donation"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r storeRow) toDomain() domain.Store {
	return domain.Store{
		ID:             r.ID,
		Name:           r.Name,
		Address:        r.Address,
		Description:    r.Description,
		PhoneNumber:    r.PhoneNumber,
		ImagePath:      r.ImagePath,
		Longitude:      r.Longitude,
		Latitude:       r.Latitude,
		LikeCount:      r.LikeCount,
		ReviewCount:    r.ReviewCount,
		AllDonation:    r.AllDonation,
		UsableDonation: r.UsableDonation,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
}

type menuRow struct {
	ID          int64  `db:"id"`
	StoreID     int64  `db:"store_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Price       int64  `db:"price"`
	ImagePath   string `db:"image_path"`
}

// StoreRepository implements application.StoreRepository on sqlx.
type StoreRepository struct {
	db *DB
}

// NewStoreRepository creates a SQL-backed store repository.
func NewStoreRepository(db *DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// FindNearby orders by an equirectangular approximation of the distance,
// which keeps the query to plain arithmetic on both dialects.
func (r *StoreRepository) FindNearby(ctx context.Context, origin domain.Coordinate, page domain.Pageable) (domain.Slice[domain.Store], error) {
	k := math.Cos(origin.Latitude * math.Pi / 180)
	query := r.db.conn.Rebind(`SELECT ` + storeColumns + ` FROM stores
ORDER BY (latitude - ?) * (latitude - ?) + ((longitude - ?) * ?) * ((longitude - ?) * ?), id
LIMIT ? OFFSET ?`)

	var rows []storeRow
	err := r.db.conn.SelectContext(ctx, &rows, query,
		origin.Latitude, origin.Latitude,
		origin.Longitude, k, origin.Longitude, k,
		page.Size+1, page.Offset())
	if err != nil {
		return domain.Slice[domain.Store]{}, translate("find nearby stores", err)
	}
	return toStoreSlice(rows, page), nil
}

// SearchByKeyword matches name or description case-insensitively against
// search_text, which is folded in Go so non-ASCII letters compare too.
func (r *StoreRepository) SearchByKeyword(ctx context.Context, keyword string, page domain.Pageable) (domain.Slice[domain.Store], error) {
	column, ok := sortColumns[page.Sort]
	if !ok {
		column = sortColumns[domain.SortByLikeCount]
	}
	pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"
	query := r.db.conn.Rebind(`SELECT ` + storeColumns + ` FROM stores
WHERE search_text LIKE ? ESCAPE '\'
ORDER BY ` + column + ` DESC, id
LIMIT ? OFFSET ?`)

	var rows []storeRow
	if err := r.db.conn.SelectContext(ctx, &rows, query, pattern, page.Size+1, page.Offset()); err != nil {
		return domain.Slice[domain.Store]{}, translate("search stores", err)
	}
	return toStoreSlice(rows, page), nil
}

// FindByID returns a single store.
func (r *StoreRepository) FindByID(ctx context.Context, id int64) (*domain.Store, error) {
	var row storeRow
	query := r.db.conn.Rebind(`SELECT ` + storeColumns + ` FROM stores WHERE id = ?`)
	if err := r.db.conn.GetContext(ctx, &row, query, id); err != nil {
		return nil, translate(fmt.Sprintf("find store %d", id), err)
	}
	store := row.toDomain()
	return &store, nil
}

// FindMenus lists the menus of an existing store in id order.
func (r *StoreRepository) FindMenus(ctx context.Context, storeID int64) ([]domain.Menu, error) {
	if err := storeExists(ctx, r.db.conn, storeID); err != nil {
		return nil, translate(fmt.Sprintf("find menus of store %d", storeID), err)
	}

	var rows []menuRow
	query := r.db.conn.Rebind(`SELECT id, store_id, name, description, price, image_path FROM menus WHERE store_id = ? ORDER BY id`)
	if err := r.db.conn.SelectContext(ctx, &rows, query, storeID); err != nil {
		return nil, translate(fmt.Sprintf("find menus of store %d", storeID), err)
	}

	menus := make([]domain.Menu, 0, len(rows))
	for _, row := range rows {
		menus = append(menus, domain.Menu{
			ID:          row.ID,
			StoreID:     row.StoreID,
			Name:        row.Name,
			Description: row.Description,
			Price:       row.Price,
			ImagePath:   row.ImagePath,
		})
	}
	return menus, nil
}

// LikedStoreIDs reports which stores the account has liked.
func (r *StoreRepository) LikedStoreIDs(ctx context.Context, accountID int64, storeIDs []int64) (map[int64]bool, error) {
	liked := make(map[int64]bool, len(storeIDs))
	if len(storeIDs) == 0 {
		return liked, nil
	}

	query, args, err := sqlx.In(`SELECT store_id FROM store_likes WHERE account_id = ? AND store_id IN (?)`, accountID, storeIDs)
	if err != nil {
		return nil, fmt.Errorf("building like lookup: %w", err)
	}

	var ids []int64
	if err := r.db.conn.SelectContext(ctx, &ids, r.db.conn.Rebind(query), args...); err != nil {
		return nil, translate("find liked stores", err)
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// ToggleLike flips the (store, account) like relation and moves like_count by
// one in the same transaction. The store row is read first so a missing store
// fails before anything is written.
func (r *StoreRepository) ToggleLike(ctx context.Context, storeID int64, account domain.Account, at time.Time) (domain.LikeToggle, error) {
	var toggle domain.LikeToggle
	now := at.UTC()

	err := r.db.withTx(ctx, fmt.Sprintf("toggle like store=%d account=%d", storeID, account.ID), func(tx *sqlx.Tx) error {
		var likeCount int
		if err := tx.GetContext(ctx, &likeCount, tx.Rebind(`SELECT like_count FROM stores WHERE id = ?`+r.db.lockSuffix()), storeID); err != nil {
			return err
		}
		if err := ensureAccount(ctx, tx, account, now); err != nil {
			return err
		}

		removed, err := execAffected(ctx, tx, `DELETE FROM store_likes WHERE store_id = ? AND account_id = ?`, storeID, account.ID)
		if err != nil {
			return err
		}

		if removed > 0 {
			updated, err := execAffected(ctx, tx, `UPDATE stores SET like_count = like_count - 1, updated_at = ? WHERE id = ? AND like_count > 0`, now, storeID)
			if err != nil {
				return err
			}
			if updated == 0 {
				return fmt.Errorf("%w: like_count of store %d would drop below zero", domain.ErrConstraintViolation, storeID)
			}
			toggle = domain.LikeToggle{Action: domain.LikeActionUnliked, LikeCount: likeCount - 1}
			return nil
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO store_likes (store_id, account_id, created_at) VALUES (?, ?, ?)`), storeID, account.ID, now); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE stores SET like_count = like_count + 1, updated_at = ? WHERE id = ?`), now, storeID); err != nil {
			return err
		}
		toggle = domain.LikeToggle{Action: domain.LikeActionLiked, LikeCount: likeCount + 1}
		return nil
	})
	if err != nil {
		return domain.LikeToggle{}, err
	}
	return toggle, nil
}

// searchText folds name and description for keyword matching. The newline
// keeps a match from spanning both fields.
func searchText(name, description string) string {
	return strings.ToLower(norm.NFKC.String(name)) + "\n" + strings.ToLower(norm.NFKC.String(description))
}

func toStoreSlice(rows []storeRow, page domain.Pageable) domain.Slice[domain.Store] {
	stores := make([]domain.Store, 0, len(rows))
	for _, row := range rows {
		stores = append(stores, row.toDomain())
	}
	return domain.NewSlice(stores, page)
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.QueryerContext
	Rebind(query string) string
}

func storeExists(ctx context.Context, q queryer, storeID int64) error {
	var id int64
	return sqlx.GetContext(ctx, q, &id, q.Rebind(`SELECT id FROM stores WHERE id = ?`), storeID)
}

func execAffected(ctx context.Context, tx *sqlx.Tx, query string, args ...any) (int64, error) {
	result, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
