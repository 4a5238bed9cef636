package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sngm3741/mymoo-services/api/internal/public/application"
	"github.com/sngm3741/mymoo-services/api/internal/public/domain"
)

var _ application.DonationRepository = (*DonationRepository)(nil)

type donationEntryRow struct {
	ID        int64     `db:"id"`
	Point     int64     `db:"point"`
	Nickname  string    `db:"nickname"`
	CreatedAt time.Time `db:"created_at"`
}

// DonationRepository implements the donation ledger on sqlx.
type DonationRepository struct {
	db *DB
}

// NewDonationRepository creates a SQL-backed donation ledger.
func NewDonationRepository(db *DB) *DonationRepository {
	return &DonationRepository{db: db}
}

// Credit appends the ledger row and raises both store aggregates. The totals
// are computed on the locked row, so an overflowing credit fails before any write.
func (r *DonationRepository) Credit(ctx context.Context, donation domain.Donation, donator domain.Account) (domain.DonationCredit, error) {
	var credit domain.DonationCredit

	err := r.db.withTx(ctx, fmt.Sprintf("credit donation store=%d account=%d", donation.StoreID, donator.ID), func(tx *sqlx.Tx) error {
		var totals struct {
			AllDonation    int64 `db:"all_donation"`
			UsableDonation int64 `db:"usable_donation"`
		}
		query := tx.Rebind(`SELECT all_donation, usable_donation FROM stores WHERE id = ?` + r.db.lockSuffix())
		if err := tx.GetContext(ctx, &totals, query, donation.StoreID); err != nil {
			return err
		}
		allDonation, usableDonation, err := domain.CreditTotals(totals.AllDonation, totals.UsableDonation, donation.Point)
		if err != nil {
			return err
		}
		if err := ensureAccount(ctx, tx, donator, donation.CreatedAt); err != nil {
			return err
		}

		row := tx.QueryRowxContext(ctx, tx.Rebind(`
INSERT INTO donations (store_id, account_id, point, created_at) VALUES (?, ?, ?, ?)
RETURNING id`), donation.StoreID, donator.ID, donation.Point, donation.CreatedAt)
		if err := row.Scan(&donation.ID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(`
UPDATE stores
SET all_donation = ?, usable_donation = ?, updated_at = ?
WHERE id = ?`), allDonation, usableDonation, donation.CreatedAt, donation.StoreID); err != nil {
			return err
		}

		donation.AccountID = donator.ID
		credit = domain.DonationCredit{
			Donation:       donation,
			AllDonation:    allDonation,
			UsableDonation: usableDonation,
		}
		return nil
	})
	if err != nil {
		return domain.DonationCredit{}, err
	}
	return credit, nil
}

// FindByStore returns the ledger of a store newest first, joined with the
// donator nickname.
func (r *DonationRepository) FindByStore(ctx context.Context, storeID int64, page domain.Pageable) (domain.Slice[domain.DonationEntry], error) {
	op := fmt.Sprintf("find donations of store %d", storeID)
	if err := storeExists(ctx, r.db.conn, storeID); err != nil {
		return domain.Slice[domain.DonationEntry]{}, translate(op, err)
	}

	var rows []donationEntryRow
	query := r.db.conn.Rebind(`
SELECT d.id AS id, d.point AS point, a.nickname AS nickname, d.created_at AS created_at
FROM donations d
JOIN accounts a ON a.id = d.account_id
WHERE d.store_id = ?
ORDER BY d.created_at DESC, d.id DESC
LIMIT ? OFFSET ?`)
	if err := r.db.conn.SelectContext(ctx, &rows, query, storeID, page.Size+1, page.Offset()); err != nil {
		return domain.Slice[domain.DonationEntry]{}, translate(op, err)
	}

	entries := make([]domain.DonationEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.DonationEntry{
			ID:              row.ID,
			Point:           row.Point,
			DonatorNickname: row.Nickname,
			CreatedAt:       row.CreatedAt.UTC(),
		})
	}
	return domain.NewSlice(entries, page), nil
}
