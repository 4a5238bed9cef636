package sqlstore

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/mymoo-services/api/internal/public/domain"
)

func TestCreditUpdatesAggregatesAndLedger(t *testing.T) {
	db := setupTestDB(t)
	donations := NewDonationRepository(db)
	stores := NewStoreRepository(db)
	ctx := context.Background()

	id := seedStore(t, db, storeSeed{name: "Donated", usableDonation: 100})
	kim := domain.Account{ID: 1, Nickname: "Kim"}
	lee := domain.Account{ID: 2, Nickname: "Lee"}

	first, err := donations.Credit(ctx, domain.Donation{StoreID: id, Point: 500, CreatedAt: seedTime}, kim)
	require.NoError(t, err)
	assert.Equal(t, int64(600), first.AllDonation)
	assert.Equal(t, int64(600), first.UsableDonation)
	assert.NotZero(t, first.Donation.ID)
	assert.Equal(t, kim.ID, first.Donation.AccountID)

	second, err := donations.Credit(ctx, domain.Donation{StoreID: id, Point: 250, CreatedAt: seedTime.Add(time.Minute)}, lee)
	require.NoError(t, err)
	assert.Equal(t, int64(850), second.UsableDonation)

	store, err := stores.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(850), store.AllDonation)
	assert.Equal(t, int64(850), store.UsableDonation)

	page, err := domain.NewPageable(0, 1, domain.SortByLikeCount)
	require.NoError(t, err)
	ledger, err := donations.FindByStore(ctx, id, page)
	require.NoError(t, err)
	require.Len(t, ledger.Content, 1)
	assert.True(t, ledger.HasNext)
	assert.Equal(t, "Lee", ledger.Content[0].DonatorNickname)
	assert.Equal(t, int64(250), ledger.Content[0].Point)
	assert.Equal(t, seedTime.Add(time.Minute), ledger.Content[0].CreatedAt)

	page.Page = 1
	ledger, err = donations.FindByStore(ctx, id, page)
	require.NoError(t, err)
	require.Len(t, ledger.Content, 1)
	assert.False(t, ledger.HasNext)
	assert.Equal(t, "Kim", ledger.Content[0].DonatorNickname)
}

func TestCreditMissingStoreWritesNothing(t *testing.T) {
	db := setupTestDB(t)
	donations := NewDonationRepository(db)

	_, err := donations.Credit(context.Background(), domain.Donation{StoreID: 404, Point: 10, CreatedAt: seedTime}, domain.Account{ID: 3})
	require.ErrorIs(t, err, domain.ErrNotFound)

	var rows int
	require.NoError(t, db.conn.Get(&rows, `SELECT COUNT(*) FROM donations`))
	assert.Zero(t, rows)
}

func TestCreditRejectsNonPositivePoint(t *testing.T) {
	db := setupTestDB(t)
	donations := NewDonationRepository(db)
	id := seedStore(t, db, storeSeed{name: "Strict"})

	_, err := donations.Credit(context.Background(), domain.Donation{StoreID: id, Point: 0, CreatedAt: seedTime}, domain.Account{ID: 3})
	require.ErrorIs(t, err, domain.ErrConstraintViolation)

	store, err := NewStoreRepository(db).FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Zero(t, store.AllDonation)
}

func TestCreditRefusesTotalsOverflow(t *testing.T) {
	db := setupTestDB(t)
	donations := NewDonationRepository(db)
	stores := NewStoreRepository(db)
	ctx := context.Background()
	account := domain.Account{ID: 8, Nickname: "Jung"}

	id := seedStore(t, db, storeSeed{name: "Saturated", usableDonation: math.MaxInt64 - 10})

	_, err := donations.Credit(ctx, domain.Donation{StoreID: id, Point: 11, CreatedAt: seedTime}, account)
	require.ErrorIs(t, err, domain.ErrConstraintViolation)

	store, err := stores.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64-10), store.AllDonation)
	assert.Equal(t, int64(math.MaxInt64-10), store.UsableDonation)

	var rows int
	require.NoError(t, db.conn.Get(&rows, `SELECT COUNT(*) FROM donations`))
	assert.Zero(t, rows)

	credit, err := donations.Credit(ctx, domain.Donation{StoreID: id, Point: 10, CreatedAt: seedTime}, account)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), credit.AllDonation)

	store, err = stores.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), store.AllDonation)
	assert.Equal(t, int64(math.MaxInt64), store.UsableDonation)
}

func TestFindByStoreUnknownStore(t *testing.T) {
	db := setupTestDB(t)
	page, err := domain.NewPageable(0, 10, domain.SortByLikeCount)
	require.NoError(t, err)

	_, err = NewDonationRepository(db).FindByStore(context.Background(), 404, page)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
