package sqlstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	admindomain "github.com/sngm3741/mymoo-services/api/internal/admin/domain"
	"github.com/sngm3741/mymoo-services/api/internal/public/domain"
)

var cityHall = domain.Coordinate{Longitude: 126.9780, Latitude: 37.5665}

func TestFindNearbyOrdersByDistance(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStoreRepository(db)
	ctx := context.Background()

	far := seedStore(t, db, storeSeed{name: "Gangnam", longitude: 127.0276, latitude: 37.4979})
	near := seedStore(t, db, storeSeed{name: "Myeongdong", longitude: 126.9850, latitude: 37.5636})
	middle := seedStore(t, db, storeSeed{name: "Yongsan", longitude: 126.9648, latitude: 37.5298})

	page, err := domain.NewPageable(0, 2, domain.SortByLikeCount)
	require.NoError(t, err)

	first, err := repo.FindNearby(ctx, cityHall, page)
	require.NoError(t, err)
	require.Len(t, first.Content, 2)
	assert.True(t, first.HasNext)
	assert.Equal(t, near, first.Content[0].ID)
	assert.Equal(t, middle, first.Content[1].ID)

	page.Page = 1
	second, err := repo.FindNearby(ctx, cityHall, page)
	require.NoError(t, err)
	require.Len(t, second.Content, 1)
	assert.False(t, second.HasNext)
	assert.Equal(t, far, second.Content[0].ID)
}

func TestSearchByKeywordSortsDescending(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStoreRepository(db)
	ctx := context.Background()

	a := seedStore(t, db, storeSeed{name: "Alpha Bakery", likeCount: 3, usableDonation: 900, reviewCount: 1})
	b := seedStore(t, db, storeSeed{name: "Beta Cafe", description: "fresh BAKERY goods", likeCount: 7, usableDonation: 100, reviewCount: 1})
	c := seedStore(t, db, storeSeed{name: "Gamma bakery", likeCount: 7, usableDonation: 500, reviewCount: 4})
	seedStore(t, db, storeSeed{name: "Delta Noodles", likeCount: 50})

	cases := []struct {
		sort domain.SortKey
		want []int64
	}{
		{domain.SortByLikeCount, []int64{b, c, a}},
		{domain.SortByUsableDonation, []int64{a, c, b}},
		{domain.SortByReviewCount, []int64{c, a, b}},
	}
	for _, tc := range cases {
		t.Run(string(tc.sort), func(t *testing.T) {
			page, err := domain.NewPageable(0, 10, tc.sort)
			require.NoError(t, err)

			slice, err := repo.SearchByKeyword(ctx, "bakery", page)
			require.NoError(t, err)
			assert.False(t, slice.HasNext)

			ids := make([]int64, 0, len(slice.Content))
			for _, store := range slice.Content {
				ids = append(ids, store.ID)
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestSearchByKeywordEscapesWildcards(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStoreRepository(db)

	seedStore(t, db, storeSeed{name: "Anything"})
	sale := seedStore(t, db, storeSeed{name: "50% sale"})

	page, err := domain.NewPageable(0, 10, domain.SortByLikeCount)
	require.NoError(t, err)

	slice, err := repo.SearchByKeyword(context.Background(), "%", page)
	require.NoError(t, err)
	require.Len(t, slice.Content, 1)
	assert.Equal(t, sale, slice.Content[0].ID)
}

func TestSearchByKeywordFoldsNonASCII(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStoreRepository(db)

	cafe := seedStore(t, db, storeSeed{name: "CAFÉ Mymoo"})
	seedStore(t, db, storeSeed{name: "Cafe Plain"})
	bakery := seedStore(t, db, storeSeed{name: "Bakery", description: "ÜBER croissants"})

	page, err := domain.NewPageable(0, 10, domain.SortByLikeCount)
	require.NoError(t, err)

	slice, err := repo.SearchByKeyword(context.Background(), "café", page)
	require.NoError(t, err)
	require.Len(t, slice.Content, 1)
	assert.Equal(t, cafe, slice.Content[0].ID)

	slice, err = repo.SearchByKeyword(context.Background(), "über", page)
	require.NoError(t, err)
	require.Len(t, slice.Content, 1)
	assert.Equal(t, bakery, slice.Content[0].ID)
}

func TestFindByIDAndMenus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStoreRepository(db)
	admin := NewAdminStoreRepository(db)
	ctx := context.Background()

	id := seedStore(t, db, storeSeed{name: "Menu House", longitude: 127, latitude: 37.5})
	require.NoError(t, admin.AddMenu(ctx, &admindomain.Menu{StoreID: id, Name: "Soup", Price: 8000}))
	require.NoError(t, admin.AddMenu(ctx, &admindomain.Menu{StoreID: id, Name: "Rice", Price: 1000}))

	store, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Menu House", store.Name)
	assert.Equal(t, seedTime, store.CreatedAt)

	menus, err := repo.FindMenus(ctx, id)
	require.NoError(t, err)
	require.Len(t, menus, 2)
	assert.Equal(t, "Soup", menus[0].Name)
	assert.Equal(t, int64(1000), menus[1].Price)

	_, err = repo.FindByID(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.FindMenus(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	err = admin.AddMenu(ctx, &admindomain.Menu{StoreID: 404, Name: "Ghost"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestToggleLikeTwiceRestoresState(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStoreRepository(db)
	ctx := context.Background()
	account := domain.Account{ID: 42, Nickname: "Kim"}

	id := seedStore(t, db, storeSeed{name: "Liked", likeCount: 4})

	liked, err := repo.ToggleLike(ctx, id, account, seedTime)
	require.NoError(t, err)
	assert.Equal(t, domain.LikeToggle{Action: domain.LikeActionLiked, LikeCount: 5}, liked)

	likedIDs, err := repo.LikedStoreIDs(ctx, account.ID, []int64{id, 999})
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{id: true}, likedIDs)

	unliked, err := repo.ToggleLike(ctx, id, account, seedTime)
	require.NoError(t, err)
	assert.Equal(t, domain.LikeToggle{Action: domain.LikeActionUnliked, LikeCount: 4}, unliked)

	store, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 4, store.LikeCount)

	likedIDs, err = repo.LikedStoreIDs(ctx, account.ID, []int64{id})
	require.NoError(t, err)
	assert.Empty(t, likedIDs)

	var nickname string
	require.NoError(t, db.conn.Get(&nickname, `SELECT nickname FROM accounts WHERE id = 42`))
	assert.Equal(t, "Kim", nickname)
}

func TestToggleLikeMissingStoreWritesNothing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStoreRepository(db)

	_, err := repo.ToggleLike(context.Background(), 404, domain.Account{ID: 7, Nickname: "Lee"}, seedTime)
	require.ErrorIs(t, err, domain.ErrNotFound)

	var accounts, likes int
	require.NoError(t, db.conn.Get(&accounts, `SELECT COUNT(*) FROM accounts`))
	require.NoError(t, db.conn.Get(&likes, `SELECT COUNT(*) FROM store_likes`))
	assert.Zero(t, accounts)
	assert.Zero(t, likes)
}

func TestToggleLikeRefusesNegativeCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStoreRepository(db)
	ctx := context.Background()
	account := domain.Account{ID: 9, Nickname: "Park"}

	id := seedStore(t, db, storeSeed{name: "Drifted"})
	_, err := repo.ToggleLike(ctx, id, account, seedTime)
	require.NoError(t, err)

	// Simulate a counter that drifted out of sync with the relation rows.
	_, err = db.conn.Exec(`UPDATE stores SET like_count = 0 WHERE id = ?`, id)
	require.NoError(t, err)

	_, err = repo.ToggleLike(ctx, id, account, seedTime)
	require.ErrorIs(t, err, domain.ErrConstraintViolation)

	likedIDs, err := repo.LikedStoreIDs(ctx, account.ID, []int64{id})
	require.NoError(t, err)
	assert.True(t, likedIDs[id])
}

func TestToggleLikeStampsGivenTime(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStoreRepository(db)
	ctx := context.Background()
	likedAt := seedTime.Add(3 * time.Hour)

	id := seedStore(t, db, storeSeed{name: "Stamped"})
	_, err := repo.ToggleLike(ctx, id, domain.Account{ID: 5, Nickname: "Choi"}, likedAt)
	require.NoError(t, err)

	var createdAt time.Time
	require.NoError(t, db.conn.Get(&createdAt, `SELECT created_at FROM store_likes WHERE store_id = ? AND account_id = 5`, id))
	assert.Equal(t, likedAt, createdAt.UTC())

	store, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, likedAt, store.UpdatedAt)
	assert.Equal(t, seedTime, store.CreatedAt)
}

func TestToggleLikeConcurrentSameCaller(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStoreRepository(db)
	ctx := context.Background()
	account := domain.Account{ID: 77, Nickname: "Han"}
	id := seedStore(t, db, storeSeed{name: "Busy"})

	const toggles = 21
	var wg sync.WaitGroup
	errs := make(chan error, toggles)
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ToggleLike(ctx, id, account, seedTime)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	store, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	likedIDs, err := repo.LikedStoreIDs(ctx, account.ID, []int64{id})
	require.NoError(t, err)

	var relations int
	require.NoError(t, db.conn.Get(&relations, `SELECT COUNT(*) FROM store_likes WHERE store_id = ?`, id))

	assert.Contains(t, []int{0, 1}, store.LikeCount)
	assert.Equal(t, relations, store.LikeCount)
	assert.Equal(t, store.LikeCount == 1, likedIDs[id])
	// An odd number of serialised toggles ends liked.
	assert.Equal(t, 1, store.LikeCount)
}
