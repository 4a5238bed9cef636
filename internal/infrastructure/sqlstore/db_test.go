package sqlstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	admindomain "github.com/sngm3741/mymoo-services/api/internal/admin/domain"
)

var seedTime = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	tempFile, err := os.CreateTemp(t.TempDir(), "test_*.db")
	require.NoError(t, err)
	tempFile.Close()

	db, err := Open(context.Background(), DialectSQLite, tempFile.Name())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

type storeSeed struct {
	name           string
	description    string
	longitude      float64
	latitude       float64
	likeCount      int
	usableDonation int64
	reviewCount    int
}

func seedStore(t *testing.T, db *DB, seed storeSeed) int64 {
	t.Helper()
	ctx := context.Background()

	store := &admindomain.Store{
		Name:        admindomain.StoreName(seed.name),
		Address:     "Seoul",
		Description: admindomain.Description(seed.description),
		Location:    admindomain.Location{Longitude: seed.longitude, Latitude: seed.latitude},
		CreatedAt:   seedTime,
		UpdatedAt:   seedTime,
	}
	require.NoError(t, NewAdminStoreRepository(db).Create(ctx, store))

	_, err := db.conn.ExecContext(ctx, db.conn.Rebind(`
UPDATE stores SET like_count = ?, all_donation = ?, usable_donation = ?, review_count = ? WHERE id = ?`),
		seed.likeCount, seed.usableDonation, seed.usableDonation, seed.reviewCount, store.ID)
	require.NoError(t, err)
	return store.ID
}

func TestOpenAppliesMigrations(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Ping(context.Background()))

	var tables []string
	err := db.conn.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('accounts', 'stores', 'menus', 'store_likes', 'donations') ORDER BY name`)
	require.NoError(t, err)
	require.Equal(t, []string{"accounts", "donations", "menus", "store_likes", "stores"}, tables)
}

func TestEscapeLike(t *testing.T) {
	require.Equal(t, `100\%\_off\\`, escapeLike(`100%_off\`))
}
