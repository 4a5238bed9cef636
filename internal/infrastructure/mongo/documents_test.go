package mongo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	admindomain "github.com/sngm3741/mymoo-services/api/internal/admin/domain"
	"github.com/sngm3741/mymoo-services/api/internal/public/domain"
)

func TestStoreDocumentRoundTripsThroughAdminStore(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	store := &admindomain.Store{
		ID:        7,
		Name:      "Mymoo Bakery",
		Address:   "Seoul",
		Location:  admindomain.Location{Longitude: 126.978, Latitude: 37.5665},
		CreatedAt: created,
		UpdatedAt: created,
	}

	doc := buildStoreDocument(store)
	assert.Equal(t, "Point", doc.Location.Type)
	assert.Equal(t, []float64{126.978, 37.5665}, doc.Location.Coordinates)

	public := mapStoreDocument(doc)
	assert.Equal(t, int64(7), public.ID)
	assert.Equal(t, 126.978, public.Longitude)
	assert.Equal(t, 37.5665, public.Latitude)
	assert.Zero(t, public.LikeCount)

	assert.Equal(t, *store, mapAdminStore(doc))
}

func TestGeoPointWithoutCoordinates(t *testing.T) {
	lon, lat := GeoPoint{Type: "Point"}.lonLat()
	assert.Zero(t, lon)
	assert.Zero(t, lat)
}

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate("find", mongo.ErrNoDocuments), domain.ErrNotFound)
	assert.ErrorIs(t, translate("find", errors.New("socket closed")), domain.ErrTransientStoreFailure)
	assert.ErrorIs(t, translate("toggle", domain.ErrConstraintViolation), domain.ErrConstraintViolation)
	assert.NoError(t, translate("noop", nil))
}
