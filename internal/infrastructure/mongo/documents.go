package mongo

import (
	"time"

	"github.com/sngm3741/mymoo-services/api/internal/public/domain"
)

// GeoPoint は 2dsphere インデックス対象の GeoJSON Point。座標は [経度, 緯度] の順。
type GeoPoint struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

func newGeoPoint(longitude, latitude float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{longitude, latitude}}
}

func (p GeoPoint) lonLat() (float64, float64) {
	if len(p.Coordinates) < 2 {
		return 0, 0
	}
	return p.Coordinates[0], p.Coordinates[1]
}

// StoreDocument は MongoDB 上での店舗スキーマを Go 構造体として表現したもの。
type StoreDocument struct {
	ID             int64     `bson:"_id"`
	Name           string    `bson:"name"`
	Address        string    `bson:"address"`
	Description    string    `bson:"description,omitempty"`
	PhoneNumber    string    `bson:"phoneNumber,omitempty"`
	ImagePath      string    `bson:"imagePath,omitempty"`
	Location       GeoPoint  `bson:"location"`
	LikeCount      int       `bson:"likeCount"`
	ReviewCount    int       `bson:"reviewCount"`
	AllDonation    int64     `bson:"allDonation"`
	UsableDonation int64     `bson:"usableDonation"`
	CreatedAt      time.Time `bson:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt"`
}

// MenuDocument は店舗メニュー 1 件。
type MenuDocument struct {
	ID          int64  `bson:"_id"`
	StoreID     int64  `bson:"storeId"`
	Name        string `bson:"name"`
	Description string `bson:"description,omitempty"`
	Price       int64  `bson:"price"`
	ImagePath   string `bson:"imagePath,omitempty"`
}

// AccountDocument は JWT の subject をそのまま _id に持つ。
type AccountDocument struct {
	ID        int64     `bson:"_id"`
	Nickname  string    `bson:"nickname"`
	CreatedAt time.Time `bson:"createdAt"`
}

// LikeDocument は (storeId, accountId) のユニークインデックスで重複を防ぐ。
type LikeDocument struct {
	StoreID   int64     `bson:"storeId"`
	AccountID int64     `bson:"accountId"`
	CreatedAt time.Time `bson:"createdAt"`
}

// DonationDocument は追記のみの寄付台帳。
type DonationDocument struct {
	ID        int64     `bson:"_id"`
	StoreID   int64     `bson:"storeId"`
	AccountID int64     `bson:"accountId"`
	Point     int64     `bson:"point"`
	CreatedAt time.Time `bson:"createdAt"`
}

type counterDocument struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

func mapStoreDocument(doc StoreDocument) domain.Store {
	longitude, latitude := doc.Location.lonLat()
	return domain.Store{
		ID:             doc.ID,
		Name:           doc.Name,
		Address:        doc.Address,
		Description:    doc.Description,
		PhoneNumber:    doc.PhoneNumber,
		ImagePath:      doc.ImagePath,
		Longitude:      longitude,
		Latitude:       latitude,
		LikeCount:      doc.LikeCount,
		ReviewCount:    doc.ReviewCount,
		AllDonation:    doc.AllDonation,
		UsableDonation: doc.UsableDonation,
		CreatedAt:      doc.CreatedAt.UTC(),
		UpdatedAt:      doc.UpdatedAt.UTC(),
	}
}

func mapMenuDocument(doc MenuDocument) domain.Menu {
	return domain.Menu{
		ID:          doc.ID,
		StoreID:     doc.StoreID,
		Name:        doc.Name,
		Description: doc.Description,
		Price:       doc.Price,
		ImagePath:   doc.ImagePath,
	}
}
