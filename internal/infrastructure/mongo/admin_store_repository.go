package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/mymoo-services/api/internal/admin/application"
	admindomain "github.com/sngm3741/mymoo-services/api/internal/admin/domain"
)

var _ application.StoreRepository = (*AdminStoreRepository)(nil)

// AdminStoreRepository は管理者向け Store 集約の Mongo 実装。
type AdminStoreRepository struct {
	stores   *mongo.Collection
	menus    *mongo.Collection
	counters *mongo.Collection
}

// NewAdminStoreRepository は MongoDB コレクションを束縛した AdminStoreRepository を生成する。
func NewAdminStoreRepository(db *mongo.Database, names Collections) *AdminStoreRepository {
	return &AdminStoreRepository{
		stores:   db.Collection(names.Stores),
		menus:    db.Collection(names.Menus),
		counters: db.Collection(names.Counters),
	}
}

// FindByID は数値 ID から単一店舗を VO 化して返す。
func (r *AdminStoreRepository) FindByID(ctx context.Context, id int64) (*admindomain.Store, error) {
	var doc StoreDocument
	if err := r.stores.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translate(fmt.Sprintf("find admin store %d", id), err)
	}
	store := mapAdminStore(doc)
	return &store, nil
}

// Create は連番を払い出して店舗を登録する。集計値はすべて 0 で始まる。
func (r *AdminStoreRepository) Create(ctx context.Context, store *admindomain.Store) error {
	id, err := nextID(ctx, r.counters, "stores")
	if err != nil {
		return translate("create store", err)
	}
	store.ID = id
	if _, err := r.stores.InsertOne(ctx, buildStoreDocument(store)); err != nil {
		return translate("create store", err)
	}
	return nil
}

// AddMenu は存在する店舗にのみメニューを追加する。
func (r *AdminStoreRepository) AddMenu(ctx context.Context, menu *admindomain.Menu) error {
	op := fmt.Sprintf("add menu to store %d", menu.StoreID)
	if err := storeExists(ctx, r.stores, menu.StoreID); err != nil {
		return translate(op, err)
	}
	id, err := nextID(ctx, r.counters, "menus")
	if err != nil {
		return translate(op, err)
	}
	menu.ID = id
	_, err = r.menus.InsertOne(ctx, MenuDocument{
		ID:          menu.ID,
		StoreID:     menu.StoreID,
		Name:        menu.Name.String(),
		Description: menu.Description.String(),
		Price:       menu.Price.Int64(),
		ImagePath:   menu.ImagePath.String(),
	})
	return translate(op, err)
}

// mapAdminStore は Mongo ドキュメントを Admin ドメインの Store に変換する。
func mapAdminStore(doc StoreDocument) admindomain.Store {
	longitude, latitude := doc.Location.lonLat()
	return admindomain.Store{
		ID:          doc.ID,
		Name:        admindomain.StoreName(doc.Name),
		Address:     admindomain.Address(doc.Address),
		Description: admindomain.Description(doc.Description),
		PhoneNumber: admindomain.PhoneNumber(doc.PhoneNumber),
		ImagePath:   admindomain.ImagePath(doc.ImagePath),
		Location:    admindomain.Location{Longitude: longitude, Latitude: latitude},
		CreatedAt:   doc.CreatedAt.UTC(),
		UpdatedAt:   doc.UpdatedAt.UTC(),
	}
}

// buildStoreDocument は Store の値オブジェクト群を Mongo 用ドキュメントに展開する。
func buildStoreDocument(store *admindomain.Store) StoreDocument {
	return StoreDocument{
		ID:          store.ID,
		Name:        store.Name.String(),
		Address:     store.Address.String(),
		Description: store.Description.String(),
		PhoneNumber: store.PhoneNumber.String(),
		ImagePath:   store.ImagePath.String(),
		Location:    newGeoPoint(store.Location.Longitude, store.Location.Latitude),
		CreatedAt:   store.CreatedAt,
		UpdatedAt:   store.UpdatedAt,
	}
}
