package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/mymoo-services/api/internal/public/application"
	"github.com/sngm3741/mymoo-services/api/internal/public/domain"
)

var _ application.StoreRepository = (*StoreRepository)(nil)

// sortFields はキーワード検索で許可する並び替えフィールド。
var sortFields = map[domain.SortKey]string{
	domain.SortByLikeCount:      "likeCount",
	domain.SortByUsableDonation: "usableDonation",
	domain.SortByReviewCount:    "reviewCount",
}

// StoreRepository は application.StoreRepository の Mongo 実装。
type StoreRepository struct {
	client   *mongo.Client
	stores   *mongo.Collection
	menus    *mongo.Collection
	accounts *mongo.Collection
	likes    *mongo.Collection
}

// NewStoreRepository は Mongo をバックエンドとする店舗リポジトリを生成する。
func NewStoreRepository(db *mongo.Database, names Collections) *StoreRepository {
	return &StoreRepository{
		client:   db.Client(),
		stores:   db.Collection(names.Stores),
		menus:    db.Collection(names.Menus),
		accounts: db.Collection(names.Accounts),
		likes:    db.Collection(names.Likes),
	}
}

// FindNearby は $geoNear を使う。location に 2dsphere インデックスが必要。
func (r *StoreRepository) FindNearby(ctx context.Context, origin domain.Coordinate, page domain.Pageable) (domain.Slice[domain.Store], error) {
	pipeline := mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.M{
			"near":          newGeoPoint(origin.Longitude, origin.Latitude),
			"distanceField": "distance",
			"key":           "location",
			"spherical":     true,
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "distance", Value: 1}, {Key: "_id", Value: 1}}}},
		{{Key: "$skip", Value: int64(page.Offset())}},
		{{Key: "$limit", Value: int64(page.Size + 1)}},
	}

	cursor, err := r.stores.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.Slice[domain.Store]{}, translate("find nearby stores", err)
	}
	stores, err := decodeStores(ctx, cursor)
	if err != nil {
		return domain.Slice[domain.Store]{}, translate("find nearby stores", err)
	}
	return domain.NewSlice(stores, page), nil
}

// SearchByKeyword は店舗名または説明文を大文字小文字を区別せず部分一致で検索する。
func (r *StoreRepository) SearchByKeyword(ctx context.Context, keyword string, page domain.Pageable) (domain.Slice[domain.Store], error) {
	field, ok := sortFields[page.Sort]
	if !ok {
		field = sortFields[domain.SortByLikeCount]
	}
	regex := primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"name": regex},
		bson.M{"description": regex},
	}}
	opts := pageOptions(page).SetSort(bson.D{{Key: field, Value: -1}, {Key: "_id", Value: 1}})

	cursor, err := r.stores.Find(ctx, filter, opts)
	if err != nil {
		return domain.Slice[domain.Store]{}, translate("search stores", err)
	}
	stores, err := decodeStores(ctx, cursor)
	if err != nil {
		return domain.Slice[domain.Store]{}, translate("search stores", err)
	}
	return domain.NewSlice(stores, page), nil
}

// FindByID は ID で店舗を 1 件取得する。
func (r *StoreRepository) FindByID(ctx context.Context, id int64) (*domain.Store, error) {
	var doc StoreDocument
	if err := r.stores.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translate(fmt.Sprintf("find store %d", id), err)
	}
	store := mapStoreDocument(doc)
	return &store, nil
}

func (r *StoreRepository) FindMenus(ctx context.Context, storeID int64) ([]domain.Menu, error) {
	op := fmt.Sprintf("find menus of store %d", storeID)
	if err := storeExists(ctx, r.stores, storeID); err != nil {
		return nil, translate(op, err)
	}

	cursor, err := r.menus.Find(ctx, bson.M{"storeId": storeID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, translate(op, err)
	}
	defer cursor.Close(ctx)

	menus := make([]domain.Menu, 0)
	for cursor.Next(ctx) {
		var doc MenuDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, translate(op, err)
		}
		menus = append(menus, mapMenuDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, translate(op, err)
	}
	return menus, nil
}

func (r *StoreRepository) LikedStoreIDs(ctx context.Context, accountID int64, storeIDs []int64) (map[int64]bool, error) {
	liked := make(map[int64]bool, len(storeIDs))
	if len(storeIDs) == 0 {
		return liked, nil
	}

	filter := bson.M{"accountId": accountID, "storeId": bson.M{"$in": storeIDs}}
	opts := options.Find().SetProjection(bson.M{"storeId": 1})
	cursor, err := r.likes.Find(ctx, filter, opts)
	if err != nil {
		return nil, translate("find liked stores", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc LikeDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, translate("find liked stores", err)
		}
		liked[doc.StoreID] = true
	}
	if err := cursor.Err(); err != nil {
		return nil, translate("find liked stores", err)
	}
	return liked, nil
}

// ToggleLike は like ドキュメントの有無と likeCount を同一トランザクションで反転させる。
// 店舗を最初に読むため、存在しない店舗では何も書き込まれない。
func (r *StoreRepository) ToggleLike(ctx context.Context, storeID int64, account domain.Account, at time.Time) (domain.LikeToggle, error) {
	op := fmt.Sprintf("toggle like store=%d account=%d", storeID, account.ID)
	session, err := r.client.StartSession()
	if err != nil {
		return domain.LikeToggle{}, translate(op, err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		now := at.UTC()

		var store StoreDocument
		opts := options.FindOne().SetProjection(bson.M{"likeCount": 1})
		if err := r.stores.FindOne(sc, bson.M{"_id": storeID}, opts).Decode(&store); err != nil {
			return nil, err
		}
		if err := ensureAccount(sc, r.accounts, account, now); err != nil {
			return nil, err
		}

		relation := bson.M{"storeId": storeID, "accountId": account.ID}
		deleted, err := r.likes.DeleteOne(sc, relation)
		if err != nil {
			return nil, err
		}

		if deleted.DeletedCount > 0 {
			updated, err := r.stores.UpdateOne(sc,
				bson.M{"_id": storeID, "likeCount": bson.M{"$gt": 0}},
				bson.M{"$inc": bson.M{"likeCount": -1}, "$set": bson.M{"updatedAt": now}})
			if err != nil {
				return nil, err
			}
			if updated.MatchedCount == 0 {
				return nil, fmt.Errorf("%w: likeCount of store %d would drop below zero", domain.ErrConstraintViolation, storeID)
			}
			return domain.LikeToggle{Action: domain.LikeActionUnliked, LikeCount: store.LikeCount - 1}, nil
		}

		if _, err := r.likes.InsertOne(sc, LikeDocument{StoreID: storeID, AccountID: account.ID, CreatedAt: now}); err != nil {
			return nil, err
		}
		if _, err := r.stores.UpdateOne(sc,
			bson.M{"_id": storeID},
			bson.M{"$inc": bson.M{"likeCount": 1}, "$set": bson.M{"updatedAt": now}}); err != nil {
			return nil, err
		}
		return domain.LikeToggle{Action: domain.LikeActionLiked, LikeCount: store.LikeCount + 1}, nil
	})
	if err != nil {
		return domain.LikeToggle{}, translate(op, err)
	}
	return result.(domain.LikeToggle), nil
}

func decodeStores(ctx context.Context, cursor *mongo.Cursor) ([]domain.Store, error) {
	defer cursor.Close(ctx)

	stores := make([]domain.Store, 0)
	for cursor.Next(ctx) {
		var doc StoreDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		stores = append(stores, mapStoreDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return stores, nil
}
