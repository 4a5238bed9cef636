package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sngm3741/mymoo-services/api/internal/public/domain"
)

// Collections はリポジトリが利用するコレクション名の組。
type Collections struct {
	Stores    string
	Menus     string
	Accounts  string
	Likes     string
	Donations string
	Counters  string
}

// DefaultCollections は環境変数未設定時のコレクション名。
func DefaultCollections() Collections {
	return Collections{
		Stores:    "stores",
		Menus:     "menus",
		Accounts:  "accounts",
		Likes:     "store_likes",
		Donations: "donations",
		Counters:  "counters",
	}
}

// Connect は MongoDB へ接続し、primary への疎通まで確認する。
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// EnsureIndexes は距離検索用の 2dsphere とトグル・台帳用のインデックスを作成する。
func EnsureIndexes(ctx context.Context, db *mongo.Database, names Collections) error {
	specs := []struct {
		collection string
		models     []mongo.IndexModel
	}{
		{names.Stores, []mongo.IndexModel{
			{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
			{Keys: bson.D{{Key: "likeCount", Value: -1}, {Key: "_id", Value: 1}}},
		}},
		{names.Menus, []mongo.IndexModel{
			{Keys: bson.D{{Key: "storeId", Value: 1}, {Key: "_id", Value: 1}}},
		}},
		{names.Likes, []mongo.IndexModel{
			{Keys: bson.D{{Key: "storeId", Value: 1}, {Key: "accountId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "accountId", Value: 1}}},
		}},
		{names.Donations, []mongo.IndexModel{
			{Keys: bson.D{{Key: "storeId", Value: 1}, {Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
		}},
	}
	for _, spec := range specs {
		if _, err := db.Collection(spec.collection).Indexes().CreateMany(ctx, spec.models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", spec.collection, err)
		}
	}
	return nil
}

// nextID は counters コレクションで連番を払い出す。
func nextID(ctx context.Context, counters *mongo.Collection, name string) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc counterDocument
	err := counters.FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": int64(1)}}, opts).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

// ensureAccount は呼び出し元アカウントを作成し、空でないニックネームで更新する。
func ensureAccount(ctx context.Context, accounts *mongo.Collection, account domain.Account, now time.Time) error {
	nickname := strings.TrimSpace(account.Nickname)
	update := bson.M{"$setOnInsert": bson.M{"createdAt": now, "nickname": nickname}}
	if nickname != "" {
		update = bson.M{
			"$set":         bson.M{"nickname": nickname},
			"$setOnInsert": bson.M{"createdAt": now},
		}
	}
	_, err := accounts.UpdateOne(ctx, bson.M{"_id": account.ID}, update, options.Update().SetUpsert(true))
	return err
}

// storeExists は店舗が無ければ mongo.ErrNoDocuments を返す。
func storeExists(ctx context.Context, stores *mongo.Collection, storeID int64) error {
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	return stores.FindOne(ctx, bson.M{"_id": storeID}, opts).Err()
}

// translate はドライバのエラーをドメインのエラー分類へ寄せる。
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrConstraintViolation), errors.Is(err, domain.ErrTransientStoreFailure):
		return err
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConstraintViolation, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrTransientStoreFailure, err)
	}
}

func pageOptions(page domain.Pageable) *options.FindOptions {
	return options.Find().SetSkip(int64(page.Offset())).SetLimit(int64(page.Size + 1))
}
