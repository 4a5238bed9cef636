package server

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	adminapp "github.com/sngm3741/mymoo-services/api/internal/admin/application"
	"github.com/sngm3741/mymoo-services/api/internal/config"
	mongodoc "github.com/sngm3741/mymoo-services/api/internal/infrastructure/mongo"
	"github.com/sngm3741/mymoo-services/api/internal/infrastructure/sqlstore"
	publicapp "github.com/sngm3741/mymoo-services/api/internal/public/application"
)

// HealthService は疎通確認の振る舞いを定義する。
type HealthService interface {
	Check(ctx context.Context) error
}

type checkFunc func(ctx context.Context) error

func (f checkFunc) Check(ctx context.Context) error {
	return f(ctx)
}

// Backend は 1 つのストレージエンジンのリポジトリをまとめる。
type Backend struct {
	Name        string
	Stores      publicapp.StoreRepository
	Donations   publicapp.DonationRepository
	AdminStores adminapp.StoreRepository
	Health      HealthService
	close       func(ctx context.Context) error
}

// Close は内部の接続を解放する。
func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}

// OpenBackend は cfg.StoreBackend で選択されたバックエンドへ接続する。
// SQL はマイグレーションを、Mongo はインデックス作成を済ませてから返す。
func OpenBackend(ctx context.Context, cfg config.Config) (*Backend, error) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		return openMongo(ctx, cfg)
	case config.BackendSQLite, config.BackendPostgres:
		return openSQL(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}

func openMongo(ctx context.Context, cfg config.Config) (*Backend, error) {
	client, err := mongodoc.Connect(ctx, cfg.MongoURI, cfg.ConnectTimeout)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDatabase)
	names := mongodoc.Collections{
		Stores:    cfg.Collections.Stores,
		Menus:     cfg.Collections.Menus,
		Accounts:  cfg.Collections.Accounts,
		Likes:     cfg.Collections.Likes,
		Donations: cfg.Collections.Donations,
		Counters:  cfg.Collections.Counters,
	}

	indexCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := mongodoc.EnsureIndexes(indexCtx, db, names); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &Backend{
		Name:        config.BackendMongo,
		Stores:      mongodoc.NewStoreRepository(db, names),
		Donations:   mongodoc.NewDonationRepository(db, names),
		AdminStores: mongodoc.NewAdminStoreRepository(db, names),
		Health: checkFunc(func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		}),
		close: client.Disconnect,
	}, nil
}

func openSQL(ctx context.Context, cfg config.Config) (*Backend, error) {
	db, err := sqlstore.Open(ctx, sqlstore.Dialect(cfg.StoreBackend), cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return &Backend{
		Name:        cfg.StoreBackend,
		Stores:      sqlstore.NewStoreRepository(db),
		Donations:   sqlstore.NewDonationRepository(db),
		AdminStores: sqlstore.NewAdminStoreRepository(db),
		Health:      checkFunc(db.Ping),
		close: func(context.Context) error {
			return db.Close()
		},
	}, nil
}
