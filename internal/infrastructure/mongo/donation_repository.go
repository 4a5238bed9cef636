package mongo

import (
	"context"
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/mymoo-services/api/internal/public/application"
	"github.com/sngm3741/mymoo-services/api/internal/public/domain"
)

var _ application.DonationRepository = (*DonationRepository)(nil)

// DonationRepository は寄付台帳の Mongo 実装。
type DonationRepository struct {
	client    *mongo.Client
	stores    *mongo.Collection
	accounts  *mongo.Collection
	donations *mongo.Collection
	counters  *mongo.Collection
}

func NewDonationRepository(db *mongo.Database, names Collections) *DonationRepository {
	return &DonationRepository{
		client:    db.Client(),
		stores:    db.Collection(names.Stores),
		accounts:  db.Collection(names.Accounts),
		donations: db.Collection(names.Donations),
		counters:  db.Collection(names.Counters),
	}
}

// Credit は台帳への追記と店舗集計の加算を同一トランザクションで行う。
func (r *DonationRepository) Credit(ctx context.Context, donation domain.Donation, donator domain.Account) (domain.DonationCredit, error) {
	op := fmt.Sprintf("credit donation store=%d account=%d", donation.StoreID, donator.ID)

	session, err := r.client.StartSession()
	if err != nil {
		return domain.DonationCredit{}, translate(op, err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var store StoreDocument
		opts := options.FindOne().SetProjection(bson.M{"allDonation": 1, "usableDonation": 1})
		if err := r.stores.FindOne(sc, bson.M{"_id": donation.StoreID}, opts).Decode(&store); err != nil {
			return nil, err
		}
		allDonation, usableDonation, err := domain.CreditTotals(store.AllDonation, store.UsableDonation, donation.Point)
		if err != nil {
			return nil, err
		}
		if err := ensureAccount(sc, r.accounts, donator, donation.CreatedAt); err != nil {
			return nil, err
		}

		id, err := nextID(sc, r.counters, "donations")
		if err != nil {
			return nil, err
		}
		entry := donation
		entry.ID = id
		entry.AccountID = donator.ID
		if _, err := r.donations.InsertOne(sc, DonationDocument{
			ID:        entry.ID,
			StoreID:   entry.StoreID,
			AccountID: entry.AccountID,
			Point:     entry.Point,
			CreatedAt: entry.CreatedAt,
		}); err != nil {
			return nil, err
		}

		limit := math.MaxInt64 - entry.Point
		updated, err := r.stores.UpdateOne(sc, bson.M{
			"_id":            donation.StoreID,
			"allDonation":    bson.M{"$lte": limit},
			"usableDonation": bson.M{"$lte": limit},
		}, bson.M{
			"$inc": bson.M{"allDonation": entry.Point, "usableDonation": entry.Point},
			"$set": bson.M{"updatedAt": entry.CreatedAt},
		})
		if err != nil {
			return nil, err
		}
		if updated.MatchedCount == 0 {
			return nil, fmt.Errorf("%w: donation totals of store %d would overflow", domain.ErrConstraintViolation, donation.StoreID)
		}

		return domain.DonationCredit{
			Donation:       entry,
			AllDonation:    allDonation,
			UsableDonation: usableDonation,
		}, nil
	})
	if err != nil {
		return domain.DonationCredit{}, translate(op, err)
	}
	return result.(domain.DonationCredit), nil
}

// FindByStore は新しい順に台帳を返し、寄付者のニックネームをまとめて引き当てる。
func (r *DonationRepository) FindByStore(ctx context.Context, storeID int64, page domain.Pageable) (domain.Slice[domain.DonationEntry], error) {
	op := fmt.Sprintf("find donations of store %d", storeID)
	if err := storeExists(ctx, r.stores, storeID); err != nil {
		return domain.Slice[domain.DonationEntry]{}, translate(op, err)
	}

	opts := pageOptions(page).SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.donations.Find(ctx, bson.M{"storeId": storeID}, opts)
	if err != nil {
		return domain.Slice[domain.DonationEntry]{}, translate(op, err)
	}
	var docs []DonationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return domain.Slice[domain.DonationEntry]{}, translate(op, err)
	}

	accountIDs := make([]int64, 0, len(docs))
	for _, doc := range docs {
		accountIDs = append(accountIDs, doc.AccountID)
	}
	nicknames, err := r.loadAccountMap(ctx, accountIDs)
	if err != nil {
		return domain.Slice[domain.DonationEntry]{}, translate(op, err)
	}

	entries := make([]domain.DonationEntry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, domain.DonationEntry{
			ID:              doc.ID,
			Point:           doc.Point,
			DonatorNickname: nicknames[doc.AccountID],
			CreatedAt:       doc.CreatedAt.UTC(),
		})
	}
	return domain.NewSlice(entries, page), nil
}

func (r *DonationRepository) loadAccountMap(ctx context.Context, ids []int64) (map[int64]string, error) {
	nicknames := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return nicknames, nil
	}

	cursor, err := r.accounts.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var docs []AccountDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, doc := range docs {
		nicknames[doc.ID] = doc.Nickname
	}
	return nicknames, nil
}
