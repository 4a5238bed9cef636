package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	adminapp "github.com/sngm3741/mymoo-services/api/internal/admin/application"
	"github.com/sngm3741/mymoo-services/api/internal/config"
	"github.com/sngm3741/mymoo-services/api/internal/logging"
	"github.com/sngm3741/mymoo-services/api/internal/pkg/clock"
	publicapp "github.com/sngm3741/mymoo-services/api/internal/public/application"
	"github.com/sngm3741/mymoo-services/api/internal/public/domain"
	"github.com/sngm3741/mymoo-services/api/internal/server"
)

type seedOptions struct {
	storeCount    int
	maxMenus      int
	donationCount int
	likeCount     int
	accountCount  int
	centerLon     float64
	centerLat     float64
	spreadKm      float64
	randomSeed    int64
}

type district struct {
	name string
	lon  float64
	lat  float64
}

var districts = []district{
	{name: "Jongno-gu", lon: 126.9794, lat: 37.5730},
	{name: "Jung-gu", lon: 126.9976, lat: 37.5641},
	{name: "Mapo-gu", lon: 126.9016, lat: 37.5663},
	{name: "Gangnam-gu", lon: 127.0473, lat: 37.5172},
	{name: "Seongdong-gu", lon: 127.0369, lat: 37.5634},
	{name: "Yongsan-gu", lon: 126.9654, lat: 37.5326},
}

var (
	storePrefixes = []string{"Mymoo", "Hanok", "Green", "Daily", "Sunny", "Maru", "Bom"}
	storeKinds    = []string{"Coffee", "Kitchen", "Bakery", "Bistro", "Noodle House", "Tea Room"}
	menuNames     = []string{"Americano", "Latte", "Bibimbap", "Kimchi Stew", "Croissant", "Cold Noodles", "Citron Tea", "Sandwich"}
	descriptions  = []string{
		"Neighborhood favorite with warm meals for children on the program.",
		"Partners with the local community center every weekend.",
		"Fresh bread baked each morning. Children eat free with a card.",
		"Quiet seats and a long table for study after school.",
		"",
	}
	nicknames = []string{"momo", "haru", "jun", "sora", "mina", "dal", "byul"}
)

func main() {
	opts := parseFlags()

	cfg, err := config.Load()
	logger := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		logger.Fatal().Err(err).Msg("環境変数の読み込みに失敗しました")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	backend, err := server.OpenBackend(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("ストレージへの接続に失敗しました")
	}
	defer func() {
		_ = backend.Close(context.Background())
	}()

	rng := rand.New(rand.NewSource(opts.randomSeed))
	clk := clock.NewRealClock()
	stores := adminapp.NewStoreService(backend.AdminStores, clk)
	commands := publicapp.NewStoreCommandService(backend.Stores, backend.Donations, clk)

	storeIDs, menuCount, err := seedStores(ctx, stores, rng, opts)
	if err != nil {
		logger.Fatal().Err(err).Msg("店舗データの投入に失敗しました")
	}
	accounts := generateAccounts(rng, opts.accountCount)

	likes, err := seedLikes(ctx, commands, rng, storeIDs, accounts, opts.likeCount)
	if err != nil {
		logger.Fatal().Err(err).Msg("いいねデータの投入に失敗しました")
	}
	donations, err := seedDonations(ctx, commands, rng, storeIDs, accounts, opts.donationCount)
	if err != nil {
		logger.Fatal().Err(err).Msg("寄付データの投入に失敗しました")
	}

	logger.Info().
		Str("backend", backend.Name).
		Int("stores", len(storeIDs)).
		Int("menus", menuCount).
		Int("likes", likes).
		Int("donations", donations).
		Int64("seed", opts.randomSeed).
		Msg("Seed 完了")
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.IntVar(&opts.storeCount, "stores", 20, "生成する店舗数")
	flag.IntVar(&opts.maxMenus, "menus", 4, "店舗あたりの最大メニュー数")
	flag.IntVar(&opts.donationCount, "donations", 50, "生成する寄付件数")
	flag.IntVar(&opts.likeCount, "likes", 40, "試行するいいね件数")
	flag.IntVar(&opts.accountCount, "accounts", 10, "寄付・いいねに使うアカウント数")
	flag.Float64Var(&opts.centerLon, "lon", 0, "中心経度 (0 の場合は区ごとの中心を使用)")
	flag.Float64Var(&opts.centerLat, "lat", 0, "中心緯度")
	flag.Float64Var(&opts.spreadKm, "spread", 1.5, "中心からのばらつき (km)")
	flag.Int64Var(&opts.randomSeed, "seed", time.Now().UnixNano(), "乱数シード（再現用）")
	flag.Parse()

	if opts.storeCount <= 0 {
		opts.storeCount = 1
	}
	if opts.maxMenus < 0 {
		opts.maxMenus = 0
	}
	if opts.accountCount <= 0 {
		opts.accountCount = 1
	}
	if opts.donationCount < 0 {
		opts.donationCount = 0
	}
	if opts.likeCount < 0 {
		opts.likeCount = 0
	}
	return opts
}

func seedStores(ctx context.Context, stores adminapp.StoreService, rng *rand.Rand, opts seedOptions) ([]int64, int, error) {
	ids := make([]int64, 0, opts.storeCount)
	menus := 0
	for i := 0; i < opts.storeCount; i++ {
		d := districts[rng.Intn(len(districts))]
		lon, lat := d.lon, d.lat
		if opts.centerLon != 0 || opts.centerLat != 0 {
			lon, lat = opts.centerLon, opts.centerLat
		}
		lon, lat = jitter(rng, lon, lat, opts.spreadKm)

		store, err := stores.Register(ctx, adminapp.RegisterStoreCommand{
			Name:        fmt.Sprintf("%s %s %d", pick(rng, storePrefixes), pick(rng, storeKinds), i+1),
			Address:     fmt.Sprintf("Seoul, %s %d-%d", d.name, 1+rng.Intn(200), 1+rng.Intn(30)),
			Description: pick(rng, descriptions),
			PhoneNumber: fmt.Sprintf("02-%03d-%04d", 100+rng.Intn(900), rng.Intn(10000)),
			ImagePath:   fmt.Sprintf("/images/stores/%d.jpg", i+1),
			Longitude:   lon,
			Latitude:    lat,
		})
		if err != nil {
			return nil, 0, fmt.Errorf("register store %d: %w", i+1, err)
		}
		ids = append(ids, store.ID)

		menuCount := rng.Intn(opts.maxMenus + 1)
		for j := 0; j < menuCount; j++ {
			if _, err := stores.AddMenu(ctx, adminapp.AddMenuCommand{
				StoreID: store.ID,
				Name:    pick(rng, menuNames),
				Price:   int64(3000 + rng.Intn(12)*500),
			}); err != nil {
				return nil, 0, fmt.Errorf("add menu to store %d: %w", store.ID, err)
			}
			menus++
		}
	}
	return ids, menus, nil
}

func generateAccounts(rng *rand.Rand, count int) []domain.Account {
	accounts := make([]domain.Account, 0, count)
	for i := 0; i < count; i++ {
		accounts = append(accounts, domain.Account{
			ID:       int64(1000 + i),
			Nickname: fmt.Sprintf("%s%d", pick(rng, nicknames), i+1),
		})
	}
	return accounts
}

// seedLikes toggles random pairs, so a repeated pair ends up unliked again.
func seedLikes(ctx context.Context, commands publicapp.StoreCommandService, rng *rand.Rand, storeIDs []int64, accounts []domain.Account, count int) (int, error) {
	liked := 0
	for i := 0; i < count; i++ {
		result, err := commands.ToggleLike(ctx, storeIDs[rng.Intn(len(storeIDs))], accounts[rng.Intn(len(accounts))])
		if err != nil {
			return liked, err
		}
		if result.Action == domain.LikeActionLiked {
			liked++
		} else {
			liked--
		}
	}
	return liked, nil
}

func seedDonations(ctx context.Context, commands publicapp.StoreCommandService, rng *rand.Rand, storeIDs []int64, accounts []domain.Account, count int) (int, error) {
	for i := 0; i < count; i++ {
		_, err := commands.Donate(ctx, publicapp.DonateCommand{
			StoreID: storeIDs[rng.Intn(len(storeIDs))],
			Donator: accounts[rng.Intn(len(accounts))],
			Point:   int64(1000 * (1 + rng.Intn(10))),
		})
		if err != nil {
			return i, err
		}
	}
	return count, nil
}

// jitter moves the point up to spreadKm in a random direction.
func jitter(rng *rand.Rand, lon, lat, spreadKm float64) (float64, float64) {
	const kmPerDegree = 111.32
	dLat := (rng.Float64()*2 - 1) * spreadKm / kmPerDegree
	dLon := (rng.Float64()*2 - 1) * spreadKm / kmPerDegree
	return lon + dLon, lat + dLat
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}
