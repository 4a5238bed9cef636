package admin

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	adminapp "github.com/sngm3741/mymoo-services/api/internal/admin/application"
)

// Handler は Admin 向け HTTP エンドポイントをアプリケーションサービスへ接続する。
type Handler struct {
	logger       zerolog.Logger
	storeService adminapp.StoreService
}

// Config は Handler の依存関係。
type Config struct {
	Logger       zerolog.Logger
	StoreService adminapp.StoreService
}

// NewHandler は Admin 用ハンドラ群を生成する。
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:       cfg.Logger,
		storeService: cfg.StoreService,
	}
}

// Register は Admin ルートをルーターにマウントする。認証は呼び出し側で適用する。
func (h *Handler) Register(r chi.Router) {
	r.Post("/stores", h.storeCreateHandler())
	r.Get("/stores/{storeId}", h.storeDetailHandler())
	r.Post("/stores/{storeId}/menus", h.menuCreateHandler())
}
