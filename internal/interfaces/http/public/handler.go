package public

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/sngm3741/mymoo-services/api/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/mymoo-services/api/internal/public/application"
)

const defaultRequestTimeout = 5 * time.Second

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger          zerolog.Logger
	storeQueries    publicapp.StoreQueryService
	storeCommands   publicapp.StoreCommandService
	donationQueries publicapp.DonationQueryService
	resolver        common.CallerResolver
	timeout         time.Duration
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger          zerolog.Logger
	StoreQueries    publicapp.StoreQueryService
	StoreCommands   publicapp.StoreCommandService
	DonationQueries publicapp.DonationQueryService
	Resolver        common.CallerResolver
	// Timeout bounds each service call; zero means five seconds.
	Timeout time.Duration
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Handler{
		logger:          cfg.Logger,
		storeQueries:    cfg.StoreQueries,
		storeCommands:   cfg.StoreCommands,
		donationQueries: cfg.DonationQueries,
		resolver:        cfg.Resolver,
		timeout:         timeout,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/stores", h.withCaller(h.storeListHandler()))
	r.Get("/stores/{storeId}", h.withCaller(h.storeDetailHandler()))
	r.Patch("/stores/{storeId}", h.withCaller(h.storeLikeToggleHandler()))
	r.Get("/stores/{storeId}/menus", h.storeMenusHandler())
	r.Get("/stores/{storeId}/donations", h.withCaller(h.donationListHandler()))
	r.Post("/stores/{storeId}/donations", h.withCaller(h.donationCreateHandler()))
}

func (h *Handler) withCaller(next common.CallerHandlerFunc) http.HandlerFunc {
	return common.RequireCaller(h.logger, h.resolver, next)
}
