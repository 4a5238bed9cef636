package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	adminapp "github.com/sngm3741/mymoo-services/api/internal/admin/application"
	"github.com/sngm3741/mymoo-services/api/internal/config"
	adminhttp "github.com/sngm3741/mymoo-services/api/internal/interfaces/http/admin"
	commonhttp "github.com/sngm3741/mymoo-services/api/internal/interfaces/http/common"
	publichttp "github.com/sngm3741/mymoo-services/api/internal/interfaces/http/public"
	"github.com/sngm3741/mymoo-services/api/internal/pkg/clock"
	publicapp "github.com/sngm3741/mymoo-services/api/internal/public/application"
)

// Server は HTTP サーバーのライフサイクルを管理し、Public/Admin の各ハンドラへ依存注入するコンポジションルート。
type Server struct {
	cfg                  config.Config
	logger               zerolog.Logger
	backend              *Backend
	resolver             commonhttp.CallerResolver
	storeQueryService    publicapp.StoreQueryService
	storeCommandService  publicapp.StoreCommandService
	donationQueryService publicapp.DonationQueryService
	adminStoreService    adminapp.StoreService
}

// New は Config と Backend を受け取り、アプリケーションサービスを組み立てた Server を返す。
func New(cfg config.Config, backend *Backend, logger zerolog.Logger) *Server {
	clk := clock.NewRealClock()
	return &Server{
		cfg:                  cfg,
		logger:               logger,
		backend:              backend,
		resolver:             newJWTResolver(cfg.JWTConfigs, cfg.JWTAudience),
		storeQueryService:    publicapp.NewStoreQueryService(backend.Stores),
		storeCommandService:  publicapp.NewStoreCommandService(backend.Stores, backend.Donations, clk),
		donationQueryService: publicapp.NewDonationQueryService(backend.Donations),
		adminStoreService:    adminapp.NewStoreService(backend.AdminStores, clk),
	}
}

// Handler はミドルウェアとヘルスチェックを設定し、Public/Admin ルートをベースパス配下にマウントしたルーターを返す。
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(requestID)
	router.Use(middleware.RealIP)
	router.Use(accessLog(s.logger))
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.cfg.AllowedOrigins))

	router.Get("/healthz", s.healthHandler())

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:          s.logger,
		StoreQueries:    s.storeQueryService,
		StoreCommands:   s.storeCommandService,
		DonationQueries: s.donationQueryService,
		Resolver:        s.resolver,
		Timeout:         s.cfg.RequestTimeout,
	})
	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:       s.logger,
		StoreService: s.adminStoreService,
	})

	mount := func(r chi.Router) {
		publicHandler.Register(r)
		if len(s.cfg.AdminJWT.Secret) == 0 {
			s.logger.Warn().Msg("ADMIN_JWT_SECRET is empty; admin routes are disabled")
			return
		}
		r.Route("/admin", func(ar chi.Router) {
			ar.Use(adminAuth(s.cfg.AdminJWT, func(w http.ResponseWriter, r *http.Request, err error) {
				commonhttp.WriteError(s.logger, w, r, err)
			}))
			adminHandler.Register(ar)
		})
	}
	if s.cfg.BasePath == "" {
		mount(router)
	} else {
		router.Route(s.cfg.BasePath, mount)
	}
	return router
}

// Run は ctx のキャンセルか SIGINT/SIGTERM まで HTTP を提供し、処理中のリクエストを待ってからバックエンドを閉じる。
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Str("backend", s.backend.Name).Msg("http server listening")
		errChan <- httpServer.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	case <-ctx.Done():
		s.logger.Info().Msg("shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("http server shutdown")
		}
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.backend.Close(closeCtx); err != nil {
		s.logger.Error().Err(err).Msg("closing backend")
	}
	return runErr
}

// healthHandler はストレージへの疎通確認のみを返し、ドメインの状態には触れない。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.backend.Health.Check(ctx); err != nil {
			s.logger.Warn().Err(err).Str("backend", s.backend.Name).Msg("health check failed")
			commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status":  "degraded",
				"backend": s.backend.Name,
			})
			return
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status":  "ok",
			"backend": s.backend.Name,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	}
}
