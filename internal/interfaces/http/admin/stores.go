package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/sngm3741/mymoo-services/api/internal/admin/application"
	"github.com/sngm3741/mymoo-services/api/internal/interfaces/http/common"
	publicdomain "github.com/sngm3741/mymoo-services/api/internal/public/domain"
)

func (h *Handler) storeCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminStoreCreateRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		store, err := h.storeService.Register(ctx, adminapp.RegisterStoreCommand{
			Name:        req.Name,
			Address:     req.Address,
			Description: req.Description,
			PhoneNumber: req.PhoneNumber,
			ImagePath:   req.ImagePath,
			Longitude:   req.Longitude,
			Latitude:    req.Latitude,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		h.logger.Info().Int64("storeId", store.ID).Str("name", store.Name.String()).Msg("store registered")
		common.WriteJSON(h.logger, w, http.StatusCreated, adminStoreDomainToResponse(*store))
	}
}

func (h *Handler) storeDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := common.ParseID(chi.URLParam(r, "storeId"), "storeId")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		store, err := h.storeService.Detail(ctx, storeID)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, adminStoreDomainToResponse(*store))
	}
}

func (h *Handler) menuCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := common.ParseID(chi.URLParam(r, "storeId"), "storeId")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		var req adminMenuCreateRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		menu, err := h.storeService.AddMenu(ctx, adminapp.AddMenuCommand{
			StoreID:     storeID,
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			ImagePath:   req.ImagePath,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, adminMenuDomainToResponse(*menu))
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, common.MaxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", publicdomain.ErrInvalidRequest, err)
	}
	return nil
}
