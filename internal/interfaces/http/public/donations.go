package public

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/mymoo-services/api/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/mymoo-services/api/internal/public/application"
	"github.com/sngm3741/mymoo-services/api/internal/public/domain"
)

type donationRequest struct {
	Point int64 `json:"point"`
}

func (h *Handler) donationListHandler() common.CallerHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ common.Caller) {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		storeID, err := common.ParseID(chi.URLParam(r, "storeId"), "storeId")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		page, err := parsePageable(r.URL.Query())
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		list, err := h.donationQueries.List(ctx, storeID, page)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, list)
	}
}

func (h *Handler) donationCreateHandler() common.CallerHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, caller common.Caller) {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		storeID, err := common.ParseID(chi.URLParam(r, "storeId"), "storeId")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		var req donationRequest
		decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, common.MaxRequestBody))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			common.WriteError(h.logger, w, r, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
			return
		}

		receipt, err := h.storeCommands.Donate(ctx, publicapp.DonateCommand{
			StoreID: storeID,
			Donator: caller.Account(),
			Point:   req.Point,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		h.logger.Info().
			Int64("storeId", storeID).
			Int64("accountId", caller.AccountID).
			Int64("point", receipt.Point).
			Msg("donation credited")
		common.WriteJSON(h.logger, w, http.StatusCreated, receipt)
	}
}
