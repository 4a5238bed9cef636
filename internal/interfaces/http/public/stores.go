package public

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/mymoo-services/api/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/mymoo-services/api/internal/public/application"
	"github.com/sngm3741/mymoo-services/api/internal/public/domain"
)

// storeListHandler picks the retrieval mode from the query: both coordinates
// select location order, and a keyword parameter (even empty) switches to
// keyword search with the coordinate used only for distance.
func (h *Handler) storeListHandler() common.CallerHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, caller common.Caller) {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		query := r.URL.Query()
		origin, err := parseOrigin(query)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		page, err := parsePageable(query)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		var stores domain.Slice[domain.StoreSummary]
		if query.Has("keyword") {
			stores, err = h.storeQueries.ListByKeyword(ctx, publicapp.KeywordQuery{
				Keyword: query.Get("keyword"),
				Origin:  origin,
				Page:    page,
			}, caller.AccountID)
		} else {
			stores, err = h.storeQueries.ListByLocation(ctx, publicapp.LocationQuery{
				Origin: origin,
				Page:   page,
			}, caller.AccountID)
		}
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, domain.NewStoreList(stores))
	}
}

func (h *Handler) storeDetailHandler() common.CallerHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, caller common.Caller) {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		storeID, err := common.ParseID(chi.URLParam(r, "storeId"), "storeId")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		detail, err := h.storeQueries.Detail(ctx, storeID, caller.AccountID)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, detail)
	}
}

func (h *Handler) storeMenusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		storeID, err := common.ParseID(chi.URLParam(r, "storeId"), "storeId")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		menus, err := h.storeQueries.Menus(ctx, storeID)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, menus)
	}
}

func (h *Handler) storeLikeToggleHandler() common.CallerHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, caller common.Caller) {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		storeID, err := common.ParseID(chi.URLParam(r, "storeId"), "storeId")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		result, err := h.storeCommands.ToggleLike(ctx, storeID, caller.Account())
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		h.logger.Info().
			Int64("storeId", storeID).
			Int64("accountId", caller.AccountID).
			Str("action", string(result.Action)).
			Msg("like toggled")
		common.WriteJSON(h.logger, w, http.StatusOK, result)
	}
}

// parseOrigin requires both logt and lat.
func parseOrigin(values url.Values) (domain.Coordinate, error) {
	longitude, err := common.ParseFloat(values, "logt")
	if err != nil {
		return domain.Coordinate{}, err
	}
	latitude, err := common.ParseFloat(values, "lat")
	if err != nil {
		return domain.Coordinate{}, err
	}
	return domain.NewCoordinate(longitude, latitude)
}

func parsePageable(values url.Values) (domain.Pageable, error) {
	page, err := common.ParseNonNegativeInt(values, "page", 0)
	if err != nil {
		return domain.Pageable{}, err
	}
	size, err := common.ParseNonNegativeInt(values, "size", domain.DefaultPageSize)
	if err != nil {
		return domain.Pageable{}, err
	}
	sort, err := domain.ParseSortKey(strings.TrimSpace(values.Get("sortby")))
	if err != nil {
		return domain.Pageable{}, err
	}
	return domain.NewPageable(page, size, sort)
}
