package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/friendsofgo/errors"

	"github.com/nrfta/go-catalog"
	"github.com/nrfta/go-catalog/internal/logging"
	"github.com/nrfta/go-catalog/pagination"
)

// ProductsResponse is the body of GET /products.
type ProductsResponse struct {
	Items           []catalog.Product `json:"items"`
	TotalItems      int               `json:"totalItems"`
	Page            int               `json:"page"`
	PageSize        int               `json:"pageSize"`
	TotalPages      int               `json:"totalPages"`
	HasNextPage     bool              `json:"hasNextPage"`
	HasPreviousPage bool              `json:"hasPreviousPage"`
	NextPage        *int              `json:"nextPage"`
	Strategy        string            `json:"strategy"`
	QueryTimeMs     int64             `json:"queryTimeMs"`
	NextCursor      *string           `json:"nextCursor,omitempty"`
	PreviousCursor  *string           `json:"previousCursor,omitempty"`
}

// CountResponse is the body of GET /products/count.
type CountResponse struct {
	Count int `json:"count"`
}

// StrategyResponse is the body of POST /strategy/switch and GET /healthz.
type StrategyResponse struct {
	Strategy  string `json:"strategy"`
	Count     int    `json:"count"`
	Threshold int    `json:"threshold"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable"`
	RequestID string `json:"requestId,omitempty"`
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.strategyResponse())
}

func (h *handler) listProducts(w http.ResponseWriter, r *http.Request) {
	state, err := ParseQueryState(r.URL.Query(), h.pageConfig)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.catalog.ApplyAndPaginate(r.Context(), state)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, newProductsResponse(res))
}

func (h *handler) countProducts(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, CountResponse{Count: h.catalog.Count()})
}

func (h *handler) switchStrategy(w http.ResponseWriter, r *http.Request) {
	if _, err := h.catalog.EvaluateAndSelect(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, h.strategyResponse())
}

func (h *handler) strategyResponse() StrategyResponse {
	return StrategyResponse{
		Strategy:  h.catalog.Active().String(),
		Count:     h.catalog.Count(),
		Threshold: h.catalog.Threshold(),
	}
}

func newProductsResponse(res *catalog.PageResult) ProductsResponse {
	info := pagination.NewPageInfo(res.PageNumber, res.PageSize, res.TotalItems)

	out := ProductsResponse{
		Items:           res.Items,
		TotalItems:      res.TotalItems,
		Page:            res.PageNumber,
		PageSize:        res.PageSize,
		TotalPages:      info.TotalPages,
		HasNextPage:     info.HasNextPage,
		HasPreviousPage: info.HasPreviousPage,
		Strategy:        res.Metadata.Strategy,
		QueryTimeMs:     res.Metadata.QueryTimeMs,
		NextCursor:      info.NextCursor,
		PreviousCursor:  info.PreviousCursor,
	}
	if out.Items == nil {
		out.Items = []catalog.Product{}
	}
	if info.HasNextPage {
		next := res.PageNumber + 1
		out.NextPage = &next
	}
	return out
}

// statusFor maps catalog errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, catalog.ErrInvalidPageSize),
		errors.Is(err, catalog.ErrInvalidPageNumber):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrSuperseded):
		return http.StatusConflict
	case catalog.Retryable(err),
		errors.Is(err, catalog.ErrNoStrategySelected),
		errors.Is(err, catalog.ErrNotLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	logger := logging.FromContext(r.Context(), h.logger)
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).Int("status", status).Msg("request failed")

	h.writeJSON(w, r, status, ErrorResponse{
		Error:     err.Error(),
		Retryable: catalog.Retryable(err),
		RequestID: w.Header().Get(requestIDHeader),
	})
}

func (h *handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.FromContext(r.Context(), h.logger).Error().Err(err).Msg("write response")
	}
}
