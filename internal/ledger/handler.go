package ledger

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/SujayAgarwal28/TradePulse-sub000/internal/httputil"
	"github.com/SujayAgarwal28/TradePulse-sub000/internal/types"
)

type Handler struct {
	svc             *Service
	defaultStarting decimal.Decimal
}

func NewHandler(svc *Service, defaultStarting decimal.Decimal) *Handler {
	return &Handler{svc: svc, defaultStarting: defaultStarting}
}

func requestContext(r *http.Request) string {
	if ctx := strings.TrimSpace(r.Header.Get("X-Context-ID")); ctx != "" {
		return ctx
	}
	return types.ContextPersonal
}

type createRequest struct {
	ContextID       string `json:"context_id"`
	StartingBalance string `json:"starting_balance"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, userID string) {
	var req createRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	starting := h.defaultStarting
	if strings.TrimSpace(req.StartingBalance) != "" {
		v, err := decimal.NewFromString(req.StartingBalance)
		if err != nil || v.IsNegative() {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid starting_balance"})
			return
		}
		starting = v
	}
	l, err := h.svc.CreateLedger(r.Context(), userID, req.ContextID, starting)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, l)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, userID string) {
	l, err := h.svc.GetLedger(r.Context(), userID, requestContext(r))
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, l)
}

type tradeRequest struct {
	Symbol   string `json:"symbol"`
	Side     string `json:"side"`
	Quantity int64  `json:"quantity"`
}

func (h *Handler) Trade(w http.ResponseWriter, r *http.Request, userID string) {
	var req tradeRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	side := types.TradeSide(strings.ToLower(strings.TrimSpace(req.Side)))
	t, err := h.svc.Execute(r.Context(), userID, requestContext(r), req.Symbol, side, req.Quantity)
	if err != nil {
		// A rejected trade still carries its audit record; return both.
		if t.ID != "" {
			httputil.WriteJSON(w, statusFor(err), map[string]any{"error": err.Error(), "trade": t})
			return
		}
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) Valuation(w http.ResponseWriter, r *http.Request, userID string) {
	var prevTotal *decimal.Decimal
	if raw := strings.TrimSpace(r.URL.Query().Get("previous_total")); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid previous_total"})
			return
		}
		prevTotal = &v
	}
	snap, err := h.svc.Valuate(r.Context(), userID, requestContext(r), prevTotal)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request, userID string) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = n
	}
	trades, err := h.svc.History(r.Context(), userID, requestContext(r), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"trades": trades})
}

func writeError(w http.ResponseWriter, err error) {
	httputil.WriteJSON(w, statusFor(err), httputil.ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrLedgerNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrBusy):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrInsufficientShares),
		errors.Is(err, ErrPriceUnavailable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
