package health

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SujayAgarwal28/TradePulse-sub000/internal/httputil"
)

type Handler struct {
	pool *pgxpool.Pool
}

// NewHandler builds the health endpoint. pool may be nil when running on
// the in-memory store.
func NewHandler(pool *pgxpool.Pool) *Handler {
	return &Handler{pool: pool}
}

type status struct {
	Status string `json:"status"`
	DB     string `json:"db,omitempty"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	out := status{Status: "ok"}
	if h.pool != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.pool.Ping(ctx); err != nil {
			out.Status = "degraded"
			out.DB = err.Error()
			httputil.WriteJSON(w, http.StatusServiceUnavailable, out)
			return
		}
		out.DB = "ok"
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
