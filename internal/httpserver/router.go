package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SujayAgarwal28/TradePulse-sub000/internal/auth"
	"github.com/SujayAgarwal28/TradePulse-sub000/internal/health"
	"github.com/SujayAgarwal28/TradePulse-sub000/internal/httputil"
	"github.com/SujayAgarwal28/TradePulse-sub000/internal/ledger"
)

type RouterDeps struct {
	LedgerHandler *ledger.Handler
	HealthHandler *health.Handler
	AuthService   *auth.Service
	QuoteWS       http.Handler
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(SecurityHeaders)
	r.Use(RateLimitMiddleware)

	r.Get("/health", d.HealthHandler.Health)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/market/ws", d.QuoteWS.ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(WithAuth(d.AuthService))
			r.Post("/portfolio", authed(d.LedgerHandler.Create))
			r.Get("/portfolio", authed(d.LedgerHandler.Get))
			r.Post("/portfolio/trades", authed(d.LedgerHandler.Trade))
			r.Get("/portfolio/trades", authed(d.LedgerHandler.History))
			r.Get("/portfolio/valuation", authed(d.LedgerHandler.Valuation))
		})
	})

	return r
}

func authed(h func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserID(r)
		if !ok {
			httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
			return
		}
		h(w, r, userID)
	}
}
