package marketdata

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

// QuoteWS streams refreshed quotes to websocket clients. An optional
// ?symbols=AAPL,MSFT filter limits the stream.
type QuoteWS struct {
	bus      *Bus
	origin   string
	upgrader websocket.Upgrader
}

func NewQuoteWS(bus *Bus, origin string) *QuoteWS {
	return &QuoteWS{
		bus:    bus,
		origin: origin,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return allowOrigin(r, origin) },
		},
	}
}

func (h *QuoteWS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	filter := map[string]struct{}{}
	for _, s := range strings.Split(r.URL.Query().Get("symbols"), ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			filter[s] = struct{}{}
		}
	}

	sub := h.bus.Subscribe()
	defer h.bus.Unsubscribe(sub)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	for {
		select {
		case evt, ok := <-sub:
			if !ok {
				return
			}
			if len(filter) > 0 {
				q, isQuote := evt.Data.(Quote)
				if isQuote {
					if _, want := filter[q.Symbol]; !want {
						continue
					}
				}
			}
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func allowOrigin(r *http.Request, allowed string) bool {
	if allowed == "" || allowed == "*" {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return strings.EqualFold(origin, allowed)
}
