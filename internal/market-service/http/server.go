package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ericbmichaelis/group-taste/internal/market-service/cache"
	"github.com/ericbmichaelis/group-taste/internal/market-service/dto"
	"github.com/ericbmichaelis/group-taste/internal/market-service/kalshi"
)

var marketFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "market_feed_fetches_total",
	Help: "Consultas ao feed de mercados por origem",
}, []string{"source"}) // cache | upstream | error

func init() {
	prometheus.MustRegister(marketFetches)
}

// API expõe o feed de mercados, preferencialmente do cache
type API struct {
	Log    *zap.Logger
	Kalshi *kalshi.Client
	Cache  *cache.Cache
	TTL    time.Duration
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/markets", a.listMarkets) // Top mercados por volume 24h
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// listMarkets devolve o feed filtrado, usando cache com TTL curto
func (a *API) listMarkets(w http.ResponseWriter, r *http.Request) {
	var fromCache []dto.Market
	if ok, _ := a.Cache.GetFeed(r.Context(), &fromCache); ok {
		marketFetches.WithLabelValues("cache").Inc()
		writeJSON(w, http.StatusOK, fromCache)
		return
	}

	markets, err := a.Kalshi.Markets(r.Context())
	if err != nil {
		marketFetches.WithLabelValues("error").Inc()
		a.Log.Warn("kalshi fetch failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "market data unavailable"})
		return
	}

	marketFetches.WithLabelValues("upstream").Inc()
	_ = a.Cache.SetFeed(r.Context(), markets, a.TTL) // salva no cache
	writeJSON(w, http.StatusOK, markets)
}
