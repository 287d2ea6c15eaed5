package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"go.uber.org/zap"

	"github.com/ericbmichaelis/group-taste/internal/shared/config"
	"github.com/ericbmichaelis/group-taste/internal/shared/logger"
)

func rp(to string) *httputil.ReverseProxy {
	u, _ := url.Parse(to)
	return httputil.NewSingleHostReverseProxy(u)
}

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// targets
	marketURL := os.Getenv("MARKET_URL")
	if marketURL == "" {
		marketURL = "http://localhost:8080"
	}
	betURL := os.Getenv("GROUPBET_URL")
	if betURL == "" {
		betURL = "http://localhost:8083"
	}
	market := rp(marketURL)
	bet := rp(betURL)

	mux := http.NewServeMux()

	// mercados (ex.: /api/markets/* -> market-service)
	mux.Handle("/api/markets/", http.StripPrefix("/api/markets", market))

	// apostas (ex.: /api/bets/* -> groupbet-service)
	mux.Handle("/api/bets/", http.StripPrefix("/api/bets", bet))

	addr := ":" + cfg.HTTPPort
	log.Info("api-gateway listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, withCORS(mux)); err != nil && err != http.ErrServerClosed {
		log.Fatal("gateway failed", zap.Error(err))
	}
}

// withCORS espelha o proxy CORS que a UI usa em dev
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
