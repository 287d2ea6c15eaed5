package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	mcache "github.com/ericbmichaelis/group-taste/internal/market-service/cache"
	mhttp "github.com/ericbmichaelis/group-taste/internal/market-service/http"
	"github.com/ericbmichaelis/group-taste/internal/market-service/kalshi"
	"github.com/ericbmichaelis/group-taste/internal/shared/cache"
	"github.com/ericbmichaelis/group-taste/internal/shared/config"
	"github.com/ericbmichaelis/group-taste/internal/shared/logger"
	"github.com/ericbmichaelis/group-taste/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	api := &mhttp.API{
		Log:    log,
		Kalshi: kalshi.New(cfg.KalshiBaseURL, cfg.MarketCategories),
		Cache:  mcache.New(rdb),
		TTL:    time.Duration(cfg.MarketCacheTTLs) * time.Second,
	}

	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	log.Info("market-service listening",
		zap.String("addr", apiSrv.Addr),
		zap.Strings("categories", cfg.MarketCategories),
	)
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
