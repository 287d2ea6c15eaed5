package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	ghttp "github.com/ericbmichaelis/group-taste/internal/groupbet-service/http"
	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/idgen"
	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/identity"
	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/ledger"
	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/payment"
	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/pubsub"
	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/transport"
	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/ws"
	"github.com/ericbmichaelis/group-taste/internal/shared/cache"
	"github.com/ericbmichaelis/group-taste/internal/shared/config"
	"github.com/ericbmichaelis/group-taste/internal/shared/kafka"
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

	// Redis: broadcast de atualizações de apostas para o hub WS
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka writer (tópico group_messages) para entrega externa de chat
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicGroupMessages)
	defer writer.Close()

	// Ledger em memória: relógio real e IDs aleatórios em produção
	clk := clockwork.NewRealClock()
	ledgerSvc := ledger.New(clk, idgen.NewRandom(clk.Now().UnixNano()))

	broadcaster := pubsub.NewRedisBroadcaster(rdb, cfg.RedisPubSubChannel)
	ledgerSvc.OnUpdate(broadcaster.UpdateFunc())

	pay := payment.NewClient(cfg.PayProviderURL)
	sender := transport.NewKafkaSender(writer)
	idp := identity.NewClient(cfg.SSOBaseURL)

	// Hub WS alimentado pelo canal Redis Pub/Sub
	hub := ws.NewHub(func(r *http.Request) bool { return true })
	ws.StartRedisSubscriber(context.Background(), rdb, hub)

	// HTTP público
	api := ghttp.NewServer(log, ledgerSvc, pay, sender, idp, clk)
	mux := http.NewServeMux()
	mux.Handle("/", api.Router())
	mux.HandleFunc("/ws", hub.HandleWS)

	apiSrv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	log.Info("groupbet-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
