package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ericbmichaelis/group-taste/internal/shared/config"
	"github.com/ericbmichaelis/group-taste/internal/shared/kafka"
	"github.com/ericbmichaelis/group-taste/internal/shared/logger"
	"github.com/ericbmichaelis/group-taste/internal/shared/metrics"
	ev "github.com/ericbmichaelis/group-taste/pkg/contracts/events"
)

var deliveries = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "message_delivery_total",
	Help: "Entregas de mensagens de grupo por resultado",
}, []string{"result"}) // delivered | mock | dlq

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(deliveries)

	// Kafka consumer: consome group_messages para entrega externa
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicGroupMessages, "message-delivery")
	defer reader.Close()

	var dlqWriter *kafkago.Writer
	if cfg.TopicGroupMessagesDLQ != "" {
		dlqWriter = kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicGroupMessagesDLQ)
		defer dlqWriter.Close()
	}

	metrics.StartMetricsServer(cfg.MetricsPort, nil)

	if cfg.BridgeURL == "" {
		// sem bridge configurado a entrega roda em modo mock, só loga;
		// o chat in-app não depende disso de qualquer forma
		log.Warn("MESSAGING_BRIDGE_URL empty, running in mock mode")
	}
	log.Info("message-delivery-worker started", zap.String("consume", cfg.TopicGroupMessages))

	ctx := context.Background()

	// Loop principal: consome eventos do Kafka e tenta a entrega externa
	for {
		_, value, err := kafka.ReadNext(ctx, reader)
		if err != nil {
			log.Warn("kafka read", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		var msg ev.GroupMessage
		if jerr := json.Unmarshal(value, &msg); jerr != nil {
			log.Error("unmarshal group_message", zap.Error(jerr))
			continue
		}

		if err := deliverOne(ctx, log, cfg, dlqWriter, &msg); err != nil {
			log.Error("deliver message", zap.String("groupId", msg.GroupID), zap.Error(err))
			time.Sleep(500 * time.Millisecond)
		}
	}
}

// deliverOne entrega uma mensagem ao bridge externo com retry simples;
// esgotados os retries, a mensagem vai para a DLQ. Nada aqui toca o
// ledger: o log in-app já foi gravado pelo groupbet-service.
func deliverOne(ctx context.Context, log *zap.Logger, cfg config.Config, dlqWriter *kafkago.Writer, msg *ev.GroupMessage) error {
	if cfg.BridgeURL == "" {
		deliveries.WithLabelValues("mock").Inc()
		log.Info("mock delivery", zap.String("groupId", msg.GroupID), zap.String("sender", msg.Sender))
		return nil
	}

	err := postToBridge(ctx, cfg.BridgeURL, msg)
	if err != nil {
		const retries = 3
		for i := 0; i < retries; i++ {
			time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
			if err = postToBridge(ctx, cfg.BridgeURL, msg); err == nil {
				break
			}
		}
		if err != nil {
			if dlqWriter != nil {
				b, _ := json.Marshal(msg)
				_ = kafka.WriteJSON(ctx, dlqWriter, msg.GroupID, b)
			}
			deliveries.WithLabelValues("dlq").Inc()
			return err
		}
	}

	deliveries.WithLabelValues("delivered").Inc()
	return nil
}

// postToBridge envia o payload para o grupo no provedor de mensageria
func postToBridge(ctx context.Context, base string, msg *ev.GroupMessage) error {
	body, _ := json.Marshal(msg)
	url := fmt.Sprintf("%s/groups/%s/messages", base, msg.GroupID)

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return errors.New("bridge http " + resp.Status)
	}
	return nil
}
