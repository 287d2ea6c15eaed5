package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/payment"
	"github.com/ericbmichaelis/group-taste/internal/shared/config"
	"github.com/ericbmichaelis/group-taste/internal/shared/logger"
	"github.com/ericbmichaelis/group-taste/internal/shared/metrics"
)

// Métricas Prometheus para monitoramento das confirmações simuladas
var paymentsByStatus = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "pay_simulator_outcomes_total",
	Help: "Desfechos de pagamento simulados",
}, []string{"status"})

type server struct {
	log *zap.Logger
	rnd *rand.Rand
}

// payHandler simula o bridge de pagamento: sempre devolve um desfecho
// terminal. 80% paid, 10% cancelled, 10% failed.
func (s *server) payHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var req payment.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.AmountCents <= 0 || req.BetID == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if _, ok := payment.TokenByID(req.Token); req.Token != "" && !ok {
		http.Error(w, "unknown token", http.StatusBadRequest)
		return
	}

	out := payment.Outcome{Status: payment.StatusPaid, TxHash: "SIM-" + safePrefix(req.Invoice, 16)}
	switch n := s.rnd.Intn(100); {
	case n >= 90:
		out = payment.Outcome{Status: payment.StatusFailed, ErrorCode: "insufficient_funds"}
	case n >= 80:
		out = payment.Outcome{Status: payment.StatusCancelled}
	}
	paymentsByStatus.WithLabelValues(string(out.Status)).Inc()
	s.log.Info("payment simulated",
		zap.String("betId", req.BetID),
		zap.Int64("amount_cents", req.AmountCents),
		zap.String("status", string(out.Status)),
	)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// evita panic em invoices curtos
func safePrefix(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(paymentsByStatus)

	s := &server{log: log, rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}

	mux := http.NewServeMux()
	mux.HandleFunc("/pay", s.payHandler)

	metrics.StartMetricsServer(cfg.MetricsPort, nil)

	addr := fmt.Sprintf(":%s", cfg.HTTPPort)
	log.Info("pay-simulator running", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal("public server error", zap.Error(err))
	}
}
