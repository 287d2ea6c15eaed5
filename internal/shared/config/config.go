package config

import (
	"os"
	"strconv"
	"strings"

	ctopics "github.com/ericbmichaelis/group-taste/pkg/contracts/topics"
)

// Config centraliza variáveis de ambiente e parâmetros de execução dos serviços
// Inclui conexões, tópicos, canais, URLs e portas
type Config struct {
	Env         string // "local", "dev", "prod"
	ServiceName string // ex: "groupbet-service", "market-service", ...

	RedisAddr    string
	KafkaBrokers string // "a:9092,b:9092"

	// Tópicos/canais
	TopicGroupMessages    string
	TopicGroupMessagesDLQ string
	RedisPubSubChannel    string

	// Colaboradores externos
	KalshiBaseURL  string
	SSOBaseURL     string
	PayProviderURL string
	BridgeURL      string // entrega externa de chat; vazio = modo mock (log-only)

	// Feed de mercados
	MarketCategories []string
	MarketCacheTTLs  int // segundos

	// Portas do serviço atual
	HTTPPort    string // Porta pública (ex.: API REST)
	MetricsPort string // Porta exclusiva para /metrics e /healthz
}

// Load carrega variáveis de ambiente e define defaults para cada serviço
// Resolve portas e tópicos conforme o SERVICE_NAME
func Load() Config {
	svc := getEnv("SERVICE_NAME", "")
	env := getEnv("ENV", "local")

	cfg := Config{
		Env:         env,
		ServiceName: svc,

		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),

		TopicGroupMessages:    getEnv("KAFKA_TOPIC_GROUP_MESSAGES", ctopics.GroupMessages),
		TopicGroupMessagesDLQ: getEnv("KAFKA_TOPIC_GROUP_MESSAGES_DLQ", ctopics.GroupMessagesDLQ),

		RedisPubSubChannel: getEnv("REDIS_PUBSUB_CHANNEL", "bet_updates_broadcast"),

		KalshiBaseURL:  getEnv("KALSHI_BASE_URL", "https://api.elections.kalshi.com"),
		SSOBaseURL:     getEnv("SSO_BASE_URL", "https://sso.alien-api.com"),
		PayProviderURL: getEnv("PAY_PROVIDER_URL", "http://localhost:8081"),
		BridgeURL:      getEnv("MESSAGING_BRIDGE_URL", ""),

		MarketCategories: splitCSV(getEnv("MARKET_CATEGORIES", "Entertainment,Social")),
		MarketCacheTTLs:  getEnvInt("MARKET_CACHE_TTL_SECONDS", 30),
	}

	// Define portas padrão para cada serviço
	switch svc {
	case "groupbet-service":
		cfg.HTTPPort = getEnv("HTTP_PORT_GROUPBET", "8083")
		cfg.MetricsPort = getEnv("METRICS_PORT_GROUPBET", "9099")
	case "market-service":
		cfg.HTTPPort = getEnv("HTTP_PORT_MARKET", "8080")
		cfg.MetricsPort = getEnv("METRICS_PORT_MARKET", "9095")
	case "pay-simulator":
		cfg.HTTPPort = getEnv("HTTP_PORT_PAY", "8081")
		cfg.MetricsPort = getEnv("METRICS_PORT_PAY", "9094")
	case "message-delivery-worker":
		cfg.HTTPPort = getEnv("HTTP_PORT_DELIVERY", "") // worker não expõe HTTP público
		cfg.MetricsPort = getEnv("METRICS_PORT_DELIVERY", "9097")
	case "api-gateway":
		cfg.HTTPPort = getEnv("HTTP_PORT_GATEWAY", "8088")
		cfg.MetricsPort = getEnv("METRICS_PORT_GATEWAY", "9093")
	default:
		cfg.HTTPPort = getEnv("HTTP_PORT", "8080")
		cfg.MetricsPort = getEnv("METRICS_PORT", "9095")
	}

	return cfg
}

// getEnv retorna o valor da variável de ambiente ou o default
func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
