package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/econplay/economia-platform/internal/economia-service/account"
	"github.com/econplay/economia-platform/internal/economia-service/aposta"
	"github.com/econplay/economia-platform/internal/economia-service/casino"
	"github.com/econplay/economia-platform/internal/economia-service/fraud"
	"github.com/econplay/economia-platform/internal/economia-service/httpapi"
	"github.com/econplay/economia-platform/internal/economia-service/invest"
	"github.com/econplay/economia-platform/internal/economia-service/models"
	"github.com/econplay/economia-platform/internal/economia-service/notify"
	"github.com/econplay/economia-platform/internal/economia-service/pix"
	"github.com/econplay/economia-platform/internal/economia-service/producer"
	"github.com/econplay/economia-platform/internal/economia-service/repo"
	"github.com/econplay/economia-platform/internal/economia-service/sorteio"
	"github.com/econplay/economia-platform/internal/economia-service/ws"
	"github.com/econplay/economia-platform/internal/shared/cache"
	"github.com/econplay/economia-platform/internal/shared/config"
	"github.com/econplay/economia-platform/internal/shared/db"
	sharedkafka "github.com/econplay/economia-platform/internal/shared/kafka"
	"github.com/econplay/economia-platform/internal/shared/logger"
	"github.com/econplay/economia-platform/internal/shared/metrics"
	"github.com/econplay/economia-platform/pkg/money"
)

var (
	eventosPublicados = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "economia_eventos_publicados_total",
		Help: "Eventos de domínio publicados no Kafka, por tópico.",
	}, []string{"topic"})
	eventosComErro = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "economia_eventos_erro_total",
		Help: "Falhas ao publicar eventos no Kafka, por tópico.",
	}, []string{"topic"})
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage: Postgres em produção; memória para desenvolvimento local e demos.
	var store repo.Store
	switch cfg.StorageDriver {
	case "memoria":
		store = repo.NewMemory(models.PoliticaPadrao())
		log.Info("storage em memória selecionado")
	default:
		pg, err := db.ConnectPostgres(cfg.PostgresDSN)
		if err != nil {
			log.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()
		store = repo.NewPostgres(pg, models.PoliticaPadrao())
		log.Info("postgres connected")
	}

	redisClient, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("redis connected")

	pixWriter := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicPixCompleted)
	defer pixWriter.Close()
	apostaWriter := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicApostaResolvida)
	defer apostaWriter.Close()

	publ := producer.New(pixWriter, apostaWriter)
	publ.OnPublished = func(topic string) { eventosPublicados.WithLabelValues(topic).Inc() }
	publ.OnError = func(topic string) { eventosComErro.WithLabelValues(topic).Inc() }

	notifier := notify.NewRedisNotifier(redisClient, cfg.RedisCanalNotificacoes, log)

	rng := sorteio.Nova()
	contas := account.NewService(store, rng, log)
	pixEngine := pix.NewEngine(store, log,
		pix.ComPublicador(publ),
		pix.ComNotificador(notifier),
	)
	casinoEngine := casino.NewEngine(store, rng, log)
	apostasEngine := aposta.NewEngine(store, log, publ)

	oracle := invest.NewCacheOracle(
		invest.NewBrapiClient(cfg.BrapiBaseURL, cfg.BrapiToken),
		redisClient, cfg.QuoteTTL, log,
	)
	investEngine := invest.NewEngine(store, oracle, log)

	fraudeAnalyzer := fraud.NewAnalyzer(store,
		money.Centavos(cfg.FraudeLimiteValorCents), cfg.FraudeLimiteQuantidade, log)

	hub := ws.NewHub(func(r *http.Request) bool { return true })
	ws.StartRedisSubscriber(ctx, redisClient, cfg.RedisCanalNotificacoes, hub, log)

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := store.Ping(ctx); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})

	api := httpapi.NewServer(log, contas, pixEngine, casinoEngine, apostasEngine, investEngine, fraudeAnalyzer, hub)
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}

	log.Info("economia-service listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
