package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/econplay/economia-platform/internal/economia-service/fraud"
	"github.com/econplay/economia-platform/internal/economia-service/models"
	"github.com/econplay/economia-platform/internal/economia-service/repo"
	"github.com/econplay/economia-platform/internal/shared/cache"
	"github.com/econplay/economia-platform/internal/shared/config"
	"github.com/econplay/economia-platform/internal/shared/db"
	sharedkafka "github.com/econplay/economia-platform/internal/shared/kafka"
	"github.com/econplay/economia-platform/internal/shared/logger"
	"github.com/econplay/economia-platform/internal/shared/metrics"
	"github.com/econplay/economia-platform/pkg/contracts/events"
	"github.com/econplay/economia-platform/pkg/money"
)

var (
	eventosConsumidos = promauto.NewCounter(prometheus.CounterOpts{
		Name: "audit_eventos_consumidos_total",
		Help: "Eventos pix_completed consumidos.",
	})
	alertasEmitidos = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audit_alertas_emitidos_total",
		Help: "Alertas antifraude emitidos, por tipo.",
	}, []string{"tipo"})
	errosProcessamento = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audit_erros_total",
		Help: "Erros do worker, por fase.",
	}, []string{"fase"})
)

// janela e cadência da análise periódica
const (
	janelaAnalise    = 24 * time.Hour
	intervaloAnalise = 1 * time.Hour
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	reader := sharedkafka.NewReader(cfg.KafkaBrokers, cfg.TopicPixCompleted, "audit-worker")
	defer reader.Close()

	dlqWriter := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicPixCompletedDLQ)
	defer dlqWriter.Close()

	store := repo.NewPostgres(pg, models.PoliticaPadrao())
	analyzer := fraud.NewAnalyzer(store,
		money.Centavos(cfg.FraudeLimiteValorCents), cfg.FraudeLimiteQuantidade, log)

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})

	ctx := context.Background()

	// Análise periódica da janela completa, além do flag por evento.
	go analisePeriodica(ctx, log, analyzer, redisClient, cfg.RedisCanalAlertasFraude)

	log.Info("audit-worker started",
		zap.String("consume", cfg.TopicPixCompleted),
		zap.String("dlq", cfg.TopicPixCompletedDLQ),
	)

	for {
		_, value, err := sharedkafka.ReadNext(ctx, reader)
		if err != nil {
			errosProcessamento.WithLabelValues("consumo").Inc()
			log.Warn("kafka read", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		eventosConsumidos.Inc()

		var ev events.PixCompleted
		if jerr := json.Unmarshal(value, &ev); jerr != nil {
			errosProcessamento.WithLabelValues("unmarshal").Inc()
			log.Error("unmarshal pix_completed", zap.Error(jerr))
			if derr := sharedkafka.WriteJSON(ctx, dlqWriter, "invalid", value); derr != nil {
				log.Error("dlq write", zap.Error(derr))
			}
			continue
		}

		if analyzer.AltoValorUnitario(money.Centavos(ev.ValorBrutoCents)) {
			alertasEmitidos.WithLabelValues("alto_valor").Inc()
			log.Warn("pix de alto valor detectado",
				zap.String("pix_id", ev.PixID),
				zap.String("remetente_id", ev.RemetenteID),
				zap.Int64("valor_bruto_cents", ev.ValorBrutoCents),
			)
			publicarAlerta(ctx, log, redisClient, cfg.RedisCanalAlertasFraude, map[string]any{
				"tipo":              "alto_valor",
				"pix_id":            ev.PixID,
				"remetente_id":      ev.RemetenteID,
				"destinatario_id":   ev.DestinatarioID,
				"valor_bruto_cents": ev.ValorBrutoCents,
				"ts":                time.Now(),
			})
		}
	}
}

func analisePeriodica(ctx context.Context, log *zap.Logger, analyzer *fraud.Analyzer, rdb *redis.Client, canal string) {
	ticker := time.NewTicker(intervaloAnalise)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		rel, err := analyzer.Analisar(ctx, janelaAnalise)
		if err != nil {
			errosProcessamento.WithLabelValues("analise").Inc()
			log.Error("análise periódica", zap.Error(err))
			continue
		}
		if !rel.Suspeito() {
			continue
		}

		for _, f := range rel.RemetentesFrequentes {
			alertasEmitidos.WithLabelValues("alta_frequencia").Inc()
			publicarAlerta(ctx, log, rdb, canal, map[string]any{
				"tipo":              "alta_frequencia",
				"remetente_id":      f.UserID,
				"quantidade":        f.Quantidade,
				"valor_total_cents": int64(f.ValorTotal),
				"ts":                rel.GeradoEm,
			})
		}
	}
}

func publicarAlerta(ctx context.Context, log *zap.Logger, rdb *redis.Client, canal string, alerta map[string]any) {
	b, err := json.Marshal(alerta)
	if err != nil {
		return
	}
	if err := rdb.Publish(ctx, canal, b).Err(); err != nil {
		errosProcessamento.WithLabelValues("alerta").Inc()
		log.Warn("falha ao publicar alerta", zap.Error(err))
	}
}
