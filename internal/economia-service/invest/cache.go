package invest

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/econplay/economia-platform/internal/economia-service/models"
)

// cacheCmds é o subconjunto de comandos Redis que o cache usa.
// *redis.Client satisfaz.
type cacheCmds interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CacheOracle decora um Oracle com cache em Redis. Cotações ficam válidas
// pelo TTL configurado; depois disso a consulta vai de novo à fonte.
// Falha de Redis degrada para consulta direta, nunca para erro.
type CacheOracle struct {
	fonte  Oracle
	rdb    cacheCmds
	ttl    time.Duration
	logger *zap.Logger
}

func NewCacheOracle(fonte Oracle, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CacheOracle {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CacheOracle{fonte: fonte, rdb: rdb, ttl: ttl, logger: logger}
}

func chaveCotacao(ticker string) string {
	return "cotacao:" + strings.ToUpper(strings.TrimSpace(ticker))
}

func (c *CacheOracle) Cotacao(ctx context.Context, ticker string) (*models.Cotacao, error) {
	chave := chaveCotacao(ticker)

	if bruto, err := c.rdb.Get(ctx, chave).Bytes(); err == nil {
		var cot models.Cotacao
		if err := json.Unmarshal(bruto, &cot); err == nil {
			return &cot, nil
		}
		// Entrada corrompida: descarta e busca na fonte.
		c.rdb.Del(ctx, chave)
	} else if err != redis.Nil {
		c.logger.Warn("cache de cotações indisponível", zap.Error(err))
	}

	cot, err := c.fonte.Cotacao(ctx, ticker)
	if err != nil {
		return nil, err
	}

	if bruto, err := json.Marshal(cot); err == nil {
		if err := c.rdb.Set(ctx, chave, bruto, c.ttl).Err(); err != nil {
			c.logger.Warn("falha ao gravar cotação no cache", zap.Error(err))
		}
	}
	return cot, nil
}
