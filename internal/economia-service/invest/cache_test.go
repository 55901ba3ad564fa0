package invest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/econplay/economia-platform/internal/economia-service/models"
	"github.com/econplay/economia-platform/pkg/money"
)

// redisFalso guarda chave/valor em memória e registra TTLs e deleções.
// fora=true simula o Redis indisponível.
type redisFalso struct {
	dados map[string]string
	ttls  map[string]time.Duration
	fora  bool
	dels  int
}

func novoRedisFalso() *redisFalso {
	return &redisFalso{dados: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (r *redisFalso) Get(ctx context.Context, key string) *redis.StringCmd {
	if r.fora {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := r.dados[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (r *redisFalso) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if r.fora {
		return redis.NewStatusResult("", errors.New("connection refused"))
	}
	r.dados[key] = string(value.([]byte))
	r.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (r *redisFalso) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(r.dados, k)
		delete(r.ttls, k)
	}
	r.dels += len(keys)
	return redis.NewIntResult(int64(len(keys)), nil)
}

// expirar descarta a chave como o Redis faria ao fim do TTL.
func (r *redisFalso) expirar(key string) {
	delete(r.dados, key)
	delete(r.ttls, key)
}

func novoCacheTeste(precos map[string]money.Centavos) (*CacheOracle, *oracleFixo, *redisFalso) {
	fonte := &oracleFixo{precos: precos}
	rdb := novoRedisFalso()
	cache := &CacheOracle{fonte: fonte, rdb: rdb, ttl: 5 * time.Minute, logger: zap.NewNop()}
	return cache, fonte, rdb
}

func TestCacheHitNaoConsultaFonte(t *testing.T) {
	cache, fonte, rdb := novoCacheTeste(map[string]money.Centavos{"PETR4": 2_500})
	ctx := context.Background()

	cot, err := cache.Cotacao(ctx, "PETR4")
	require.NoError(t, err)
	assert.Equal(t, money.Centavos(2_500), cot.Preco)
	assert.Equal(t, 1, fonte.consultas)
	assert.Equal(t, 5*time.Minute, rdb.ttls[chaveCotacao("PETR4")])

	// segunda consulta dentro do TTL sai do cache
	cot, err = cache.Cotacao(ctx, "PETR4")
	require.NoError(t, err)
	assert.Equal(t, money.Centavos(2_500), cot.Preco)
	assert.Equal(t, 1, fonte.consultas)
}

func TestCacheExpiradoVoltaNaFonte(t *testing.T) {
	cache, fonte, rdb := novoCacheTeste(map[string]money.Centavos{"PETR4": 2_500})
	ctx := context.Background()

	_, err := cache.Cotacao(ctx, "PETR4")
	require.NoError(t, err)
	require.Equal(t, 1, fonte.consultas)

	// preço muda na fonte; com a entrada vencida a próxima consulta refaz
	fonte.precos["PETR4"] = 3_000
	rdb.expirar(chaveCotacao("PETR4"))

	cot, err := cache.Cotacao(ctx, "PETR4")
	require.NoError(t, err)
	assert.Equal(t, money.Centavos(3_000), cot.Preco)
	assert.Equal(t, 2, fonte.consultas)
	// recacheado com o preço novo
	assert.Contains(t, rdb.dados, chaveCotacao("PETR4"))
}

func TestCacheCorrompidoDescartaEBusca(t *testing.T) {
	cache, fonte, rdb := novoCacheTeste(map[string]money.Centavos{"PETR4": 2_500})
	ctx := context.Background()

	chave := chaveCotacao("PETR4")
	rdb.dados[chave] = "{nao é json"

	cot, err := cache.Cotacao(ctx, "PETR4")
	require.NoError(t, err)
	assert.Equal(t, money.Centavos(2_500), cot.Preco)
	assert.Equal(t, 1, fonte.consultas)
	assert.Equal(t, 1, rdb.dels)

	// a entrada ruim foi substituída pela cotação fresca
	cot, err = cache.Cotacao(ctx, "PETR4")
	require.NoError(t, err)
	assert.Equal(t, 1, fonte.consultas)
	assert.Equal(t, money.Centavos(2_500), cot.Preco)
}

func TestRedisForaDegradaParaFonte(t *testing.T) {
	cache, fonte, rdb := novoCacheTeste(map[string]money.Centavos{"PETR4": 2_500})
	rdb.fora = true
	ctx := context.Background()

	cot, err := cache.Cotacao(ctx, "PETR4")
	require.NoError(t, err)
	assert.Equal(t, money.Centavos(2_500), cot.Preco)
	assert.Equal(t, 1, fonte.consultas)

	// sem cache utilizável, toda consulta vai à fonte
	_, err = cache.Cotacao(ctx, "PETR4")
	require.NoError(t, err)
	assert.Equal(t, 2, fonte.consultas)
}

func TestCacheMissComFonteIndisponivel(t *testing.T) {
	cache, _, _ := novoCacheTeste(map[string]money.Centavos{})

	_, err := cache.Cotacao(context.Background(), "XXXX")
	assert.ErrorIs(t, err, models.ErrQuoteUnavailable)
}

func TestChaveCotacaoNormaliza(t *testing.T) {
	assert.Equal(t, "cotacao:PETR4", chaveCotacao(" petr4 "))
}
