package casino

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/econplay/economia-platform/internal/economia-service/models"
	"github.com/econplay/economia-platform/internal/economia-service/repo"
	"github.com/econplay/economia-platform/pkg/money"
)

// sorteioFixo devolve os valores na ordem programada.
type sorteioFixo struct {
	vals []int
	i    int
}

func (s *sorteioFixo) Intn(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func novoEngineTeste(t *testing.T, vals ...int) (*Engine, *repo.Memory) {
	t.Helper()
	store := repo.NewMemory(models.PoliticaPadrao())
	return NewEngine(store, &sorteioFixo{vals: vals}, zap.NewNop()), store
}

func contaComSaldo(t *testing.T, store *repo.Memory, userID string, saldo money.Centavos) {
	t.Helper()
	ctx := context.Background()
	u, err := store.GetOrCreate(ctx, userID, userID)
	require.NoError(t, err)
	if saldo != u.Saldo {
		_, err = store.ApplyDelta(ctx, userID, saldo-u.Saldo, models.CategoriaAdmin, "ajuste de teste")
		require.NoError(t, err)
	}
}

func TestCoinFlipVitoriaComImposto(t *testing.T) {
	// aposta 2000.00, vitória: bruto 4000.00, imposto 400.00, líquido +1600.00
	engine, store := novoEngineTeste(t, 0) // 0 = cara
	ctx := context.Background()
	contaComSaldo(t, store, "alice", 500_000)

	res, err := engine.Play(ctx, "alice", "alice", JogoCoinFlip, 200_000, Params{Lado: "cara"})
	require.NoError(t, err)
	assert.True(t, res.Vitoria)
	assert.Equal(t, money.Centavos(400_000), res.GanhoBruto)
	assert.Equal(t, money.Centavos(40_000), res.Imposto)
	assert.Equal(t, money.Centavos(160_000), res.GanhoLiquido)
	assert.Equal(t, money.Centavos(660_000), res.NovoSaldo)

	extrato, err := store.Extrato(ctx, "alice", models.FiltroExtrato{})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(extrato), 2)
	assert.Equal(t, models.CategoriaImposto, extrato[0].Tipo)
	assert.True(t, extrato[0].Informativo)
	assert.Equal(t, models.CategoriaApostaGanha, extrato[1].Tipo)
	assert.Equal(t, money.Centavos(160_000), extrato[1].Valor)
}

func TestCoinFlipVitoriaSemImposto(t *testing.T) {
	// bruto 200.00 não passa do limite de 1000.00
	engine, store := novoEngineTeste(t, 1) // 1 = coroa
	ctx := context.Background()
	contaComSaldo(t, store, "alice", 50_000)

	res, err := engine.Play(ctx, "alice", "alice", JogoCoinFlip, 10_000, Params{Lado: "coroa"})
	require.NoError(t, err)
	assert.True(t, res.Vitoria)
	assert.Equal(t, money.Centavos(0), res.Imposto)
	assert.Equal(t, money.Centavos(10_000), res.GanhoLiquido)
}

func TestCoinFlipDerrota(t *testing.T) {
	engine, store := novoEngineTeste(t, 1)
	ctx := context.Background()
	contaComSaldo(t, store, "alice", 50_000)

	res, err := engine.Play(ctx, "alice", "alice", JogoCoinFlip, 10_000, Params{Lado: "cara"})
	require.NoError(t, err)
	assert.False(t, res.Vitoria)
	assert.Equal(t, money.Centavos(-10_000), res.GanhoLiquido)
	assert.Equal(t, money.Centavos(40_000), res.NovoSaldo)

	extrato, _ := store.Extrato(ctx, "alice", models.FiltroExtrato{})
	require.NotEmpty(t, extrato)
	assert.Equal(t, models.CategoriaApostaPerdida, extrato[0].Tipo)
}

func TestRoletaAcerto(t *testing.T) {
	// aposta 100.00 no 7: bruto 3600.00, imposto 360.00, líquido +3140.00
	engine, store := novoEngineTeste(t, 7)
	ctx := context.Background()
	contaComSaldo(t, store, "alice", 50_000)

	res, err := engine.Play(ctx, "alice", "alice", JogoRoleta, 10_000, Params{Numero: 7})
	require.NoError(t, err)
	assert.True(t, res.Vitoria)
	assert.Equal(t, money.Centavos(360_000), res.GanhoBruto)
	assert.Equal(t, money.Centavos(36_000), res.Imposto)
	assert.Equal(t, money.Centavos(314_000), res.GanhoLiquido)
	assert.Equal(t, "7", res.Detalhe)
}

func TestRoletaErro(t *testing.T) {
	engine, store := novoEngineTeste(t, 12)
	ctx := context.Background()
	contaComSaldo(t, store, "alice", 50_000)

	res, err := engine.Play(ctx, "alice", "alice", JogoRoleta, 10_000, Params{Numero: 7})
	require.NoError(t, err)
	assert.False(t, res.Vitoria)
	assert.Equal(t, money.Centavos(-10_000), res.GanhoLiquido)
}

func TestSlots(t *testing.T) {
	casos := []struct {
		nome       string
		rolos      []int // índices em simbolosSlots
		mult       money.Centavos
		vitoria    bool
	}{
		{"tres iguais", []int{0, 0, 0}, 5, true},
		{"tres diamantes", []int{4, 4, 4}, 10, true},
		{"dois adjacentes inicio", []int{1, 1, 2}, 2, true},
		{"dois adjacentes fim", []int{2, 1, 1}, 2, true},
		{"nada", []int{0, 1, 2}, 0, false},
		{"pontas iguais nao pagam", []int{3, 1, 3}, 0, false},
	}

	for _, tc := range casos {
		t.Run(tc.nome, func(t *testing.T) {
			engine, store := novoEngineTeste(t, tc.rolos...)
			ctx := context.Background()
			contaComSaldo(t, store, "alice", 100_000)

			res, err := engine.Play(ctx, "alice", "alice", JogoSlots, 1_000, Params{})
			require.NoError(t, err)
			assert.Equal(t, tc.vitoria, res.Vitoria)
			if tc.vitoria {
				assert.Equal(t, 1_000*tc.mult, res.GanhoBruto)
			} else {
				assert.Equal(t, money.Centavos(-1_000), res.GanhoLiquido)
			}
			assert.Len(t, res.Simbolos, 3)
		})
	}
}

func TestValidacoes(t *testing.T) {
	engine, store := novoEngineTeste(t, 0)
	ctx := context.Background()
	contaComSaldo(t, store, "alice", 10_000)

	_, err := engine.Play(ctx, "alice", "alice", JogoCoinFlip, 0, Params{Lado: "cara"})
	assert.ErrorIs(t, err, models.ErrInvalidAmount)

	_, err = engine.Play(ctx, "alice", "alice", JogoCoinFlip, 20_000, Params{Lado: "cara"})
	assert.ErrorIs(t, err, models.ErrInsufficientFunds)

	_, err = engine.Play(ctx, "alice", "alice", JogoCoinFlip, 1_000, Params{Lado: "norte"})
	assert.ErrorIs(t, err, ErrLadoInvalido)

	_, err = engine.Play(ctx, "alice", "alice", JogoRoleta, 1_000, Params{Numero: 40})
	assert.ErrorIs(t, err, ErrNumeroInvalido)

	_, err = engine.Play(ctx, "alice", "alice", "poker", 1_000, Params{})
	assert.ErrorIs(t, err, ErrJogoDesconhecido)

	// saldo intacto após tentativas inválidas
	u, _ := store.Get(ctx, "alice")
	assert.Equal(t, money.Centavos(10_000), u.Saldo)
}
