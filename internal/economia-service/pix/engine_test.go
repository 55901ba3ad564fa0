package pix

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/econplay/economia-platform/internal/economia-service/models"
	"github.com/econplay/economia-platform/internal/economia-service/repo"
	"github.com/econplay/economia-platform/pkg/money"
)

func novoEngineTeste(t *testing.T, opts ...Opcao) (*Engine, *repo.Memory) {
	t.Helper()
	store := repo.NewMemory(models.PoliticaPadrao())
	return NewEngine(store, zap.NewNop(), opts...), store
}

func criarContas(t *testing.T, store *repo.Memory, saldos map[string]money.Centavos) {
	t.Helper()
	ctx := context.Background()
	for id, saldo := range saldos {
		u, err := store.GetOrCreate(ctx, id, "user-"+id)
		require.NoError(t, err)
		if saldo != u.Saldo {
			_, err := store.ApplyDelta(ctx, id, saldo-u.Saldo, models.CategoriaAdmin, "ajuste de teste")
			require.NoError(t, err)
		}
	}
}

func requisicao(valor money.Centavos) Requisicao {
	return Requisicao{
		RemetenteID:      "alice",
		RemetenteNome:    "Alice",
		DestinatarioID:   "bob",
		DestinatarioNome: "Bob",
		Valor:            valor,
		Descricao:        "almoço",
	}
}

func TestTransferenciaCompleta(t *testing.T) {
	engine, store := novoEngineTeste(t)
	ctx := context.Background()
	criarContas(t, store, map[string]money.Centavos{"alice": 100_000, "bob": 0})

	token, preview, err := engine.Iniciar(ctx, requisicao(10_000)) // 100.00
	require.NoError(t, err)
	assert.Equal(t, money.Centavos(10_000), preview.ValorBruto)
	assert.Equal(t, money.Centavos(100), preview.Taxa)
	assert.Equal(t, money.Centavos(9_900), preview.ValorLiquido)

	// nada muda antes da confirmação
	alice, _ := store.Get(ctx, "alice")
	assert.Equal(t, money.Centavos(100_000), alice.Saldo)

	transf, err := engine.Confirmar(ctx, token, true)
	require.NoError(t, err)
	require.NotNil(t, transf)
	assert.Equal(t, models.StatusPixConcluido, transf.Status)

	alice, _ = store.Get(ctx, "alice")
	bob, _ := store.Get(ctx, "bob")
	assert.Equal(t, money.Centavos(90_000), alice.Saldo) // 1000.00 -> 900.00
	assert.Equal(t, money.Centavos(9_900), bob.Saldo)    // +99.00

	// extrato: débito autoritativo + taxa informativa do lado da Alice
	extrato, err := store.Extrato(ctx, "alice", models.FiltroExtrato{})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(extrato), 2)
	assert.Equal(t, models.CategoriaTaxaPix, extrato[0].Tipo)
	assert.True(t, extrato[0].Informativo)
	assert.Equal(t, extrato[0].SaldoAnterior, extrato[0].SaldoPosterior)
	assert.Equal(t, models.CategoriaPixEnviado, extrato[1].Tipo)
	assert.False(t, extrato[1].Informativo)
}

func TestValidacoesIniciar(t *testing.T) {
	engine, store := novoEngineTeste(t)
	ctx := context.Background()
	criarContas(t, store, map[string]money.Centavos{"alice": 100_000})

	t.Run("auto transferencia", func(t *testing.T) {
		req := requisicao(10_000)
		req.DestinatarioID = "alice"
		_, _, err := engine.Iniciar(ctx, req)
		assert.ErrorIs(t, err, ErrAutoTransferencia)
	})

	t.Run("destinatario bot", func(t *testing.T) {
		req := requisicao(10_000)
		req.DestinatarioBot = true
		_, _, err := engine.Iniciar(ctx, req)
		assert.ErrorIs(t, err, ErrDestinatarioSistema)
	})

	t.Run("abaixo do minimo", func(t *testing.T) {
		_, _, err := engine.Iniciar(ctx, requisicao(99))
		assert.ErrorIs(t, err, models.ErrInvalidAmount)
	})

	t.Run("acima do maximo", func(t *testing.T) {
		_, _, err := engine.Iniciar(ctx, requisicao(5_000_001))
		assert.ErrorIs(t, err, models.ErrInvalidAmount)
	})

	t.Run("saldo insuficiente", func(t *testing.T) {
		_, _, err := engine.Iniciar(ctx, requisicao(200_000))
		assert.ErrorIs(t, err, models.ErrInsufficientFunds)
	})

	t.Run("remetente bloqueado", func(t *testing.T) {
		require.NoError(t, store.SetBloqueado(ctx, "alice", "fraude em investigação"))
		_, _, err := engine.Iniciar(ctx, requisicao(10_000))
		assert.ErrorIs(t, err, ErrRemetenteBloqueado)
		require.NoError(t, store.ClearBloqueado(ctx, "alice"))
	})

	// nenhuma tentativa inválida tocou os saldos
	alice, _ := store.Get(ctx, "alice")
	assert.Equal(t, money.Centavos(100_000), alice.Saldo)
}

func TestRecusaEhNoOp(t *testing.T) {
	engine, store := novoEngineTeste(t)
	ctx := context.Background()
	criarContas(t, store, map[string]money.Centavos{"alice": 100_000, "bob": 0})

	token, _, err := engine.Iniciar(ctx, requisicao(10_000))
	require.NoError(t, err)

	transf, err := engine.Confirmar(ctx, token, false)
	require.NoError(t, err)
	assert.Nil(t, transf)

	alice, _ := store.Get(ctx, "alice")
	bob, _ := store.Get(ctx, "bob")
	assert.Equal(t, money.Centavos(100_000), alice.Saldo)
	assert.Equal(t, money.Centavos(0), bob.Saldo)

	extrato, _ := store.Extrato(ctx, "alice", models.FiltroExtrato{Tipo: models.CategoriaPixEnviado})
	assert.Empty(t, extrato)
}

func TestTimeoutExpiraPendencia(t *testing.T) {
	engine, store := novoEngineTeste(t, ComTimeoutConfirmacao(20*time.Millisecond))
	ctx := context.Background()
	criarContas(t, store, map[string]money.Centavos{"alice": 100_000, "bob": 0})

	token, _, err := engine.Iniciar(ctx, requisicao(10_000))
	require.NoError(t, err)

	res := engine.Aguardar(ctx, token)
	assert.Equal(t, Expirada, res)

	// confirmar depois do timeout não encontra mais a pendência
	_, err = engine.Confirmar(ctx, token, true)
	assert.ErrorIs(t, err, ErrConfirmacaoNaoEncontrada)

	alice, _ := store.Get(ctx, "alice")
	assert.Equal(t, money.Centavos(100_000), alice.Saldo)
}

func TestAguardarResolveComConfirmacao(t *testing.T) {
	engine, store := novoEngineTeste(t)
	ctx := context.Background()
	criarContas(t, store, map[string]money.Centavos{"alice": 100_000, "bob": 0})

	token, _, err := engine.Iniciar(ctx, requisicao(10_000))
	require.NoError(t, err)

	done := make(chan Resultado, 1)
	go func() { done <- engine.Aguardar(ctx, token) }()

	time.Sleep(10 * time.Millisecond)
	_, err = engine.Confirmar(ctx, token, true)
	require.NoError(t, err)

	select {
	case res := <-done:
		assert.Equal(t, Confirmada, res)
	case <-time.After(time.Second):
		t.Fatal("Aguardar não resolveu")
	}
}

func TestRevalidacaoNaConfirmacao(t *testing.T) {
	engine, store := novoEngineTeste(t)
	ctx := context.Background()
	criarContas(t, store, map[string]money.Centavos{"alice": 100_000, "bob": 0})

	token, _, err := engine.Iniciar(ctx, requisicao(10_000))
	require.NoError(t, err)

	// o saldo some durante a janela de confirmação
	_, err = store.ApplyDelta(ctx, "alice", -95_000, models.CategoriaAdmin, "drenagem")
	require.NoError(t, err)

	_, err = engine.Confirmar(ctx, token, true)
	assert.ErrorIs(t, err, models.ErrInsufficientFunds)

	bob, _ := store.Get(ctx, "bob")
	assert.Equal(t, money.Centavos(0), bob.Saldo)
}

func TestXPCreditadoAposTransferencia(t *testing.T) {
	engine, store := novoEngineTeste(t)
	ctx := context.Background()
	criarContas(t, store, map[string]money.Centavos{"alice": 100_000, "bob": 0})

	token, _, err := engine.Iniciar(ctx, requisicao(10_000))
	require.NoError(t, err)
	_, err = engine.Confirmar(ctx, token, true)
	require.NoError(t, err)

	alice, _ := store.Get(ctx, "alice")
	bob, _ := store.Get(ctx, "bob")
	assert.Equal(t, 10, alice.Experiencia)
	assert.Equal(t, 5, bob.Experiencia)
}

func TestEstatisticas(t *testing.T) {
	engine, store := novoEngineTeste(t)
	ctx := context.Background()
	criarContas(t, store, map[string]money.Centavos{"alice": 1_000_000, "bob": 0})

	for _, valor := range []money.Centavos{10_000, 20_000} {
		token, _, err := engine.Iniciar(ctx, requisicao(valor))
		require.NoError(t, err)
		_, err = engine.Confirmar(ctx, token, true)
		require.NoError(t, err)
	}

	st, err := engine.Estatisticas(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalEnviados)
	assert.Equal(t, money.Centavos(30_000), st.ValorTotalEnviado)
	assert.Equal(t, money.Centavos(300), st.TotalTaxas)
	assert.Equal(t, money.Centavos(20_000), st.MaiorEnviado)
	assert.Equal(t, money.Centavos(-30_000), st.Balanco)

	stBob, err := engine.Estatisticas(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, stBob.TotalRecebidos)
	assert.Equal(t, money.Centavos(29_700), stBob.ValorTotalRecebido)
	assert.Equal(t, money.Centavos(19_800), stBob.MaiorRecebido)
}
