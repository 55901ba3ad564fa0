package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/econplay/economia-platform/internal/economia-service/models"
	"github.com/econplay/economia-platform/pkg/money"
)

func TestMemoryExtratoFiltros(t *testing.T) {
	m := NewMemory(models.PoliticaPadrao())
	ctx := context.Background()

	_, err := m.GetOrCreate(ctx, "alice", "Alice")
	require.NoError(t, err)

	_, err = m.ApplyDelta(ctx, "alice", 5_000, models.CategoriaDaily, "daily")
	require.NoError(t, err)
	_, err = m.ApplyDelta(ctx, "alice", -2_000, models.CategoriaPixEnviado, "pix")
	require.NoError(t, err)
	_, err = m.ApplyDelta(ctx, "alice", -1_000, models.CategoriaPixEnviado, "pix")
	require.NoError(t, err)

	todos, err := m.Extrato(ctx, "alice", models.FiltroExtrato{})
	require.NoError(t, err)
	assert.Len(t, todos, 3)
	// mais recente primeiro
	assert.Equal(t, money.Centavos(-1_000), todos[0].Valor)

	soPix, err := m.Extrato(ctx, "alice", models.FiltroExtrato{Tipo: models.CategoriaPixEnviado})
	require.NoError(t, err)
	assert.Len(t, soPix, 2)

	limitado, err := m.Extrato(ctx, "alice", models.FiltroExtrato{Limite: 1})
	require.NoError(t, err)
	assert.Len(t, limitado, 1)

	futuro := time.Now().Add(time.Hour)
	vazio, err := m.Extrato(ctx, "alice", models.FiltroExtrato{Desde: &futuro})
	require.NoError(t, err)
	assert.Empty(t, vazio)
}

func TestMemoryAgregadoPix(t *testing.T) {
	m := NewMemory(models.PoliticaPadrao())
	ctx := context.Background()

	for _, id := range []string{"alice", "bob"} {
		_, err := m.GetOrCreate(ctx, id, id)
		require.NoError(t, err)
	}

	for _, bruto := range []money.Centavos{10_000, 20_000} {
		taxa := money.Percent(bruto, 1)
		_, err := m.TransferirPix(ctx, &models.PixTransferencia{
			RemetenteID:    "alice",
			DestinatarioID: "bob",
			ValorBruto:     bruto,
			Taxa:           taxa,
			ValorLiquido:   bruto - taxa,
		})
		require.NoError(t, err)
	}

	resumo, err := m.AgregadoPix(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, resumo.Quantidade)
	assert.Equal(t, money.Centavos(30_000), resumo.SomaBruto)
	assert.Equal(t, money.Centavos(300), resumo.SomaTaxas)
	assert.Equal(t, money.Centavos(29_700), resumo.SomaLiquido)
}

func TestMemoryHistoricoPixLimite(t *testing.T) {
	m := NewMemory(models.PoliticaPadrao())
	ctx := context.Background()

	for _, id := range []string{"alice", "bob"} {
		_, err := m.GetOrCreate(ctx, id, id)
		require.NoError(t, err)
	}
	_, err := m.ApplyDelta(ctx, "alice", 1_000_000, models.CategoriaAdmin, "ajuste")
	require.NoError(t, err)

	for i := 0; i < 15; i++ {
		_, err := m.TransferirPix(ctx, &models.PixTransferencia{
			RemetenteID:    "alice",
			DestinatarioID: "bob",
			ValorBruto:     1_000,
			Taxa:           10,
			ValorLiquido:   990,
		})
		require.NoError(t, err)
	}

	hist, err := m.HistoricoPix(ctx, "alice", 0)
	require.NoError(t, err)
	assert.Len(t, hist, 10) // default

	hist, err = m.HistoricoPix(ctx, "bob", 12)
	require.NoError(t, err)
	assert.Len(t, hist, 12)
}
