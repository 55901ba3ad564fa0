package repo

import (
	"context"
	"time"

	"github.com/econplay/economia-platform/internal/economia-service/models"
	"github.com/econplay/economia-platform/pkg/money"
)

// Store é o contrato de persistência da economia. Duas implementações:
// Postgres (produção) e Memory (testes e STORAGE_DRIVER=memoria).
type Store interface {
	Ping(ctx context.Context) error

	// Contas e ledger
	GetOrCreate(ctx context.Context, userID, username string) (*models.Usuario, error)
	Get(ctx context.Context, userID string) (*models.Usuario, error)
	ApplyDelta(ctx context.Context, userID string, delta money.Centavos, tipo models.Categoria, descricao string) (*models.Usuario, error)
	RegistrarInformativa(ctx context.Context, userID string, delta money.Centavos, tipo models.Categoria, descricao string) error
	AddExperiencia(ctx context.Context, userID string, xp int) error
	SetDaily(ctx context.Context, userID string, resgatadoEm time.Time, streak int) error
	SetBloqueado(ctx context.Context, userID, motivo string) error
	ClearBloqueado(ctx context.Context, userID string) error
	TopRicos(ctx context.Context, limite int) ([]*models.Usuario, error)
	Extrato(ctx context.Context, userID string, filtro models.FiltroExtrato) ([]*models.Transacao, error)

	// PIX
	TransferirPix(ctx context.Context, pix *models.PixTransferencia) (*models.PixTransferencia, error)
	HistoricoPix(ctx context.Context, userID string, limite int) ([]*models.PixTransferencia, error)
	AgregadoPix(ctx context.Context, desde, ate time.Time) (*models.Resumo, error)
	AltoValor(ctx context.Context, desde time.Time, limiteValor money.Centavos, max int) ([]*models.PixTransferencia, error)
	RemetentesFrequentes(ctx context.Context, desde time.Time, limiteQuantidade int) ([]*models.RemetenteStats, error)
	EstatisticasPix(ctx context.Context, userID string) (*EstatisticasPix, error)

	// Apostas PvP
	CriarAposta(ctx context.Context, apostadorID, desafiadoID string, valor money.Centavos, descricao string) (*models.Aposta, error)
	GetAposta(ctx context.Context, id string) (*models.Aposta, error)
	ResolverAposta(ctx context.Context, apostaID, vencedorID string, credito, imposto money.Centavos) (*models.Aposta, error)
	ApostasPendentes(ctx context.Context, userID string) ([]*models.Aposta, error)

	// Investimentos
	ComprarAcao(ctx context.Context, userID, ticker string, quantidade int64, precoUnitario money.Centavos, descricao string) (*models.Usuario, error)
	VenderAcao(ctx context.Context, userID, ticker string, quantidade int64, receitaLiquida, imposto money.Centavos, descricao string) (*models.Usuario, error)
	Carteira(ctx context.Context, userID string) ([]*models.Posicao, error)
	GetPosicao(ctx context.Context, userID, ticker string) (*models.Posicao, error)
}

var (
	_ Store = (*Postgres)(nil)
	_ Store = (*Memory)(nil)
)
