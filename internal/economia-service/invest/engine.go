package invest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/econplay/economia-platform/internal/economia-service/models"
	"github.com/econplay/economia-platform/internal/economia-service/repo"
	"github.com/econplay/economia-platform/pkg/money"
)

// Imposto de 5% sobre o lucro realizado positivo em vendas.
const impostoLucroPercentual = 5.0

// ResultadoCompra resume uma ordem de compra executada.
type ResultadoCompra struct {
	Ticker        string
	Quantidade    int64
	PrecoUnitario money.Centavos
	CustoTotal    money.Centavos
	NovoSaldo     money.Centavos
}

// ResultadoVenda resume uma ordem de venda liquidada.
type ResultadoVenda struct {
	Ticker         string
	Quantidade     int64
	PrecoUnitario  money.Centavos
	ReceitaBruta   money.Centavos
	Lucro          money.Centavos // realizado vs custo médio; pode ser negativo
	Imposto        money.Centavos
	ReceitaLiquida money.Centavos
	NovoSaldo      money.Centavos
}

// PosicaoAvaliada é uma posição da carteira com marcação a mercado.
type PosicaoAvaliada struct {
	Posicao       *models.Posicao
	PrecoAtual    money.Centavos
	ValorMercado  money.Centavos
	LucroNaoRealz money.Centavos
}

// Engine executa compra e venda de ações ao preço corrente do oráculo.
type Engine struct {
	store  repo.Store
	oracle Oracle
	logger *zap.Logger
}

func NewEngine(store repo.Store, oracle Oracle, logger *zap.Logger) *Engine {
	return &Engine{store: store, oracle: oracle, logger: logger}
}

// Comprar executa a ordem ao preço corrente: débito do custo total e upsert
// da posição com custo médio ponderado por volume, na mesma transação.
func (e *Engine) Comprar(ctx context.Context, userID, username, ticker string, quantidade int64) (*ResultadoCompra, error) {
	if quantidade <= 0 {
		return nil, fmt.Errorf("%w: quantidade deve ser positiva", models.ErrInvalidAmount)
	}
	if _, err := e.store.GetOrCreate(ctx, userID, username); err != nil {
		return nil, err
	}

	cot, err := e.oracle.Cotacao(ctx, ticker)
	if err != nil {
		return nil, err
	}

	custoTotal := cot.Preco * money.Centavos(quantidade)
	desc := fmt.Sprintf("Compra de %d %s a %s", quantidade, cot.Ticker, cot.Preco.String())
	u, err := e.store.ComprarAcao(ctx, userID, cot.Ticker, quantidade, cot.Preco, desc)
	if err != nil {
		return nil, err
	}

	e.logger.Info("compra de ação executada",
		zap.String("user_id", userID),
		zap.String("ticker", cot.Ticker),
		zap.Int64("quantidade", quantidade),
		zap.Int64("custo_total_cents", int64(custoTotal)),
	)
	return &ResultadoCompra{
		Ticker:        cot.Ticker,
		Quantidade:    quantidade,
		PrecoUnitario: cot.Preco,
		CustoTotal:    custoTotal,
		NovoSaldo:     u.Saldo,
	}, nil
}

// Vender liquida a ordem ao preço corrente. Lucro realizado positivo paga 5%
// de imposto; prejuízo não gera crédito fiscal. O custo médio da posição não
// muda em venda parcial.
func (e *Engine) Vender(ctx context.Context, userID, ticker string, quantidade int64) (*ResultadoVenda, error) {
	if quantidade <= 0 {
		return nil, fmt.Errorf("%w: quantidade deve ser positiva", models.ErrInvalidAmount)
	}

	pos, err := e.store.GetPosicao(ctx, userID, ticker)
	if err != nil {
		return nil, err
	}
	if pos.Quantidade < quantidade {
		return nil, models.ErrPosicaoInsuficiente
	}

	cot, err := e.oracle.Cotacao(ctx, pos.Ticker)
	if err != nil {
		return nil, err
	}

	receitaBruta := cot.Preco * money.Centavos(quantidade)
	custoBase := pos.PrecoMedio * money.Centavos(quantidade)
	lucro := receitaBruta - custoBase

	var imposto money.Centavos
	if lucro > 0 {
		imposto = money.Percent(lucro, impostoLucroPercentual)
	}
	receitaLiquida := receitaBruta - imposto

	desc := fmt.Sprintf("Venda de %d %s a %s", quantidade, cot.Ticker, cot.Preco.String())
	u, err := e.store.VenderAcao(ctx, userID, cot.Ticker, quantidade, receitaLiquida, imposto, desc)
	if err != nil {
		return nil, err
	}

	e.logger.Info("venda de ação liquidada",
		zap.String("user_id", userID),
		zap.String("ticker", cot.Ticker),
		zap.Int64("quantidade", quantidade),
		zap.Int64("lucro_cents", int64(lucro)),
		zap.Int64("imposto_cents", int64(imposto)),
	)
	return &ResultadoVenda{
		Ticker:         cot.Ticker,
		Quantidade:     quantidade,
		PrecoUnitario:  cot.Preco,
		ReceitaBruta:   receitaBruta,
		Lucro:          lucro,
		Imposto:        imposto,
		ReceitaLiquida: receitaLiquida,
		NovoSaldo:      u.Saldo,
	}, nil
}

// Carteira lista as posições do usuário com marcação a mercado.
// Cotação indisponível de um ticker não derruba a listagem inteira.
func (e *Engine) Carteira(ctx context.Context, userID string) ([]*PosicaoAvaliada, error) {
	posicoes, err := e.store.Carteira(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*PosicaoAvaliada, 0, len(posicoes))
	for _, pos := range posicoes {
		avaliada := &PosicaoAvaliada{Posicao: pos}
		if cot, err := e.oracle.Cotacao(ctx, pos.Ticker); err == nil {
			avaliada.PrecoAtual = cot.Preco
			avaliada.ValorMercado = cot.Preco * money.Centavos(pos.Quantidade)
			avaliada.LucroNaoRealz = (cot.Preco - pos.PrecoMedio) * money.Centavos(pos.Quantidade)
		} else {
			e.logger.Warn("cotação indisponível para marcação a mercado",
				zap.String("ticker", pos.Ticker), zap.Error(err))
		}
		out = append(out, avaliada)
	}
	return out, nil
}

// CotacaoAtual expõe o oráculo para consulta direta na API.
func (e *Engine) CotacaoAtual(ctx context.Context, ticker string) (*models.Cotacao, error) {
	return e.oracle.Cotacao(ctx, ticker)
}
