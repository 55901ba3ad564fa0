package fraud

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/econplay/economia-platform/internal/economia-service/models"
	"github.com/econplay/economia-platform/internal/economia-service/repo"
	"github.com/econplay/economia-platform/pkg/money"
)

// Limites padrão, herdados do sistema legado.
const (
	LimiteValorPadrao      money.Centavos = 1_000_000 // 10000.00
	LimiteQuantidadePadrao                = 20
)

// Relatorio é o resultado consultivo de uma análise. Não bloqueia ninguém;
// bloqueios são decisão administrativa separada.
type Relatorio struct {
	Janela               time.Duration
	GeradoEm             time.Time
	Resumo               *models.Resumo
	AltoValor            []*models.PixTransferencia
	RemetentesFrequentes []*models.RemetenteStats
}

// Suspeito indica se a análise encontrou qualquer padrão fora do normal.
func (r *Relatorio) Suspeito() bool {
	return len(r.AltoValor) > 0 || len(r.RemetentesFrequentes) > 0
}

// Analyzer varre o histórico de PIX atrás de dois padrões: transferências de
// alto valor e remetentes com volume anormal dentro da janela.
type Analyzer struct {
	store            repo.Store
	limiteValor      money.Centavos
	limiteQuantidade int
	logger           *zap.Logger
}

func NewAnalyzer(store repo.Store, limiteValor money.Centavos, limiteQuantidade int, logger *zap.Logger) *Analyzer {
	if limiteValor <= 0 {
		limiteValor = LimiteValorPadrao
	}
	if limiteQuantidade <= 0 {
		limiteQuantidade = LimiteQuantidadePadrao
	}
	return &Analyzer{
		store:            store,
		limiteValor:      limiteValor,
		limiteQuantidade: limiteQuantidade,
		logger:           logger,
	}
}

// Analisar roda as duas verificações sobre a janela informada (terminando agora).
func (a *Analyzer) Analisar(ctx context.Context, janela time.Duration) (*Relatorio, error) {
	agora := time.Now()
	desde := agora.Add(-janela)

	resumo, err := a.store.AgregadoPix(ctx, desde, agora)
	if err != nil {
		return nil, err
	}
	altoValor, err := a.store.AltoValor(ctx, desde, a.limiteValor, 50)
	if err != nil {
		return nil, err
	}
	frequentes, err := a.store.RemetentesFrequentes(ctx, desde, a.limiteQuantidade)
	if err != nil {
		return nil, err
	}

	rel := &Relatorio{
		Janela:               janela,
		GeradoEm:             agora,
		Resumo:               resumo,
		AltoValor:            altoValor,
		RemetentesFrequentes: frequentes,
	}
	if rel.Suspeito() {
		a.logger.Warn("análise antifraude encontrou padrões suspeitos",
			zap.Int("alto_valor", len(altoValor)),
			zap.Int("remetentes_frequentes", len(frequentes)),
		)
	}
	return rel, nil
}

// AltoValorUnitario avalia uma única transferência, usado no fluxo de streaming.
func (a *Analyzer) AltoValorUnitario(valorBruto money.Centavos) bool {
	return valorBruto > a.limiteValor
}
