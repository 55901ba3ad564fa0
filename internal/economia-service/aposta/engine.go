package aposta

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/econplay/economia-platform/internal/economia-service/casino"
	"github.com/econplay/economia-platform/internal/economia-service/models"
	"github.com/econplay/economia-platform/internal/economia-service/repo"
	"github.com/econplay/economia-platform/pkg/contracts/events"
	"github.com/econplay/economia-platform/pkg/money"
)

var (
	ErrAutoDesafio        = errors.New("não é possível desafiar a si mesmo")
	ErrVencedorInvalido   = errors.New("vencedor precisa ser uma das partes da aposta")
)

// Publicador emite o evento de resolução para auditoria.
type Publicador interface {
	PublicarApostaResolvida(ctx context.Context, ev events.ApostaResolvida) error
}

// Engine cuida dos desafios entre jogadores. O valor sai do saldo das duas
// partes no momento da criação (caução); a resolução é administrativa.
type Engine struct {
	store      repo.Store
	publicador Publicador
	logger     *zap.Logger
}

func NewEngine(store repo.Store, logger *zap.Logger, publicador Publicador) *Engine {
	return &Engine{store: store, publicador: publicador, logger: logger}
}

// Criar registra o desafio e bloqueia o valor das duas partes em uma única
// transação. Saldo insuficiente de qualquer lado aborta sem mutação.
func (e *Engine) Criar(ctx context.Context, apostadorID, apostadorNome, desafiadoID, desafiadoNome string, valor money.Centavos, descricao string) (*models.Aposta, error) {
	if apostadorID == desafiadoID {
		return nil, ErrAutoDesafio
	}
	if valor <= 0 {
		return nil, fmt.Errorf("%w: valor da aposta deve ser positivo", models.ErrInvalidAmount)
	}

	if _, err := e.store.GetOrCreate(ctx, apostadorID, apostadorNome); err != nil {
		return nil, err
	}
	if _, err := e.store.GetOrCreate(ctx, desafiadoID, desafiadoNome); err != nil {
		return nil, err
	}

	a, err := e.store.CriarAposta(ctx, apostadorID, desafiadoID, valor, descricao)
	if err != nil {
		return nil, err
	}

	e.logger.Info("aposta criada, valores caucionados",
		zap.String("aposta_id", a.ID),
		zap.String("apostador_id", apostadorID),
		zap.String("desafiado_id", desafiadoID),
		zap.Int64("valor_cents", int64(valor)),
	)
	return a, nil
}

// Resolver finaliza a aposta creditando o vencedor com o pote (2× o valor),
// menos o imposto da casa quando o pote passa do limite. Idempotência fica a
// cargo do storage: segunda resolução devolve ErrApostaResolved.
func (e *Engine) Resolver(ctx context.Context, apostaID, vencedorID string) (*models.Aposta, error) {
	a, err := e.store.GetAposta(ctx, apostaID)
	if err != nil {
		return nil, err
	}
	if vencedorID != a.ApostadorID && vencedorID != a.DesafiadoID {
		return nil, ErrVencedorInvalido
	}

	pote := a.Valor * 2
	imposto := casino.CalcularImposto(pote)

	resolvida, err := e.store.ResolverAposta(ctx, apostaID, vencedorID, pote-imposto, imposto)
	if err != nil {
		return nil, err
	}

	e.logger.Info("aposta resolvida",
		zap.String("aposta_id", apostaID),
		zap.String("vencedor_id", vencedorID),
		zap.Int64("premio_cents", int64(pote-imposto)),
	)

	if e.publicador != nil {
		ev := events.ApostaResolvida{
			ApostaID:    resolvida.ID,
			ApostadorID: resolvida.ApostadorID,
			DesafiadoID: resolvida.DesafiadoID,
			VencedorID:  vencedorID,
			ValorCents:  int64(resolvida.Valor),
			PremioCents: int64(pote - imposto),
			Ts:          time.Now(),
		}
		if err := e.publicador.PublicarApostaResolvida(ctx, ev); err != nil {
			e.logger.Warn("falha ao publicar evento aposta_resolvida", zap.Error(err))
		}
	}
	return resolvida, nil
}

// Pendentes lista os desafios aguardando resposta do usuário.
func (e *Engine) Pendentes(ctx context.Context, userID string) ([]*models.Aposta, error) {
	return e.store.ApostasPendentes(ctx, userID)
}
