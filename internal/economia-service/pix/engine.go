package pix

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/econplay/economia-platform/internal/economia-service/models"
	"github.com/econplay/economia-platform/internal/economia-service/repo"
	"github.com/econplay/economia-platform/pkg/contracts/events"
	"github.com/econplay/economia-platform/pkg/money"
)

const (
	// Limites por transferência, herdados do sistema legado.
	ValorMinimo money.Centavos = 100       // 1.00
	ValorMaximo money.Centavos = 5_000_000 // 50000.00

	taxaPercentual = 1.0

	xpRemetente    = 10
	xpDestinatario = 5
)

var (
	ErrAutoTransferencia   = errors.New("não é possível transferir para si mesmo")
	ErrDestinatarioSistema = errors.New("destinatário não pode ser um bot ou conta de sistema")
	ErrRemetenteBloqueado  = errors.New("remetente está bloqueado para PIX")
)

// Publicador emite o evento de conclusão para o tópico de auditoria.
type Publicador interface {
	PublicarPixConcluido(ctx context.Context, ev events.PixCompleted) error
}

// Notificador entrega avisos em tempo real (pub/sub). Melhor esforço.
type Notificador interface {
	Notificar(ctx context.Context, userID, mensagem string) error
}

// Requisicao carrega tudo que a borda sabe sobre o comando de transferência.
type Requisicao struct {
	RemetenteID      string
	RemetenteNome    string
	DestinatarioID   string
	DestinatarioNome string
	DestinatarioBot  bool
	Valor            money.Centavos
	Descricao        string
	ServidorID       string
	CanalID          string
	MensagemID       string
}

// Preview é o resumo mostrado ao destinatário antes da confirmação.
type Preview struct {
	RemetenteNome string
	ValorBruto    money.Centavos
	Taxa          money.Centavos
	ValorLiquido  money.Centavos
	Descricao     string
	ExpiraEm      time.Time
}

// Engine implementa o fluxo completo de transferência com confirmação
// interativa. Confirmações pendentes vivem só na memória do processo;
// queda do serviço equivale a timeout (nenhuma mutação aconteceu ainda).
type Engine struct {
	store       repo.Store
	pendentes   *registroPendentes
	publicador  Publicador
	notificador Notificador
	logger      *zap.Logger
}

type Opcao func(*Engine)

func ComPublicador(p Publicador) Opcao   { return func(e *Engine) { e.publicador = p } }
func ComNotificador(n Notificador) Opcao { return func(e *Engine) { e.notificador = n } }
func ComTimeoutConfirmacao(d time.Duration) Opcao {
	return func(e *Engine) { e.pendentes.timeout = d }
}

func NewEngine(store repo.Store, logger *zap.Logger, opts ...Opcao) *Engine {
	e := &Engine{
		store:     store,
		pendentes: novoRegistroPendentes(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CalcularTaxa devolve a taxa de 1% sobre o bruto, arredondada ao centavo.
func CalcularTaxa(bruto money.Centavos) money.Centavos {
	return money.Percent(bruto, taxaPercentual)
}

func (e *Engine) validar(ctx context.Context, req Requisicao) error {
	if req.RemetenteID == req.DestinatarioID {
		return ErrAutoTransferencia
	}
	if req.DestinatarioBot {
		return ErrDestinatarioSistema
	}
	if req.Valor < ValorMinimo || req.Valor > ValorMaximo {
		return fmt.Errorf("%w: valor deve estar entre %s e %s",
			models.ErrInvalidAmount, ValorMinimo.String(), ValorMaximo.String())
	}

	remetente, err := e.store.Get(ctx, req.RemetenteID)
	if err != nil {
		return err
	}
	if remetente.PixBloqueado {
		return fmt.Errorf("%w: %s", ErrRemetenteBloqueado, remetente.PixBloqueioMotivo)
	}
	if remetente.Saldo < req.Valor {
		return models.ErrInsufficientFunds
	}
	return nil
}

// Iniciar valida a transferência e registra a confirmação pendente.
// Nenhum saldo é tocado aqui; a mutação acontece só em Confirmar(aceitar).
func (e *Engine) Iniciar(ctx context.Context, req Requisicao) (string, *Preview, error) {
	// Remetente e destinatário precisam existir antes da validação de saldo.
	if _, err := e.store.GetOrCreate(ctx, req.RemetenteID, req.RemetenteNome); err != nil {
		return "", nil, err
	}
	if !req.DestinatarioBot {
		if _, err := e.store.GetOrCreate(ctx, req.DestinatarioID, req.DestinatarioNome); err != nil {
			return "", nil, err
		}
	}

	if err := e.validar(ctx, req); err != nil {
		return "", nil, err
	}

	taxa := CalcularTaxa(req.Valor)
	token, expiraEm := e.pendentes.registrar(req)

	e.logger.Info("pix iniciado, aguardando confirmação",
		zap.String("token", token),
		zap.String("remetente_id", req.RemetenteID),
		zap.String("destinatario_id", req.DestinatarioID),
		zap.Int64("valor_bruto_cents", int64(req.Valor)),
	)

	return token, &Preview{
		RemetenteNome: req.RemetenteNome,
		ValorBruto:    req.Valor,
		Taxa:          taxa,
		ValorLiquido:  req.Valor - taxa,
		Descricao:     req.Descricao,
		ExpiraEm:      expiraEm,
	}, nil
}

// Confirmar resolve uma confirmação pendente. Recusa é no-op no ledger.
// Aceite revalida tudo: o saldo pode ter mudado durante a janela de espera.
func (e *Engine) Confirmar(ctx context.Context, token string, aceitar bool) (*models.PixTransferencia, error) {
	pend, err := e.pendentes.retirar(token)
	if err != nil {
		return nil, err
	}

	if !aceitar {
		pend.resolver(Recusada)
		e.logger.Info("pix recusado pelo destinatário", zap.String("token", token))
		return nil, nil
	}

	pix, err := e.commit(ctx, pend.req)
	if err != nil {
		pend.resolver(Recusada)
		return nil, err
	}
	pend.resolver(Confirmada)
	return pix, nil
}

// Aguardar bloqueia até a confirmação ser resolvida, expirar ou o contexto
// cair, o que vier primeiro.
func (e *Engine) Aguardar(ctx context.Context, token string) Resultado {
	return e.pendentes.aguardar(ctx, token)
}

func (e *Engine) commit(ctx context.Context, req Requisicao) (*models.PixTransferencia, error) {
	if err := e.validar(ctx, req); err != nil {
		return nil, err
	}

	taxa := CalcularTaxa(req.Valor)
	pix, err := e.store.TransferirPix(ctx, &models.PixTransferencia{
		RemetenteID:      req.RemetenteID,
		RemetenteNome:    req.RemetenteNome,
		DestinatarioID:   req.DestinatarioID,
		DestinatarioNome: req.DestinatarioNome,
		ValorBruto:       req.Valor,
		Taxa:             taxa,
		ValorLiquido:     req.Valor - taxa,
		Descricao:        req.Descricao,
		ServidorID:       req.ServidorID,
		CanalID:          req.CanalID,
		MensagemID:       req.MensagemID,
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("pix concluído",
		zap.String("pix_id", pix.ID),
		zap.String("remetente_id", pix.RemetenteID),
		zap.String("destinatario_id", pix.DestinatarioID),
		zap.Int64("valor_liquido_cents", int64(pix.ValorLiquido)),
	)

	e.posCommit(ctx, pix)
	return pix, nil
}

// posCommit dispara os canais laterais. Nenhum deles desfaz a transferência:
// o dinheiro já mudou de mãos.
func (e *Engine) posCommit(ctx context.Context, pix *models.PixTransferencia) {
	if err := e.store.AddExperiencia(ctx, pix.RemetenteID, xpRemetente); err != nil {
		e.logger.Warn("falha ao creditar XP do remetente", zap.Error(err))
	}
	if err := e.store.AddExperiencia(ctx, pix.DestinatarioID, xpDestinatario); err != nil {
		e.logger.Warn("falha ao creditar XP do destinatário", zap.Error(err))
	}

	if e.publicador != nil {
		ev := events.PixCompleted{
			PixID:             pix.ID,
			RemetenteID:       pix.RemetenteID,
			RemetenteNome:     pix.RemetenteNome,
			DestinatarioID:    pix.DestinatarioID,
			DestinatarioNome:  pix.DestinatarioNome,
			ValorBrutoCents:   int64(pix.ValorBruto),
			TaxaCents:         int64(pix.Taxa),
			ValorLiquidoCents: int64(pix.ValorLiquido),
			ServidorID:        pix.ServidorID,
			Ts:                time.Now(),
		}
		if err := e.publicador.PublicarPixConcluido(ctx, ev); err != nil {
			e.logger.Warn("falha ao publicar evento pix_completed", zap.Error(err))
		}
	}

	if e.notificador != nil {
		msg := fmt.Sprintf("Você recebeu um PIX de %s no valor de %s",
			pix.RemetenteNome, pix.ValorLiquido.String())
		if err := e.notificador.Notificar(ctx, pix.DestinatarioID, msg); err != nil {
			e.logger.Warn("falha ao notificar destinatário", zap.Error(err))
		}
	}
}

func (e *Engine) Historico(ctx context.Context, userID string, limite int) ([]*models.PixTransferencia, error) {
	return e.store.HistoricoPix(ctx, userID, limite)
}

func (e *Engine) Estatisticas(ctx context.Context, userID string) (*repo.EstatisticasPix, error) {
	return e.store.EstatisticasPix(ctx, userID)
}
