package casino

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/econplay/economia-platform/internal/economia-service/models"
	"github.com/econplay/economia-platform/internal/economia-service/repo"
	"github.com/econplay/economia-platform/internal/economia-service/sorteio"
	"github.com/econplay/economia-platform/pkg/money"
)

// Jogos disponíveis.
const (
	JogoCoinFlip = "coinflip"
	JogoSlots    = "slots"
	JogoRoleta   = "roleta"
)

const (
	// Imposto de 10% sobre ganhos brutos acima de 1000.00.
	limiteImposto     money.Centavos = 100_000
	impostoPercentual                = 10.0
)

var (
	ErrJogoDesconhecido = errors.New("jogo desconhecido")
	ErrLadoInvalido     = errors.New("lado inválido, use cara ou coroa")
	ErrNumeroInvalido   = errors.New("número da roleta deve estar entre 0 e 36")
)

var simbolosSlots = []string{"🍎", "🍊", "🍋", "⭐", "💎", "🎲"}

// Params carrega os argumentos específicos de cada jogo.
type Params struct {
	Lado   string // coinflip: "cara" ou "coroa"
	Numero int    // roleta: 0 a 36
}

// ResultadoJogo descreve uma rodada liquidada.
type ResultadoJogo struct {
	Jogo         string
	Vitoria      bool
	Aposta       money.Centavos
	GanhoBruto   money.Centavos // 0 em derrota
	Imposto      money.Centavos
	GanhoLiquido money.Centavos // bruto − aposta − imposto; negativo em derrota
	NovoSaldo    money.Centavos
	Detalhe      string   // ex.: lado sorteado, número da roleta
	Simbolos     []string // preenchido apenas no slots
}

// Engine liquida jogos de azar contra a casa. Cada rodada vira exatamente um
// lançamento autoritativo no extrato (ganho ou perda), mais um lançamento
// informativo de imposto quando devido.
type Engine struct {
	store   repo.Store
	sorteio sorteio.Sorteio
	logger  *zap.Logger
}

func NewEngine(store repo.Store, s sorteio.Sorteio, logger *zap.Logger) *Engine {
	return &Engine{store: store, sorteio: s, logger: logger}
}

// CalcularImposto aplica a regra fiscal da casa sobre um ganho bruto.
func CalcularImposto(ganhoBruto money.Centavos) money.Centavos {
	if ganhoBruto <= limiteImposto {
		return 0
	}
	return money.Percent(ganhoBruto, impostoPercentual)
}

// Play valida a aposta, sorteia o resultado e liquida no ledger.
func (e *Engine) Play(ctx context.Context, userID, username, jogo string, aposta money.Centavos, params Params) (*ResultadoJogo, error) {
	if aposta <= 0 {
		return nil, fmt.Errorf("%w: aposta deve ser positiva", models.ErrInvalidAmount)
	}
	u, err := e.store.GetOrCreate(ctx, userID, username)
	if err != nil {
		return nil, err
	}
	if u.Saldo < aposta {
		return nil, models.ErrInsufficientFunds
	}

	var res *ResultadoJogo
	switch jogo {
	case JogoCoinFlip:
		res, err = e.coinFlip(aposta, params.Lado)
	case JogoSlots:
		res = e.slots(aposta)
	case JogoRoleta:
		res, err = e.roleta(aposta, params.Numero)
	default:
		return nil, fmt.Errorf("%w: %q", ErrJogoDesconhecido, jogo)
	}
	if err != nil {
		return nil, err
	}

	if err := e.liquidar(ctx, userID, res); err != nil {
		return nil, err
	}

	e.logger.Info("rodada de cassino liquidada",
		zap.String("user_id", userID),
		zap.String("jogo", res.Jogo),
		zap.Bool("vitoria", res.Vitoria),
		zap.Int64("ganho_liquido_cents", int64(res.GanhoLiquido)),
	)
	return res, nil
}

// liquidar grava a rodada: um lançamento autoritativo com o delta líquido e,
// quando há imposto, um lançamento informativo separado.
func (e *Engine) liquidar(ctx context.Context, userID string, res *ResultadoJogo) error {
	var u *models.Usuario
	var err error
	if res.Vitoria {
		desc := fmt.Sprintf("Vitória no %s (ganho bruto %s)", res.Jogo, res.GanhoBruto.String())
		u, err = e.store.ApplyDelta(ctx, userID, res.GanhoLiquido, models.CategoriaApostaGanha, desc)
		if err != nil {
			return err
		}
		if res.Imposto > 0 {
			desc := fmt.Sprintf("Imposto de 10%% sobre ganho de %s", res.GanhoBruto.String())
			if err := e.store.RegistrarInformativa(ctx, userID, -res.Imposto, models.CategoriaImposto, desc); err != nil {
				return err
			}
		}
	} else {
		desc := fmt.Sprintf("Derrota no %s", res.Jogo)
		u, err = e.store.ApplyDelta(ctx, userID, -res.Aposta, models.CategoriaApostaPerdida, desc)
		if err != nil {
			return err
		}
	}
	res.NovoSaldo = u.Saldo
	return nil
}

func (e *Engine) coinFlip(aposta money.Centavos, lado string) (*ResultadoJogo, error) {
	if lado != "cara" && lado != "coroa" {
		return nil, ErrLadoInvalido
	}
	sorteado := "cara"
	if e.sorteio.Intn(2) == 1 {
		sorteado = "coroa"
	}
	res := &ResultadoJogo{
		Jogo:    JogoCoinFlip,
		Aposta:  aposta,
		Detalhe: sorteado,
	}
	if sorteado == lado {
		res.Vitoria = true
		res.GanhoBruto = aposta * 2
	}
	fechar(res)
	return res, nil
}

func (e *Engine) slots(aposta money.Centavos) *ResultadoJogo {
	rolos := make([]string, 3)
	for i := range rolos {
		rolos[i] = simbolosSlots[e.sorteio.Intn(len(simbolosSlots))]
	}

	res := &ResultadoJogo{
		Jogo:     JogoSlots,
		Aposta:   aposta,
		Simbolos: rolos,
	}

	switch {
	case rolos[0] == rolos[1] && rolos[1] == rolos[2]:
		res.Vitoria = true
		if rolos[0] == "💎" {
			res.GanhoBruto = aposta * 10
		} else {
			res.GanhoBruto = aposta * 5
		}
	case rolos[0] == rolos[1] || rolos[1] == rolos[2]:
		res.Vitoria = true
		res.GanhoBruto = aposta * 2
	}
	fechar(res)
	return res
}

func (e *Engine) roleta(aposta money.Centavos, numero int) (*ResultadoJogo, error) {
	if numero < 0 || numero > 36 {
		return nil, ErrNumeroInvalido
	}
	sorteado := e.sorteio.Intn(37)
	res := &ResultadoJogo{
		Jogo:    JogoRoleta,
		Aposta:  aposta,
		Detalhe: fmt.Sprintf("%d", sorteado),
	}
	if sorteado == numero {
		res.Vitoria = true
		res.GanhoBruto = aposta * 36
	}
	fechar(res)
	return res, nil
}

// fechar completa imposto e delta líquido a partir do bruto.
func fechar(res *ResultadoJogo) {
	if !res.Vitoria {
		res.GanhoLiquido = -res.Aposta
		return
	}
	res.Imposto = CalcularImposto(res.GanhoBruto)
	res.GanhoLiquido = res.GanhoBruto - res.Aposta - res.Imposto
}
