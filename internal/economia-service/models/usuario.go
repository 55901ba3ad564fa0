package models

import (
	"time"

	"github.com/econplay/economia-platform/pkg/money"
)

// SaldoInicial é o crédito concedido na criação preguiçosa da conta.
const SaldoInicial money.Centavos = 100_000 // 1000.00

// XPPorNivel define quanta experiência fecha um nível.
const XPPorNivel = 1000

// Usuario é a conta de um participante da economia.
// Criada na primeira interação, nunca removida.
type Usuario struct {
	UserID                string
	Username              string
	Saldo                 money.Centavos
	Nivel                 int
	Experiencia           int
	StreakDaily           int
	UltimaRecompensaDaily *time.Time
	PixBloqueado          bool
	PixBloqueioMotivo     string
	CriadoEm              time.Time
}
