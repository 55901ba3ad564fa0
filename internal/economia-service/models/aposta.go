package models

import (
	"time"

	"github.com/econplay/economia-platform/pkg/money"
)

const (
	StatusApostaPendente   = "pendente"
	StatusApostaFinalizada = "finalizada"
)

// Aposta é um desafio PvP com valor caucionado das duas partes.
// Enquanto pendente, o valor já saiu do saldo disponível de ambos.
type Aposta struct {
	ID          string
	ApostadorID string
	DesafiadoID string
	Valor       money.Centavos
	Descricao   string
	Status      string
	VencedorID  *string
	Data        time.Time
}
