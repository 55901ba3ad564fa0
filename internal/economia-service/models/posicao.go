package models

import (
	"time"

	"github.com/econplay/economia-platform/pkg/money"
)

// Posicao é a participação de um usuário em um ativo.
// Quantidade nunca fica negativa; a linha é removida quando zera.
type Posicao struct {
	UserID       string
	Ticker       string
	Quantidade   int64
	PrecoMedio   money.Centavos // custo médio ponderado por volume
	AtualizadoEm time.Time
}

// Cotacao é a resposta do oráculo de preços.
type Cotacao struct {
	Ticker string         `json:"ticker"`
	Preco  money.Centavos `json:"preco_cents"`
	AsOf   time.Time      `json:"as_of"`
}
