package events

import "time"

// Evento emitido quando uma aposta PvP é finalizada por um administrador.
type ApostaResolvida struct {
	ApostaID    string    `json:"aposta_id"`
	ApostadorID string    `json:"apostador_id"`
	DesafiadoID string    `json:"desafiado_id"`
	VencedorID  string    `json:"vencedor_id"`
	ValorCents  int64     `json:"valor_cents"`
	PremioCents int64     `json:"premio_cents"`
	Ts          time.Time `json:"ts"`
}
