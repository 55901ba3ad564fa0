package events

import "time"

// Evento publicado no tópico "pix_completed" após cada transferência efetivada.
// Consumido pelo audit-worker para análise antifraude em streaming.
type PixCompleted struct {
	PixID             string    `json:"pix_id"`
	RemetenteID       string    `json:"remetente_id"`
	RemetenteNome     string    `json:"remetente_nome"`
	DestinatarioID    string    `json:"destinatario_id"`
	DestinatarioNome  string    `json:"destinatario_nome"`
	ValorBrutoCents   int64     `json:"valor_bruto_cents"`
	TaxaCents         int64     `json:"taxa_cents"`
	ValorLiquidoCents int64     `json:"valor_liquido_cents"`
	ServidorID        string    `json:"servidor_id,omitempty"`
	Ts                time.Time `json:"ts"`
}
