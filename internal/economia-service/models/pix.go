package models

import (
	"time"

	"github.com/econplay/economia-platform/pkg/money"
)

// StatusPixConcluido é o único status persistido hoje; o fluxo é síncrono.
// O desenho comporta estados pendente/cancelado futuros.
const StatusPixConcluido = "concluido"

// PixTransferencia é o registro desnormalizado de uma transferência efetivada.
// Criado apenas na conclusão; nunca alterado.
type PixTransferencia struct {
	ID               string
	RemetenteID      string
	RemetenteNome    string
	DestinatarioID   string
	DestinatarioNome string
	ValorBruto       money.Centavos
	Taxa             money.Centavos
	ValorLiquido     money.Centavos
	Descricao        string

	// Proveniência do comando que originou a transferência
	ServidorID string
	CanalID    string
	MensagemID string

	Status string
	Data   time.Time
}

// RemetenteStats agrega a atividade de um remetente na janela analisada.
type RemetenteStats struct {
	UserID     string
	Quantidade int
	ValorTotal money.Centavos
}
