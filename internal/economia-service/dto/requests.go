package dto

// Requests aceitos pela API v1. Valores monetários sempre em centavos.

type CriarContaRequest struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type PixIniciarRequest struct {
	RemetenteID      string `json:"remetenteId"`
	RemetenteNome    string `json:"remetenteNome"`
	DestinatarioID   string `json:"destinatarioId"`
	DestinatarioNome string `json:"destinatarioNome"`
	DestinatarioBot  bool   `json:"destinatarioBot"`
	ValorCents       int64  `json:"valorCents"`
	Descricao        string `json:"descricao"`
	ServidorID       string `json:"servidorId,omitempty"`
	CanalID          string `json:"canalId,omitempty"`
	MensagemID       string `json:"mensagemId,omitempty"`
}

type PixConfirmarRequest struct {
	Token   string `json:"token"`
	Aceitar bool   `json:"aceitar"`
}

type JogoRequest struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	ApostaCents int64  `json:"apostaCents"`
	Lado        string `json:"lado,omitempty"`   // coinflip
	Numero      int    `json:"numero,omitempty"` // roleta
}

type ApostaCriarRequest struct {
	ApostadorID   string `json:"apostadorId"`
	ApostadorNome string `json:"apostadorNome"`
	DesafiadoID   string `json:"desafiadoId"`
	DesafiadoNome string `json:"desafiadoNome"`
	ValorCents    int64  `json:"valorCents"`
	Descricao     string `json:"descricao"`
}

type ApostaResolverRequest struct {
	VencedorID string `json:"vencedorId"`
}

type InvestOrdemRequest struct {
	UserID     string `json:"userId"`
	Username   string `json:"username,omitempty"`
	Ticker     string `json:"ticker"`
	Quantidade int64  `json:"quantidade"`
}

type AdminBloquearRequest struct {
	Motivo string `json:"motivo"`
}

type AdminAjusteRequest struct {
	DeltaCents int64  `json:"deltaCents"`
	Motivo     string `json:"motivo"`
}
