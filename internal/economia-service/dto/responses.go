package dto

import "time"

type ErroResponse struct {
	Error string `json:"error"`
}

type UsuarioResponse struct {
	UserID            string `json:"userId"`
	Username          string `json:"username"`
	SaldoCents        int64  `json:"saldoCents"`
	Saldo             string `json:"saldo"`
	Nivel             int    `json:"nivel"`
	Experiencia       int    `json:"experiencia"`
	StreakDaily       int    `json:"streakDaily"`
	PixBloqueado      bool   `json:"pixBloqueado"`
	PixBloqueioMotivo string `json:"pixBloqueioMotivo,omitempty"`
}

type DailyResponse struct {
	BaseCents  int64 `json:"baseCents"`
	BonusCents int64 `json:"bonusCents"`
	TotalCents int64 `json:"totalCents"`
	Streak     int   `json:"streak"`
	SaldoCents int64 `json:"saldoCents"`
}

type TransacaoResponse struct {
	ID                  int64     `json:"id"`
	ValorCents          int64     `json:"valorCents"`
	Tipo                string    `json:"tipo"`
	SaldoAnteriorCents  int64     `json:"saldoAnteriorCents"`
	SaldoPosteriorCents int64     `json:"saldoPosteriorCents"`
	Descricao           string    `json:"descricao"`
	Informativo         bool      `json:"informativo"`
	Data                time.Time `json:"data"`
}

type PixIniciadoResponse struct {
	Token             string    `json:"token"`
	RemetenteNome     string    `json:"remetenteNome"`
	ValorBrutoCents   int64     `json:"valorBrutoCents"`
	TaxaCents         int64     `json:"taxaCents"`
	ValorLiquidoCents int64     `json:"valorLiquidoCents"`
	Descricao         string    `json:"descricao,omitempty"`
	ExpiraEm          time.Time `json:"expiraEm"`
}

type PixResponse struct {
	ID                string    `json:"id"`
	RemetenteID       string    `json:"remetenteId"`
	RemetenteNome     string    `json:"remetenteNome"`
	DestinatarioID    string    `json:"destinatarioId"`
	DestinatarioNome  string    `json:"destinatarioNome"`
	ValorBrutoCents   int64     `json:"valorBrutoCents"`
	TaxaCents         int64     `json:"taxaCents"`
	ValorLiquidoCents int64     `json:"valorLiquidoCents"`
	Descricao         string    `json:"descricao,omitempty"`
	Status            string    `json:"status"`
	Data              time.Time `json:"data"`
}

type PixConfirmadoResponse struct {
	Resultado string       `json:"resultado"` // confirmada | recusada
	Pix       *PixResponse `json:"pix,omitempty"`
}

type EstatisticasPixResponse struct {
	TotalEnviados           int   `json:"totalEnviados"`
	ValorTotalEnviadoCents  int64 `json:"valorTotalEnviadoCents"`
	TotalRecebidos          int   `json:"totalRecebidos"`
	ValorTotalRecebidoCents int64 `json:"valorTotalRecebidoCents"`
	TotalTaxasCents         int64 `json:"totalTaxasCents"`
	MaiorEnviadoCents       int64 `json:"maiorEnviadoCents"`
	MaiorRecebidoCents      int64 `json:"maiorRecebidoCents"`
	BalancoCents            int64 `json:"balancoCents"`
}

type JogoResponse struct {
	Jogo              string   `json:"jogo"`
	Vitoria           bool     `json:"vitoria"`
	ApostaCents       int64    `json:"apostaCents"`
	GanhoBrutoCents   int64    `json:"ganhoBrutoCents"`
	ImpostoCents      int64    `json:"impostoCents"`
	GanhoLiquidoCents int64    `json:"ganhoLiquidoCents"`
	SaldoCents        int64    `json:"saldoCents"`
	Detalhe           string   `json:"detalhe,omitempty"`
	Simbolos          []string `json:"simbolos,omitempty"`
}

type ApostaResponse struct {
	ID          string    `json:"id"`
	ApostadorID string    `json:"apostadorId"`
	DesafiadoID string    `json:"desafiadoId"`
	ValorCents  int64     `json:"valorCents"`
	Descricao   string    `json:"descricao,omitempty"`
	Status      string    `json:"status"`
	VencedorID  string    `json:"vencedorId,omitempty"`
	Data        time.Time `json:"data"`
}

type CotacaoResponse struct {
	Ticker     string    `json:"ticker"`
	PrecoCents int64     `json:"precoCents"`
	AsOf       time.Time `json:"asOf"`
}

type CompraResponse struct {
	Ticker             string `json:"ticker"`
	Quantidade         int64  `json:"quantidade"`
	PrecoUnitarioCents int64  `json:"precoUnitarioCents"`
	CustoTotalCents    int64  `json:"custoTotalCents"`
	SaldoCents         int64  `json:"saldoCents"`
}

type VendaResponse struct {
	Ticker              string `json:"ticker"`
	Quantidade          int64  `json:"quantidade"`
	PrecoUnitarioCents  int64  `json:"precoUnitarioCents"`
	ReceitaBrutaCents   int64  `json:"receitaBrutaCents"`
	LucroCents          int64  `json:"lucroCents"`
	ImpostoCents        int64  `json:"impostoCents"`
	ReceitaLiquidaCents int64  `json:"receitaLiquidaCents"`
	SaldoCents          int64  `json:"saldoCents"`
}

type PosicaoResponse struct {
	Ticker             string `json:"ticker"`
	Quantidade         int64  `json:"quantidade"`
	PrecoMedioCents    int64  `json:"precoMedioCents"`
	PrecoAtualCents    int64  `json:"precoAtualCents,omitempty"`
	ValorMercadoCents  int64  `json:"valorMercadoCents,omitempty"`
	LucroNaoRealzCents int64  `json:"lucroNaoRealizadoCents,omitempty"`
}

type RemetenteStatsResponse struct {
	UserID          string `json:"userId"`
	Quantidade      int    `json:"quantidade"`
	ValorTotalCents int64  `json:"valorTotalCents"`
}

type ResumoPixResponse struct {
	Quantidade       int   `json:"quantidade"`
	SomaBrutoCents   int64 `json:"somaBrutoCents"`
	SomaTaxasCents   int64 `json:"somaTaxasCents"`
	SomaLiquidoCents int64 `json:"somaLiquidoCents"`
}

type RelatorioFraudeResponse struct {
	JanelaHoras          float64                  `json:"janelaHoras"`
	GeradoEm             time.Time                `json:"geradoEm"`
	Suspeito             bool                     `json:"suspeito"`
	Resumo               ResumoPixResponse        `json:"resumo"`
	AltoValor            []PixResponse            `json:"altoValor"`
	RemetentesFrequentes []RemetenteStatsResponse `json:"remetentesFrequentes"`
}
