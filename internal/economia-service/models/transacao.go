package models

import (
	"time"

	"github.com/econplay/economia-platform/pkg/money"
)

// Categoria classifica cada lançamento do extrato.
type Categoria string

const (
	CategoriaDaily           Categoria = "daily"
	CategoriaApostaGanha     Categoria = "aposta_ganha"
	CategoriaApostaPerdida   Categoria = "aposta_perdida"
	CategoriaPixEnviado      Categoria = "pix_enviado"
	CategoriaPixRecebido     Categoria = "pix_recebido"
	CategoriaTaxaPix         Categoria = "taxa_pix"
	CategoriaImposto         Categoria = "imposto"
	CategoriaInvestimento    Categoria = "investimento"
	CategoriaVendaAcao       Categoria = "venda_acao"
	CategoriaApostaBloqueada Categoria = "aposta_bloqueada"
	CategoriaApostaVencida   Categoria = "aposta_vencida"
	CategoriaAdmin           Categoria = "admin"
)

// Transacao é um lançamento imutável do extrato (ledger).
// Lançamentos informativos (taxa_pix, imposto) registram granularidade de
// auditoria sem mover saldo: o valor já está embutido no lançamento
// autoritativo do mesmo grupo, e os snapshots antes/depois são iguais.
type Transacao struct {
	ID             int64
	UserID         string
	Valor          money.Centavos // delta com sinal
	Tipo           Categoria
	SaldoAnterior  money.Centavos
	SaldoPosterior money.Centavos
	Descricao      string
	Informativo    bool
	Data           time.Time
}

// PoliticaSaldoNegativo declara as categorias autorizadas a deixar o saldo
// negativo. A exceção histórica (aposta_perdida) vira política explícita em
// vez de comparação de string espalhada pelo código.
type PoliticaSaldoNegativo struct {
	permitidas map[Categoria]struct{}
}

func NovaPoliticaSaldoNegativo(categorias ...Categoria) PoliticaSaldoNegativo {
	p := PoliticaSaldoNegativo{permitidas: make(map[Categoria]struct{}, len(categorias))}
	for _, c := range categorias {
		p.permitidas[c] = struct{}{}
	}
	return p
}

// PoliticaPadrao preserva a única exceção do sistema legado.
func PoliticaPadrao() PoliticaSaldoNegativo {
	return NovaPoliticaSaldoNegativo(CategoriaApostaPerdida)
}

func (p PoliticaSaldoNegativo) Permite(c Categoria) bool {
	_, ok := p.permitidas[c]
	return ok
}

// FiltroExtrato parametriza consultas ao extrato.
type FiltroExtrato struct {
	Tipo   Categoria // vazio = todas
	Desde  *time.Time
	Ate    *time.Time
	Limite int // máximo 100
}

// Resumo é o resultado agregado de um conjunto de transferências PIX.
type Resumo struct {
	Quantidade  int
	SomaBruto   money.Centavos
	SomaTaxas   money.Centavos
	SomaLiquido money.Centavos
}
