package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/econplay/economia-platform/internal/economia-service/models"
	"github.com/econplay/economia-platform/pkg/money"
)

// TransferirPix efetiva a transferência como um único grupo de mutação:
// débito do remetente (bruto), lançamento informativo da taxa, crédito do
// destinatário (líquido) e o registro desnormalizado do PIX, tudo na mesma
// transação, invisível parcialmente para qualquer leitor.
// As duas linhas de usuário são travadas em ordem consistente para evitar
// deadlock entre transferências cruzadas.
func (p *Postgres) TransferirPix(ctx context.Context, pix *models.PixTransferencia) (*models.PixTransferencia, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	primeiro, segundo := pix.RemetenteID, pix.DestinatarioID
	if primeiro > segundo {
		primeiro, segundo = segundo, primeiro
	}

	saldos := map[string]money.Centavos{}
	for _, id := range []string{primeiro, segundo} {
		var s int64
		if err = tx.QueryRowContext(ctx, `SELECT saldo_cents FROM usuarios WHERE user_id=$1 FOR UPDATE`, id).Scan(&s); err != nil {
			if err == sql.ErrNoRows {
				return nil, models.ErrUserNotFound
			}
			return nil, err
		}
		saldos[id] = money.Centavos(s)
	}

	saldoRemetente := saldos[pix.RemetenteID]
	if saldoRemetente < pix.ValorBruto {
		return nil, models.ErrInsufficientFunds
	}

	// Débito do remetente pelo valor bruto
	novoRemetente := saldoRemetente - pix.ValorBruto
	if _, err = tx.ExecContext(ctx, `UPDATE usuarios SET saldo_cents=$1 WHERE user_id=$2`, int64(novoRemetente), pix.RemetenteID); err != nil {
		return nil, err
	}
	if err = inserirTransacao(ctx, tx, pix.RemetenteID, -pix.ValorBruto, models.CategoriaPixEnviado,
		saldoRemetente, novoRemetente, "PIX para "+pix.DestinatarioNome+": "+pix.Descricao, false); err != nil {
		return nil, err
	}

	// Taxa: lançamento puramente informativo, o saldo já moveu uma única vez
	// pelo valor bruto acima.
	if err = inserirTransacao(ctx, tx, pix.RemetenteID, -pix.Taxa, models.CategoriaTaxaPix,
		novoRemetente, novoRemetente, "Taxa de 1% sobre PIX de "+pix.ValorBruto.String(), true); err != nil {
		return nil, err
	}

	// Crédito do destinatário pelo valor líquido
	saldoDestinatario := saldos[pix.DestinatarioID]
	novoDestinatario := saldoDestinatario + pix.ValorLiquido
	if _, err = tx.ExecContext(ctx, `UPDATE usuarios SET saldo_cents=$1 WHERE user_id=$2`, int64(novoDestinatario), pix.DestinatarioID); err != nil {
		return nil, err
	}
	if err = inserirTransacao(ctx, tx, pix.DestinatarioID, pix.ValorLiquido, models.CategoriaPixRecebido,
		saldoDestinatario, novoDestinatario, "PIX de "+pix.RemetenteNome+": "+pix.Descricao, false); err != nil {
		return nil, err
	}

	pix.ID = uuid.NewString()
	pix.Status = models.StatusPixConcluido
	pix.Data = time.Now()
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO pix_transacoes
		  (id, remetente_id, remetente_nome, destinatario_id, destinatario_nome,
		   valor_bruto_cents, taxa_cents, valor_liquido_cents, descricao,
		   servidor_id, canal_id, mensagem_id, status, data)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		pix.ID, pix.RemetenteID, pix.RemetenteNome, pix.DestinatarioID, pix.DestinatarioNome,
		int64(pix.ValorBruto), int64(pix.Taxa), int64(pix.ValorLiquido), pix.Descricao,
		pix.ServidorID, pix.CanalID, pix.MensagemID, pix.Status, pix.Data); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return pix, nil
}

// HistoricoPix retorna transferências onde o usuário é remetente ou
// destinatário, mais recentes primeiro.
func (p *Postgres) HistoricoPix(ctx context.Context, userID string, limite int) ([]*models.PixTransferencia, error) {
	if limite <= 0 || limite > 100 {
		limite = 10
	}
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, remetente_id, remetente_nome, destinatario_id, destinatario_nome,
		       valor_bruto_cents, taxa_cents, valor_liquido_cents, descricao,
		       servidor_id, canal_id, mensagem_id, status, data
		FROM pix_transacoes
		WHERE remetente_id=$1 OR destinatario_id=$1
		ORDER BY data DESC LIMIT $2`, userID, limite)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPixRows(rows)
}

func scanPixRows(rows *sql.Rows) ([]*models.PixTransferencia, error) {
	var out []*models.PixTransferencia
	for rows.Next() {
		var t models.PixTransferencia
		if err := rows.Scan(&t.ID, &t.RemetenteID, &t.RemetenteNome, &t.DestinatarioID, &t.DestinatarioNome,
			&t.ValorBruto, &t.Taxa, &t.ValorLiquido, &t.Descricao,
			&t.ServidorID, &t.CanalID, &t.MensagemID, &t.Status, &t.Data); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// AgregadoPix computa o resumo do período via agregação no banco,
// sem materializar o histórico em memória.
func (p *Postgres) AgregadoPix(ctx context.Context, desde, ate time.Time) (*models.Resumo, error) {
	var r models.Resumo
	err := p.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(valor_bruto_cents),0),
		       COALESCE(SUM(taxa_cents),0),
		       COALESCE(SUM(valor_liquido_cents),0)
		FROM pix_transacoes WHERE data >= $1 AND data <= $2`,
		desde, ate).Scan(&r.Quantidade, &r.SomaBruto, &r.SomaTaxas, &r.SomaLiquido)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// AltoValor lista transferências acima do limite dentro da janela.
func (p *Postgres) AltoValor(ctx context.Context, desde time.Time, limiteValor money.Centavos, max int) ([]*models.PixTransferencia, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, remetente_id, remetente_nome, destinatario_id, destinatario_nome,
		       valor_bruto_cents, taxa_cents, valor_liquido_cents, descricao,
		       servidor_id, canal_id, mensagem_id, status, data
		FROM pix_transacoes
		WHERE data >= $1 AND valor_bruto_cents > $2
		ORDER BY valor_bruto_cents DESC LIMIT $3`,
		desde, int64(limiteValor), max)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPixRows(rows)
}

// RemetentesFrequentes agrega remetentes acima do limite de quantidade na janela.
func (p *Postgres) RemetentesFrequentes(ctx context.Context, desde time.Time, limiteQuantidade int) ([]*models.RemetenteStats, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT remetente_id, COUNT(*), SUM(valor_bruto_cents)
		FROM pix_transacoes
		WHERE data >= $1
		GROUP BY remetente_id
		HAVING COUNT(*) > $2
		ORDER BY COUNT(*) DESC`,
		desde, limiteQuantidade)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.RemetenteStats
	for rows.Next() {
		var s models.RemetenteStats
		if err := rows.Scan(&s.UserID, &s.Quantidade, &s.ValorTotal); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// EstatisticasPix resume a atividade PIX de um usuário (enviados, recebidos,
// taxas pagas, maiores valores).
func (p *Postgres) EstatisticasPix(ctx context.Context, userID string) (*EstatisticasPix, error) {
	var st EstatisticasPix
	err := p.db.QueryRowContext(ctx, `
		SELECT
		  COUNT(*) FILTER (WHERE remetente_id=$1),
		  COALESCE(SUM(valor_bruto_cents) FILTER (WHERE remetente_id=$1),0),
		  COUNT(*) FILTER (WHERE destinatario_id=$1),
		  COALESCE(SUM(valor_liquido_cents) FILTER (WHERE destinatario_id=$1),0),
		  COALESCE(SUM(taxa_cents) FILTER (WHERE remetente_id=$1),0),
		  COALESCE(MAX(valor_bruto_cents) FILTER (WHERE remetente_id=$1),0),
		  COALESCE(MAX(valor_liquido_cents) FILTER (WHERE destinatario_id=$1),0)
		FROM pix_transacoes
		WHERE remetente_id=$1 OR destinatario_id=$1`, userID).
		Scan(&st.TotalEnviados, &st.ValorTotalEnviado, &st.TotalRecebidos, &st.ValorTotalRecebido,
			&st.TotalTaxas, &st.MaiorEnviado, &st.MaiorRecebido)
	if err != nil {
		return nil, err
	}
	st.Balanco = st.ValorTotalRecebido - st.ValorTotalEnviado
	return &st, nil
}

// EstatisticasPix é o resumo por usuário exibido pelo comando de estatísticas.
type EstatisticasPix struct {
	TotalEnviados      int
	ValorTotalEnviado  money.Centavos
	TotalRecebidos     int
	ValorTotalRecebido money.Centavos
	TotalTaxas         money.Centavos
	MaiorEnviado       money.Centavos
	MaiorRecebido      money.Centavos
	Balanco            money.Centavos
}
