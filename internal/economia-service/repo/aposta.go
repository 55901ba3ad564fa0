package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/econplay/economia-platform/internal/economia-service/models"
	"github.com/econplay/economia-platform/pkg/money"
)

// CriarAposta cauciona o valor das duas partes (débito imediato,
// aposta_bloqueada) e cria o registro pendente, tudo em uma transação.
// Linhas travadas em ordem consistente, como na transferência PIX.
func (p *Postgres) CriarAposta(ctx context.Context, apostadorID, desafiadoID string, valor money.Centavos, descricao string) (*models.Aposta, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	primeiro, segundo := apostadorID, desafiadoID
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

	if saldos[apostadorID] < valor || saldos[desafiadoID] < valor {
		return nil, models.ErrInsufficientFunds
	}

	for _, id := range []string{apostadorID, desafiadoID} {
		novo := saldos[id] - valor
		if _, err = tx.ExecContext(ctx, `UPDATE usuarios SET saldo_cents=$1 WHERE user_id=$2`, int64(novo), id); err != nil {
			return nil, err
		}
		if err = inserirTransacao(ctx, tx, id, -valor, models.CategoriaApostaBloqueada,
			saldos[id], novo, "Saldo bloqueado em aposta", false); err != nil {
			return nil, err
		}
	}

	a := &models.Aposta{
		ID:          uuid.NewString(),
		ApostadorID: apostadorID,
		DesafiadoID: desafiadoID,
		Valor:       valor,
		Descricao:   descricao,
		Status:      models.StatusApostaPendente,
		Data:        time.Now(),
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO apostas (id, apostador_id, desafiado_id, valor_cents, descricao, status, data)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.ApostadorID, a.DesafiadoID, int64(a.Valor), a.Descricao, a.Status, a.Data); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return a, nil
}

// GetAposta busca uma aposta pelo id.
func (p *Postgres) GetAposta(ctx context.Context, id string) (*models.Aposta, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id, apostador_id, desafiado_id, valor_cents, descricao, status, vencedor_id, data
		FROM apostas WHERE id=$1`, id)
	return scanAposta(row)
}

func scanAposta(row interface{ Scan(...any) error }) (*models.Aposta, error) {
	var a models.Aposta
	var vencedor sql.NullString
	err := row.Scan(&a.ID, &a.ApostadorID, &a.DesafiadoID, &a.Valor, &a.Descricao, &a.Status, &vencedor, &a.Data)
	if err == sql.ErrNoRows {
		return nil, models.ErrApostaNotFound
	}
	if err != nil {
		return nil, err
	}
	if vencedor.Valid {
		v := vencedor.String
		a.VencedorID = &v
	}
	return &a, nil
}

// ResolverAposta finaliza a aposta e credita o vencedor em uma transação:
// crédito líquido (aposta_vencida), lançamento informativo de imposto quando
// houver, e troca de status pendente -> finalizada com lock na linha da
// aposta (resolução dupla falha com ErrApostaResolved).
func (p *Postgres) ResolverAposta(ctx context.Context, apostaID, vencedorID string, credito, imposto money.Centavos) (*models.Aposta, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT id, apostador_id, desafiado_id, valor_cents, descricao, status, vencedor_id, data
		FROM apostas WHERE id=$1 FOR UPDATE`, apostaID)
	a, err := scanAposta(row)
	if err != nil {
		return nil, err
	}
	if a.Status != models.StatusApostaPendente {
		return nil, models.ErrApostaResolved
	}

	var saldo int64
	if err = tx.QueryRowContext(ctx, `SELECT saldo_cents FROM usuarios WHERE user_id=$1 FOR UPDATE`, vencedorID).Scan(&saldo); err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}

	novo := money.Centavos(saldo) + credito
	if _, err = tx.ExecContext(ctx, `UPDATE usuarios SET saldo_cents=$1 WHERE user_id=$2`, int64(novo), vencedorID); err != nil {
		return nil, err
	}
	if err = inserirTransacao(ctx, tx, vencedorID, credito, models.CategoriaApostaVencida,
		money.Centavos(saldo), novo, "Vitória em aposta "+apostaID, false); err != nil {
		return nil, err
	}
	if imposto > 0 {
		if err = inserirTransacao(ctx, tx, vencedorID, -imposto, models.CategoriaImposto,
			novo, novo, "Imposto sobre ganho de aposta", true); err != nil {
			return nil, err
		}
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE apostas SET status=$1, vencedor_id=$2 WHERE id=$3`,
		models.StatusApostaFinalizada, vencedorID, apostaID); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	a.Status = models.StatusApostaFinalizada
	a.VencedorID = &vencedorID
	return a, nil
}

// ApostasPendentes lista apostas aguardando o usuário como desafiado.
func (p *Postgres) ApostasPendentes(ctx context.Context, userID string) ([]*models.Aposta, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, apostador_id, desafiado_id, valor_cents, descricao, status, vencedor_id, data
		FROM apostas WHERE desafiado_id=$1 AND status=$2 ORDER BY data DESC`,
		userID, models.StatusApostaPendente)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Aposta
	for rows.Next() {
		a, err := scanAposta(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
