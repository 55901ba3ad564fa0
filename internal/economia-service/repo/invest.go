package repo

import (
	"context"
	"database/sql"

	"github.com/econplay/economia-platform/internal/economia-service/models"
	"github.com/econplay/economia-platform/pkg/money"
)

// ComprarAcao debita o custo total e atualiza a posição com preço médio
// ponderado por volume, na mesma transação.
func (p *Postgres) ComprarAcao(ctx context.Context, userID, ticker string, quantidade int64, precoUnitario money.Centavos, descricao string) (*models.Usuario, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	custoTotal := precoUnitario * money.Centavos(quantidade)

	row := tx.QueryRowContext(ctx, `SELECT `+colunasUsuario+` FROM usuarios WHERE user_id=$1 FOR UPDATE`, userID)
	u, err := scanUsuario(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if u.Saldo < custoTotal {
		return nil, models.ErrInsufficientFunds
	}

	novoSaldo := u.Saldo - custoTotal
	if _, err = tx.ExecContext(ctx, `UPDATE usuarios SET saldo_cents=$1 WHERE user_id=$2`, int64(novoSaldo), userID); err != nil {
		return nil, err
	}
	if err = inserirTransacao(ctx, tx, userID, -custoTotal, models.CategoriaInvestimento,
		u.Saldo, novoSaldo, descricao, false); err != nil {
		return nil, err
	}

	// Preço médio ponderado: (qtd_atual*medio + custo_da_compra) / nova_qtd
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO investimentos (user_id, ticker, quantidade, preco_medio_cents, atualizado_em)
		VALUES ($1,$2,$3,$4,now())
		ON CONFLICT (user_id, ticker) DO UPDATE SET
		  preco_medio_cents = (investimentos.quantidade * investimentos.preco_medio_cents + $3::bigint * $4::bigint)
		                      / (investimentos.quantidade + $3),
		  quantidade = investimentos.quantidade + $3,
		  atualizado_em = now()`,
		userID, ticker, quantidade, int64(precoUnitario)); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	u.Saldo = novoSaldo
	return u, nil
}

// VenderAcao credita a receita líquida, registra o imposto informativo quando
// houver, decrementa a quantidade (removendo a posição ao zerar) e mantém o
// preço médio inalterado, tudo em uma transação.
func (p *Postgres) VenderAcao(ctx context.Context, userID, ticker string, quantidade int64, receitaLiquida, imposto money.Centavos, descricao string) (*models.Usuario, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+colunasUsuario+` FROM usuarios WHERE user_id=$1 FOR UPDATE`, userID)
	u, err := scanUsuario(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	var qtdAtual int64
	err = tx.QueryRowContext(ctx, `
		SELECT quantidade FROM investimentos WHERE user_id=$1 AND ticker=$2 FOR UPDATE`,
		userID, ticker).Scan(&qtdAtual)
	if err == sql.ErrNoRows || (err == nil && qtdAtual < quantidade) {
		return nil, models.ErrPosicaoInsuficiente
	}
	if err != nil {
		return nil, err
	}

	novoSaldo := u.Saldo + receitaLiquida
	if _, err = tx.ExecContext(ctx, `UPDATE usuarios SET saldo_cents=$1 WHERE user_id=$2`, int64(novoSaldo), userID); err != nil {
		return nil, err
	}
	if err = inserirTransacao(ctx, tx, userID, receitaLiquida, models.CategoriaVendaAcao,
		u.Saldo, novoSaldo, descricao, false); err != nil {
		return nil, err
	}
	if imposto > 0 {
		if err = inserirTransacao(ctx, tx, userID, -imposto, models.CategoriaImposto,
			novoSaldo, novoSaldo, "Imposto sobre venda de "+ticker, true); err != nil {
			return nil, err
		}
	}

	if qtdAtual == quantidade {
		if _, err = tx.ExecContext(ctx, `DELETE FROM investimentos WHERE user_id=$1 AND ticker=$2`, userID, ticker); err != nil {
			return nil, err
		}
	} else {
		if _, err = tx.ExecContext(ctx, `
			UPDATE investimentos SET quantidade = quantidade - $3, atualizado_em = now()
			WHERE user_id=$1 AND ticker=$2`, userID, ticker, quantidade); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	u.Saldo = novoSaldo
	return u, nil
}

// Carteira lista as posições do usuário.
func (p *Postgres) Carteira(ctx context.Context, userID string) ([]*models.Posicao, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT user_id, ticker, quantidade, preco_medio_cents, atualizado_em
		FROM investimentos WHERE user_id=$1 ORDER BY ticker`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Posicao
	for rows.Next() {
		var pos models.Posicao
		if err := rows.Scan(&pos.UserID, &pos.Ticker, &pos.Quantidade, &pos.PrecoMedio, &pos.AtualizadoEm); err != nil {
			return nil, err
		}
		out = append(out, &pos)
	}
	return out, rows.Err()
}

// GetPosicao busca uma posição específica.
func (p *Postgres) GetPosicao(ctx context.Context, userID, ticker string) (*models.Posicao, error) {
	var pos models.Posicao
	err := p.db.QueryRowContext(ctx, `
		SELECT user_id, ticker, quantidade, preco_medio_cents, atualizado_em
		FROM investimentos WHERE user_id=$1 AND ticker=$2`, userID, ticker).
		Scan(&pos.UserID, &pos.Ticker, &pos.Quantidade, &pos.PrecoMedio, &pos.AtualizadoEm)
	if err == sql.ErrNoRows {
		return nil, models.ErrPosicaoInsuficiente
	}
	if err != nil {
		return nil, err
	}
	return &pos, nil
}
