package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/econplay/economia-platform/internal/economia-service/models"
	"github.com/econplay/economia-platform/pkg/money"
)

// Postgres implementa o armazenamento de contas, extrato, PIX, apostas e
// carteira de investimentos em banco Postgres.
type Postgres struct {
	db       *sql.DB
	politica models.PoliticaSaldoNegativo
}

func NewPostgres(db *sql.DB, politica models.PoliticaSaldoNegativo) *Postgres {
	return &Postgres{db: db, politica: politica}
}

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

const colunasUsuario = `user_id, username, saldo_cents, nivel, experiencia, streak_daily,
	ultima_recompensa_daily, pix_bloqueado, pix_bloqueio_motivo, criado_em`

func scanUsuario(row interface{ Scan(...any) error }) (*models.Usuario, error) {
	var u models.Usuario
	var ultima sql.NullTime
	var motivo sql.NullString
	err := row.Scan(&u.UserID, &u.Username, &u.Saldo, &u.Nivel, &u.Experiencia,
		&u.StreakDaily, &ultima, &u.PixBloqueado, &motivo, &u.CriadoEm)
	if err != nil {
		return nil, err
	}
	if ultima.Valid {
		t := ultima.Time
		u.UltimaRecompensaDaily = &t
	}
	u.PixBloqueioMotivo = motivo.String
	return &u, nil
}

// GetOrCreate retorna o usuário, criando a conta com saldo inicial se não
// existir. Idempotente: chamadas concorrentes para o mesmo id novo não criam
// duplicatas (ON CONFLICT DO NOTHING, o primeiro escritor vence).
func (p *Postgres) GetOrCreate(ctx context.Context, userID, username string) (*models.Usuario, error) {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO usuarios (user_id, username, saldo_cents, nivel, experiencia, streak_daily, pix_bloqueado, criado_em)
		VALUES ($1,$2,$3,1,0,0,false,now())
		ON CONFLICT (user_id) DO NOTHING`,
		userID, username, int64(models.SaldoInicial))
	if err != nil {
		return nil, fmt.Errorf("insert usuario: %w", err)
	}
	return p.Get(ctx, userID)
}

func (p *Postgres) Get(ctx context.Context, userID string) (*models.Usuario, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+colunasUsuario+` FROM usuarios WHERE user_id=$1`, userID)
	u, err := scanUsuario(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ApplyDelta aplica um delta atômico no saldo e registra exatamente um
// lançamento autoritativo no extrato, na mesma transação.
// Lock pessimista na linha do usuário serializa mutações concorrentes.
func (p *Postgres) ApplyDelta(ctx context.Context, userID string, delta money.Centavos, tipo models.Categoria, descricao string) (*models.Usuario, error) {
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

	saldoAnterior := u.Saldo
	novoSaldo := saldoAnterior + delta
	if novoSaldo < 0 && !p.politica.Permite(tipo) {
		return nil, models.ErrInsufficientFunds
	}

	if _, err = tx.ExecContext(ctx, `UPDATE usuarios SET saldo_cents=$1 WHERE user_id=$2`, int64(novoSaldo), userID); err != nil {
		return nil, err
	}

	if err = inserirTransacao(ctx, tx, userID, delta, tipo, saldoAnterior, novoSaldo, descricao, false); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	u.Saldo = novoSaldo
	return u, nil
}

// RegistrarInformativa grava um lançamento que não move saldo (taxa, imposto):
// o valor já está embutido no lançamento autoritativo do mesmo grupo.
func (p *Postgres) RegistrarInformativa(ctx context.Context, userID string, delta money.Centavos, tipo models.Categoria, descricao string) error {
	var saldo int64
	if err := p.db.QueryRowContext(ctx, `SELECT saldo_cents FROM usuarios WHERE user_id=$1`, userID).Scan(&saldo); err != nil {
		if err == sql.ErrNoRows {
			return models.ErrUserNotFound
		}
		return err
	}
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO transacoes (user_id, valor_cents, tipo, saldo_anterior_cents, saldo_posterior_cents, descricao, informativo, data)
		VALUES ($1,$2,$3,$4,$4,$5,true,now())`,
		userID, int64(delta), string(tipo), saldo, descricao)
	return err
}

func inserirTransacao(ctx context.Context, tx *sql.Tx, userID string, delta money.Centavos, tipo models.Categoria, antes, depois money.Centavos, descricao string, informativo bool) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transacoes (user_id, valor_cents, tipo, saldo_anterior_cents, saldo_posterior_cents, descricao, informativo, data)
		VALUES ($1,$2,$3,$4,$5,$6,$7,now())`,
		userID, int64(delta), string(tipo), int64(antes), int64(depois), descricao, informativo)
	return err
}

// AddExperiencia soma XP e promove nível a cada 1000 pontos, com carryover.
func (p *Postgres) AddExperiencia(ctx context.Context, userID string, xp int) error {
	_, err := p.db.ExecContext(ctx, `
		UPDATE usuarios SET
			nivel = nivel + (experiencia + $1) / $2,
			experiencia = (experiencia + $1) % $2
		WHERE user_id=$3`,
		xp, models.XPPorNivel, userID)
	return err
}

// SetDaily registra o resgate da recompensa diária e o streak resultante.
func (p *Postgres) SetDaily(ctx context.Context, userID string, resgatadoEm time.Time, streak int) error {
	_, err := p.db.ExecContext(ctx, `
		UPDATE usuarios SET ultima_recompensa_daily=$1, streak_daily=$2 WHERE user_id=$3`,
		resgatadoEm, streak, userID)
	return err
}

// SetBloqueado liga o bloqueio de PIX com o motivo informado.
func (p *Postgres) SetBloqueado(ctx context.Context, userID, motivo string) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE usuarios SET pix_bloqueado=true, pix_bloqueio_motivo=$1 WHERE user_id=$2`,
		motivo, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func (p *Postgres) ClearBloqueado(ctx context.Context, userID string) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE usuarios SET pix_bloqueado=false, pix_bloqueio_motivo='' WHERE user_id=$1`, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// TopRicos retorna o ranking por saldo, decrescente.
func (p *Postgres) TopRicos(ctx context.Context, limite int) ([]*models.Usuario, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT `+colunasUsuario+` FROM usuarios ORDER BY saldo_cents DESC LIMIT $1`, limite)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Usuario
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Extrato retorna lançamentos do usuário, mais recentes primeiro.
// Paginação só por limite (máximo 100), como o comportamento legado.
func (p *Postgres) Extrato(ctx context.Context, userID string, filtro models.FiltroExtrato) ([]*models.Transacao, error) {
	limite := filtro.Limite
	if limite <= 0 || limite > 100 {
		limite = 50
	}

	q := `SELECT id, user_id, valor_cents, tipo, saldo_anterior_cents, saldo_posterior_cents, descricao, informativo, data
		FROM transacoes WHERE user_id=$1`
	args := []any{userID}
	if filtro.Tipo != "" {
		args = append(args, string(filtro.Tipo))
		q += fmt.Sprintf(" AND tipo=$%d", len(args))
	}
	if filtro.Desde != nil {
		args = append(args, *filtro.Desde)
		q += fmt.Sprintf(" AND data >= $%d", len(args))
	}
	if filtro.Ate != nil {
		args = append(args, *filtro.Ate)
		q += fmt.Sprintf(" AND data <= $%d", len(args))
	}
	args = append(args, limite)
	q += fmt.Sprintf(" ORDER BY data DESC, id DESC LIMIT $%d", len(args))

	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Transacao
	for rows.Next() {
		var t models.Transacao
		if err := rows.Scan(&t.ID, &t.UserID, &t.Valor, &t.Tipo, &t.SaldoAnterior,
			&t.SaldoPosterior, &t.Descricao, &t.Informativo, &t.Data); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}
