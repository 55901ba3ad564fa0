package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/econplay/economia-platform/internal/economia-service/models"
	"github.com/econplay/economia-platform/pkg/money"
)

func novoPostgresMock(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db, models.PoliticaPadrao()), mock
}

func linhaUsuario(saldo int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"user_id", "username", "saldo_cents", "nivel", "experiencia", "streak_daily",
		"ultima_recompensa_daily", "pix_bloqueado", "pix_bloqueio_motivo", "criado_em",
	}).AddRow("alice", "Alice", saldo, 1, 0, 0, nil, false, "", time.Now())
}

func TestApplyDeltaCommit(t *testing.T) {
	pg, mock := novoPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM usuarios WHERE user_id=\$1 FOR UPDATE`).
		WithArgs("alice").
		WillReturnRows(linhaUsuario(10_000))
	mock.ExpectExec(`UPDATE usuarios SET saldo_cents=\$1 WHERE user_id=\$2`).
		WithArgs(int64(7_500), "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transacoes`).
		WithArgs("alice", int64(-2_500), "pix_enviado", int64(10_000), int64(7_500), "PIX para Bob", false).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	u, err := pg.ApplyDelta(context.Background(), "alice", -2_500, models.CategoriaPixEnviado, "PIX para Bob")
	require.NoError(t, err)
	assert.Equal(t, money.Centavos(7_500), u.Saldo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyDeltaSaldoInsuficiente(t *testing.T) {
	pg, mock := novoPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FOR UPDATE`).
		WithArgs("alice").
		WillReturnRows(linhaUsuario(1_000))
	mock.ExpectRollback()

	_, err := pg.ApplyDelta(context.Background(), "alice", -2_000, models.CategoriaPixEnviado, "x")
	assert.ErrorIs(t, err, models.ErrInsufficientFunds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyDeltaSaldoNegativoPermitidoPorPolitica(t *testing.T) {
	pg, mock := novoPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FOR UPDATE`).
		WithArgs("alice").
		WillReturnRows(linhaUsuario(1_000))
	mock.ExpectExec(`UPDATE usuarios SET saldo_cents=\$1`).
		WithArgs(int64(-1_000), "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transacoes`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	u, err := pg.ApplyDelta(context.Background(), "alice", -2_000, models.CategoriaApostaPerdida, "derrota")
	require.NoError(t, err)
	assert.Equal(t, money.Centavos(-1_000), u.Saldo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyDeltaRollbackQuandoExtratoFalha(t *testing.T) {
	pg, mock := novoPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FOR UPDATE`).
		WithArgs("alice").
		WillReturnRows(linhaUsuario(10_000))
	mock.ExpectExec(`UPDATE usuarios SET saldo_cents=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transacoes`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := pg.ApplyDelta(context.Background(), "alice", -2_500, models.CategoriaPixEnviado, "x")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyDeltaUsuarioInexistente(t *testing.T) {
	pg, mock := novoPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FOR UPDATE`).
		WithArgs("fantasma").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	mock.ExpectRollback()

	_, err := pg.ApplyDelta(context.Background(), "fantasma", 100, models.CategoriaAdmin, "x")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateInsereComSaldoInicial(t *testing.T) {
	pg, mock := novoPostgresMock(t)

	mock.ExpectExec(`INSERT INTO usuarios`).
		WithArgs("alice", "Alice", int64(models.SaldoInicial)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .+ FROM usuarios WHERE user_id=\$1`).
		WithArgs("alice").
		WillReturnRows(linhaUsuario(int64(models.SaldoInicial)))

	u, err := pg.GetOrCreate(context.Background(), "alice", "Alice")
	require.NoError(t, err)
	assert.Equal(t, models.SaldoInicial, u.Saldo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrarInformativaNaoMoveSaldo(t *testing.T) {
	pg, mock := novoPostgresMock(t)

	mock.ExpectQuery(`SELECT saldo_cents FROM usuarios`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"saldo_cents"}).AddRow(9_000))
	mock.ExpectExec(`INSERT INTO transacoes`).
		WithArgs("alice", int64(-100), "taxa_pix", int64(9_000), "Taxa de 1%").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := pg.RegistrarInformativa(context.Background(), "alice", -100, models.CategoriaTaxaPix, "Taxa de 1%")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetBloqueadoUsuarioInexistente(t *testing.T) {
	pg, mock := novoPostgresMock(t)

	mock.ExpectExec(`UPDATE usuarios SET pix_bloqueado=true`).
		WithArgs("motivo", "fantasma").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := pg.SetBloqueado(context.Background(), "fantasma", "motivo")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestTransferirPixTravaContasEmOrdem(t *testing.T) {
	pg, mock := novoPostgresMock(t)

	// remetente "zeca" > destinatário "ana": o lock deve vir em ordem
	// lexicográfica pra evitar deadlock entre transferências cruzadas
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT saldo_cents FROM usuarios WHERE user_id=\$1 FOR UPDATE`).
		WithArgs("ana").
		WillReturnRows(sqlmock.NewRows([]string{"saldo_cents"}).AddRow(0))
	mock.ExpectQuery(`SELECT saldo_cents FROM usuarios WHERE user_id=\$1 FOR UPDATE`).
		WithArgs("zeca").
		WillReturnRows(sqlmock.NewRows([]string{"saldo_cents"}).AddRow(100_000))
	mock.ExpectExec(`UPDATE usuarios SET saldo_cents=\$1 WHERE user_id=\$2`).
		WithArgs(int64(90_000), "zeca").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transacoes`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO transacoes`).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec(`UPDATE usuarios SET saldo_cents=\$1 WHERE user_id=\$2`).
		WithArgs(int64(9_900), "ana").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transacoes`).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec(`INSERT INTO pix_transacoes`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	pix, err := pg.TransferirPix(context.Background(), &models.PixTransferencia{
		RemetenteID:      "zeca",
		RemetenteNome:    "Zeca",
		DestinatarioID:   "ana",
		DestinatarioNome: "Ana",
		ValorBruto:       10_000,
		Taxa:             100,
		ValorLiquido:     9_900,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pix.ID)
	assert.Equal(t, models.StatusPixConcluido, pix.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferirPixSaldoInsuficiente(t *testing.T) {
	pg, mock := novoPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT saldo_cents .+ FOR UPDATE`).
		WithArgs("ana").
		WillReturnRows(sqlmock.NewRows([]string{"saldo_cents"}).AddRow(0))
	mock.ExpectQuery(`SELECT saldo_cents .+ FOR UPDATE`).
		WithArgs("zeca").
		WillReturnRows(sqlmock.NewRows([]string{"saldo_cents"}).AddRow(5_000))
	mock.ExpectRollback()

	_, err := pg.TransferirPix(context.Background(), &models.PixTransferencia{
		RemetenteID:    "zeca",
		DestinatarioID: "ana",
		ValorBruto:     10_000,
		Taxa:           100,
		ValorLiquido:   9_900,
	})
	assert.ErrorIs(t, err, models.ErrInsufficientFunds)
	assert.NoError(t, mock.ExpectationsWereMet())
}
