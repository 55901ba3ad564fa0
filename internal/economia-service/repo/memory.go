package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/econplay/economia-platform/internal/economia-service/models"
	"github.com/econplay/economia-platform/pkg/money"
)

// Memory é a implementação em memória do mesmo contrato do Postgres.
// Usada nos testes dos engines e selecionável com STORAGE_DRIVER=memoria.
// Um único mutex serializa grupos de mutação: atomicidade por simplicidade,
// leitores nunca observam um grupo parcialmente aplicado.
type Memory struct {
	mu       sync.Mutex
	politica models.PoliticaSaldoNegativo

	usuarios   map[string]*models.Usuario
	transacoes []*models.Transacao
	pix        []*models.PixTransferencia
	apostas    map[string]*models.Aposta
	posicoes   map[string]map[string]*models.Posicao // userID -> ticker
	proximoID  int64
}

func NewMemory(politica models.PoliticaSaldoNegativo) *Memory {
	return &Memory{
		politica: politica,
		usuarios: make(map[string]*models.Usuario),
		apostas:  make(map[string]*models.Aposta),
		posicoes: make(map[string]map[string]*models.Posicao),
	}
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func copiaUsuario(u *models.Usuario) *models.Usuario {
	c := *u
	if u.UltimaRecompensaDaily != nil {
		t := *u.UltimaRecompensaDaily
		c.UltimaRecompensaDaily = &t
	}
	return &c
}

func (m *Memory) getOrCreateLocked(userID, username string) *models.Usuario {
	if u, ok := m.usuarios[userID]; ok {
		return u
	}
	u := &models.Usuario{
		UserID:   userID,
		Username: username,
		Saldo:    models.SaldoInicial,
		Nivel:    1,
		CriadoEm: time.Now(),
	}
	m.usuarios[userID] = u
	return u
}

func (m *Memory) GetOrCreate(ctx context.Context, userID, username string) (*models.Usuario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copiaUsuario(m.getOrCreateLocked(userID, username)), nil
}

func (m *Memory) Get(ctx context.Context, userID string) (*models.Usuario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.usuarios[userID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return copiaUsuario(u), nil
}

func (m *Memory) registrarLocked(userID string, delta money.Centavos, tipo models.Categoria, antes, depois money.Centavos, descricao string, informativo bool) {
	m.proximoID++
	m.transacoes = append(m.transacoes, &models.Transacao{
		ID:             m.proximoID,
		UserID:         userID,
		Valor:          delta,
		Tipo:           tipo,
		SaldoAnterior:  antes,
		SaldoPosterior: depois,
		Descricao:      descricao,
		Informativo:    informativo,
		Data:           time.Now(),
	})
}

func (m *Memory) aplicarDeltaLocked(userID string, delta money.Centavos, tipo models.Categoria, descricao string) (*models.Usuario, error) {
	u, ok := m.usuarios[userID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	novo := u.Saldo + delta
	if novo < 0 && !m.politica.Permite(tipo) {
		return nil, models.ErrInsufficientFunds
	}
	antes := u.Saldo
	u.Saldo = novo
	m.registrarLocked(userID, delta, tipo, antes, novo, descricao, false)
	return u, nil
}

func (m *Memory) ApplyDelta(ctx context.Context, userID string, delta money.Centavos, tipo models.Categoria, descricao string) (*models.Usuario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.aplicarDeltaLocked(userID, delta, tipo, descricao)
	if err != nil {
		return nil, err
	}
	return copiaUsuario(u), nil
}

func (m *Memory) RegistrarInformativa(ctx context.Context, userID string, delta money.Centavos, tipo models.Categoria, descricao string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.usuarios[userID]
	if !ok {
		return models.ErrUserNotFound
	}
	m.registrarLocked(userID, delta, tipo, u.Saldo, u.Saldo, descricao, true)
	return nil
}

func (m *Memory) AddExperiencia(ctx context.Context, userID string, xp int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.usuarios[userID]
	if !ok {
		return models.ErrUserNotFound
	}
	total := u.Experiencia + xp
	u.Nivel += total / models.XPPorNivel
	u.Experiencia = total % models.XPPorNivel
	return nil
}

func (m *Memory) SetDaily(ctx context.Context, userID string, resgatadoEm time.Time, streak int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.usuarios[userID]
	if !ok {
		return models.ErrUserNotFound
	}
	t := resgatadoEm
	u.UltimaRecompensaDaily = &t
	u.StreakDaily = streak
	return nil
}

func (m *Memory) SetBloqueado(ctx context.Context, userID, motivo string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.usuarios[userID]
	if !ok {
		return models.ErrUserNotFound
	}
	u.PixBloqueado = true
	u.PixBloqueioMotivo = motivo
	return nil
}

func (m *Memory) ClearBloqueado(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.usuarios[userID]
	if !ok {
		return models.ErrUserNotFound
	}
	u.PixBloqueado = false
	u.PixBloqueioMotivo = ""
	return nil
}

func (m *Memory) TopRicos(ctx context.Context, limite int) ([]*models.Usuario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Usuario, 0, len(m.usuarios))
	for _, u := range m.usuarios {
		out = append(out, copiaUsuario(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Saldo > out[j].Saldo })
	if len(out) > limite {
		out = out[:limite]
	}
	return out, nil
}

func (m *Memory) Extrato(ctx context.Context, userID string, filtro models.FiltroExtrato) ([]*models.Transacao, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	limite := filtro.Limite
	if limite <= 0 || limite > 100 {
		limite = 50
	}
	var out []*models.Transacao
	for i := len(m.transacoes) - 1; i >= 0 && len(out) < limite; i-- {
		t := m.transacoes[i]
		if t.UserID != userID {
			continue
		}
		if filtro.Tipo != "" && t.Tipo != filtro.Tipo {
			continue
		}
		if filtro.Desde != nil && t.Data.Before(*filtro.Desde) {
			continue
		}
		if filtro.Ate != nil && t.Data.After(*filtro.Ate) {
			continue
		}
		c := *t
		out = append(out, &c)
	}
	return out, nil
}

func (m *Memory) TransferirPix(ctx context.Context, pix *models.PixTransferencia) (*models.PixTransferencia, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	remetente, ok := m.usuarios[pix.RemetenteID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	destinatario, ok := m.usuarios[pix.DestinatarioID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	if remetente.Saldo < pix.ValorBruto {
		return nil, models.ErrInsufficientFunds
	}

	antes := remetente.Saldo
	remetente.Saldo -= pix.ValorBruto
	m.registrarLocked(pix.RemetenteID, -pix.ValorBruto, models.CategoriaPixEnviado,
		antes, remetente.Saldo, "PIX para "+pix.DestinatarioNome+": "+pix.Descricao, false)
	m.registrarLocked(pix.RemetenteID, -pix.Taxa, models.CategoriaTaxaPix,
		remetente.Saldo, remetente.Saldo, "Taxa de 1% sobre PIX de "+pix.ValorBruto.String(), true)

	antesDest := destinatario.Saldo
	destinatario.Saldo += pix.ValorLiquido
	m.registrarLocked(pix.DestinatarioID, pix.ValorLiquido, models.CategoriaPixRecebido,
		antesDest, destinatario.Saldo, "PIX de "+pix.RemetenteNome+": "+pix.Descricao, false)

	c := *pix
	c.ID = uuid.NewString()
	c.Status = models.StatusPixConcluido
	c.Data = time.Now()
	m.pix = append(m.pix, &c)
	res := c
	return &res, nil
}

func (m *Memory) HistoricoPix(ctx context.Context, userID string, limite int) ([]*models.PixTransferencia, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limite <= 0 || limite > 100 {
		limite = 10
	}
	var out []*models.PixTransferencia
	for i := len(m.pix) - 1; i >= 0 && len(out) < limite; i-- {
		t := m.pix[i]
		if t.RemetenteID == userID || t.DestinatarioID == userID {
			c := *t
			out = append(out, &c)
		}
	}
	return out, nil
}

// AgregadoPix é um fold em streaming sobre o histórico.
func (m *Memory) AgregadoPix(ctx context.Context, desde, ate time.Time) (*models.Resumo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var r models.Resumo
	for _, t := range m.pix {
		if t.Data.Before(desde) || t.Data.After(ate) {
			continue
		}
		r.Quantidade++
		r.SomaBruto += t.ValorBruto
		r.SomaTaxas += t.Taxa
		r.SomaLiquido += t.ValorLiquido
	}
	return &r, nil
}

func (m *Memory) AltoValor(ctx context.Context, desde time.Time, limiteValor money.Centavos, max int) ([]*models.PixTransferencia, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.PixTransferencia
	for _, t := range m.pix {
		if !t.Data.Before(desde) && t.ValorBruto > limiteValor {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ValorBruto > out[j].ValorBruto })
	if len(out) > max {
		out = out[:max]
	}
	return out, nil
}

func (m *Memory) RemetentesFrequentes(ctx context.Context, desde time.Time, limiteQuantidade int) ([]*models.RemetenteStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	por := map[string]*models.RemetenteStats{}
	for _, t := range m.pix {
		if t.Data.Before(desde) {
			continue
		}
		s, ok := por[t.RemetenteID]
		if !ok {
			s = &models.RemetenteStats{UserID: t.RemetenteID}
			por[t.RemetenteID] = s
		}
		s.Quantidade++
		s.ValorTotal += t.ValorBruto
	}
	var out []*models.RemetenteStats
	for _, s := range por {
		if s.Quantidade > limiteQuantidade {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Quantidade > out[j].Quantidade })
	return out, nil
}

func (m *Memory) EstatisticasPix(ctx context.Context, userID string) (*EstatisticasPix, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var st EstatisticasPix
	for _, t := range m.pix {
		if t.RemetenteID == userID {
			st.TotalEnviados++
			st.ValorTotalEnviado += t.ValorBruto
			st.TotalTaxas += t.Taxa
			if t.ValorBruto > st.MaiorEnviado {
				st.MaiorEnviado = t.ValorBruto
			}
		}
		if t.DestinatarioID == userID {
			st.TotalRecebidos++
			st.ValorTotalRecebido += t.ValorLiquido
			if t.ValorLiquido > st.MaiorRecebido {
				st.MaiorRecebido = t.ValorLiquido
			}
		}
	}
	st.Balanco = st.ValorTotalRecebido - st.ValorTotalEnviado
	return &st, nil
}

func (m *Memory) CriarAposta(ctx context.Context, apostadorID, desafiadoID string, valor money.Centavos, descricao string) (*models.Aposta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	apostador, ok := m.usuarios[apostadorID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	desafiado, ok := m.usuarios[desafiadoID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	if apostador.Saldo < valor || desafiado.Saldo < valor {
		return nil, models.ErrInsufficientFunds
	}

	for _, u := range []*models.Usuario{apostador, desafiado} {
		antes := u.Saldo
		u.Saldo -= valor
		m.registrarLocked(u.UserID, -valor, models.CategoriaApostaBloqueada,
			antes, u.Saldo, "Saldo bloqueado em aposta", false)
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
	m.apostas[a.ID] = a
	c := *a
	return &c, nil
}

func (m *Memory) GetAposta(ctx context.Context, id string) (*models.Aposta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apostas[id]
	if !ok {
		return nil, models.ErrApostaNotFound
	}
	c := *a
	return &c, nil
}

func (m *Memory) ResolverAposta(ctx context.Context, apostaID, vencedorID string, credito, imposto money.Centavos) (*models.Aposta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.apostas[apostaID]
	if !ok {
		return nil, models.ErrApostaNotFound
	}
	if a.Status != models.StatusApostaPendente {
		return nil, models.ErrApostaResolved
	}
	u, ok := m.usuarios[vencedorID]
	if !ok {
		return nil, models.ErrUserNotFound
	}

	antes := u.Saldo
	u.Saldo += credito
	m.registrarLocked(vencedorID, credito, models.CategoriaApostaVencida,
		antes, u.Saldo, "Vitória em aposta "+apostaID, false)
	if imposto > 0 {
		m.registrarLocked(vencedorID, -imposto, models.CategoriaImposto,
			u.Saldo, u.Saldo, "Imposto sobre ganho de aposta", true)
	}

	a.Status = models.StatusApostaFinalizada
	a.VencedorID = &vencedorID
	c := *a
	return &c, nil
}

func (m *Memory) ApostasPendentes(ctx context.Context, userID string) ([]*models.Aposta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Aposta
	for _, a := range m.apostas {
		if a.DesafiadoID == userID && a.Status == models.StatusApostaPendente {
			c := *a
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Data.After(out[j].Data) })
	return out, nil
}

func (m *Memory) ComprarAcao(ctx context.Context, userID, ticker string, quantidade int64, precoUnitario money.Centavos, descricao string) (*models.Usuario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	custoTotal := precoUnitario * money.Centavos(quantidade)
	u, err := m.aplicarDeltaLocked(userID, -custoTotal, models.CategoriaInvestimento, descricao)
	if err != nil {
		return nil, err
	}

	carteira, ok := m.posicoes[userID]
	if !ok {
		carteira = make(map[string]*models.Posicao)
		m.posicoes[userID] = carteira
	}
	pos, ok := carteira[ticker]
	if !ok {
		carteira[ticker] = &models.Posicao{
			UserID: userID, Ticker: ticker,
			Quantidade: quantidade, PrecoMedio: precoUnitario,
			AtualizadoEm: time.Now(),
		}
	} else {
		novaQtd := pos.Quantidade + quantidade
		pos.PrecoMedio = (money.Centavos(pos.Quantidade)*pos.PrecoMedio + custoTotal) / money.Centavos(novaQtd)
		pos.Quantidade = novaQtd
		pos.AtualizadoEm = time.Now()
	}
	return copiaUsuario(u), nil
}

func (m *Memory) VenderAcao(ctx context.Context, userID, ticker string, quantidade int64, receitaLiquida, imposto money.Centavos, descricao string) (*models.Usuario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pos, ok := m.posicoes[userID][ticker]
	if !ok || pos.Quantidade < quantidade {
		return nil, models.ErrPosicaoInsuficiente
	}

	u, err := m.aplicarDeltaLocked(userID, receitaLiquida, models.CategoriaVendaAcao, descricao)
	if err != nil {
		return nil, err
	}
	if imposto > 0 {
		m.registrarLocked(userID, -imposto, models.CategoriaImposto, u.Saldo, u.Saldo,
			"Imposto sobre venda de "+ticker, true)
	}

	pos.Quantidade -= quantidade
	pos.AtualizadoEm = time.Now()
	if pos.Quantidade == 0 {
		delete(m.posicoes[userID], ticker)
	}
	return copiaUsuario(u), nil
}

func (m *Memory) Carteira(ctx context.Context, userID string) ([]*models.Posicao, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Posicao
	for _, pos := range m.posicoes[userID] {
		c := *pos
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out, nil
}

func (m *Memory) GetPosicao(ctx context.Context, userID, ticker string) (*models.Posicao, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pos, ok := m.posicoes[userID][ticker]
	if !ok {
		return nil, models.ErrPosicaoInsuficiente
	}
	c := *pos
	return &c, nil
}
