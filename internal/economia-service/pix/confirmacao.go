package pix

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TimeoutConfirmacaoPadrao é a janela que o destinatário tem para responder.
const TimeoutConfirmacaoPadrao = 30 * time.Second

var ErrConfirmacaoNaoEncontrada = errors.New("confirmação não encontrada ou expirada")

// Resultado de uma confirmação pendente.
type Resultado string

const (
	Confirmada Resultado = "confirmada"
	Recusada   Resultado = "recusada"
	Expirada   Resultado = "expirada"
)

type pendente struct {
	req   Requisicao
	done  chan Resultado
	timer *time.Timer
	uma   sync.Once
}

// resolver fecha a pendência exatamente uma vez; chamadas tardias são ignoradas.
func (p *pendente) resolver(r Resultado) {
	p.uma.Do(func() {
		p.timer.Stop()
		p.done <- r
		close(p.done)
	})
}

// registroPendentes guarda as confirmações em voo, indexadas por token.
type registroPendentes struct {
	mu       sync.Mutex
	porToken map[string]*pendente
	timeout  time.Duration
}

func novoRegistroPendentes() *registroPendentes {
	return &registroPendentes{
		porToken: make(map[string]*pendente),
		timeout:  TimeoutConfirmacaoPadrao,
	}
}

func (r *registroPendentes) registrar(req Requisicao) (string, time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token := uuid.NewString()
	p := &pendente{
		req:  req,
		done: make(chan Resultado, 1),
	}
	p.timer = time.AfterFunc(r.timeout, func() {
		r.mu.Lock()
		_, emVoo := r.porToken[token]
		delete(r.porToken, token)
		r.mu.Unlock()
		// Se alguém já retirou o token, a resolução pertence a quem retirou.
		if emVoo {
			p.resolver(Expirada)
		}
	})
	r.porToken[token] = p
	return token, time.Now().Add(r.timeout)
}

// retirar remove a pendência do índice; quem retirou é dono da resolução.
func (r *registroPendentes) retirar(token string) (*pendente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.porToken[token]
	if !ok {
		return nil, ErrConfirmacaoNaoEncontrada
	}
	delete(r.porToken, token)
	p.timer.Stop()
	return p, nil
}

func (r *registroPendentes) aguardar(ctx context.Context, token string) Resultado {
	r.mu.Lock()
	p, ok := r.porToken[token]
	r.mu.Unlock()
	if !ok {
		return Expirada
	}
	select {
	case res, aberto := <-p.done:
		if !aberto {
			return Expirada
		}
		return res
	case <-ctx.Done():
		return Expirada
	}
}
