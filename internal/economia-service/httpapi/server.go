package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/econplay/economia-platform/internal/economia-service/account"
	"github.com/econplay/economia-platform/internal/economia-service/aposta"
	"github.com/econplay/economia-platform/internal/economia-service/casino"
	"github.com/econplay/economia-platform/internal/economia-service/dto"
	"github.com/econplay/economia-platform/internal/economia-service/fraud"
	"github.com/econplay/economia-platform/internal/economia-service/invest"
	"github.com/econplay/economia-platform/internal/economia-service/models"
	"github.com/econplay/economia-platform/internal/economia-service/pix"
	"github.com/econplay/economia-platform/internal/economia-service/ws"
)

// Server junta os engines por trás da API REST v1.
type Server struct {
	log     *zap.Logger
	contas  *account.Service
	pix     *pix.Engine
	casino  *casino.Engine
	apostas *aposta.Engine
	invest  *invest.Engine
	fraude  *fraud.Analyzer
	hub     *ws.Hub
}

func NewServer(log *zap.Logger, contas *account.Service, pixEngine *pix.Engine, casinoEngine *casino.Engine, apostas *aposta.Engine, investEngine *invest.Engine, fraude *fraud.Analyzer, hub *ws.Hub) *Server {
	return &Server{
		log:     log,
		contas:  contas,
		pix:     pixEngine,
		casino:  casinoEngine,
		apostas: apostas,
		invest:  investEngine,
		fraude:  fraude,
		hub:     hub,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Route("/v1", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", s.criarConta)
			r.Get("/{userID}", s.getConta)
			r.Post("/{userID}/daily", s.daily)
			r.Get("/{userID}/extrato", s.extrato)
		})
		r.Get("/ranking", s.ranking)

		r.Route("/pix", func(r chi.Router) {
			r.Post("/iniciar", s.pixIniciar)
			r.Post("/confirmar", s.pixConfirmar)
			r.Get("/historico/{userID}", s.pixHistorico)
			r.Get("/stats/{userID}", s.pixStats)
		})

		r.Route("/casino", func(r chi.Router) {
			r.Post("/coinflip", s.jogo(casino.JogoCoinFlip))
			r.Post("/slots", s.jogo(casino.JogoSlots))
			r.Post("/roleta", s.jogo(casino.JogoRoleta))
		})

		r.Route("/apostas", func(r chi.Router) {
			r.Post("/", s.apostaCriar)
			r.Get("/pendentes/{userID}", s.apostasPendentes)
			r.Post("/{apostaID}/resolver", s.apostaResolver)
		})

		r.Route("/invest", func(r chi.Router) {
			r.Post("/comprar", s.investComprar)
			r.Post("/vender", s.investVender)
			r.Get("/carteira/{userID}", s.investCarteira)
			r.Get("/cotacao/{ticker}", s.investCotacao)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/bloquear/{userID}", s.adminBloquear)
			r.Post("/desbloquear/{userID}", s.adminDesbloquear)
			r.Post("/ajuste/{userID}", s.adminAjuste)
			r.Get("/suspeitos", s.adminSuspeitos)
		})
	})

	r.Get("/ws", s.hub.HandleWS)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErro mapeia sentinelas de validação para 4xx; o resto vira 500.
func (s *Server) writeErro(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrApostaNotFound),
		errors.Is(err, pix.ErrConfirmacaoNaoEncontrada):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrInsufficientFunds),
		errors.Is(err, models.ErrApostaResolved),
		errors.Is(err, models.ErrPosicaoInsuficiente),
		errors.Is(err, account.ErrDailyEmCooldown):
		status = http.StatusConflict
	case errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, pix.ErrAutoTransferencia),
		errors.Is(err, pix.ErrDestinatarioSistema),
		errors.Is(err, casino.ErrJogoDesconhecido),
		errors.Is(err, casino.ErrLadoInvalido),
		errors.Is(err, casino.ErrNumeroInvalido),
		errors.Is(err, aposta.ErrAutoDesafio),
		errors.Is(err, aposta.ErrVencedorInvalido):
		status = http.StatusBadRequest
	case errors.Is(err, pix.ErrRemetenteBloqueado):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrQuoteUnavailable):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		s.log.Error("erro interno na API", zap.Error(err))
	}
	writeJSON(w, status, dto.ErroResponse{Error: err.Error()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErroResponse{Error: "json inválido"})
		return false
	}
	return true
}
