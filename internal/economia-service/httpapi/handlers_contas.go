package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/econplay/economia-platform/internal/economia-service/dto"
	"github.com/econplay/economia-platform/internal/economia-service/models"
)

func usuarioParaResponse(u *models.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		UserID:            u.UserID,
		Username:          u.Username,
		SaldoCents:        int64(u.Saldo),
		Saldo:             u.Saldo.String(),
		Nivel:             u.Nivel,
		Experiencia:       u.Experiencia,
		StreakDaily:       u.StreakDaily,
		PixBloqueado:      u.PixBloqueado,
		PixBloqueioMotivo: u.PixBloqueioMotivo,
	}
}

func (s *Server) criarConta(w http.ResponseWriter, r *http.Request) {
	var req dto.CriarContaRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" || req.Username == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErroResponse{Error: "userId e username são obrigatórios"})
		return
	}

	u, err := s.contas.GetOrCreate(r.Context(), req.UserID, req.Username)
	if err != nil {
		s.writeErro(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usuarioParaResponse(u))
}

func (s *Server) getConta(w http.ResponseWriter, r *http.Request) {
	u, err := s.contas.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeErro(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usuarioParaResponse(u))
}

func (s *Server) daily(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	username := r.URL.Query().Get("username")

	res, err := s.contas.Daily(r.Context(), userID, username)
	if err != nil {
		s.writeErro(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.DailyResponse{
		BaseCents:  int64(res.Base),
		BonusCents: int64(res.Bonus),
		TotalCents: int64(res.Total),
		Streak:     res.Streak,
		SaldoCents: int64(res.NovoSaldo),
	})
}

func (s *Server) extrato(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	q := r.URL.Query()

	filtro := models.FiltroExtrato{Tipo: models.Categoria(q.Get("tipo"))}
	if v := q.Get("limite"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filtro.Limite = n
		}
	}
	if v := q.Get("desde"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filtro.Desde = &t
		}
	}
	if v := q.Get("ate"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filtro.Ate = &t
		}
	}

	transacoes, err := s.contas.Extrato(r.Context(), userID, filtro)
	if err != nil {
		s.writeErro(w, err)
		return
	}

	out := make([]dto.TransacaoResponse, 0, len(transacoes))
	for _, t := range transacoes {
		out = append(out, dto.TransacaoResponse{
			ID:                  t.ID,
			ValorCents:          int64(t.Valor),
			Tipo:                string(t.Tipo),
			SaldoAnteriorCents:  int64(t.SaldoAnterior),
			SaldoPosteriorCents: int64(t.SaldoPosterior),
			Descricao:           t.Descricao,
			Informativo:         t.Informativo,
			Data:                t.Data,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) ranking(w http.ResponseWriter, r *http.Request) {
	limite, _ := strconv.Atoi(r.URL.Query().Get("limite"))

	usuarios, err := s.contas.Ranking(r.Context(), limite)
	if err != nil {
		s.writeErro(w, err)
		return
	}
	out := make([]dto.UsuarioResponse, 0, len(usuarios))
	for _, u := range usuarios {
		out = append(out, usuarioParaResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}
