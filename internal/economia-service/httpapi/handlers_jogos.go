package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/econplay/economia-platform/internal/economia-service/casino"
	"github.com/econplay/economia-platform/internal/economia-service/dto"
	"github.com/econplay/economia-platform/internal/economia-service/models"
	"github.com/econplay/economia-platform/pkg/money"
)

// jogo devolve um handler para a modalidade indicada; os três endpoints do
// cassino só variam no dispatcher.
func (s *Server) jogo(modalidade string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.JogoRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.UserID == "" {
			writeJSON(w, http.StatusBadRequest, dto.ErroResponse{Error: "userId é obrigatório"})
			return
		}

		res, err := s.casino.Play(r.Context(), req.UserID, req.Username, modalidade,
			money.Centavos(req.ApostaCents), casino.Params{Lado: req.Lado, Numero: req.Numero})
		if err != nil {
			s.writeErro(w, err)
			return
		}

		writeJSON(w, http.StatusOK, dto.JogoResponse{
			Jogo:              res.Jogo,
			Vitoria:           res.Vitoria,
			ApostaCents:       int64(res.Aposta),
			GanhoBrutoCents:   int64(res.GanhoBruto),
			ImpostoCents:      int64(res.Imposto),
			GanhoLiquidoCents: int64(res.GanhoLiquido),
			SaldoCents:        int64(res.NovoSaldo),
			Detalhe:           res.Detalhe,
			Simbolos:          res.Simbolos,
		})
	}
}

func apostaParaResponse(a *models.Aposta) dto.ApostaResponse {
	resp := dto.ApostaResponse{
		ID:          a.ID,
		ApostadorID: a.ApostadorID,
		DesafiadoID: a.DesafiadoID,
		ValorCents:  int64(a.Valor),
		Descricao:   a.Descricao,
		Status:      a.Status,
		Data:        a.Data,
	}
	if a.VencedorID != nil {
		resp.VencedorID = *a.VencedorID
	}
	return resp
}

func (s *Server) apostaCriar(w http.ResponseWriter, r *http.Request) {
	var req dto.ApostaCriarRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ApostadorID == "" || req.DesafiadoID == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErroResponse{Error: "apostadorId e desafiadoId são obrigatórios"})
		return
	}

	a, err := s.apostas.Criar(r.Context(), req.ApostadorID, req.ApostadorNome,
		req.DesafiadoID, req.DesafiadoNome, money.Centavos(req.ValorCents), req.Descricao)
	if err != nil {
		s.writeErro(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, apostaParaResponse(a))
}

func (s *Server) apostasPendentes(w http.ResponseWriter, r *http.Request) {
	pendentes, err := s.apostas.Pendentes(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeErro(w, err)
		return
	}
	out := make([]dto.ApostaResponse, 0, len(pendentes))
	for _, a := range pendentes {
		out = append(out, apostaParaResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) apostaResolver(w http.ResponseWriter, r *http.Request) {
	var req dto.ApostaResolverRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.VencedorID == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErroResponse{Error: "vencedorId é obrigatório"})
		return
	}

	a, err := s.apostas.Resolver(r.Context(), chi.URLParam(r, "apostaID"), req.VencedorID)
	if err != nil {
		s.writeErro(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apostaParaResponse(a))
}
