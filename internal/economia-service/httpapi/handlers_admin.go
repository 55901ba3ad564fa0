package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/econplay/economia-platform/internal/economia-service/dto"
	"github.com/econplay/economia-platform/pkg/money"
)

func (s *Server) adminBloquear(w http.ResponseWriter, r *http.Request) {
	var req dto.AdminBloquearRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	userID := chi.URLParam(r, "userID")

	if err := s.contas.BloquearPix(r.Context(), userID, req.Motivo); err != nil {
		s.writeErro(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "bloqueado"})
}

func (s *Server) adminDesbloquear(w http.ResponseWriter, r *http.Request) {
	if err := s.contas.DesbloquearPix(r.Context(), chi.URLParam(r, "userID")); err != nil {
		s.writeErro(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "desbloqueado"})
}

func (s *Server) adminAjuste(w http.ResponseWriter, r *http.Request) {
	var req dto.AdminAjusteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := s.contas.AjusteAdmin(r.Context(), chi.URLParam(r, "userID"),
		money.Centavos(req.DeltaCents), req.Motivo)
	if err != nil {
		s.writeErro(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usuarioParaResponse(u))
}

func (s *Server) adminSuspeitos(w http.ResponseWriter, r *http.Request) {
	janelaHoras := 24.0
	if v := r.URL.Query().Get("janelaHoras"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			janelaHoras = f
		}
	}

	rel, err := s.fraude.Analisar(r.Context(), time.Duration(janelaHoras*float64(time.Hour)))
	if err != nil {
		s.writeErro(w, err)
		return
	}

	resp := dto.RelatorioFraudeResponse{
		JanelaHoras: rel.Janela.Hours(),
		GeradoEm:    rel.GeradoEm,
		Suspeito:    rel.Suspeito(),
		Resumo: dto.ResumoPixResponse{
			Quantidade:       rel.Resumo.Quantidade,
			SomaBrutoCents:   int64(rel.Resumo.SomaBruto),
			SomaTaxasCents:   int64(rel.Resumo.SomaTaxas),
			SomaLiquidoCents: int64(rel.Resumo.SomaLiquido),
		},
		AltoValor:            make([]dto.PixResponse, 0, len(rel.AltoValor)),
		RemetentesFrequentes: make([]dto.RemetenteStatsResponse, 0, len(rel.RemetentesFrequentes)),
	}
	for _, p := range rel.AltoValor {
		resp.AltoValor = append(resp.AltoValor, pixParaResponse(p))
	}
	for _, f := range rel.RemetentesFrequentes {
		resp.RemetentesFrequentes = append(resp.RemetentesFrequentes, dto.RemetenteStatsResponse{
			UserID:          f.UserID,
			Quantidade:      f.Quantidade,
			ValorTotalCents: int64(f.ValorTotal),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
