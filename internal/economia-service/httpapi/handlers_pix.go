package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/econplay/economia-platform/internal/economia-service/dto"
	"github.com/econplay/economia-platform/internal/economia-service/models"
	"github.com/econplay/economia-platform/internal/economia-service/pix"
	"github.com/econplay/economia-platform/pkg/money"
)

func pixParaResponse(p *models.PixTransferencia) dto.PixResponse {
	return dto.PixResponse{
		ID:                p.ID,
		RemetenteID:       p.RemetenteID,
		RemetenteNome:     p.RemetenteNome,
		DestinatarioID:    p.DestinatarioID,
		DestinatarioNome:  p.DestinatarioNome,
		ValorBrutoCents:   int64(p.ValorBruto),
		TaxaCents:         int64(p.Taxa),
		ValorLiquidoCents: int64(p.ValorLiquido),
		Descricao:         p.Descricao,
		Status:            p.Status,
		Data:              p.Data,
	}
}

func (s *Server) pixIniciar(w http.ResponseWriter, r *http.Request) {
	var req dto.PixIniciarRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RemetenteID == "" || req.DestinatarioID == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErroResponse{Error: "remetenteId e destinatarioId são obrigatórios"})
		return
	}

	token, preview, err := s.pix.Iniciar(r.Context(), pix.Requisicao{
		RemetenteID:      req.RemetenteID,
		RemetenteNome:    req.RemetenteNome,
		DestinatarioID:   req.DestinatarioID,
		DestinatarioNome: req.DestinatarioNome,
		DestinatarioBot:  req.DestinatarioBot,
		Valor:            money.Centavos(req.ValorCents),
		Descricao:        req.Descricao,
		ServidorID:       req.ServidorID,
		CanalID:          req.CanalID,
		MensagemID:       req.MensagemID,
	})
	if err != nil {
		s.writeErro(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, dto.PixIniciadoResponse{
		Token:             token,
		RemetenteNome:     preview.RemetenteNome,
		ValorBrutoCents:   int64(preview.ValorBruto),
		TaxaCents:         int64(preview.Taxa),
		ValorLiquidoCents: int64(preview.ValorLiquido),
		Descricao:         preview.Descricao,
		ExpiraEm:          preview.ExpiraEm,
	})
}

func (s *Server) pixConfirmar(w http.ResponseWriter, r *http.Request) {
	var req dto.PixConfirmarRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Token == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErroResponse{Error: "token é obrigatório"})
		return
	}

	transferencia, err := s.pix.Confirmar(r.Context(), req.Token, req.Aceitar)
	if err != nil {
		s.writeErro(w, err)
		return
	}

	resp := dto.PixConfirmadoResponse{Resultado: string(pix.Recusada)}
	if transferencia != nil {
		resp.Resultado = string(pix.Confirmada)
		p := pixParaResponse(transferencia)
		resp.Pix = &p
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) pixHistorico(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limite, _ := strconv.Atoi(r.URL.Query().Get("limite"))

	historico, err := s.pix.Historico(r.Context(), userID, limite)
	if err != nil {
		s.writeErro(w, err)
		return
	}
	out := make([]dto.PixResponse, 0, len(historico))
	for _, p := range historico {
		out = append(out, pixParaResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) pixStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.pix.Estatisticas(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeErro(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.EstatisticasPixResponse{
		TotalEnviados:           st.TotalEnviados,
		ValorTotalEnviadoCents:  int64(st.ValorTotalEnviado),
		TotalRecebidos:          st.TotalRecebidos,
		ValorTotalRecebidoCents: int64(st.ValorTotalRecebido),
		TotalTaxasCents:         int64(st.TotalTaxas),
		MaiorEnviadoCents:       int64(st.MaiorEnviado),
		MaiorRecebidoCents:      int64(st.MaiorRecebido),
		BalancoCents:            int64(st.Balanco),
	})
}
