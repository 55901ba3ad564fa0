package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/econplay/economia-platform/internal/economia-service/dto"
)

func (s *Server) investComprar(w http.ResponseWriter, r *http.Request) {
	var req dto.InvestOrdemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" || req.Ticker == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErroResponse{Error: "userId e ticker são obrigatórios"})
		return
	}

	res, err := s.invest.Comprar(r.Context(), req.UserID, req.Username, req.Ticker, req.Quantidade)
	if err != nil {
		s.writeErro(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CompraResponse{
		Ticker:             res.Ticker,
		Quantidade:         res.Quantidade,
		PrecoUnitarioCents: int64(res.PrecoUnitario),
		CustoTotalCents:    int64(res.CustoTotal),
		SaldoCents:         int64(res.NovoSaldo),
	})
}

func (s *Server) investVender(w http.ResponseWriter, r *http.Request) {
	var req dto.InvestOrdemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" || req.Ticker == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErroResponse{Error: "userId e ticker são obrigatórios"})
		return
	}

	res, err := s.invest.Vender(r.Context(), req.UserID, req.Ticker, req.Quantidade)
	if err != nil {
		s.writeErro(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.VendaResponse{
		Ticker:              res.Ticker,
		Quantidade:          res.Quantidade,
		PrecoUnitarioCents:  int64(res.PrecoUnitario),
		ReceitaBrutaCents:   int64(res.ReceitaBruta),
		LucroCents:          int64(res.Lucro),
		ImpostoCents:        int64(res.Imposto),
		ReceitaLiquidaCents: int64(res.ReceitaLiquida),
		SaldoCents:          int64(res.NovoSaldo),
	})
}

func (s *Server) investCarteira(w http.ResponseWriter, r *http.Request) {
	posicoes, err := s.invest.Carteira(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeErro(w, err)
		return
	}
	out := make([]dto.PosicaoResponse, 0, len(posicoes))
	for _, p := range posicoes {
		out = append(out, dto.PosicaoResponse{
			Ticker:             p.Posicao.Ticker,
			Quantidade:         p.Posicao.Quantidade,
			PrecoMedioCents:    int64(p.Posicao.PrecoMedio),
			PrecoAtualCents:    int64(p.PrecoAtual),
			ValorMercadoCents:  int64(p.ValorMercado),
			LucroNaoRealzCents: int64(p.LucroNaoRealz),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) investCotacao(w http.ResponseWriter, r *http.Request) {
	cot, err := s.invest.CotacaoAtual(r.Context(), chi.URLParam(r, "ticker"))
	if err != nil {
		s.writeErro(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CotacaoResponse{
		Ticker:     cot.Ticker,
		PrecoCents: int64(cot.Preco),
		AsOf:       cot.AsOf,
	})
}
