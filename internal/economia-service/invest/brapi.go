package invest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/econplay/economia-platform/internal/economia-service/models"
	"github.com/econplay/economia-platform/pkg/money"
)

// Oracle devolve a cotação corrente de um ticker.
type Oracle interface {
	Cotacao(ctx context.Context, ticker string) (*models.Cotacao, error)
}

// BrapiClient consulta a API pública brapi.dev.
type BrapiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewBrapiClient(baseURL, token string) *BrapiClient {
	return &BrapiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type brapiResposta struct {
	Results []struct {
		Symbol             string  `json:"symbol"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
	} `json:"results"`
}

func (c *BrapiClient) Cotacao(ctx context.Context, ticker string) (*models.Cotacao, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, models.ErrQuoteUnavailable
	}

	endpoint := fmt.Sprintf("%s/quote/%s", c.baseURL, url.PathEscape(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrQuoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: brapi retornou status %d", models.ErrQuoteUnavailable, resp.StatusCode)
	}

	var corpo brapiResposta
	if err := json.NewDecoder(resp.Body).Decode(&corpo); err != nil {
		return nil, fmt.Errorf("%w: resposta inválida: %v", models.ErrQuoteUnavailable, err)
	}
	if len(corpo.Results) == 0 || corpo.Results[0].RegularMarketPrice <= 0 {
		return nil, fmt.Errorf("%w: ticker %s sem cotação", models.ErrQuoteUnavailable, ticker)
	}

	return &models.Cotacao{
		Ticker: ticker,
		Preco:  money.FromFloat(corpo.Results[0].RegularMarketPrice),
		AsOf:   time.Now(),
	}, nil
}
