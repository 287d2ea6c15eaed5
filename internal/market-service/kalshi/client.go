// Package kalshi consome a trade API pública da Kalshi e filtra o feed
// para o formato que a UI consome. O core só usa o snapshot de preço na
// criação da aposta; nada aqui é re-consultado depois.
package kalshi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/ericbmichaelis/group-taste/internal/market-service/dto"
)

// MaxMarkets limita o feed aos mercados de maior volume
const MaxMarkets = 10

type Client struct {
	BaseURL    string
	Categories map[string]struct{} // categorias aceitas no feed
	HTTP       *http.Client
}

func New(base string, categories []string) *Client {
	set := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	return &Client{
		BaseURL:    base,
		Categories: set,
		HTTP:       &http.Client{Timeout: 5 * time.Second},
	}
}

// Payload cru da API da Kalshi (eventos com mercados aninhados)
type rawMarket struct {
	Ticker        string `json:"ticker"`
	Title         string `json:"title"`
	YesBidDollars string `json:"yes_bid_dollars"`
	NoBidDollars  string `json:"no_bid_dollars"`
	Volume24h     int64  `json:"volume_24h"`
	CloseTime     string `json:"close_time"`
	Status        string `json:"status"`
}

type rawEvent struct {
	Title    string      `json:"title"`
	Category string      `json:"category"`
	Markets  []rawMarket `json:"markets"`
}

type eventsResponse struct {
	Events []rawEvent `json:"events"`
}

// Markets busca eventos abertos com mercados aninhados, mantém só as
// categorias configuradas, descarta mercados sem preço e devolve o top 10
// por volume de 24h.
func (c *Client) Markets(ctx context.Context) ([]dto.Market, error) {
	url := c.BaseURL + "/trade-api/v2/events?limit=50&with_nested_markets=true&status=open"
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	req.Header.Set("Accept", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kalshi request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("kalshi api http %d", res.StatusCode)
	}

	var data eventsResponse
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("kalshi decode: %w", err)
	}

	var all []dto.Market
	for _, ev := range data.Events {
		if _, ok := c.Categories[ev.Category]; !ok {
			continue
		}
		for _, m := range ev.Markets {
			yesBid := parseDollars(m.YesBidDollars)
			noBid := parseDollars(m.NoBidDollars)
			// mercado sem atividade de preço não entra no feed
			if yesBid == 0 && noBid == 0 {
				continue
			}
			all = append(all, dto.Market{
				Ticker:     m.Ticker,
				Title:      m.Title,
				EventTitle: ev.Title,
				Category:   ev.Category,
				YesBid:     yesBid,
				NoBid:      noBid,
				Volume24h:  m.Volume24h,
				CloseTime:  m.CloseTime,
				Status:     m.Status,
			})
		}
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Volume24h > all[j].Volume24h })
	if len(all) > MaxMarkets {
		all = all[:MaxMarkets]
	}
	return all, nil
}

func parseDollars(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
