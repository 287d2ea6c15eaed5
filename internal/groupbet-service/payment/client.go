package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client fala com o provedor de pagamento via HTTP (pay-simulator em dev)
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient cria o cliente com timeout curto; confirmação é uma chamada
// síncrona que devolve o desfecho terminal.
func NewClient(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Confirm(ctx context.Context, reqBody Request) (Outcome, error) {
	body, _ := json.Marshal(reqBody)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/pay", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := c.HTTP.Do(req)
	if err != nil {
		return Outcome{}, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return Outcome{}, fmt.Errorf("payment provider http %d", res.StatusCode)
	}
	var out Outcome
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return Outcome{}, err
	}
	switch out.Status {
	case StatusPaid, StatusCancelled, StatusFailed:
		return out, nil
	default:
		return Outcome{}, fmt.Errorf("payment provider returned unknown status %q", out.Status)
	}
}
