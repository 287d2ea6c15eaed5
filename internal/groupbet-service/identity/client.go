package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client consulta o endpoint userinfo do SSO
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}
}

type userInfo struct {
	Sub               string `json:"sub"`
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
}

// Resolve consulta /oauth/userinfo com o bearer token e monta o display
// name com a cadeia de fallback: preferred_username > name > email >
// "Alien " + últimos 6 do sub em maiúsculas.
func (c *Client) Resolve(ctx context.Context, token string) (User, error) {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/oauth/userinfo", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := c.HTTP.Do(req)
	if err != nil {
		return User{}, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return User{}, fmt.Errorf("sso userinfo http %d", res.StatusCode)
	}
	var info userInfo
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return User{}, err
	}
	if info.Sub == "" {
		return User{}, fmt.Errorf("sso userinfo without sub")
	}
	return User{
		ID:          info.Sub,
		DisplayName: displayName(info),
		Verified:    true,
	}, nil
}

func displayName(info userInfo) string {
	switch {
	case info.PreferredUsername != "":
		return info.PreferredUsername
	case info.Name != "":
		return info.Name
	case info.Email != "":
		return info.Email
	}
	sub := info.Sub
	if len(sub) > 6 {
		sub = sub[len(sub)-6:]
	}
	return "Alien " + strings.ToUpper(sub)
}
