// Package identity resolve o usuário autenticado junto ao SSO externo.
// O core nunca valida nem deriva identidade: userId é opaco.
package identity

import "context"

// User é a identidade estável entregue pelo provedor
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
	Verified    bool   `json:"verified"`
}

// Provider resolve um bearer token para a identidade do usuário
type Provider interface {
	Resolve(ctx context.Context, token string) (User, error)
}

// Static resolve qualquer token para um usuário fixo (testes e dev local)
type Static struct {
	User User
}

func (s *Static) Resolve(_ context.Context, _ string) (User, error) {
	return s.User, nil
}
