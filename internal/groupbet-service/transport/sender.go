// Package transport entrega mensagens de chat a grupos externos.
// Sucesso ou falha da entrega nunca condiciona o AddMessage do ledger:
// o ledger é a fonte de verdade do chat in-app.
package transport

import (
	"context"

	"github.com/ericbmichaelis/group-taste/pkg/contracts/events"
)

// Sender publica um payload para um grupo identificado externamente
type Sender interface {
	SendToGroup(ctx context.Context, msg events.GroupMessage) error
}

// Noop descarta as mensagens (ambiente local sem broker, e testes)
type Noop struct{}

func (Noop) SendToGroup(_ context.Context, _ events.GroupMessage) error { return nil }
