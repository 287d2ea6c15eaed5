package pubsub

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/ledger"
	"github.com/ericbmichaelis/group-taste/pkg/contracts/events"
)

type RedisBroadcaster struct {
	r       *redis.Client
	channel string
}

func NewRedisBroadcaster(r *redis.Client, channel string) *RedisBroadcaster {
	return &RedisBroadcaster{r: r, channel: channel}
}

func (b *RedisBroadcaster) Publish(ctx context.Context, channel string, payload []byte) error {
	return b.r.Publish(ctx, channel, payload).Err()
}

// UpdateFunc adapta o broadcaster ao hook de notificação do ledger:
// cada mutação vira um BetUpdate no canal de broadcast.
func (b *RedisBroadcaster) UpdateFunc() ledger.UpdateFunc {
	return func(kind ledger.UpdateKind, bet *ledger.GroupBet) {
		payload, _ := json.Marshal(events.BetUpdate{
			BetID:   bet.ID,
			Kind:    string(kind),
			Payload: bet,
		})
		_ = b.Publish(context.Background(), b.channel, payload)
	}
}
