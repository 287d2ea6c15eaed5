package transport

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/ericbmichaelis/group-taste/pkg/contracts/events"
)

// KafkaSender publica mensagens de grupo no tópico group_messages;
// o delivery worker consome e faz a entrega externa.
type KafkaSender struct {
	Writer *kafka.Writer
}

func NewKafkaSender(w *kafka.Writer) *KafkaSender {
	return &KafkaSender{Writer: w}
}

// SendToGroup serializa e publica com a chave do grupo, mantendo ordem
// por partição para o mesmo grupo.
func (s *KafkaSender) SendToGroup(ctx context.Context, msg events.GroupMessage) error {
	b, _ := json.Marshal(msg)
	return s.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.GroupID),
		Value: b,
	})
}
