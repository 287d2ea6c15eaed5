package events

// BetUpdate é o envelope broadcast via Redis Pub/Sub -> WebSocket quando
// o estado de uma aposta muda.
type BetUpdate struct {
	BetID   string      `json:"betId"`
	Kind    string      `json:"kind"` // created | joined | message | resolved
	Payload interface{} `json:"payload"`
}
