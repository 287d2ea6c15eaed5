package events

// Evento publicado no tópico "group_messages" para entrega externa.
// A entrega é independente do log do ledger: falha no transporte nunca
// remove nem bloqueia a mensagem no chat in-app.
type GroupMessage struct {
	GroupID    string `json:"groupId"` // id do grupo no provedor de mensageria
	BetID      string `json:"betId,omitempty"`
	Sender     string `json:"sender"`
	Text       string `json:"text"`
	IsBetShare bool   `json:"isBetShare,omitempty"`
	TsUnixMs   int64  `json:"tsUnixMs"`
}
