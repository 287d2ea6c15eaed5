package ledger

import "time"

// Position é o lado que o grupo está apostando (YES/NO)
type Position string

const (
	PositionYes Position = "YES"
	PositionNo  Position = "NO"
)

// Status do ciclo de vida da aposta. "Expirada" não é um status persistido:
// é um predicado derivado do relógio no momento da leitura.
type Status string

const (
	StatusOpen     Status = "open"
	StatusResolved Status = "resolved"
)

// Visibility define quem enxerga a aposta no feed
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// SystemSender identifica mensagens geradas pelo próprio ledger
const SystemSender = "system"

// BetWindow é a janela fixa de adesão de uma aposta em grupo
const BetWindow = time.Hour

// ParticipantEntry registra um participante e o valor comprometido.
// A ordem de inserção importa: o primeiro é sempre o criador.
type ParticipantEntry struct {
	UserID     string `json:"userId"`
	StakeCents int64  `json:"stakeCents"`
}

// ChatMessage é imutável após o append; timestamps são não-decrescentes
// porque cada aposta tem um único escritor lógico.
type ChatMessage struct {
	ID         string `json:"id"`
	Sender     string `json:"sender"` // userId ou "system"
	Text       string `json:"text"`
	TsUnixMs   int64  `json:"tsUnixMs"`
	IsBetShare bool   `json:"isBetShare,omitempty"`
}

// GroupBet é a aposta em grupo com janela de 1 hora.
// yesBid/noBid são o snapshot de preço do mercado no momento da criação
// e nunca são atualizados depois.
type GroupBet struct {
	ID          string `json:"id"`
	Ticker      string `json:"ticker"`
	MarketTitle string `json:"marketTitle"`
	EventTitle  string `json:"eventTitle"`

	Position        Position   `json:"position"`
	MinStakeCents   int64      `json:"minStakeCents"`
	MaxStakeCents   int64      `json:"maxStakeCents"`
	MaxParticipants int        `json:"maxParticipants"`
	Visibility      Visibility `json:"visibility"`

	Participants []ParticipantEntry `json:"participants"`

	CreatedBy        string `json:"createdBy"`
	GroupWallet      string `json:"groupWallet"`
	MessagingGroupID string `json:"messagingGroupId"`

	YesBid float64 `json:"yesBid"` // preço (0,1] do lado YES na criação
	NoBid  float64 `json:"noBid"`

	CreatedAtUnixMs  int64  `json:"createdAtUnixMs"`
	ExpiresAtUnixMs  int64  `json:"expiresAtUnixMs"`
	ResolvedAtUnixMs *int64 `json:"resolvedAtUnixMs,omitempty"`

	Status Status    `json:"status"`
	Result *Position `json:"result,omitempty"` // definido exatamente uma vez, na resolução

	Messages []ChatMessage `json:"messages"`
}

// HasParticipant verifica unicidade de userId entre os participantes
func (b *GroupBet) HasParticipant(userID string) bool {
	for _, p := range b.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// clone devolve uma cópia profunda; o ledger nunca entrega referências
// mutáveis do estado interno.
func (b *GroupBet) clone() *GroupBet {
	cp := *b
	cp.Participants = append([]ParticipantEntry(nil), b.Participants...)
	cp.Messages = append([]ChatMessage(nil), b.Messages...)
	if b.ResolvedAtUnixMs != nil {
		v := *b.ResolvedAtUnixMs
		cp.ResolvedAtUnixMs = &v
	}
	if b.Result != nil {
		r := *b.Result
		cp.Result = &r
	}
	return &cp
}
