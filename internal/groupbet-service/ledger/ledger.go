package ledger

import (
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/idgen"
)

// UpdateKind identifica a mutação que originou uma notificação
type UpdateKind string

const (
	UpdateCreated  UpdateKind = "created"
	UpdateJoined   UpdateKind = "joined"
	UpdateMessage  UpdateKind = "message"
	UpdateResolved UpdateKind = "resolved"
)

// UpdateFunc recebe uma cópia do estado da aposta após cada mutação.
// Nunca é chamada segurando o lock do ledger.
type UpdateFunc func(kind UpdateKind, bet *GroupBet)

// CreateSpec são os dados de entrada de CreateBet. Entrada malformada
// (stake fora da faixa, capacidade < 1) é violação de contrato do caller,
// não um modo de falha do core.
type CreateSpec struct {
	Ticker      string
	MarketTitle string
	EventTitle  string

	Position        Position
	MinStakeCents   int64
	MaxStakeCents   int64
	MaxParticipants int
	Visibility      Visibility

	CreatedBy         string
	CreatorStakeCents int64

	YesBid float64
	NoBid  float64
}

// Ledger é o dono exclusivo das apostas em memória. Toda mutação é
// read-validate-write dentro de uma única seção crítica, então duas
// adesões concorrentes numa aposta quase cheia nunca passam as duas.
// Estado vive só enquanto o processo vive; persistência é não-objetivo.
type Ledger struct {
	mu   sync.Mutex
	bets []*GroupBet // mais recentes primeiro
	byID map[string]*GroupBet

	clock clockwork.Clock
	ids   idgen.Generator

	onUpdate UpdateFunc
}

// New cria um ledger vazio com relógio e gerador de IDs injetáveis
func New(clock clockwork.Clock, ids idgen.Generator) *Ledger {
	return &Ledger{
		byID:  make(map[string]*GroupBet),
		clock: clock,
		ids:   ids,
	}
}

// OnUpdate registra o callback de notificação (ws/pubsub). Deve ser
// chamado antes de expor o ledger a requisições.
func (l *Ledger) OnUpdate(fn UpdateFunc) { l.onUpdate = fn }

func (l *Ledger) notify(kind UpdateKind, bet *GroupBet) {
	if l.onUpdate != nil {
		l.onUpdate(kind, bet)
	}
}

// CreateBet cria a aposta com janela de 1h, o criador como primeiro
// participante e uma mensagem de sistema resumindo a aposta.
func (l *Ledger) CreateBet(spec CreateSpec) *GroupBet {
	now := l.clock.Now()
	nowMs := now.UnixMilli()
	betID := l.ids.BetID()

	bet := &GroupBet{
		ID:              betID,
		Ticker:          spec.Ticker,
		MarketTitle:     spec.MarketTitle,
		EventTitle:      spec.EventTitle,
		Position:        spec.Position,
		MinStakeCents:   spec.MinStakeCents,
		MaxStakeCents:   spec.MaxStakeCents,
		MaxParticipants: spec.MaxParticipants,
		Visibility:      spec.Visibility,
		Participants: []ParticipantEntry{
			{UserID: spec.CreatedBy, StakeCents: spec.CreatorStakeCents},
		},
		CreatedBy:        spec.CreatedBy,
		GroupWallet:      l.ids.GroupWallet(),
		MessagingGroupID: "group-" + betID,
		YesBid:           spec.YesBid,
		NoBid:            spec.NoBid,
		CreatedAtUnixMs:  nowMs,
		ExpiresAtUnixMs:  now.Add(BetWindow).UnixMilli(),
		Status:           StatusOpen,
		Messages: []ChatMessage{
			{
				ID:     l.ids.MessageID(),
				Sender: SystemSender,
				Text: fmt.Sprintf(
					"Group bet created! %s on %q — Up to $%s/person, %d max. Open for 1 hour.",
					spec.Position, spec.MarketTitle, formatCents(spec.MaxStakeCents), spec.MaxParticipants,
				),
				TsUnixMs: nowMs,
			},
		},
	}

	l.mu.Lock()
	l.bets = append([]*GroupBet{bet}, l.bets...)
	l.byID[bet.ID] = bet
	out := bet.clone()
	l.mu.Unlock()

	l.notify(UpdateCreated, out.clone())
	return out
}

// JoinBet tenta adicionar um participante. É no-op (joined=false) se a
// aposta não existe, não está aberta, já expirou, o usuário já entrou ou
// a capacidade está cheia. Checagem e append acontecem contra o mesmo
// snapshot, sob o lock.
func (l *Ledger) JoinBet(betID, userID string, stakeCents int64) (*GroupBet, bool) {
	now := l.clock.Now()
	nowMs := now.UnixMilli()

	l.mu.Lock()
	bet, ok := l.byID[betID]
	if !ok {
		l.mu.Unlock()
		return nil, false
	}
	if bet.Status != StatusOpen ||
		nowMs >= bet.ExpiresAtUnixMs ||
		bet.HasParticipant(userID) ||
		len(bet.Participants) >= bet.MaxParticipants {
		out := bet.clone()
		l.mu.Unlock()
		return out, false
	}

	bet.Participants = append(bet.Participants, ParticipantEntry{UserID: userID, StakeCents: stakeCents})
	bet.Messages = append(bet.Messages, ChatMessage{
		ID:       l.ids.MessageID(),
		Sender:   SystemSender,
		Text:     fmt.Sprintf("%s joined with $%s stake!", userID, formatCents(stakeCents)),
		TsUnixMs: nowMs,
	})
	out := bet.clone()
	l.mu.Unlock()

	l.notify(UpdateJoined, out.clone())
	return out, true
}

// AddMessage sempre anexa: o chat continua usável após expiração e após
// resolução. Só falha se a aposta não existe.
func (l *Ledger) AddMessage(betID, sender, text string, betShare bool) (*ChatMessage, bool) {
	nowMs := l.clock.Now().UnixMilli()

	l.mu.Lock()
	bet, ok := l.byID[betID]
	if !ok {
		l.mu.Unlock()
		return nil, false
	}
	msg := ChatMessage{
		ID:         l.ids.MessageID(),
		Sender:     sender,
		Text:       text,
		TsUnixMs:   nowMs,
		IsBetShare: betShare,
	}
	bet.Messages = append(bet.Messages, msg)
	out := bet.clone()
	l.mu.Unlock()

	l.notify(UpdateMessage, out)
	return &msg, true
}

// ResolveBet fecha a aposta com o resultado do mercado. Idempotente:
// resolver duas vezes devolve o mesmo estado da primeira resolução.
func (l *Ledger) ResolveBet(betID string, result Position) (*GroupBet, bool) {
	nowMs := l.clock.Now().UnixMilli()

	l.mu.Lock()
	bet, ok := l.byID[betID]
	if !ok {
		l.mu.Unlock()
		return nil, false
	}
	if bet.Status == StatusResolved {
		out := bet.clone()
		l.mu.Unlock()
		return out, false
	}

	bet.Status = StatusResolved
	r := result
	bet.Result = &r
	ts := nowMs
	bet.ResolvedAtUnixMs = &ts

	won := result == bet.Position
	pot := Pot(bet)
	text := fmt.Sprintf("Market resolved %s. The group lost. Better luck next time!", result)
	if won {
		text = fmt.Sprintf("Market resolved %s! The group WON! Pot: $%s", result, formatCents(pot))
	}
	bet.Messages = append(bet.Messages, ChatMessage{
		ID:       l.ids.MessageID(),
		Sender:   SystemSender,
		Text:     text,
		TsUnixMs: nowMs,
	})
	out := bet.clone()
	l.mu.Unlock()

	l.notify(UpdateResolved, out.clone())
	return out, true
}

// Bet devolve uma cópia da aposta pelo ID
func (l *Ledger) Bet(betID string) (*GroupBet, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	bet, ok := l.byID[betID]
	if !ok {
		return nil, false
	}
	return bet.clone(), true
}

// Bets devolve cópias de todas as apostas, mais recentes primeiro
func (l *Ledger) Bets() []*GroupBet {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*GroupBet, 0, len(l.bets))
	for _, b := range l.bets {
		out = append(out, b.clone())
	}
	return out
}

// ActiveBets filtra abertas e não expiradas. O predicado de expiração é
// recalculado do relógio a cada chamada; nunca é cacheado.
func (l *Ledger) ActiveBets() []*GroupBet {
	nowMs := l.clock.Now().UnixMilli()

	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*GroupBet
	for _, b := range l.bets {
		if b.Status == StatusOpen && nowMs < b.ExpiresAtUnixMs {
			out = append(out, b.clone())
		}
	}
	return out
}

// formatCents imprime centavos como dólares, omitindo ".00" em valores inteiros
func formatCents(c int64) string {
	if c%100 == 0 {
		return fmt.Sprintf("%d", c/100)
	}
	return fmt.Sprintf("%d.%02d", c/100, c%100)
}
