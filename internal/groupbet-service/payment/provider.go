// Package payment modela a confirmação de pagamento externa como uma
// capability: o handler de join só muta o ledger depois de receber um
// resultado terminal "paid". cancelled/failed sobem para o caller sem
// tocar o ledger; retry é política do caller, nunca do core.
package payment

import "context"

// Status é o resultado terminal de uma tentativa de pagamento
type Status string

const (
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// Token é uma opção de pagamento aceita pelo bridge
type Token struct {
	ID      string `json:"id"`
	Network string `json:"network"`
}

// Tokens suportados pelo provedor
var Tokens = []Token{
	{ID: "ALIEN", Network: "alien"},
	{ID: "SOL", Network: "solana"},
	{ID: "USDC", Network: "solana"},
}

// TokenByID resolve um token pelo identificador
func TokenByID(id string) (Token, bool) {
	for _, t := range Tokens {
		if t.ID == id {
			return t, true
		}
	}
	return Token{}, false
}

// Request descreve a cobrança de um stake para entrar numa aposta
type Request struct {
	BetID       string `json:"betId"`
	UserID      string `json:"userId"`
	AmountCents int64  `json:"amount_cents"`
	Token       string `json:"token"`
	Network     string `json:"network"`
	Invoice     string `json:"invoice"` // ex: bet-<betId>-<ts>
	ItemTitle   string `json:"item_title"`
}

// Outcome é sempre exatamente um de paid/cancelled/failed
type Outcome struct {
	Status    Status `json:"status"`
	TxHash    string `json:"txHash,omitempty"`
	ErrorCode string `json:"errorCode,omitempty"`
}

// Paid indica que o caller pode prosseguir com a mutação do ledger
func (o Outcome) Paid() bool { return o.Status == StatusPaid }

// Provider confirma pagamentos. Confirm só retorna depois de um desfecho
// terminal; erro de transporte é distinto de Outcome failed.
type Provider interface {
	Confirm(ctx context.Context, req Request) (Outcome, error)
}
