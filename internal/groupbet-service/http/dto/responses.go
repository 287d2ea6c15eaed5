package dto

import (
	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/ledger"
	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/payment"
)

type JoinBetResponse struct {
	BetID   string           `json:"betId"`
	Joined  bool             `json:"joined"`
	Payment *payment.Outcome `json:"payment,omitempty"`
	Bet     *ledger.GroupBet `json:"bet,omitempty"`
}

type ResolveBetResponse struct {
	BetID    string           `json:"betId"`
	Resolved bool             `json:"resolved"`
	Bet      *ledger.GroupBet `json:"bet,omitempty"`
}

type PayoutEntry struct {
	UserID      string `json:"userId"`
	StakeCents  int64  `json:"stakeCents"`
	PayoutCents int64  `json:"payoutCents"`
}

type PayoutsResponse struct {
	BetID    string        `json:"betId"`
	PotCents int64         `json:"potCents"`
	Payouts  []PayoutEntry `json:"payouts"`
}
