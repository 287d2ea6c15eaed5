package dto

type CreateBetRequest struct {
	Ticker      string `json:"ticker"`
	MarketTitle string `json:"marketTitle"`
	EventTitle  string `json:"eventTitle"`

	Position        string `json:"position"` // "YES" | "NO"
	MinStakeCents   int64  `json:"min_stake_cents"`
	MaxStakeCents   int64  `json:"max_stake_cents"`
	MaxParticipants int    `json:"max_participants"`
	Visibility      string `json:"visibility"` // "public" | "private"

	CreatedBy         string `json:"createdBy"`
	CreatorStakeCents int64  `json:"creator_stake_cents"`

	// snapshot de preço do mercado no momento da criação
	YesBid float64 `json:"yes_bid"`
	NoBid  float64 `json:"no_bid"`
}

type JoinBetRequest struct {
	UserID     string `json:"userId"`
	StakeCents int64  `json:"stake_cents"`
	Token      string `json:"token,omitempty"` // ALIEN | SOL | USDC (default ALIEN)
}

type AddMessageRequest struct {
	Sender     string `json:"sender"`
	Text       string `json:"text"`
	IsBetShare bool   `json:"isBetShare,omitempty"`
}

type ResolveBetRequest struct {
	Result string `json:"result"` // "YES" | "NO"
}
