package dto

// Market é um mercado binário exposto para a UI. yes_bid/no_bid são
// preços-probabilidade em (0,1].
type Market struct {
	Ticker     string  `json:"ticker"`
	Title      string  `json:"title"`
	EventTitle string  `json:"event_title"`
	Category   string  `json:"category"`
	YesBid     float64 `json:"yes_bid"`
	NoBid      float64 `json:"no_bid"`
	Volume24h  int64   `json:"volume_24h"`
	CloseTime  string  `json:"close_time"`
	Status     string  `json:"status"`
}
