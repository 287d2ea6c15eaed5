package ledger

import "math"

// CalcPayout calcula o retorno de um participante, em centavos.
//
// Liquidação a odds fixas contra o preço congelado na criação da aposta:
// cada vencedor recebe stake/price de forma independente. NÃO é rateio do
// pote entre vencedores; os dois modelos divergem e o rateio seria uma
// regressão de semântica.
func CalcPayout(b *GroupBet, p ParticipantEntry) int64 {
	if b.Result == nil || *b.Result != b.Position {
		return 0
	}
	price := b.YesBid
	if b.Position == PositionNo {
		price = b.NoBid
	}
	if price <= 0 {
		// snapshot inválido: devolve o stake em vez de dividir por zero
		return p.StakeCents
	}
	return int64(math.Round(float64(p.StakeCents) / price))
}

// Pot soma os stakes de todos os participantes
func Pot(b *GroupBet) int64 {
	var total int64
	for _, p := range b.Participants {
		total += p.StakeCents
	}
	return total
}
