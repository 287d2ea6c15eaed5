package ledger

import "testing"

func resolvedBet(position Position, result Position, yesBid, noBid float64) *GroupBet {
	r := result
	return &GroupBet{
		Position: position,
		YesBid:   yesBid,
		NoBid:    noBid,
		Status:   StatusResolved,
		Result:   &r,
	}
}

func TestCalcPayoutWin(t *testing.T) {
	// stake $20 a preço 0.40 paga $50
	bet := resolvedBet(PositionYes, PositionYes, 0.4, 0.6)
	if got := CalcPayout(bet, ParticipantEntry{UserID: "u1", StakeCents: 2000}); got != 5000 {
		t.Errorf("payout = %d, esperado 5000", got)
	}
}

func TestCalcPayoutNoSideUsesNoBid(t *testing.T) {
	bet := resolvedBet(PositionNo, PositionNo, 0.4, 0.5)
	if got := CalcPayout(bet, ParticipantEntry{StakeCents: 1000}); got != 2000 {
		t.Errorf("payout = %d, esperado 2000 (preço do lado NO)", got)
	}
}

func TestCalcPayoutLoss(t *testing.T) {
	bet := resolvedBet(PositionYes, PositionNo, 0.4, 0.6)
	if got := CalcPayout(bet, ParticipantEntry{StakeCents: 2000}); got != 0 {
		t.Errorf("payout = %d, esperado 0 em derrota", got)
	}
}

func TestCalcPayoutUnresolved(t *testing.T) {
	bet := &GroupBet{Position: PositionYes, YesBid: 0.4, Status: StatusOpen}
	if got := CalcPayout(bet, ParticipantEntry{StakeCents: 2000}); got != 0 {
		t.Errorf("payout = %d, esperado 0 sem resultado", got)
	}
}

func TestCalcPayoutZeroPriceFallsBackToStake(t *testing.T) {
	bet := resolvedBet(PositionYes, PositionYes, 0, 0.6)
	if got := CalcPayout(bet, ParticipantEntry{StakeCents: 2000}); got != 2000 {
		t.Errorf("payout = %d, esperado stake de volta com preço inválido", got)
	}
}

func TestCalcPayoutRounding(t *testing.T) {
	// 1000 / 0.3 = 3333.33... arredonda para o centavo mais próximo
	bet := resolvedBet(PositionYes, PositionYes, 0.3, 0.7)
	if got := CalcPayout(bet, ParticipantEntry{StakeCents: 1000}); got != 3333 {
		t.Errorf("payout = %d, esperado 3333", got)
	}
}

func TestCalcPayoutMonotonic(t *testing.T) {
	bet := resolvedBet(PositionYes, PositionYes, 0.37, 0.63)
	var prev int64 = -1
	for stake := int64(100); stake <= 5000; stake += 100 {
		got := CalcPayout(bet, ParticipantEntry{StakeCents: stake})
		if got < prev {
			t.Fatalf("payout regrediu: stake %d paga %d, stake anterior pagava %d", stake, got, prev)
		}
		if got < stake {
			t.Fatalf("payout %d menor que o stake %d com preço < 1", got, stake)
		}
		prev = got
	}
}

func TestPot(t *testing.T) {
	bet := &GroupBet{Participants: []ParticipantEntry{
		{UserID: "u1", StakeCents: 2500},
		{UserID: "u2", StakeCents: 1000},
		{UserID: "u3", StakeCents: 505},
	}}
	if got := Pot(bet); got != 4005 {
		t.Errorf("pot = %d, esperado 4005", got)
	}
	if got := Pot(&GroupBet{}); got != 0 {
		t.Errorf("pot vazio = %d, esperado 0", got)
	}
}
