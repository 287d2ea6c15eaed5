package payment

import "context"

// Static devolve sempre o mesmo desfecho. Usado em teste e em ambiente
// local sem bridge de pagamento (espelha o modo "supported=false" do app).
type Static struct {
	Result Outcome
}

// AlwaysPaid é o double padrão de desenvolvimento local
func AlwaysPaid() *Static {
	return &Static{Result: Outcome{Status: StatusPaid, TxHash: "local-dev"}}
}

func (s *Static) Confirm(_ context.Context, _ Request) (Outcome, error) {
	return s.Result, nil
}
