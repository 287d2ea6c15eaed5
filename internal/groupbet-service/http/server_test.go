package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/countdown"
	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/http/dto"
	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/identity"
	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/ledger"
	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/payment"
	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/transport"
)

// IDs determinísticos para os testes do handler
type stubIDs struct {
	mu sync.Mutex
	n  int
}

func (s *stubIDs) next(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", prefix, s.n)
}

func (s *stubIDs) BetID() string       { return s.next("bet") }
func (s *stubIDs) MessageID() string   { return s.next("msg") }
func (s *stubIDs) GroupWallet() string { return strings.Repeat("W", 44) }

func newTestAPI(t *testing.T, pay payment.Provider) (*httptest.Server, *clockwork.FakeClock) {
	t.Helper()
	clk := clockwork.NewFakeClockAt(time.UnixMilli(1_700_000_000_000))
	l := ledger.New(clk, &stubIDs{})
	idp := &identity.Static{User: identity.User{ID: "u1", DisplayName: "Test User", Verified: true}}
	api := NewServer(zap.NewNop(), l, pay, transport.Noop{}, idp, clk)
	srv := httptest.NewServer(api.Router())
	t.Cleanup(srv.Close)
	return srv, clk
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, _ := json.Marshal(body)
	res, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	defer res.Body.Close()
	var v T
	if err := json.NewDecoder(res.Body).Decode(&v); err != nil {
		t.Fatal(err)
	}
	return v
}

func createRequest() dto.CreateBetRequest {
	return dto.CreateBetRequest{
		Ticker:            "KXOSCARS-26",
		MarketTitle:       "Will the movie win Best Picture?",
		EventTitle:        "Oscars 2026",
		Position:          "YES",
		MinStakeCents:     500,
		MaxStakeCents:     5000,
		MaxParticipants:   10,
		Visibility:        "public",
		CreatedBy:         "u1",
		CreatorStakeCents: 2500,
		YesBid:            0.4,
		NoBid:             0.6,
	}
}

func mustCreate(t *testing.T, srv *httptest.Server) *ledger.GroupBet {
	t.Helper()
	res := postJSON(t, srv.URL+"/v1/bets", createRequest())
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", res.StatusCode)
	}
	bet := decode[*ledger.GroupBet](t, res)
	return bet
}

func TestCreateBetValidation(t *testing.T) {
	srv, _ := newTestAPI(t, payment.AlwaysPaid())

	cases := []struct {
		name   string
		mutate func(*dto.CreateBetRequest)
	}{
		{"posicao invalida", func(r *dto.CreateBetRequest) { r.Position = "MAYBE" }},
		{"sem ticker", func(r *dto.CreateBetRequest) { r.Ticker = "" }},
		{"capacidade zero", func(r *dto.CreateBetRequest) { r.MaxParticipants = 0 }},
		{"stake do criador acima do teto", func(r *dto.CreateBetRequest) { r.CreatorStakeCents = 9000 }},
		{"faixa invertida", func(r *dto.CreateBetRequest) { r.MinStakeCents = 6000 }},
		{"visibilidade invalida", func(r *dto.CreateBetRequest) { r.Visibility = "secret" }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := createRequest()
			c.mutate(&req)
			res := postJSON(t, srv.URL+"/v1/bets", req)
			res.Body.Close()
			if res.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, esperado 400", res.StatusCode)
			}
		})
	}
}

func TestBetLifecycle(t *testing.T) {
	srv, _ := newTestAPI(t, payment.AlwaysPaid())
	bet := mustCreate(t, srv)

	// feed ativo mostra a aposta recém-criada
	res, err := http.Get(srv.URL + "/v1/bets/active")
	if err != nil {
		t.Fatal(err)
	}
	active := decode[[]*ledger.GroupBet](t, res)
	if len(active) != 1 || active[0].ID != bet.ID {
		t.Fatalf("feed ativo inesperado: %+v", active)
	}

	// adesão paga
	res = postJSON(t, srv.URL+"/v1/bets/"+bet.ID+"/join", dto.JoinBetRequest{UserID: "u2", StakeCents: 1000})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("join status = %d", res.StatusCode)
	}
	join := decode[dto.JoinBetResponse](t, res)
	if !join.Joined || join.Payment == nil || !join.Payment.Paid() {
		t.Fatalf("join response: %+v", join)
	}
	if len(join.Bet.Participants) != 2 {
		t.Errorf("participants = %d", len(join.Bet.Participants))
	}

	// adesão duplicada: pagamento confirma mas a precondição barra
	res = postJSON(t, srv.URL+"/v1/bets/"+bet.ID+"/join", dto.JoinBetRequest{UserID: "u2", StakeCents: 1000})
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("join duplicado status = %d, esperado 409", res.StatusCode)
	}
	res.Body.Close()

	// chat
	res = postJSON(t, srv.URL+"/v1/bets/"+bet.ID+"/messages", dto.AddMessageRequest{Sender: "u2", Text: "lets go"})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("message status = %d", res.StatusCode)
	}
	msg := decode[ledger.ChatMessage](t, res)
	if msg.Sender != "u2" || msg.Text != "lets go" {
		t.Errorf("mensagem: %+v", msg)
	}

	// resolução
	res = postJSON(t, srv.URL+"/v1/bets/"+bet.ID+"/resolve", dto.ResolveBetRequest{Result: "YES"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("resolve status = %d", res.StatusCode)
	}
	resolve := decode[dto.ResolveBetResponse](t, res)
	if !resolve.Resolved || resolve.Bet.Status != ledger.StatusResolved {
		t.Fatalf("resolve response: %+v", resolve)
	}

	// idempotente: repetir devolve resolved=false e o mesmo estado
	res = postJSON(t, srv.URL+"/v1/bets/"+bet.ID+"/resolve", dto.ResolveBetRequest{Result: "NO"})
	again := decode[dto.ResolveBetResponse](t, res)
	if again.Resolved {
		t.Error("segunda resolução deveria ser no-op")
	}
	if *again.Bet.Result != ledger.PositionYes {
		t.Error("resultado original deveria permanecer")
	}

	// payouts: u1 2500/0.4=6250, u2 1000/0.4=2500
	res, err = http.Get(srv.URL + "/v1/bets/" + bet.ID + "/payouts")
	if err != nil {
		t.Fatal(err)
	}
	payouts := decode[dto.PayoutsResponse](t, res)
	if payouts.PotCents != 3500 {
		t.Errorf("pot = %d", payouts.PotCents)
	}
	want := map[string]int64{"u1": 6250, "u2": 2500}
	for _, p := range payouts.Payouts {
		if p.PayoutCents != want[p.UserID] {
			t.Errorf("payout de %s = %d, esperado %d", p.UserID, p.PayoutCents, want[p.UserID])
		}
	}
}

func TestJoinPaymentNotPaidLeavesLedgerUntouched(t *testing.T) {
	for _, status := range []payment.Status{payment.StatusCancelled, payment.StatusFailed} {
		t.Run(string(status), func(t *testing.T) {
			srv, _ := newTestAPI(t, &payment.Static{Result: payment.Outcome{Status: status, ErrorCode: "declined"}})
			bet := mustCreate(t, srv)

			res := postJSON(t, srv.URL+"/v1/bets/"+bet.ID+"/join", dto.JoinBetRequest{UserID: "u2", StakeCents: 1000})
			if res.StatusCode != http.StatusPaymentRequired {
				t.Fatalf("status = %d, esperado 402", res.StatusCode)
			}
			join := decode[dto.JoinBetResponse](t, res)
			if join.Joined || join.Payment.Status != status {
				t.Errorf("join response: %+v", join)
			}

			got, err := http.Get(srv.URL + "/v1/bets/" + bet.ID)
			if err != nil {
				t.Fatal(err)
			}
			fresh := decode[*ledger.GroupBet](t, got)
			if len(fresh.Participants) != 1 {
				t.Errorf("ledger mutado com pagamento %s: %d participantes", status, len(fresh.Participants))
			}
			if len(fresh.Messages) != 1 {
				t.Errorf("mensagem de join anexada sem adesão: %d", len(fresh.Messages))
			}
		})
	}
}

func TestJoinValidation(t *testing.T) {
	srv, _ := newTestAPI(t, payment.AlwaysPaid())
	bet := mustCreate(t, srv)

	// stake fora da faixa da aposta
	res := postJSON(t, srv.URL+"/v1/bets/"+bet.ID+"/join", dto.JoinBetRequest{UserID: "u2", StakeCents: 100})
	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("stake abaixo do mínimo: status = %d", res.StatusCode)
	}
	res.Body.Close()

	res = postJSON(t, srv.URL+"/v1/bets/"+bet.ID+"/join", dto.JoinBetRequest{UserID: "u2", StakeCents: 9000})
	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("stake acima do máximo: status = %d", res.StatusCode)
	}
	res.Body.Close()

	res = postJSON(t, srv.URL+"/v1/bets/"+bet.ID+"/join", dto.JoinBetRequest{UserID: "u2", StakeCents: 1000, Token: "DOGE"})
	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("token desconhecido: status = %d", res.StatusCode)
	}
	res.Body.Close()

	res = postJSON(t, srv.URL+"/v1/bets/nope/join", dto.JoinBetRequest{UserID: "u2", StakeCents: 1000})
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("aposta inexistente: status = %d", res.StatusCode)
	}
	res.Body.Close()
}

func TestJoinAfterExpiry(t *testing.T) {
	srv, clk := newTestAPI(t, payment.AlwaysPaid())
	bet := mustCreate(t, srv)

	clk.Advance(61 * time.Minute)
	res := postJSON(t, srv.URL+"/v1/bets/"+bet.ID+"/join", dto.JoinBetRequest{UserID: "u2", StakeCents: 1000})
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("join expirado: status = %d, esperado 409", res.StatusCode)
	}
	join := decode[dto.JoinBetResponse](t, res)
	if join.Joined || len(join.Bet.Participants) != 1 {
		t.Errorf("join response: %+v", join)
	}
}

func TestCountdownEndpoint(t *testing.T) {
	srv, clk := newTestAPI(t, payment.AlwaysPaid())
	bet := mustCreate(t, srv)

	clk.Advance(55 * time.Minute)
	res, err := http.Get(srv.URL + "/v1/bets/" + bet.ID + "/countdown")
	if err != nil {
		t.Fatal(err)
	}
	state := decode[countdown.State](t, res)
	if state.IsExpired || state.Minutes != 5 || state.Urgency != countdown.UrgencyRed {
		t.Errorf("countdown a 5min do fim: %+v", state)
	}

	clk.Advance(10 * time.Minute)
	res, err = http.Get(srv.URL + "/v1/bets/" + bet.ID + "/countdown")
	if err != nil {
		t.Fatal(err)
	}
	state = decode[countdown.State](t, res)
	if !state.IsExpired || state.Formatted != "Expired" {
		t.Errorf("countdown expirado: %+v", state)
	}
}

func TestWhoAmI(t *testing.T) {
	srv, _ := newTestAPI(t, payment.AlwaysPaid())

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/v1/me", nil)
	req.Header.Set("Authorization", "Bearer tok-123")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	user := decode[identity.User](t, res)
	if user.ID != "u1" || user.DisplayName != "Test User" {
		t.Errorf("user: %+v", user)
	}

	res, err = http.Get(srv.URL + "/v1/me")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusUnauthorized {
		t.Errorf("sem token: status = %d", res.StatusCode)
	}
}
