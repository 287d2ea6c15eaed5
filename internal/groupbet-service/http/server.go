package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/countdown"
	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/http/dto"
	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/identity"
	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/ledger"
	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/payment"
	"github.com/ericbmichaelis/group-taste/internal/groupbet-service/transport"
	"github.com/ericbmichaelis/group-taste/pkg/contracts/events"
)

// Métricas Prometheus do ciclo de vida das apostas
var (
	betsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "groupbet_bets_created_total",
		Help: "Apostas em grupo criadas",
	})
	betJoins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "groupbet_joins_total",
		Help: "Tentativas de adesão por resultado",
	}, []string{"result"}) // joined | rejected | payment_cancelled | payment_failed
	chatMessages = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "groupbet_chat_messages_total",
		Help: "Mensagens anexadas ao chat",
	})
	betsResolved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "groupbet_bets_resolved_total",
		Help: "Apostas resolvidas",
	})
)

func init() {
	prometheus.MustRegister(betsCreated, betJoins, chatMessages, betsResolved)
}

// Server expõe a API REST do ledger de apostas em grupo.
// Confirmação de pagamento SEMPRE termina antes da mutação do ledger;
// a mutação em si é um passo único, sem await no meio.
type Server struct {
	log    *zap.Logger
	ledger *ledger.Ledger
	pay    payment.Provider
	sender transport.Sender
	idp    identity.Provider
	clock  clockwork.Clock
}

func NewServer(log *zap.Logger, l *ledger.Ledger, pay payment.Provider, sender transport.Sender, idp identity.Provider, clock clockwork.Clock) *Server {
	return &Server{log: log, ledger: l, pay: pay, sender: sender, idp: idp, clock: clock}
}

// Router retorna o roteador HTTP com os endpoints REST
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/v1/bets", s.createBet)
	r.Get("/v1/bets", s.listBets)
	r.Get("/v1/bets/active", s.listActiveBets)
	r.Get("/v1/bets/{id}", s.getBet)
	r.Post("/v1/bets/{id}/join", s.joinBet)
	r.Post("/v1/bets/{id}/messages", s.addMessage)
	r.Post("/v1/bets/{id}/resolve", s.resolveBet)
	r.Get("/v1/bets/{id}/countdown", s.getCountdown)
	r.Get("/v1/bets/{id}/payouts", s.getPayouts)
	r.Get("/v1/me", s.whoAmI)
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) createBet(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	pos := ledger.Position(req.Position)
	if pos != ledger.PositionYes && pos != ledger.PositionNo {
		writeError(w, http.StatusBadRequest, "position must be YES or NO")
		return
	}
	vis := ledger.Visibility(req.Visibility)
	if vis == "" {
		vis = ledger.VisibilityPublic
	}
	if vis != ledger.VisibilityPublic && vis != ledger.VisibilityPrivate {
		writeError(w, http.StatusBadRequest, "visibility must be public or private")
		return
	}
	// violações de contrato do caller: o core não tem caminho de erro
	// para entrada malformada, então barramos aqui
	if req.Ticker == "" || req.MarketTitle == "" || req.CreatedBy == "" {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.MaxParticipants < 1 ||
		req.MinStakeCents > req.MaxStakeCents ||
		req.CreatorStakeCents < req.MinStakeCents ||
		req.CreatorStakeCents > req.MaxStakeCents {
		writeError(w, http.StatusBadRequest, "stake out of range or invalid capacity")
		return
	}

	bet := s.ledger.CreateBet(ledger.CreateSpec{
		Ticker:            req.Ticker,
		MarketTitle:       req.MarketTitle,
		EventTitle:        req.EventTitle,
		Position:          pos,
		MinStakeCents:     req.MinStakeCents,
		MaxStakeCents:     req.MaxStakeCents,
		MaxParticipants:   req.MaxParticipants,
		Visibility:        vis,
		CreatedBy:         req.CreatedBy,
		CreatorStakeCents: req.CreatorStakeCents,
		YesBid:            req.YesBid,
		NoBid:             req.NoBid,
	})
	betsCreated.Inc()
	s.log.Info("bet created",
		zap.String("betId", bet.ID),
		zap.String("ticker", bet.Ticker),
		zap.String("position", string(bet.Position)),
	)
	writeJSON(w, http.StatusCreated, bet)
}

func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Bets())
}

func (s *Server) listActiveBets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.ActiveBets())
}

func (s *Server) getBet(w http.ResponseWriter, r *http.Request) {
	bet, ok := s.ledger.Bet(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "bet not found")
		return
	}
	writeJSON(w, http.StatusOK, bet)
}

// joinBet confirma o pagamento (resultado terminal) e só então tenta a
// adesão. cancelled/failed retornam sem nenhuma mutação do ledger.
func (s *Server) joinBet(w http.ResponseWriter, r *http.Request) {
	betID := chi.URLParam(r, "id")
	var req dto.JoinBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.UserID == "" || req.StakeCents <= 0 {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	bet, ok := s.ledger.Bet(betID)
	if !ok {
		writeError(w, http.StatusNotFound, "bet not found")
		return
	}
	if req.StakeCents < bet.MinStakeCents || req.StakeCents > bet.MaxStakeCents {
		writeError(w, http.StatusBadRequest, "stake out of range")
		return
	}

	tokenID := req.Token
	if tokenID == "" {
		tokenID = "ALIEN"
	}
	token, ok := payment.TokenByID(tokenID)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown token")
		return
	}

	outcome, err := s.pay.Confirm(r.Context(), payment.Request{
		BetID:       betID,
		UserID:      req.UserID,
		AmountCents: req.StakeCents,
		Token:       token.ID,
		Network:     token.Network,
		Invoice:     fmt.Sprintf("bet-%s-%d", betID, s.clock.Now().UnixMilli()),
		ItemTitle:   bet.MarketTitle,
	})
	if err != nil {
		s.log.Warn("payment confirm failed", zap.String("betId", betID), zap.Error(err))
		writeError(w, http.StatusBadGateway, "payment provider unavailable")
		return
	}
	if !outcome.Paid() {
		// desfecho terminal não-pago: o ledger permanece intocado
		result := "payment_cancelled"
		if outcome.Status == payment.StatusFailed {
			result = "payment_failed"
		}
		betJoins.WithLabelValues(result).Inc()
		writeJSON(w, http.StatusPaymentRequired, dto.JoinBetResponse{
			BetID:   betID,
			Joined:  false,
			Payment: &outcome,
		})
		return
	}

	updated, joined := s.ledger.JoinBet(betID, req.UserID, req.StakeCents)
	if !joined {
		// pagamento confirmado mas precondição falhou (cheia/expirada/duplicada);
		// estorno é política do caller, fica registrado no log
		s.log.Warn("join rejected after paid confirmation",
			zap.String("betId", betID), zap.String("userId", req.UserID))
		betJoins.WithLabelValues("rejected").Inc()
		writeJSON(w, http.StatusConflict, dto.JoinBetResponse{
			BetID:   betID,
			Joined:  false,
			Payment: &outcome,
			Bet:     updated,
		})
		return
	}
	betJoins.WithLabelValues("joined").Inc()
	writeJSON(w, http.StatusOK, dto.JoinBetResponse{
		BetID:   betID,
		Joined:  true,
		Payment: &outcome,
		Bet:     updated,
	})
}

// addMessage sempre anexa no ledger; a entrega externa roda em background
// e nunca condiciona a resposta
func (s *Server) addMessage(w http.ResponseWriter, r *http.Request) {
	betID := chi.URLParam(r, "id")
	var req dto.AddMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.Sender == "" || req.Text == "" {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	msg, ok := s.ledger.AddMessage(betID, req.Sender, req.Text, req.IsBetShare)
	if !ok {
		writeError(w, http.StatusNotFound, "bet not found")
		return
	}
	chatMessages.Inc()

	if bet, ok := s.ledger.Bet(betID); ok {
		go func(groupID string, m ledger.ChatMessage) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.sender.SendToGroup(ctx, events.GroupMessage{
				GroupID:    groupID,
				BetID:      betID,
				Sender:     m.Sender,
				Text:       m.Text,
				IsBetShare: m.IsBetShare,
				TsUnixMs:   m.TsUnixMs,
			}); err != nil {
				s.log.Warn("group delivery failed", zap.String("betId", betID), zap.Error(err))
			}
		}(bet.MessagingGroupID, *msg)
	}

	writeJSON(w, http.StatusCreated, msg)
}

func (s *Server) resolveBet(w http.ResponseWriter, r *http.Request) {
	betID := chi.URLParam(r, "id")
	var req dto.ResolveBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	result := ledger.Position(req.Result)
	if result != ledger.PositionYes && result != ledger.PositionNo {
		writeError(w, http.StatusBadRequest, "result must be YES or NO")
		return
	}

	bet, resolved := s.ledger.ResolveBet(betID, result)
	if bet == nil {
		writeError(w, http.StatusNotFound, "bet not found")
		return
	}
	if resolved {
		betsResolved.Inc()
		s.log.Info("bet resolved", zap.String("betId", betID), zap.String("result", string(result)))
	}
	writeJSON(w, http.StatusOK, dto.ResolveBetResponse{BetID: betID, Resolved: resolved, Bet: bet})
}

// getCountdown deriva o estado de contagem do relógio atual; nada é cacheado
func (s *Server) getCountdown(w http.ResponseWriter, r *http.Request) {
	bet, ok := s.ledger.Bet(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "bet not found")
		return
	}
	state := countdown.ForBet(time.UnixMilli(bet.ExpiresAtUnixMs), s.clock.Now())
	writeJSON(w, http.StatusOK, state)
}

// whoAmI resolve o bearer token no SSO; o core nunca deriva identidade
func (s *Server) whoAmI(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	user, err := s.idp.Resolve(r.Context(), token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "identity not resolved")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// getPayouts recalcula a liquidação sob demanda a partir do snapshot de preço
func (s *Server) getPayouts(w http.ResponseWriter, r *http.Request) {
	bet, ok := s.ledger.Bet(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "bet not found")
		return
	}
	resp := dto.PayoutsResponse{
		BetID:    bet.ID,
		PotCents: ledger.Pot(bet),
		Payouts:  make([]dto.PayoutEntry, 0, len(bet.Participants)),
	}
	for _, p := range bet.Participants {
		resp.Payouts = append(resp.Payouts, dto.PayoutEntry{
			UserID:      p.UserID,
			StakeCents:  p.StakeCents,
			PayoutCents: ledger.CalcPayout(bet, p),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
