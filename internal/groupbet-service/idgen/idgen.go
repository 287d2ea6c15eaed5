package idgen

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Generator abstrai a geração de identificadores e da carteira do grupo,
// permitindo sequências determinísticas em teste.
type Generator interface {
	BetID() string
	MessageID() string
	GroupWallet() string
}

// Alfabeto base58-like usado nos endereços de carteira (sem 0/O/I/l)
const walletAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz123456789"

// WalletLen é o tamanho fixo do endereço gerado
const WalletLen = 44

// Random gera IDs via uuid e endereços via fonte pseudo-aleatória injetável
type Random struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandom cria um gerador com a seed informada
func NewRandom(seed int64) *Random {
	return &Random{rnd: rand.New(rand.NewSource(seed))}
}

func (g *Random) BetID() string     { return uuid.NewString() }
func (g *Random) MessageID() string { return uuid.NewString() }

// GroupWallet devolve um endereço de 44 caracteres no alfabeto base58-like
func (g *Random) GroupWallet() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var sb strings.Builder
	sb.Grow(WalletLen)
	for i := 0; i < WalletLen; i++ {
		sb.WriteByte(walletAlphabet[g.rnd.Intn(len(walletAlphabet))])
	}
	return sb.String()
}
