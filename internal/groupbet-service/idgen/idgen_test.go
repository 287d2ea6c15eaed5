package idgen

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRandomBetIDIsUUID(t *testing.T) {
	g := NewRandom(1)
	id := g.BetID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("BetID não é um uuid válido: %v", err)
	}
	if g.BetID() == id {
		t.Error("BetID repetiu")
	}
	if _, err := uuid.Parse(g.MessageID()); err != nil {
		t.Fatalf("MessageID não é um uuid válido: %v", err)
	}
}

func TestGroupWalletShape(t *testing.T) {
	g := NewRandom(42)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		w := g.GroupWallet()
		if len(w) != WalletLen {
			t.Fatalf("len = %d, esperado %d", len(w), WalletLen)
		}
		for _, r := range w {
			if !strings.ContainsRune(walletAlphabet, r) {
				t.Fatalf("caractere fora do alfabeto: %q em %s", r, w)
			}
		}
		if seen[w] {
			t.Fatalf("carteira repetida: %s", w)
		}
		seen[w] = true
	}
}

func TestGroupWalletDeterministicBySeed(t *testing.T) {
	a := NewRandom(7)
	b := NewRandom(7)
	for i := 0; i < 5; i++ {
		if wa, wb := a.GroupWallet(), b.GroupWallet(); wa != wb {
			t.Fatalf("mesma seed divergiu na iteração %d: %s != %s", i, wa, wb)
		}
	}
}
