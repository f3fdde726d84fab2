package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// nextTestID numbers hand-built cards well above any dealt card ID.
var nextTestID uint16 = 40000

// mk builds a card with a fresh identity.
func mk(r Rank, s Suit) Card {
	c := BuildCard(s, r)
	c.ID = nextTestID
	nextTestID++
	return c
}

// stranger returns a card whose value no dealt card shares.
func stranger() Card {
	return Card{ID: 9999, Suit: SuitSpade, Rank: RankJoker + 1}
}

// mkN builds n cards of rank r, cycling through the suits.
func mkN(r Rank, n int) []Card {
	out := make([]Card, n)
	for i := range out {
		out[i] = mk(r, Suits[i%len(Suits)])
	}
	return out
}

// newTwoPlayerGame deals a seeded two-player game, letting mutate adjust the
// rules first.
func newTwoPlayerGame(t *testing.T, mutate func(*Rules)) *GameState {
	t.Helper()
	rules := DefaultRules()
	rules.NumPlayers = 2
	if mutate != nil {
		mutate(&rules)
	}
	g, err := NewGame(7, rules)
	require.NoError(t, err)
	return g
}

// withHand replaces the current player's hand and returns the player.
func withHand(g *GameState, cards ...Card) *Player {
	p := g.CurrentPlayer()
	p.Hand = cards
	return p
}

// book builds a meld of the given cards for team.
func book(team uint8, cards ...[]Card) *Meld {
	m := NewMeld(team)
	for _, group := range cards {
		m.Cards = append(m.Cards, group...)
	}
	return m
}
