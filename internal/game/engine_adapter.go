// engine_adapter.go — Bridge between engine.GameState and Table.
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/handfoot/engine"
)

// CardRegistry mirrors the engine's card set with UUIDs for client communication.
// Engine card IDs are fixed for the length of a round, so the registry is rebuilt
// only when a new round is dealt.
type CardRegistry struct {
	round  int
	byCard map[uint16]uuid.UUID      // engine Card.ID -> UUID
	byUUID map[uuid.UUID]engine.Card // UUID -> engine card
}

// refresh rebuilds the registry if g has moved on to a new round.
func (r *CardRegistry) refresh(g *engine.GameState) {
	if r.byCard != nil && r.round == g.RoundNumber() {
		return
	}
	census := g.Census()
	r.round = g.RoundNumber()
	r.byCard = make(map[uint16]uuid.UUID, len(census))
	r.byUUID = make(map[uuid.UUID]engine.Card, len(census))
	for _, h := range census {
		id := uuid.New()
		r.byCard[h.Card.ID] = id
		r.byUUID[id] = h.Card
	}
}

// UUIDOf returns the UUID for c, or uuid.Nil if c is not part of the round.
func (r *CardRegistry) UUIDOf(c engine.Card) uuid.UUID {
	return r.byCard[c.ID]
}

// Lookup returns the engine card registered under id.
func (r *CardRegistry) Lookup(id uuid.UUID) (engine.Card, bool) {
	c, ok := r.byUUID[id]
	return c, ok
}

// Len returns the number of registered cards.
func (r *CardRegistry) Len() int { return len(r.byUUID) }

// rankCode converts an engine rank to its one-character client code.
func rankCode(r engine.Rank) string {
	switch r {
	case engine.RankTwo:
		return "2"
	case engine.RankThree:
		return "3"
	case engine.RankFour:
		return "4"
	case engine.RankFive:
		return "5"
	case engine.RankSix:
		return "6"
	case engine.RankSeven:
		return "7"
	case engine.RankEight:
		return "8"
	case engine.RankNine:
		return "9"
	case engine.RankTen:
		return "T"
	case engine.RankJack:
		return "J"
	case engine.RankQueen:
		return "Q"
	case engine.RankKing:
		return "K"
	case engine.RankAce:
		return "A"
	case engine.RankJoker:
		return "O"
	default:
		return "?"
	}
}

// suitCode converts an engine suit to its client code. Jokers report their
// color as "R" or "B".
func suitCode(c engine.Card) string {
	if c.IsJoker() {
		if c.IsRed() {
			return "R"
		}
		return "B"
	}
	switch c.Suit {
	case engine.SuitClub:
		return "C"
	case engine.SuitDiamond:
		return "D"
	case engine.SuitHeart:
		return "H"
	case engine.SuitSpade:
		return "S"
	default:
		return "?"
	}
}

// cardView converts c to its client form.
func (t *Table) cardView(c engine.Card) CardView {
	return CardView{
		ID:    t.Cards.UUIDOf(c),
		Rank:  rankCode(c.Rank),
		Suit:  suitCode(c),
		Value: c.Value(),
		Wild:  c.IsWild(),
	}
}

func (t *Table) cardViews(cards []engine.Card) []CardView {
	out := make([]CardView, len(cards))
	for i, c := range cards {
		out[i] = t.cardView(c)
	}
	return out
}

func (t *Table) meldViews(melds []*engine.Meld) []MeldView {
	rules := &t.Engine.Rules
	out := make([]MeldView, len(melds))
	for i, m := range melds {
		rank := rankCode(m.NaturalRank())
		if m.IsWildOnly() {
			rank = "W"
		}
		out[i] = MeldView{
			Index: i,
			Cards: t.cardViews(m.Cards),
			Rank:  rank,
			Clean: m.IsClean(),
			Book:  m.IsBook(rules),
		}
	}
	return out
}

// seatFor maps a player UUID to the engine seat.
func (t *Table) seatFor(playerID uuid.UUID) (int, bool) {
	seat, ok := t.PlayerToSeat[playerID]
	return seat, ok
}

// currentPlayerID returns the UUID of the seat to act, or uuid.Nil between rounds.
func (t *Table) currentPlayerID() uuid.UUID {
	if t.Engine.Phase != engine.PhaseRoundInProgress {
		return uuid.Nil
	}
	return t.Players[t.Engine.Current].ID
}
