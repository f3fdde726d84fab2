package engine

import "slices"

// Seat describes who sits in a seat when a game is created.
type Seat struct {
	Name  string
	Human bool
}

// Player is one seat at the table. The player plays from the hand until it
// is empty and from the foot afterwards.
type Player struct {
	Seat  uint8
	Name  string
	Human bool
	Team  uint8 // index into GameState.Teams

	Hand []Card
	Foot []Card

	HasDrawn     bool
	HasDiscarded bool
}

// InFoot reports whether the player has moved on to the foot.
func (p *Player) InFoot() bool { return len(p.Hand) == 0 }

// ActiveZone returns the cards the player is currently playing from.
func (p *Player) ActiveZone() []Card {
	if p.InFoot() {
		return p.Foot
	}
	return p.Hand
}

// activeZonePtr returns a pointer to the active zone slice.
func (p *Player) activeZonePtr() *[]Card {
	if p.InFoot() {
		return &p.Foot
	}
	return &p.Hand
}

// AddCardToCurrentDeck adds c to the hand, or to the foot once the hand is
// empty.
func (p *Player) AddCardToCurrentDeck(c Card) {
	z := p.activeZonePtr()
	*z = append(*z, c)
}

// CanMeldWithThisCard reports whether the active zone holds at least two
// natural matches for c.
func (p *Player) CanMeldWithThisCard(c Card) bool {
	n := 0
	for _, held := range p.ActiveZone() {
		if NaturalMatch(held, c) {
			n++
			if n >= 2 {
				return true
			}
		}
	}
	return false
}

// DiscardCard removes c from the active zone and returns the removed card.
// The physical instance with c's ID is preferred; otherwise the first card
// with the same value is taken, since such cards are interchangeable.
// ok is false when no matching card is held.
func (p *Player) DiscardCard(c Card) (removed Card, ok bool) {
	z := p.activeZonePtr()
	idx := indexOfCard(*z, c)
	if idx < 0 {
		return Card{}, false
	}
	removed = (*z)[idx]
	*z = slices.Delete(*z, idx, idx+1)
	return removed, true
}

// resetTurn clears the per-turn flags.
func (p *Player) resetTurn() {
	p.HasDrawn = false
	p.HasDiscarded = false
}

// sortZones orders hand and foot by value ascending.
func (p *Player) sortZones() {
	sortByValue(p.Hand)
	sortByValue(p.Foot)
}

// ---------------------------------------------------------------------------
// Card slice helpers
// ---------------------------------------------------------------------------

func sortByValue(cards []Card) {
	slices.SortStableFunc(cards, func(a, b Card) int { return a.Value() - b.Value() })
}

// indexOfCard finds c by identity first and by value second.
func indexOfCard(cards []Card, c Card) int {
	for i, held := range cards {
		if held == c {
			return i
		}
	}
	for i, held := range cards {
		if held.Value() == c.Value() {
			return i
		}
	}
	return -1
}

// removeByID removes every card in take from cards, matching by identity.
// It returns the remaining cards and false if any card was missing, in which
// case cards is returned unchanged.
func removeByID(cards []Card, take []Card) ([]Card, bool) {
	out := slices.Clone(cards)
	for _, c := range take {
		idx := slices.Index(out, c)
		if idx < 0 {
			return cards, false
		}
		out = slices.Delete(out, idx, idx+1)
	}
	return out, true
}
