package engine

import (
	"fmt"
	"slices"
)

// Stage returns the current player's position within the turn.
func (g *GameState) Stage() TurnStage {
	if g.Phase != PhaseRoundInProgress {
		return StageIdle
	}
	if g.CurrentPlayer().HasDrawn {
		return StageAwaitingDiscard
	}
	return StageAwaitingDraw
}

// MoveKind identifies an engine action.
type MoveKind uint8

const (
	MoveDrawStock MoveKind = iota
	MoveDrawDiscard
	MoveLayDown
	MoveAddToMeld
	MoveLayDownMeld
	MoveDiscard
)

func (k MoveKind) String() string {
	switch k {
	case MoveDrawStock:
		return "draw_stock"
	case MoveDrawDiscard:
		return "draw_discard"
	case MoveLayDown:
		return "lay_down"
	case MoveAddToMeld:
		return "add_to_meld"
	case MoveLayDownMeld:
		return "lay_down_meld"
	case MoveDiscard:
		return "discard"
	}
	return "unknown"
}

// Move is one action with its arguments. Only the fields used by Kind are set.
type Move struct {
	Kind   MoveKind
	First  int    // MoveDrawStock
	Second int    // MoveDrawStock
	Meld   int    // MoveAddToMeld
	Card   Card   // MoveAddToMeld, MoveDiscard
	Cards  []Card // MoveLayDownMeld
}

// Apply performs m for the current player.
func (g *GameState) Apply(m Move) error {
	switch m.Kind {
	case MoveDrawStock:
		return g.DrawFromStock(m.First, m.Second)
	case MoveDrawDiscard:
		return g.DrawFromDiscardPile()
	case MoveLayDown:
		return g.LayDownCards(g.CurrentRound().MinPointsToLayDown)
	case MoveAddToMeld:
		return g.AddToMeld(m.Meld, m.Card)
	case MoveLayDownMeld:
		return g.LayDownNewMeld(m.Cards)
	case MoveDiscard:
		return g.Discard(m.Card)
	}
	return ruleErr(CodeUnknown)
}

// LegalMoves lists the moves the current player may make right now. Cards
// with equal value are interchangeable, so each value is listed once.
// New melds from held cards (MoveLayDownMeld) are not enumerated.
func (g *GameState) LegalMoves() []Move {
	var moves []Move
	switch g.Stage() {
	case StageAwaitingDraw:
		for i := range g.StockPiles {
			for j := i; j < len(g.StockPiles); j++ {
				if g.checkStockDraw(i, j) == nil {
					moves = append(moves, Move{Kind: MoveDrawStock, First: i, Second: j})
				}
			}
		}
		if g.CanDrawFromDiscardPile() == nil {
			moves = append(moves, Move{Kind: MoveDrawDiscard})
		}

	case StageAwaitingDiscard:
		p := g.CurrentPlayer()
		team := &g.Teams[p.Team]
		if !team.LaidDown {
			if _, err := g.planLayDown(p, nil, g.CurrentRound().MinPointsToLayDown); err == nil {
				moves = append(moves, Move{Kind: MoveLayDown})
			}
		}
		distinct := distinctValues(p.ActiveZone())
		if team.LaidDown {
			for mi := range team.Melds {
				for _, c := range distinct {
					if _, err := g.checkAddToMeld(mi, c); err == nil {
						moves = append(moves, Move{Kind: MoveAddToMeld, Meld: mi, Card: c})
					}
				}
			}
		}
		for _, c := range distinct {
			if g.checkDiscard(c) == nil {
				moves = append(moves, Move{Kind: MoveDiscard, Card: c})
			}
		}
	}
	return moves
}

// PreferredMove chooses from moves the way a careful but simple player
// would. A lay-down always wins. Adding to a meld is taken only while the
// active zone holds more than two cards, so the player keeps cards back for
// the discard. Otherwise the first draw or discard offered is returned.
// ok is false when moves is empty.
func PreferredMove(moves []Move, zone int) (Move, bool) {
	if len(moves) == 0 {
		return Move{}, false
	}
	for _, m := range moves {
		if m.Kind == MoveLayDown {
			return m, true
		}
	}
	if zone > 2 {
		for _, m := range moves {
			if m.Kind == MoveAddToMeld {
				return m, true
			}
		}
	}
	for _, m := range moves {
		if m.Kind != MoveAddToMeld {
			return m, true
		}
	}
	return moves[0], true
}

// SuggestMove returns the current player's PreferredMove.
func (g *GameState) SuggestMove() (Move, bool) {
	if g.Phase != PhaseRoundInProgress {
		return Move{}, false
	}
	return PreferredMove(g.LegalMoves(), len(g.CurrentPlayer().ActiveZone()))
}

// distinctValues returns the first card of each value in cards.
func distinctValues(cards []Card) []Card {
	var out []Card
	for _, c := range cards {
		if !slices.ContainsFunc(out, func(o Card) bool { return o.Value() == c.Value() }) {
			out = append(out, c)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Custody ledger
// ---------------------------------------------------------------------------

// ZoneKind names a card container.
type ZoneKind uint8

const (
	ZoneStock ZoneKind = iota
	ZoneDiscard
	ZoneHand
	ZoneFoot
	ZoneMeld
)

func (z ZoneKind) String() string {
	switch z {
	case ZoneStock:
		return "stock"
	case ZoneDiscard:
		return "discard"
	case ZoneHand:
		return "hand"
	case ZoneFoot:
		return "foot"
	case ZoneMeld:
		return "meld"
	}
	return "unknown"
}

// Location is the zone holding a card. Owner is the stock pile index, seat or
// team depending on Kind; Meld is the meld index for ZoneMeld.
type Location struct {
	Kind  ZoneKind
	Owner int
	Meld  int
}

func (l Location) String() string {
	switch l.Kind {
	case ZoneDiscard:
		return "discard"
	case ZoneMeld:
		return fmt.Sprintf("meld %d/%d", l.Owner, l.Meld)
	}
	return fmt.Sprintf("%s %d", l.Kind, l.Owner)
}

// Holding is one card together with its location.
type Holding struct {
	Card Card
	At   Location
}

// Census lists every card in every zone: stock piles, discard pile, each
// seat's hand and foot, then each team's melds.
func (g *GameState) Census() []Holding {
	out := make([]Holding, 0, len(g.catalog))
	add := func(cards []Card, at Location) {
		for _, c := range cards {
			out = append(out, Holding{Card: c, At: at})
		}
	}
	for i, pile := range g.StockPiles {
		add(pile, Location{Kind: ZoneStock, Owner: i})
	}
	add(g.DiscardPile, Location{Kind: ZoneDiscard})
	for i := range g.Players {
		add(g.Players[i].Hand, Location{Kind: ZoneHand, Owner: i})
		add(g.Players[i].Foot, Location{Kind: ZoneFoot, Owner: i})
	}
	for ti := range g.Teams {
		for mi, m := range g.Teams[ti].Melds {
			add(m.Cards, Location{Kind: ZoneMeld, Owner: ti, Meld: mi})
		}
	}
	return out
}

// CheckCustody verifies that every card of the round's deck sits in exactly
// one zone and that no zone holds a card from outside the deck.
func (g *GameState) CheckCustody() error {
	seen := make([]Location, len(g.catalog))
	found := make([]bool, len(g.catalog))
	for _, h := range g.Census() {
		id := int(h.Card.ID)
		if id >= len(g.catalog) || g.catalog[id] != h.Card {
			return fmt.Errorf("custody: unknown card %s (id %d) in %s", h.Card, h.Card.ID, h.At)
		}
		if found[id] {
			return fmt.Errorf("custody: card %s (id %d) in both %s and %s", h.Card, id, seen[id], h.At)
		}
		found[id] = true
		seen[id] = h.At
	}
	for id, ok := range found {
		if !ok {
			return fmt.Errorf("custody: card %s (id %d) is missing", g.catalog[id], id)
		}
	}
	return nil
}
