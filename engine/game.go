// Package engine implements the Hand and Foot card game rules.
//
// GameState owns every card zone (stock piles, discard pile, hands, feet and
// team melds), validates each action against Rules and advances turns and
// rounds. It performs no I/O and is not safe for concurrent use; callers that
// share a game across goroutines must serialize access (see internal/game).
package engine

import "slices"

// GameState holds the complete state of one Hand and Foot game.
type GameState struct {
	Rules   Rules
	Players []Player
	Teams   []Team

	StockPiles  [][]Card // each pile is drawn from the front
	DiscardPile []Card   // index 0 is the top card

	Phase      Phase
	RoundIdx   int // index into Rules.Rounds
	Dealer     int
	Current    int
	TurnNumber int
	WentOut    int // seat that went out this round, -1 if none
	EndReason  RoundEnd
	History    [][]TeamScore

	RNG uint64

	catalog []Card // the round's full card set, indexed by Card.ID
	points  pointTable
}

// ---------------------------------------------------------------------------
// xorshift64 RNG
// ---------------------------------------------------------------------------

func (g *GameState) nextRand() uint64 {
	x := g.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (g *GameState) randN(n int) int {
	return int(g.nextRand() % uint64(n))
}

// ---------------------------------------------------------------------------
// NewGame and round setup
// ---------------------------------------------------------------------------

// NewGame validates rules, seats the players in teams and deals the first
// round. seats is optional; when given it must hold one entry per player.
func NewGame(seed uint64, rules Rules, seats ...Seat) (*GameState, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if len(seats) != 0 && len(seats) != rules.NumPlayers {
		return nil, &RuleError{Code: CodeInvalidPlayerCount, Have: len(seats)}
	}

	g := &GameState{
		Rules:   rules,
		RNG:     seed,
		WentOut: -1,
	}
	if g.RNG == 0 {
		g.RNG = 1 // xorshift can't start at 0
	}
	g.Rules.Rounds = slices.Clone(rules.Rounds)

	g.Players = make([]Player, rules.NumPlayers)
	for i := range g.Players {
		seat := Seat{Name: defaultSeatName(i), Human: i == 0}
		if len(seats) != 0 {
			seat = seats[i]
		}
		g.Players[i] = Player{Seat: uint8(i), Name: seat.Name, Human: seat.Human}
	}
	g.Teams = newTeams(&g.Rules, g.Players)

	// The first round start moves the dealer button to seat 0.
	g.Dealer = len(g.Players) - 1
	g.startRound(0)
	return g, nil
}

func defaultSeatName(i int) string {
	if i == 0 {
		return "Player"
	}
	return "CPU" + string(rune('0'+i))
}

// StartNextRound deals the next round once the current one is complete.
func (g *GameState) StartNextRound() error {
	if g.Phase != PhaseRoundComplete {
		return ruleErr(CodeRoundNotComplete)
	}
	g.startRound(g.RoundIdx + 1)
	return nil
}

// startRound resets every zone and deals round idx.
func (g *GameState) startRound(idx int) {
	g.RoundIdx = idx
	g.WentOut = -1
	g.EndReason = RoundEndNone
	g.TurnNumber = 0
	for i := range g.Teams {
		g.Teams[i].Melds = nil
		g.Teams[i].LaidDown = false
	}
	for i := range g.Players {
		g.Players[i].Hand = nil
		g.Players[i].Foot = nil
		g.Players[i].resetTurn()
	}

	deck := g.buildDeck()
	g.distributeStockPiles(deck)

	n := len(g.Players)
	g.Dealer = (g.Dealer + 1) % n
	g.Current = (g.Dealer + 1) % n

	g.dealHandsAndFeet()
	g.seedDiscardPile()
	g.Phase = PhaseRoundInProgress
}

// buildDeck creates NumDecks decks of 52 ranked cards plus a black and a red
// joker each, numbering every instance.
func (g *GameState) buildDeck() []Card {
	deck := make([]Card, 0, g.Rules.DeckSize())
	next := uint16(0)
	add := func(c Card) {
		c.ID = next
		next++
		deck = append(deck, c)
	}
	for d := 0; d < g.Rules.NumDecks; d++ {
		for _, r := range Ranks {
			for _, s := range Suits {
				add(BuildCard(s, r))
			}
		}
		add(BuildCard(SuitClub, RankJoker))
		add(BuildCard(SuitDiamond, RankJoker))
	}
	g.catalog = slices.Clone(deck)
	return deck
}

// distributeStockPiles moves every card of deck, picked at random, onto the
// stock piles in turn.
func (g *GameState) distributeStockPiles(deck []Card) {
	g.StockPiles = make([][]Card, g.Rules.NumStockPiles)
	g.DiscardPile = nil
	pile := 0
	for len(deck) > 0 {
		i := g.randN(len(deck))
		last := len(deck) - 1
		c := deck[i]
		deck[i] = deck[last]
		deck = deck[:last]

		g.StockPiles[pile] = append(g.StockPiles[pile], c)
		pile = (pile + 1) % len(g.StockPiles)
	}
}

// dealHandsAndFeet deals one hand card and one foot card per pass, starting
// left of the dealer and rotating through the stock piles, until every hand
// holds the round's card count.
func (g *GameState) dealHandsAndFeet() {
	n := len(g.Players)
	size := g.CurrentRound().CardsPerHandFoot
	seat := (g.Dealer + 1) % n
	pile := 0
	for len(g.StockPiles[pile]) > 1 {
		p := &g.Players[seat]
		if len(p.Hand) == size {
			break
		}
		p.Hand = append(p.Hand, g.popStock(pile))
		p.Foot = append(p.Foot, g.popStock(pile))
		pile = (pile + 1) % len(g.StockPiles)
		seat = (seat + 1) % n
	}
	for i := range g.Players {
		g.Players[i].sortZones()
	}
}

// seedDiscardPile turns MinDiscardPickup cards (at least one) from the stock
// piles onto the discard pile, rotating through the piles.
func (g *GameState) seedDiscardPile() {
	count := max(g.Rules.MinDiscardPickup, 1)
	pile := 0
	for i := 0; i < count; i++ {
		tried := 0
		for len(g.StockPiles[pile]) == 0 && tried < len(g.StockPiles) {
			pile = (pile + 1) % len(g.StockPiles)
			tried++
		}
		if len(g.StockPiles[pile]) == 0 {
			return
		}
		g.pushDiscard(g.popStock(pile))
		pile = (pile + 1) % len(g.StockPiles)
	}
}

// ---------------------------------------------------------------------------
// Zone primitives
// ---------------------------------------------------------------------------

func (g *GameState) popStock(pile int) Card {
	c := g.StockPiles[pile][0]
	g.StockPiles[pile] = g.StockPiles[pile][1:]
	return c
}

func (g *GameState) pushDiscard(c Card) {
	g.DiscardPile = slices.Insert(g.DiscardPile, 0, c)
}

// ---------------------------------------------------------------------------
// Turn and round transitions
// ---------------------------------------------------------------------------

// NextSeat returns the seat after seat in turn order.
func (g *GameState) NextSeat(seat int) int { return (seat + 1) % len(g.Players) }

// advanceTurn passes the turn to the next seat and clears its turn flags.
func (g *GameState) advanceTurn() {
	g.Current = g.NextSeat(g.Current)
	g.TurnNumber++
	g.Players[g.Current].resetTurn()
}

// stockAvailable returns the number of cards left across all stock piles.
func (g *GameState) stockAvailable() int {
	total := 0
	for _, p := range g.StockPiles {
		total += len(p)
	}
	return total
}

// checkWentOut ends the round when p has emptied both hand and foot.
func (g *GameState) checkWentOut(p *Player) bool {
	if len(p.Hand) != 0 || len(p.Foot) != 0 {
		return false
	}
	g.WentOut = int(p.Seat)
	g.finishRound(RoundEndWentOut)
	return true
}

// finishRound scores the round, applies the scores and moves to the next
// phase.
func (g *GameState) finishRound(reason RoundEnd) {
	g.EndReason = reason
	scores := g.ScoreRound()
	for i, ts := range scores {
		g.Teams[i].Score = ts.ScoreAfter
	}
	g.History = append(g.History, scores)
	if g.RoundIdx+1 >= len(g.Rules.Rounds) {
		g.Phase = PhaseGameComplete
	} else {
		g.Phase = PhaseRoundComplete
	}
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// CurrentRound returns the parameters of the round being played.
func (g *GameState) CurrentRound() Round { return g.Rules.Rounds[g.RoundIdx] }

// RoundNumber returns the 1-based number of the current round.
func (g *GameState) RoundNumber() int { return g.RoundIdx + 1 }

// CurrentPlayer returns the player whose turn it is.
func (g *GameState) CurrentPlayer() *Player { return &g.Players[g.Current] }

// Team returns the team with the given ID.
func (g *GameState) Team(id uint8) *Team { return &g.Teams[id] }

// TeamOf returns the team of the player in seat.
func (g *GameState) TeamOf(seat int) *Team { return &g.Teams[g.Players[seat].Team] }

// IsOver reports whether the game has finished.
func (g *GameState) IsOver() bool { return g.Phase == PhaseGameComplete }

// DiscardTop returns the top of the discard pile; ok is false when empty.
func (g *GameState) DiscardTop() (Card, bool) {
	if len(g.DiscardPile) == 0 {
		return Card{}, false
	}
	return g.DiscardPile[0], true
}

// StockSizes returns the number of cards in each stock pile.
func (g *GameState) StockSizes() []int {
	out := make([]int, len(g.StockPiles))
	for i, p := range g.StockPiles {
		out[i] = len(p)
	}
	return out
}

// Winner returns the team with the highest score; ok is false on a tie.
func (g *GameState) Winner() (team uint8, ok bool) {
	best := -1
	for i, t := range g.Teams {
		switch {
		case best < 0 || t.Score > g.Teams[best].Score:
			best = i
			ok = true
		case t.Score == g.Teams[best].Score:
			ok = false
		}
	}
	return uint8(best), ok
}
