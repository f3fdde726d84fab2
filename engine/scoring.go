package engine

// PointValue returns the score of a single card under s. The branches are
// checked in a fixed order (Joker, Two, Ace, face cards, Ten, Nine, Eight,
// Four–Seven, Three) and the first match wins.
func PointValue(c Card, s Scoring) int {
	switch {
	case c.IsJoker():
		return s.CardJoker
	case c.Rank == RankTwo:
		return s.CardTwo
	case c.Rank == RankAce:
		return s.CardAce
	case c.Rank > RankTen:
		return s.CardFace
	case c.Rank == RankTen:
		return s.CardTen
	case c.Rank == RankNine:
		return s.CardNine
	case c.Rank == RankEight:
		return s.CardEight
	case c.Rank > RankThree:
		return s.CardFourToSeven
	}
	if c.IsRed() {
		return s.Card3Red
	}
	return s.Card3Black
}

// pointTable memoizes PointValue by rank and color.
type pointTable struct {
	built  bool
	values [numRanks][2]int // [rank][0=black,1=red]
}

func (t *pointTable) build(s Scoring) {
	for _, r := range Ranks {
		t.values[r][0] = PointValue(Card{Suit: SuitClub, Rank: r}, s)
		t.values[r][1] = PointValue(Card{Suit: SuitHeart, Rank: r}, s)
	}
	t.values[RankJoker][0] = PointValue(Card{Suit: SuitClub, Rank: RankJoker}, s)
	t.values[RankJoker][1] = PointValue(Card{Suit: SuitDiamond, Rank: RankJoker}, s)
	t.built = true
}

func (t *pointTable) lookup(c Card, s Scoring) int {
	if !t.built {
		t.build(s)
	}
	if int(c.Rank) >= numRanks {
		return 0
	}
	color := 0
	if c.IsRed() {
		color = 1
	}
	return t.values[c.Rank][color]
}

// Points returns the memoized point value of c under the game's scoring table.
func (g *GameState) Points(c Card) int {
	return g.points.lookup(c, g.Rules.Scoring)
}

// sumPoints adds up the point values of cards.
func (g *GameState) sumPoints(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += g.Points(c)
	}
	return total
}

// heldPenalty is what cards left in a hand or foot cost at the end of a
// round. Every card counts against its holder, so negative values such as
// red Threes cost their magnitude.
func (g *GameState) heldPenalty(cards []Card) int {
	total := 0
	for _, c := range cards {
		v := g.Points(c)
		if v < 0 {
			v = -v
		}
		total += v
	}
	return total
}

// ---------------------------------------------------------------------------
// Round scoring
// ---------------------------------------------------------------------------

// TeamScore is one team's result for a finished round.
type TeamScore struct {
	Team        uint8
	CleanBooks  int
	DirtyBooks  int
	WildBooks   int
	ThreesBooks int
	BookPoints  int
	MeldPoints  int // points of every card in the team's melds
	Penalty     int // cost of cards still held in hands and feet, always >= 0
	GoingOut    int
	Total       int
	ScoreAfter  int
}

// bookBonus returns the fixed value for a book. Wild-only and threes books
// take precedence over the clean/dirty distinction.
func bookBonus(m *Meld, rules *Rules) int {
	s := rules.Scoring
	switch {
	case m.IsWildOnly():
		return s.BookWild
	case m.IsThrees():
		return s.BookThrees
	case m.IsClean():
		return s.BookClean
	default:
		return s.BookDirty
	}
}

// ScoreRound computes every team's result for the current round without
// applying it.
func (g *GameState) ScoreRound() []TeamScore {
	out := make([]TeamScore, len(g.Teams))
	for i := range g.Teams {
		t := &g.Teams[i]
		ts := TeamScore{Team: t.ID}
		for _, m := range t.Melds {
			ts.MeldPoints += g.sumPoints(m.Cards)
			if !m.IsBook(&g.Rules) {
				continue
			}
			switch {
			case m.IsWildOnly():
				ts.WildBooks++
			case m.IsThrees():
				ts.ThreesBooks++
			case m.IsClean():
				ts.CleanBooks++
			default:
				ts.DirtyBooks++
			}
			ts.BookPoints += bookBonus(m, &g.Rules)
		}
		for _, seat := range t.Seats {
			p := &g.Players[seat]
			ts.Penalty += g.heldPenalty(p.Hand) + g.heldPenalty(p.Foot)
		}
		if g.WentOut >= 0 && g.Players[g.WentOut].Team == t.ID {
			ts.GoingOut = g.Rules.Scoring.GoingOutBonus
		}
		ts.Total = ts.BookPoints + ts.MeldPoints - ts.Penalty + ts.GoingOut
		ts.ScoreAfter = t.Score + ts.Total
		out[i] = ts
	}
	return out
}
