package engine

// Meld is a same-rank group of cards owned by one team. Wild cards may join
// as long as the meld keeps at least as many natural cards as wild ones.
type Meld struct {
	Team  uint8
	Cards []Card
}

// NewMeld returns an empty meld owned by team.
func NewMeld(team uint8) *Meld {
	return &Meld{Team: team}
}

// WildCount returns the number of Jokers and Twos in the meld.
func (m *Meld) WildCount() int {
	n := 0
	for _, c := range m.Cards {
		if c.IsWild() {
			n++
		}
	}
	return n
}

// NaturalCount returns the number of non-wild cards in the meld.
func (m *Meld) NaturalCount() int { return len(m.Cards) - m.WildCount() }

// NaturalRank returns the rank of the first non-wild card, or 0 when the meld
// holds no natural card.
func (m *Meld) NaturalRank() Rank {
	for _, c := range m.Cards {
		if !c.IsWild() {
			return c.Rank
		}
	}
	return 0
}

// IsBook reports whether the meld has reached the book size.
func (m *Meld) IsBook(rules *Rules) bool { return len(m.Cards) >= rules.BookSize }

// IsClean reports whether the meld has no wild cards (a red meld).
func (m *Meld) IsClean() bool { return m.WildCount() == 0 }

// IsWildOnly reports whether the meld is non-empty and made only of wild cards.
func (m *Meld) IsWildOnly() bool { return len(m.Cards) > 0 && m.NaturalRank() == 0 }

// IsThrees reports whether the meld's natural rank is Three.
func (m *Meld) IsThrees() bool { return m.NaturalRank() == RankThree }

// CanAccept reports whether c may be added to the meld under rules.
func (m *Meld) CanAccept(c Card, rules *Rules) bool {
	if m.IsBook(rules) && !rules.AllowAddToBook {
		return false
	}
	if len(m.Cards) == 0 {
		return true
	}
	natural := m.NaturalRank()
	if natural == 0 {
		return c.IsWild() && rules.AllowWildCardBooks
	}
	if c.IsWild() {
		return m.NaturalCount() > m.WildCount()
	}
	return c.Rank == natural
}

func (m *Meld) add(c Card) {
	m.Cards = append(m.Cards, c)
}
