package engine

// StateHash returns a 64-bit FNV-1a hash of the observable game state: every
// zone's contents in order, team flags and scores, the turn pointers and the
// RNG. Two games built from the same seed and fed the same actions hash
// equally.
func (g *GameState) StateHash() uint64 {
	h := uint64(14695981039346656037) // FNV-1a offset basis
	const prime = uint64(1099511628211)

	mix := func(v uint64) {
		for i := 0; i < 8; i++ {
			h ^= v & 0xff
			h *= prime
			v >>= 8
		}
	}
	mixCards := func(cards []Card) {
		mix(uint64(len(cards)))
		for _, c := range cards {
			mix(uint64(c.ID)<<16 | uint64(c.Rank)<<8 | uint64(c.Suit))
		}
	}

	for _, pile := range g.StockPiles {
		mixCards(pile)
	}
	mixCards(g.DiscardPile)
	for i := range g.Players {
		p := &g.Players[i]
		mixCards(p.Hand)
		mixCards(p.Foot)
		mix(boolBits(p.HasDrawn, p.HasDiscarded))
	}
	for i := range g.Teams {
		t := &g.Teams[i]
		mix(uint64(len(t.Melds)))
		for _, m := range t.Melds {
			mixCards(m.Cards)
		}
		mix(boolBits(t.LaidDown, false))
		mix(uint64(int64(t.Score)))
	}
	mix(uint64(g.Phase))
	mix(uint64(g.RoundIdx))
	mix(uint64(g.Dealer))
	mix(uint64(g.Current))
	mix(uint64(g.TurnNumber))
	mix(uint64(int64(g.WentOut)))
	mix(g.RNG)
	return h
}

func boolBits(a, b bool) uint64 {
	var v uint64
	if a {
		v |= 1
	}
	if b {
		v |= 2
	}
	return v
}
