package engine

import "slices"

// DrawFromStock takes the top card of two stock piles (the same pile may be
// named twice) into the current player's active zone.
func (g *GameState) DrawFromStock(first, second int) error {
	if err := g.checkStockDraw(first, second); err != nil {
		return err
	}
	p := g.CurrentPlayer()
	a := g.popStock(first)
	b := g.popStock(second)
	p.AddCardToCurrentDeck(a)
	p.AddCardToCurrentDeck(b)
	p.HasDrawn = true
	return nil
}

func (g *GameState) checkStockDraw(first, second int) error {
	if g.Phase != PhaseRoundInProgress {
		return ruleErr(CodeRoundNotInProgress)
	}
	if g.CurrentPlayer().HasDrawn {
		return ruleErr(CodeAlreadyDrawn)
	}
	if first < 0 || first >= len(g.StockPiles) {
		return pileErr(CodeInvalidFirstStockPile, first)
	}
	if len(g.StockPiles[first]) == 0 {
		return pileErr(CodeEmptyFirstStockPile, first)
	}
	if second < 0 || second >= len(g.StockPiles) {
		return pileErr(CodeInvalidSecondStockPile, second)
	}
	secondLen := len(g.StockPiles[second])
	if second == first {
		secondLen-- // the first draw comes off this pile too
	}
	if secondLen <= 0 {
		return pileErr(CodeEmptySecondStockPile, second)
	}
	return nil
}

// discardPickup is a validated plan for taking cards off the discard pile.
type discardPickup struct {
	taken []Card // top card first
	plan  MeldPlan
	fresh bool // the team lays down with this pickup
}

// CanDrawFromDiscardPile reports whether DrawFromDiscardPile would succeed,
// returning the error it would return. No state changes.
func (g *GameState) CanDrawFromDiscardPile() error {
	_, err := g.planDiscardPickup(g.CurrentPlayer())
	return err
}

// planDiscardPickup validates a discard pickup for p without changing state.
func (g *GameState) planDiscardPickup(p *Player) (discardPickup, error) {
	if g.Phase != PhaseRoundInProgress {
		return discardPickup{}, ruleErr(CodeRoundNotInProgress)
	}
	if len(g.DiscardPile) == 0 {
		return discardPickup{}, ruleErr(CodeDiscardPileEmpty)
	}
	if p.HasDrawn {
		return discardPickup{}, ruleErr(CodeAlreadyDrawn)
	}
	top := g.DiscardPile[0]
	if top.IsWild() {
		if !g.Rules.AllowPickUpWildFromDiscard {
			return discardPickup{}, ruleErr(CodeCannotPickUpWild)
		}
	} else if top.IsThree() {
		return discardPickup{}, ruleErr(CodeCannotPickUpThree)
	}
	if !p.CanMeldWithThisCard(top) {
		return discardPickup{}, ruleErr(CodeCannotMeldWithTopCard)
	}

	n := g.Rules.MinDiscardPickup
	if n <= 0 || n > len(g.DiscardPile) {
		n = len(g.DiscardPile)
	}
	pk := discardPickup{taken: slices.Clone(g.DiscardPile[:n])}

	team := &g.Teams[p.Team]
	if !team.LaidDown {
		target := g.CurrentRound().MinPointsToLayDown
		plan := g.composeFor(p, pk.taken, target)
		if plan.Points < target {
			return discardPickup{}, pointsErr(CodePickupInsufficientPoints, target, plan.Points)
		}
		if _, err := g.planLayDown(p, pk.taken, target); err != nil {
			return discardPickup{}, err
		}
		pk.plan = plan
		pk.fresh = true
		return pk, nil
	}

	// The extra cards join the active zone before the top card is melded.
	zone := slices.Concat(p.ActiveZone(), pk.taken[1:])
	matches := meldMatches(zone, top)
	if len(matches)+1 < g.Rules.MinCardsPerMeld {
		return discardPickup{}, ruleErr(CodeNotEnoughCardsForMeld)
	}
	rest, _ := removeByID(zone, matches)
	m := &Meld{Team: p.Team, Cards: append(slices.Clone(matches), top)}
	if err := g.checkRemainder(p, team, len(rest), []*Meld{m}, nil); err != nil {
		return discardPickup{}, err
	}
	return pk, nil
}

// DrawFromDiscardPile picks up the top of the discard pile together with up
// to MinDiscardPickup-1 cards below it. The current player must hold a
// natural pair for the top card. A team that has not laid down lays down
// with the pickup and must reach the round's point minimum; a team that has
// laid down starts a new meld with the top card.
func (g *GameState) DrawFromDiscardPile() error {
	p := g.CurrentPlayer()
	pk, err := g.planDiscardPickup(p)
	if err != nil {
		return err
	}
	g.DiscardPile = slices.Clone(g.DiscardPile[len(pk.taken):])

	if pk.fresh {
		for _, c := range pk.taken {
			p.AddCardToCurrentDeck(c)
		}
		g.commitLayDown(p, pk.plan)
	} else {
		for _, c := range pk.taken[1:] {
			p.AddCardToCurrentDeck(c)
		}
		if err := g.layDownMeld(p, pk.taken[0]); err != nil {
			// planDiscardPickup already checked the match count.
			panic("engine: discard pickup meld failed after validation: " + err.Error())
		}
	}
	p.HasDrawn = true
	g.checkWentOut(p)
	return nil
}

// Discard moves card from the current player's active zone to the top of the
// discard pile and passes the turn. Emptying both hand and foot goes out and
// ends the round.
func (g *GameState) Discard(card Card) error {
	if err := g.checkDiscard(card); err != nil {
		return err
	}
	p := g.CurrentPlayer()
	removed, _ := p.DiscardCard(card)
	g.pushDiscard(removed)
	p.HasDiscarded = true
	if g.checkWentOut(p) {
		return nil
	}
	g.advanceTurn()
	if g.stockAvailable() < 2 {
		g.finishRound(RoundEndStockExhausted)
	}
	return nil
}

func (g *GameState) checkDiscard(card Card) error {
	if g.Phase != PhaseRoundInProgress {
		return ruleErr(CodeRoundNotInProgress)
	}
	p := g.CurrentPlayer()
	if !p.HasDrawn {
		return ruleErr(CodeMustDrawBeforeDiscard)
	}
	zone := p.ActiveZone()
	if indexOfCard(zone, card) < 0 {
		return ruleErr(CodeCardNotInZone)
	}
	if len(zone) == 1 && p.InFoot() {
		return g.checkGoOut(&g.Teams[p.Team], nil, nil, false)
	}
	return nil
}

// AddToMeld moves card from the current player's active zone onto the
// team's meld at meldIdx.
func (g *GameState) AddToMeld(meldIdx int, card Card) error {
	held, err := g.checkAddToMeld(meldIdx, card)
	if err != nil {
		return err
	}
	p := g.CurrentPlayer()
	p.DiscardCard(held)
	g.Teams[p.Team].Melds[meldIdx].add(held)
	g.checkWentOut(p)
	return nil
}

// checkAddToMeld validates AddToMeld and returns the held card it would move.
func (g *GameState) checkAddToMeld(meldIdx int, card Card) (Card, error) {
	p, team, err := g.meldingPlayer()
	if err != nil {
		return Card{}, err
	}
	if meldIdx < 0 || meldIdx >= len(team.Melds) {
		return Card{}, pileErr(CodeInvalidMeldIndex, meldIdx)
	}
	zone := p.ActiveZone()
	idx := indexOfCard(zone, card)
	if idx < 0 {
		return Card{}, ruleErr(CodeCardNotInZone)
	}
	held := zone[idx]
	m := team.Melds[meldIdx]
	if !m.CanAccept(held, &g.Rules) {
		return Card{}, ruleErr(CodeMeldCannotAccept)
	}
	grown := &Meld{Team: m.Team, Cards: append(slices.Clone(m.Cards), held)}
	if err := g.checkRemainder(p, team, len(zone)-1, nil, map[int]*Meld{meldIdx: grown}); err != nil {
		return Card{}, err
	}
	return held, nil
}

// LayDownNewMeld starts a new meld for a team that has already laid down,
// using cards from the current player's active zone.
func (g *GameState) LayDownNewMeld(cards []Card) error {
	p, team, err := g.meldingPlayer()
	if err != nil {
		return err
	}
	zone := p.ActiveZone()
	held := make([]Card, 0, len(cards))
	remaining := slices.Clone(zone)
	for _, c := range cards {
		idx := indexOfCard(remaining, c)
		if idx < 0 {
			return ruleErr(CodeCardNotInZone)
		}
		held = append(held, remaining[idx])
		remaining = slices.Delete(remaining, idx, idx+1)
	}
	m, ok := g.buildMeld(p.Team, held)
	if !ok {
		return ruleErr(CodeInvalidMeld)
	}
	if err := g.checkRemainder(p, team, len(remaining), []*Meld{m}, nil); err != nil {
		return err
	}

	z := p.activeZonePtr()
	*z = remaining
	team.Melds = append(team.Melds, m)
	g.checkWentOut(p)
	return nil
}

// buildMeld arranges cards into a legal new meld, naturals first.
func (g *GameState) buildMeld(team uint8, cards []Card) (*Meld, bool) {
	if len(cards) < g.Rules.MinCardsPerMeld {
		return nil, false
	}
	ordered := slices.Clone(cards)
	slices.SortStableFunc(ordered, func(a, b Card) int {
		switch {
		case a.IsWild() == b.IsWild():
			return 0
		case a.IsWild():
			return 1
		default:
			return -1
		}
	})
	m := NewMeld(team)
	for _, c := range ordered {
		if !m.CanAccept(c, &g.Rules) {
			return nil, false
		}
		m.add(c)
	}
	if m.IsThrees() && !g.Rules.AllowBookOfThrees {
		return nil, false
	}
	if m.IsWildOnly() && !g.Rules.AllowWildCardBooks {
		return nil, false
	}
	return m, true
}

// meldingPlayer returns the current player and team when melding is allowed.
func (g *GameState) meldingPlayer() (*Player, *Team, error) {
	if g.Phase != PhaseRoundInProgress {
		return nil, nil, ruleErr(CodeRoundNotInProgress)
	}
	p := g.CurrentPlayer()
	if !p.HasDrawn {
		return nil, nil, ruleErr(CodeMustDrawBeforeMelding)
	}
	team := &g.Teams[p.Team]
	if !team.LaidDown {
		return nil, nil, ruleErr(CodeTeamNotLaidDown)
	}
	return p, team, nil
}
