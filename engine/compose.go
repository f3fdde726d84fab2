package engine

import "slices"

// MeldPlan is a set of melds composed from a player's cards, with the total
// point value of every card it commits. A plan does not change any zone.
type MeldPlan struct {
	Melds  []*Meld
	Points int
}

// Cards returns every card the plan commits, meld by meld.
func (p MeldPlan) Cards() []Card {
	var out []Card
	for _, m := range p.Melds {
		out = append(out, m.Cards...)
	}
	return out
}

// ComposeMelds partitions cards into melds for team and reports their value.
//
// Natural cards are bucketed by rank. A bucket with at least MinCardsPerMeld
// cards becomes one meld, however large it is. A bucket one card short is
// completed with a wild card when one is available. While the total is below
// target, the remaining wild cards are attached to the first meld that can
// legally take them. Jokers are always spent before Twos. Threes are ignored
// unless books of threes are allowed.
func ComposeMelds(cards []Card, team uint8, target int, rules *Rules, points func(Card) int) MeldPlan {
	var buckets [numRanks][]Card
	var jokers, twos []Card
	for _, c := range cards {
		switch {
		case c.IsThree() && !rules.AllowBookOfThrees:
			continue
		case c.IsJoker():
			jokers = append(jokers, c)
		case c.IsWild():
			twos = append(twos, c)
		default:
			buckets[c.Rank] = append(buckets[c.Rank], c)
		}
	}

	// nextWild pops a wild card, Jokers first.
	nextWild := func() (Card, bool) {
		if n := len(jokers); n > 0 {
			w := jokers[n-1]
			jokers = jokers[:n-1]
			return w, true
		}
		if n := len(twos); n > 0 {
			w := twos[n-1]
			twos = twos[:n-1]
			return w, true
		}
		return Card{}, false
	}

	var plan MeldPlan
	minSize := rules.MinCardsPerMeld
	for _, r := range Ranks {
		bucket := buckets[r]
		switch {
		case len(bucket) >= minSize:
			// One meld per rank, even when the bucket could fill two.
			m := NewMeld(team)
			for _, c := range bucket {
				m.add(c)
				plan.Points += points(c)
			}
			plan.Melds = append(plan.Melds, m)
		case len(bucket) == minSize-1:
			w, ok := nextWild()
			if !ok {
				continue
			}
			m := NewMeld(team)
			for _, c := range bucket {
				m.add(c)
				plan.Points += points(c)
			}
			m.add(w)
			plan.Points += points(w)
			plan.Melds = append(plan.Melds, m)
		}
	}

	// Dirty up melds until the target is reached. Whether a meld takes a wild
	// card does not depend on which wild it is, so one refusal from every
	// meld ends the search.
	for plan.Points < target && len(jokers)+len(twos) > 0 {
		var w Card
		if len(jokers) > 0 {
			w = jokers[len(jokers)-1]
		} else {
			w = twos[len(twos)-1]
		}
		idx := slices.IndexFunc(plan.Melds, func(m *Meld) bool { return m.CanAccept(w, rules) })
		if idx < 0 {
			break
		}
		nextWild()
		plan.Melds[idx].add(w)
		plan.Points += points(w)
	}
	return plan
}

// composeFor runs ComposeMelds over the player's active zone plus extra.
func (g *GameState) composeFor(p *Player, extra []Card, target int) MeldPlan {
	cards := slices.Concat(p.ActiveZone(), extra)
	return ComposeMelds(cards, p.Team, target, &g.Rules, g.Points)
}

// PointsInCurrentHand returns the points the current player could lay down
// from the active zone plus extra, spending wild cards up to target.
func (g *GameState) PointsInCurrentHand(target int, extra []Card) int {
	return g.composeFor(g.CurrentPlayer(), extra, target).Points
}

// ComposeMelds plans melds for the current player without changing state.
func (g *GameState) ComposeMelds(target int, extra []Card) MeldPlan {
	return g.composeFor(g.CurrentPlayer(), extra, target)
}

// LayDownCards makes the current player's team lay down for the round using
// melds composed from the active zone worth at least target points. Apply and
// LegalMoves pass the round's MinPointsToLayDown.
func (g *GameState) LayDownCards(target int) error {
	if g.Phase != PhaseRoundInProgress {
		return ruleErr(CodeRoundNotInProgress)
	}
	p := g.CurrentPlayer()
	plan, err := g.planLayDown(p, nil, target)
	if err != nil {
		return err
	}
	g.commitLayDown(p, plan)
	g.checkWentOut(p)
	return nil
}

// planLayDown validates a full lay-down for p over the active zone plus extra.
func (g *GameState) planLayDown(p *Player, extra []Card, target int) (MeldPlan, error) {
	team := &g.Teams[p.Team]
	if team.LaidDown {
		return MeldPlan{}, ruleErr(CodeTeamAlreadyLaidDown)
	}
	plan := g.composeFor(p, extra, target)
	if plan.Points < target {
		return MeldPlan{}, pointsErr(CodeLayDownInsufficientPoints, target, plan.Points)
	}
	rest, _ := removeByID(slices.Concat(p.ActiveZone(), extra), plan.Cards())
	if err := g.checkRemainder(p, team, len(rest), plan.Melds, nil); err != nil {
		return MeldPlan{}, err
	}
	return plan, nil
}

// commitLayDown moves the plan's cards from the active zone onto the team.
func (g *GameState) commitLayDown(p *Player, plan MeldPlan) {
	z := p.activeZonePtr()
	*z, _ = removeByID(*z, plan.Cards())
	team := &g.Teams[p.Team]
	team.Melds = append(team.Melds, plan.Melds...)
	team.LaidDown = true
}

// meldMatches returns the natural matches for top held in zone.
func meldMatches(zone []Card, top Card) []Card {
	var out []Card
	for _, c := range zone {
		if NaturalMatch(c, top) {
			out = append(out, c)
		}
	}
	return out
}

// layDownMeld starts a new meld anchored by top, which the caller has already
// taken out of its zone, using every natural match in p's active zone.
func (g *GameState) layDownMeld(p *Player, top Card) error {
	matches := meldMatches(p.ActiveZone(), top)
	if len(matches)+1 < g.Rules.MinCardsPerMeld {
		return ruleErr(CodeNotEnoughCardsForMeld)
	}
	z := p.activeZonePtr()
	*z, _ = removeByID(*z, matches)
	m := NewMeld(p.Team)
	for _, c := range matches {
		m.add(c)
	}
	m.add(top)
	g.Teams[p.Team].Melds = append(g.Teams[p.Team].Melds, m)
	return nil
}
