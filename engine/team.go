package engine

import "fmt"

// Team is the partnership and scoring unit. Melds belong to the team and are
// shared by all of its players.
type Team struct {
	ID       uint8
	Name     string
	Seats    []uint8
	Melds    []*Meld
	LaidDown bool // set once per round by the team's lay-down
	Score    int
}

// Books returns the team's melds that have reached the book size.
func (t *Team) Books(rules *Rules) []*Meld {
	var out []*Meld
	for _, m := range t.Melds {
		if m.IsBook(rules) {
			out = append(out, m)
		}
	}
	return out
}

// BookCounts returns the number of clean and dirty books in melds.
func BookCounts(melds []*Meld, rules *Rules) (clean, dirty int) {
	for _, m := range melds {
		if !m.IsBook(rules) {
			continue
		}
		if m.IsClean() {
			clean++
		} else {
			dirty++
		}
	}
	return clean, dirty
}

// CleanBooks returns the number of books without wild cards.
func (t *Team) CleanBooks(rules *Rules) int {
	c, _ := BookCounts(t.Melds, rules)
	return c
}

// DirtyBooks returns the number of books with at least one wild card.
func (t *Team) DirtyBooks(rules *Rules) int {
	_, d := BookCounts(t.Melds, rules)
	return d
}

// CanGoOut reports whether the team's books satisfy round's requirements.
func (t *Team) CanGoOut(round Round, rules *Rules) bool {
	c, d := BookCounts(t.Melds, rules)
	return c >= round.MinCleanBooksToGoOut && d >= round.MinDirtyBooksToGoOut
}

// newTeams builds the teams for rules and points every player at its team.
func newTeams(rules *Rules, players []Player) []Team {
	layout := rules.teamLayout()
	teams := make([]Team, len(layout))
	for i, seats := range layout {
		teams[i] = Team{
			ID:    uint8(i),
			Name:  fmt.Sprintf("Team %d", i+1),
			Seats: seats,
		}
		for _, s := range seats {
			players[s].Team = uint8(i)
		}
	}
	return teams
}

// checkGoOut verifies that team may empty a player's hand and foot. added are
// melds about to be created; replaced maps an existing meld index to its
// post-action copy. noDiscard is set when the player would go out without
// discarding.
func (g *GameState) checkGoOut(team *Team, added []*Meld, replaced map[int]*Meld, noDiscard bool) error {
	if noDiscard && !g.Rules.AllowNoDiscardGoingOut {
		return &RuleError{Code: CodeCannotGoOut, Reason: "a discard is required to go out"}
	}
	after := Team{Melds: make([]*Meld, 0, len(team.Melds)+len(added))}
	for i, m := range team.Melds {
		if r, ok := replaced[i]; ok {
			m = r
		}
		after.Melds = append(after.Melds, m)
	}
	after.Melds = append(after.Melds, added...)
	round := g.CurrentRound()
	if !after.CanGoOut(round, &g.Rules) {
		reason := fmt.Sprintf("need %d clean and %d dirty books, have %d and %d",
			round.MinCleanBooksToGoOut, round.MinDirtyBooksToGoOut,
			after.CleanBooks(&g.Rules), after.DirtyBooks(&g.Rules))
		return &RuleError{Code: CodeCannotGoOut, Reason: reason}
	}
	return nil
}

// checkRemainder applies the going-out rules to a meld that leaves rest cards
// in p's active zone. Emptying the foot goes out without a discard, and
// leaving a single foot card commits the player to going out by discarding
// it, so both need the team's books.
func (g *GameState) checkRemainder(p *Player, team *Team, rest int, added []*Meld, replaced map[int]*Meld) error {
	if !p.InFoot() || rest > 1 {
		return nil
	}
	return g.checkGoOut(team, added, replaced, rest == 0)
}
