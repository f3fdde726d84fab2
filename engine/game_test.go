package engine

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewGameDeal verifies the first round's deal under the default rules.
func TestNewGameDeal(t *testing.T) {
	g, err := NewGame(42, DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, PhaseRoundInProgress, g.Phase)
	assert.Equal(t, 1, g.RoundNumber())
	assert.Equal(t, 0, g.Dealer)
	assert.Equal(t, 1, g.Current)
	assert.Equal(t, StageAwaitingDraw, g.Stage())
	assert.Equal(t, -1, g.WentOut)

	require.Len(t, g.Players, 4)
	for i := range g.Players {
		p := &g.Players[i]
		assert.Len(t, p.Hand, 13, "seat %d hand", i)
		assert.Len(t, p.Foot, 13, "seat %d foot", i)
		assert.True(t, slices.IsSortedFunc(p.Hand, func(a, b Card) int { return a.Value() - b.Value() }))
		assert.True(t, slices.IsSortedFunc(p.Foot, func(a, b Card) int { return a.Value() - b.Value() }))
	}

	assert.Len(t, g.DiscardPile, 3)
	total := 0
	for _, n := range g.StockSizes() {
		total += n
	}
	assert.Equal(t, 324-4*26-3, total)
	assert.NoError(t, g.CheckCustody())
}

// TestNewGameDeckComposition counts ranks and jokers across the dealt set.
func TestNewGameDeckComposition(t *testing.T) {
	g := newTwoPlayerGame(t, nil)
	counts := map[Rank]int{}
	jokers := map[Suit]int{}
	for _, h := range g.Census() {
		counts[h.Card.Rank]++
		if h.Card.IsJoker() {
			jokers[h.Card.Suit]++
		}
	}
	for _, r := range Ranks {
		assert.Equal(t, 24, counts[r], r.String())
	}
	assert.Equal(t, 6, jokers[SuitClub])
	assert.Equal(t, 6, jokers[SuitDiamond])
}

func TestNewGameSeats(t *testing.T) {
	rules := DefaultRules()
	rules.NumPlayers = 2
	g, err := NewGame(3, rules, Seat{Name: "Ana", Human: true}, Seat{Name: "Bo"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", g.Players[0].Name)
	assert.True(t, g.Players[0].Human)
	assert.Equal(t, "Bo", g.Players[1].Name)

	_, err = NewGame(3, rules, Seat{Name: "Ana"})
	assert.ErrorIs(t, err, ErrInvalidPlayerCount)

	g, err = NewGame(3, DefaultRules())
	require.NoError(t, err)
	assert.Equal(t, "Player", g.Players[0].Name)
	assert.Equal(t, "CPU3", g.Players[3].Name)
	assert.False(t, g.Players[3].Human)
}

func TestNewGameInvalidRules(t *testing.T) {
	rules := DefaultRules()
	rules.NumPlayers = 3
	g, err := NewGame(1, rules)
	assert.Nil(t, g)
	assert.ErrorIs(t, err, ErrInvalidPlayerCount)
}

// TestNewGameSeedZero verifies that seed 0 is corrected to 1.
func TestNewGameSeedZero(t *testing.T) {
	g := newTwoPlayerGame(t, nil)
	assert.NotZero(t, g.RNG)

	rules := DefaultRules()
	a, err := NewGame(0, rules)
	require.NoError(t, err)
	b, err := NewGame(1, rules)
	require.NoError(t, err)
	assert.Equal(t, a.StateHash(), b.StateHash())
}

// TestDeterministicDeal verifies equal seeds deal equal games.
func TestDeterministicDeal(t *testing.T) {
	rules := DefaultRules()
	a, err := NewGame(99, rules)
	require.NoError(t, err)
	b, err := NewGame(99, rules)
	require.NoError(t, err)
	c, err := NewGame(100, rules)
	require.NoError(t, err)

	assert.Equal(t, a.StateHash(), b.StateHash())
	assert.Equal(t, a.Players[1].Hand, b.Players[1].Hand)
	assert.NotEqual(t, a.StateHash(), c.StateHash())
}

// TestRulesAreCopied verifies later edits to the caller's rules do not reach
// a running game.
func TestRulesAreCopied(t *testing.T) {
	rules := DefaultRules()
	g, err := NewGame(5, rules)
	require.NoError(t, err)
	rules.Rounds[0].MinPointsToLayDown = 1
	assert.Equal(t, 50, g.CurrentRound().MinPointsToLayDown)
}

// TestPlayThroughGame drives a full game with a simple policy and checks
// custody after every move.
func TestPlayThroughGame(t *testing.T) {
	for _, players := range []int{2, 4, 6} {
		rules := DefaultRules()
		rules.NumPlayers = players
		g, err := NewGame(uint64(players)*31, rules)
		require.NoError(t, err)

		moves := 0
		for !g.IsOver() {
			require.Less(t, moves, 20000, "game with %d players did not finish", players)
			if g.Phase == PhaseRoundComplete {
				require.NoError(t, g.StartNextRound())
				require.NoError(t, g.CheckCustody())
				continue
			}
			m, ok := g.SuggestMove()
			require.True(t, ok, "no legal move for seat %d in stage %s", g.Current, g.Stage())
			require.NoError(t, g.Apply(m), "move %s", m.Kind)
			require.NoError(t, g.CheckCustody(), "after %s", m.Kind)
			moves++
		}

		assert.Len(t, g.History, len(rules.Rounds))
		for i := range g.Teams {
			last := g.History[len(g.History)-1][i]
			assert.Equal(t, last.ScoreAfter, g.Teams[i].Score)
		}
	}
}
