package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRulesValid(t *testing.T) {
	rules := DefaultRules()
	require.NoError(t, rules.Validate())
	assert.Equal(t, 324, rules.DeckSize())
	assert.Len(t, rules.Rounds, 5)
}

func TestValidatePlayerCount(t *testing.T) {
	for _, n := range []int{0, 1, 3, 5, 7, 8} {
		rules := DefaultRules()
		rules.NumPlayers = n
		err := rules.Validate()
		require.Error(t, err, "players=%d", n)
		assert.True(t, errors.Is(err, ErrInvalidPlayerCount))

		var re *RuleError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, n, re.Have)
	}
	for _, n := range []int{2, 4, 6} {
		rules := DefaultRules()
		rules.NumPlayers = n
		assert.NoError(t, rules.Validate(), "players=%d", n)
	}
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Rules)
	}{
		{"no decks", func(r *Rules) { r.NumDecks = 0 }},
		{"no stock piles", func(r *Rules) { r.NumStockPiles = 0 }},
		{"meld too small", func(r *Rules) { r.MinCardsPerMeld = 1 }},
		{"book below meld", func(r *Rules) { r.BookSize = 2 }},
		{"no rounds", func(r *Rules) { r.Rounds = nil }},
		{"empty deal", func(r *Rules) { r.Rounds[0].CardsPerHandFoot = 0 }},
		{"deck too small", func(r *Rules) { r.NumDecks = 1; r.Rounds[4].CardsPerHandFoot = 17 }},
		{"no draw after seeding", func(r *Rules) { shortDeck(r, 5) }},
		{"card ids overflow", func(r *Rules) { r.NumDecks = 1214 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := DefaultRules()
			tt.mutate(&rules)
			err := rules.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRules)
		})
	}
}

func TestTeamLayouts(t *testing.T) {
	tests := []struct {
		players     int
		threeTeams  bool
		wantTeams   [][]uint8
		wantTeamsOf []uint8
	}{
		{2, true, [][]uint8{{0}, {1}}, []uint8{0, 1}},
		{4, true, [][]uint8{{0, 2}, {1, 3}}, []uint8{0, 1, 0, 1}},
		{6, true, [][]uint8{{0, 2, 4}, {1, 3, 5}}, []uint8{0, 1, 0, 1, 0, 1}},
		{6, false, [][]uint8{{0, 3}, {1, 5}, {2, 4}}, []uint8{0, 1, 2, 0, 2, 1}},
	}
	for _, tt := range tests {
		rules := DefaultRules()
		rules.NumPlayers = tt.players
		rules.AllowThreePlayerTeams = tt.threeTeams
		g, err := NewGame(1, rules)
		require.NoError(t, err)

		require.Len(t, g.Teams, len(tt.wantTeams))
		for i, seats := range tt.wantTeams {
			assert.Equal(t, seats, g.Teams[i].Seats, "players=%d team=%d", tt.players, i)
		}
		for seat, team := range tt.wantTeamsOf {
			assert.Equal(t, team, g.Players[seat].Team, "players=%d seat=%d", tt.players, seat)
			assert.Equal(t, team, g.TeamOf(seat).ID)
		}
	}
}

// shortDeck sets up a single-deck, four-player game dealing six cards per
// hand and foot, which leaves 54-48-pickup cards in the stock.
func shortDeck(r *Rules, pickup int) {
	r.NumDecks = 1
	r.NumStockPiles = 1
	r.MinDiscardPickup = pickup
	for i := range r.Rounds {
		r.Rounds[i].CardsPerHandFoot = 6
	}
}

func TestShortDeckLeavesADraw(t *testing.T) {
	rules := DefaultRules()
	shortDeck(&rules, 4)
	g, err := NewGame(3, rules)
	require.NoError(t, err)
	assert.Len(t, g.StockPiles[0], 2)
	assert.Contains(t, g.LegalMoves(), Move{Kind: MoveDrawStock, First: 0, Second: 0})

	rules.MinDiscardPickup = 5
	_, err = NewGame(3, rules)
	assert.ErrorIs(t, err, ErrInvalidRules)
}

func TestDeckCountLimit(t *testing.T) {
	rules := DefaultRules()
	rules.NumDecks = 1213
	assert.NoError(t, rules.Validate())
	rules.NumDecks = 1214
	assert.ErrorIs(t, rules.Validate(), ErrInvalidRules)
}
