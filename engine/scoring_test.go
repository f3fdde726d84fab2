package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookBonus(t *testing.T) {
	rules := DefaultRules()
	tests := []struct {
		name string
		meld *Meld
		want int
	}{
		{"clean", book(0, mkN(RankKing, 7)), 500},
		{"dirty", book(0, mkN(RankKing, 6), []Card{mk(RankJoker, SuitClub)}), 300},
		{"wild only", book(0, mkN(RankTwo, 4), mkN(RankJoker, 3)), 1500},
		{"threes", book(0, mkN(RankThree, 7)), 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bookBonus(tt.meld, &rules))
		})
	}
}

// TestScoreRoundPenalty charges cards left in hands and feet against each
// team and only pays books that are complete.
func TestScoreRoundPenalty(t *testing.T) {
	rules := DefaultRules()
	g, err := NewGame(11, rules)
	require.NoError(t, err)
	for i := range g.Players {
		g.Players[i].Hand = nil
		g.Players[i].Foot = nil
	}
	g.Players[0].Hand = []Card{mk(RankThree, SuitHeart), mk(RankAce, SuitClub)}
	g.Players[2].Foot = []Card{mk(RankThree, SuitSpade)}
	g.Teams[0].Melds = []*Meld{
		book(0, mkN(RankKing, 7)),
		book(0, mkN(RankFive, 3)),
	}
	g.Teams[1].Melds = []*Meld{book(1, mkN(RankSeven, 6), []Card{mk(RankTwo, SuitClub)})}

	scores := g.ScoreRound()
	require.Len(t, scores, 2)

	t0 := scores[0]
	assert.Equal(t, 1, t0.CleanBooks)
	assert.Equal(t, 500, t0.BookPoints)
	assert.Equal(t, 85, t0.MeldPoints)
	assert.Equal(t, 525, t0.Penalty, "red three 500, ace 20, black three 5")
	assert.Zero(t, t0.GoingOut)
	assert.Equal(t, 500+85-525, t0.Total)

	t1 := scores[1]
	assert.Equal(t, 1, t1.DirtyBooks)
	assert.Equal(t, 300, t1.BookPoints)
	assert.Equal(t, 50, t1.MeldPoints)
	assert.Equal(t, 350, t1.Total)

	// ScoreRound does not apply anything.
	assert.Zero(t, g.Teams[0].Score)
}

func TestWinner(t *testing.T) {
	g := newTwoPlayerGame(t, nil)
	g.Teams[0].Score = 1200
	g.Teams[1].Score = 900
	team, ok := g.Winner()
	assert.True(t, ok)
	assert.Equal(t, uint8(0), team)

	g.Teams[1].Score = 1200
	_, ok = g.Winner()
	assert.False(t, ok, "tie")

	g.Teams[1].Score = 1300
	team, ok = g.Winner()
	assert.True(t, ok)
	assert.Equal(t, uint8(1), team)
}

func TestRuleErrorMessages(t *testing.T) {
	tests := []struct {
		err  *RuleError
		want string
	}{
		{&RuleError{Code: CodeInvalidPlayerCount, Have: 5}, "invalid number of players, expected 2, 4 or 6, got 5"},
		{&RuleError{Code: CodeEmptySecondStockPile, Index: 2}, "second stock pile is empty: 2"},
		{&RuleError{Code: CodePickupInsufficientPoints, Need: 50, Have: 30}, "discard pickup does not give enough points to lay down: need 50, have 30"},
		{&RuleError{Code: CodeAlreadyDrawn}, "player has already drawn this turn"},
		{&RuleError{Code: ErrorCode(200)}, "unknown rule violation"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestRuleErrorIs(t *testing.T) {
	err := error(&RuleError{Code: CodeLayDownInsufficientPoints, Need: 90, Have: 40})
	wrapped := errors.Join(errors.New("seat 2"), err)

	assert.ErrorIs(t, err, ErrLayDownInsufficientPoints)
	assert.ErrorIs(t, wrapped, ErrLayDownInsufficientPoints)
	assert.NotErrorIs(t, err, ErrPickupInsufficientPoints)
	assert.NotErrorIs(t, err, errors.New("not enough points to lay down"))
}

func TestStateHashTracksMoves(t *testing.T) {
	g := newTwoPlayerGame(t, nil)
	h0 := g.StateHash()
	require.NoError(t, g.DrawFromStock(0, 1))
	h1 := g.StateHash()
	assert.NotEqual(t, h0, h1)
	assert.Equal(t, h1, g.StateHash(), "hashing is read-only")
}
