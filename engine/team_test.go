package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBookCountsAtBookSize counts melds only once they reach BookSize.
func TestBookCountsAtBookSize(t *testing.T) {
	rules := DefaultRules() // books of 7
	short := book(0, mkN(RankNine, 6))
	clean := book(0, mkN(RankKing, 7))
	dirtyShort := book(0, mkN(RankEight, 5), []Card{mk(RankTwo, SuitClub)})
	dirty := book(0, mkN(RankSix, 6), []Card{mk(RankJoker, SuitHeart)})
	team := &Team{Melds: []*Meld{short, clean, dirtyShort, dirty}}

	assert.Equal(t, []*Meld{clean, dirty}, team.Books(&rules))
	assert.Equal(t, 1, team.CleanBooks(&rules))
	assert.Equal(t, 1, team.DirtyBooks(&rules))

	c, d := BookCounts(team.Melds, &rules)
	assert.Equal(t, 1, c)
	assert.Equal(t, 1, d)

	// One more card turns each short meld into a book.
	short.Cards = append(short.Cards, mk(RankNine, SuitDiamond))
	dirtyShort.Cards = append(dirtyShort.Cards, mk(RankEight, SuitSpade))
	assert.Equal(t, 2, team.CleanBooks(&rules))
	assert.Equal(t, 2, team.DirtyBooks(&rules))
	assert.Len(t, team.Books(&rules), 4)

	rules.BookSize = 8
	assert.Empty(t, team.Books(&rules))
}

func TestCanGoOut(t *testing.T) {
	rules := DefaultRules()
	round := Round{MinCleanBooksToGoOut: 1, MinDirtyBooksToGoOut: 1}
	team := &Team{Melds: []*Meld{book(0, mkN(RankKing, 7))}}
	assert.False(t, team.CanGoOut(round, &rules))

	team.Melds = append(team.Melds, book(0, mkN(RankSix, 6), []Card{mk(RankTwo, SuitClub)}))
	assert.True(t, team.CanGoOut(round, &rules))

	round.MinCleanBooksToGoOut = 2
	assert.False(t, team.CanGoOut(round, &rules))
	assert.True(t, (&Team{}).CanGoOut(Round{}, &rules))
}

// TestCheckGoOutCountsPendingMelds counts melds an action would add or
// replace alongside the team's existing ones.
func TestCheckGoOutCountsPendingMelds(t *testing.T) {
	g := newTwoPlayerGame(t, func(r *Rules) {
		r.Rounds[0].MinCleanBooksToGoOut = 1
		r.Rounds[0].MinDirtyBooksToGoOut = 1
	})
	team := g.TeamOf(0)
	team.Melds = []*Meld{book(0, mkN(RankKing, 6))}

	err := g.checkGoOut(team, nil, nil, false)
	require.ErrorIs(t, err, ErrCannotGoOut)
	assert.Contains(t, err.Error(), "need 1 clean and 1 dirty books, have 0 and 0")

	grown := book(0, team.Melds[0].Cards, []Card{mk(RankKing, SuitDiamond)})
	dirty := book(0, mkN(RankSix, 6), []Card{mk(RankTwo, SuitClub)})
	assert.NoError(t, g.checkGoOut(team, []*Meld{dirty}, map[int]*Meld{0: grown}, false))
	assert.Len(t, team.Melds[0].Cards, 6, "existing meld untouched")
}
