package engine

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func movesOfKind(moves []Move, kind MoveKind) []Move {
	var out []Move
	for _, m := range moves {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

func TestStage(t *testing.T) {
	g := newTwoPlayerGame(t, nil)
	assert.Equal(t, StageAwaitingDraw, g.Stage())
	require.NoError(t, g.DrawFromStock(0, 1))
	assert.Equal(t, StageAwaitingDiscard, g.Stage())
	require.NoError(t, g.Discard(g.CurrentPlayer().Hand[0]))
	assert.Equal(t, StageAwaitingDraw, g.Stage())
}

// TestLegalMovesAtTurnStart lists every pile pair once.
func TestLegalMovesAtTurnStart(t *testing.T) {
	g := newTwoPlayerGame(t, nil)
	g.DiscardPile = []Card{mk(RankKing, SuitSpade)}
	withHand(g, mk(RankFour, SuitClub))

	moves := g.LegalMoves()
	draws := movesOfKind(moves, MoveDrawStock)
	assert.Len(t, draws, 6)
	assert.Equal(t, Move{Kind: MoveDrawStock, First: 0, Second: 0}, draws[0])
	assert.Empty(t, movesOfKind(moves, MoveDrawDiscard))
	assert.Empty(t, movesOfKind(moves, MoveDiscard))
}

func TestLegalMovesOffersDiscardPickup(t *testing.T) {
	g := newTwoPlayerGame(t, nil)
	g.DiscardPile = []Card{mk(RankKing, SuitSpade)}
	p := withHand(g, slices.Concat(mkN(RankKing, 2), mkN(RankAce, 3))...)
	g.TeamOf(int(p.Seat)).LaidDown = true

	assert.Len(t, movesOfKind(g.LegalMoves(), MoveDrawDiscard), 1)
}

// TestLegalMovesSkipsEmptyPiles leaves out draws a pile cannot cover.
func TestLegalMovesSkipsEmptyPiles(t *testing.T) {
	g := newTwoPlayerGame(t, nil)
	g.StockPiles[0] = g.StockPiles[0][:1]
	g.StockPiles[1] = nil

	draws := movesOfKind(g.LegalMoves(), MoveDrawStock)
	assert.Equal(t, []Move{
		{Kind: MoveDrawStock, First: 0, Second: 2},
		{Kind: MoveDrawStock, First: 2, Second: 2},
	}, draws)
}

func TestLegalMovesAfterDraw(t *testing.T) {
	g, p, _ := laidDownWithQueens(t)
	queen := mk(RankQueen, SuitSpade)
	fours := mkN(RankFour, 2)
	p.Hand = []Card{fours[0], fours[1], queen}
	g.StockPiles = [][]Card{{mk(RankFour, SuitClub), mk(RankNine, SuitClub)}, {mk(RankTen, SuitClub), mk(RankTen, SuitClub)}, {}}
	require.NoError(t, g.DrawFromStock(0, 1))

	moves := g.LegalMoves()
	assert.Empty(t, movesOfKind(moves, MoveLayDown), "team already laid down")
	adds := movesOfKind(moves, MoveAddToMeld)
	require.Len(t, adds, 1)
	assert.Equal(t, queen, adds[0].Card)

	// The drawn Four of Clubs shares a value with a held one and is listed once.
	discards := movesOfKind(moves, MoveDiscard)
	assert.Len(t, discards, 4)
}

func TestLegalMovesIdleAfterGame(t *testing.T) {
	g := newTwoPlayerGame(t, func(r *Rules) { r.Rounds = r.Rounds[:1] })
	g.StockPiles = [][]Card{{mk(RankFive, SuitClub), mk(RankSix, SuitClub)}, {}, {}}
	require.NoError(t, g.DrawFromStock(0, 0))
	require.NoError(t, g.Discard(g.CurrentPlayer().Hand[0]))

	assert.Equal(t, StageIdle, g.Stage())
	assert.Empty(t, g.LegalMoves())
}

func TestApplyDispatch(t *testing.T) {
	g := newTwoPlayerGame(t, nil)
	require.NoError(t, g.Apply(Move{Kind: MoveDrawStock, First: 1, Second: 2}))
	card := g.CurrentPlayer().Hand[0]
	require.NoError(t, g.Apply(Move{Kind: MoveDiscard, Card: card}))
	top, _ := g.DiscardTop()
	assert.Equal(t, card, top)

	assert.ErrorIs(t, g.Apply(Move{Kind: MoveKind(99)}), &RuleError{Code: CodeUnknown})
}

// ---------------------------------------------------------------------------
// Custody ledger
// ---------------------------------------------------------------------------

func TestCensusCoversDeck(t *testing.T) {
	g := newTwoPlayerGame(t, nil)
	census := g.Census()
	assert.Len(t, census, g.Rules.DeckSize())

	byZone := map[ZoneKind]int{}
	for _, h := range census {
		byZone[h.At.Kind]++
	}
	assert.Equal(t, 26, byZone[ZoneHand])
	assert.Equal(t, 26, byZone[ZoneFoot])
	assert.Equal(t, 3, byZone[ZoneDiscard])
	assert.Zero(t, byZone[ZoneMeld])
}

func TestCheckCustodyDetectsDuplicate(t *testing.T) {
	g := newTwoPlayerGame(t, nil)
	g.DiscardPile = append(g.DiscardPile, g.Players[0].Hand[0])
	err := g.CheckCustody()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "in both")
}

func TestCheckCustodyDetectsLoss(t *testing.T) {
	g := newTwoPlayerGame(t, nil)
	g.StockPiles[0] = g.StockPiles[0][1:]
	err := g.CheckCustody()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestCheckCustodyDetectsForeignCard(t *testing.T) {
	g := newTwoPlayerGame(t, nil)
	g.Players[1].Foot = append(g.Players[1].Foot, mk(RankAce, SuitClub))
	err := g.CheckCustody()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown card")
}

// TestCustodyAcrossMelds keeps the ledger whole after a pickup lay-down on
// dealt cards.
func TestCustodyAcrossMelds(t *testing.T) {
	g := newTwoPlayerGame(t, func(r *Rules) { r.Rounds[0].MinPointsToLayDown = 0 })
	p := g.CurrentPlayer()
	top := g.DiscardPile[0]
	if top.IsWild() || top.IsThree() {
		t.Skip("seeded top card cannot be picked up")
	}

	// Pull two naturals for the top card out of the stock into the hand.
	moved := 0
	for i := range g.StockPiles {
		for j := 0; j < len(g.StockPiles[i]) && moved < 2; {
			c := g.StockPiles[i][j]
			if !NaturalMatch(c, top) {
				j++
				continue
			}
			g.StockPiles[i] = slices.Delete(g.StockPiles[i], j, j+1)
			p.Hand = append(p.Hand, c)
			moved++
		}
	}
	require.Equal(t, 2, moved)
	require.NoError(t, g.CheckCustody())

	require.NoError(t, g.DrawFromDiscardPile())
	assert.True(t, g.TeamOf(int(p.Seat)).LaidDown)
	assert.NoError(t, g.CheckCustody())
}

func TestPreferredMove(t *testing.T) {
	draw := Move{Kind: MoveDrawStock, First: 0, Second: 1}
	add := Move{Kind: MoveAddToMeld, Meld: 0}
	discard := Move{Kind: MoveDiscard}
	layDown := Move{Kind: MoveLayDown}

	tests := []struct {
		name  string
		moves []Move
		zone  int
		want  Move
	}{
		{"lay down first", []Move{add, discard, layDown}, 5, layDown},
		{"add while cards stay back", []Move{discard, add}, 3, add},
		{"discard when the zone is low", []Move{add, discard}, 2, discard},
		{"draw", []Move{draw}, 11, draw},
		{"only adds left", []Move{add}, 1, add},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := PreferredMove(tt.moves, tt.zone)
			require.True(t, ok)
			assert.Equal(t, tt.want, m)
		})
	}

	_, ok := PreferredMove(nil, 4)
	assert.False(t, ok)
}

func TestSuggestMoveIdle(t *testing.T) {
	g := newTwoPlayerGame(t, nil)
	m, ok := g.SuggestMove()
	require.True(t, ok)
	assert.Equal(t, MoveDrawStock, m.Kind)

	g.Phase = PhaseRoundComplete
	_, ok = g.SuggestMove()
	assert.False(t, ok)
}
