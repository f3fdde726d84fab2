// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/handfoot/engine"
)

// CardView is a card as sent to clients.
type CardView struct {
	ID    uuid.UUID `json:"id"`
	Rank  string    `json:"rank"`
	Suit  string    `json:"suit"`
	Value int       `json:"value"`
	Wild  bool      `json:"wild,omitempty"`
}

// MeldView is one team meld.
type MeldView struct {
	Index int        `json:"index"`
	Cards []CardView `json:"cards"`
	Rank  string     `json:"rank"` // "W" for a wild-only meld
	Clean bool       `json:"clean"`
	Book  bool       `json:"book"`
}

// PlayerView is one seat as seen by the requesting player.
type PlayerView struct {
	PlayerID      uuid.UUID `json:"playerId"`
	Name          string    `json:"name"`
	Seat          int       `json:"seat"`
	Team          int       `json:"team"`
	HandSize      int       `json:"handSize"`
	FootSize      int       `json:"footSize"`
	InFoot        bool      `json:"inFoot"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`
	// Cards is the active zone (hand, or foot once the hand is empty) and is
	// populated only for the requesting player.
	Cards []CardView `json:"cards,omitempty"`
}

// TeamView is a team's public state.
type TeamView struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	Players  []uuid.UUID `json:"players"`
	Melds    []MeldView  `json:"melds"`
	LaidDown bool        `json:"laidDown"`
	Score    int         `json:"score"`
}

// TeamScoreView is one team's line in a round result.
type TeamScoreView struct {
	Team        int `json:"team"`
	CleanBooks  int `json:"cleanBooks"`
	DirtyBooks  int `json:"dirtyBooks"`
	WildBooks   int `json:"wildBooks"`
	ThreesBooks int `json:"threesBooks"`
	BookPoints  int `json:"bookPoints"`
	MeldPoints  int `json:"meldPoints"`
	Penalty     int `json:"penalty"`
	GoingOut    int `json:"goingOut"`
	Total       int `json:"total"`
	ScoreAfter  int `json:"scoreAfter"`
}

// TableView is the table state tailored to one player.
type TableView struct {
	TableID            uuid.UUID       `json:"tableId"`
	Round              int             `json:"round"`
	Rounds             int             `json:"rounds"`
	Phase              string          `json:"phase"`
	Stage              string          `json:"stage"`
	GameOver           bool            `json:"gameOver"`
	CurrentPlayerID    uuid.UUID       `json:"currentPlayerId"`
	TurnNumber         int             `json:"turnNumber"`
	MinPointsToLayDown int             `json:"minPointsToLayDown"`
	StockSizes         []int           `json:"stockSizes"`
	DiscardSize        int             `json:"discardSize"`
	DiscardTop         *CardView       `json:"discardTop,omitempty"`
	Players            []PlayerView    `json:"players"`
	Teams              []TeamView      `json:"teams"`
	LastRound          []TeamScoreView `json:"lastRound,omitempty"`
}

// View returns the table as seen by forPlayer. Only that player's own active
// zone is revealed; every foot stays hidden except for its size.
func (t *Table) View(forPlayer uuid.UUID) TableView {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return t.view(forPlayer)
}

// view assumes the lock is held.
func (t *Table) view(forPlayer uuid.UUID) TableView {
	g := t.Engine
	v := TableView{
		TableID:            t.ID,
		Round:              g.RoundNumber(),
		Rounds:             len(g.Rules.Rounds),
		Phase:              g.Phase.String(),
		Stage:              g.Stage().String(),
		GameOver:           g.IsOver(),
		CurrentPlayerID:    t.currentPlayerID(),
		TurnNumber:         g.TurnNumber,
		MinPointsToLayDown: g.CurrentRound().MinPointsToLayDown,
		StockSizes:         g.StockSizes(),
		DiscardSize:        len(g.DiscardPile),
	}
	if top, ok := g.DiscardTop(); ok {
		cv := t.cardView(top)
		v.DiscardTop = &cv
	}

	for i := range g.Players {
		p := &g.Players[i]
		pv := PlayerView{
			PlayerID:      t.Players[i].ID,
			Name:          p.Name,
			Seat:          i,
			Team:          int(p.Team),
			HandSize:      len(p.Hand),
			FootSize:      len(p.Foot),
			InFoot:        p.InFoot(),
			IsCurrentTurn: v.CurrentPlayerID == t.Players[i].ID,
		}
		if t.Players[i].ID == forPlayer {
			pv.Cards = t.cardViews(p.ActiveZone())
		}
		v.Players = append(v.Players, pv)
	}

	for i := range g.Teams {
		tm := &g.Teams[i]
		tv := TeamView{
			ID:       int(tm.ID),
			Name:     tm.Name,
			Melds:    t.meldViews(tm.Melds),
			LaidDown: tm.LaidDown,
			Score:    tm.Score,
		}
		for _, s := range tm.Seats {
			tv.Players = append(tv.Players, t.Players[s].ID)
		}
		v.Teams = append(v.Teams, tv)
	}

	if n := len(g.History); n > 0 {
		v.LastRound = scoreViews(g.History[n-1])
	}
	return v
}

func scoreViews(scores []engine.TeamScore) []TeamScoreView {
	out := make([]TeamScoreView, len(scores))
	for i, s := range scores {
		out[i] = TeamScoreView{
			Team:        int(s.Team),
			CleanBooks:  s.CleanBooks,
			DirtyBooks:  s.DirtyBooks,
			WildBooks:   s.WildBooks,
			ThreesBooks: s.ThreesBooks,
			BookPoints:  s.BookPoints,
			MeldPoints:  s.MeldPoints,
			Penalty:     s.Penalty,
			GoingOut:    s.GoingOut,
			Total:       s.Total,
			ScoreAfter:  s.ScoreAfter,
		}
	}
	return out
}
