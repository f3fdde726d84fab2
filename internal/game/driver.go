package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/handfoot/engine"
)

// NextMove returns engine.PreferredMove for playerID. ok is false when the
// player has nothing to do.
func (t *Table) NextMove(playerID uuid.UUID) (m engine.Move, ok bool, err error) {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	seat, found := t.seatFor(playerID)
	if !found {
		return engine.Move{}, false, ErrUnknownPlayer
	}
	g := t.Engine
	if g.Phase != engine.PhaseRoundInProgress || seat != g.Current {
		return engine.Move{}, false, nil
	}
	m, ok = g.SuggestMove()
	return m, ok, nil
}
