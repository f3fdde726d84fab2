// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/handfoot/engine"
	"github.com/jason-s-yu/handfoot/internal/cache"
	"github.com/jason-s-yu/handfoot/internal/database"
	"github.com/sirupsen/logrus"
)

// Service-level errors. Engine rule violations are returned wrapped and match
// the engine sentinels with errors.Is.
var (
	ErrNotYourTurn   = errors.New("not your turn")
	ErrUnknownPlayer = errors.New("unknown player")
	ErrUnknownCard   = errors.New("unknown card")
)

// OnRoundEndFunc is called after a round is scored, with the lock held.
type OnRoundEndFunc func(tableID uuid.UUID, round int, scores []engine.TeamScore)

// GameEventType represents the type of a table event sent to clients.
type GameEventType string

// Constants defining the GameEvent types.
const (
	EventPlayerDrawStock   GameEventType = "player_draw_stock"    // Public: player drew two stock cards (no details).
	EventPrivateDrawStock  GameEventType = "private_draw_stock"   // Private: the drawn cards.
	EventPlayerDrawDiscard GameEventType = "player_draw_discard"  // Public: player picked up the discard pile.
	EventPlayerLayDown     GameEventType = "player_lay_down"      // Public: team laid down its initial melds.
	EventPlayerAddToMeld   GameEventType = "player_add_to_meld"   // Public: a card joined a team meld.
	EventPlayerLayDownMeld GameEventType = "player_lay_down_meld" // Public: a team started a new meld.
	EventPlayerDiscard     GameEventType = "player_discard"       // Public: player discarded a card.
	EventPrivateActionFail GameEventType = "private_action_fail"  // Private: the action was rejected.
	EventGamePlayerTurn    GameEventType = "game_player_turn"     // Public: the next player to act.
	EventRoundStart        GameEventType = "round_start"          // Public: a new round was dealt.
	EventRoundEnd          GameEventType = "round_end"            // Public: round scores.
	EventGameEnd           GameEventType = "game_end"             // Public: final scores and winner.
	EventPrivateSyncState  GameEventType = "private_sync_state"   // Private: full table view for a player.
)

// EventUser identifies a user within a GameEvent payload.
type EventUser struct {
	ID uuid.UUID `json:"id"`
}

// GameEvent is the structure broadcast for every table change.
type GameEvent struct {
	Type  GameEventType `json:"type"`
	User  *EventUser    `json:"user,omitempty"`  // The user initiating or targeted by the event.
	Card  *CardView     `json:"card,omitempty"`  // Primary card involved.
	Cards []CardView    `json:"cards,omitempty"` // Cards drawn or picked up.
	Melds []MeldView    `json:"melds,omitempty"` // The acting team's melds after the action.

	Payload map[string]any `json:"payload,omitempty"`

	State *TableView `json:"state,omitempty"` // Full view for sync events.
}

// PlayerInfo describes a player joining a table.
type PlayerInfo struct {
	ID    uuid.UUID
	Name  string
	Human bool
}

// ActionPublisher receives every logged table action.
type ActionPublisher interface {
	Publish(ctx context.Context, rec cache.ActionRecord) error
}

// ResultRecorder stores finished rounds.
type ResultRecorder interface {
	RecordRound(ctx context.Context, res database.RoundResult) error
}

// Table is one Hand and Foot game shared by its players. All access goes
// through Mu; the engine state underneath is single-writer.
type Table struct {
	ID uuid.UUID

	Players      []PlayerInfo      // indexed by engine seat
	PlayerToSeat map[uuid.UUID]int // player UUID -> engine seat

	Engine *engine.GameState // authoritative game state
	Cards  CardRegistry      // UUIDs for the current round's cards

	Mu sync.Mutex

	// Communication callbacks, invoked with the lock held.
	BroadcastFn         func(ev GameEvent)
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent)
	OnRoundEnd          OnRoundEndFunc

	Actions ActionPublisher // optional action log
	Results ResultRecorder  // optional round-result store

	log          logrus.FieldLogger
	writeTimeout time.Duration
	out          *outbox
	closed       bool
	actionIndex  int
}

// Option configures a Table.
type Option func(*Table)

// WithID sets the table ID instead of a random one.
func WithID(id uuid.UUID) Option { return func(t *Table) { t.ID = id } }

// WithLogger sets the table logger.
func WithLogger(log logrus.FieldLogger) Option { return func(t *Table) { t.log = log } }

// WithActionPublisher sends every action record to p.
func WithActionPublisher(p ActionPublisher) Option { return func(t *Table) { t.Actions = p } }

// WithResultRecorder stores finished rounds in r.
func WithResultRecorder(r ResultRecorder) Option { return func(t *Table) { t.Results = r } }

// WithWriteTimeout bounds each action-log and result write.
func WithWriteTimeout(d time.Duration) Option { return func(t *Table) { t.writeTimeout = d } }

// NewTable seats players in order and deals the first round. players must
// hold one entry per seat in rules.
func NewTable(rules engine.Rules, seed uint64, players []PlayerInfo, opts ...Option) (*Table, error) {
	seats := make([]engine.Seat, len(players))
	toSeat := make(map[uuid.UUID]int, len(players))
	for i, p := range players {
		if p.ID == uuid.Nil {
			return nil, fmt.Errorf("new table: player %d has no id", i)
		}
		if _, dup := toSeat[p.ID]; dup {
			return nil, fmt.Errorf("new table: player %s seated twice", p.ID)
		}
		toSeat[p.ID] = i
		seats[i] = engine.Seat{Name: p.Name, Human: p.Human}
	}
	g, err := engine.NewGame(seed, rules, seats...)
	if err != nil {
		return nil, fmt.Errorf("new table: %w", err)
	}

	t := &Table{
		ID:           uuid.New(),
		Players:      slices.Clone(players),
		PlayerToSeat: toSeat,
		Engine:       g,
		log:          logrus.StandardLogger(),
		writeTimeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.WithField("table", t.ID)
	t.Cards.refresh(g)
	t.logAction(uuid.Nil, "table_start", map[string]any{
		"seed":    seed,
		"rules":   rules.Name,
		"players": len(players),
	})
	t.log.WithFields(logrus.Fields{"players": len(players), "seed": seed}).Info("table created")
	return t, nil
}

// Close flushes pending writes. Actions taken after Close are no longer logged.
func (t *Table) Close() {
	t.Mu.Lock()
	ob := t.out
	t.out = nil
	t.closed = true
	t.Mu.Unlock()
	if ob != nil {
		ob.close()
	}
}

// ---------------------------------------------------------------------------
// Player actions
// ---------------------------------------------------------------------------

// DrawFromStock draws the top cards of stock piles first and second.
func (t *Table) DrawFromStock(playerID uuid.UUID, first, second int) error {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return t.drawFromStock(playerID, first, second)
}

func (t *Table) drawFromStock(playerID uuid.UUID, first, second int) error {
	g := t.Engine
	payload := map[string]any{"first": first, "second": second}
	return t.act(playerID, "draw_stock", payload, func() error {
		return g.DrawFromStock(first, second)
	}, func(p *engine.Player) {
		zone := p.ActiveZone()
		drawn := zone[len(zone)-2:]
		t.fireEvent(GameEvent{Type: EventPlayerDrawStock, User: &EventUser{ID: playerID}, Payload: payload})
		t.fireEventToPlayer(playerID, GameEvent{Type: EventPrivateDrawStock, User: &EventUser{ID: playerID}, Cards: t.cardViews(drawn)})
	})
}

// DrawFromDiscard picks up the discard pile.
func (t *Table) DrawFromDiscard(playerID uuid.UUID) error {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return t.drawFromDiscard(playerID)
}

func (t *Table) drawFromDiscard(playerID uuid.UUID) error {
	g := t.Engine
	before := slices.Clone(g.DiscardPile)
	return t.act(playerID, "draw_discard", nil, func() error {
		return g.DrawFromDiscardPile()
	}, func(p *engine.Player) {
		taken := before[:len(before)-len(g.DiscardPile)]
		t.fireEvent(GameEvent{
			Type:  EventPlayerDrawDiscard,
			User:  &EventUser{ID: playerID},
			Cards: t.cardViews(taken),
			Melds: t.meldViews(g.Team(p.Team).Melds),
		})
	})
}

// LayDown lays down the team's initial melds from the player's active zone.
func (t *Table) LayDown(playerID uuid.UUID) error {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return t.layDown(playerID)
}

func (t *Table) layDown(playerID uuid.UUID) error {
	g := t.Engine
	return t.act(playerID, "lay_down", nil, func() error {
		return g.LayDownCards(g.CurrentRound().MinPointsToLayDown)
	}, func(p *engine.Player) {
		t.fireEvent(GameEvent{
			Type:  EventPlayerLayDown,
			User:  &EventUser{ID: playerID},
			Melds: t.meldViews(g.Team(p.Team).Melds),
		})
	})
}

// AddToMeld adds a held card to one of the team's melds.
func (t *Table) AddToMeld(playerID uuid.UUID, meld int, cardID uuid.UUID) error {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return t.addToMeld(playerID, meld, cardID)
}

func (t *Table) addToMeld(playerID uuid.UUID, meld int, cardID uuid.UUID) error {
	g := t.Engine
	payload := map[string]any{"meld": meld, "card": cardID}
	return t.act(playerID, "add_to_meld", payload, func() error {
		c, ok := t.Cards.Lookup(cardID)
		if !ok {
			return ErrUnknownCard
		}
		return g.AddToMeld(meld, c)
	}, func(p *engine.Player) {
		melds := g.Team(p.Team).Melds
		// The engine may move an equal-valued card; the meld's newest card is the one moved.
		cards := melds[meld].Cards
		cv := t.cardView(cards[len(cards)-1])
		t.fireEvent(GameEvent{
			Type:    EventPlayerAddToMeld,
			User:    &EventUser{ID: playerID},
			Card:    &cv,
			Melds:   t.meldViews(melds),
			Payload: map[string]any{"meld": meld},
		})
	})
}

// LayDownMeld starts a new team meld from held cards.
func (t *Table) LayDownMeld(playerID uuid.UUID, cardIDs []uuid.UUID) error {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return t.layDownMeld(playerID, cardIDs)
}

func (t *Table) layDownMeld(playerID uuid.UUID, cardIDs []uuid.UUID) error {
	g := t.Engine
	return t.act(playerID, "lay_down_meld", map[string]any{"cards": cardIDs}, func() error {
		cards := make([]engine.Card, len(cardIDs))
		for i, id := range cardIDs {
			c, ok := t.Cards.Lookup(id)
			if !ok {
				return ErrUnknownCard
			}
			cards[i] = c
		}
		return g.LayDownNewMeld(cards)
	}, func(p *engine.Player) {
		t.fireEvent(GameEvent{
			Type:  EventPlayerLayDownMeld,
			User:  &EventUser{ID: playerID},
			Melds: t.meldViews(g.Team(p.Team).Melds),
		})
	})
}

// Discard discards a held card and ends the player's turn.
func (t *Table) Discard(playerID uuid.UUID, cardID uuid.UUID) error {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return t.discard(playerID, cardID)
}

func (t *Table) discard(playerID uuid.UUID, cardID uuid.UUID) error {
	g := t.Engine
	return t.act(playerID, "discard", map[string]any{"card": cardID}, func() error {
		c, ok := t.Cards.Lookup(cardID)
		if !ok {
			return ErrUnknownCard
		}
		return g.Discard(c)
	}, func(*engine.Player) {
		top, _ := g.DiscardTop()
		cv := t.cardView(top)
		t.fireEvent(GameEvent{Type: EventPlayerDiscard, User: &EventUser{ID: playerID}, Card: &cv})
	})
}

// Play applies an engine move on behalf of playerID.
func (t *Table) Play(playerID uuid.UUID, m engine.Move) error {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	switch m.Kind {
	case engine.MoveDrawStock:
		return t.drawFromStock(playerID, m.First, m.Second)
	case engine.MoveDrawDiscard:
		return t.drawFromDiscard(playerID)
	case engine.MoveLayDown:
		return t.layDown(playerID)
	case engine.MoveAddToMeld:
		return t.addToMeld(playerID, m.Meld, t.Cards.UUIDOf(m.Card))
	case engine.MoveLayDownMeld:
		ids := make([]uuid.UUID, len(m.Cards))
		for i, c := range m.Cards {
			ids[i] = t.Cards.UUIDOf(c)
		}
		return t.layDownMeld(playerID, ids)
	case engine.MoveDiscard:
		return t.discard(playerID, t.Cards.UUIDOf(m.Card))
	}
	return fmt.Errorf("unknown move %s", m.Kind)
}

// LegalMoves lists the moves open to playerID; it is empty when it is not
// that player's turn.
func (t *Table) LegalMoves(playerID uuid.UUID) ([]engine.Move, error) {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	seat, ok := t.seatFor(playerID)
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if t.Engine.Phase != engine.PhaseRoundInProgress || seat != t.Engine.Current {
		return nil, nil
	}
	return t.Engine.LegalMoves(), nil
}

// StartNextRound deals the next round once the current one has been scored.
func (t *Table) StartNextRound() error {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	g := t.Engine
	if err := g.StartNextRound(); err != nil {
		return fmt.Errorf("start next round: %w", err)
	}
	t.Cards.refresh(g)
	round := g.RoundNumber()
	t.logAction(uuid.Nil, string(EventRoundStart), map[string]any{
		"round":     round,
		"minPoints": g.CurrentRound().MinPointsToLayDown,
	})
	t.log.WithField("round", round).Info("round dealt")
	t.fireEvent(GameEvent{Type: EventRoundStart, Payload: map[string]any{
		"round":     round,
		"dealer":    t.Players[g.Dealer].ID,
		"minPoints": g.CurrentRound().MinPointsToLayDown,
	}})
	t.broadcastSyncStateToAll()
	t.broadcastPlayerTurn()
	return nil
}

// CurrentPlayer returns the player to act, or uuid.Nil between rounds.
func (t *Table) CurrentPlayer() uuid.UUID {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return t.currentPlayerID()
}

// Phase returns the engine phase.
func (t *Table) Phase() engine.Phase {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return t.Engine.Phase
}

// SendSync sends playerID its current view.
func (t *Table) SendSync(playerID uuid.UUID) error {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	if _, ok := t.seatFor(playerID); !ok {
		return ErrUnknownPlayer
	}
	t.sendSyncState(playerID)
	return nil
}

// ---------------------------------------------------------------------------
// Action flow
// ---------------------------------------------------------------------------

// act runs one player action: turn check, engine apply, registry refresh,
// events, action log and round completion. Assumes the lock is held.
func (t *Table) act(playerID uuid.UUID, action string, payload map[string]any, apply func() error, announce func(p *engine.Player)) error {
	seat, ok := t.seatFor(playerID)
	if !ok {
		t.log.WithFields(logrus.Fields{"player": playerID, "action": action}).Warn("action from unknown player")
		return ErrUnknownPlayer
	}
	g := t.Engine
	if g.Phase == engine.PhaseRoundInProgress && seat != g.Current {
		t.reject(playerID, action, ErrNotYourTurn)
		return ErrNotYourTurn
	}

	prevTurn := g.TurnNumber
	if err := apply(); err != nil {
		t.reject(playerID, action, err)
		return fmt.Errorf("%s: %w", action, err)
	}
	t.Cards.refresh(g)
	t.logAction(playerID, action, payload)
	t.log.WithFields(logrus.Fields{"player": playerID, "action": action, "seat": seat}).Debug("action applied")
	if announce != nil {
		announce(&g.Players[seat])
	}

	switch g.Phase {
	case engine.PhaseRoundComplete, engine.PhaseGameComplete:
		t.finishRound()
	default:
		if g.TurnNumber != prevTurn {
			t.broadcastPlayerTurn()
		}
	}
	return nil
}

// reject tells the player why an action failed.
func (t *Table) reject(playerID uuid.UUID, action string, err error) {
	t.log.WithFields(logrus.Fields{"player": playerID, "action": action}).WithError(err).Debug("action rejected")
	payload := map[string]any{"action": action, "message": err.Error()}
	var re *engine.RuleError
	if errors.As(err, &re) {
		payload["code"] = int(re.Code)
	}
	t.fireEventToPlayer(playerID, GameEvent{Type: EventPrivateActionFail, Payload: payload})
}

// finishRound announces and records the round the engine just scored.
func (t *Table) finishRound() {
	g := t.Engine
	round := len(g.History)
	scores := g.History[round-1]

	var wentOut uuid.UUID
	if g.WentOut >= 0 {
		wentOut = t.Players[g.WentOut].ID
	}
	t.logAction(uuid.Nil, string(EventRoundEnd), map[string]any{
		"round":   round,
		"reason":  g.EndReason.String(),
		"wentOut": wentOut,
	})
	t.log.WithFields(logrus.Fields{"round": round, "reason": g.EndReason.String()}).Info("round complete")

	ev := GameEvent{Type: EventRoundEnd, Payload: map[string]any{
		"round":  round,
		"reason": g.EndReason.String(),
		"scores": scoreViews(scores),
	}}
	if wentOut != uuid.Nil {
		ev.User = &EventUser{ID: wentOut}
	}
	t.fireEvent(ev)

	if t.OnRoundEnd != nil {
		t.OnRoundEnd(t.ID, round, slices.Clone(scores))
	}
	if t.Results != nil {
		res := t.roundResult(round, scores, wentOut)
		rec := t.Results
		t.enqueue(outboxJob{name: "record_round", run: func(ctx context.Context) error {
			return rec.RecordRound(ctx, res)
		}})
	}
	if g.IsOver() {
		t.endGame()
	}
}

func (t *Table) roundResult(round int, scores []engine.TeamScore, wentOut uuid.UUID) database.RoundResult {
	g := t.Engine
	res := database.RoundResult{
		TableID:    t.ID,
		Round:      round,
		EndReason:  g.EndReason.String(),
		WentOut:    wentOut,
		RecordedAt: time.Now().UTC(),
	}
	for _, s := range scores {
		res.Teams = append(res.Teams, database.TeamResult{
			Team:        int(s.Team),
			Name:        g.Team(s.Team).Name,
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
		})
	}
	return res
}

// endGame announces the final scores.
func (t *Table) endGame() {
	g := t.Engine
	scores := make(map[string]int, len(g.Teams))
	for _, tm := range g.Teams {
		scores[tm.Name] = tm.Score
	}
	winner := -1
	if team, ok := g.Winner(); ok {
		winner = int(team)
	}
	t.logAction(uuid.Nil, string(EventGameEnd), map[string]any{"winner": winner, "scores": scores})
	t.log.WithField("winner", winner).Info("game over")
	t.fireEvent(GameEvent{Type: EventGameEnd, Payload: map[string]any{"winner": winner, "scores": scores}})
}

// ---------------------------------------------------------------------------
// Events and action log
// ---------------------------------------------------------------------------

// fireEvent broadcasts ev to every player. Assumes the lock is held.
func (t *Table) fireEvent(ev GameEvent) {
	if t.BroadcastFn == nil {
		t.log.WithField("event", ev.Type).Trace("no broadcaster")
		return
	}
	t.BroadcastFn(ev)
}

// fireEventToPlayer sends ev to one player. Assumes the lock is held.
func (t *Table) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if t.BroadcastToPlayerFn == nil {
		t.log.WithFields(logrus.Fields{"event": ev.Type, "player": playerID}).Trace("no private broadcaster")
		return
	}
	t.BroadcastToPlayerFn(playerID, ev)
}

func (t *Table) broadcastPlayerTurn() {
	id := t.currentPlayerID()
	if id == uuid.Nil {
		return
	}
	t.fireEvent(GameEvent{Type: EventGamePlayerTurn, User: &EventUser{ID: id}, Payload: map[string]any{
		"turn": t.Engine.TurnNumber,
	}})
}

func (t *Table) sendSyncState(playerID uuid.UUID) {
	state := t.view(playerID)
	t.fireEventToPlayer(playerID, GameEvent{Type: EventPrivateSyncState, State: &state})
}

func (t *Table) broadcastSyncStateToAll() {
	if t.BroadcastToPlayerFn == nil {
		return
	}
	for _, p := range t.Players {
		t.sendSyncState(p.ID)
	}
}

// logAction appends an action record to the table's log. Assumes the lock is held.
func (t *Table) logAction(actorID uuid.UUID, actionType string, payload map[string]any) {
	t.actionIndex++
	if t.Actions == nil {
		return
	}
	if payload == nil {
		payload = make(map[string]any)
	}
	rec := cache.ActionRecord{
		TableID:     t.ID,
		ActionIndex: t.actionIndex,
		ActorID:     actorID,
		ActionType:  actionType,
		Payload:     payload,
		Timestamp:   time.Now().UnixMilli(),
	}
	pub := t.Actions
	t.enqueue(outboxJob{name: actionType, run: func(ctx context.Context) error {
		return pub.Publish(ctx, rec)
	}})
}

func (t *Table) enqueue(j outboxJob) {
	if t.closed {
		return
	}
	if t.out == nil {
		t.out = newOutbox(t.log, t.writeTimeout)
	}
	t.out.enqueue(j)
}
