package engine

import "math"

// Round holds the parameters for one deal cycle.
type Round struct {
	CardsPerHandFoot     int // cards dealt to each hand and to each foot
	MinPointsToLayDown   int
	MinCleanBooksToGoOut int
	MinDirtyBooksToGoOut int
}

// Scoring is the point table used for cards, books and going out.
type Scoring struct {
	BookClean  int
	BookDirty  int
	BookWild   int // only reachable when AllowWildCardBooks
	BookThrees int // only reachable when AllowBookOfThrees

	CardJoker       int
	CardTwo         int
	CardAce         int
	CardFace        int
	CardTen         int
	CardNine        int
	CardEight       int
	CardFourToSeven int
	Card3Black      int
	Card3Red        int

	GoingOutBonus int
}

// Rules holds every tunable rule parameter. It is supplied once when the game
// is created and passed by value afterwards.
type Rules struct {
	Name string

	NumPlayers    int // 2, 4 or 6
	NumDecks      int // each deck is 52 cards plus 2 jokers
	NumStockPiles int

	// MinDiscardPickup is how many cards a discard pickup takes, counting the
	// top card. Zero or less takes the whole pile. It is also the number of
	// cards used to seed the discard pile at the start of a round.
	MinDiscardPickup int
	MinCardsPerMeld  int
	BookSize         int

	AllowWildCardBooks         bool
	AllowBookOfThrees          bool
	AllowAddToBook             bool
	AllowPickUpWildFromDiscard bool
	AllowNoDiscardGoingOut     bool
	AllowThreePlayerTeams      bool

	Scoring Scoring
	Rounds  []Round
}

// DefaultRules returns the Rochelle, GA house rules.
func DefaultRules() Rules {
	return Rules{
		Name:             "Rochelle GA",
		NumPlayers:       4,
		NumDecks:         6,
		NumStockPiles:    3,
		MinDiscardPickup: 3,
		MinCardsPerMeld:  3,
		BookSize:         7,

		AllowWildCardBooks:         false,
		AllowBookOfThrees:          false,
		AllowAddToBook:             true,
		AllowPickUpWildFromDiscard: false,
		AllowNoDiscardGoingOut:     true,
		AllowThreePlayerTeams:      true,

		Scoring: Scoring{
			BookClean:       500,
			BookDirty:       300,
			BookWild:        1500,
			BookThrees:      1000,
			CardJoker:       50,
			CardTwo:         20,
			CardAce:         20,
			CardFace:        10,
			CardTen:         10,
			CardNine:        10,
			CardEight:       10,
			CardFourToSeven: 5,
			Card3Black:      -5,
			Card3Red:        -500,
			GoingOutBonus:   500,
		},
		Rounds: []Round{
			{CardsPerHandFoot: 13, MinPointsToLayDown: 50, MinCleanBooksToGoOut: 2, MinDirtyBooksToGoOut: 3},
			{CardsPerHandFoot: 13, MinPointsToLayDown: 90, MinCleanBooksToGoOut: 2, MinDirtyBooksToGoOut: 3},
			{CardsPerHandFoot: 13, MinPointsToLayDown: 120, MinCleanBooksToGoOut: 2, MinDirtyBooksToGoOut: 3},
			{CardsPerHandFoot: 13, MinPointsToLayDown: 150, MinCleanBooksToGoOut: 2, MinDirtyBooksToGoOut: 3},
			{CardsPerHandFoot: 17, MinPointsToLayDown: 200, MinCleanBooksToGoOut: 3, MinDirtyBooksToGoOut: 4},
		},
	}
}

// DeckSize returns the number of cards in the full multi-deck set.
func (r *Rules) DeckSize() int { return r.NumDecks * 54 }

// Validate checks that the rules describe a playable game.
func (r *Rules) Validate() error {
	switch r.NumPlayers {
	case 2, 4, 6:
	default:
		return &RuleError{Code: CodeInvalidPlayerCount, Have: r.NumPlayers}
	}
	switch {
	case r.NumDecks <= 0:
		return invalidRules("number of decks must be positive")
	case r.DeckSize() > math.MaxUint16+1:
		return invalidRules("too many decks to number every card")
	case r.NumStockPiles <= 0:
		return invalidRules("number of stock piles must be positive")
	case r.MinCardsPerMeld < 2:
		return invalidRules("minimum meld size must be at least 2")
	case r.BookSize < r.MinCardsPerMeld:
		return invalidRules("book size must not be smaller than the minimum meld size")
	case len(r.Rounds) == 0:
		return invalidRules("at least one round is required")
	}
	// Every round must leave a two-card draw after dealing and seeding the
	// discard pile.
	seed := max(r.MinDiscardPickup, 1)
	for _, rd := range r.Rounds {
		if rd.CardsPerHandFoot <= 0 {
			return invalidRules("every round must deal at least one card")
		}
		if 2*rd.CardsPerHandFoot*r.NumPlayers+seed+2 > r.DeckSize() {
			return invalidRules("deck is too small for the deal")
		}
	}
	return nil
}

// teamLayout returns the seat groups for the configured player count.
// 2 players play alone; 4 players sit partners across; 6 players form two
// teams of three or, when three-player teams are disabled, three pairs.
func (r *Rules) teamLayout() [][]uint8 {
	switch r.NumPlayers {
	case 4:
		return [][]uint8{{0, 2}, {1, 3}}
	case 6:
		if r.AllowThreePlayerTeams {
			return [][]uint8{{0, 2, 4}, {1, 3, 5}}
		}
		return [][]uint8{{0, 3}, {1, 5}, {2, 4}}
	default:
		return [][]uint8{{0}, {1}}
	}
}
