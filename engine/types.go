package engine

import "strconv"

// Suit of a card. Suits only matter for color: Diamonds and Hearts are red.
type Suit uint8

// Suit constants, ordered Club through Spade.
const (
	SuitClub    Suit = 1
	SuitDiamond Suit = 2
	SuitHeart   Suit = 3
	SuitSpade   Suit = 4
)

// Suits lists the four suits in order.
var Suits = [4]Suit{SuitClub, SuitDiamond, SuitHeart, SuitSpade}

func (s Suit) String() string {
	switch s {
	case SuitClub:
		return "Club"
	case SuitDiamond:
		return "Diamond"
	case SuitHeart:
		return "Heart"
	case SuitSpade:
		return "Spade"
	default:
		return "?"
	}
}

// Rank of a card, ordered by rank value from Two to Joker.
type Rank uint8

// Rank constants. The numeric value of Two..Ten is the pip count.
const (
	RankTwo   Rank = 2
	RankThree Rank = 3
	RankFour  Rank = 4
	RankFive  Rank = 5
	RankSix   Rank = 6
	RankSeven Rank = 7
	RankEight Rank = 8
	RankNine  Rank = 9
	RankTen   Rank = 10
	RankJack  Rank = 11
	RankQueen Rank = 12
	RankKing  Rank = 13
	RankAce   Rank = 14
	RankJoker Rank = 15
)

// numRanks sizes rank-indexed tables (index 0 and 1 unused).
const numRanks = int(RankJoker) + 1

// Ranks lists the thirteen ranked (non-joker) card ranks in order.
var Ranks = [13]Rank{
	RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven, RankEight,
	RankNine, RankTen, RankJack, RankQueen, RankKing, RankAce,
}

func (r Rank) String() string {
	switch r {
	case RankJack:
		return "J"
	case RankQueen:
		return "Q"
	case RankKing:
		return "K"
	case RankAce:
		return "A"
	case RankJoker:
		return "Joker"
	}
	if r >= RankTwo && r <= RankTen {
		return strconv.Itoa(int(r))
	}
	return "?"
}

// Card is one physical card. Cards with the same Suit and Rank are
// interchangeable for scoring; ID tells the physical instances apart within
// a round's multi-deck set.
type Card struct {
	ID   uint16
	Suit Suit
	Rank Rank
}

// BuildCard constructs a card. Joker suits carry only color, so red jokers are
// normalized to Diamond and black jokers to Club.
func BuildCard(suit Suit, rank Rank) Card {
	if rank == RankJoker {
		switch suit {
		case SuitHeart:
			suit = SuitDiamond
		case SuitSpade:
			suit = SuitClub
		}
	}
	return Card{Suit: suit, Rank: rank}
}

// Value is the display value used for sorting and duplicate matching:
// rank*10 + suit.
func (c Card) Value() int { return int(c.Rank)*10 + int(c.Suit) }

// Name returns a human-readable name such as "K of Hearts" or "Joker".
func (c Card) Name() string {
	if c.Rank == RankJoker {
		return "Joker"
	}
	return c.Rank.String() + " of " + c.Suit.String() + "s"
}

func (c Card) String() string { return c.Name() }

// IsWild reports whether the card is a Joker or a Two.
func (c Card) IsWild() bool { return c.Rank == RankJoker || c.Rank == RankTwo }

// IsThree reports whether the card is a Three of any color.
func (c Card) IsThree() bool { return c.Rank == RankThree }

// IsJoker reports whether the card is a Joker.
func (c Card) IsJoker() bool { return c.Rank == RankJoker }

// IsRed reports whether the card is a Diamond or a Heart.
func (c Card) IsRed() bool { return c.Suit == SuitDiamond || c.Suit == SuitHeart }

// NaturalMatch reports whether a and b share a rank. Two wild cards never
// match naturally.
func NaturalMatch(a, b Card) bool {
	return a.Rank == b.Rank && !a.IsWild() && !b.IsWild()
}

// ---------------------------------------------------------------------------
// Phases and turn stages
// ---------------------------------------------------------------------------

// Phase is the game-level state.
type Phase uint8

const (
	PhaseNotStarted Phase = iota
	PhaseRoundInProgress
	PhaseRoundComplete
	PhaseGameComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseRoundInProgress:
		return "round_in_progress"
	case PhaseRoundComplete:
		return "round_complete"
	case PhaseGameComplete:
		return "game_complete"
	default:
		return "unknown"
	}
}

// TurnStage is the current player's position within a turn.
type TurnStage uint8

const (
	StageAwaitingDraw TurnStage = iota
	StageAwaitingDiscard
	StageIdle // no round in progress
)

func (s TurnStage) String() string {
	switch s {
	case StageAwaitingDraw:
		return "awaiting_draw"
	case StageAwaitingDiscard:
		return "awaiting_discard"
	default:
		return "idle"
	}
}

// RoundEnd describes why a round finished.
type RoundEnd uint8

const (
	RoundEndNone RoundEnd = iota
	RoundEndWentOut
	RoundEndStockExhausted
)

func (e RoundEnd) String() string {
	switch e {
	case RoundEndWentOut:
		return "went_out"
	case RoundEndStockExhausted:
		return "stock_exhausted"
	default:
		return "none"
	}
}
