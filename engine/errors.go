package engine

import "fmt"

// ErrorCode identifies one kind of rule violation.
type ErrorCode uint8

const (
	CodeUnknown ErrorCode = iota

	// Setup.
	CodeInvalidPlayerCount
	CodeInvalidRules

	// Stock piles.
	CodeInvalidFirstStockPile
	CodeInvalidSecondStockPile
	CodeEmptyFirstStockPile
	CodeEmptySecondStockPile

	// Discard pile.
	CodeDiscardPileEmpty
	CodeCannotPickUpWild
	CodeCannotPickUpThree
	CodeCannotMeldWithTopCard
	CodePickupInsufficientPoints

	// Lay-down and melds.
	CodeLayDownInsufficientPoints
	CodeTeamAlreadyLaidDown
	CodeNotEnoughCardsForMeld
	CodeTeamNotLaidDown
	CodeInvalidMeldIndex
	CodeMeldCannotAccept
	CodeInvalidMeld

	// Turn order.
	CodeMustDrawBeforeDiscard
	CodeAlreadyDrawn
	CodeCardNotInZone
	CodeCannotGoOut
	CodeRoundNotInProgress
	CodeRoundNotComplete
	CodeMustDrawBeforeMelding
)

var codeText = map[ErrorCode]string{
	CodeUnknown:                   "unknown rule violation",
	CodeInvalidPlayerCount:        "invalid number of players, expected 2, 4 or 6",
	CodeInvalidRules:              "invalid rules",
	CodeInvalidFirstStockPile:     "invalid first stock pile",
	CodeInvalidSecondStockPile:    "invalid second stock pile",
	CodeEmptyFirstStockPile:       "first stock pile is empty",
	CodeEmptySecondStockPile:      "second stock pile is empty",
	CodeDiscardPileEmpty:          "discard pile is empty",
	CodeCannotPickUpWild:          "cannot pick up a wild card from the discard pile",
	CodeCannotPickUpThree:         "cannot pick up a three from the discard pile",
	CodeCannotMeldWithTopCard:     "player cannot meld with the top discard",
	CodePickupInsufficientPoints:  "discard pickup does not give enough points to lay down",
	CodeLayDownInsufficientPoints: "not enough points to lay down",
	CodeTeamAlreadyLaidDown:       "team has already laid down this round",
	CodeNotEnoughCardsForMeld:     "not enough cards for a matching meld",
	CodeTeamNotLaidDown:           "team has not laid down this round",
	CodeInvalidMeldIndex:          "invalid meld index",
	CodeMeldCannotAccept:          "meld cannot accept this card",
	CodeInvalidMeld:               "cards do not form a legal meld",
	CodeMustDrawBeforeDiscard:     "player has to draw before discarding",
	CodeAlreadyDrawn:              "player has already drawn this turn",
	CodeCardNotInZone:             "card is not in the player's hand or foot",
	CodeCannotGoOut:               "team does not have the books required to go out",
	CodeRoundNotInProgress:        "no round in progress",
	CodeRoundNotComplete:          "current round is not complete",
	CodeMustDrawBeforeMelding:     "player has to draw before melding",
}

func (c ErrorCode) String() string {
	if s, ok := codeText[c]; ok {
		return s
	}
	return codeText[CodeUnknown]
}

// RuleError is returned for every rejected action. Need, Have and Index carry
// the data needed to explain the rejection; which ones are set depends on Code.
// A rejected action never changes any zone.
type RuleError struct {
	Code   ErrorCode
	Need   int
	Have   int
	Index  int
	Reason string
}

func (e *RuleError) Error() string {
	switch e.Code {
	case CodeInvalidPlayerCount:
		return fmt.Sprintf("%s, got %d", e.Code, e.Have)
	case CodeInvalidRules:
		return fmt.Sprintf("%s: %s", e.Code, e.Reason)
	case CodeInvalidFirstStockPile, CodeInvalidSecondStockPile,
		CodeEmptyFirstStockPile, CodeEmptySecondStockPile, CodeInvalidMeldIndex:
		return fmt.Sprintf("%s: %d", e.Code, e.Index)
	case CodePickupInsufficientPoints, CodeLayDownInsufficientPoints:
		return fmt.Sprintf("%s: need %d, have %d", e.Code, e.Need, e.Have)
	case CodeCannotGoOut:
		return fmt.Sprintf("%s: %s", e.Code, e.Reason)
	}
	return e.Code.String()
}

// Is matches on Code so sentinels work with errors.Is.
func (e *RuleError) Is(target error) bool {
	t, ok := target.(*RuleError)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrInvalidPlayerCount        = &RuleError{Code: CodeInvalidPlayerCount}
	ErrInvalidRules              = &RuleError{Code: CodeInvalidRules}
	ErrInvalidFirstStockPile     = &RuleError{Code: CodeInvalidFirstStockPile}
	ErrInvalidSecondStockPile    = &RuleError{Code: CodeInvalidSecondStockPile}
	ErrEmptyFirstStockPile       = &RuleError{Code: CodeEmptyFirstStockPile}
	ErrEmptySecondStockPile      = &RuleError{Code: CodeEmptySecondStockPile}
	ErrDiscardPileEmpty          = &RuleError{Code: CodeDiscardPileEmpty}
	ErrCannotPickUpWild          = &RuleError{Code: CodeCannotPickUpWild}
	ErrCannotPickUpThree         = &RuleError{Code: CodeCannotPickUpThree}
	ErrCannotMeldWithTopCard     = &RuleError{Code: CodeCannotMeldWithTopCard}
	ErrPickupInsufficientPoints  = &RuleError{Code: CodePickupInsufficientPoints}
	ErrLayDownInsufficientPoints = &RuleError{Code: CodeLayDownInsufficientPoints}
	ErrTeamAlreadyLaidDown       = &RuleError{Code: CodeTeamAlreadyLaidDown}
	ErrNotEnoughCardsForMeld     = &RuleError{Code: CodeNotEnoughCardsForMeld}
	ErrTeamNotLaidDown           = &RuleError{Code: CodeTeamNotLaidDown}
	ErrInvalidMeldIndex          = &RuleError{Code: CodeInvalidMeldIndex}
	ErrMeldCannotAccept          = &RuleError{Code: CodeMeldCannotAccept}
	ErrInvalidMeld               = &RuleError{Code: CodeInvalidMeld}
	ErrMustDrawBeforeDiscard     = &RuleError{Code: CodeMustDrawBeforeDiscard}
	ErrAlreadyDrawn              = &RuleError{Code: CodeAlreadyDrawn}
	ErrCardNotInZone             = &RuleError{Code: CodeCardNotInZone}
	ErrCannotGoOut               = &RuleError{Code: CodeCannotGoOut}
	ErrRoundNotInProgress        = &RuleError{Code: CodeRoundNotInProgress}
	ErrRoundNotComplete          = &RuleError{Code: CodeRoundNotComplete}
	ErrMustDrawBeforeMelding     = &RuleError{Code: CodeMustDrawBeforeMelding}
)

func invalidRules(reason string) *RuleError {
	return &RuleError{Code: CodeInvalidRules, Reason: reason}
}

func ruleErr(code ErrorCode) *RuleError { return &RuleError{Code: code} }

func pileErr(code ErrorCode, idx int) *RuleError { return &RuleError{Code: code, Index: idx} }

func pointsErr(code ErrorCode, need, have int) *RuleError {
	return &RuleError{Code: code, Need: need, Have: have}
}
