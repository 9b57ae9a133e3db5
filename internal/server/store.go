package server

import (
	"context"
	"errors"

	"github.com/snapguess/snapguess/internal/snapguess"
)

// ErrNotFound is returned when a referenced room, player, or photo does
// not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a conditional update lost a race against a
// concurrent writer (round-pointer CAS, room-code collision). Callers
// retry once with freshly read state before surfacing it.
var ErrConflict = errors.New("storage conflict")

type sessionInfo struct {
	PlayerID string
	GameID   string
	IsHost   bool
}

// Store is the storage boundary. All cross-client ordering is enforced
// here: uniqueness constraints, conditional updates, and transactions.
type Store interface {
	PlayerFromToken(ctx context.Context, token string) (sessionInfo, error)

	CreateGame(ctx context.Context, code string) (snapguess.Game, error)
	GameByCode(ctx context.Context, code string) (snapguess.Game, error)
	GameByID(ctx context.Context, id string) (snapguess.Game, error)
	JoinGame(ctx context.Context, gameID, displayName string) (player snapguess.Player, sessionID string, err error)
	ListPlayers(ctx context.Context, gameID string) ([]snapguess.Player, error)
	CountPlayers(ctx context.Context, gameID string) (int, error)

	// SetPhase transitions only when the game is still in from; a lost
	// race returns ErrConflict.
	SetPhase(ctx context.Context, gameID string, from, to snapguess.Phase) error
	// AdvanceRound increments the round pointer keyed on the observed
	// value, flipping the game to finished when the pointer reaches the
	// submission count. Returns ErrConflict when another caller advanced
	// first.
	AdvanceRound(ctx context.Context, gameID string, observedRound int) (newRound int, finished bool, err error)
	// RestartGame deletes the room's guesses and submissions and resets
	// phase and round pointer in one transaction.
	RestartGame(ctx context.Context, gameID string) error

	InsertSubmission(ctx context.Context, sub snapguess.PhotoSubmission) (snapguess.PhotoSubmission, error)
	ListSubmissions(ctx context.Context, gameID string) ([]snapguess.PhotoSubmission, error)
	CountSubmissions(ctx context.Context, gameID string) (int, error)
	SubmissionByID(ctx context.Context, id string) (snapguess.PhotoSubmission, error)
	// SubmissionAt returns the submission at the given round index in
	// creation order.
	SubmissionAt(ctx context.Context, gameID string, round int) (snapguess.PhotoSubmission, error)

	InsertGuess(ctx context.Context, g snapguess.Guess) (snapguess.Guess, error)
	ListGuesses(ctx context.Context, submissionID string) ([]snapguess.Guess, error)
	CountGuesses(ctx context.Context, submissionID string) (int, error)
	// ApplyGuesses marks all not-yet-applied guesses for the submission
	// as applied. Idempotent; returns the number of newly applied rows.
	ApplyGuesses(ctx context.Context, submissionID string) (int64, error)
	// Scores sums location_score over applied guesses per player.
	Scores(ctx context.Context, gameID string) (map[string]int, error)
}
