// Package snapguess defines the core domain types and game rules.
// It has zero external dependencies — everything here is pure Go.
package snapguess

import (
	"errors"
	"time"
)

// Phase is the coarse lifecycle state of a room.
type Phase string

const (
	PhaseLobby      Phase = "lobby"
	PhaseSubmission Phase = "submission"
	PhasePlaying    Phase = "playing"
	PhaseFinished   Phase = "finished"
)

func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo reports whether a transition from p to target is legal.
// Transitions are monotonic forward; the restart edge back to submission
// is allowed from every later phase.
func (p Phase) CanTransitionTo(target Phase) bool {
	if target == PhaseSubmission && p != PhaseLobby {
		// Restart edge.
		return true
	}
	switch p {
	case PhaseLobby:
		return target == PhaseSubmission
	case PhaseSubmission:
		return target == PhasePlaying
	case PhasePlaying:
		return target == PhaseFinished
	}
	return false
}

// Game rule violations, detected before any write.
var (
	ErrInvalidPhase            = errors.New("operation not allowed in current phase")
	ErrInsufficientSubmissions = errors.New("at least 2 photo submissions required")
	ErrSelfGuess               = errors.New("cannot guess on your own photo")
	ErrDuplicateGuess          = errors.New("already guessed on this photo")
	ErrDuplicatePhoto          = errors.New("already submitted a photo this game")
	ErrNotCurrentRound         = errors.New("photo is not the current round")
)

// MinSubmissions is the fewest photos a room needs before play can start.
const MinSubmissions = 2

type Location struct {
	Lat float64
	Lng float64
}

type Game struct {
	ID           string
	Code         string
	Phase        Phase
	CurrentRound int
	HostPlayerID string
	CreatedAt    time.Time
}

type Player struct {
	ID          string
	GameID      string
	DisplayName string
	AvatarEmoji string
	IsHost      bool
	CreatedAt   time.Time
}

type PhotoSubmission struct {
	ID           string
	GameID       string
	PlayerID     string
	ImageURL     string
	Caption      string
	TrueLocation Location
	LocationText string
	CreatedAt    time.Time
}

type Guess struct {
	ID            string
	SubmissionID  string
	PlayerID      string
	GuessedAt     Location
	DistanceKm    float64
	LocationScore int
	OwnerBonus    int
	Applied       bool
	CreatedAt     time.Time
}

// ScoreGuess computes the immutable distance and score for a guess at
// insert time. The total score of a guess is its location score alone.
func ScoreGuess(guessed, actual Location) (distanceKm float64, score int) {
	distanceKm = Distance(guessed, actual)
	return distanceKm, LocationScore(distanceKm)
}
