package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/sync/singleflight"

	"github.com/snapguess/snapguess/internal/snapguess"
)

type SubmitGuessRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type SubmitGuessResponse struct {
	GuessID      string `json:"guessId"`
	SubmissionID string `json:"submissionId"`
	// Distance and score stay hidden until the round is revealed.
	Pending bool `json:"pending"`
}

func handleSubmitGuess(logger *slog.Logger, store Store, broker *Broker, reveals *singleflight.Group) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := playerFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req SubmitGuessRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		game, err := store.GameByID(r.Context(), sess.GameID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if game.Phase != snapguess.PhasePlaying {
			writeError(w, http.StatusConflict, "guessing is only allowed during play")
			return
		}

		// Guesses always target the server's current round, never a
		// client-cached one: stale readers cannot guess on the wrong photo.
		photo, err := store.SubmissionAt(r.Context(), game.ID, game.CurrentRound)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusConflict, "no photo for the current round")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if photo.PlayerID == sess.PlayerID {
			writeError(w, http.StatusConflict, snapguess.ErrSelfGuess.Error())
			return
		}

		// Distance and score are computed once, server-side, and are
		// immutable thereafter.
		distanceKm, score := snapguess.ScoreGuess(
			snapguess.Location{Lat: req.Lat, Lng: req.Lng},
			photo.TrueLocation,
		)

		guess, err := store.InsertGuess(r.Context(), snapguess.Guess{
			SubmissionID:  photo.ID,
			PlayerID:      sess.PlayerID,
			GuessedAt:     snapguess.Location{Lat: req.Lat, Lng: req.Lng},
			DistanceKm:    distanceKm,
			LocationScore: score,
			OwnerBonus:    snapguess.OwnerBonus("", photo.PlayerID),
		})
		if errors.Is(err, snapguess.ErrDuplicateGuess) {
			writeError(w, http.StatusConflict, snapguess.ErrDuplicateGuess.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(game.ID, SSEEvent{
			Type:         "guess_submitted",
			SubmissionID: photo.ID,
		})

		if err := maybeAutoReveal(r.Context(), store, broker, reveals, game.ID, photo); err != nil {
			// The guess is committed; a failed auto-reveal just means the
			// host reveals manually.
			logger.Error("auto-reveal failed", "submission_id", photo.ID, "error", err)
		}

		writeJSON(w, http.StatusCreated, SubmitGuessResponse{
			GuessID:      guess.ID,
			SubmissionID: photo.ID,
			Pending:      true,
		})
	}
}

// maybeAutoReveal applies the round's guesses once every player other
// than the photo's owner has locked one in. The singleflight group keyed
// by submission ID keeps concurrent last-guess arrivals from issuing
// redundant reveals.
func maybeAutoReveal(ctx context.Context, store Store, broker *Broker, reveals *singleflight.Group, gameID string, photo snapguess.PhotoSubmission) error {
	playerCount, err := store.CountPlayers(ctx, gameID)
	if err != nil {
		return err
	}
	guessCount, err := store.CountGuesses(ctx, photo.ID)
	if err != nil {
		return err
	}

	eligible := playerCount - 1 // everyone but the owner
	if eligible < 1 || guessCount < eligible {
		return nil
	}

	_, err, _ = reveals.Do(photo.ID, func() (any, error) {
		return revealSubmission(ctx, store, broker, gameID, photo.ID)
	})
	return err
}

// revealSubmission applies all unapplied guesses for the submission and
// notifies the room when anything actually changed.
func revealSubmission(ctx context.Context, store Store, broker *Broker, gameID, submissionID string) (int64, error) {
	applied, err := store.ApplyGuesses(ctx, submissionID)
	if err != nil {
		return 0, err
	}
	if applied > 0 {
		broker.Publish(gameID, SSEEvent{
			Type:         "results_revealed",
			SubmissionID: submissionID,
		})
	}
	return applied, nil
}

type GuessInfo struct {
	ID            string  `json:"id"`
	PlayerID      string  `json:"playerId"`
	GuessedLat    float64 `json:"guessedLat"`
	GuessedLng    float64 `json:"guessedLng"`
	DistanceKm    float64 `json:"distanceKm"`
	LocationScore int     `json:"locationScore"`
	Applied       bool    `json:"applied"`
}

func handleListGuesses(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := playerFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		submissionID := r.URL.Query().Get("submission")
		if submissionID == "" {
			writeError(w, http.StatusBadRequest, "submission query parameter required")
			return
		}

		photo, err := store.SubmissionByID(r.Context(), submissionID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "photo not found")
			return
		}
		if err != nil || photo.GameID != sess.GameID {
			writeError(w, http.StatusNotFound, "photo not found")
			return
		}

		guesses, err := store.ListGuesses(r.Context(), submissionID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := []GuessInfo{}
		for _, g := range guesses {
			resp = append(resp, GuessInfo{
				ID:            g.ID,
				PlayerID:      g.PlayerID,
				GuessedLat:    g.GuessedAt.Lat,
				GuessedLng:    g.GuessedAt.Lng,
				DistanceKm:    g.DistanceKm,
				LocationScore: g.LocationScore,
				Applied:       g.Applied,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
