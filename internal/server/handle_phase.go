package server

import (
	"errors"
	"net/http"

	"github.com/snapguess/snapguess/internal/snapguess"
)

type PhaseResponse struct {
	Phase        string `json:"phase"`
	CurrentRound int    `json:"currentRound"`
}

func handleStartSubmission(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := playerFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		game, err := store.GameByID(r.Context(), sess.GameID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if game.Phase != snapguess.PhaseLobby {
			writeError(w, http.StatusConflict, "room is not in the lobby")
			return
		}

		err = store.SetPhase(r.Context(), game.ID, snapguess.PhaseLobby, snapguess.PhaseSubmission)
		if errors.Is(err, ErrConflict) {
			// Someone else already started the phase. Same end state.
			writeJSON(w, http.StatusOK, PhaseResponse{Phase: snapguess.PhaseSubmission.String()})
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(game.ID, SSEEvent{
			Type:  "phase_changed",
			Phase: snapguess.PhaseSubmission.String(),
		})
		writeJSON(w, http.StatusOK, PhaseResponse{Phase: snapguess.PhaseSubmission.String()})
	}
}

func handleStartPlaying(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := playerFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		game, err := store.GameByID(r.Context(), sess.GameID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if game.Phase != snapguess.PhaseSubmission {
			writeError(w, http.StatusConflict, "room is not in the submission phase")
			return
		}

		count, err := store.CountSubmissions(r.Context(), game.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if count < snapguess.MinSubmissions {
			writeError(w, http.StatusConflict, snapguess.ErrInsufficientSubmissions.Error())
			return
		}

		err = store.SetPhase(r.Context(), game.ID, snapguess.PhaseSubmission, snapguess.PhasePlaying)
		if errors.Is(err, ErrConflict) {
			writeJSON(w, http.StatusOK, PhaseResponse{Phase: snapguess.PhasePlaying.String()})
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(game.ID, SSEEvent{
			Type:  "phase_changed",
			Phase: snapguess.PhasePlaying.String(),
		})
		writeJSON(w, http.StatusOK, PhaseResponse{Phase: snapguess.PhasePlaying.String()})
	}
}

type AdvanceResponse struct {
	Phase        string `json:"phase"`
	CurrentRound int    `json:"currentRound"`
	Finished     bool   `json:"finished"`
}

func handleAdvance(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := playerFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		// The increment is keyed on the server-observed round pointer, not
		// anything the client sent. A lost CAS means another caller
		// advanced first; retry once against the fresh pointer so a
		// straggler doesn't skip a round.
		for attempt := 0; attempt < 2; attempt++ {
			game, err := store.GameByID(r.Context(), sess.GameID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			if game.Phase != snapguess.PhasePlaying {
				writeError(w, http.StatusConflict, "room is not in the playing phase")
				return
			}

			newRound, finished, err := store.AdvanceRound(r.Context(), game.ID, game.CurrentRound)
			if errors.Is(err, ErrConflict) {
				continue
			}
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}

			resp := AdvanceResponse{CurrentRound: newRound, Finished: finished}
			if finished {
				resp.Phase = snapguess.PhaseFinished.String()
				resp.CurrentRound = game.CurrentRound
				broker.Publish(game.ID, SSEEvent{
					Type:  "phase_changed",
					Phase: snapguess.PhaseFinished.String(),
				})
			} else {
				resp.Phase = snapguess.PhasePlaying.String()
				broker.Publish(game.ID, SSEEvent{
					Type:  "round_advanced",
					Round: newRound,
				})
			}
			writeJSON(w, http.StatusOK, resp)
			return
		}

		writeError(w, http.StatusConflict, "lost a race advancing the round, re-sync and retry")
	}
}

func handleRestart(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := playerFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		game, err := store.GameByID(r.Context(), sess.GameID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !game.Phase.CanTransitionTo(snapguess.PhaseSubmission) {
			writeError(w, http.StatusConflict, "room has not started yet")
			return
		}

		if err := store.RestartGame(r.Context(), sess.GameID); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(sess.GameID, SSEEvent{
			Type:  "game_restarted",
			Phase: snapguess.PhaseSubmission.String(),
		})
		writeJSON(w, http.StatusOK, PhaseResponse{Phase: snapguess.PhaseSubmission.String()})
	}
}
