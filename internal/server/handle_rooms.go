package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/snapguess/snapguess/internal/snapguess"
)

// createRoomAttempts bounds code-collision retries. With a 32-character
// alphabet and 5 positions collisions are rare; hitting the bound means
// something else is wrong.
const createRoomAttempts = 5

type CreateRoomResponse struct {
	Code string `json:"code"`
}

func handleCreateRoom(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for range createRoomAttempts {
			game, err := store.CreateGame(r.Context(), snapguess.NewCode())
			if errors.Is(err, ErrConflict) {
				logger.Warn("room code collision, retrying")
				continue
			}
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			writeJSON(w, http.StatusCreated, CreateRoomResponse{Code: game.Code})
			return
		}
		writeError(w, http.StatusServiceUnavailable, "could not allocate a room code")
	}
}

type RoomPlayer struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	IsHost      bool   `json:"isHost"`
}

type RoomResponse struct {
	Code            string       `json:"code"`
	Phase           string       `json:"phase"`
	CurrentRound    int          `json:"currentRound"`
	SubmissionCount int          `json:"submissionCount"`
	Players         []RoomPlayer `json:"players"`
}

func handleGetRoom(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		game, err := store.GameByCode(r.Context(), code)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		players, err := store.ListPlayers(r.Context(), game.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		count, err := store.CountSubmissions(r.Context(), game.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := RoomResponse{
			Code:            game.Code,
			Phase:           game.Phase.String(),
			CurrentRound:    game.CurrentRound,
			SubmissionCount: count,
			Players:         []RoomPlayer{},
		}
		for _, p := range players {
			resp.Players = append(resp.Players, RoomPlayer{
				ID:          p.ID,
				DisplayName: p.DisplayName,
				IsHost:      p.IsHost,
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
