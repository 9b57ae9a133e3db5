package server

import (
	"net/http"

	"github.com/snapguess/snapguess/internal/snapguess"
)

type GameInfo struct {
	Code            string `json:"code"`
	Phase           string `json:"phase"`
	CurrentRound    int    `json:"currentRound"`
	SubmissionCount int    `json:"submissionCount"`
	HostPlayerID    string `json:"hostPlayerId,omitempty"`
}

type PlayerInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	IsHost      bool   `json:"isHost"`
	Score       int    `json:"score"`
}

type LocationInfo struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Text string  `json:"text,omitempty"`
}

type CurrentPhotoInfo struct {
	ID       string `json:"id"`
	ImageURL string `json:"imageUrl"`
	Caption  string `json:"caption,omitempty"`
	OwnerID  string `json:"ownerId"`
	// TrueLocation is withheld until the round is revealed.
	TrueLocation *LocationInfo `json:"trueLocation,omitempty"`
	GuessCount   int           `json:"guessCount"`
	Revealed     bool          `json:"revealed"`
	YouGuessed   bool          `json:"youGuessed"`
	YourPhoto    bool          `json:"yourPhoto"`
}

type GameStateResponse struct {
	Game         GameInfo          `json:"game"`
	Players      []PlayerInfo      `json:"players"`
	CurrentPhoto *CurrentPhotoInfo `json:"currentPhoto"`
	YouSubmitted bool              `json:"youSubmitted"`
}

// handleGameState returns the caller's full view of the room. Clients
// call this after every SSE event; the server never trusts what they
// cached before.
func handleGameState(store Store) http.HandlerFunc {
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

		players, err := store.ListPlayers(r.Context(), game.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		scores, err := store.Scores(r.Context(), game.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		subs, err := store.ListSubmissions(r.Context(), game.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := GameStateResponse{
			Game: GameInfo{
				Code:            game.Code,
				Phase:           game.Phase.String(),
				CurrentRound:    game.CurrentRound,
				SubmissionCount: len(subs),
				HostPlayerID:    game.HostPlayerID,
			},
			Players: []PlayerInfo{},
		}
		for _, p := range players {
			resp.Players = append(resp.Players, PlayerInfo{
				ID:          p.ID,
				DisplayName: p.DisplayName,
				IsHost:      p.IsHost,
				Score:       scores[p.ID],
			})
		}
		for _, sub := range subs {
			if sub.PlayerID == sess.PlayerID {
				resp.YouSubmitted = true
			}
		}

		if game.Phase == snapguess.PhasePlaying && game.CurrentRound < len(subs) {
			photo := subs[game.CurrentRound]
			guesses, err := store.ListGuesses(r.Context(), photo.ID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}

			info := &CurrentPhotoInfo{
				ID:         photo.ID,
				ImageURL:   photo.ImageURL,
				Caption:    photo.Caption,
				OwnerID:    photo.PlayerID,
				GuessCount: len(guesses),
				YourPhoto:  photo.PlayerID == sess.PlayerID,
			}
			revealed := len(guesses) > 0
			for _, g := range guesses {
				if g.PlayerID == sess.PlayerID {
					info.YouGuessed = true
				}
				if !g.Applied {
					revealed = false
				}
			}
			info.Revealed = revealed
			if revealed {
				info.TrueLocation = &LocationInfo{
					Lat:  photo.TrueLocation.Lat,
					Lng:  photo.TrueLocation.Lng,
					Text: photo.LocationText,
				}
			}
			resp.CurrentPhoto = info
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
