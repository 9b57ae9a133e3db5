package server

import (
	"net/http"
	"sort"
)

type ScoreEntry struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
}

// handleScores returns the leaderboard. Totals are always recomputed
// from the applied-guess ledger, never read from a cached column.
func handleScores(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := playerFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		players, err := store.ListPlayers(r.Context(), sess.GameID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		scores, err := store.Scores(r.Context(), sess.GameID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := []ScoreEntry{}
		for _, p := range players {
			resp = append(resp, ScoreEntry{
				PlayerID:    p.ID,
				DisplayName: p.DisplayName,
				Score:       scores[p.ID],
			})
		}
		// Highest first; stable for equal scores (join order).
		sort.SliceStable(resp, func(i, j int) bool {
			return resp[i].Score > resp[j].Score
		})

		writeJSON(w, http.StatusOK, resp)
	}
}
