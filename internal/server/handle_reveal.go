package server

import (
	"errors"
	"net/http"

	"golang.org/x/sync/singleflight"
)

type RevealRequest struct {
	SubmissionID string `json:"submissionId"`
}

type RevealResponse struct {
	SubmissionID string `json:"submissionId"`
	Applied      int64  `json:"applied"`
}

// handleReveal finalizes a round: every not-yet-applied guess for the
// submission starts counting toward the leaderboard. Idempotent — a
// second call applies nothing and is still a 200.
func handleReveal(store Store, broker *Broker, reveals *singleflight.Group) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := playerFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req RevealRequest
		if err := readJSON(r, &req); err != nil || req.SubmissionID == "" {
			writeError(w, http.StatusBadRequest, "submissionId is required")
			return
		}

		photo, err := store.SubmissionByID(r.Context(), req.SubmissionID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "photo not found")
			return
		}
		if err != nil || photo.GameID != sess.GameID {
			writeError(w, http.StatusNotFound, "photo not found")
			return
		}

		ctx := r.Context()
		applied, err, _ := reveals.Do(photo.ID, func() (any, error) {
			return revealSubmission(ctx, store, broker, photo.GameID, photo.ID)
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, RevealResponse{
			SubmissionID: photo.ID,
			Applied:      applied.(int64),
		})
	}
}
