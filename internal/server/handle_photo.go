package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/snapguess/snapguess/internal/snapguess"
)

type SubmitPhotoRequest struct {
	ImageURL     string  `json:"imageUrl"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Caption      string  `json:"caption,omitempty"`
	LocationText string  `json:"locationText,omitempty"`
}

type SubmitPhotoResponse struct {
	SubmissionID string `json:"submissionId"`
}

func handleSubmitPhoto(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := playerFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req SubmitPhotoRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.ImageURL = strings.TrimSpace(req.ImageURL)
		if req.ImageURL == "" {
			writeError(w, http.StatusBadRequest, "imageUrl is required")
			return
		}

		game, err := store.GameByID(r.Context(), sess.GameID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if game.Phase != snapguess.PhaseSubmission {
			writeError(w, http.StatusConflict, "photos can only be submitted during the submission phase")
			return
		}

		sub, err := store.InsertSubmission(r.Context(), snapguess.PhotoSubmission{
			GameID:       game.ID,
			PlayerID:     sess.PlayerID,
			ImageURL:     req.ImageURL,
			Caption:      req.Caption,
			TrueLocation: snapguess.Location{Lat: req.Lat, Lng: req.Lng},
			LocationText: req.LocationText,
		})
		if errors.Is(err, snapguess.ErrDuplicatePhoto) {
			writeError(w, http.StatusConflict, snapguess.ErrDuplicatePhoto.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(game.ID, SSEEvent{Type: "photo_submitted"})
		writeJSON(w, http.StatusCreated, SubmitPhotoResponse{SubmissionID: sub.ID})
	}
}
