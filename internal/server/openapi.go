package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// roomCodeParams declares the {code} path parameter for room-scoped
// operations so the reflector accepts their paths.
type roomCodeParams struct {
	Code string `path:"code"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "SnapGuess API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the SnapGuess photo-guessing party game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /ws/echo
	getWSEcho, _ := r.NewOperationContext(http.MethodGet, "/ws/echo")
	getWSEcho.SetSummary("WebSocket echo")
	getWSEcho.SetDescription("Upgrades to a WebSocket connection that echoes messages back.")
	getWSEcho.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWSEcho)

	// POST /api/rooms
	postRooms, _ := r.NewOperationContext(http.MethodPost, "/api/rooms")
	postRooms.SetSummary("Create room")
	postRooms.SetDescription("Creates a new room in the lobby phase and returns its share code.")
	postRooms.AddRespStructure(CreateRoomResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRooms.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(postRooms)

	// GET /api/rooms/{code}
	getRoom, _ := r.NewOperationContext(http.MethodGet, "/api/rooms/{code}")
	getRoom.SetSummary("Look up room")
	getRoom.SetDescription("Returns the room's phase and player list. Used by the lobby screen before joining.")
	getRoom.AddReqStructure(roomCodeParams{})
	getRoom.AddRespStructure(RoomResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getRoom)

	// POST /api/rooms/{code}/join
	postJoin, _ := r.NewOperationContext(http.MethodPost, "/api/rooms/{code}/join")
	postJoin.SetSummary("Join room")
	postJoin.SetDescription("Creates a player in the room. The first joiner becomes host. Returns a session token.")
	postJoin.AddReqStructure(roomCodeParams{})
	postJoin.AddReqStructure(JoinRequest{})
	postJoin.AddRespStructure(JoinResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postJoin)

	// GET /api/game/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/game/state")
	getState.SetSummary("Get game state")
	getState.SetDescription("Returns the caller's full view of the room. Requires Bearer token.")
	getState.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getState)

	// POST /api/game/start-submission
	postStartSubmission, _ := r.NewOperationContext(http.MethodPost, "/api/game/start-submission")
	postStartSubmission.SetSummary("Start submission phase")
	postStartSubmission.SetDescription("Moves the room from lobby to submission. Requires Bearer token.")
	postStartSubmission.AddRespStructure(PhaseResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStartSubmission.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postStartSubmission)

	// POST /api/game/photo
	postPhoto, _ := r.NewOperationContext(http.MethodPost, "/api/game/photo")
	postPhoto.SetSummary("Submit photo")
	postPhoto.SetDescription("Submits a geotagged photo during the submission phase. One per player per game. Requires Bearer token.")
	postPhoto.AddReqStructure(SubmitPhotoRequest{})
	postPhoto.AddRespStructure(SubmitPhotoResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postPhoto.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postPhoto)

	// POST /api/game/start-playing
	postStartPlaying, _ := r.NewOperationContext(http.MethodPost, "/api/game/start-playing")
	postStartPlaying.SetSummary("Start playing")
	postStartPlaying.SetDescription("Moves the room from submission to playing. Needs at least 2 photos. Requires Bearer token.")
	postStartPlaying.AddRespStructure(PhaseResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStartPlaying.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postStartPlaying)

	// POST /api/game/guess
	postGuess, _ := r.NewOperationContext(http.MethodPost, "/api/game/guess")
	postGuess.SetSummary("Submit guess")
	postGuess.SetDescription("Locks in a location guess for the current round's photo. Requires Bearer token.")
	postGuess.AddReqStructure(SubmitGuessRequest{})
	postGuess.AddRespStructure(SubmitGuessResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postGuess)

	// GET /api/game/guesses
	getGuesses, _ := r.NewOperationContext(http.MethodGet, "/api/game/guesses")
	getGuesses.SetSummary("List guesses")
	getGuesses.SetDescription("Returns the guesses for a photo submission. Requires Bearer token.")
	getGuesses.AddRespStructure([]GuessInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	getGuesses.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGuesses)

	// POST /api/game/reveal
	postReveal, _ := r.NewOperationContext(http.MethodPost, "/api/game/reveal")
	postReveal.SetSummary("Reveal results")
	postReveal.SetDescription("Applies all pending guesses for a photo so they count toward scores. Idempotent. Requires Bearer token.")
	postReveal.AddReqStructure(RevealRequest{})
	postReveal.AddRespStructure(RevealResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postReveal.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postReveal)

	// POST /api/game/advance
	postAdvance, _ := r.NewOperationContext(http.MethodPost, "/api/game/advance")
	postAdvance.SetSummary("Advance round")
	postAdvance.SetDescription("Moves to the next photo, or finishes the game after the last round. Requires Bearer token.")
	postAdvance.AddRespStructure(AdvanceResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postAdvance.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postAdvance)

	// POST /api/game/restart
	postRestart, _ := r.NewOperationContext(http.MethodPost, "/api/game/restart")
	postRestart.SetSummary("Restart game")
	postRestart.SetDescription("Clears photos, guesses, and scores and returns the room to the submission phase. Requires Bearer token.")
	postRestart.AddRespStructure(PhaseResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postRestart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postRestart)

	// GET /api/game/scores
	getScores, _ := r.NewOperationContext(http.MethodGet, "/api/game/scores")
	getScores.SetSummary("Leaderboard")
	getScores.SetDescription("Returns per-player totals derived from applied guesses. Requires Bearer token.")
	getScores.AddRespStructure([]ScoreEntry{}, openapi.WithHTTPStatus(http.StatusOK))
	getScores.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getScores)

	// GET /api/game/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/game/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream for real-time room updates. Pass token as query parameter.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		json.NewEncoder(w).Encode(spec)
	}
}
