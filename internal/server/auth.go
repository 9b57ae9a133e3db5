package server

import (
	"errors"
	"net/http"
	"strings"
)

var errNoSession = errors.New("no valid session")

// playerFromRequest resolves the Bearer token issued at join time to the
// player's session. Every game mutation re-reads authoritative state;
// the token proves identity only.
func playerFromRequest(r *http.Request, store Store) (sessionInfo, error) {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || token == "" {
		return sessionInfo{}, errNoSession
	}
	return store.PlayerFromToken(r.Context(), token)
}
