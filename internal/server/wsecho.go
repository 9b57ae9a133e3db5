package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"
)

const wsEchoMaxAge = 5 * time.Minute

// handleWSEcho is a connectivity probe. Clients open it once to check
// that long-lived connections survive the network path before falling
// back from SSE to polling.
func handleWSEcho(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()
		conn.SetReadLimit(maxBodyBytes)

		ctx, cancel := context.WithTimeout(r.Context(), wsEchoMaxAge)
		defer cancel()

		for {
			typ, msg, err := conn.Read(ctx)
			if err != nil {
				// Normal close lands here too; not worth more than debug.
				logger.Debug("websocket read ended", "error", err)
				return
			}
			if err := conn.Write(ctx, typ, msg); err != nil {
				logger.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}
