/*
Package handler provides the HTTP handler function for the overlay WebSocket endpoint.

This file contains HandleOverlayWebSocket, which rate limits the connecting page, upgrades the
connection, and hands it to the overlay hub for the rest of its lifetime.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"chatavatars/internal/app/overlay"
	"chatavatars/internal/pkg/errs"
	"chatavatars/internal/pkg/limiter"
	"chatavatars/internal/pkg/logx"
	"chatavatars/internal/pkg/randx"
	"chatavatars/internal/pkg/resp"
)

// HandleOverlayWebSocket creates an HTTP HandlerFunc to process overlay connection requests.
func HandleOverlayWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("Overlay connection rejected: Rate limit exceeded.")
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// The upgrader has already written the HTTP error.
			logx.Debug("Failed to upgrade overlay connection to WebSocket", "error", err.Error())
			return
		}

		connID := randx.HandleID()
		logx.Debug("Overlay WebSocket connection established", "conn_id", connID)

		overlay.NewClient(deps.Hub, conn, connID).Serve()
	}
}

// overlayUpgradeError answers a failed WebSocket handshake. A rejected origin gets the standard
// error envelope; other handshake failures keep the plain status text.
func overlayUpgradeError(w http.ResponseWriter, r *http.Request, status int, reason error) {
	logx.Warn("Overlay handshake failed", "status", status, "reason", reason.Error())

	if status == http.StatusForbidden {
		resp.RespondError(w, r, errs.NewError(errs.ErrOriginNotAllowed))
		return
	}
	http.Error(w, http.StatusText(status), status)
}
