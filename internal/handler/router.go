/*
Package handler provides the HTTP handlers and routing setup for the chat avatar service.

This file defines the main Router, applying middleware like logging, CORS, operator authentication,
and IP-based rate limiting before delegating requests to the control API, the overlay WebSocket,
and the health and metrics endpoints.
*/
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"chatavatars/internal/pkg/auth/jwt"
	"chatavatars/internal/pkg/limiter"
	"chatavatars/internal/pkg/logx"
	"chatavatars/internal/pkg/resp"
)

const (
	ControlRate  = 10
	ControlBurst = 30
	OverlayRate  = 0.2
	OverlayBurst = 5
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// The rate limiters sweep their idle buckets until ctx is done.
func Router(ctx context.Context, deps *AppDeps) http.Handler {
	controlLimiter := limiter.NewIPRateLimiter(rate.Limit(ControlRate), ControlBurst)
	overlayLimiter := limiter.NewIPRateLimiter(rate.Limit(OverlayRate), OverlayBurst)
	go controlLimiter.Run(ctx)
	go overlayLimiter.Run(ctx)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		Error:           overlayUpgradeError,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.IsDevelopment() {
				return true
			}

			origin := r.Header.Get("Origin")
			// OBS browser sources load local files and send no Origin.
			if origin == "" {
				return true
			}
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("Overlay connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]any{
			"status":   "ok",
			"service":  "Chat Avatars",
			"channel":  deps.Config.TwitchChannel,
			"overlays": deps.Hub.ClientCount(),
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Use(controlLimiter.Middleware)
		api.Use(jwt.RequireOperator(deps.Config.JWTSecret, deps.Config.TwitchChannel))
		api.Use(operatorAudit)

		api.Route("/avatars", func(avatars chi.Router) {
			avatars.Get("/", HandleSnapshot(deps))
			avatars.Post("/direction", HandleSetAllDirections(deps))
			avatars.Post("/state", HandleSetAllStates(deps))

			avatars.Route("/{username}", func(user chi.Router) {
				user.Post("/direction", HandleSetUserDirection(deps))
				user.Post("/state", HandleSetUserState(deps))
				user.Post("/walk", HandleStartUserWalking(deps))
				user.Post("/stop", HandleStopUserWalking(deps))
				user.Post("/auto", HandleStartAutoBehavior(deps))
				user.Delete("/auto", HandleStopAutoBehavior(deps))
			})
		})

		api.Post("/auto", HandleStartAllAuto(deps))
		api.Delete("/auto", HandleStopAllAuto(deps))
		api.Post("/messages", HandleInjectMessage(deps))
	})

	r.Get("/ws/overlay", HandleOverlayWebSocket(wsUpgrader, overlayLimiter, deps))

	return r
}

// operatorAudit logs every control call together with the operator that made it.
func operatorAudit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logx.Info("Control operation",
			"operator", operatorOf(r),
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r)
	})
}

// operatorOf names the operator of r: the token subject, or "anonymous" when auth is disabled.
func operatorOf(r *http.Request) string {
	if payload := jwt.GetPayloadFromContext(r); payload != nil && payload.Subject != "" {
		return payload.Subject
	}
	return "anonymous"
}
