/*
Package main is the entry point for the chat avatar service.

It is responsible for loading configuration, initializing logging and metrics, wiring the overlay
hub, the presence registry, the animation scheduler and the Twitch chat feed, setting up the HTTP
server, and gracefully handling operating system interrupt signals (SIGINT, SIGTERM).
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"chatavatars/internal/app/avatar"
	"chatavatars/internal/app/feed"
	"chatavatars/internal/app/overlay"
	"chatavatars/internal/app/presence"
	"chatavatars/internal/configs"
	"chatavatars/internal/handler"
	"chatavatars/internal/pkg/clockx"
	"chatavatars/internal/pkg/logx"
	"chatavatars/internal/pkg/randx"
	"chatavatars/internal/telemetry"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(logx.Options{Development: cfg.IsDevelopment(), Debug: cfg.Debug})
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("channel", cfg.TwitchChannel).
		Bool("anonymous_chat", cfg.Anonymous()).
		Bool("auto_start", cfg.AutoStart).
		Bool("control_auth", cfg.JWTSecret != "").
		Msg("Configuration loaded successfully")

	telemetry.Init()

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Overlay hub renders the avatars the scheduler drives.
	hub := overlay.NewHub(randx.New())
	go hub.Run()

	registry := presence.NewRegistry(hub)
	scheduler := avatar.NewScheduler(registry, clockx.Real(), randx.New())

	chatFeed := feed.New(feed.Options{
		Channel:     cfg.TwitchChannel,
		BotUsername: cfg.TwitchBotUsername,
		OAuthToken:  cfg.TwitchOAuthToken,
	}, scheduler)

	if cfg.AutoStart {
		autoStart(scheduler, chatFeed.Owner(), cfg.AutoStartDirection)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		chatFeed.Run(ctx)
	}()

	// Setup HTTP server and routes
	router := handler.Router(ctx, &handler.AppDeps{
		Scheduler: scheduler,
		Hub:       hub,
		Config:    cfg,
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info("Chat avatar server starting", "addr", "http://localhost"+serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Server forced to shutdown")
	}

	scheduler.StopAllAuto()
	hub.Stop()

	feedStopped := make(chan struct{})
	go func() {
		wg.Wait()
		close(feedStopped)
	}()
	select {
	case <-feedStopped:
	case <-shutdownCtx.Done():
		logx.Warn("Chat feed did not stop before the shutdown deadline")
	}

	logx.Info("Server gracefully stopped.")
}

// autoStart gives the channel owner an avatar facing direction and lets it wander.
func autoStart(scheduler *avatar.Scheduler, owner string, direction presence.Direction) {
	scheduler.OnMessage(owner)
	scheduler.SetDirection(owner, direction)
	scheduler.StartAuto(owner, avatar.DefaultAutoOptions())

	logx.Info("Auto-start avatar created",
		"username", owner,
		"direction", string(direction))
}
