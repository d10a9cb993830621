package handler

import (
	"chatavatars/internal/app/avatar"
	"chatavatars/internal/app/overlay"
	"chatavatars/internal/configs"
)

// AppDeps holds everything the HTTP handlers need.
type AppDeps struct {
	Scheduler *avatar.Scheduler
	Hub       *overlay.Hub
	Config    *configs.AppConfig
}
