package handler

import (
	"codesync/internal/app/session"
	"codesync/internal/configs"
)

type AppDeps struct {
	Hub      *session.Hub
	Registry *Registry
	Config   *configs.AppConfig
}
