package http

import (
	"github.com/esp32-copilot/go-copilot-backend/internal/projects/service"
	"github.com/esp32-copilot/go-copilot-backend/internal/settings"
)

// Handler bundles the dependencies for projects HTTP endpoints. The settings
// repo is optional; without it generation falls back to the built-in
// provider defaults.
type Handler struct {
	svc      *service.ProjectService
	pipeline *service.StagePipeline
	settings *settings.Repo
}

func New(svc *service.ProjectService, pipeline *service.StagePipeline, settingsRepo *settings.Repo) *Handler {
	return &Handler{svc: svc, pipeline: pipeline, settings: settingsRepo}
}

type createReq struct {
	Name           string `json:"name"`
	Idea           string `json:"idea"`
	Description    string `json:"description,omitempty"`
	TargetHardware string `json:"target_hardware,omitempty"`
}

type updateReq struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	TargetHardware *string `json:"target_hardware"`
	Status         *string `json:"status"`
}

type componentsReq struct {
	ComponentIDs []string `json:"component_ids"`
}

type approveReq struct {
	Approved bool   `json:"approved"`
	Notes    string `json:"notes,omitempty"`
}

type generateReq struct {
	Stage       string `json:"stage"`
	UserMessage string `json:"user_message,omitempty"`
	Provider    string `json:"provider,omitempty"`
	Model       string `json:"model,omitempty"`
}
