package session

import (
	"context"

	"railchat/internal/api"
	"railchat/internal/models"
)

// Renderer is everything the controller needs from the view. Implementations
// must tolerate calls from any goroutine.
type Renderer interface {
	// ShowTab makes tab the only visible panel and the only active control
	ShowTab(tab models.Tab)

	ClearInput()
	SetSendEnabled(enabled bool)
	AppendMessage(msg models.Message)
	ShowTyping(id string)
	RemoveTyping(id string)

	SetHealth(report models.HealthReport)
	SetModels(listing models.ModelListing)
	SetBaseURL(url string)

	SetTestRunning(running bool)
	// SetTestResult shows the test form outcome; failed marks an error notice
	SetTestResult(result string, failed bool)
}

// API is the completion server as seen by the controller
type API interface {
	BaseURL() string
	Complete(ctx context.Context, req api.CompletionRequest) (string, error)
	CompleteRaw(ctx context.Context, req api.CompletionRequest) (api.RawResult, error)
	Health(ctx context.Context) models.HealthReport
	ListModels(ctx context.Context) ([]models.ModelInfo, error)
}

var _ API = (*api.Client)(nil)
