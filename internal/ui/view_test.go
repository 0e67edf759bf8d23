package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"railchat/internal/api"
	"railchat/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrappedLineCount(t *testing.T) {
	tests := []struct {
		name  string
		value string
		width int
		want  int
	}{
		{"empty", "", 10, 1},
		{"fits", "hello", 10, 1},
		{"exact width", "0123456789", 10, 1},
		{"wraps", "01234567890", 10, 2},
		{"newlines", "a\nb\n", 10, 3},
		{"wide runes", "你好你好你好", 4, 3},
		{"zero width", "anything", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WrappedLineCount(tt.value, tt.width))
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", TruncateRunes("short", 10))
	assert.Equal(t, "abcd…", TruncateRunes("abcdefgh", 5))
	assert.Equal(t, "", TruncateRunes("abc", 0))
}

func TestDocsMarkdown_UsesBaseURL(t *testing.T) {
	docs := DocsMarkdown("http://gpu-box:9000", "phi-3-mini-128k")
	assert.Contains(t, docs, `base_url="http://gpu-box:9000/v1"`)
	assert.Contains(t, docs, "curl http://gpu-box:9000/v1/chat/completions")
	assert.Contains(t, docs, `model="phi-3-mini-128k"`)
	assert.Contains(t, docs, "`/health`")

	assert.Contains(t, DocsMarkdown("", "m"), "http://localhost:8000")
}

func TestListingLines(t *testing.T) {
	tests := []struct {
		name    string
		listing models.ModelListing
		want    string
		notWant string
	}{
		{
			name:    "loading",
			listing: models.ModelListing{State: models.ListingLoading},
			want:    "Loading models...",
		},
		{
			name:    "empty is not a failure",
			listing: models.ModelListing{State: models.ListingEmpty},
			want:    "No models available",
			notWant: "Failed",
		},
		{
			name: "transport failure",
			listing: models.ModelListing{
				State: models.ListingFailed,
				Err:   &api.Error{Kind: api.KindTransport, Err: errors.New("refused")},
			},
			want: "Error loading models",
		},
		{
			name: "status failure",
			listing: models.ModelListing{
				State: models.ListingFailed,
				Err:   &api.Error{Kind: api.KindHTTPStatus, Status: 401},
			},
			want: "Failed to load models",
		},
		{
			name: "loaded",
			listing: models.ModelListing{
				State:  models.ListingLoaded,
				Models: []models.ModelInfo{{ID: "phi-3-mini-128k", Object: "model"}},
			},
			want: "Object: model",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.Join(ListingLines(tt.listing), "\n")
			assert.Contains(t, text, tt.want)
			if tt.notWant != "" {
				assert.NotContains(t, text, tt.notWant)
			}
		})
	}
}

func TestRenderStatus(t *testing.T) {
	m := newTestModel()
	m.ActiveTab = models.TabStatus
	m.Health = models.HealthReport{
		State:     models.HealthHealthy,
		Detail:    "healthy, via models",
		CheckedAt: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
	}
	m.Listing = models.ModelListing{State: models.ListingEmpty}

	view := m.View()
	assert.Contains(t, view, "Server is healthy")
	assert.Contains(t, view, "healthy, via models")
	assert.Contains(t, view, "Checked at 15:04:05")
	assert.Contains(t, view, "No models available")
}

func TestRenderTabBar_ListsEveryTab(t *testing.T) {
	m := newTestModel()
	bar := m.RenderTabBar()
	for _, tab := range models.Tabs {
		assert.Equal(t, 1, strings.Count(bar, tab.Title()), tab.Title())
	}
	assert.Contains(t, bar, "F1 Chat")
	assert.Contains(t, bar, "F3 Status")
}

func TestView_WelcomeWhenTranscriptEmpty(t *testing.T) {
	m := newTestModel()
	m.UpdateViewport()
	assert.Contains(t, m.View(), "Send a message to start chatting")
}

func TestView_ErrorReplyKeepsText(t *testing.T) {
	m := newTestModel()
	msg := "Error: HTTP error! status: 500. Please check if the server is running."
	feed(m, messageAppendedMsg{Message: models.Message{ID: "a1", Role: models.RoleAssistant, Content: msg, Failed: true}})
	require.Len(t, m.Entries, 1)
	assert.True(t, m.Entries[0].Failed)
	assert.Contains(t, m.Viewport.View(), "HTTP error! status: 500.")
}

func TestView_ReplyStartingWithErrorIsNotFailed(t *testing.T) {
	m := newTestModel()
	feed(m, messageAppendedMsg{Message: models.Message{ID: "a1", Role: models.RoleAssistant, Content: "Error: means something went wrong."}})
	require.Len(t, m.Entries, 1)
	assert.False(t, m.Entries[0].Failed)
}

func TestUpdate_TestResultCarriesFailure(t *testing.T) {
	m := newTestModel()
	feed(m, testResultMsg{Result: "Error: HTTP error! status: 401", Failed: true})
	assert.True(t, m.TestFailed)

	feed(m, testResultMsg{Result: `{"error": "Error: bad key"}`})
	assert.False(t, m.TestFailed)
}
