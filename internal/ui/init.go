package ui

import (
	"context"

	"railchat/internal/api"
	"railchat/internal/config"
	"railchat/internal/logger"
	"railchat/internal/models"
	"railchat/internal/session"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func InitialModel(ctx context.Context, ctrl *session.Controller, modelName string) Model {
	ti := textarea.New()
	ti.Placeholder = "Type your message..."
	ti.Prompt = "❯ "
	ti.ShowLineNumbers = false
	ti.CharLimit = 0
	ti.MaxHeight = MaxInputHeight
	ti.SetHeight(1)
	ti.SetWidth(80)
	ti.FocusedStyle.Prompt = lipgloss.NewStyle().Foreground(lipgloss.Color("#90CAF9")).Bold(true)
	ti.BlurredStyle.Prompt = lipgloss.NewStyle().Foreground(lipgloss.Color("#90CAF9")).Bold(true)
	ti.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(lipgloss.Color("#545454"))
	ti.BlurredStyle.Placeholder = lipgloss.NewStyle().Foreground(lipgloss.Color("#545454"))
	ti.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ti.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ti.Focus()

	tin := textinput.New()
	tin.Placeholder = "Enter a test message..."
	tin.Prompt = "› "
	tin.CharLimit = 0
	tin.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#90CAF9"))

	return Model{
		TextInput:    ti,
		TestInput:    tin,
		Viewport:     viewport.New(60, 15),
		DocsViewport: viewport.New(60, 15),
		Spinner:      sp,
		Controller:   ctrl,
		Ctx:          ctx,
		ActiveTab:    models.TabChat,
		SendEnabled:  true,
		ModelName:    modelName,
		Listing:      models.ModelListing{State: models.ListingLoading},
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.TextInput.Cursor.BlinkCmd(),
		m.Spinner.Tick,
		m.startCmd(),
	)
}

// NewProgram wires the API client, the session controller and the view
func NewProgram(ctx context.Context, cfg *config.Config) *tea.Program {
	client := api.NewClient(api.Config{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.Timeout.Duration,
		Logger:  logger.WithComponent("api"),
	})

	view := &programRenderer{}
	ctrl := session.NewController(client, view, session.Options{
		Model:         cfg.Model,
		MaxTokens:     cfg.MaxTokens,
		TestMaxTokens: cfg.TestMaxTokens,
		Temperature:   cfg.Temperature,
		Logger:        logger.WithComponent("session"),
	})

	m := InitialModel(ctx, ctrl, cfg.Model)
	p := tea.NewProgram(&m, tea.WithAltScreen(), tea.WithContext(ctx))
	view.attach(p.Send)
	return p
}
