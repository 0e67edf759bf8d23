package ui

import (
	"fmt"
	"strings"

	"railchat/internal/models"
	"railchat/internal/styles"

	"github.com/charmbracelet/lipgloss"
)

func GetWelcomeScreen(width, height int) string {
	art := `
 ╭──────────────────────────────────────────────╮
 │                                              │
 │   ┏━┓┏━┓╻╻     ┏━╸╻ ╻┏━┓╺┳╸                  │
 │   ┣┳┛┣━┫┃┃     ┃  ┣━┫┣━┫ ┃                   │
 │   ╹┗╸╹ ╹╹┗━╸   ┗━╸╹ ╹╹ ╹ ╹                   │
 │                                              │
 ╰──────────────────────────────────────────────╯
`
	subtitle := "Send a message to start chatting with your local model."

	styledArt := styles.WelcomeArtStyle.Render(art)
	styledSubtitle := styles.WelcomeSubtitleStyle.Render(subtitle)

	content := lipgloss.JoinVertical(lipgloss.Center, styledArt, "", styledSubtitle)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) UpdateViewport() {
	if len(m.Entries) == 0 {
		m.Viewport.SetContent(GetWelcomeScreen(m.Viewport.Width, m.Viewport.Height))
		return
	}

	parts := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		switch {
		case e.Typing:
			parts = append(parts, fmt.Sprintf("%s\n%s Generating...",
				styles.AiLabelStyle.Render("ASSISTANT"), m.Spinner.View()))
		case e.Message.Role == models.RoleUser:
			parts = append(parts, FormatUserMessage(e.Message.Content, m.Viewport.Width))
		case e.Failed:
			parts = append(parts, FormatAIMessage(styles.ErrorStyle.Render(e.Message.Content)))
		default:
			parts = append(parts, FormatAIMessage(m.renderMarkdown(e.Message.Content)))
		}
	}

	m.Viewport.SetContent(strings.Join(parts, "\n\n"))
	m.Viewport.GotoBottom()
}

// UpdateDocs rebuilds the docs tab: the reference text followed by the
// outcome of the last test request.
func (m *Model) UpdateDocs() {
	docs := m.renderMarkdown(DocsMarkdown(m.BaseURL, m.ModelName))

	var section []string
	section = append(section, styles.TitleStyle.Render("Test API"))
	switch {
	case m.TestRunning:
		section = append(section, m.Spinner.View()+" Testing...")
	case m.TestResult != "":
		result := m.TestResult
		if m.TestFailed {
			result = styles.ErrorStyle.Render(result)
		}
		section = append(section, styles.ResultStyle.Render(result))
	default:
		section = append(section, styles.HintStyle.Render("Type a message below and press Enter to send a raw request."))
	}

	m.DocsViewport.SetContent(docs + "\n\n" + strings.Join(section, "\n"))
}

// RenderTabBar draws the tab strip. Exactly one tab is highlighted.
func (m *Model) RenderTabBar() string {
	tabs := make([]string, 0, len(models.Tabs))
	for i, t := range models.Tabs {
		label := fmt.Sprintf("F%d %s", i+1, t.Title())
		if t == m.ActiveTab {
			tabs = append(tabs, styles.TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, styles.TabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) RenderStatus() string {
	health := fmt.Sprintf("%s %s", styles.HealthDot(m.Health.State), m.Health.Summary())
	lines := []string{styles.PanelTitleStyle.Render("Server Health"), health}
	if m.Health.Detail != "" {
		lines = append(lines, styles.HintStyle.Render("  "+m.Health.Detail))
	}
	if !m.Health.CheckedAt.IsZero() {
		lines = append(lines, styles.HintStyle.Render("  Checked at "+m.Health.CheckedAt.Format("15:04:05")))
	}

	lines = append(lines, "", styles.PanelTitleStyle.Render("Available Models"))
	lines = append(lines, ListingLines(m.Listing)...)

	return styles.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) RenderBottomBar() string {
	badge := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(styles.HealthColor(m.Health.State)).
		Padding(0, 1).
		Render(strings.ToUpper(m.ActiveTab.String()))

	server := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Render(TruncateRunes(m.BaseURL, 30))

	model := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#B39DDB")).
		Render(TruncateRunes(m.ModelName, 25))

	hints := "F1-F3: tabs • ^R: refresh • Esc: quit"
	if !m.SendEnabled && m.ActiveTab == models.TabChat {
		hints = "waiting for reply • " + hints
	}
	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#555555")).
		Render(hints)

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, badge, "  ", server, "  ", model)

	availableWidth := m.WindowWidth - lipgloss.Width(leftSide) - lipgloss.Width(help) - 2
	if availableWidth < 0 {
		availableWidth = 0
	}
	spacer := strings.Repeat(" ", availableWidth)

	bar := lipgloss.JoinHorizontal(lipgloss.Center, leftSide, spacer, help)

	return lipgloss.NewStyle().
		Width(m.WindowWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#333333")).
		Padding(0, 1).
		Render(bar)
}

func (m *Model) View() string {
	inputWidth := max(m.WindowWidth-4, 10)

	var body string
	switch m.ActiveTab {
	case models.TabChat:
		inputBox := styles.InputBoxStyle.Width(inputWidth).Render(m.TextInput.View())
		body = lipgloss.JoinVertical(lipgloss.Center, m.Viewport.View(), "", inputBox)
	case models.TabDocs:
		inputBox := styles.InputBoxStyle.Width(inputWidth).Render(m.TestInput.View())
		body = lipgloss.JoinVertical(lipgloss.Center, m.DocsViewport.View(), "", inputBox)
	case models.TabStatus:
		body = m.RenderStatus()
	}

	var errLine string
	if m.Err != nil {
		errLine = styles.ErrorStyle.Render("Error: " + m.Err.Error())
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		styles.TitleStyle.Render("RAILCHAT"),
		m.RenderTabBar(),
		errLine,
		body,
	)
	mainArea := lipgloss.PlaceHorizontal(m.WindowWidth, lipgloss.Center, content)

	return lipgloss.JoinVertical(lipgloss.Left, mainArea, m.RenderBottomBar())
}
