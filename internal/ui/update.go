package ui

import (
	"strings"

	"railchat/internal/models"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case spinner.TickMsg:
		m.Spinner, spCmd = m.Spinner.Update(msg)
		if m.hasTyping() {
			m.UpdateViewport()
		}
		if m.TestRunning {
			m.UpdateDocs()
		}
		return m, spCmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "f1":
			return m, m.selectTabCmd(models.TabChat)
		case "f2":
			return m, m.selectTabCmd(models.TabDocs)
		case "f3":
			return m, m.selectTabCmd(models.TabStatus)
		case "tab":
			return m, m.selectTabCmd(nextTab(m.ActiveTab, 1))
		case "shift+tab":
			return m, m.selectTabCmd(nextTab(m.ActiveTab, -1))
		case "ctrl+r":
			return m, m.refreshCmd()
		}

		switch m.ActiveTab {
		case models.TabChat:
			if isNewlineShortcut(msg) {
				m.TextInput.InsertString("\n")
				m.updateLayout()
				return m, nil
			}
			if msg.Type == tea.KeyEnter {
				if !m.SendEnabled {
					return m, nil
				}
				input := m.TextInput.Value()
				if strings.TrimSpace(input) == "" {
					return m, nil
				}
				return m, m.sendCmd(input)
			}
		case models.TabDocs:
			switch msg.Type {
			case tea.KeyEnter:
				if m.TestRunning {
					return m, nil
				}
				input := m.TestInput.Value()
				if strings.TrimSpace(input) == "" {
					return m, nil
				}
				return m, m.testCmd(input)
			case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
				m.DocsViewport, vpCmd = m.DocsViewport.Update(msg)
				return m, vpCmd
			}
		case models.TabStatus:
			return m, nil
		}

	case tabShownMsg:
		m.ActiveTab = msg.Tab
		m.syncFocus()
		m.updateLayout()
		return m, nil

	case inputClearedMsg:
		m.TextInput.Reset()
		m.updateLayout()
		return m, nil

	case sendEnabledMsg:
		m.SendEnabled = msg.Enabled
		return m, nil

	case messageAppendedMsg:
		m.Entries = append(m.Entries, Entry{ID: msg.Message.ID, Message: msg.Message, Failed: msg.Message.Failed})
		m.UpdateViewport()
		return m, nil

	case typingShownMsg:
		m.Entries = append(m.Entries, Entry{ID: msg.ID, Typing: true})
		m.UpdateViewport()
		return m, nil

	case typingRemovedMsg:
		m.removeEntry(msg.ID)
		m.UpdateViewport()
		return m, nil

	case healthMsg:
		m.Health = msg.Report
		return m, nil

	case modelsMsg:
		m.Listing = msg.Listing
		return m, nil

	case baseURLMsg:
		m.BaseURL = msg.URL
		m.UpdateDocs()
		return m, nil

	case testRunningMsg:
		m.TestRunning = msg.Running
		m.UpdateDocs()
		if msg.Running {
			m.DocsViewport.GotoBottom()
		}
		return m, nil

	case testResultMsg:
		m.TestResult = msg.Result
		m.TestFailed = msg.Failed
		m.UpdateDocs()
		m.DocsViewport.GotoBottom()
		return m, nil

	case ErrMsg:
		m.Err = msg
		return m, nil

	case tea.WindowSizeMsg:
		m.WindowWidth = msg.Width
		m.WindowHeight = msg.Height

		m.Viewport.Width = msg.Width - 4
		m.DocsViewport.Width = msg.Width - 4
		m.updateLayout()

		glamourStyle := "dark"
		if !lipgloss.HasDarkBackground() {
			glamourStyle = "light"
		}
		m.Renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath(glamourStyle),
			glamour.WithWordWrap(msg.Width-8),
		)
		m.UpdateViewport()
		m.UpdateDocs()
		return m, nil
	}

	switch m.ActiveTab {
	case models.TabChat:
		m.TextInput, tiCmd = m.TextInput.Update(msg)
		m.updateLayout()

		// Terminal colour query replies sometimes leak into the input
		val := m.TextInput.Value()
		if strings.Contains(val, "]11;rgb:") || strings.Contains(val, "1;rgb:") || strings.Contains(val, "[1;1R") {
			m.TextInput.Reset()
		}
		m.Viewport, vpCmd = m.Viewport.Update(msg)
	case models.TabDocs:
		m.TestInput, tiCmd = m.TestInput.Update(msg)
	}

	return m, tea.Batch(tiCmd, vpCmd)
}

func isNewlineShortcut(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "shift+enter", "shift+return", "ctrl+j", "ctrl+enter", "alt+enter":
		return true
	default:
		return false
	}
}

func nextTab(cur models.Tab, step int) models.Tab {
	n := len(models.Tabs)
	return models.Tabs[((int(cur)+step)%n+n)%n]
}

func (m *Model) syncFocus() {
	switch m.ActiveTab {
	case models.TabChat:
		m.TestInput.Blur()
		m.TextInput.Focus()
	case models.TabDocs:
		m.TextInput.Blur()
		m.TestInput.Focus()
	default:
		m.TextInput.Blur()
		m.TestInput.Blur()
	}
}

func (m *Model) hasTyping() bool {
	for _, e := range m.Entries {
		if e.Typing {
			return true
		}
	}
	return false
}

func (m *Model) removeEntry(id string) {
	for i, e := range m.Entries {
		if e.ID == id {
			m.Entries = append(m.Entries[:i], m.Entries[i+1:]...)
			return
		}
	}
}

func (m *Model) updateLayout() {
	if m.WindowWidth == 0 || m.WindowHeight == 0 {
		return
	}

	inputWidth := max(m.WindowWidth-6, 20)
	contentWidth := max(inputWidth-2, 1)

	lineCount := WrappedLineCount(m.TextInput.Value(), contentWidth)
	lineCount = min(max(lineCount, 1), MaxInputHeight)

	m.TextInput.MaxHeight = MaxInputHeight
	m.TextInput.SetWidth(inputWidth)
	m.TextInput.SetHeight(lineCount)
	m.TestInput.Width = max(inputWidth-4, 10)

	// title, tab bar, spacer and the two-line bottom bar
	reserved := 5
	chatReserved := reserved + m.TextInput.Height() + 2 + 1
	m.Viewport.Height = max(m.WindowHeight-chatReserved, MinViewport)

	docsReserved := reserved + 3 + 1
	m.DocsViewport.Height = max(m.WindowHeight-docsReserved, MinViewport)
}

// The commands below run controller operations off the event loop. The
// controller reports back through programRenderer.

func (m *Model) startCmd() tea.Cmd {
	ctrl, ctx := m.Controller, m.Ctx
	if ctrl == nil {
		return nil
	}
	return func() tea.Msg {
		ctrl.Start(ctx)
		return nil
	}
}

func (m *Model) selectTabCmd(tab models.Tab) tea.Cmd {
	ctrl, ctx := m.Controller, m.Ctx
	if ctrl == nil {
		return nil
	}
	return func() tea.Msg {
		if err := ctrl.SelectTab(ctx, tab.String()); err != nil {
			return ErrMsg(err)
		}
		return nil
	}
}

func (m *Model) refreshCmd() tea.Cmd {
	ctrl, ctx := m.Controller, m.Ctx
	if ctrl == nil {
		return nil
	}
	return func() tea.Msg {
		ctrl.Refresh(ctx)
		return nil
	}
}

func (m *Model) sendCmd(input string) tea.Cmd {
	ctrl, ctx := m.Controller, m.Ctx
	if ctrl == nil {
		return nil
	}
	return func() tea.Msg {
		// Rejections are silent; failures already landed in the transcript
		_ = ctrl.SendChat(ctx, input)
		return nil
	}
}

func (m *Model) testCmd(input string) tea.Cmd {
	ctrl, ctx := m.Controller, m.Ctx
	if ctrl == nil {
		return nil
	}
	return func() tea.Msg {
		_ = ctrl.TestAPI(ctx, input)
		return nil
	}
}
