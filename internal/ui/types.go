package ui

import (
	"context"

	"railchat/internal/models"
	"railchat/internal/session"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
)

const (
	MaxInputHeight = 6
	MinViewport    = 5
)

// Messages produced by programRenderer. Each one mirrors a Renderer call.
type (
	tabShownMsg        struct{ Tab models.Tab }
	inputClearedMsg    struct{}
	sendEnabledMsg     struct{ Enabled bool }
	messageAppendedMsg struct{ Message models.Message }
	typingShownMsg     struct{ ID string }
	typingRemovedMsg   struct{ ID string }
	healthMsg          struct{ Report models.HealthReport }
	modelsMsg          struct{ Listing models.ModelListing }
	baseURLMsg         struct{ URL string }
	testRunningMsg     struct{ Running bool }
	testResultMsg      struct {
		Result string
		Failed bool
	}
)

type ErrMsg error

// Entry is one row of the chat transcript: a message or a typing placeholder
type Entry struct {
	ID      string
	Message models.Message
	Typing  bool
	Failed  bool // Error notice from a failed send
}

type Model struct {
	Viewport     viewport.Model
	DocsViewport viewport.Model
	TextInput    textarea.Model
	TestInput    textinput.Model
	Spinner      spinner.Model
	Renderer     *glamour.TermRenderer
	Controller   *session.Controller
	Ctx          context.Context

	ActiveTab   models.Tab
	Entries     []Entry
	SendEnabled bool
	BaseURL     string
	ModelName   string
	Health      models.HealthReport
	Listing     models.ModelListing
	TestRunning bool
	TestResult  string
	TestFailed  bool
	Err         error

	WindowWidth  int
	WindowHeight int
}
