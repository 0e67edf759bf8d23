// Package session holds the chat session controller: the active tab, the
// single-flight chat send and the status refreshes.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"railchat/internal/api"
	"railchat/internal/models"

	"github.com/google/uuid"
	"github.com/tidwall/pretty"
)

const FallbackReply = "Sorry, I encountered an error processing your request."

// ErrGuardRejected is returned when a send or test is ignored because the
// input is blank or the previous one has not settled yet. It is never shown
// to the user.
var ErrGuardRejected = errors.New("request rejected: empty input or already in flight")

type Options struct {
	Model         string
	MaxTokens     int
	TestMaxTokens int
	Temperature   float64
	Logger        *slog.Logger
}

type Controller struct {
	api  API
	view Renderer
	opts Options
	log  *slog.Logger

	mu         sync.Mutex
	activeTab  models.Tab
	transcript []models.Message

	sending atomic.Bool
	testing atomic.Bool

	wg sync.WaitGroup
}

func NewController(client API, view Renderer, opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		api:       client,
		view:      view,
		opts:      opts,
		log:       log,
		activeTab: models.TabChat,
	}
}

// Start does what a fresh page load does: show the base URL, refresh the
// status data and land on the chat tab.
func (c *Controller) Start(ctx context.Context) {
	c.view.SetBaseURL(c.api.BaseURL())
	c.Refresh(ctx)
	_ = c.SelectTab(ctx, models.TabChat.String())
}

func (c *Controller) ActiveTab() models.Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeTab
}

// SelectTab switches to the named tab. Switching to status refreshes health
// and models in the background; Wait blocks until they finish.
func (c *Controller) SelectTab(ctx context.Context, name string) error {
	tab, err := models.ParseTab(name)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.activeTab = tab
	c.mu.Unlock()

	c.view.ShowTab(tab)
	c.log.Debug("tab selected", "tab", tab.String())

	if tab == models.TabStatus {
		c.Refresh(ctx)
	}
	return nil
}

// Refresh starts one health probe and one model listing, independently of
// each other and of any chat in flight.
func (c *Controller) Refresh(ctx context.Context) {
	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		c.CheckHealth(ctx)
	}()
	go func() {
		defer c.wg.Done()
		c.LoadModels(ctx)
	}()
}

// Wait blocks until every refresh started so far has completed
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) Sending() bool {
	return c.sending.Load()
}

// Transcript returns a copy of the messages appended so far
func (c *Controller) Transcript() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Message(nil), c.transcript...)
}

func (c *Controller) appendMessage(role models.Role, content string, failed bool) {
	msg := models.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
		Failed:    failed,
	}
	c.mu.Lock()
	c.transcript = append(c.transcript, msg)
	c.mu.Unlock()
	c.view.AppendMessage(msg)
}

// SendChat sends input as a single user turn and blocks until the reply (or
// the failure) has been appended. Only one send may be in flight; a blank
// input or a concurrent call returns ErrGuardRejected without side effects.
// Server failures are rendered into the transcript, not returned.
func (c *Controller) SendChat(ctx context.Context, input string) error {
	message := strings.TrimSpace(input)
	if message == "" {
		return ErrGuardRejected
	}
	if !c.sending.CompareAndSwap(false, true) {
		return ErrGuardRejected
	}
	defer func() {
		c.sending.Store(false)
		c.view.SetSendEnabled(true)
	}()

	c.view.ClearInput()
	c.view.SetSendEnabled(false)
	c.appendMessage(models.RoleUser, message, false)

	typingID := "typing-" + uuid.NewString()
	c.view.ShowTyping(typingID)

	start := time.Now()
	reply, err := c.api.Complete(ctx, api.CompletionRequest{
		Model:       c.opts.Model,
		Prompt:      message,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
	})
	c.view.RemoveTyping(typingID)

	switch {
	case err == nil:
		c.appendMessage(models.RoleAssistant, reply, false)
		c.log.Info("chat reply", "elapsed", time.Since(start), "chars", len(reply))
	case errors.Is(err, api.ErrNoChoices):
		c.appendMessage(models.RoleAssistant, FallbackReply, false)
		c.log.Warn("chat reply without choices", "elapsed", time.Since(start))
	default:
		c.appendMessage(models.RoleAssistant, ErrorReply(err), true)
		c.log.Error("chat send failed", "err", err, "elapsed", time.Since(start))
	}
	return nil
}

// ErrorReply is the assistant message shown for a failed send
func ErrorReply(err error) string {
	return fmt.Sprintf("Error: %s. Please check if the server is running.", err.Error())
}

func (c *Controller) CheckHealth(ctx context.Context) models.HealthReport {
	report := c.api.Health(ctx)
	c.view.SetHealth(report)
	c.log.Debug("health checked", "state", report.State.String(), "status", report.StatusCode)
	return report
}

func (c *Controller) LoadModels(ctx context.Context) models.ModelListing {
	list, err := c.api.ListModels(ctx)

	var listing models.ModelListing
	switch {
	case err != nil:
		listing = models.ModelListing{State: models.ListingFailed, Err: err}
	case len(list) == 0:
		listing = models.ModelListing{State: models.ListingEmpty}
	default:
		listing = models.ModelListing{State: models.ListingLoaded, Models: list}
	}

	c.view.SetModels(listing)
	return listing
}

// TestAPI runs the docs tab's request form and shows the raw answer
func (c *Controller) TestAPI(ctx context.Context, input string) error {
	message := strings.TrimSpace(input)
	if message == "" {
		return ErrGuardRejected
	}
	if !c.testing.CompareAndSwap(false, true) {
		return ErrGuardRejected
	}
	defer func() {
		c.testing.Store(false)
		c.view.SetTestRunning(false)
	}()

	c.view.SetTestRunning(true)

	res, err := c.api.CompleteRaw(ctx, api.CompletionRequest{
		Model:       c.opts.Model,
		Prompt:      message,
		MaxTokens:   c.opts.TestMaxTokens,
		Temperature: c.opts.Temperature,
	})
	if err != nil {
		c.log.Warn("api test failed", "err", err)
		c.view.SetTestResult("Error: "+err.Error(), true)
		return nil
	}

	c.view.SetTestResult(strings.TrimRight(string(pretty.Pretty(res.Body)), "\n"), false)
	return nil
}
