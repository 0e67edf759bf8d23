package ui

import (
	"sync"

	"railchat/internal/models"
	"railchat/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// programRenderer turns Renderer calls into program messages so the view
// state is only ever touched by Update. It must not be called from inside
// Update itself: Program.Send blocks until the event loop receives.
type programRenderer struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

var _ session.Renderer = (*programRenderer)(nil)

func (r *programRenderer) attach(send func(tea.Msg)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.send = send
}

func (r *programRenderer) emit(msg tea.Msg) {
	r.mu.RLock()
	send := r.send
	r.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

func (r *programRenderer) ShowTab(tab models.Tab)          { r.emit(tabShownMsg{Tab: tab}) }
func (r *programRenderer) ClearInput()                     { r.emit(inputClearedMsg{}) }
func (r *programRenderer) SetSendEnabled(enabled bool)     { r.emit(sendEnabledMsg{Enabled: enabled}) }
func (r *programRenderer) AppendMessage(msg models.Message) { r.emit(messageAppendedMsg{Message: msg}) }
func (r *programRenderer) ShowTyping(id string)            { r.emit(typingShownMsg{ID: id}) }
func (r *programRenderer) RemoveTyping(id string)          { r.emit(typingRemovedMsg{ID: id}) }
func (r *programRenderer) SetHealth(report models.HealthReport) {
	r.emit(healthMsg{Report: report})
}
func (r *programRenderer) SetModels(listing models.ModelListing) {
	r.emit(modelsMsg{Listing: listing})
}
func (r *programRenderer) SetBaseURL(url string)         { r.emit(baseURLMsg{URL: url}) }
func (r *programRenderer) SetTestRunning(running bool)   { r.emit(testRunningMsg{Running: running}) }
func (r *programRenderer) SetTestResult(result string, failed bool) {
	r.emit(testResultMsg{Result: result, Failed: failed})
}
