package models

import (
	"errors"
	"fmt"
	"time"
)

// Tab identifies one of the three panels of the application
type Tab int

const (
	TabChat   Tab = iota // Conversation with the model
	TabDocs              // API docs and the test form
	TabStatus            // Health indicator and model listing
)

// Tabs lists every tab in display order
var Tabs = []Tab{TabChat, TabDocs, TabStatus}

var ErrInvalidTab = errors.New("invalid tab")

func (t Tab) String() string {
	switch t {
	case TabChat:
		return "chat"
	case TabDocs:
		return "docs"
	case TabStatus:
		return "status"
	default:
		return fmt.Sprintf("tab(%d)", int(t))
	}
}

func (t Tab) Title() string {
	switch t {
	case TabChat:
		return "Chat"
	case TabDocs:
		return "API Docs"
	case TabStatus:
		return "Status"
	default:
		return t.String()
	}
}

// ParseTab maps a tab name to its Tab, failing fast on anything else
func ParseTab(name string) (Tab, error) {
	for _, t := range Tabs {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTab, name)
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry. It is never modified after creation.
type Message struct {
	ID        string
	Role      Role
	Content   string
	CreatedAt time.Time

	// Failed marks the notice appended in place of a reply when a send fails
	Failed bool
}

type HealthState int

const (
	HealthUnknown HealthState = iota
	HealthHealthy
	HealthDegraded
	HealthUnreachable
)

func (s HealthState) String() string {
	switch s {
	case HealthHealthy:
		return "healthy"
	case HealthDegraded:
		return "degraded"
	case HealthUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// HealthReport is the outcome of a single liveness probe
type HealthReport struct {
	State      HealthState
	StatusCode int    // Set for degraded reports
	Detail     string // Extra text reported by the server, if any
	CheckedAt  time.Time
}

// Summary returns the human readable line shown next to the indicator
func (r HealthReport) Summary() string {
	switch r.State {
	case HealthHealthy:
		return "Server is healthy"
	case HealthDegraded:
		return fmt.Sprintf("Server responded with status %d", r.StatusCode)
	case HealthUnreachable:
		return "Server is unreachable"
	default:
		return "Checking..."
	}
}

type ModelInfo struct {
	ID     string
	Object string
}

type ListingState int

const (
	ListingLoading ListingState = iota
	ListingLoaded
	ListingEmpty
	ListingFailed
)

// ModelListing replaces the previous listing wholesale on every refresh
type ModelListing struct {
	State  ListingState
	Models []ModelInfo
	Err    error
}
