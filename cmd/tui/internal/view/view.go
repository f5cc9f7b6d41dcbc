package view

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/d10sys/d10admin/internal/listctrl"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views.
type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// DebounceMsg fires when a search quiet period elapses. Scope routes it to
// the screen that scheduled it; Token is echoed back to the controller,
// which ignores it if more keystrokes arrived in the meantime.
type DebounceMsg struct {
	Scope string
	Token int
}

func debounceTick(scope string, token int) tea.Cmd {
	return tea.Tick(listctrl.DefaultDebounce, func(time.Time) tea.Msg {
		return DebounceMsg{Scope: scope, Token: token}
	})
}
