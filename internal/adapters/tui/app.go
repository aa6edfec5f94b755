package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"helpbot/internal/adapters/tui/views"
	"helpbot/internal/application/trigger"
)

// ViewState represents the current view
type ViewState int

const (
	ViewChat ViewState = iota
	ViewHelp
)

// App is the main TUI application model
type App struct {
	reports <-chan trigger.RunReport

	state ViewState
	chat  *views.ChatModel
	help  *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application. reports may be nil when no
// board is configured.
func NewApp(chat *views.ChatModel, prefix string, reports <-chan trigger.RunReport) *App {
	return &App{
		reports: reports,
		state:   ViewChat,
		chat:    chat,
		help:    views.NewHelpModel(prefix),
	}
}

// reportMsg carries a finished reconciliation run
type reportMsg struct {
	report trigger.RunReport
	closed bool
}

func waitForReport(reports <-chan trigger.RunReport) tea.Cmd {
	if reports == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-reports
		return reportMsg{report: r, closed: !ok}
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.chat.Init(), waitForReport(a.reports))
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.chat.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToChatMsg:
		a.state = ViewChat
		return a, nil

	case reportMsg:
		if msg.closed {
			return a, nil
		}
		_, cmd := a.chat.Update(views.NoticeMsg{
			Text:  msg.report.Summary(),
			IsErr: msg.report.Err != nil,
		})
		return a, tea.Batch(cmd, waitForReport(a.reports))
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewChat:
		_, cmd = a.chat.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	if a.state == ViewHelp {
		return a.help.View()
	}
	return a.chat.View()
}
