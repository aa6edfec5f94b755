package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"helpbot/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "f1"),
		key.WithHelp("esc/q/f1", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	prefix string
	width  int
	height int
}

// NewHelpModel creates a new help view model
func NewHelpModel(prefix string) *HelpModel {
	return &HelpModel{prefix: prefix}
}

// SetSize records the terminal size
func (m *HelpModel) SetSize(width, height int) {
	m.width, m.height = width, height
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return SwitchToChatMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder
	p := m.prefix

	b.WriteString(styles.Title.Render("Helpbot Console"))
	b.WriteString("\n\n")

	b.WriteString(styles.Subtitle.Render("Talk to the bot the way chat users do"))
	b.WriteString("\n\n")

	b.WriteString(styles.Section.Render("Commands"))
	b.WriteString("\n")
	b.WriteString(helpLine(p+"ask <question>", "Answer the closest question"))
	b.WriteString(helpLine(p+"lists", "Show support categories"))
	b.WriteString(helpLine(p+"list <category>", "Show a category's questions"))
	b.WriteString(helpLine(p+"top", "Show the most helpful answers"))
	b.WriteString(helpLine(p+"<topic>", "Show a support topic"))
	b.WriteString(helpLine("<anything else>", "Same as "+p+"ask"))
	b.WriteString("\n")

	b.WriteString(styles.Section.Render("Last answer"))
	b.WriteString("\n")
	b.WriteString(helpLine("Ctrl+U / Ctrl+D", "Vote up / down (again to retract)"))
	b.WriteString(helpLine("Ctrl+Y", "Copy card link"))
	b.WriteString(helpLine("Ctrl+O", "Open card in browser"))
	b.WriteString("\n")

	b.WriteString(styles.Section.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("Ctrl+R", "Sync the board now"))
	b.WriteString(helpLine("PgUp / PgDn", "Scroll transcript"))
	b.WriteString(helpLine("F1", "Toggle help"))
	b.WriteString(helpLine("Esc / Ctrl+C", "Quit"))
	b.WriteString("\n")

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("f1"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
