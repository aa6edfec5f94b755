package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Board palette
	Primary   = lipgloss.Color("#0079BF") // Trello blue
	Accent    = lipgloss.Color("#61BD4F") // ready label green
	Muted     = lipgloss.Color("#838C91")
	Warning   = lipgloss.Color("#F2D600")
	Error     = lipgloss.Color("#EB5A46")
	Link      = lipgloss.Color("#5BA4CF")
	White     = lipgloss.Color("#FFFFFF")

	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Transcript
	Asker = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	Bot = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	Notice = lipgloss.NewStyle().
		Foreground(Warning).
		Italic(true)

	// Answer cards
	CardTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(White)

	CardBody = lipgloss.NewStyle().
			PaddingLeft(2)

	CardBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(0, 1)

	CardURL = lipgloss.NewStyle().
		Foreground(Link).
		Underline(true)

	Footer = lipgloss.NewStyle().
		Foreground(Muted)

	ListingLine = lipgloss.NewStyle().
			PaddingLeft(2)

	StatusText = lipgloss.NewStyle().
			Foreground(Muted)

	Section = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	InputFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Accent).
			Padding(0, 1)

	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" · ")

	Success = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)
