package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"helpbot/internal/adapters/tui/styles"
	"helpbot/internal/application"
	"helpbot/internal/application/commands"
	"helpbot/internal/application/trigger"
	"helpbot/internal/application/vote"
	"helpbot/internal/domain"
	"helpbot/internal/ports"
)

// Commands answers chat commands
type Commands interface {
	Prefix() string
	HandleCommand(ctx context.Context, command string, args []string) domain.Reply
}

// Reactions records votes carried by reactions
type Reactions interface {
	Handle(ctx context.Context, ev commands.ReactionEvent) (domain.Card, error)
}

// Syncer requests a background reconciliation
type Syncer interface {
	Trigger(source trigger.Source) bool
}

// ChatKeyMap defines key bindings for the chat console
type ChatKeyMap struct {
	Send     key.Binding
	VoteUp   key.Binding
	VoteDown key.Binding
	Copy     key.Binding
	Open     key.Binding
	Sync     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var ChatKeys = ChatKeyMap{
	Send:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
	VoteUp:   key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "👍")),
	VoteDown: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "👎")),
	Copy:     key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy link")),
	Open:     key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open")),
	Sync:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "sync")),
	Help:     key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
	Quit:     key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
}

// ReplyMsg carries the bot's answer to one line of input
type ReplyMsg struct {
	Reply domain.Reply
}

// VoteMsg reports the outcome of a vote key press
type VoteMsg struct {
	Card    domain.Card
	Dir     domain.VoteDirection
	Retract bool
	Err     error
}

// NoticeMsg appends a system line to the transcript
type NoticeMsg struct {
	Text  string
	IsErr bool
}

// ChatModel is a console that talks to the bot like a chat user
type ChatModel struct {
	status    Status
	width     int
	height    int
	ctx       context.Context
	author    string
	commands  Commands
	reactions Reactions
	syncer    Syncer
	opener    ports.URLOpener
	copy      func(string) error

	input      textinput.Model
	transcript viewport.Model
	blocks     []string

	last  *domain.Reply // most recent votable reply
	voted map[domain.VoteDirection]bool
}

// ChatOption configures a ChatModel
type ChatOption func(*ChatModel)

// WithClipboard replaces the system clipboard writer
func WithClipboard(copy func(string) error) ChatOption {
	return func(m *ChatModel) { m.copy = copy }
}

// WithAuthor sets the name shown for operator lines
func WithAuthor(name string) ChatOption {
	return func(m *ChatModel) { m.author = name }
}

// NewChatModel creates the console. syncer and opener may be nil.
func NewChatModel(ctx context.Context, cmds Commands, reactions Reactions, syncer Syncer, opener ports.URLOpener, opts ...ChatOption) *ChatModel {
	input := textinput.New()
	input.Placeholder = "ask a question, or " + cmds.Prefix() + "help"
	input.Prompt = "> "
	input.CharLimit = 500
	input.Focus()

	m := &ChatModel{
		ctx:        ctx,
		author:     "you",
		commands:   cmds,
		reactions:  reactions,
		syncer:     syncer,
		opener:     opener,
		copy:       clipboard.WriteAll,
		input:      input,
		transcript: viewport.New(80, 20),
		voted:      make(map[domain.VoteDirection]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init returns the blink command for the input
func (m *ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize lays out the transcript above the input
func (m *ChatModel) SetSize(width, height int) {
	m.width, m.height = width, height
	m.input.Width = max(width-6, 10)
	m.transcript.Width = width
	// input box, status line and help line
	m.transcript.Height = max(height-6, 3)
	m.refresh()
}

// Append adds a rendered block to the transcript and scrolls to it
func (m *ChatModel) Append(block string) {
	m.blocks = append(m.blocks, block)
	m.refresh()
}

// Transcript returns the rendered blocks in order
func (m *ChatModel) Transcript() []string {
	return m.blocks
}

// Status returns the current status line
func (m *ChatModel) Status() Status {
	return m.status
}

// LastAnswer returns the reply vote keys act on
func (m *ChatModel) LastAnswer() (domain.Reply, bool) {
	if m.last == nil {
		return domain.Reply{}, false
	}
	return *m.last, true
}

func (m *ChatModel) refresh() {
	m.transcript.SetContent(strings.Join(m.blocks, "\n\n"))
	m.transcript.GotoBottom()
}

// Update handles messages for the chat console
func (m *ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case ReplyMsg:
		m.status.Clear()
		m.Append(RenderReply(msg.Reply, m.transcript.Width))
		if msg.Reply.Kind == domain.ReplyAnswer || msg.Reply.Kind == domain.ReplyPost {
			r := msg.Reply
			m.last = &r
			m.voted = make(map[domain.VoteDirection]bool)
		}
		return m, nil

	case VoteMsg:
		return m, m.handleVote(msg)

	case NoticeMsg:
		m.status.Set(msg.Text, msg.IsErr)
		m.Append(RenderNotice(msg.Text))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, ChatKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, ChatKeys.Help):
			return m, func() tea.Msg { return SwitchToHelpMsg{} }
		case key.Matches(msg, ChatKeys.Send):
			return m, m.send()
		case key.Matches(msg, ChatKeys.VoteUp):
			return m, m.vote(domain.VoteUp)
		case key.Matches(msg, ChatKeys.VoteDown):
			return m, m.vote(domain.VoteDown)
		case key.Matches(msg, ChatKeys.Copy):
			m.copyLink()
			return m, nil
		case key.Matches(msg, ChatKeys.Open):
			m.openLink()
			return m, nil
		case key.Matches(msg, ChatKeys.Sync):
			m.requestSync()
			return m, nil
		case msg.Type == tea.KeyPgUp, msg.Type == tea.KeyPgDown:
			var cmd tea.Cmd
			m.transcript, cmd = m.transcript.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send dispatches the input line. Lines without the prefix are questions.
func (m *ChatModel) send() tea.Cmd {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return nil
	}
	m.input.Reset()
	m.Append(RenderAsk(m.author, line))

	prefix := m.commands.Prefix()
	command, args, ok := commands.ParseMessage(prefix, line)
	if !ok {
		command, args = "ask", strings.Fields(line)
	}
	ctx, cmds := m.ctx, m.commands
	return func() tea.Msg {
		return ReplyMsg{Reply: cmds.HandleCommand(ctx, command, args)}
	}
}

// vote toggles a vote on the last answer. A second press retracts it.
func (m *ChatModel) vote(dir domain.VoteDirection) tea.Cmd {
	if m.last == nil || m.last.Footer == "" {
		m.status.Set("No answer to vote on", true)
		return nil
	}
	retract := m.voted[dir]
	kind := commands.ReactionAdd
	if retract {
		kind = commands.ReactionRemove
	}
	ev := commands.ReactionEvent{Kind: kind, Emoji: dir.Emoji(), Footer: m.last.Footer}
	ctx, reactions := m.ctx, m.reactions
	return func() tea.Msg {
		card, err := reactions.Handle(ctx, ev)
		return VoteMsg{Card: card, Dir: dir, Retract: retract, Err: err}
	}
}

func (m *ChatModel) handleVote(msg VoteMsg) tea.Cmd {
	if msg.Err != nil {
		text := "Vote failed: " + msg.Err.Error()
		if errors.Is(msg.Err, application.ErrNotFound) {
			text = "That answer is no longer in the knowledge base"
		}
		m.status.Set(text, true)
		return nil
	}
	m.voted[msg.Dir] = !msg.Retract
	verb := "Recorded"
	if msg.Retract {
		verb = "Retracted"
	}
	m.status.Set(fmt.Sprintf("%s %s vote (%s)", verb, msg.Dir, vote.Tally(msg.Card)), false)
	return nil
}

func (m *ChatModel) copyLink() {
	if m.last == nil || m.last.URL == "" {
		m.status.Set("No link to copy", true)
		return
	}
	if err := m.copy(m.last.URL); err != nil {
		m.status.Set("Copy failed: "+err.Error(), true)
		return
	}
	m.status.Set("Copied "+m.last.URL, false)
}

func (m *ChatModel) openLink() {
	if m.last == nil || m.last.URL == "" {
		m.status.Set("No link to open", true)
		return
	}
	if m.opener == nil {
		m.status.Set("No browser configured", true)
		return
	}
	if err := m.opener.OpenURL(m.last.URL); err != nil {
		m.status.Set("Open failed: "+err.Error(), true)
		return
	}
	m.status.Set("Opened "+m.last.URL, false)
}

func (m *ChatModel) requestSync() {
	if m.syncer == nil {
		m.status.Set("Board sync is not configured", true)
		return
	}
	if m.syncer.Trigger(trigger.SourceOperator) {
		m.status.Set("Sync requested", false)
	} else {
		m.status.Set("Sync already queued", false)
	}
}

// View renders the chat console
func (m *ChatModel) View() string {
	status := RenderMessage(m.status.Text, m.status.IsErr)
	if status == "" {
		status = styles.StatusText.Render(fmt.Sprintf("%d messages", len(m.blocks)))
	}
	help := RenderHelpLine(ChatKeys.Send, ChatKeys.VoteUp, ChatKeys.VoteDown, ChatKeys.Copy, ChatKeys.Open, ChatKeys.Sync, ChatKeys.Help)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.transcript.View(),
		styles.InputFocused.Render(m.input.View()),
		status,
		help,
	)
}
