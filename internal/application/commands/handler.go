package commands

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"helpbot/internal/application"
	"helpbot/internal/application/catalog"
	"helpbot/internal/domain"
	"helpbot/internal/ports"
)

// Fixed replies
const (
	FoundIntro      = "I found this related question!"
	NoAnswerReply   = "I couldn't find a related question unfortunately. Please reach out to one of our Community Moderators!"
	PurgeStarted    = "🔥 🔥 🔥"
	PurgeComplete   = "Purge Complete. Support List rebuilding."
	UnderscoreHint  = "*FYI, you don't need to include an underscore when giving me a command. That was just for an example* 😉"
	ListsTitle      = "Available Help/Support Topics:"
	TopTitle        = "Top Questions"
	HelpTitle       = "Helpbot"
	LookupErrorText = "Something went wrong while looking that up. Please try again in a moment."
	topLimit        = 3
)

// UnknownCategoryReply is the fallback for a list lookup that matches nothing
func UnknownCategoryReply(prefix string) string {
	return fmt.Sprintf("Unable to find a matching support category! Use the command `%slists` to view all available support categories.", prefix)
}

// SnapshotSource provides the currently published snapshot
type SnapshotSource interface {
	Current() *domain.Snapshot
}

// Purger runs a full reconciliation on operator request
type Purger interface {
	Purge(ctx context.Context) error
}

// Message is an inbound chat line
type Message struct {
	AuthorID string
	Author   string // display form used when addressing the author
	Channel  string
	FromBot  bool
	Content  string
}

// HandlerConfig configures a Handler
type HandlerConfig struct {
	Prefix       string
	AdminID      string
	ChannelMatch *regexp.Regexp // nil allows every channel
	TopicList    string
}

// Handler answers chat commands from the published snapshot
type Handler struct {
	snapshots SnapshotSource
	resolver  *Resolver
	catalog   *catalog.Catalog
	purger    Purger
	cfg       HandlerConfig
	logger    ports.Logger
}

// NewHandler creates a Handler. purger may be nil when purge is unavailable.
func NewHandler(snapshots SnapshotSource, resolver *Resolver, cat *catalog.Catalog, purger Purger, cfg HandlerConfig, logger ports.Logger) *Handler {
	if cfg.Prefix == "" {
		cfg.Prefix = "!"
	}
	return &Handler{
		snapshots: snapshots,
		resolver:  resolver,
		catalog:   cat,
		purger:    purger,
		cfg:       cfg,
		logger:    logger,
	}
}

// Prefix returns the configured command prefix
func (h *Handler) Prefix() string {
	return h.cfg.Prefix
}

// HandleMessage applies the chat rules (prefix, channel gating, operator-only
// purge) before dispatching. ok is false when the message gets no reply.
func (h *Handler) HandleMessage(ctx context.Context, msg Message) (reply domain.Reply, ok bool) {
	if msg.FromBot {
		return domain.Reply{}, false
	}
	command, args, ok := ParseMessage(h.cfg.Prefix, msg.Content)
	if !ok {
		return domain.Reply{}, false
	}
	allowed := h.allowedChannel(msg.Channel)

	if command == "purge" {
		if !allowed || h.cfg.AdminID == "" || msg.AuthorID != h.cfg.AdminID {
			h.logf("component=handler action=purge author=%s error=%q", msg.AuthorID, application.ErrNotAuthorized)
			return domain.Reply{}, false
		}
		return h.purge(ctx), true
	}

	if !allowed && isBuiltin(command) {
		return domain.Reply{}, false
	}
	if !allowed {
		// bare topics answer anywhere
		return h.topic(command, args), true
	}

	reply = h.HandleCommand(ctx, command, args)
	if msg.Author != "" {
		for i, n := range reply.Notices {
			reply.Notices[i] = msg.Author + " -- " + n
		}
	}
	return reply, true
}

// HandleCommand dispatches one parsed command
func (h *Handler) HandleCommand(ctx context.Context, command string, args []string) domain.Reply {
	args, hinted := stripUnderscores(args)
	reply := h.dispatch(ctx, strings.ToLower(command), args)
	if hinted {
		reply.Notices = append([]string{UnderscoreHint}, reply.Notices...)
	}
	return reply
}

func (h *Handler) dispatch(ctx context.Context, command string, args []string) domain.Reply {
	switch command {
	case "help":
		return h.Help()
	case "ask":
		return h.Ask(strings.Join(args, " "))
	case "lists":
		return h.Lists()
	case "list":
		return h.List(strings.Join(args, " "))
	case "top":
		return h.Top(ctx)
	default:
		return h.topic(command, args)
	}
}

// Help lists the commands and the support topics
func (h *Handler) Help() domain.Reply {
	p := h.cfg.Prefix
	lines := []string{
		"Ask a Question: `" + p + "ask _question_`",
		"View Top Questions: `" + p + "top`",
		"View All Support Categories: `" + p + "lists`",
		"View Support Category Questions: `" + p + "list _category_`",
	}
	topics := h.snapshots.Current().Topics
	if len(topics) > 0 {
		lines = append(lines, "Support Topics:")
		for _, t := range topics {
			lines = append(lines, "`"+p+t.Question+"`")
		}
	}
	return domain.Reply{Kind: domain.ReplyListing, Title: HelpTitle, Lines: lines}
}

// Ask answers a free-text question
func (h *Handler) Ask(question string) domain.Reply {
	m := h.resolver.Resolve(h.snapshots.Current(), question)
	if !m.Found {
		return domain.Reply{Kind: domain.ReplyText, Body: NoAnswerReply}
	}
	if m.Topic {
		reply := PostReply(m.Card)
		reply.Intro = FoundIntro
		return reply
	}
	reply := AnswerReply(m.Card)
	reply.Intro = FoundIntro
	return reply
}

// Lists shows the categories that have at least one card
func (h *Handler) Lists() domain.Reply {
	var lines []string
	for _, l := range h.snapshots.Current().NonEmptyLists() {
		lines = append(lines, "`"+h.cfg.Prefix+"list "+l.Name+"`")
	}
	return domain.Reply{Kind: domain.ReplyListing, Title: ListsTitle, Lines: lines}
}

// List shows the questions of one category
func (h *Handler) List(name string) domain.Reply {
	l, ok := h.snapshots.Current().ListByName(name)
	if !ok {
		return domain.Reply{Kind: domain.ReplyText, Body: UnknownCategoryReply(h.cfg.Prefix)}
	}
	lines := make([]string, 0, len(l.Cards))
	for _, c := range l.Cards {
		lines = append(lines, "`"+h.cfg.Prefix+"ask "+c.Question+"`")
	}
	return domain.Reply{Kind: domain.ReplyListing, Title: l.Name + " Sub-topics:", Lines: lines}
}

// Top shows the most up-voted questions, read from the store so that votes
// cast since the last rebuild count
func (h *Handler) Top(ctx context.Context) domain.Reply {
	cards, err := h.TopCards(ctx, topLimit)
	if err != nil {
		h.logf("component=handler action=top error=%q", err)
		return domain.Reply{Kind: domain.ReplyText, Body: LookupErrorText}
	}
	lines := make([]string, 0, len(cards))
	for _, c := range cards {
		lines = append(lines, fmt.Sprintf("%s  %s %d %s %d", c.Question, domain.ThumbsUp, c.UpVotes, domain.ThumbsDown, c.DownVotes))
	}
	return domain.Reply{Kind: domain.ReplyListing, Title: TopTitle, Lines: lines}
}

// TopCards returns up to limit non-topic cards by up votes, ties by card ID
func (h *Handler) TopCards(ctx context.Context, limit int) ([]domain.Card, error) {
	all, err := h.catalog.AllCards(ctx)
	if err != nil {
		return nil, err
	}
	lists, err := h.catalog.AllLists(ctx)
	if err != nil {
		return nil, err
	}
	listNames := make(map[string]string, len(lists))
	for _, l := range lists {
		listNames[l.ID] = l.Name
	}
	cards := slices.DeleteFunc(all, func(c domain.Card) bool {
		return h.isTopic(c, listNames)
	})
	slices.SortStableFunc(cards, func(a, b domain.Card) int {
		if c := cmp.Compare(b.UpVotes, a.UpVotes); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return cards[:min(limit, len(cards))], nil
}

// isTopic classifies by the owning list's current name, falling back to the
// label stored on the card when the list is not persisted
func (h *Handler) isTopic(c domain.Card, listNames map[string]string) bool {
	if h.cfg.TopicList == "" {
		return false
	}
	name, ok := listNames[c.ListID]
	if !ok {
		name = c.ListLabel
	}
	return domain.SameName(name, h.cfg.TopicList)
}

// Topic answers a bare topic command
func (h *Handler) Topic(name string) domain.Reply {
	return h.topic(name, nil)
}

func (h *Handler) topic(command string, args []string) domain.Reply {
	snap := h.snapshots.Current()
	candidates := []string{command}
	if len(args) > 0 {
		candidates = []string{command + " " + strings.Join(args, " "), command}
	}
	for _, name := range candidates {
		if t, ok := snap.TopicByName(name); ok {
			return PostReply(t)
		}
	}
	return domain.Reply{Kind: domain.ReplyText, Body: NoAnswerReply}
}

func (h *Handler) purge(ctx context.Context) domain.Reply {
	if h.purger == nil {
		return domain.Reply{Kind: domain.ReplyText, Body: LookupErrorText}
	}
	reply := domain.Reply{Kind: domain.ReplyText, Notices: []string{PurgeStarted}}
	if err := h.purger.Purge(ctx); err != nil && !errors.Is(err, application.ErrRunInProgress) {
		h.logf("component=handler action=purge error=%q", err)
		reply.Body = fmt.Sprintf("Purge failed: %v", err)
		return reply
	}
	reply.Body = PurgeComplete
	return reply
}

func (h *Handler) allowedChannel(channel string) bool {
	return h.cfg.ChannelMatch == nil || h.cfg.ChannelMatch.MatchString(channel)
}

func (h *Handler) logf(format string, args ...any) {
	if h.logger == nil {
		return
	}
	h.logger.Printf(format, args...)
}

func isBuiltin(command string) bool {
	switch command {
	case "help", "ask", "lists", "list", "top":
		return true
	}
	return false
}

// AnswerReply renders an ordinary card with the vote footer
func AnswerReply(c domain.Card) domain.Reply {
	return domain.Reply{
		Kind:      domain.ReplyAnswer,
		Title:     c.Question,
		Body:      c.Answer,
		URL:       c.ShortURL,
		Footer:    domain.AnswerFooter(c.ShortID),
		Reactions: []string{domain.ThumbsUp, domain.ThumbsDown},
		CardID:    c.ID,
	}
}

// PostReply renders a topic card without voting
func PostReply(c domain.Card) domain.Reply {
	return domain.Reply{
		Kind:   domain.ReplyPost,
		Title:  c.Question,
		Body:   c.Answer,
		URL:    c.ShortURL,
		CardID: c.ID,
	}
}
