package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"helpbot/internal/adapters/tui/styles"
	"helpbot/internal/domain"
)

// RenderKeyHelp formats a key binding as help text (key + description)
func RenderKeyHelp(b key.Binding) string {
	help := b.Help()
	return fmt.Sprintf("%s %s",
		styles.HelpKey.Render(help.Key),
		styles.HelpDesc.Render(help.Desc),
	)
}

// RenderHelpLine renders multiple key bindings as a help line separated by bullets
func RenderHelpLine(bindings ...key.Binding) string {
	var parts []string
	for _, b := range bindings {
		parts = append(parts, RenderKeyHelp(b))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderMessage renders a message with appropriate styling based on isError
func RenderMessage(message string, isError bool) string {
	if message == "" {
		return ""
	}
	if isError {
		return styles.ErrorMsg.Render(message)
	}
	return styles.Success.Render(message)
}

// RenderAsk renders a line typed by the operator
func RenderAsk(author, line string) string {
	return styles.Asker.Render(author+":") + " " + line
}

// RenderNotice renders a system line in the transcript
func RenderNotice(text string) string {
	return styles.Notice.Render(text)
}

// RenderReply renders a bot reply as a transcript block, wrapped to width
func RenderReply(r domain.Reply, width int) string {
	var b strings.Builder
	for _, n := range r.Notices {
		b.WriteString(RenderNotice(n))
		b.WriteString("\n")
	}
	b.WriteString(styles.Bot.Render("helpbot:"))
	if r.Intro != "" {
		b.WriteString(" " + r.Intro)
	}
	b.WriteString("\n")

	switch r.Kind {
	case domain.ReplyAnswer, domain.ReplyPost:
		b.WriteString(renderCard(r, width))
	case domain.ReplyListing:
		if r.Title != "" {
			b.WriteString(styles.CardTitle.Render(r.Title))
			b.WriteString("\n")
		}
		for _, l := range r.Lines {
			b.WriteString(styles.ListingLine.Render(l))
			b.WriteString("\n")
		}
	default:
		b.WriteString(styles.CardBody.Render(wrap(r.Body, width)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderCard(r domain.Reply, width int) string {
	inner := max(width-4, 20)
	var b strings.Builder
	b.WriteString(styles.CardTitle.Render(wrap(r.Title, inner)))
	if r.Body != "" {
		b.WriteString("\n\n")
		b.WriteString(wrap(r.Body, inner))
	}
	if r.URL != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.CardURL.Render(r.URL))
	}
	if r.Footer != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.Footer.Render(r.Footer))
	}
	return styles.CardBox.Render(b.String()) + "\n"
}

// wrap breaks text on word boundaries so no line exceeds width runes
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len([]rune(line))+1+len([]rune(w)) > width {
				out = append(out, line)
				line = w
				continue
			}
			line += " " + w
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
