package bot

import (
	"strings"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
)

// Kind is the variant of an inbound event.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindCommand
	KindVoice
	KindPlainText
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindVoice:
		return "voice"
	case KindPlainText:
		return "text"
	default:
		return "unrecognized"
	}
}

// Command is a bot command the service answers with a canned reply.
type Command string

const (
	CommandStart Command = "/start"
	CommandHelp  Command = "/help"
	CommandLink  Command = "/link"
)

// Classification is the result of Classify. Command is set for KindCommand
// and Media for KindVoice.
type Classification struct {
	Kind    Kind
	Command Command
	Media   *domain.MediaRef
}

// Classify decides once what an event is. Audio attachments win over text;
// unknown commands count as plain text.
func Classify(ev domain.InboundEvent) Classification {
	if ev.Media != nil && ev.Media.FileID != "" {
		return Classification{Kind: KindVoice, Media: ev.Media}
	}

	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return Classification{Kind: KindUnrecognized}
	}

	if cmd, ok := parseCommand(text); ok {
		return Classification{Kind: KindCommand, Command: cmd}
	}
	return Classification{Kind: KindPlainText}
}

// parseCommand recognises "/cmd" and "/cmd@botname", optionally followed by
// arguments.
func parseCommand(text string) (Command, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	word := text
	if i := strings.IndexAny(word, " \t\n"); i >= 0 {
		word = word[:i]
	}
	if i := strings.IndexByte(word, '@'); i >= 0 {
		word = word[:i]
	}

	switch cmd := Command(strings.ToLower(word)); cmd {
	case CommandStart, CommandHelp, CommandLink:
		return cmd, true
	}
	return "", false
}
