package bot

import (
	"fmt"
	"html"
)

const (
	replyStart = "Welcome! Send me a voice note about a Bible passage or a topic and I will prepare an exegesis brief: " +
		"original-language insights, historical context and a sermon outline.\n\nType /help for more."

	replyHelp = "<b>How it works</b>\n" +
		"1. Record a voice note (or send an audio file) thinking aloud about a passage or topic.\n" +
		"2. I transcribe it and prepare a brief.\n" +
		"3. You get a link to the brief in the web app.\n\n" +
		"/start - introduction\n/help - this message\n/link - connect this chat to your web account"

	replyPrompt    = "Please send me a voice note and I will turn it into an exegesis brief."
	replyUnusable  = "Sorry, I could not understand that recording. Please try again with a longer or clearer voice note."
	replyFailure   = "Sorry, something went wrong while processing your voice note. Please try again later."
	replyTimeout   = "Sorry, processing your voice note took too long. Please try again in a few minutes."
	replyLinkShape = "To see your briefs in the web app, sign in there and link this Telegram account using this id:\n\n<code>%s</code>"
)

// CommandReply returns the canned reply for cmd. externalID is the sender's
// Telegram id, shown by /link.
func CommandReply(cmd Command, externalID string) string {
	switch cmd {
	case CommandStart:
		return replyStart
	case CommandHelp:
		return replyHelp
	case CommandLink:
		return fmt.Sprintf(replyLinkShape, html.EscapeString(externalID))
	default:
		return replyPrompt
	}
}

// successReply announces a stored brief.
func successReply(title, url string) string {
	return fmt.Sprintf("Your brief is ready: <b>%s</b>\n\n<a href=\"%s\">%s</a>",
		html.EscapeString(title), html.EscapeString(url), html.EscapeString(url))
}
