package domain

import (
	"strconv"
	"time"
)

// InboundEvent is one message delivered by the messaging platform, reduced to
// the fields the bot acts on.
type InboundEvent struct {
	UpdateID   int64
	MessageID  int64
	ChatID     int64
	SenderID   int64
	SenderName string
	Text       string
	Media      *MediaRef
	SentAt     time.Time
}

// MediaRef points at an audio attachment stored by the messaging platform.
type MediaRef struct {
	FileID   string
	Duration int
	MimeType string
	FileSize int64
	FileName string
}

// ExternalID is the identity key used for the sender's owning account.
// Messages without a sender (anonymous admins, channel posts) fall back to
// the chat id.
func (e InboundEvent) ExternalID() string {
	if e.SenderID != 0 {
		return strconv.FormatInt(e.SenderID, 10)
	}
	return strconv.FormatInt(e.ChatID, 10)
}

// ChatIDString returns the chat id in the form stored on briefs.
func (e InboundEvent) ChatIDString() string {
	return strconv.FormatInt(e.ChatID, 10)
}
