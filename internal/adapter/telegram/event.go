package telegram

import (
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
)

// Event reduces a webhook update to a domain.InboundEvent. It returns false
// for updates without a message envelope (edits, callbacks, channel posts).
func Event(u *models.Update) (domain.InboundEvent, bool) {
	if u == nil || u.Message == nil {
		return domain.InboundEvent{}, false
	}
	m := u.Message

	ev := domain.InboundEvent{
		UpdateID:  int64(u.ID),
		MessageID: int64(m.ID),
		ChatID:    int64(m.Chat.ID),
		Text:      m.Text,
		SentAt:    time.Unix(int64(m.Date), 0).UTC(),
	}

	if m.From != nil {
		ev.SenderID = int64(m.From.ID)
		ev.SenderName = m.From.FirstName
		if ev.SenderName == "" {
			ev.SenderName = m.From.Username
		}
	}

	switch {
	case m.Voice != nil:
		ev.Media = &domain.MediaRef{
			FileID:   m.Voice.FileID,
			Duration: int(m.Voice.Duration),
			MimeType: m.Voice.MimeType,
			FileSize: int64(m.Voice.FileSize),
		}
	case m.Audio != nil:
		ev.Media = &domain.MediaRef{
			FileID:   m.Audio.FileID,
			Duration: int(m.Audio.Duration),
			MimeType: m.Audio.MimeType,
			FileSize: int64(m.Audio.FileSize),
			FileName: m.Audio.FileName,
		}
	}

	return ev, true
}
