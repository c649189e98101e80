package account

import (
	"strings"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
)

const maxChatIDLen = 20

// LinkTelegramInput holds the Telegram chat id to attach to the caller.
type LinkTelegramInput struct {
	TelegramChatID string
}

// Validate checks all fields and collects all errors.
func (i LinkTelegramInput) Validate() error {
	id := strings.TrimSpace(i.TelegramChatID)
	if id == "" {
		return domain.NewValidationError("telegramChatId", "required")
	}
	if len(id) > maxChatIDLen || !isChatID(id) {
		return domain.NewValidationError("telegramChatId", "must be a numeric Telegram id")
	}
	return nil
}

// isChatID reports whether s is an optionally negative decimal integer.
func isChatID(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" || s == "0" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
