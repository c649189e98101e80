package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account owns briefs. Accounts created from a Telegram identity before the
// person signs in to the web app are placeholders: they have no email.
type Account struct {
	ID             uuid.UUID
	Name           *string
	Email          *string
	TelegramChatID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsPlaceholder reports whether the account was created by the bot and has
// never been claimed through first-party sign-in.
func (a *Account) IsPlaceholder() bool {
	return a.Email == nil || *a.Email == ""
}

// NewPlaceholderAccount builds an unsaved placeholder account for a Telegram
// identity.
func NewPlaceholderAccount(telegramChatID, displayName string, now time.Time) *Account {
	acc := &Account{
		ID:             uuid.New(),
		TelegramChatID: &telegramChatID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if displayName != "" {
		acc.Name = &displayName
	}
	return acc
}
