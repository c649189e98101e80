package domain

import "github.com/google/uuid"

// BriefFilter contains filtering/pagination parameters for brief listings.
// At least one of UserID or TelegramChatID must be set.
type BriefFilter struct {
	UserID         *uuid.UUID
	TelegramChatID *string
	Category       *Category
	Status         *BriefStatus
	Bookmarked     *bool
	Search         *string
	Limit          int
	Offset         int
}
