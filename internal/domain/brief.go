package domain

import (
	"time"

	"github.com/google/uuid"
)

// Brief is the structured exegesis output produced from one voice note, or
// created directly in the web app.
type Brief struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	Title              string
	Description        *string
	Category           Category
	Transcript         string
	LinguisticInsights []LinguisticInsight
	HistoricalContext  string
	OutlinePoints      []OutlinePoint
	TelegramMessageID  *int64
	TelegramChatID     *string
	Status             BriefStatus
	Bookmarked         bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// LinguisticInsight explains one original-language term.
type LinguisticInsight struct {
	Term            string `json:"term"`
	Transliteration string `json:"transliteration"`
	Meaning         string `json:"meaning"`
	Usage           string `json:"usage"`
}

// OutlinePoint is one entry of the sermon outline.
type OutlinePoint struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// BriefUpdateParams holds the user-editable fields. Nil means unchanged.
// An empty Description clears it.
type BriefUpdateParams struct {
	Title       *string
	Description *string
	Bookmarked  *bool
	Status      *BriefStatus
}

// IsEmpty reports whether no field is set.
func (p BriefUpdateParams) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Bookmarked == nil && p.Status == nil
}
