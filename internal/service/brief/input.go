package brief

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
	"github.com/heartmarshall/exegesis-backend/internal/render"
)

const (
	maxTitleRunes       = 200
	maxDescriptionRunes = 2000
	maxSearchRunes      = 200
	maxListLimit        = 100
)

// ListBriefsInput holds the list filters. Category and Status are raw query
// values and are checked by Validate.
type ListBriefsInput struct {
	Category   *string
	Status     *string
	Bookmarked *bool
	Search     *string
	Limit      int
	Offset     int
}

// Validate checks all fields and collects all errors.
func (i ListBriefsInput) Validate() error {
	var errs []domain.FieldError

	if i.Category != nil {
		if _, ok := domain.ParseCategory(*i.Category); !ok {
			errs = append(errs, domain.FieldError{Field: "category", Message: "unknown category"})
		}
	}
	if i.Status != nil && !domain.BriefStatus(*i.Status).IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "unknown status"})
	}
	if i.Search != nil && utf8.RuneCountInString(*i.Search) > maxSearchRunes {
		errs = append(errs, domain.FieldError{Field: "q", Message: "max 200 characters"})
	}
	if i.Limit < 0 || i.Limit > maxListLimit {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 100"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CreateBriefInput holds the parameters for creating a brief from the web app.
type CreateBriefInput struct {
	Title              string
	Description        *string
	Category           string
	Transcript         string
	HistoricalContext  string
	LinguisticInsights []domain.LinguisticInsight
	OutlinePoints      []domain.OutlinePoint
	Status             *string
	Bookmarked         bool
}

// Validate checks all fields and collects all errors.
func (i CreateBriefInput) Validate() error {
	var errs []domain.FieldError

	errs = appendTitleErrors(errs, i.Title)
	if i.Description != nil && utf8.RuneCountInString(strings.TrimSpace(*i.Description)) > maxDescriptionRunes {
		errs = append(errs, domain.FieldError{Field: "description", Message: "max 2000 characters"})
	}
	if i.Status != nil && !domain.BriefStatus(*i.Status).IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "unknown status"})
	}
	for _, li := range i.LinguisticInsights {
		if strings.TrimSpace(li.Term) == "" {
			errs = append(errs, domain.FieldError{Field: "linguisticInsights", Message: "term is required"})
			break
		}
	}
	for _, p := range i.OutlinePoints {
		if strings.TrimSpace(p.Title) == "" {
			errs = append(errs, domain.FieldError{Field: "outlinePoints", Message: "title is required"})
			break
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateBriefInput holds the parameters for updating a brief.
type UpdateBriefInput struct {
	BriefID     uuid.UUID
	Title       *string
	Description *string // nil = don't change; ptr("") = clear
	Bookmarked  *bool
	Status      *string
}

// Validate checks all fields and collects all errors.
func (i UpdateBriefInput) Validate() error {
	var errs []domain.FieldError

	if i.BriefID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "brief_id", Message: "required"})
	}
	if i.Title == nil && i.Description == nil && i.Bookmarked == nil && i.Status == nil {
		errs = append(errs, domain.FieldError{Field: "input", Message: "at least one field must be provided"})
	}
	if i.Title != nil {
		errs = appendTitleErrors(errs, *i.Title)
	}
	if i.Description != nil && utf8.RuneCountInString(strings.TrimSpace(*i.Description)) > maxDescriptionRunes {
		errs = append(errs, domain.FieldError{Field: "description", Message: "max 2000 characters"})
	}
	if i.Status != nil && !domain.BriefStatus(*i.Status).IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "unknown status"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ExportBriefInput holds the parameters for exporting a brief.
type ExportBriefInput struct {
	BriefID uuid.UUID
	Format  string
}

// Validate checks all fields and collects all errors.
func (i ExportBriefInput) Validate() error {
	var errs []domain.FieldError
	if i.BriefID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "brief_id", Message: "required"})
	}
	if _, ok := render.ParseFormat(i.Format); !ok {
		errs = append(errs, domain.FieldError{Field: "format", Message: "must be markdown or html"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func appendTitleErrors(errs []domain.FieldError, title string) []domain.FieldError {
	t := strings.TrimSpace(title)
	if t == "" {
		return append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if utf8.RuneCountInString(t) > maxTitleRunes {
		return append(errs, domain.FieldError{Field: "title", Message: "max 200 characters"})
	}
	return errs
}
