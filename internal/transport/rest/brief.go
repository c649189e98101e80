package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
	"github.com/heartmarshall/exegesis-backend/internal/service/brief"
)

type briefService interface {
	ListBriefs(ctx context.Context, input brief.ListBriefsInput) (*brief.ListResult, error)
	GetBrief(ctx context.Context, briefID uuid.UUID) (*domain.Brief, error)
	CreateBrief(ctx context.Context, input brief.CreateBriefInput) (*domain.Brief, error)
	UpdateBrief(ctx context.Context, input brief.UpdateBriefInput) (*domain.Brief, error)
	DeleteBrief(ctx context.Context, briefID uuid.UUID) error
	ExportBrief(ctx context.Context, input brief.ExportBriefInput) (*brief.Export, error)
}

// BriefHandler serves the brief REST endpoints.
type BriefHandler struct {
	svc briefService
	log *slog.Logger
}

// NewBriefHandler creates a BriefHandler.
func NewBriefHandler(svc briefService, logger *slog.Logger) *BriefHandler {
	return &BriefHandler{svc: svc, log: logger.With("handler", "brief")}
}

type briefResponse struct {
	ID                 string                     `json:"id"`
	Title              string                     `json:"title"`
	Description        *string                    `json:"description"`
	Category           string                     `json:"category"`
	Transcript         string                     `json:"transcript"`
	LinguisticInsights []domain.LinguisticInsight `json:"linguisticInsights"`
	HistoricalContext  string                     `json:"historicalContext"`
	OutlinePoints      []domain.OutlinePoint      `json:"outlinePoints"`
	TelegramMessageID  *int64                     `json:"telegramMessageId,omitempty"`
	TelegramChatID     *string                    `json:"telegramChatId,omitempty"`
	Status             string                     `json:"status"`
	Bookmarked         bool                       `json:"bookmarked"`
	CreatedAt          time.Time                  `json:"createdAt"`
	UpdatedAt          time.Time                  `json:"updatedAt"`
}

type listBriefsResponse struct {
	Items []briefResponse `json:"items"`
	Total int             `json:"total"`
}

type createBriefRequest struct {
	Title              string                     `json:"title"`
	Description        *string                    `json:"description"`
	Category           string                     `json:"category"`
	Transcript         string                     `json:"transcript"`
	LinguisticInsights []domain.LinguisticInsight `json:"linguisticInsights"`
	HistoricalContext  string                     `json:"historicalContext"`
	OutlinePoints      []domain.OutlinePoint      `json:"outlinePoints"`
	Status             *string                    `json:"status"`
	Bookmarked         bool                       `json:"bookmarked"`
}

type updateBriefRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Bookmarked  *bool   `json:"bookmarked"`
	Status      *string `json:"status"`
}

// List handles GET /api/briefs.
func (h *BriefHandler) List(w http.ResponseWriter, r *http.Request) {
	input, err := parseListQuery(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	res, err := h.svc.ListBriefs(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := listBriefsResponse{Items: make([]briefResponse, 0, len(res.Items)), Total: res.Total}
	for _, b := range res.Items {
		resp.Items = append(resp.Items, toBriefResponse(b))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create handles POST /api/briefs.
func (h *BriefHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBriefRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := h.svc.CreateBrief(r.Context(), brief.CreateBriefInput{
		Title:              req.Title,
		Description:        req.Description,
		Category:           req.Category,
		Transcript:         req.Transcript,
		LinguisticInsights: req.LinguisticInsights,
		HistoricalContext:  req.HistoricalContext,
		OutlinePoints:      req.OutlinePoints,
		Status:             req.Status,
		Bookmarked:         req.Bookmarked,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.Header().Set("Location", "/api/briefs/"+b.ID.String())
	writeJSON(w, http.StatusCreated, toBriefResponse(b))
}

// Get handles GET /api/briefs/{id}.
func (h *BriefHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := briefIDFromPath(w, r)
	if !ok {
		return
	}

	b, err := h.svc.GetBrief(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBriefResponse(b))
}

// Update handles PATCH /api/briefs/{id}.
func (h *BriefHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := briefIDFromPath(w, r)
	if !ok {
		return
	}

	var req updateBriefRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := h.svc.UpdateBrief(r.Context(), brief.UpdateBriefInput{
		BriefID:     id,
		Title:       req.Title,
		Description: req.Description,
		Bookmarked:  req.Bookmarked,
		Status:      req.Status,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBriefResponse(b))
}

// Delete handles DELETE /api/briefs/{id}.
func (h *BriefHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := briefIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteBrief(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/briefs/{id}/export?format=markdown|html.
func (h *BriefHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, ok := briefIDFromPath(w, r)
	if !ok {
		return
	}

	exp, err := h.svc.ExportBrief(r.Context(), brief.ExportBriefInput{
		BriefID: id,
		Format:  r.URL.Query().Get("format"),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.Header().Set("Content-Type", exp.Format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="brief-%s%s"`, exp.Brief.ID, exp.Format.Extension()))
	w.WriteHeader(http.StatusOK)
	w.Write(exp.Body) //nolint:errcheck
}

func briefIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid brief id")
		return uuid.Nil, false
	}
	return id, true
}

func parseListQuery(r *http.Request) (brief.ListBriefsInput, error) {
	q := r.URL.Query()
	var input brief.ListBriefsInput
	var errs []domain.FieldError

	if v := q.Get("category"); v != "" {
		input.Category = &v
	}
	if v := q.Get("status"); v != "" {
		input.Status = &v
	}
	if v := q.Get("q"); v != "" {
		input.Search = &v
	}
	if v := q.Get("bookmarked"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: "bookmarked", Message: "must be true or false"})
		} else {
			input.Bookmarked = &b
		}
	}
	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &input.Limit}, {"offset", &input.Offset}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: p.name, Message: "must be an integer"})
			continue
		}
		*p.dst = n
	}

	if len(errs) > 0 {
		return input, domain.NewValidationErrors(errs)
	}
	return input, nil
}

func toBriefResponse(b *domain.Brief) briefResponse {
	resp := briefResponse{
		ID:                 b.ID.String(),
		Title:              b.Title,
		Description:        b.Description,
		Category:           b.Category.String(),
		Transcript:         b.Transcript,
		LinguisticInsights: b.LinguisticInsights,
		HistoricalContext:  b.HistoricalContext,
		OutlinePoints:      b.OutlinePoints,
		TelegramMessageID:  b.TelegramMessageID,
		TelegramChatID:     b.TelegramChatID,
		Status:             b.Status.String(),
		Bookmarked:         b.Bookmarked,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
	if resp.LinguisticInsights == nil {
		resp.LinguisticInsights = []domain.LinguisticInsight{}
	}
	if resp.OutlinePoints == nil {
		resp.OutlinePoints = []domain.OutlinePoint{}
	}
	return resp
}
