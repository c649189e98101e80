package brief

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
	"github.com/heartmarshall/exegesis-backend/internal/render"
	"github.com/heartmarshall/exegesis-backend/pkg/ctxutil"
)

func newTestService(repo *briefRepoMock) *Service {
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo)
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func authCtx(userID uuid.UUID) context.Context {
	return ctxutil.WithUserID(context.Background(), userID)
}

func ptr[T any](v T) *T { return &v }

func assertValidationField(t *testing.T, err error, field string) {
	t.Helper()
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, fe := range ve.Errors {
		if fe.Field == field {
			return
		}
	}
	t.Errorf("no error for field %q in %+v", field, ve.Errors)
}

// ---------------------------------------------------------------------------
// Unauthenticated
// ---------------------------------------------------------------------------

func TestService_RequiresUser(t *testing.T) {
	t.Parallel()

	svc := newTestService(&briefRepoMock{})
	ctx := context.Background()
	id := uuid.New()

	if _, err := svc.ListBriefs(ctx, ListBriefsInput{}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("ListBriefs: %v", err)
	}
	if _, err := svc.GetBrief(ctx, id); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("GetBrief: %v", err)
	}
	if _, err := svc.CreateBrief(ctx, CreateBriefInput{Title: "x"}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("CreateBrief: %v", err)
	}
	if _, err := svc.UpdateBrief(ctx, UpdateBriefInput{BriefID: id, Title: ptr("x")}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("UpdateBrief: %v", err)
	}
	if err := svc.DeleteBrief(ctx, id); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("DeleteBrief: %v", err)
	}
	if _, err := svc.ExportBrief(ctx, ExportBriefInput{BriefID: id}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("ExportBrief: %v", err)
	}
}

// ---------------------------------------------------------------------------
// ListBriefs
// ---------------------------------------------------------------------------

func TestListBriefs_BuildsOwnerFilter(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &briefRepoMock{
		ListFunc: func(ctx context.Context, f domain.BriefFilter) ([]*domain.Brief, int, error) {
			return []*domain.Brief{{ID: uuid.New()}}, 7, nil
		},
	}
	svc := newTestService(repo)

	res, err := svc.ListBriefs(authCtx(userID), ListBriefsInput{
		Category:   ptr("Old Testament"),
		Status:     ptr("completed"),
		Bookmarked: ptr(true),
		Search:     ptr("  grace  "),
		Limit:      10,
		Offset:     20,
	})
	if err != nil {
		t.Fatalf("ListBriefs: %v", err)
	}
	if res.Total != 7 || len(res.Items) != 1 {
		t.Errorf("result = %+v", res)
	}

	f := repo.calls.List[0]
	if f.UserID == nil || *f.UserID != userID {
		t.Error("filter must be scoped to the caller")
	}
	if f.TelegramChatID != nil {
		t.Error("web listing must not filter by chat")
	}
	if f.Category == nil || *f.Category != domain.CategoryOldTestament {
		t.Errorf("category = %v", f.Category)
	}
	if f.Status == nil || *f.Status != domain.BriefStatusCompleted {
		t.Errorf("status = %v", f.Status)
	}
	if f.Search == nil || *f.Search != "grace" {
		t.Errorf("search = %v", f.Search)
	}
	if f.Limit != 10 || f.Offset != 20 || f.Bookmarked == nil || !*f.Bookmarked {
		t.Errorf("filter = %+v", f)
	}
}

func TestListBriefs_BlankSearchIsIgnored(t *testing.T) {
	t.Parallel()

	repo := &briefRepoMock{
		ListFunc: func(ctx context.Context, f domain.BriefFilter) ([]*domain.Brief, int, error) {
			return []*domain.Brief{}, 0, nil
		},
	}
	svc := newTestService(repo)

	if _, err := svc.ListBriefs(authCtx(uuid.New()), ListBriefsInput{Search: ptr("   ")}); err != nil {
		t.Fatalf("ListBriefs: %v", err)
	}
	if repo.calls.List[0].Search != nil {
		t.Error("blank search should be dropped")
	}
}

func TestListBriefs_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input ListBriefsInput
		field string
	}{
		{"category", ListBriefsInput{Category: ptr("apocrypha")}, "category"},
		{"status", ListBriefsInput{Status: ptr("archived")}, "status"},
		{"limit too large", ListBriefsInput{Limit: 101}, "limit"},
		{"negative offset", ListBriefsInput{Offset: -1}, "offset"},
		{"long search", ListBriefsInput{Search: ptr(strings.Repeat("a", 201))}, "q"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestService(&briefRepoMock{})
			_, err := svc.ListBriefs(authCtx(uuid.New()), tt.input)
			assertValidationField(t, err, tt.field)
		})
	}
}

// ---------------------------------------------------------------------------
// CreateBrief
// ---------------------------------------------------------------------------

func TestCreateBrief_Defaults(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &briefRepoMock{
		CreateFunc: func(ctx context.Context, b *domain.Brief) (*domain.Brief, error) { return b, nil },
	}
	svc := newTestService(repo)

	got, err := svc.CreateBrief(authCtx(userID), CreateBriefInput{
		Title:       "  Grace  ",
		Description: ptr("   "),
		Category:    "sermon series",
	})
	if err != nil {
		t.Fatalf("CreateBrief: %v", err)
	}

	if got.UserID != userID {
		t.Error("brief must belong to the caller")
	}
	if got.Title != "Grace" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Description != nil {
		t.Errorf("blank description should be nil, got %q", *got.Description)
	}
	if got.Category != domain.CategoryTopical {
		t.Errorf("category = %s, want topical", got.Category)
	}
	if got.Status != domain.BriefStatusInProgress {
		t.Errorf("status = %s, want in-progress", got.Status)
	}
	if got.LinguisticInsights == nil || got.OutlinePoints == nil {
		t.Error("lists must default to empty, not nil")
	}
	if got.ID == uuid.Nil || !got.CreatedAt.Equal(svc.now()) {
		t.Errorf("id/created_at not set: %+v", got)
	}
}

func TestCreateBrief_ExplicitStatusAndCategory(t *testing.T) {
	t.Parallel()

	repo := &briefRepoMock{
		CreateFunc: func(ctx context.Context, b *domain.Brief) (*domain.Brief, error) { return b, nil },
	}
	svc := newTestService(repo)

	got, err := svc.CreateBrief(authCtx(uuid.New()), CreateBriefInput{
		Title:    "Genesis 1",
		Category: "old-testament",
		Status:   ptr("draft"),
	})
	if err != nil {
		t.Fatalf("CreateBrief: %v", err)
	}
	if got.Category != domain.CategoryOldTestament || got.Status != domain.BriefStatusDraft {
		t.Errorf("got %s/%s", got.Category, got.Status)
	}
}

func TestCreateBrief_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input CreateBriefInput
		field string
	}{
		{"empty title", CreateBriefInput{Title: "  "}, "title"},
		{"long title", CreateBriefInput{Title: strings.Repeat("x", 201)}, "title"},
		{"bad status", CreateBriefInput{Title: "t", Status: ptr("done")}, "status"},
		{"insight without term", CreateBriefInput{Title: "t", LinguisticInsights: []domain.LinguisticInsight{{Meaning: "m"}}}, "linguisticInsights"},
		{"point without title", CreateBriefInput{Title: "t", OutlinePoints: []domain.OutlinePoint{{Content: "c"}}}, "outlinePoints"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := &briefRepoMock{}
			_, err := newTestService(repo).CreateBrief(authCtx(uuid.New()), tt.input)
			assertValidationField(t, err, tt.field)
			if len(repo.calls.Create) != 0 {
				t.Error("repo must not be called")
			}
		})
	}
}

func TestCreateBrief_RepoError(t *testing.T) {
	t.Parallel()

	repo := &briefRepoMock{
		CreateFunc: func(ctx context.Context, b *domain.Brief) (*domain.Brief, error) {
			return nil, domain.ErrNotFound
		},
	}
	_, err := newTestService(repo).CreateBrief(authCtx(uuid.New()), CreateBriefInput{Title: "t"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v", err)
	}
}

// ---------------------------------------------------------------------------
// GetBrief / DeleteBrief
// ---------------------------------------------------------------------------

func TestGetBrief_ScopedToCaller(t *testing.T) {
	t.Parallel()

	userID, briefID := uuid.New(), uuid.New()
	repo := &briefRepoMock{
		GetByIDFunc: func(ctx context.Context, uid, id uuid.UUID) (*domain.Brief, error) {
			if uid != userID {
				return nil, domain.ErrNotFound
			}
			return &domain.Brief{ID: id, UserID: uid}, nil
		},
	}
	svc := newTestService(repo)

	if _, err := svc.GetBrief(authCtx(userID), briefID); err != nil {
		t.Fatalf("owner: %v", err)
	}
	if _, err := svc.GetBrief(authCtx(uuid.New()), briefID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("stranger: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetBrief(authCtx(userID), uuid.Nil); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("nil id: err = %v", err)
	}
}

func TestDeleteBrief(t *testing.T) {
	t.Parallel()

	userID, briefID := uuid.New(), uuid.New()
	repo := &briefRepoMock{
		DeleteFunc: func(ctx context.Context, uid, id uuid.UUID) error { return nil },
	}

	if err := newTestService(repo).DeleteBrief(authCtx(userID), briefID); err != nil {
		t.Fatalf("DeleteBrief: %v", err)
	}
	call := repo.calls.Delete[0]
	if call.UserID != userID || call.ID != briefID {
		t.Errorf("call = %+v", call)
	}
}

// ---------------------------------------------------------------------------
// UpdateBrief
// ---------------------------------------------------------------------------

func TestUpdateBrief_MapsParams(t *testing.T) {
	t.Parallel()

	userID, briefID := uuid.New(), uuid.New()
	repo := &briefRepoMock{
		UpdateFunc: func(ctx context.Context, uid, id uuid.UUID, p domain.BriefUpdateParams) (*domain.Brief, error) {
			return &domain.Brief{ID: id, UserID: uid}, nil
		},
	}

	_, err := newTestService(repo).UpdateBrief(authCtx(userID), UpdateBriefInput{
		BriefID:     briefID,
		Title:       ptr("  New title "),
		Description: ptr("   "),
		Bookmarked:  ptr(true),
		Status:      ptr("completed"),
	})
	if err != nil {
		t.Fatalf("UpdateBrief: %v", err)
	}

	call := repo.calls.Update[0]
	if call.UserID != userID || call.ID != briefID {
		t.Errorf("call ids = %v/%v", call.UserID, call.ID)
	}
	p := call.Params
	if p.Title == nil || *p.Title != "New title" {
		t.Errorf("title = %v", p.Title)
	}
	if p.Description == nil || *p.Description != "" {
		t.Errorf("blank description must clear, got %v", p.Description)
	}
	if p.Bookmarked == nil || !*p.Bookmarked {
		t.Error("bookmarked not passed")
	}
	if p.Status == nil || *p.Status != domain.BriefStatusCompleted {
		t.Errorf("status = %v", p.Status)
	}
}

func TestUpdateBrief_Validation(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	tests := []struct {
		name  string
		input UpdateBriefInput
		field string
	}{
		{"no id", UpdateBriefInput{Title: ptr("t")}, "brief_id"},
		{"no fields", UpdateBriefInput{BriefID: id}, "input"},
		{"empty title", UpdateBriefInput{BriefID: id, Title: ptr(" ")}, "title"},
		{"bad status", UpdateBriefInput{BriefID: id, Status: ptr("gone")}, "status"},
		{"long description", UpdateBriefInput{BriefID: id, Description: ptr(strings.Repeat("d", 2001))}, "description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := newTestService(&briefRepoMock{}).UpdateBrief(authCtx(uuid.New()), tt.input)
			assertValidationField(t, err, tt.field)
		})
	}
}

// ---------------------------------------------------------------------------
// ExportBrief
// ---------------------------------------------------------------------------

func TestExportBrief(t *testing.T) {
	t.Parallel()

	repo := &briefRepoMock{
		GetByIDFunc: func(ctx context.Context, uid, id uuid.UUID) (*domain.Brief, error) {
			return &domain.Brief{ID: id, UserID: uid, Title: "Psalm 23", Category: domain.CategoryOldTestament}, nil
		},
	}
	svc := newTestService(repo)
	ctx := authCtx(uuid.New())

	md, err := svc.ExportBrief(ctx, ExportBriefInput{BriefID: uuid.New()})
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	if md.Format != render.FormatMarkdown || !strings.HasPrefix(string(md.Body), "# Psalm 23") {
		t.Errorf("markdown export = %s %q", md.Format, md.Body)
	}

	html, err := svc.ExportBrief(ctx, ExportBriefInput{BriefID: uuid.New(), Format: "html"})
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	if html.Format != render.FormatHTML || !strings.Contains(string(html.Body), "<h1>Psalm 23</h1>") {
		t.Errorf("html export = %s %q", html.Format, html.Body)
	}
}

func TestExportBrief_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := newTestService(&briefRepoMock{}).ExportBrief(authCtx(uuid.New()), ExportBriefInput{BriefID: uuid.New(), Format: "pdf"})
	assertValidationField(t, err, "format")
}
