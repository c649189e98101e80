package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
	"github.com/heartmarshall/exegesis-backend/internal/service/account"
)

type accountService interface {
	GetAccount(ctx context.Context) (*domain.Account, error)
	LinkTelegram(ctx context.Context, input account.LinkTelegramInput) (*account.LinkResult, error)
}

// AccountHandler serves the account REST endpoints.
type AccountHandler struct {
	svc accountService
	log *slog.Logger
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(svc accountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{svc: svc, log: logger.With("handler", "account")}
}

type accountResponse struct {
	ID             string    `json:"id"`
	Name           *string   `json:"name"`
	Email          *string   `json:"email"`
	TelegramChatID *string   `json:"telegramChatId"`
	CreatedAt      time.Time `json:"createdAt"`
}

type linkTelegramRequest struct {
	TelegramChatID string `json:"telegramChatId"`
}

type linkTelegramResponse struct {
	Account         accountResponse `json:"account"`
	MergedAccountID *string         `json:"mergedAccountId,omitempty"`
	MovedBriefs     int64           `json:"movedBriefs"`
}

// Get handles GET /api/account.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	acc, err := h.svc.GetAccount(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(acc))
}

// LinkTelegram handles POST /api/account/telegram.
func (h *AccountHandler) LinkTelegram(w http.ResponseWriter, r *http.Request) {
	var req linkTelegramRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.LinkTelegram(r.Context(), account.LinkTelegramInput{TelegramChatID: req.TelegramChatID})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := linkTelegramResponse{Account: toAccountResponse(res.Account), MovedBriefs: res.MovedBriefs}
	if res.MergedAccountID != nil {
		id := res.MergedAccountID.String()
		resp.MergedAccountID = &id
	}
	writeJSON(w, http.StatusOK, resp)
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:             a.ID.String(),
		Name:           a.Name,
		Email:          a.Email,
		TelegramChatID: a.TelegramChatID,
		CreatedAt:      a.CreatedAt,
	}
}
