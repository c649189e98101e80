package rest

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-telegram/bot/models"

	"github.com/heartmarshall/exegesis-backend/internal/adapter/telegram"
	"github.com/heartmarshall/exegesis-backend/internal/domain"
	"github.com/heartmarshall/exegesis-backend/internal/service/bot"
	"github.com/heartmarshall/exegesis-backend/pkg/ctxutil"
)

// SecretTokenHeader carries the secret_token registered with setWebhook.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

type updateHandler interface {
	HandleUpdate(ctx context.Context, ev domain.InboundEvent) bot.Result
}

// WebhookHandler receives Telegram updates.
type WebhookHandler struct {
	bot    updateHandler
	secret string
	log    *slog.Logger
}

// NewWebhookHandler creates a WebhookHandler. An empty secret disables the
// secret token check.
func NewWebhookHandler(bot updateHandler, secret string, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{bot: bot, secret: secret, log: logger.With("handler", "webhook")}
}

type webhookAck struct {
	OK bool `json:"ok"`
}

// Handle serves POST /telegram/webhook. It always acknowledges with 200 so
// Telegram does not redeliver; requests with a wrong secret, undecodable
// bodies and updates without a message are dropped.
//
// The update is processed before responding, on a context that survives the
// client disconnecting.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	defer writeJSON(w, http.StatusOK, webhookAck{OK: true})

	if !h.authorized(r) {
		h.log.WarnContext(r.Context(), "webhook secret mismatch", slog.String("remote_addr", r.RemoteAddr))
		return
	}

	var upd models.Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&upd); err != nil {
		h.log.WarnContext(r.Context(), "undecodable update", slog.String("error", err.Error()))
		return
	}

	ev, ok := telegram.Event(&upd)
	if !ok {
		h.log.DebugContext(r.Context(), "update ignored", slog.Int64("update_id", upd.ID))
		return
	}

	ctx := ctxutil.WithUpdateID(context.WithoutCancel(r.Context()), upd.ID)
	res := h.bot.HandleUpdate(ctx, ev)
	h.log.DebugContext(r.Context(), "update handled",
		slog.Int64("update_id", upd.ID),
		slog.String("outcome", string(res.Outcome)),
	)
}

func (h *WebhookHandler) authorized(r *http.Request) bool {
	if h.secret == "" {
		return true
	}
	got := r.Header.Get(SecretTokenHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) == 1
}
