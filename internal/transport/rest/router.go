package rest

import (
	"net/http"

	"github.com/heartmarshall/exegesis-backend/internal/transport/middleware"
)

// RouterDeps are the handlers and middleware the router mounts.
type RouterDeps struct {
	Health  *HealthHandler
	Webhook *WebhookHandler
	Briefs  *BriefHandler
	Account *AccountHandler

	// Global wraps every route, outermost first.
	Global []middleware.Middleware
	// API wraps the authenticated /api routes. The webhook route gets
	// only Global: it must answer 200 to every delivery.
	API []middleware.Middleware

	WebhookPath string
}

// DefaultWebhookPath is where Telegram posts updates.
const DefaultWebhookPath = "/telegram/webhook"

// NewRouter builds the HTTP handler for the service.
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", d.Health.Live)
	mux.HandleFunc("GET /ready", d.Health.Ready)
	mux.HandleFunc("GET /health", d.Health.Health)

	path := d.WebhookPath
	if path == "" {
		path = DefaultWebhookPath
	}
	mux.HandleFunc("POST "+path, d.Webhook.Handle)

	api := middleware.Chain(d.API...)
	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, api(h))
	}

	handle("GET /api/briefs", d.Briefs.List)
	handle("POST /api/briefs", d.Briefs.Create)
	handle("GET /api/briefs/{id}", d.Briefs.Get)
	handle("PATCH /api/briefs/{id}", d.Briefs.Update)
	handle("DELETE /api/briefs/{id}", d.Briefs.Delete)
	handle("GET /api/briefs/{id}/export", d.Briefs.Export)

	handle("GET /api/account", d.Account.Get)
	handle("POST /api/account/telegram", d.Account.LinkTelegram)

	return middleware.Chain(d.Global...)(mux)
}
