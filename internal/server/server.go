// Package server exposes the HTTP surface of a running bot: the Telegram webhook,
// health and metrics endpoints, and read-only session introspection.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/tinderbolt/internal/logging"
	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// WebhookPath is where Telegram delivers updates in webhook mode.
const WebhookPath = "/webhook"

// Sessions is the read side of the session store.
type Sessions interface {
	Get(userID int64) (domain.Snapshot, error)
	List() []int64
}

// Options wires the optional parts of the surface.
type Options struct {
	Sessions Sessions     // Serves /sessions when set
	Webhook  http.Handler // Serves WebhookPath when set
	Metrics  http.Handler // Serves /metrics when set
	Redact   bool         // Masks user text in /sessions/{userID}
	Logger   *slog.Logger
}

// NewHandler builds the router.
func NewHandler(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	})

	if opts.Webhook != nil {
		r.Post(WebhookPath, opts.Webhook.ServeHTTP)
	}
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	if opts.Sessions != nil {
		h := &sessionHandler{sessions: opts.Sessions, redact: opts.Redact, logger: logger}
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", h.list)
			r.Get("/{userID}", h.get)
		})
	}
	return r
}

type sessionHandler struct {
	sessions Sessions
	redact   bool
	logger   *slog.Logger
}

func (h *sessionHandler) list(w http.ResponseWriter, r *http.Request) {
	ids := h.sessions.List()
	if ids == nil {
		ids = []int64{}
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"sessions": ids})
}

func (h *sessionHandler) get(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}
	snap, err := h.sessions.Get(userID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if h.redact {
		snap = snap.Redacted()
	}
	writeJSON(w, h.logger, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("response encode error", "err", err)
	}
}
