// Package webhook exposes the HTTP endpoint Strava delivers push
// notifications to, plus the one-time subscription validation handshake.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"example.com/strava-import/internal/domain"
	"example.com/strava-import/internal/importer"
	"example.com/strava-import/internal/output"
)

// Importer runs one activity import. Outcomes are absorbed here: whatever
// happens during orchestration, Strava gets a success acknowledgment, because
// repeated non-2xx responses make it disable the subscription.
type Importer interface {
	Import(ctx context.Context, id domain.ActivityID, progress output.Sink) importer.Outcome
}

// Option configures optional behaviour for the Handler.
type Option func(*Handler)

// WithLogger overrides the handler's logger.
func WithLogger(logger *log.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// Handler coordinates webhook HTTP requests with the import pipeline.
type Handler struct {
	verifyToken string
	importer    Importer
	logger      *log.Logger
}

// NewHandler builds a Handler. verifyToken may be empty, in which case the
// handshake reports a server-side misconfiguration instead of validating.
func NewHandler(verifyToken string, imp Importer, opts ...Option) *Handler {
	h := &Handler{
		verifyToken: verifyToken,
		importer:    imp,
		logger:      log.New(log.Writer(), "[webhook] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/webhook/strava", h.webhook)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) webhook(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.validate(w, r)
	case http.MethodPost:
		h.notify(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

// validate handles Strava's one-time GET subscription handshake: echo the
// challenge back when the mode is "subscribe" and the verify token matches.
func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	h.logger.Printf("received webhook validation request")

	q := r.URL.Query()
	mode := queryParam(q, "hub_mode", "hub.mode")
	token := queryParam(q, "hub_verify_token", "hub.verify_token")
	challenge := queryParam(q, "hub_challenge", "hub.challenge")

	if h.verifyToken == "" {
		h.logger.Printf("webhook verify token is not configured")
		recordHandshake("misconfigured")
		writeError(w, http.StatusInternalServerError, "server_error", "webhook not configured")
		return
	}

	if mode == "subscribe" && token == h.verifyToken {
		h.logger.Printf("webhook validation successful")
		recordHandshake("validated")
		writeJSON(w, http.StatusOK, map[string]string{"hub.challenge": challenge})
		return
	}

	h.logger.Printf("webhook validation failed (mode=%q)", mode)
	recordHandshake("rejected")
	writeError(w, http.StatusForbidden, "forbidden", "webhook validation failed")
}

// notify handles Strava's POST notification. Only malformed payloads produce
// a non-200 response; every other path, including import failures, must still
// acknowledge delivery.
func (h *Handler) notify(w http.ResponseWriter, r *http.Request) {
	var event Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		h.logger.Printf("unable to decode webhook payload: %v", err)
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	if err := event.Validate(); err != nil {
		h.logger.Printf("webhook payload missing required fields: %v", err)
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	recordEvent(event.ObjectType, event.AspectType)

	if !event.IsActivityCreation() {
		h.logger.Printf("ignoring %s/%s event for object %d", event.ObjectType, event.AspectType, event.ObjectID)
		writeOK(w)
		return
	}

	id := domain.ActivityID(event.ObjectID)
	deliveryID := uuid.NewString()
	h.logger.Printf("new activity received via webhook: %s (delivery %s)", id, deliveryID)

	sink := output.NewLogSink(h.logger, deliveryID)
	outcome := h.importer.Import(r.Context(), id, sink)
	switch outcome.Kind {
	case importer.OutcomeFailed:
		// already logged by the importer; acknowledged anyway
		h.logger.Printf("import of activity %s failed (delivery %s)", id, deliveryID)
	default:
		h.logger.Printf("import of activity %s finished: %s (delivery %s)", id, outcome.Kind, deliveryID)
	}

	writeOK(w)
}

// Event is the decoded notification payload.
type Event struct {
	ObjectType     string            `json:"object_type"`
	AspectType     string            `json:"aspect_type"`
	ObjectID       int64             `json:"object_id"`
	OwnerID        int64             `json:"owner_id"`
	SubscriptionID int64             `json:"subscription_id"`
	EventTime      int64             `json:"event_time"`
	Updates        map[string]string `json:"updates"`
}

// Validate ensures the three required fields are present and non-empty.
// Unrecognised object/aspect values are preserved, not rejected; deciding
// what to do with them is the endpoint's job.
func (e Event) Validate() error {
	if strings.TrimSpace(e.ObjectType) == "" {
		return errors.New("object_type is required")
	}
	if strings.TrimSpace(e.AspectType) == "" {
		return errors.New("aspect_type is required")
	}
	if e.ObjectID == 0 {
		return errors.New("object_id is required")
	}
	return nil
}

// IsActivityCreation reports whether the event announces a newly created
// activity, the only kind this service imports.
func (e Event) IsActivityCreation() bool {
	return e.ObjectType == "activity" && e.AspectType == "create"
}

// queryParam reads the first present key. Strava documents the dotted form
// (hub.mode) while some proxies rewrite it to underscores, so both spellings
// are accepted.
func queryParam(q url.Values, keys ...string) string {
	for _, key := range keys {
		if q.Has(key) {
			return q.Get(key)
		}
	}
	return ""
}

func writeOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
