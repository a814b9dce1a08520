package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/CBIIT/ccdi-dcc-federation-service/app"
	"github.com/CBIIT/ccdi-dcc-federation-service/config"
	"github.com/CBIIT/ccdi-dcc-federation-service/ports"
)

// Handler provides the JSON API endpoints.
type Handler struct {
	transformer *app.Transformer
	rules       *config.RulesHolder
	store       ports.DocumentStore
	ids         ports.IDGenerator
	metrics     ports.TransformMetrics
	logger      zerolog.Logger
	version     string
}

// NewHandler creates the API handler. store, ids, and metrics may be nil
// when the corresponding endpoints are not served.
func NewHandler(
	transformer *app.Transformer,
	rules *config.RulesHolder,
	store ports.DocumentStore,
	ids ports.IDGenerator,
	m ports.TransformMetrics,
	logger zerolog.Logger,
	version string,
) *Handler {
	return &Handler{
		transformer: transformer,
		rules:       rules,
		store:       store,
		ids:         ids,
		metrics:     m,
		logger:      logger,
		version:     version,
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// Info reports service identity and the active snapshot size.
func (h *Handler) Info(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":         "ccdi-dcc-federation-service",
		"version":      h.version,
		"active_rules": h.rules.Get().Len(),
	})
}

// Transform applies the active rule snapshot to the request body and
// returns the mutated document.
func (h *Handler) Transform(w http.ResponseWriter, r *http.Request) {
	doc, ok := decodeDocument(w, r)
	if !ok {
		return
	}
	result := h.transformer.Apply(doc, h.rules.Get())
	writeJSON(w, http.StatusOK, result)
}

// Rules summarizes the active rule snapshot.
func (h *Handler) Rules(w http.ResponseWriter, _ *http.Request) {
	rs := h.rules.Get()
	writeJSON(w, http.StatusOK, map[string]any{
		"count": rs.Len(),
		"ids":   rs.IDs(),
	})
}

// ReloadRules republishes the snapshot from the rule file. A rejected
// file leaves the previous snapshot active and reports the validation
// failure to the caller.
func (h *Handler) ReloadRules(w http.ResponseWriter, _ *http.Request) {
	err := h.rules.Reload()
	if h.metrics != nil {
		h.metrics.RulesReloaded(err == nil)
	}
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	rs := h.rules.Get()
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "reloaded",
		"count":  rs.Len(),
	})
}

// CreateDocument ingests a document into the store and assigns it an id.
func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotImplemented, "document store not configured")
		return
	}
	doc, ok := decodeDocument(w, r)
	if !ok {
		return
	}

	id := h.ids.New()
	if err := h.store.Put(r.Context(), id, doc); err != nil {
		h.logger.Error().Err(err).Msg("store document")
		writeError(w, http.StatusInternalServerError, "store document")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

// GetDocument returns a stored document unmodified.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, r, false)
}

// GetTransformedDocument returns a stored document with the active rule
// snapshot applied.
func (h *Handler) GetTransformedDocument(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, r, true)
}

func (h *Handler) serveDocument(w http.ResponseWriter, r *http.Request, transformed bool) {
	if h.store == nil {
		writeError(w, http.StatusNotImplemented, "document store not configured")
		return
	}

	id := chi.URLParam(r, "id")
	doc, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		h.logger.Error().Err(err).Str("id", id).Msg("fetch document")
		writeError(w, http.StatusInternalServerError, "fetch document")
		return
	}

	if transformed {
		doc = h.transformer.Apply(doc, h.rules.Get())
	}
	writeJSON(w, http.StatusOK, doc)
}

// decodeDocument decodes the request body as a single JSON value. A
// body that is not valid JSON is the caller's error; the engine itself
// never sees it.
func decodeDocument(w http.ResponseWriter, r *http.Request) (any, bool) {
	var doc any
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON document")
		return nil, false
	}
	return doc, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
