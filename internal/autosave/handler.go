package autosave

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vetfinder-my/platform/internal/directory"
	"github.com/vetfinder-my/platform/internal/observability/metrics"
	"github.com/vetfinder-my/platform/pkg/logging"
)

// Handler exposes admin edit sessions over HTTP. One controller is kept
// per clinic being edited; closing the session cancels its debounce timer.
type Handler struct {
	repo    directory.Repository
	logger  *logging.Logger
	metrics *metrics.AutosaveMetrics
	cfg     Config

	mu       sync.Mutex
	sessions map[uuid.UUID]*Controller
}

// NewHandler creates the draft session handler.
func NewHandler(repo directory.Repository, cfg Config, logger *logging.Logger, m *metrics.AutosaveMetrics) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	cfg.Logger = logger
	cfg.Metrics = m
	return &Handler{
		repo:     repo,
		logger:   logger,
		metrics:  m,
		cfg:      cfg,
		sessions: make(map[uuid.UUID]*Controller),
	}
}

// Routes returns the draft session routes, mounted under a clinic path.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/{clinicID}/draft", h.Open)
	r.Get("/{clinicID}/draft", h.State)
	r.Patch("/{clinicID}/draft", h.Edit)
	r.Post("/{clinicID}/draft/save", h.Save)
	r.Post("/{clinicID}/draft/reset", h.Reset)
	r.Delete("/{clinicID}/draft", h.Close)
	return r
}

type sessionView struct {
	State       State             `json:"state"`
	Dirty       bool              `json:"dirty"`
	Draft       directory.Clinic  `json:"draft"`
	Errors      []FieldError      `json:"errors,omitempty"`
	SaveError   string            `json:"save_error,omitempty"`
	LastSavedAt *time.Time        `json:"last_saved_at,omitempty"`
}

func view(c *Controller) sessionView {
	v := sessionView{
		State:  c.State(),
		Dirty:  c.Dirty(),
		Draft:  c.Draft(),
		Errors: c.Errors(),
	}
	if err := c.LastError(); err != nil {
		v.SaveError = err.Error()
	}
	if at, ok := c.LastSavedAt(); ok {
		v.LastSavedAt = &at
	}
	return v
}

// Open loads the clinic and starts an edit session. Reopening an existing
// session discards the previous draft.
// POST /admin/clinics/{clinicID}/draft
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	id, ok := h.clinicID(w, r)
	if !ok {
		return
	}

	clinic, err := h.repo.SelectByID(r.Context(), id)
	if errors.Is(err, directory.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "clinic not found")
		return
	}
	if err != nil {
		h.logger.Error("autosave: load clinic for draft", "clinic_id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	ctrl := NewController(*clinic, NewRepositorySaver(h.repo), h.cfg)

	h.mu.Lock()
	if prev, ok := h.sessions[id]; ok {
		prev.Close()
	}
	h.sessions[id] = ctrl
	h.mu.Unlock()

	h.logger.Info("autosave: draft session opened", "clinic_id", id)
	h.writeJSON(w, http.StatusCreated, view(ctrl))
}

// State returns the session's current draft, state, and errors.
// GET /admin/clinics/{clinicID}/draft
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, view(ctrl))
}

// Edit applies field changes to the draft. Each request counts as one
// edit event and re-arms the debounce timer.
// PATCH /admin/clinics/{clinicID}/draft
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}

	var patch directory.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctrl.Edit(func(d *directory.Clinic) { patch.Apply(d) })
	h.writeJSON(w, http.StatusOK, view(ctrl))
}

// Save persists the draft immediately, bypassing the debounce timer.
// POST /admin/clinics/{clinicID}/draft/save
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}

	err := ctrl.Save(r.Context())
	switch {
	case errors.Is(err, ErrSaveInFlight):
		h.writeError(w, http.StatusConflict, "save already in progress")
	case errors.Is(err, ErrValidationFailed):
		h.writeJSON(w, http.StatusUnprocessableEntity, view(ctrl))
	case err != nil:
		h.logger.Error("autosave: manual save", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to save draft")
	default:
		h.writeJSON(w, http.StatusOK, view(ctrl))
	}
}

// Reset restores the draft to the last persisted snapshot.
// POST /admin/clinics/{clinicID}/draft/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	ctrl.Reset()
	h.writeJSON(w, http.StatusOK, view(ctrl))
}

// Close ends the session and cancels any pending debounce timer. An
// in-flight save is left to finish.
// DELETE /admin/clinics/{clinicID}/draft
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	id, ok := h.clinicID(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	ctrl, ok := h.sessions[id]
	if ok {
		delete(h.sessions, id)
	}
	h.mu.Unlock()

	if ok {
		ctrl.Close()
		h.logger.Info("autosave: draft session closed", "clinic_id", id)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Controller, bool) {
	id, ok := h.clinicID(w, r)
	if !ok {
		return nil, false
	}
	h.mu.Lock()
	ctrl, found := h.sessions[id]
	h.mu.Unlock()
	if !found {
		h.writeError(w, http.StatusNotFound, "no draft session for clinic")
		return nil, false
	}
	return ctrl, true
}

func (h *Handler) clinicID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "clinicID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid clinic id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("autosave: encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
