package directory

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vetfinder-my/platform/internal/identity"
	"github.com/vetfinder-my/platform/internal/observability/metrics"
	"github.com/vetfinder-my/platform/internal/search"
	"github.com/vetfinder-my/platform/pkg/logging"
)

// Handler provides the public directory and admin CRUD endpoints.
type Handler struct {
	repo    Repository
	stats   *StatsRepository
	logger  *logging.Logger
	metrics *metrics.DirectoryMetrics
}

// NewHandler creates a directory HTTP handler. stats and m may be nil.
func NewHandler(repo Repository, stats *StatsRepository, logger *logging.Logger, m *metrics.DirectoryMetrics) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, stats: stats, logger: logger, metrics: m}
}

// PublicRoutes returns the read-only directory routes.
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/search", h.List)
	r.Get("/{clinicID}", h.Get)
	r.Get("/{clinicID}/status", h.Status)
	return r
}

// AdminRoutes returns the CRUD routes. The router mounts these behind
// admin authentication.
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/stats", h.Stats)
	r.Get("/{clinicID}", h.Get)
	r.Patch("/{clinicID}", h.Update)
	r.Delete("/{clinicID}", h.Delete)
	return r
}

// List returns the filtered, ordered directory view.
// GET /clinics?q=...&state=...&city=...&emergency=...&services=...&sort=...&direction=...
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	caller := identity.FromContext(r.Context())

	all, err := h.repo.SelectAll(r.Context())
	if err != nil {
		h.logger.Error("directory: list clinics", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	visible := all[:0:0]
	for _, c := range all {
		if identity.Can(caller, identity.ActionRead, resourceOf(c)) {
			visible = append(visible, c)
		}
	}

	filter := filterFromQuery(r)
	out := search.Search(visible, filter)

	if key := r.URL.Query().Get("sort"); key != "" {
		dir := search.Ascending
		if r.URL.Query().Get("direction") == string(search.Descending) {
			dir = search.Descending
		}
		out = search.Sort(out, search.SortKey(key), dir)
	} else {
		out = search.ApplyBoosts(out, filter.Query)
	}

	h.metrics.ObserveSearch(filter.Query != "", time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, out)
}

// Get returns one clinic.
// GET /clinics/{clinicID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadClinic(w, r)
	if !ok {
		return
	}
	if !identity.Can(identity.FromContext(r.Context()), identity.ActionRead, resourceOf(*c)) {
		// Unlisted records look the same as missing ones to the public.
		writeError(w, http.StatusNotFound, "clinic not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Status evaluates a clinic's open/closed/emergency status.
// GET /clinics/{clinicID}/status?at=RFC3339
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadClinic(w, r)
	if !ok {
		return
	}
	if !identity.Can(identity.FromContext(r.Context()), identity.ActionRead, resourceOf(*c)) {
		writeError(w, http.StatusNotFound, "clinic not found")
		return
	}

	at := time.Now()
	if raw := r.URL.Query().Get("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid at timestamp")
			return
		}
		at = parsed
	}

	res := c.StatusAt(at)
	h.metrics.ObserveStatus(string(res.Status))
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      res.Status,
		"message":     res.Message,
		"today_hours": c.TodayHoursAt(at),
	})
}

// Create inserts a new clinic record.
// POST /admin/clinics
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller := identity.FromContext(r.Context())
	if !identity.Can(caller, identity.ActionCreate, identity.Resource{}) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	var c Clinic
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	c.ID = uuid.Nil // identity is assigned by the store

	created, err := h.repo.Insert(r.Context(), c)
	if err != nil {
		h.logger.Error("directory: create clinic", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create clinic")
		return
	}

	h.logger.Info("directory: clinic created", "clinic_id", created.ID, "name", created.Name, "by", caller.Subject)
	writeJSON(w, http.StatusCreated, created)
}

// Update applies a partial update.
// PATCH /admin/clinics/{clinicID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := clinicID(w, r)
	if !ok {
		return
	}
	caller := identity.FromContext(r.Context())
	if !identity.Can(caller, identity.ActionUpdate, identity.Resource{}) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if patch.VerificationStatus != nil {
		if !patch.VerificationStatus.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid verification_status")
			return
		}
		if !identity.Can(caller, identity.ActionVerify, identity.Resource{}) {
			writeError(w, http.StatusForbidden, "verification changes require admin access")
			return
		}
	}

	updated, err := h.repo.Update(r.Context(), id, patch)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "clinic not found")
		return
	}
	if err != nil {
		h.logger.Error("directory: update clinic", "clinic_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update clinic")
		return
	}

	h.logger.Info("directory: clinic updated", "clinic_id", id, "by", caller.Subject)
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a clinic record.
// DELETE /admin/clinics/{clinicID}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := clinicID(w, r)
	if !ok {
		return
	}
	caller := identity.FromContext(r.Context())
	if !identity.Can(caller, identity.ActionDelete, identity.Resource{}) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	err := h.repo.Delete(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "clinic not found")
		return
	}
	if err != nil {
		h.logger.Error("directory: delete clinic", "clinic_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete clinic")
		return
	}

	h.logger.Info("directory: clinic deleted", "clinic_id", id, "by", caller.Subject)
	w.WriteHeader(http.StatusNoContent)
}

// Stats returns directory counts for the admin dashboard.
// GET /admin/clinics/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.stats == nil {
		writeError(w, http.StatusNotFound, "stats not configured")
		return
	}
	stats, err := h.stats.GetStats(r.Context())
	if err != nil {
		h.logger.Error("directory: stats", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) loadClinic(w http.ResponseWriter, r *http.Request) (*Clinic, bool) {
	id, ok := clinicID(w, r)
	if !ok {
		return nil, false
	}
	c, err := h.repo.SelectByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "clinic not found")
		return nil, false
	}
	if err != nil {
		h.logger.Error("directory: load clinic", "clinic_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	return c, true
}

func clinicID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "clinicID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid clinic id")
		return uuid.Nil, false
	}
	return id, true
}

func resourceOf(c Clinic) identity.Resource {
	return identity.Resource{
		Verified: c.VerificationStatus == VerificationVerified,
		Archived: c.Archived(),
	}
}

func filterFromQuery(r *http.Request) search.Filter {
	q := r.URL.Query()
	f := search.Filter{
		Query:           q.Get("q"),
		State:           q.Get("state"),
		City:            q.Get("city"),
		Services:        splitParam(q.Get("services")),
		Specializations: splitParam(q.Get("specializations")),
		Animals:         splitParam(q.Get("animals")),
	}
	if raw := q.Get("emergency"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			f.Emergency = &v
		}
	}
	return f
}

func splitParam(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
