// Package autosave manages the dirty/clean editing lifecycle of a single
// clinic draft: trailing-edge debounced persistence, a validation gate, and
// at most one save in flight at a time.
package autosave

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/vetfinder-my/platform/internal/directory"
	"github.com/vetfinder-my/platform/internal/observability/metrics"
	"github.com/vetfinder-my/platform/pkg/logging"
)

// State is the controller's lifecycle state.
type State string

const (
	StateClean  State = "clean"
	StateDirty  State = "dirty"
	StateSaving State = "saving"
	StateSaved  State = "saved"
	StateError  State = "error"
)

var (
	// ErrSaveInFlight is returned when a manual save is requested while a
	// save is already outstanding.
	ErrSaveInFlight = errors.New("autosave: save already in flight")
	// ErrValidationFailed is returned when a save attempt is blocked by
	// validation. Field details are available via Errors.
	ErrValidationFailed = errors.New("autosave: draft failed validation")
)

// Saver persists the latest draft. Implementations must surface store
// failures as errors; directory.ErrNotFound indicates the record was
// deleted elsewhere.
type Saver interface {
	Save(ctx context.Context, draft directory.Clinic) (*directory.Clinic, error)
}

// timerHandle lets tests substitute the debounce and revert timers.
type timerHandle interface {
	Stop() bool
}

// Config tunes a Controller. Zero values get the defaults below.
type Config struct {
	// Debounce is the quiet period after the last edit before an
	// automatic save fires. Default 3s.
	Debounce time.Duration
	// SavedDisplay is how long the saved state is shown before reverting
	// to clean. Default 2s.
	SavedDisplay time.Duration
	// SaveTimeout bounds a single persistence call. Default 10s.
	SaveTimeout time.Duration
	// DisableAutosave turns the debounce cycle off; only manual Save
	// persists the draft.
	DisableAutosave bool

	Validate func(directory.Clinic) []FieldError
	Logger   *logging.Logger
	Metrics  *metrics.AutosaveMetrics

	// newTimer overrides timer construction in tests.
	newTimer func(d time.Duration, f func()) timerHandle
}

// Controller owns an editable draft of one clinic record.
type Controller struct {
	mu sync.Mutex

	saver    Saver
	validate func(directory.Clinic) []FieldError
	logger   *logging.Logger
	metrics  *metrics.AutosaveMetrics

	debounce     time.Duration
	savedDisplay time.Duration
	saveTimeout  time.Duration
	autosave     bool
	newTimer     func(d time.Duration, f func()) timerHandle

	draft    directory.Clinic
	snapshot directory.Clinic

	state       State
	dirty       bool
	errs        []FieldError
	saveErr     error
	inFlight    bool
	editSeq     uint64
	lastSavedAt time.Time
	closed      bool

	debounceTimer timerHandle
	revertTimer   timerHandle
}

// NewController creates a controller for an already-loaded clinic record.
func NewController(c directory.Clinic, saver Saver, cfg Config) *Controller {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 3 * time.Second
	}
	if cfg.SavedDisplay <= 0 {
		cfg.SavedDisplay = 2 * time.Second
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = 10 * time.Second
	}
	if cfg.Validate == nil {
		cfg.Validate = Validate
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.newTimer == nil {
		cfg.newTimer = func(d time.Duration, f func()) timerHandle {
			return time.AfterFunc(d, f)
		}
	}
	return &Controller{
		saver:        saver,
		validate:     cfg.Validate,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		debounce:     cfg.Debounce,
		savedDisplay: cfg.SavedDisplay,
		saveTimeout:  cfg.SaveTimeout,
		autosave:     !cfg.DisableAutosave,
		newTimer:     cfg.newTimer,
		draft:        cloneClinic(c),
		snapshot:     cloneClinic(c),
		state:        StateClean,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dirty reports whether the draft differs from the last persisted snapshot.
func (c *Controller) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// Draft returns a copy of the current draft values.
func (c *Controller) Draft() directory.Clinic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneClinic(c.draft)
}

// Errors returns the field-tagged validation errors from the last blocked
// save attempt.
func (c *Controller) Errors() []FieldError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.errs)
}

// FieldError looks up the validation message for one field.
func (c *Controller) FieldError(field string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, fe := range c.errs {
		if fe.Field == field {
			return fe.Message, true
		}
	}
	return "", false
}

// LastError returns the persistence error from the last failed save.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveErr
}

// LastSavedAt reports when the draft was last persisted.
func (c *Controller) LastSavedAt() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSavedAt, !c.lastSavedAt.IsZero()
}

// Edit applies one field mutation to the draft, marks it dirty, and
// re-arms the debounce timer. The timer always measures quiet time since
// the most recent edit.
func (c *Controller) Edit(mutate func(*directory.Clinic)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	mutate(&c.draft)
	c.editSeq++
	c.dirty = true

	switch c.state {
	case StateClean, StateSaved:
		c.state = StateDirty
		c.stopRevertLocked()
	case StateSaving:
		// The in-flight save carries the older captured value; this edit
		// waits for the next debounce cycle after it resolves.
	}
	c.armDebounceLocked()
}

// Save runs an immediate save, bypassing the debounce timer. It is
// rejected while another save is in flight and is a no-op on a clean
// draft. ErrValidationFailed means nothing was persisted.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	if c.inFlight {
		return ErrSaveInFlight
	}
	if !c.dirty {
		return nil
	}
	c.stopDebounceLocked()
	return c.beginSaveLocked(ctx)
}

// Reset restores the draft to the last-loaded-or-saved snapshot, clears
// all errors, and returns to clean.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.draft = cloneClinic(c.snapshot)
	c.editSeq++
	c.dirty = false
	c.errs = nil
	c.saveErr = nil
	c.state = StateClean
	c.stopDebounceLocked()
	c.stopRevertLocked()
}

// Close cancels the pending debounce timer. An in-flight save is left to
// finish; its network call is not cancelled.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopDebounceLocked()
	c.stopRevertLocked()
}

func (c *Controller) armDebounceLocked() {
	if !c.autosave {
		return
	}
	c.stopDebounceLocked()
	c.debounceTimer = c.newTimer(c.debounce, c.debounceFired)
}

func (c *Controller) stopDebounceLocked() {
	if c.debounceTimer != nil {
		c.debounceTimer.Stop()
		c.debounceTimer = nil
	}
}

func (c *Controller) stopRevertLocked() {
	if c.revertTimer != nil {
		c.revertTimer.Stop()
		c.revertTimer = nil
	}
}

func (c *Controller) debounceFired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.autosave || !c.dirty {
		return
	}
	if c.inFlight {
		// Deferred: when the outstanding save resolves, the dirty draft
		// re-arms its own debounce cycle.
		return
	}
	if err := c.beginSaveLocked(context.Background()); err != nil && !errors.Is(err, ErrValidationFailed) {
		c.logger.Error("autosave: debounce save failed to start", "error", err)
	}
}

// beginSaveLocked validates the draft and, when clean of violations,
// launches exactly one persistence call.
func (c *Controller) beginSaveLocked(ctx context.Context) error {
	if errs := c.validate(c.draft); len(errs) > 0 {
		c.errs = errs
		c.state = StateError
		c.metrics.ObserveSave("validation_failed")
		return ErrValidationFailed
	}
	c.errs = nil
	c.saveErr = nil
	c.state = StateSaving
	c.inFlight = true

	captured := cloneClinic(c.draft)
	seq := c.editSeq
	go c.runSave(ctx, captured, seq)
	return nil
}

func (c *Controller) runSave(ctx context.Context, captured directory.Clinic, seq uint64) {
	sctx, cancel := context.WithTimeout(ctx, c.saveTimeout)
	defer cancel()
	saved, err := c.saver.Save(sctx, captured)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if err != nil {
		c.saveErr = err
		c.metrics.ObserveSave("error")
		c.logger.Error("autosave: save failed", "clinic_id", captured.ID, "error", err)
		if c.dirty {
			// The draft stays dirty so the user can retry, manually or
			// through the next debounce cycle.
			c.state = StateError
			if c.editSeq != seq {
				c.armDebounceLocked()
			}
		}
		return
	}

	c.snapshot = cloneClinic(*saved)
	c.lastSavedAt = time.Now().UTC()
	c.metrics.ObserveSave("saved")
	c.logger.Info("autosave: draft saved", "clinic_id", saved.ID)

	if c.editSeq != seq {
		// Edits arrived during the round-trip; they were not part of this
		// save and wait for their own debounce cycle.
		if c.dirty {
			c.state = StateDirty
			c.armDebounceLocked()
		}
		return
	}

	c.dirty = false
	c.state = StateSaved
	c.stopRevertLocked()
	c.revertTimer = c.newTimer(c.savedDisplay, c.revertFired)
}

func (c *Controller) revertFired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSaved && !c.dirty {
		c.state = StateClean
	}
}

func cloneClinic(c directory.Clinic) directory.Clinic {
	c.AnimalsTreated = slices.Clone(c.AnimalsTreated)
	c.Specializations = slices.Clone(c.Specializations)
	c.ServicesOffered = slices.Clone(c.ServicesOffered)
	return c
}
