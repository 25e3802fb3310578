package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a clinic does not exist. Callers surface it
// differently from transport failures (404 versus retryable errors).
var ErrNotFound = errors.New("directory: clinic not found")

// Repository is the persistence boundary for clinic records.
type Repository interface {
	SelectAll(ctx context.Context) ([]Clinic, error)
	SelectByID(ctx context.Context, id uuid.UUID) (*Clinic, error)
	// Insert stores a new clinic, assigning an identity when the record
	// carries none.
	Insert(ctx context.Context, c Clinic) (*Clinic, error)
	// Update applies a partial update. Last write wins: there is no
	// optimistic-concurrency token, concurrent sessions overwrite each other.
	Update(ctx context.Context, id uuid.UUID, patch Patch) (*Clinic, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
