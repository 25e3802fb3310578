package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by *pgxpool.Pool, pgx.Tx, and pgxmock.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository persists clinics in Postgres.
type PostgresRepository struct {
	db Querier
}

// NewPostgresRepository creates a Postgres-backed clinic repository.
func NewPostgresRepository(db Querier) *PostgresRepository {
	if db == nil {
		return nil
	}
	return &PostgresRepository{db: db}
}

const clinicColumns = `id, name, street, city, state, postcode,
	phone, email, website, facebook, instagram,
	emergency, emergency_hours, emergency_details, hours,
	animals_treated, specializations, services_offered,
	verification_status, created_at, updated_at`

func scanClinic(row pgx.Row) (*Clinic, error) {
	var c Clinic
	err := row.Scan(&c.ID, &c.Name, &c.Street, &c.City, &c.State, &c.Postcode,
		&c.Phone, &c.Email, &c.Website, &c.Facebook, &c.Instagram,
		&c.Emergency, &c.EmergencyHours, &c.EmergencyDetails, &c.Hours,
		&c.AnimalsTreated, &c.Specializations, &c.ServicesOffered,
		&c.VerificationStatus, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Normalize()
	return &c, nil
}

func (r *PostgresRepository) SelectAll(ctx context.Context) ([]Clinic, error) {
	rows, err := r.db.Query(ctx, `SELECT `+clinicColumns+` FROM clinics ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("directory: select all: %w", err)
	}
	defer rows.Close()

	out := []Clinic{}
	for rows.Next() {
		c, err := scanClinic(rows)
		if err != nil {
			return nil, fmt.Errorf("directory: scan clinic: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("directory: select all: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) SelectByID(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	c, err := scanClinic(r.db.QueryRow(ctx, `SELECT `+clinicColumns+` FROM clinics WHERE id = $1`, id))
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("directory: select clinic %s: %w", id, err)
	}
	return c, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, c Clinic) (*Clinic, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Normalize()

	_, err := r.db.Exec(ctx, `
		INSERT INTO clinics (id, name, street, city, state, postcode,
			phone, email, website, facebook, instagram,
			emergency, emergency_hours, emergency_details, hours,
			animals_treated, specializations, services_offered,
			verification_status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$20)`,
		c.ID, c.Name, c.Street, c.City, c.State, c.Postcode,
		c.Phone, c.Email, c.Website, c.Facebook, c.Instagram,
		c.Emergency, c.EmergencyHours, c.EmergencyDetails, c.Hours,
		c.AnimalsTreated, c.Specializations, c.ServicesOffered,
		c.VerificationStatus, now)
	if err != nil {
		return nil, fmt.Errorf("directory: insert clinic: %w", err)
	}
	return &c, nil
}

// Update reads the current row, applies the patch, and writes the full row
// back. Last write wins between concurrent sessions.
func (r *PostgresRepository) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Clinic, error) {
	c, err := r.SelectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(c)
	c.UpdatedAt = time.Now().UTC()
	c.Normalize()

	tag, err := r.db.Exec(ctx, `
		UPDATE clinics SET name=$2, street=$3, city=$4, state=$5, postcode=$6,
			phone=$7, email=$8, website=$9, facebook=$10, instagram=$11,
			emergency=$12, emergency_hours=$13, emergency_details=$14, hours=$15,
			animals_treated=$16, specializations=$17, services_offered=$18,
			verification_status=$19, updated_at=$20
		WHERE id = $1`,
		c.ID, c.Name, c.Street, c.City, c.State, c.Postcode,
		c.Phone, c.Email, c.Website, c.Facebook, c.Instagram,
		c.Emergency, c.EmergencyHours, c.EmergencyDetails, c.Hours,
		c.AnimalsTreated, c.Specializations, c.ServicesOffered,
		c.VerificationStatus, c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("directory: update clinic %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clinics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("directory: delete clinic %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
