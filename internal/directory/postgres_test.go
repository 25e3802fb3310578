package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/vetfinder-my/platform/internal/schedule"
)

var clinicCols = []string{"id", "name", "street", "city", "state", "postcode",
	"phone", "email", "website", "facebook", "instagram",
	"emergency", "emergency_hours", "emergency_details", "hours",
	"animals_treated", "specializations", "services_offered",
	"verification_status", "created_at", "updated_at"}

func clinicRow(id uuid.UUID) []any {
	now := time.Now().UTC()
	return []any{id, "Klinik Haiwan Bangsar", "12 Jalan Maarof", "Kuala Lumpur", "Kuala Lumpur", "59000",
		"+60322820090", "hello@bangsarvet.my", "https://bangsarvet.my", "", "",
		true, "22:00 - 08:00", "Call ahead", schedule.WeekHours{Monday: "09:00 - 18:00"},
		[]string{"Dogs", "Cats"}, []string{"Surgery"}, []string{"Vaccination"},
		VerificationVerified, now, now}
}

func TestPostgresSelectByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	id := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM clinics WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(clinicCols).AddRow(clinicRow(id)...))

	c, err := repo.SelectByID(context.Background(), id)
	if err != nil {
		t.Fatalf("select by id: %v", err)
	}
	if c.Name != "Klinik Haiwan Bangsar" {
		t.Errorf("unexpected name %q", c.Name)
	}
	if c.Hours.Monday != "09:00 - 18:00" {
		t.Errorf("unexpected monday hours %q", c.Hours.Monday)
	}
}

func TestPostgresSelectByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	id := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM clinics WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(clinicCols))

	_, err = repo.SelectByID(context.Background(), id)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresSelectAll(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	mock.ExpectQuery("SELECT (.+) FROM clinics ORDER BY name").
		WillReturnRows(pgxmock.NewRows(clinicCols).
			AddRow(clinicRow(uuid.New())...).
			AddRow(clinicRow(uuid.New())...))

	out, err := repo.SelectAll(context.Background())
	if err != nil {
		t.Fatalf("select all: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 clinics, got %d", len(out))
	}
}

func TestPostgresInsertAssignsIdentity(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	mock.ExpectExec("INSERT INTO clinics").
		WithArgs(pgxmock.AnyArg(), "New Clinic", "", "Ipoh", "Perak", "",
			"", "", "", "", "",
			false, "", "", pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			VerificationPending, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	created, err := repo.Insert(context.Background(), Clinic{Name: "New Clinic", City: "Ipoh", State: "Perak"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected an assigned identity")
	}
	if created.AnimalsTreated == nil {
		t.Error("expected normalized label slices")
	}
}

func TestPostgresUpdateAppliesPatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	id := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM clinics WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(clinicCols).AddRow(clinicRow(id)...))
	mock.ExpectExec("UPDATE clinics SET").
		WithArgs(id, "Renamed Clinic", "12 Jalan Maarof", "Kuala Lumpur", "Kuala Lumpur", "59000",
			"+60322820090", "hello@bangsarvet.my", "https://bangsarvet.my", "", "",
			true, "22:00 - 08:00", "Call ahead", pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			VerificationVerified, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	name := "Renamed Clinic"
	updated, err := repo.Update(context.Background(), id, Patch{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Renamed Clinic" {
		t.Errorf("patch not applied, name %q", updated.Name)
	}
	if updated.City != "Kuala Lumpur" {
		t.Errorf("untouched field changed, city %q", updated.City)
	}
}

func TestPostgresUpdateNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	id := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM clinics WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(clinicCols))

	_, err = repo.Update(context.Background(), id, Patch{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresDelete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	id := uuid.New()
	mock.ExpectExec("DELETE FROM clinics").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	if err := repo.Delete(context.Background(), id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	mock.ExpectExec("DELETE FROM clinics").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
