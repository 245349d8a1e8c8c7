package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/noah-isme/thesis-workflow-api/internal/models"
)

// PersonRepository stores person identities and the capability records attached to them.
type PersonRepository struct {
	db *sqlx.DB
}

// NewPersonRepository constructs the repository.
func NewPersonRepository(db *sqlx.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// Create inserts a person identity.
func (r *PersonRepository) Create(ctx context.Context, person *models.Person) error {
	if person.ID == "" {
		person.ID = uuid.NewString()
	}
	person.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO persons (id, full_name, email, staff_number, institution, is_staff, created_at)
VALUES (:id, :full_name, :email, :staff_number, :institution, :is_staff, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, person); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("create person: %w", err)
	}
	return nil
}

// FindByID fetches a person.
func (r *PersonRepository) FindByID(ctx context.Context, id string) (*models.Person, error) {
	const query = `SELECT id, full_name, email, staff_number, institution, is_staff, created_at FROM persons WHERE id = $1`
	var person models.Person
	if err := r.db.GetContext(ctx, &person, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPersonNotFound
		}
		return nil, fmt.Errorf("get person: %w", err)
	}
	return &person, nil
}

// Capabilities lists the capabilities held by a person.
func (r *PersonRepository) Capabilities(ctx context.Context, personID string) ([]models.PersonCapability, error) {
	const query = `SELECT id, person_id, capability, examiner_type, created_at FROM person_capabilities
WHERE person_id = $1 ORDER BY created_at ASC, capability ASC`
	var caps []models.PersonCapability
	if err := r.db.SelectContext(ctx, &caps, query, personID); err != nil {
		return nil, fmt.Errorf("list capabilities: %w", err)
	}
	return caps, nil
}

// HasCapability reports whether the person holds the capability. When
// examinerType is set the capability must also carry that examiner type.
func (r *PersonRepository) HasCapability(ctx context.Context, personID string, capability models.Capability, examinerType *models.ExaminerType) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM person_capabilities WHERE person_id = $1 AND capability = $2`
	args := []interface{}{personID, capability}
	if examinerType != nil {
		query += ` AND examiner_type = $3`
		args = append(args, *examinerType)
	}
	query += `)`
	var ok bool
	if err := r.db.GetContext(ctx, &ok, query, args...); err != nil {
		return false, fmt.Errorf("check capability: %w", err)
	}
	return ok, nil
}

// GrantCapability attaches a capability to an existing person. Granting a
// capability the person already holds returns the existing record with
// created=false, unless the stored examiner type differs from the requested one.
func (r *PersonRepository) GrantCapability(ctx context.Context, personID string, capability models.Capability, examinerType *models.ExaminerType, staffOnly bool) (*models.PersonCapability, bool, error) {
	query := `SELECT id FROM persons WHERE id = $1`
	if staffOnly {
		query += ` AND is_staff`
	}
	var id string
	if err := r.db.GetContext(ctx, &id, query, personID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, ErrPersonNotFound
		}
		return nil, false, fmt.Errorf("get person: %w", err)
	}

	record := models.PersonCapability{
		ID:           uuid.NewString(),
		PersonID:     personID,
		Capability:   capability,
		ExaminerType: examinerType,
		CreatedAt:    time.Now().UTC(),
	}
	const insertQuery = `INSERT INTO person_capabilities (id, person_id, capability, examiner_type, created_at)
VALUES (:id, :person_id, :capability, :examiner_type, :created_at)
ON CONFLICT (person_id, capability) DO NOTHING`
	result, err := r.db.NamedExecContext(ctx, insertQuery, record)
	if err != nil {
		return nil, false, fmt.Errorf("grant capability: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("check granted capability rows: %w", err)
	}
	if affected == 1 {
		return &record, true, nil
	}

	const selectQuery = `SELECT id, person_id, capability, examiner_type, created_at FROM person_capabilities
WHERE person_id = $1 AND capability = $2`
	var existing models.PersonCapability
	if err := r.db.GetContext(ctx, &existing, selectQuery, personID, capability); err != nil {
		return nil, false, fmt.Errorf("get existing capability: %w", err)
	}
	if lo.FromPtr(existing.ExaminerType) != lo.FromPtr(examinerType) {
		return nil, false, ErrCapabilityConflict
	}
	return &existing, false, nil
}
