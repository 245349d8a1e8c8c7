package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/thesis-workflow-api/internal/models"
)

// StatusDefinitionRepository manages the catalogue of workflow statuses.
type StatusDefinitionRepository struct {
	db *sqlx.DB
}

// NewStatusDefinitionRepository constructs the repository.
func NewStatusDefinitionRepository(db *sqlx.DB) *StatusDefinitionRepository {
	return &StatusDefinitionRepository{db: db}
}

// List returns definitions ordered by name.
func (r *StatusDefinitionRepository) List(ctx context.Context, filter models.StatusDefinitionFilter) ([]models.StatusDefinition, error) {
	query := `SELECT ` + definitionColumns + ` FROM status_definitions`
	if filter.ActiveOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name ASC`
	var defs []models.StatusDefinition
	if err := r.db.SelectContext(ctx, &defs, query); err != nil {
		return nil, fmt.Errorf("list status definitions: %w", err)
	}
	return defs, nil
}

// FindByID fetches a definition.
func (r *StatusDefinitionRepository) FindByID(ctx context.Context, id string) (*models.StatusDefinition, error) {
	return definitionByID(ctx, r.db, id)
}

// Create inserts a definition.
func (r *StatusDefinitionRepository) Create(ctx context.Context, def *models.StatusDefinition) error {
	if def.ID == "" {
		def.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	def.CreatedAt = now
	def.UpdatedAt = now
	const query = `INSERT INTO status_definitions (id, name, description, expected_duration_days, warning_days, critical_days, delay_days, notify_roles, color, is_active, created_at, updated_at)
VALUES (:id, :name, :description, :expected_duration_days, :warning_days, :critical_days, :delay_days, :notify_roles, :color, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, def); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("create status definition: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of a definition.
func (r *StatusDefinitionRepository) Update(ctx context.Context, def *models.StatusDefinition) error {
	def.UpdatedAt = time.Now().UTC()
	const query = `UPDATE status_definitions SET name = :name, description = :description,
expected_duration_days = :expected_duration_days, warning_days = :warning_days, critical_days = :critical_days,
delay_days = :delay_days, notify_roles = :notify_roles, color = :color, is_active = :is_active, updated_at = :updated_at
WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, def)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("update status definition: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated status definition rows: %w", err)
	}
	if affected == 0 {
		return ErrStatusDefinitionNotFound
	}
	return nil
}
