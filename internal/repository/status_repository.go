package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/thesis-workflow-api/internal/models"
)

// StatusRepository persists the append-only status ledger.
type StatusRepository struct {
	db *sqlx.DB
}

// NewStatusRepository constructs the repository.
func NewStatusRepository(db *sqlx.DB) *StatusRepository {
	return &StatusRepository{db: db}
}

// TransitionParams describes a requested status change.
type TransitionParams struct {
	EntityType         models.EntityType
	EntityID           string
	StatusDefinitionID string
	EffectiveAt        time.Time
	Actor              string
}

const statusRecordSelect = `SELECT sr.id, sr.entity_type, sr.entity_id, sr.status_definition_id, sd.name AS status_name,
       sr.is_current, sr.effective_at, sr.created_by, sr.created_at
FROM status_records sr
JOIN status_definitions sd ON sd.id = sr.status_definition_id`

// Transition flips the entity's current record and inserts the new one in a single transaction.
func (r *StatusRepository) Transition(ctx context.Context, params TransitionParams) (result *models.StatusTransition, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin status transition: %w", err)
	}
	defer rollbackOnError(tx, &err)

	if err = lockEntity(ctx, tx, params.EntityType, params.EntityID); err != nil {
		return nil, err
	}
	def, err := definitionByID(ctx, tx, params.StatusDefinitionID)
	if err != nil {
		return nil, err
	}
	result, err = transitionTx(ctx, tx, transitionArgs{
		EntityType:  params.EntityType,
		EntityID:    params.EntityID,
		Definition:  def,
		EffectiveAt: params.EffectiveAt,
		Actor:       params.Actor,
	})
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit status transition: %w", err)
	}
	return result, nil
}

// Current returns every record flagged current for the entity. More than one
// row means the ledger is inconsistent; the caller decides how to surface it.
func (r *StatusRepository) Current(ctx context.Context, entityType models.EntityType, entityID string) ([]models.StatusRecord, error) {
	query := statusRecordSelect + `
WHERE sr.entity_type = $1 AND sr.entity_id = $2 AND sr.is_current
ORDER BY sr.seq DESC`
	var records []models.StatusRecord
	if err := r.db.SelectContext(ctx, &records, query, entityType, entityID); err != nil {
		return nil, fmt.Errorf("current status: %w", err)
	}
	return records, nil
}

// History lists every record for the entity, oldest first.
func (r *StatusRepository) History(ctx context.Context, entityType models.EntityType, entityID string) ([]models.StatusRecord, error) {
	query := statusRecordSelect + `
WHERE sr.entity_type = $1 AND sr.entity_id = $2
ORDER BY sr.seq ASC`
	var records []models.StatusRecord
	if err := r.db.SelectContext(ctx, &records, query, entityType, entityID); err != nil {
		return nil, fmt.Errorf("status history: %w", err)
	}
	return records, nil
}

// EntityExists reports whether the tracked entity is present.
func (r *StatusRepository) EntityExists(ctx context.Context, entityType models.EntityType, entityID string) (bool, error) {
	table, ok := entityTables[entityType]
	if !ok {
		return false, nil
	}
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table)
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, entityID); err != nil {
		return false, fmt.Errorf("check %s exists: %w", entityType, err)
	}
	return exists, nil
}
