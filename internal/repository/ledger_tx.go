package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/thesis-workflow-api/internal/models"
)

var entityTables = map[models.EntityType]string{
	models.EntityStudent:  "students",
	models.EntityProposal: "proposals",
	models.EntityBook:     "books",
}

// lockEntity takes a row lock on the tracked entity so every writer touching its
// ledger, assignments or schedule serialises behind it.
func lockEntity(ctx context.Context, tx *sqlx.Tx, entityType models.EntityType, entityID string) error {
	table, ok := entityTables[entityType]
	if !ok {
		return fmt.Errorf("lock %s: %w", entityType, ErrEntityNotFound)
	}
	query := fmt.Sprintf(`SELECT id FROM %s WHERE id = $1 FOR UPDATE`, table)
	var id string
	if err := tx.GetContext(ctx, &id, query, entityID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEntityNotFound
		}
		return fmt.Errorf("lock %s: %w", entityType, err)
	}
	return nil
}

const definitionColumns = `id, name, description, expected_duration_days, warning_days, critical_days, delay_days, notify_roles, color, is_active, created_at, updated_at`

func definitionByID(ctx context.Context, q sqlx.QueryerContext, id string) (*models.StatusDefinition, error) {
	var def models.StatusDefinition
	query := `SELECT ` + definitionColumns + ` FROM status_definitions WHERE id = $1`
	if err := sqlx.GetContext(ctx, q, &def, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStatusDefinitionNotFound
		}
		return nil, fmt.Errorf("get status definition: %w", err)
	}
	return &def, nil
}

func definitionByName(ctx context.Context, q sqlx.QueryerContext, name string) (*models.StatusDefinition, error) {
	var def models.StatusDefinition
	query := `SELECT ` + definitionColumns + ` FROM status_definitions WHERE name = $1`
	if err := sqlx.GetContext(ctx, q, &def, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStatusDefinitionNotFound
		}
		return nil, fmt.Errorf("get status definition %q: %w", name, err)
	}
	return &def, nil
}

// currentStatusName returns the name of the entity's current status, or an
// empty string when the entity has no status yet.
func currentStatusName(ctx context.Context, tx *sqlx.Tx, entityType models.EntityType, entityID string) (string, error) {
	const query = `SELECT sd.name FROM status_records sr
JOIN status_definitions sd ON sd.id = sr.status_definition_id
WHERE sr.entity_type = $1 AND sr.entity_id = $2 AND sr.is_current`
	var names []string
	if err := tx.SelectContext(ctx, &names, query, entityType, entityID); err != nil {
		return "", fmt.Errorf("current status name: %w", err)
	}
	switch len(names) {
	case 0:
		return "", nil
	case 1:
		return names[0], nil
	default:
		return "", ErrInconsistentLedger
	}
}

type transitionArgs struct {
	EntityType  models.EntityType
	EntityID    string
	Definition  *models.StatusDefinition
	EffectiveAt time.Time
	Actor       string
}

// transitionTx flips the current status record and appends the new one. The
// caller must already hold the entity lock.
func transitionTx(ctx context.Context, tx *sqlx.Tx, args transitionArgs) (*models.StatusTransition, error) {
	if !args.Definition.IsActive {
		return nil, ErrStatusDefinitionInactive
	}

	const flipQuery = `UPDATE status_records SET is_current = FALSE
WHERE entity_type = $1 AND entity_id = $2 AND is_current
RETURNING id`
	var flipped []string
	if err := tx.SelectContext(ctx, &flipped, flipQuery, args.EntityType, args.EntityID); err != nil {
		return nil, fmt.Errorf("flip current status: %w", err)
	}
	if len(flipped) > 1 {
		return nil, ErrInconsistentLedger
	}

	now := time.Now().UTC()
	effectiveAt := args.EffectiveAt
	if effectiveAt.IsZero() {
		effectiveAt = now
	}
	record := models.StatusRecord{
		ID:                 uuid.NewString(),
		EntityType:         args.EntityType,
		EntityID:           args.EntityID,
		StatusDefinitionID: args.Definition.ID,
		StatusName:         args.Definition.Name,
		IsCurrent:          true,
		EffectiveAt:        effectiveAt.UTC(),
		CreatedBy:          args.Actor,
		CreatedAt:          now,
	}
	const insertQuery = `INSERT INTO status_records (id, entity_type, entity_id, status_definition_id, is_current, effective_at, created_by, created_at)
VALUES (:id, :entity_type, :entity_id, :status_definition_id, :is_current, :effective_at, :created_by, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, tx, insertQuery, record); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConcurrentUpdate
		}
		return nil, fmt.Errorf("insert status record: %w", err)
	}

	result := &models.StatusTransition{Record: record, NotifyRoles: []string(args.Definition.NotifyRoles)}
	if len(flipped) == 1 {
		result.SupersededID = &flipped[0]
	}
	return result, nil
}

// transitionByNameTx resolves a seeded status by name and moves the entity to it.
func transitionByNameTx(ctx context.Context, tx *sqlx.Tx, entityType models.EntityType, entityID, status, actor string) (*models.StatusTransition, error) {
	def, err := definitionByName(ctx, tx, status)
	if err != nil {
		return nil, err
	}
	return transitionTx(ctx, tx, transitionArgs{
		EntityType: entityType,
		EntityID:   entityID,
		Definition: def,
		Actor:      actor,
	})
}

func rollbackOnError(tx *sqlx.Tx, err *error) {
	if *err != nil {
		_ = tx.Rollback()
	}
}
