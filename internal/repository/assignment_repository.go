package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/thesis-workflow-api/internal/models"
)

// AssignmentRepository persists role-slot assignments and their history.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentColumns = `id, target_type, target_id, role_slot, assignee_id, is_current, grade, graded_at, metadata,
       assigned_by, assigned_at, ended_at, end_reason`

// SlotPromotion moves the target to ToStatus once every slot in Slots has a
// current holder and the target currently sits in FromStatus.
type SlotPromotion struct {
	Slots      []models.RoleSlot
	FromStatus string
	ToStatus   string
}

// AssignParams describes a new assignment into an empty slot.
type AssignParams struct {
	Slot       models.SlotSpec
	TargetID   string
	AssigneeID string
	Metadata   json.RawMessage
	Actor      string
	Promotion  *SlotPromotion
}

// AssignResult carries the inserted assignment and any status change it caused.
type AssignResult struct {
	Assignment models.Assignment
	Transition *models.StatusTransition
}

// Assign inserts a current assignment for an empty slot.
func (r *AssignmentRepository) Assign(ctx context.Context, params AssignParams) (result *AssignResult, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin assign: %w", err)
	}
	defer rollbackOnError(tx, &err)

	if err = lockEntity(ctx, tx, params.Slot.Target, params.TargetID); err != nil {
		return nil, err
	}

	holder, err := currentHolder(ctx, tx, params.TargetID, params.Slot.Slot)
	if err != nil {
		return nil, err
	}
	if holder != nil {
		return nil, ErrSlotOccupied
	}
	if err = ensureNotInSiblings(ctx, tx, params.TargetID, params.AssigneeID, params.Slot.Exclusive); err != nil {
		return nil, err
	}

	assignment, err := insertAssignment(ctx, tx, params.Slot, params.TargetID, params.AssigneeID, params.Metadata, params.Actor)
	if err != nil {
		return nil, err
	}
	result = &AssignResult{Assignment: *assignment}

	if params.Promotion != nil {
		if result.Transition, err = promoteWhenFilled(ctx, tx, params.Slot.Target, params.TargetID, params.Actor, *params.Promotion); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit assign: %w", err)
	}
	return result, nil
}

// ChangeParams describes replacing the current holder of a slot.
type ChangeParams struct {
	Slot          models.SlotSpec
	TargetID      string
	OldAssigneeID string
	NewAssigneeID string
	Reason        string
	Metadata      json.RawMessage
	Actor         string
}

// ChangeResult carries the new assignment and the id of the one it ended.
type ChangeResult struct {
	Assignment   models.Assignment
	SupersededID string
}

// Change ends the current assignment held by OldAssigneeID and inserts one for
// NewAssigneeID. The conditional update returns no row for a stale holder,
// which is how the losing side of two concurrent changes is detected.
func (r *AssignmentRepository) Change(ctx context.Context, params ChangeParams) (result *ChangeResult, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin change assignment: %w", err)
	}
	defer rollbackOnError(tx, &err)

	if err = lockEntity(ctx, tx, params.Slot.Target, params.TargetID); err != nil {
		return nil, err
	}

	const endQuery = `UPDATE assignments SET is_current = FALSE, ended_at = $4, end_reason = $5
WHERE target_id = $1 AND role_slot = $2 AND assignee_id = $3 AND is_current
RETURNING id`
	var endedID string
	if err = tx.GetContext(ctx, &endedID, endQuery, params.TargetID, params.Slot.Slot, params.OldAssigneeID, time.Now().UTC(), params.Reason); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotCurrent
		}
		return nil, fmt.Errorf("end assignment: %w", err)
	}

	if err = ensureNotInSiblings(ctx, tx, params.TargetID, params.NewAssigneeID, params.Slot.Exclusive); err != nil {
		return nil, err
	}
	assignment, err := insertAssignment(ctx, tx, params.Slot, params.TargetID, params.NewAssigneeID, params.Metadata, params.Actor)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit change assignment: %w", err)
	}
	return &ChangeResult{Assignment: *assignment, SupersededID: endedID}, nil
}

// RecordGrade sets the grade on a current, ungraded assignment.
func (r *AssignmentRepository) RecordGrade(ctx context.Context, assignmentID string, grade float64) (assignment *models.Assignment, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin record grade: %w", err)
	}
	defer rollbackOnError(tx, &err)

	var current models.Assignment
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &current, query, assignmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("lock assignment: %w", err)
	}
	if !current.IsCurrent {
		return nil, ErrNotCurrent
	}
	if current.Grade != nil {
		return nil, ErrAlreadyGraded
	}

	now := time.Now().UTC()
	const updateQuery = `UPDATE assignments SET grade = $2, graded_at = $3 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, updateQuery, assignmentID, grade, now); err != nil {
		return nil, fmt.Errorf("record grade: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit record grade: %w", err)
	}

	current.Grade = &grade
	current.GradedAt = &now
	return &current, nil
}

// FindByID fetches an assignment.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	var assignment models.Assignment
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1`
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return &assignment, nil
}

// List returns the assignment history of a target, oldest first.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE target_id = $1`
	args := []interface{}{filter.TargetID}
	if filter.RoleSlot != "" {
		args = append(args, filter.RoleSlot)
		query += fmt.Sprintf(` AND role_slot = $%d`, len(args))
	}
	if filter.CurrentOnly {
		query += ` AND is_current`
	}
	query += ` ORDER BY seq ASC`

	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// CurrentBySlot returns the current holders of the given slots keyed by slot.
func (r *AssignmentRepository) CurrentBySlot(ctx context.Context, targetID string, slots ...models.RoleSlot) (map[models.RoleSlot]models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments
WHERE target_id = $1 AND role_slot = ANY($2) AND is_current
ORDER BY seq ASC`
	var rows []models.Assignment
	if err := r.db.SelectContext(ctx, &rows, query, targetID, pq.Array(slotNames(slots))); err != nil {
		return nil, fmt.Errorf("current assignments: %w", err)
	}
	result := make(map[models.RoleSlot]models.Assignment, len(rows))
	for _, row := range rows {
		if _, dup := result[row.RoleSlot]; dup {
			return nil, ErrInconsistentLedger
		}
		result[row.RoleSlot] = row
	}
	return result, nil
}

func currentHolder(ctx context.Context, tx *sqlx.Tx, targetID string, slot models.RoleSlot) (*models.Assignment, error) {
	var holders []models.Assignment
	query := `SELECT ` + assignmentColumns + ` FROM assignments
WHERE target_id = $1 AND role_slot = $2 AND is_current FOR UPDATE`
	if err := tx.SelectContext(ctx, &holders, query, targetID, slot); err != nil {
		return nil, fmt.Errorf("current holder: %w", err)
	}
	switch len(holders) {
	case 0:
		return nil, nil
	case 1:
		return &holders[0], nil
	default:
		return nil, ErrInconsistentLedger
	}
}

func ensureNotInSiblings(ctx context.Context, tx *sqlx.Tx, targetID, assigneeID string, siblings []models.RoleSlot) error {
	if len(siblings) == 0 {
		return nil
	}
	const query = `SELECT COUNT(*) FROM assignments
WHERE target_id = $1 AND assignee_id = $2 AND role_slot = ANY($3) AND is_current`
	var count int
	if err := tx.GetContext(ctx, &count, query, targetID, assigneeID, pq.Array(slotNames(siblings))); err != nil {
		return fmt.Errorf("check sibling slots: %w", err)
	}
	if count > 0 {
		return ErrDuplicateAssignee
	}
	return nil
}

func insertAssignment(ctx context.Context, tx *sqlx.Tx, slot models.SlotSpec, targetID, assigneeID string, metadata json.RawMessage, actor string) (*models.Assignment, error) {
	if len(metadata) == 0 {
		metadata = json.RawMessage(`{}`)
	}
	assignment := models.Assignment{
		ID:         uuid.NewString(),
		TargetType: slot.Target,
		TargetID:   targetID,
		RoleSlot:   slot.Slot,
		AssigneeID: assigneeID,
		IsCurrent:  true,
		Metadata:   metadata,
		AssignedBy: actor,
		AssignedAt: time.Now().UTC(),
	}
	const query = `INSERT INTO assignments (id, target_type, target_id, role_slot, assignee_id, is_current, metadata, assigned_by, assigned_at)
VALUES (:id, :target_type, :target_id, :role_slot, :assignee_id, :is_current, :metadata, :assigned_by, :assigned_at)`
	if _, err := tx.NamedExecContext(ctx, query, assignment); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConcurrentUpdate
		}
		return nil, fmt.Errorf("insert assignment: %w", err)
	}
	return &assignment, nil
}

func promoteWhenFilled(ctx context.Context, tx *sqlx.Tx, entityType models.EntityType, entityID, actor string, promotion SlotPromotion) (*models.StatusTransition, error) {
	const query = `SELECT COUNT(DISTINCT role_slot) FROM assignments
WHERE target_id = $1 AND role_slot = ANY($2) AND is_current`
	var filled int
	if err := tx.GetContext(ctx, &filled, query, entityID, pq.Array(slotNames(promotion.Slots))); err != nil {
		return nil, fmt.Errorf("count filled slots: %w", err)
	}
	if filled < len(promotion.Slots) {
		return nil, nil
	}
	status, err := currentStatusName(ctx, tx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	if status != promotion.FromStatus {
		return nil, nil
	}
	return transitionByNameTx(ctx, tx, entityType, entityID, promotion.ToStatus, actor)
}

func slotNames(slots []models.RoleSlot) []string {
	names := make([]string, len(slots))
	for i, slot := range slots {
		names[i] = string(slot)
	}
	return names
}
