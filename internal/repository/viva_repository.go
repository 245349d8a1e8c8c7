package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/thesis-workflow-api/internal/models"
)

// VivaRepository persists book vivas.
type VivaRepository struct {
	db *sqlx.DB
}

// NewVivaRepository constructs the repository.
func NewVivaRepository(db *sqlx.DB) *VivaRepository {
	return &VivaRepository{db: db}
}

const vivaColumns = `id, book_id, viva_date, location, chairperson_id, minutes_secretary_id, panelist_ids, reviewer_ids,
       internal_mark, external_mark, verdict, status, is_current, scheduled_by, created_at, graded_at, superseded_at`

// ScheduleVivaParams describes a validated viva scheduling request.
type ScheduleVivaParams struct {
	BookID             string
	VivaDate           time.Time
	Location           string
	ChairpersonID      string
	MinutesSecretaryID string
	PanelistIDs        []string
	ReviewerIDs        []string
	Actor              string
	// ExpectedExaminers holds the assignment ids observed during validation,
	// keyed by slot. They are compared again under lock before writing.
	ExpectedExaminers map[models.RoleSlot]string
	TargetStatus      string
}

// ScheduleVivaResult carries the new viva, the superseded one and the book transition.
type ScheduleVivaResult struct {
	Viva         models.Viva
	SupersededID *string
	Transition   *models.StatusTransition
}

// Schedule supersedes the book's current viva, inserts the new one and moves
// the book to TargetStatus.
func (r *VivaRepository) Schedule(ctx context.Context, params ScheduleVivaParams) (result *ScheduleVivaResult, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin schedule viva: %w", err)
	}
	defer rollbackOnError(tx, &err)

	if err = lockEntity(ctx, tx, models.EntityBook, params.BookID); err != nil {
		return nil, err
	}
	if err = verifyExaminers(ctx, tx, params.BookID, params.ExpectedExaminers); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	const supersedeQuery = `UPDATE vivas SET is_current = FALSE, superseded_at = $2,
       status = CASE WHEN status = 'SCHEDULED' THEN 'SUPERSEDED' ELSE status END
WHERE book_id = $1 AND is_current
RETURNING id`
	var superseded []string
	if err = tx.SelectContext(ctx, &superseded, supersedeQuery, params.BookID, now); err != nil {
		return nil, fmt.Errorf("supersede viva: %w", err)
	}
	if len(superseded) > 1 {
		return nil, ErrInconsistentLedger
	}

	viva := models.Viva{
		ID:                 uuid.NewString(),
		BookID:             params.BookID,
		VivaDate:           params.VivaDate.UTC(),
		Location:           params.Location,
		ChairpersonID:      params.ChairpersonID,
		MinutesSecretaryID: params.MinutesSecretaryID,
		PanelistIDs:        pq.StringArray(params.PanelistIDs),
		ReviewerIDs:        pq.StringArray(params.ReviewerIDs),
		Status:             models.VivaStatusScheduled,
		IsCurrent:          true,
		ScheduledBy:        params.Actor,
		CreatedAt:          now,
	}
	const insertQuery = `INSERT INTO vivas (id, book_id, viva_date, location, chairperson_id, minutes_secretary_id, panelist_ids, reviewer_ids, status, is_current, scheduled_by, created_at)
VALUES (:id, :book_id, :viva_date, :location, :chairperson_id, :minutes_secretary_id, :panelist_ids, :reviewer_ids, :status, :is_current, :scheduled_by, :created_at)`
	if _, err = tx.NamedExecContext(ctx, insertQuery, viva); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConcurrentUpdate
		}
		return nil, fmt.Errorf("insert viva: %w", err)
	}

	transition, err := transitionByNameTx(ctx, tx, models.EntityBook, params.BookID, params.TargetStatus, params.Actor)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit schedule viva: %w", err)
	}
	result = &ScheduleVivaResult{Viva: viva, Transition: transition}
	if len(superseded) == 1 {
		result.SupersededID = &superseded[0]
	}
	return result, nil
}

func verifyExaminers(ctx context.Context, tx *sqlx.Tx, bookID string, expected map[models.RoleSlot]string) error {
	if len(expected) == 0 {
		return nil
	}
	slots := make([]models.RoleSlot, 0, len(expected))
	for slot := range expected {
		slots = append(slots, slot)
	}
	const query = `SELECT id, role_slot FROM assignments
WHERE target_id = $1 AND role_slot = ANY($2) AND is_current FOR UPDATE`
	var rows []struct {
		ID       string          `db:"id"`
		RoleSlot models.RoleSlot `db:"role_slot"`
	}
	if err := tx.SelectContext(ctx, &rows, query, bookID, pq.Array(slotNames(slots))); err != nil {
		return fmt.Errorf("verify examiners: %w", err)
	}
	if len(rows) != len(expected) {
		return ErrConcurrentUpdate
	}
	for _, row := range rows {
		if expected[row.RoleSlot] != row.ID {
			return ErrConcurrentUpdate
		}
	}
	return nil
}

// RecordVivaVerdictParams describes marks and verdict for a viva.
type RecordVivaVerdictParams struct {
	VivaID       string
	InternalMark float64
	ExternalMark float64
	Verdict      models.Verdict
	Actor        string
	TargetStatus string
}

// RecordVerdict stores marks and verdict on a current, unmarked viva and moves
// the book to TargetStatus.
func (r *VivaRepository) RecordVerdict(ctx context.Context, params RecordVivaVerdictParams) (viva *models.Viva, transition *models.StatusTransition, err error) {
	existing, err := r.FindByID(ctx, params.VivaID)
	if err != nil {
		return nil, nil, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin record viva verdict: %w", err)
	}
	defer rollbackOnError(tx, &err)

	if err = lockEntity(ctx, tx, models.EntityBook, existing.BookID); err != nil {
		return nil, nil, err
	}
	var current models.Viva
	query := `SELECT ` + vivaColumns + ` FROM vivas WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &current, query, params.VivaID); err != nil {
		return nil, nil, fmt.Errorf("lock viva: %w", err)
	}
	if !current.IsCurrent || current.Graded() {
		return nil, nil, ErrAlreadyGraded
	}

	now := time.Now().UTC()
	const updateQuery = `UPDATE vivas SET internal_mark = $2, external_mark = $3, verdict = $4, status = $5, graded_at = $6
WHERE id = $1`
	if _, err = tx.ExecContext(ctx, updateQuery, params.VivaID, params.InternalMark, params.ExternalMark, params.Verdict, models.VivaStatusCompleted, now); err != nil {
		return nil, nil, fmt.Errorf("record viva verdict: %w", err)
	}
	if transition, err = transitionByNameTx(ctx, tx, models.EntityBook, current.BookID, params.TargetStatus, params.Actor); err != nil {
		return nil, nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit record viva verdict: %w", err)
	}

	internal, external, verdict := params.InternalMark, params.ExternalMark, params.Verdict
	current.InternalMark = &internal
	current.ExternalMark = &external
	current.Verdict = &verdict
	current.Status = models.VivaStatusCompleted
	current.GradedAt = &now
	return &current, transition, nil
}

// FindByID fetches a viva.
func (r *VivaRepository) FindByID(ctx context.Context, id string) (*models.Viva, error) {
	var viva models.Viva
	query := `SELECT ` + vivaColumns + ` FROM vivas WHERE id = $1`
	if err := r.db.GetContext(ctx, &viva, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVivaNotFound
		}
		return nil, fmt.Errorf("get viva: %w", err)
	}
	return &viva, nil
}

// Current returns the book's current viva, or nil when none is scheduled.
func (r *VivaRepository) Current(ctx context.Context, bookID string) (*models.Viva, error) {
	var vivas []models.Viva
	query := `SELECT ` + vivaColumns + ` FROM vivas WHERE book_id = $1 AND is_current`
	if err := r.db.SelectContext(ctx, &vivas, query, bookID); err != nil {
		return nil, fmt.Errorf("current viva: %w", err)
	}
	switch len(vivas) {
	case 0:
		return nil, nil
	case 1:
		return &vivas[0], nil
	default:
		return nil, ErrInconsistentLedger
	}
}

// History lists a book's vivas, oldest first.
func (r *VivaRepository) History(ctx context.Context, bookID string) ([]models.Viva, error) {
	query := `SELECT ` + vivaColumns + ` FROM vivas WHERE book_id = $1 ORDER BY seq ASC`
	var vivas []models.Viva
	if err := r.db.SelectContext(ctx, &vivas, query, bookID); err != nil {
		return nil, fmt.Errorf("viva history: %w", err)
	}
	return vivas, nil
}
