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
	"github.com/samber/lo"

	"github.com/noah-isme/thesis-workflow-api/internal/models"
)

// DefenseRepository persists proposal defenses.
type DefenseRepository struct {
	db *sqlx.DB
}

// NewDefenseRepository constructs the repository.
func NewDefenseRepository(db *sqlx.DB) *DefenseRepository {
	return &DefenseRepository{db: db}
}

const defenseColumns = `id, proposal_id, scheduled_date, venue, panelist_ids, verdict, verdict_recorded_at, is_current,
       scheduled_by, created_at, superseded_at`

// ScheduleDefenseParams describes a defense scheduling request.
type ScheduleDefenseParams struct {
	ProposalID      string
	ScheduledDate   time.Time
	Venue           string
	PanelistIDs     []string
	Actor           string
	AllowedStatuses []string
	TargetStatus    string
}

// ScheduleDefenseResult carries the new defense, the superseded one and the proposal transition.
type ScheduleDefenseResult struct {
	Defense      models.Defense
	SupersededID *string
	Transition   *models.StatusTransition
}

// Schedule supersedes the proposal's current defense, inserts the new one and
// moves the proposal to TargetStatus.
func (r *DefenseRepository) Schedule(ctx context.Context, params ScheduleDefenseParams) (result *ScheduleDefenseResult, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin schedule defense: %w", err)
	}
	defer rollbackOnError(tx, &err)

	if err = lockEntity(ctx, tx, models.EntityProposal, params.ProposalID); err != nil {
		return nil, err
	}
	status, err := currentStatusName(ctx, tx, models.EntityProposal, params.ProposalID)
	if err != nil {
		return nil, err
	}
	if !lo.Contains(params.AllowedStatuses, status) {
		return nil, ErrStatusMismatch
	}

	now := time.Now().UTC()
	const supersedeQuery = `UPDATE defenses SET is_current = FALSE, superseded_at = $2
WHERE proposal_id = $1 AND is_current
RETURNING id`
	var superseded []string
	if err = tx.SelectContext(ctx, &superseded, supersedeQuery, params.ProposalID, now); err != nil {
		return nil, fmt.Errorf("supersede defense: %w", err)
	}
	if len(superseded) > 1 {
		return nil, ErrInconsistentLedger
	}

	defense := models.Defense{
		ID:            uuid.NewString(),
		ProposalID:    params.ProposalID,
		ScheduledDate: params.ScheduledDate.UTC(),
		Venue:         params.Venue,
		PanelistIDs:   pq.StringArray(params.PanelistIDs),
		IsCurrent:     true,
		ScheduledBy:   params.Actor,
		CreatedAt:     now,
	}
	const insertQuery = `INSERT INTO defenses (id, proposal_id, scheduled_date, venue, panelist_ids, is_current, scheduled_by, created_at)
VALUES (:id, :proposal_id, :scheduled_date, :venue, :panelist_ids, :is_current, :scheduled_by, :created_at)`
	if _, err = tx.NamedExecContext(ctx, insertQuery, defense); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConcurrentUpdate
		}
		return nil, fmt.Errorf("insert defense: %w", err)
	}

	transition, err := transitionByNameTx(ctx, tx, models.EntityProposal, params.ProposalID, params.TargetStatus, params.Actor)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit schedule defense: %w", err)
	}
	result = &ScheduleDefenseResult{Defense: defense, Transition: transition}
	if len(superseded) == 1 {
		result.SupersededID = &superseded[0]
	}
	return result, nil
}

// RecordDefenseVerdictParams describes a verdict for a defense.
type RecordDefenseVerdictParams struct {
	DefenseID    string
	Verdict      models.Verdict
	Actor        string
	TargetStatus string
}

// RecordVerdict stores the verdict on a current, unmarked defense and moves the
// proposal to TargetStatus.
func (r *DefenseRepository) RecordVerdict(ctx context.Context, params RecordDefenseVerdictParams) (defense *models.Defense, transition *models.StatusTransition, err error) {
	existing, err := r.FindByID(ctx, params.DefenseID)
	if err != nil {
		return nil, nil, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin record defense verdict: %w", err)
	}
	defer rollbackOnError(tx, &err)

	// Entity lock first, matching Schedule, so the two never deadlock.
	if err = lockEntity(ctx, tx, models.EntityProposal, existing.ProposalID); err != nil {
		return nil, nil, err
	}
	var current models.Defense
	query := `SELECT ` + defenseColumns + ` FROM defenses WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &current, query, params.DefenseID); err != nil {
		return nil, nil, fmt.Errorf("lock defense: %w", err)
	}
	if !current.IsCurrent || current.Verdict != nil {
		return nil, nil, ErrAlreadyGraded
	}

	now := time.Now().UTC()
	const updateQuery = `UPDATE defenses SET verdict = $2, verdict_recorded_at = $3 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, updateQuery, params.DefenseID, params.Verdict, now); err != nil {
		return nil, nil, fmt.Errorf("record defense verdict: %w", err)
	}
	if transition, err = transitionByNameTx(ctx, tx, models.EntityProposal, current.ProposalID, params.TargetStatus, params.Actor); err != nil {
		return nil, nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit record defense verdict: %w", err)
	}

	verdict := params.Verdict
	current.Verdict = &verdict
	current.VerdictRecordedAt = &now
	return &current, transition, nil
}

// FindByID fetches a defense.
func (r *DefenseRepository) FindByID(ctx context.Context, id string) (*models.Defense, error) {
	var defense models.Defense
	query := `SELECT ` + defenseColumns + ` FROM defenses WHERE id = $1`
	if err := r.db.GetContext(ctx, &defense, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDefenseNotFound
		}
		return nil, fmt.Errorf("get defense: %w", err)
	}
	return &defense, nil
}

// History lists a proposal's defenses, oldest first.
func (r *DefenseRepository) History(ctx context.Context, proposalID string) ([]models.Defense, error) {
	query := `SELECT ` + defenseColumns + ` FROM defenses WHERE proposal_id = $1 ORDER BY seq ASC`
	var defenses []models.Defense
	if err := r.db.SelectContext(ctx, &defenses, query, proposalID); err != nil {
		return nil, fmt.Errorf("defense history: %w", err)
	}
	return defenses, nil
}
