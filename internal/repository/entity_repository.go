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

// EntityRepository registers students, proposals and books together with their
// initial status record.
type EntityRepository struct {
	db *sqlx.DB
}

// NewEntityRepository constructs the repository.
func NewEntityRepository(db *sqlx.DB) *EntityRepository {
	return &EntityRepository{db: db}
}

// CreateStudent inserts a student and its initial status atomically.
func (r *EntityRepository) CreateStudent(ctx context.Context, student *models.Student, initialStatus string) (result *models.StatusTransition, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin register student: %w", err)
	}
	defer rollbackOnError(tx, &err)

	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	student.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO students (id, registration_number, full_name, email, program, school_code, school_name, created_by, created_at)
VALUES (:id, :registration_number, :full_name, :email, :program, :school_code, :school_name, :created_by, :created_at)`
	if _, err = tx.NamedExecContext(ctx, query, student); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("insert student: %w", err)
	}

	if result, err = transitionByNameTx(ctx, tx, models.EntityStudent, student.ID, initialStatus, student.CreatedBy); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit register student: %w", err)
	}
	return result, nil
}

// CreateProposal inserts a proposal for an existing student with its initial status.
func (r *EntityRepository) CreateProposal(ctx context.Context, proposal *models.Proposal, initialStatus string) (result *models.StatusTransition, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin submit proposal: %w", err)
	}
	defer rollbackOnError(tx, &err)

	if err = lockEntity(ctx, tx, models.EntityStudent, proposal.StudentID); err != nil {
		return nil, err
	}

	if proposal.ID == "" {
		proposal.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	proposal.CreatedAt = now
	if proposal.SubmittedAt.IsZero() {
		proposal.SubmittedAt = now
	}
	const query = `INSERT INTO proposals (id, student_id, title, abstract, submitted_at, created_by, created_at)
VALUES (:id, :student_id, :title, :abstract, :submitted_at, :created_by, :created_at)`
	if _, err = tx.NamedExecContext(ctx, query, proposal); err != nil {
		return nil, fmt.Errorf("insert proposal: %w", err)
	}

	if result, err = transitionByNameTx(ctx, tx, models.EntityProposal, proposal.ID, initialStatus, proposal.CreatedBy); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit submit proposal: %w", err)
	}
	return result, nil
}

// CreateBook inserts a book for an existing proposal with its initial status.
func (r *EntityRepository) CreateBook(ctx context.Context, book *models.Book, initialStatus string) (result *models.StatusTransition, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin submit book: %w", err)
	}
	defer rollbackOnError(tx, &err)

	if err = lockEntity(ctx, tx, models.EntityProposal, book.ProposalID); err != nil {
		return nil, err
	}

	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	book.CreatedAt = now
	if book.SubmittedAt.IsZero() {
		book.SubmittedAt = now
	}
	const query = `INSERT INTO books (id, proposal_id, title, submitted_at, created_by, created_at)
VALUES (:id, :proposal_id, :title, :submitted_at, :created_by, :created_at)`
	if _, err = tx.NamedExecContext(ctx, query, book); err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}

	if result, err = transitionByNameTx(ctx, tx, models.EntityBook, book.ID, initialStatus, book.CreatedBy); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit submit book: %w", err)
	}
	return result, nil
}

// FindStudent fetches a student by id.
func (r *EntityRepository) FindStudent(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, registration_number, full_name, email, program, school_code, school_name, created_by, created_at
FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntityNotFound
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return &student, nil
}

// FindProposal fetches a proposal by id.
func (r *EntityRepository) FindProposal(ctx context.Context, id string) (*models.Proposal, error) {
	const query = `SELECT id, student_id, title, abstract, submitted_at, created_by, created_at FROM proposals WHERE id = $1`
	var proposal models.Proposal
	if err := r.db.GetContext(ctx, &proposal, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntityNotFound
		}
		return nil, fmt.Errorf("get proposal: %w", err)
	}
	return &proposal, nil
}

// FindBook fetches a book by id.
func (r *EntityRepository) FindBook(ctx context.Context, id string) (*models.Book, error) {
	const query = `SELECT id, proposal_id, title, submitted_at, created_by, created_at FROM books WHERE id = $1`
	var book models.Book
	if err := r.db.GetContext(ctx, &book, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntityNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &book, nil
}
