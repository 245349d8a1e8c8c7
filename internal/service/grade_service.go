package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/noah-isme/thesis-workflow-api/internal/models"
)

// vivaExaminerWeight is each examiner's share of the final grade: the viva
// carries 40 of 100 marks, split evenly between the internal and external examiner.
const vivaExaminerWeight = 0.2

type gradeAssignmentReader interface {
	CurrentBySlot(ctx context.Context, targetID string, slots ...models.RoleSlot) (map[models.RoleSlot]models.Assignment, error)
}

type currentVivaReader interface {
	Current(ctx context.Context, bookID string) (*models.Viva, error)
}

type bookReader interface {
	FindBook(ctx context.Context, id string) (*models.Book, error)
}

// GradeService derives marks and classifications from the recorded state. It never writes.
type GradeService struct {
	assignments gradeAssignmentReader
	vivas       currentVivaReader
	books       bookReader
	hooks       *WorkflowHooks
	logger      *zap.Logger
}

// NewGradeService constructs the grade aggregator.
func NewGradeService(assignments gradeAssignmentReader, vivas currentVivaReader, books bookReader, hooks *WorkflowHooks, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{assignments: assignments, vivas: vivas, books: books, hooks: hooks, logger: logger}
}

// ComputeTextMarks returns the grades of the book's current examiners, 0 where absent.
func (s *GradeService) ComputeTextMarks(ctx context.Context, bookID string) (*models.MarkPair, error) {
	if _, err := s.books.FindBook(ctx, bookID); err != nil {
		return nil, s.hooks.translate("load book", err)
	}
	marks, err := s.textMarks(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return &marks, nil
}

// ComputeVivaMarks returns the current viva's marks, 0 when there is no current viva.
func (s *GradeService) ComputeVivaMarks(ctx context.Context, bookID string) (*models.MarkPair, error) {
	if _, err := s.books.FindBook(ctx, bookID); err != nil {
		return nil, s.hooks.translate("load book", err)
	}
	viva, err := s.vivas.Current(ctx, bookID)
	if err != nil {
		return nil, s.hooks.translate("load current viva", err)
	}
	marks := vivaMarks(viva)
	return &marks, nil
}

// BookMarks summarises text marks, viva marks and the viva contribution of a book.
func (s *GradeService) BookMarks(ctx context.Context, bookID string) (*models.BookMarks, error) {
	if _, err := s.books.FindBook(ctx, bookID); err != nil {
		return nil, s.hooks.translate("load book", err)
	}
	text, err := s.textMarks(ctx, bookID)
	if err != nil {
		return nil, err
	}
	viva, err := s.vivas.Current(ctx, bookID)
	if err != nil {
		return nil, s.hooks.translate("load current viva", err)
	}

	summary := &models.BookMarks{
		BookID:         bookID,
		Text:           text,
		Viva:           vivaMarks(viva),
		Classification: models.VerdictClassNotGraded,
	}
	summary.VivaContribution = TotalVivaContribution(summary.Viva)
	if viva != nil {
		summary.VivaID = &viva.ID
		summary.Verdict = viva.Verdict
		summary.Classification = classifyVerdict(viva.Verdict)
	}
	return summary, nil
}

func (s *GradeService) textMarks(ctx context.Context, bookID string) (models.MarkPair, error) {
	current, err := s.assignments.CurrentBySlot(ctx, bookID, models.SlotBookInternalExaminer, models.SlotBookExternalExaminer)
	if err != nil {
		return models.MarkPair{}, s.hooks.translate("load examiner grades", err)
	}
	return models.MarkPair{
		Internal: gradeOf(current, models.SlotBookInternalExaminer),
		External: gradeOf(current, models.SlotBookExternalExaminer),
	}, nil
}

func gradeOf(current map[models.RoleSlot]models.Assignment, slot models.RoleSlot) float64 {
	if a, ok := current[slot]; ok && a.Grade != nil {
		return *a.Grade
	}
	return 0
}

func vivaMarks(viva *models.Viva) models.MarkPair {
	if viva == nil {
		return models.MarkPair{}
	}
	return models.MarkPair{Internal: lo.FromPtr(viva.InternalMark), External: lo.FromPtr(viva.ExternalMark)}
}

// TotalVivaContribution weights both viva marks at 20% and rounds to two decimals.
func TotalVivaContribution(marks models.MarkPair) float64 {
	total := marks.Internal*vivaExaminerWeight + marks.External*vivaExaminerWeight
	return math.Round(total*100) / 100
}

// ClassifyVerdict reports PASSED for any passing verdict, FAILED for REFER and
// FAIL, and NOT_GRADED when the defense has no verdict.
func ClassifyVerdict(defense *models.Defense) models.VerdictClass {
	if defense == nil {
		return models.VerdictClassNotGraded
	}
	return classifyVerdict(defense.Verdict)
}

func classifyVerdict(verdict *models.Verdict) models.VerdictClass {
	switch {
	case verdict == nil:
		return models.VerdictClassNotGraded
	case verdict.Passing():
		return models.VerdictClassPassed
	default:
		return models.VerdictClassFailed
	}
}

// GroupBySchool buckets items by school name. Groups are ordered alphabetically
// with Unknown last; items keep their input order within a group.
func GroupBySchool[T any](items []T, school func(T) string) []models.SchoolGroup[T] {
	buckets := lo.GroupBy(items, func(item T) string {
		return schoolKey(school(item))
	})
	names := lo.Keys(buckets)
	sort.Slice(names, func(i, j int) bool {
		switch {
		case names[i] == models.UnknownSchool:
			return false
		case names[j] == models.UnknownSchool:
			return true
		}
		return names[i] < names[j]
	})
	return lo.Map(names, func(name string, _ int) models.SchoolGroup[T] {
		return models.SchoolGroup[T]{School: name, Items: buckets[name]}
	})
}

func schoolKey(name string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return models.UnknownSchool
}
