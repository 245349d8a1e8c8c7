package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/thesis-workflow-api/internal/models"
)

// ReportRepository runs the read-only queries behind the school-grouped reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// ProposalDefenses returns one row per proposal with its current defense and status.
func (r *ReportRepository) ProposalDefenses(ctx context.Context, filter models.ReportFilter) ([]models.ProposalDefenseRow, error) {
	where, args := reportConditions(filter)
	query := `SELECT st.id AS student_id, st.registration_number, st.full_name AS student_name, st.school_name,
       p.id AS proposal_id, p.title AS proposal_title,
       d.id AS defense_id, d.scheduled_date, d.verdict,
       sd.name AS current_status
FROM proposals p
JOIN students st ON st.id = p.student_id
LEFT JOIN defenses d ON d.proposal_id = p.id AND d.is_current
LEFT JOIN status_records sr ON sr.entity_type = 'proposal' AND sr.entity_id = p.id AND sr.is_current
LEFT JOIN status_definitions sd ON sd.id = sr.status_definition_id` + where + `
ORDER BY st.registration_number ASC, p.submitted_at ASC, p.id ASC`

	var rows []models.ProposalDefenseRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("proposal defense report: %w", err)
	}
	return rows, nil
}

// Vivas returns one row per book with its text marks and current viva.
func (r *ReportRepository) Vivas(ctx context.Context, filter models.ReportFilter) ([]models.VivaReportRow, error) {
	where, args := reportConditions(filter)
	query := `SELECT st.id AS student_id, st.registration_number, st.full_name AS student_name, st.school_name,
       b.id AS book_id, b.title AS book_title,
       ie.grade AS internal_text_mark, ee.grade AS external_text_mark,
       v.id AS viva_id, v.viva_date, v.internal_mark AS internal_viva_mark, v.external_mark AS external_viva_mark, v.verdict
FROM books b
JOIN proposals p ON p.id = b.proposal_id
JOIN students st ON st.id = p.student_id
LEFT JOIN assignments ie ON ie.target_id = b.id AND ie.role_slot = 'book:internal-examiner' AND ie.is_current
LEFT JOIN assignments ee ON ee.target_id = b.id AND ee.role_slot = 'book:external-examiner' AND ee.is_current
LEFT JOIN vivas v ON v.book_id = b.id AND v.is_current` + where + `
ORDER BY st.registration_number ASC, b.submitted_at ASC, b.id ASC`

	var rows []models.VivaReportRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("viva report: %w", err)
	}
	return rows, nil
}

func reportConditions(filter models.ReportFilter) (string, []interface{}) {
	conditions := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)
	if filter.SchoolCode != "" {
		args = append(args, filter.SchoolCode)
		conditions = append(conditions, fmt.Sprintf("st.school_code = $%d", len(args)))
	}
	if filter.Program != "" {
		args = append(args, filter.Program)
		conditions = append(conditions, fmt.Sprintf("st.program = $%d", len(args)))
	}
	if len(conditions) == 0 {
		return "", args
	}
	return "\nWHERE " + strings.Join(conditions, " AND "), args
}
