package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/noah-isme/thesis-workflow-api/internal/dto"
	"github.com/noah-isme/thesis-workflow-api/internal/models"
	appErrors "github.com/noah-isme/thesis-workflow-api/pkg/errors"
	"github.com/noah-isme/thesis-workflow-api/pkg/export"
)

type reportRepository interface {
	ProposalDefenses(ctx context.Context, filter models.ReportFilter) ([]models.ProposalDefenseRow, error)
	Vivas(ctx context.Context, filter models.ReportFilter) ([]models.VivaReportRow, error)
}

type reportCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetAtGeneration(ctx context.Context, key string, value interface{}, ttl time.Duration, gen int64) error
}

type reportRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
	ContentType() string
	Extension() string
}

const (
	reportFormatJSON = "json"
	reportDateLayout = "2006-01-02"
	schoolHeader     = "School"
)

// ProposalReport is the school-grouped proposal defense table.
type ProposalReport = []models.SchoolGroup[models.ProposalDefenseRow]

// VivaReport is the school-grouped viva table.
type VivaReport = []models.SchoolGroup[models.VivaReportRow]

// ReportService builds grouped workflow reports and renders them for export.
type ReportService struct {
	repo      reportRepository
	cache     reportCache
	cacheTTL  time.Duration
	renderers map[string]reportRenderer
	hooks     *WorkflowHooks
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReportService constructs the report service with CSV, PDF and XLSX renderers.
func NewReportService(repo reportRepository, cache reportCache, cacheTTL time.Duration, hooks *WorkflowHooks, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	renderers := map[string]reportRenderer{}
	for _, r := range []reportRenderer{export.NewCSVExporter(), export.NewPDFExporter(), export.NewXLSXExporter()} {
		renderers[r.Extension()] = r
	}
	return &ReportService{
		repo:      repo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		renderers: renderers,
		hooks:     hooks,
		validator: validate,
		logger:    logger,
	}
}

// Proposals returns the proposal defense report. The boolean reports a cache hit.
func (s *ReportService) Proposals(ctx context.Context, query dto.ReportQuery) (ProposalReport, bool, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report query")
	}
	gen, cacheable := s.cacheGeneration(ctx)
	key := reportCacheKey("proposals", gen, query)
	var report ProposalReport
	if cacheable && s.fromCache(ctx, key, &report) {
		return report, true, nil
	}

	rows, err := s.repo.ProposalDefenses(ctx, reportFilter(query))
	if err != nil {
		return nil, false, s.hooks.translate("load proposal report", err)
	}
	for i := range rows {
		rows[i].Classification = classifyVerdict(rows[i].Verdict)
	}
	report = GroupBySchool(rows, func(row models.ProposalDefenseRow) string { return row.SchoolName })
	if cacheable {
		s.toCache(ctx, key, gen, report)
	}
	return report, false, nil
}

// Vivas returns the viva report with viva contribution and classification per book.
func (s *ReportService) Vivas(ctx context.Context, query dto.ReportQuery) (VivaReport, bool, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report query")
	}
	gen, cacheable := s.cacheGeneration(ctx)
	key := reportCacheKey("vivas", gen, query)
	var report VivaReport
	if cacheable && s.fromCache(ctx, key, &report) {
		return report, true, nil
	}

	rows, err := s.repo.Vivas(ctx, reportFilter(query))
	if err != nil {
		return nil, false, s.hooks.translate("load viva report", err)
	}
	for i := range rows {
		rows[i].VivaContribution = TotalVivaContribution(models.MarkPair{
			Internal: lo.FromPtr(rows[i].InternalVivaMark),
			External: lo.FromPtr(rows[i].ExternalVivaMark),
		})
		rows[i].Classification = classifyVerdict(rows[i].Verdict)
	}
	report = GroupBySchool(rows, func(row models.VivaReportRow) string { return row.SchoolName })
	if cacheable {
		s.toCache(ctx, key, gen, report)
	}
	return report, false, nil
}

// ExportProposals renders the proposal report in the requested file format.
func (s *ReportService) ExportProposals(ctx context.Context, query dto.ReportQuery) (*dto.ExportFile, error) {
	renderer, err := s.renderer(query.Format)
	if err != nil {
		return nil, err
	}
	report, _, err := s.Proposals(ctx, query)
	if err != nil {
		return nil, err
	}
	data := export.Dataset{
		Headers:     []string{schoolHeader, "Registration No", "Student", "Proposal", "Defense Date", "Verdict", "Classification", "Status"},
		GroupColumn: schoolHeader,
	}
	for _, group := range report {
		for _, row := range group.Items {
			data.Rows = append(data.Rows, map[string]string{
				schoolHeader:      group.School,
				"Registration No": row.RegistrationNumber,
				"Student":         row.StudentName,
				"Proposal":        row.ProposalTitle,
				"Defense Date":    formatDate(row.ScheduledDate),
				"Verdict":         string(lo.FromPtr(row.Verdict)),
				"Classification":  string(row.Classification),
				"Status":          lo.FromPtr(row.CurrentStatus),
			})
		}
	}
	return s.render(renderer, data, "Proposal Defense Report", "proposal-defenses")
}

// ExportVivas renders the viva report in the requested file format.
func (s *ReportService) ExportVivas(ctx context.Context, query dto.ReportQuery) (*dto.ExportFile, error) {
	renderer, err := s.renderer(query.Format)
	if err != nil {
		return nil, err
	}
	report, _, err := s.Vivas(ctx, query)
	if err != nil {
		return nil, err
	}
	data := export.Dataset{
		Headers: []string{schoolHeader, "Registration No", "Student", "Book", "Internal Text", "External Text",
			"Viva Date", "Internal Viva", "External Viva", "Viva Contribution", "Verdict", "Classification"},
		GroupColumn: schoolHeader,
	}
	for _, group := range report {
		for _, row := range group.Items {
			data.Rows = append(data.Rows, map[string]string{
				schoolHeader:        group.School,
				"Registration No":   row.RegistrationNumber,
				"Student":           row.StudentName,
				"Book":              row.BookTitle,
				"Internal Text":     formatMark(row.InternalTextMark),
				"External Text":     formatMark(row.ExternalTextMark),
				"Viva Date":         formatDate(row.VivaDate),
				"Internal Viva":     formatMark(row.InternalVivaMark),
				"External Viva":     formatMark(row.ExternalVivaMark),
				"Viva Contribution": fmt.Sprintf("%.2f", row.VivaContribution),
				"Verdict":           string(lo.FromPtr(row.Verdict)),
				"Classification":    string(row.Classification),
			})
		}
	}
	return s.render(renderer, data, "Viva Report", "vivas")
}

func (s *ReportService) renderer(format string) (reportRenderer, error) {
	renderer, ok := s.renderers[strings.ToLower(format)]
	if !ok {
		return nil, appErrors.WithField(appErrors.ErrValidation, "format", "format must be one of csv, pdf, xlsx")
	}
	return renderer, nil
}

func (s *ReportService) render(renderer reportRenderer, data export.Dataset, title, name string) (*dto.ExportFile, error) {
	payload, err := renderer.Render(data, title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("%s-%s.%s", name, time.Now().UTC().Format("20060102"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Payload:     payload,
	}, nil
}

// cacheGeneration must be read before the database so that a commit landing
// during the query makes the result uncacheable.
func (s *ReportService) cacheGeneration(ctx context.Context) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		return 0, false
	}
	return gen, true
}

func (s *ReportService) fromCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		return false
	}
	return hit
}

func (s *ReportService) toCache(ctx context.Context, key string, gen int64, value interface{}) {
	if err := s.cache.SetAtGeneration(ctx, key, value, s.cacheTTL, gen); err != nil {
		s.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// IsFileFormat reports whether the query asks for a rendered file rather than JSON.
func IsFileFormat(format string) bool {
	format = strings.ToLower(strings.TrimSpace(format))
	return format != "" && format != reportFormatJSON
}

func reportCacheKey(kind string, gen int64, query dto.ReportQuery) string {
	return fmt.Sprintf("reports:g%d:%s:%s:%s", gen, kind, strings.TrimSpace(query.SchoolCode), strings.TrimSpace(query.Program))
}

func reportFilter(query dto.ReportQuery) models.ReportFilter {
	return models.ReportFilter{SchoolCode: strings.TrimSpace(query.SchoolCode), Program: strings.TrimSpace(query.Program)}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(reportDateLayout)
}

func formatMark(mark *float64) string {
	if mark == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *mark)
}
