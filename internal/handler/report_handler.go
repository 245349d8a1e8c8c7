package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/thesis-workflow-api/internal/dto"
	"github.com/noah-isme/thesis-workflow-api/internal/middleware"
	"github.com/noah-isme/thesis-workflow-api/internal/models"
	"github.com/noah-isme/thesis-workflow-api/internal/service"
	"github.com/noah-isme/thesis-workflow-api/pkg/response"
)

type reportService interface {
	Proposals(ctx context.Context, query dto.ReportQuery) (service.ProposalReport, bool, error)
	Vivas(ctx context.Context, query dto.ReportQuery) (service.VivaReport, bool, error)
	ExportProposals(ctx context.Context, query dto.ReportQuery) (*dto.ExportFile, error)
	ExportVivas(ctx context.Context, query dto.ReportQuery) (*dto.ExportFile, error)
}

type marksService interface {
	BookMarks(ctx context.Context, bookID string) (*models.BookMarks, error)
}

// ReportHandler exposes the grade aggregator: per-book marks and school grouped reports.
type ReportHandler struct {
	reports reportService
	marks   marksService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports reportService, marks marksService) *ReportHandler {
	return &ReportHandler{reports: reports, marks: marks}
}

// BookMarks godoc
// @Summary Book marks summary
// @Description Examiner text marks, viva marks and the viva contribution (20% internal + 20% external).
// @Tags Reports
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} response.Envelope
// @Router /books/{id}/marks [get]
func (h *ReportHandler) BookMarks(c *gin.Context) {
	bookID, ok := pathID(c, "id", "book")
	if !ok {
		return
	}
	marks, err := h.marks.BookMarks(c.Request.Context(), bookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, marks, nil)
}

// ProposalReport godoc
// @Summary Proposal defense report grouped by school
// @Tags Reports
// @Produce json
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param schoolCode query string false "School code"
// @Param program query string false "Program"
// @Param format query string false "json, csv, pdf or xlsx"
// @Success 200 {object} response.Envelope
// @Router /reports/proposals [get]
func (h *ReportHandler) ProposalReport(c *gin.Context) {
	query, ok := bindReportQuery(c)
	if !ok {
		return
	}
	if service.IsFileFormat(query.Format) {
		h.sendFile(c, h.reports.ExportProposals, query)
		return
	}
	start := time.Now()
	report, cacheHit, err := h.reports.Proposals(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, reportMeta(c, cacheHit, start))
}

// VivaReport godoc
// @Summary Viva report grouped by school
// @Tags Reports
// @Produce json
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param schoolCode query string false "School code"
// @Param program query string false "Program"
// @Param format query string false "json, csv, pdf or xlsx"
// @Success 200 {object} response.Envelope
// @Router /reports/vivas [get]
func (h *ReportHandler) VivaReport(c *gin.Context) {
	query, ok := bindReportQuery(c)
	if !ok {
		return
	}
	if service.IsFileFormat(query.Format) {
		h.sendFile(c, h.reports.ExportVivas, query)
		return
	}
	start := time.Now()
	report, cacheHit, err := h.reports.Vivas(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, reportMeta(c, cacheHit, start))
}

func (h *ReportHandler) sendFile(c *gin.Context, render func(context.Context, dto.ReportQuery) (*dto.ExportFile, error), query dto.ReportQuery) {
	file, err := render(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Payload)
}

func bindReportQuery(c *gin.Context) (dto.ReportQuery, bool) {
	var query dto.ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid report query"))
		return query, false
	}
	return query, true
}

func reportMeta(c *gin.Context, cacheHit bool, start time.Time) map[string]interface{} {
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ResponseMeta(c)
	if _, ok := meta["processing_time_ms"]; !ok {
		meta["processing_time_ms"] = time.Since(start).Milliseconds()
	}
	return meta
}
