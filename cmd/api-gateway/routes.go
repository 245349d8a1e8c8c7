package main

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/thesis-workflow-api/internal/handler"
	"github.com/noah-isme/thesis-workflow-api/internal/middleware"
	"github.com/noah-isme/thesis-workflow-api/internal/models"
)

type handlers struct {
	entities    *handler.EntityHandler
	ledger      *handler.LedgerHandler
	definitions *handler.StatusDefinitionHandler
	assignments *handler.AssignmentHandler
	persons     *handler.PersonHandler
	scheduler   *handler.SchedulerHandler
	reports     *handler.ReportHandler
}

// ledgerSegments are the route prefixes of entities that carry a status ledger.
var ledgerSegments = map[string]models.EntityType{
	"students":  models.EntityStudent,
	"proposals": models.EntityProposal,
	"books":     models.EntityBook,
}

func registerRoutes(api *gin.RouterGroup, h handlers, tokens middleware.TokenValidator) {
	api.Use(middleware.JWT(tokens))

	read := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleStaff)
	write := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin)

	api.POST("/students", write, h.entities.RegisterStudent)
	api.GET("/students/:id", read, h.entities.GetStudent)
	api.POST("/students/:id/proposals", write, h.entities.SubmitProposal)
	api.GET("/proposals/:id", read, h.entities.GetProposal)
	api.POST("/proposals/:id/books", write, h.entities.SubmitBook)
	api.GET("/books/:id", read, h.entities.GetBook)

	for segment, entityType := range ledgerSegments {
		api.POST("/"+segment+"/:id/status", write, h.ledger.Transition(entityType))
		api.GET("/"+segment+"/:id/status", read, h.ledger.Current(entityType))
		api.GET("/"+segment+"/:id/status/history", read, h.ledger.History(entityType))
	}

	api.GET("/status-definitions", read, h.definitions.List)
	api.POST("/status-definitions", write, h.definitions.Create)
	api.PUT("/status-definitions/:id", write, h.definitions.Update)

	api.POST("/assignments", write, h.assignments.Assign)
	api.POST("/assignments/change", write, h.assignments.Change)
	api.PATCH("/assignments/:id/grade", write, h.assignments.RecordGrade)
	api.GET("/targets/:id/assignments", read, h.assignments.List)

	api.POST("/persons", write, h.persons.Create)
	api.GET("/persons/:id", read, h.persons.Get)
	api.POST("/persons/:id/panelist", write, h.persons.ConvertToPanelist)
	api.POST("/persons/:id/capabilities", write, h.persons.GrantCapability)

	api.POST("/proposals/:id/defenses", write, h.scheduler.ScheduleDefense)
	api.GET("/proposals/:id/defenses", read, h.scheduler.DefenseHistory)
	api.PATCH("/defenses/:id/verdict", write, h.scheduler.RecordDefenseVerdict)
	api.POST("/books/:id/vivas", write, h.scheduler.ScheduleViva)
	api.GET("/books/:id/vivas", read, h.scheduler.VivaHistory)
	api.PATCH("/vivas/:id/verdict", write, h.scheduler.RecordVivaVerdict)

	api.GET("/books/:id/marks", read, h.reports.BookMarks)
	api.GET("/reports/proposals", read, h.reports.ProposalReport)
	api.GET("/reports/vivas", read, h.reports.VivaReport)
}
