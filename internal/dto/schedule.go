package dto

import (
	"time"

	"github.com/noah-isme/thesis-workflow-api/internal/models"
)

// ScheduleDefenseRequest schedules a proposal defense.
type ScheduleDefenseRequest struct {
	ScheduledDate time.Time `json:"scheduledDate" validate:"required"`
	Venue         string    `json:"venue" validate:"max=200"`
	PanelistIDs   []string  `json:"panelistIds" validate:"required,min=1,dive,uuid"`
}

// DefenseVerdictRequest records a defense verdict.
type DefenseVerdictRequest struct {
	Verdict models.Verdict `json:"verdict" validate:"required,oneof=PASS PASS_WITH_MINOR_CORRECTIONS PASS_WITH_MAJOR_CORRECTIONS REFER FAIL"`
}

// ScheduleVivaRequest schedules a book viva. Panelist and reviewer rules are
// enforced by the scheduler so they surface as their own error codes.
type ScheduleVivaRequest struct {
	VivaDate           time.Time `json:"vivaDate" validate:"required"`
	Location           string    `json:"location" validate:"required,max=200"`
	ChairpersonID      string    `json:"chairpersonId" validate:"required,uuid"`
	MinutesSecretaryID string    `json:"minutesSecretaryId" validate:"required,uuid"`
	PanelistIDs        []string  `json:"panelistIds" validate:"dive,uuid"`
	ReviewerIDs        []string  `json:"reviewerIds" validate:"dive,uuid"`
}

// VivaVerdictRequest records viva marks and verdict.
type VivaVerdictRequest struct {
	InternalMark *float64       `json:"internalMark" validate:"required"`
	ExternalMark *float64       `json:"externalMark" validate:"required"`
	Verdict      models.Verdict `json:"verdict" validate:"required,oneof=PASS PASS_WITH_MINOR_CORRECTIONS PASS_WITH_MAJOR_CORRECTIONS REFER FAIL"`
}

// DefenseResult returns the new current defense and what it replaced.
type DefenseResult struct {
	Defense      models.Defense           `json:"defense"`
	SupersededID *string                  `json:"supersededId"`
	StatusChange *models.StatusTransition `json:"statusChange,omitempty"`
}

// VivaResult returns the new current viva and what it replaced.
type VivaResult struct {
	Viva         models.Viva              `json:"viva"`
	SupersededID *string                  `json:"supersededId"`
	StatusChange *models.StatusTransition `json:"statusChange,omitempty"`
}
