package dto

import (
	"encoding/json"

	"github.com/noah-isme/thesis-workflow-api/internal/models"
)

// AssignRequest fills an empty role slot.
type AssignRequest struct {
	TargetID   string          `json:"targetId" validate:"required,uuid"`
	RoleSlot   string          `json:"roleSlot" validate:"required"`
	AssigneeID string          `json:"assigneeId" validate:"required,uuid"`
	Metadata   json.RawMessage `json:"metadata"`
}

// ChangeAssignmentRequest replaces the current holder of a role slot.
type ChangeAssignmentRequest struct {
	TargetID      string          `json:"targetId" validate:"required,uuid"`
	RoleSlot      string          `json:"roleSlot" validate:"required"`
	OldAssigneeID string          `json:"oldAssigneeId" validate:"required,uuid"`
	NewAssigneeID string          `json:"newAssigneeId" validate:"required,uuid,nefield=OldAssigneeID"`
	Reason        string          `json:"reason" validate:"required,max=500"`
	Metadata      json.RawMessage `json:"metadata"`
}

// RecordGradeRequest records an examiner grade.
type RecordGradeRequest struct {
	Grade *float64 `json:"grade" validate:"required"`
}

// AssignmentQuery filters assignment listings for a target.
type AssignmentQuery struct {
	RoleSlot    string `form:"roleSlot"`
	CurrentOnly bool   `form:"currentOnly"`
}

// AssignmentResult returns the new current assignment and what it replaced.
type AssignmentResult struct {
	Assignment   models.Assignment        `json:"assignment"`
	SupersededID *string                  `json:"supersededId"`
	StatusChange *models.StatusTransition `json:"statusChange,omitempty"`
}
