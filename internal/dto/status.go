package dto

import (
	"time"

	"github.com/noah-isme/thesis-workflow-api/internal/models"
)

// TransitionStatusRequest moves an entity to a new status.
type TransitionStatusRequest struct {
	StatusDefinitionID string     `json:"statusDefinitionId" validate:"required,uuid"`
	EffectiveAt        *time.Time `json:"effectiveAt"`
}

// StatusDefinitionRequest creates or replaces a status definition.
type StatusDefinitionRequest struct {
	Name                 string   `json:"name" validate:"required,max=120"`
	Description          string   `json:"description" validate:"max=500"`
	ExpectedDurationDays *int     `json:"expectedDurationDays" validate:"omitempty,min=0"`
	WarningDays          *int     `json:"warningDays" validate:"omitempty,min=0"`
	CriticalDays         *int     `json:"criticalDays" validate:"omitempty,min=0"`
	DelayDays            *int     `json:"delayDays" validate:"omitempty,min=0"`
	NotifyRoles          []string `json:"notifyRoles" validate:"omitempty,dive,required,max=64"`
	Color                string   `json:"color" validate:"omitempty,hexcolor"`
	IsActive             *bool    `json:"isActive"`
}

// StatusDefinitionQuery filters definition listings.
type StatusDefinitionQuery struct {
	ActiveOnly bool `form:"activeOnly"`
}

// CurrentStatusResponse wraps the current record, which may be absent.
type CurrentStatusResponse struct {
	EntityType models.EntityType    `json:"entityType"`
	EntityID   string               `json:"entityId"`
	Current    *models.StatusRecord `json:"current"`
}
