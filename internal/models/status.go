package models

import (
	"time"

	"github.com/lib/pq"
)

// Status names the scheduler state machines rely on. They are seeded by migration.
const (
	StatusRegistered        = "registered"
	StatusSubmitted         = "submitted"
	StatusDefenseScheduled  = "defense scheduled"
	StatusDefenseCompleted  = "defense completed"
	StatusExaminersAssigned = "examiners assigned"
	StatusVivaScheduled     = "viva scheduled"
	StatusVivaCompleted     = "viva completed"
)

// StatusDefinition describes a named workflow status and its escalation thresholds.
type StatusDefinition struct {
	ID                   string         `db:"id" json:"id"`
	Name                 string         `db:"name" json:"name"`
	Description          string         `db:"description" json:"description"`
	ExpectedDurationDays *int           `db:"expected_duration_days" json:"expectedDurationDays,omitempty"`
	WarningDays          *int           `db:"warning_days" json:"warningDays,omitempty"`
	CriticalDays         *int           `db:"critical_days" json:"criticalDays,omitempty"`
	DelayDays            *int           `db:"delay_days" json:"delayDays,omitempty"`
	NotifyRoles          pq.StringArray `db:"notify_roles" json:"notifyRoles"`
	Color                string         `db:"color" json:"color"`
	IsActive             bool           `db:"is_active" json:"isActive"`
	CreatedAt            time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time      `db:"updated_at" json:"updatedAt"`
}

// StatusRecord is one entry in an entity's status history.
type StatusRecord struct {
	ID                 string     `db:"id" json:"id"`
	EntityType         EntityType `db:"entity_type" json:"entityType"`
	EntityID           string     `db:"entity_id" json:"entityId"`
	StatusDefinitionID string     `db:"status_definition_id" json:"statusDefinitionId"`
	StatusName         string     `db:"status_name" json:"statusName"`
	IsCurrent          bool       `db:"is_current" json:"isCurrent"`
	EffectiveAt        time.Time  `db:"effective_at" json:"effectiveAt"`
	CreatedBy          string     `db:"created_by" json:"createdBy"`
	CreatedAt          time.Time  `db:"created_at" json:"createdAt"`
}

// StatusDefinitionFilter constrains definition listings.
type StatusDefinitionFilter struct {
	ActiveOnly bool
}

// StatusTransition is the outcome of moving an entity to a new status.
type StatusTransition struct {
	Record       StatusRecord `json:"record"`
	SupersededID *string      `json:"supersededId"`
	NotifyRoles  []string     `json:"notifyRoles,omitempty"`
}
