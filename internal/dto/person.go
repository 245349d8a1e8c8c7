package dto

import "github.com/noah-isme/thesis-workflow-api/internal/models"

// CreatePersonRequest registers a person identity.
type CreatePersonRequest struct {
	FullName    string  `json:"fullName" validate:"required,max=200"`
	Email       string  `json:"email" validate:"omitempty,email"`
	StaffNumber *string `json:"staffNumber" validate:"omitempty,max=64"`
	Institution string  `json:"institution" validate:"max=200"`
	IsStaff     bool    `json:"isStaff"`
}

// GrantCapabilityRequest attaches a capability to a person.
type GrantCapabilityRequest struct {
	Capability   string  `json:"capability" validate:"required,oneof=EXAMINER SUPERVISOR PANELIST REVIEWER MINUTES_SECRETARY"`
	ExaminerType *string `json:"examinerType" validate:"omitempty,oneof=INTERNAL EXTERNAL"`
}

// PersonResponse returns a person with every capability it holds.
type PersonResponse struct {
	Person       models.Person             `json:"person"`
	Capabilities []models.PersonCapability `json:"capabilities"`
}

// CapabilityResult reports the capability record and whether it was newly created.
type CapabilityResult struct {
	Capability models.PersonCapability `json:"capability"`
	Created    bool                    `json:"created"`
}
