package models

import "time"

// Capability is a role a person may be assigned to.
type Capability string

const (
	CapabilityExaminer         Capability = "EXAMINER"
	CapabilitySupervisor       Capability = "SUPERVISOR"
	CapabilityPanelist         Capability = "PANELIST"
	CapabilityReviewer         Capability = "REVIEWER"
	CapabilityMinutesSecretary Capability = "MINUTES_SECRETARY"
)

// Valid reports whether the capability is known.
func (c Capability) Valid() bool {
	switch c {
	case CapabilityExaminer, CapabilitySupervisor, CapabilityPanelist, CapabilityReviewer, CapabilityMinutesSecretary:
		return true
	}
	return false
}

// ExaminerType distinguishes internal from external examiners.
type ExaminerType string

const (
	ExaminerInternal ExaminerType = "INTERNAL"
	ExaminerExternal ExaminerType = "EXTERNAL"
)

// Person is the single identity record for a human, staff or external.
type Person struct {
	ID          string    `db:"id" json:"id"`
	FullName    string    `db:"full_name" json:"fullName"`
	Email       string    `db:"email" json:"email"`
	StaffNumber *string   `db:"staff_number" json:"staffNumber,omitempty"`
	Institution string    `db:"institution" json:"institution"`
	IsStaff     bool      `db:"is_staff" json:"isStaff"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// PersonCapability links a capability back to the owning person.
type PersonCapability struct {
	ID           string        `db:"id" json:"id"`
	PersonID     string        `db:"person_id" json:"personId"`
	Capability   Capability    `db:"capability" json:"capability"`
	ExaminerType *ExaminerType `db:"examiner_type" json:"examinerType,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
}

// Panelist is the panelist capability of a staff member.
type Panelist struct {
	ID        string    `json:"id"`
	PersonID  string    `json:"personId"`
	FullName  string    `json:"fullName"`
	CreatedAt time.Time `json:"createdAt"`
	Created   bool      `json:"created"`
}
