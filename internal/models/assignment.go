package models

import (
	"encoding/json"
	"strings"
	"time"
)

// RoleSlot names a position an assignee can hold against a target.
type RoleSlot string

const (
	SlotBookInternalExaminer       RoleSlot = "book:internal-examiner"
	SlotBookExternalExaminer       RoleSlot = "book:external-examiner"
	SlotStudentPrimarySupervisor   RoleSlot = "student:primary-supervisor"
	SlotStudentSecondarySupervisor RoleSlot = "student:secondary-supervisor"
)

// SlotSpec captures the rules attached to a role slot.
type SlotSpec struct {
	Slot         RoleSlot
	Target       EntityType
	Capability   Capability
	ExaminerType *ExaminerType
	// Exclusive lists sibling slots the same assignee may not hold concurrently.
	Exclusive []RoleSlot
}

// Graded reports whether assignments in the slot carry an examiner grade.
func (s SlotSpec) Graded() bool {
	return s.Capability == CapabilityExaminer
}

var (
	internalExaminer = ExaminerInternal
	externalExaminer = ExaminerExternal
)

var slotSpecs = map[RoleSlot]SlotSpec{
	SlotBookInternalExaminer: {
		Slot: SlotBookInternalExaminer, Target: EntityBook,
		Capability: CapabilityExaminer, ExaminerType: &internalExaminer,
	},
	SlotBookExternalExaminer: {
		Slot: SlotBookExternalExaminer, Target: EntityBook,
		Capability: CapabilityExaminer, ExaminerType: &externalExaminer,
	},
	SlotStudentPrimarySupervisor: {
		Slot: SlotStudentPrimarySupervisor, Target: EntityStudent,
		Capability: CapabilitySupervisor, Exclusive: []RoleSlot{SlotStudentSecondarySupervisor},
	},
	SlotStudentSecondarySupervisor: {
		Slot: SlotStudentSecondarySupervisor, Target: EntityStudent,
		Capability: CapabilitySupervisor, Exclusive: []RoleSlot{SlotStudentPrimarySupervisor},
	},
}

// LookupSlot resolves a slot by its full name or by its unprefixed suffix
// ("primary-supervisor").
func LookupSlot(raw string) (SlotSpec, bool) {
	name := RoleSlot(strings.ToLower(strings.TrimSpace(raw)))
	if def, ok := slotSpecs[name]; ok {
		return def, true
	}
	for slot, def := range slotSpecs {
		if _, suffix, found := strings.Cut(string(slot), ":"); found && suffix == string(name) {
			return def, true
		}
	}
	return SlotSpec{}, false
}

// Assignment binds an assignee to a role slot on a target.
type Assignment struct {
	ID         string          `db:"id" json:"id"`
	TargetType EntityType      `db:"target_type" json:"targetType"`
	TargetID   string          `db:"target_id" json:"targetId"`
	RoleSlot   RoleSlot        `db:"role_slot" json:"roleSlot"`
	AssigneeID string          `db:"assignee_id" json:"assigneeId"`
	IsCurrent  bool            `db:"is_current" json:"isCurrent"`
	Grade      *float64        `db:"grade" json:"grade,omitempty"`
	GradedAt   *time.Time      `db:"graded_at" json:"gradedAt,omitempty"`
	Metadata   json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	AssignedBy string          `db:"assigned_by" json:"assignedBy"`
	AssignedAt time.Time       `db:"assigned_at" json:"assignedAt"`
	EndedAt    *time.Time      `db:"ended_at" json:"endedAt,omitempty"`
	EndReason  *string         `db:"end_reason" json:"endReason,omitempty"`
}

// AssignmentFilter constrains assignment listings for a target.
type AssignmentFilter struct {
	TargetID    string
	RoleSlot    RoleSlot
	CurrentOnly bool
}
