package shared

// Status is the lifecycle state shared by identity and catalog records.
// Records are created pending and reach a terminal state only through the
// approval workflow.
type Status string

const (
	// StatusPending marks a record awaiting an approval decision.
	StatusPending Status = "pending"
	// StatusApproved marks an approved record.
	StatusApproved Status = "approved"
	// StatusRejected marks a rejected record.
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}
