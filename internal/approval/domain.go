package approval

import "time"

// Action enumerates approval decision actions.
type Action string

const (
	// ActionApprove marks an approve decision.
	ActionApprove Action = "APPROVE"
	// ActionReject marks a reject decision.
	ActionReject Action = "REJECT"
)

// Module names the record kind a decision applies to.
type Module string

const (
	// ModuleUsers tags decisions over identity records.
	ModuleUsers Module = "users"
	// ModuleProducts tags decisions over catalog records.
	ModuleProducts Module = "products"
)

// Decision is one entry in the approval decision log.
type Decision struct {
	ID      int64
	Module  Module
	RefID   string
	ActorID string
	Action  Action
	Note    string
	At      time.Time
}

// Notice describes an out-of-band notification owed to the affected
// identity after a decision.
type Notice struct {
	RecipientEmail string
	Module         Module
	RefID          string
	Action         Action
	Reason         string
}
