package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeDecisionNotice is the task type for approval decision
	// notifications.
	TaskTypeDecisionNotice = "approval:notice"
)

// DecisionNoticePayload carries the decision facts needed to notify the
// affected account.
type DecisionNoticePayload struct {
	To     string `json:"to"`
	Module string `json:"module"`
	RefID  string `json:"ref_id"`
	Action string `json:"action"`
	Reason string `json:"reason,omitempty"`
}

// NewDecisionNoticeTask constructs an Asynq task for the payload.
func NewDecisionNoticeTask(payload DecisionNoticePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeDecisionNotice, data), nil
}
