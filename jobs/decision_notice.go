package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/vendorkut/vendorkut/internal/jobs"
)

// DecisionNoticeJob turns approval decisions into outgoing mail.
type DecisionNoticeJob struct {
	Mailer  Mailer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewDecisionNoticeJob initialises the decision notice handler.
func NewDecisionNoticeJob(mailer Mailer, logger *slog.Logger, metrics *jobmetrics.Metrics) *DecisionNoticeJob {
	return &DecisionNoticeJob{Mailer: mailer, Logger: logger, Metrics: metrics}
}

// Handle processes TaskTypeDecisionNotice tasks.
func (j *DecisionNoticeJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Mailer == nil {
		return errors.New("decision notice: handler not configured")
	}
	var payload DecisionNoticePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.To == "" {
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskTypeDecisionNotice)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	subject, body := composeDecisionMail(payload)
	if err := j.Mailer.Send(ctx, payload.To, subject, body); err != nil {
		j.Logger.Error("send decision notice", slog.String("to", payload.To), slog.Any("error", err))
		resultErr = err
		return err
	}
	j.Logger.Info("decision notice sent", slog.String("to", payload.To), slog.String("module", payload.Module), slog.String("action", payload.Action))
	return nil
}

func composeDecisionMail(p DecisionNoticePayload) (subject, body string) {
	noun := "account"
	if p.Module == "products" {
		noun = "product"
	}
	switch p.Action {
	case "APPROVE":
		subject = fmt.Sprintf("Your %s has been approved", noun)
		body = fmt.Sprintf("Good news! Your %s is now approved and active on Vendorkut.\n", noun)
	default:
		subject = fmt.Sprintf("Your %s submission was not approved", noun)
		body = fmt.Sprintf("Unfortunately your %s was not approved.\n\nReason: %s\n", noun, p.Reason)
	}
	return subject, body
}
