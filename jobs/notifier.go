package jobs

import (
	"context"

	"github.com/vendorkut/vendorkut/internal/approval"
)

// Notifier adapts the queue client to the approval workflow's notifier
// surface.
type Notifier struct {
	client *Client
}

// NewNotifier constructs a Notifier over the queue client.
func NewNotifier(client *Client) *Notifier {
	return &Notifier{client: client}
}

// NotifyDecision enqueues a decision notice task.
func (n *Notifier) NotifyDecision(ctx context.Context, notice approval.Notice) error {
	_, err := n.client.EnqueueDecisionNotice(ctx, DecisionNoticePayload{
		To:     notice.RecipientEmail,
		Module: string(notice.Module),
		RefID:  notice.RefID,
		Action: string(notice.Action),
		Reason: notice.Reason,
	})
	return err
}
