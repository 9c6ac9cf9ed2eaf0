package approval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vendorkut/vendorkut/internal/catalog"
	"github.com/vendorkut/vendorkut/internal/identity"
	"github.com/vendorkut/vendorkut/internal/shared"
)

// Notifier delivers decision notices out of band. Failures are logged, not
// surfaced: the transition has already committed.
type Notifier interface {
	NotifyDecision(ctx context.Context, notice Notice) error
}

// Service applies the pending -> approved / pending -> rejected transitions
// over identity and catalog records. Both terminal states are final; a
// decision on a non-pending record fails with ErrAlreadyProcessed.
type Service struct {
	users    identity.Repository
	products catalog.Repository
	recorder Recorder
	notifier Notifier
	logger   *slog.Logger
}

// NewService constructs a Service. notifier may be nil when no out-of-band
// delivery is configured.
func NewService(users identity.Repository, products catalog.Repository, recorder Recorder, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		products: products,
		recorder: recorder,
		notifier: notifier,
		logger:   logger,
	}
}

// ApproveUser transitions a pending identity record to approved. The
// pending guard rides on the conditional update, so concurrent decisions on
// the same record cannot both commit.
func (s *Service) ApproveUser(ctx context.Context, actorID, id string) (identity.User, error) {
	approved := shared.StatusApproved
	pending := shared.StatusPending
	updated, err := s.users.Update(ctx, id, identity.Patch{Status: &approved, ExpectStatus: &pending})
	if err != nil {
		return identity.User{}, err
	}
	s.finish(ctx, Decision{Module: ModuleUsers, RefID: id, ActorID: actorID, Action: ActionApprove}, updated.Email, "")
	return updated.Sanitized(), nil
}

// RejectUser transitions a pending identity record to rejected. The reason
// is mandatory, stored on the record, and surfaced to the affected identity.
func (s *Service) RejectUser(ctx context.Context, actorID, id, reason string) (identity.User, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return identity.User{}, fmt.Errorf("%w: rejection reason is required", shared.ErrValidation)
	}

	rejected := shared.StatusRejected
	pending := shared.StatusPending
	updated, err := s.users.Update(ctx, id, identity.Patch{Status: &rejected, RejectReason: &reason, ExpectStatus: &pending})
	if err != nil {
		return identity.User{}, err
	}
	s.finish(ctx, Decision{Module: ModuleUsers, RefID: id, ActorID: actorID, Action: ActionReject, Note: reason}, updated.Email, reason)
	return updated.Sanitized(), nil
}

// ApproveProduct transitions a pending catalog record to approved.
func (s *Service) ApproveProduct(ctx context.Context, actorID, id string) (catalog.Product, error) {
	approved := shared.StatusApproved
	pending := shared.StatusPending
	updated, err := s.products.Update(ctx, id, catalog.Patch{Status: &approved, ExpectStatus: &pending})
	if err != nil {
		return catalog.Product{}, err
	}
	s.finish(ctx, Decision{Module: ModuleProducts, RefID: id, ActorID: actorID, Action: ActionApprove}, s.sellerEmail(ctx, updated.SellerID), "")
	return updated, nil
}

// RejectProduct transitions a pending catalog record to rejected with a
// mandatory reason.
func (s *Service) RejectProduct(ctx context.Context, actorID, id, reason string) (catalog.Product, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return catalog.Product{}, fmt.Errorf("%w: rejection reason is required", shared.ErrValidation)
	}

	rejected := shared.StatusRejected
	pending := shared.StatusPending
	updated, err := s.products.Update(ctx, id, catalog.Patch{Status: &rejected, RejectReason: &reason, ExpectStatus: &pending})
	if err != nil {
		return catalog.Product{}, err
	}
	s.finish(ctx, Decision{Module: ModuleProducts, RefID: id, ActorID: actorID, Action: ActionReject, Note: reason}, s.sellerEmail(ctx, updated.SellerID), reason)
	return updated, nil
}

// History returns the decision log for one record.
func (s *Service) History(ctx context.Context, module Module, refID string) ([]Decision, error) {
	return s.recorder.List(ctx, module, refID)
}

// finish records the decision and enqueues the out-of-band notice. The
// transition itself has committed; bookkeeping failures are logged only.
func (s *Service) finish(ctx context.Context, decision Decision, email, reason string) {
	if err := s.recorder.Record(ctx, decision); err != nil {
		s.logger.Error("record decision", slog.Any("error", err))
	}
	if s.notifier == nil || email == "" {
		return
	}
	notice := Notice{
		RecipientEmail: email,
		Module:         decision.Module,
		RefID:          decision.RefID,
		Action:         decision.Action,
		Reason:         reason,
	}
	if err := s.notifier.NotifyDecision(ctx, notice); err != nil {
		s.logger.Error("enqueue decision notice", slog.Any("error", err))
	}
}

func (s *Service) sellerEmail(ctx context.Context, sellerID string) string {
	seller, err := s.users.GetByID(ctx, sellerID)
	if err != nil {
		s.logger.Warn("decision notice seller lookup", slog.String("seller_id", sellerID), slog.Any("error", err))
		return ""
	}
	return seller.Email
}
