package app

import (
	"context"
	"log/slog"

	"github.com/sennaseo/BOINDANG-sub000/internal/clock"
	"github.com/sennaseo/BOINDANG-sub000/internal/domain"
)

type ReconcileRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateApplicationIfAbsent(ctx context.Context, app domain.Application) (bool, error)
	IncrementApplicantsIfBelowCapacity(ctx context.Context, campaignID int64) (bool, error)
}

// ReconcileService persists decision events into the durable ledger. The
// relay is at-least-once, so Record is keyed on (campaign, user): the insert
// and the counter increment run in one transaction, and a redelivered event
// takes the conflict path without touching the counter.
type ReconcileService struct {
	repo   ReconcileRepository
	clock  clock.Clock
	logger *slog.Logger
}

func NewReconcileService(repo ReconcileRepository, clk clock.Clock, logger *slog.Logger) *ReconcileService {
	return &ReconcileService{
		repo:   repo,
		clock:  clk,
		logger: logger,
	}
}

// Record returns true when the event was durably recorded for the first time.
func (s *ReconcileService) Record(ctx context.Context, ev domain.DecisionEvent) (bool, error) {
	now := s.clock.Now()
	var created bool

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.repo.CreateApplicationIfAbsent(txCtx, domain.Application{
			CampaignID: ev.CampaignID,
			UserID:     ev.UserID,
			Selected:   ev.Selected,
			DecidedAt:  now,
		})
		if err != nil {
			return err
		}
		if !created || !ev.Selected {
			return nil
		}

		updated, err := s.repo.IncrementApplicantsIfBelowCapacity(txCtx, ev.CampaignID)
		if err != nil {
			return err
		}
		if !updated {
			// The fast store admitted more than the durable capacity allows,
			// for instance after a store flush. The ledger row stays; the
			// counter is capped at capacity.
			s.logger.Warn("applicant count already at capacity",
				"campaign_id", ev.CampaignID, "user_id", ev.UserID)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}
