package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sennaseo/BOINDANG-sub000/internal/clock"
	"github.com/sennaseo/BOINDANG-sub000/internal/domain"
	"github.com/sennaseo/BOINDANG-sub000/internal/metrics"
)

type CampaignReader interface {
	GetCampaign(ctx context.Context, id int64) (domain.Campaign, error)
}

type ApplicationFinder interface {
	FindApplication(ctx context.Context, campaignID, userID int64) (*domain.Application, error)
}

// AdmissionStore exposes the fast store's atomic primitives. The increment is
// not idempotent, so a failed call must fail the request instead of retrying.
type AdmissionStore interface {
	HasApplied(ctx context.Context, campaignID, userID int64) (bool, error)
	IncrementApplicants(ctx context.Context, campaignID int64, ttl time.Duration) (int64, error)
	DecrementApplicants(ctx context.Context, campaignID int64) error
	MarkApplied(ctx context.Context, campaignID, userID int64, ttl time.Duration) (bool, error)
}

type DecisionPublisher interface {
	Publish(ctx context.Context, ev domain.DecisionEvent) error
}

// ApplyService decides campaign admission. The fast store's counter is the
// primary concurrency guard; the durable re-check only catches staleness.
type ApplyService struct {
	campaigns      CampaignReader
	applications   ApplicationFinder
	store          AdmissionStore
	publisher      DecisionPublisher
	clock          clock.Clock
	logger         *slog.Logger
	publishTimeout time.Duration
}

const defaultPublishTimeout = 5 * time.Second

func NewApplyService(
	campaigns CampaignReader,
	applications ApplicationFinder,
	store AdmissionStore,
	publisher DecisionPublisher,
	clk clock.Clock,
	logger *slog.Logger,
	opts ...ApplyServiceOption,
) *ApplyService {
	svc := &ApplyService{
		campaigns:      campaigns,
		applications:   applications,
		store:          store,
		publisher:      publisher,
		clock:          clk,
		logger:         logger,
		publishTimeout: defaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ApplyServiceOption func(*ApplyService)

// WithPublishTimeout overrides the deadline for the fire-and-forget publish.
func WithPublishTimeout(d time.Duration) ApplyServiceOption {
	return func(s *ApplyService) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

type ApplyResult struct {
	CampaignID int64
	Selected   bool
}

// Apply decides admission for one (campaign, user) pair.
//
// The linearization point is the counter increment: exactly capacity requests
// observe a post-increment value within bounds, and an over-capacity
// increment is rolled back unconditionally. The caller gets a definitive
// decision synchronously; durable recording happens via the relay.
func (s *ApplyService) Apply(ctx context.Context, campaignID, userID int64) (ApplyResult, error) {
	campaign, err := s.campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return ApplyResult{}, err
	}

	now := s.clock.Now()
	ttl := campaign.Remaining(now)
	if ttl <= 0 {
		return ApplyResult{}, domain.ErrCampaignNotAvailable
	}

	applied, err := s.store.HasApplied(ctx, campaignID, userID)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("check dedup marker: %w", err)
	}
	if applied {
		return ApplyResult{}, domain.ErrAlreadyApplied
	}

	// Durable re-check, in case the fast store was reset.
	existing, err := s.applications.FindApplication(ctx, campaignID, userID)
	if err != nil {
		return ApplyResult{}, err
	}
	if err := domain.CheckEligibility(campaign, now, existing); err != nil {
		return ApplyResult{}, err
	}

	seat, err := s.store.IncrementApplicants(ctx, campaignID, ttl)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("reserve seat: %w", err)
	}

	selected := seat <= int64(campaign.Capacity)
	if !selected {
		if err := s.store.DecrementApplicants(ctx, campaignID); err != nil {
			s.logger.Error("rollback over-capacity reservation",
				"campaign_id", campaignID, "error", err)
		}
	} else {
		won, err := s.store.MarkApplied(ctx, campaignID, userID, ttl)
		if err != nil {
			// Marker state is unknown; release the seat and fail the request.
			if derr := s.store.DecrementApplicants(ctx, campaignID); derr != nil {
				s.logger.Error("rollback reservation after marker failure",
					"campaign_id", campaignID, "error", derr)
			}
			return ApplyResult{}, fmt.Errorf("set dedup marker: %w", err)
		}
		if !won {
			// A concurrent request from the same user took the seat first.
			if derr := s.store.DecrementApplicants(ctx, campaignID); derr != nil {
				s.logger.Error("rollback duplicate reservation",
					"campaign_id", campaignID, "error", derr)
			}
			return ApplyResult{}, domain.ErrAlreadyApplied
		}
	}

	if selected {
		metrics.Decisions.WithLabelValues(metrics.OutcomeSelected).Inc()
	} else {
		metrics.Decisions.WithLabelValues(metrics.OutcomeRejected).Inc()
	}

	s.publishDecision(domain.DecisionEvent{
		CampaignID: campaignID,
		UserID:     userID,
		Selected:   selected,
	})

	return ApplyResult{CampaignID: campaignID, Selected: selected}, nil
}

// publishDecision hands the event to the relay without blocking the caller.
// The decision already happened at the store, so a publish failure never
// fails the request; it is logged and counted for alerting.
func (s *ApplyService) publishDecision(ev domain.DecisionEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.publishTimeout)
		defer cancel()

		if err := s.publisher.Publish(ctx, ev); err != nil {
			metrics.PublishFailures.Inc()
			s.logger.Error("publish decision event",
				"campaign_id", ev.CampaignID, "user_id", ev.UserID,
				"selected", ev.Selected, "error", err)
		}
	}()
}
