package domain

import "time"

// CheckEligibility re-validates an apply attempt against durable state. It is
// the slow secondary guard behind the fast-store reservation: it catches
// staleness (for instance after the fast store was flushed) but does not
// arbitrate concurrent requests.
//
// The caller passes a single fixed now so the decision and reconciliation
// paths share one view of time within a logical operation.
func CheckEligibility(c Campaign, now time.Time, existing *Application) error {
	if existing != nil {
		return ErrAlreadyApplied
	}
	if c.Status(now) != CampaignStatusOpen {
		return ErrCampaignNotAvailable
	}
	return nil
}
