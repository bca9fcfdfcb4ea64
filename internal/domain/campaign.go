package domain

import "time"

type CampaignStatus string

const (
	CampaignStatusPending CampaignStatus = "PENDING"
	CampaignStatusOpen    CampaignStatus = "OPEN"
	CampaignStatusClosed  CampaignStatus = "CLOSED"
)

// Campaign is a limited-capacity sign-up event from the durable catalog.
type Campaign struct {
	ID          int64
	Name        string
	Description string
	Category    string
	Hashtags    string
	Notice      string
	Capacity    int
	// Applicants is the durably reconciled applicant count. It trails the
	// fast-store counter while decision events are in flight.
	Applicants int
	StartAt    time.Time
	EndAt      time.Time
	CreatedAt  time.Time
}

// Status derives the lifecycle state from the window and the applicant count.
// It is computed on read so the counter stays the single source of truth.
func (c Campaign) Status(now time.Time) CampaignStatus {
	if c.Capacity > 0 && c.Applicants >= c.Capacity {
		return CampaignStatusClosed
	}
	if now.Before(c.StartAt) {
		return CampaignStatusPending
	}
	if !now.Before(c.EndAt) {
		return CampaignStatusClosed
	}
	return CampaignStatusOpen
}

// Remaining returns the time left until the campaign closes. A non-positive
// value means the window has elapsed.
func (c Campaign) Remaining(now time.Time) time.Duration {
	return c.EndAt.Sub(now)
}
