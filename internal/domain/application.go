package domain

import "time"

// Application is one decided apply attempt, recorded durably exactly once per
// (campaign, user) pair.
type Application struct {
	CampaignID int64
	UserID     int64
	Selected   bool
	DecidedAt  time.Time
}

// UserApplication is a ledger row joined with campaign metadata for the
// "my applications" listing.
type UserApplication struct {
	CampaignID int64
	Title      string
	Selected   bool
	AppliedAt  time.Time
}
