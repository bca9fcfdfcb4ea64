package domain

import "errors"

var (
	ErrCampaignNotFound     = errors.New("campaign not found")
	ErrCampaignNotAvailable = errors.New("campaign not available")
	ErrAlreadyApplied       = errors.New("already applied")
	ErrInvalidID            = errors.New("invalid id")
)
