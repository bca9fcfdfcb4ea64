package domain

// DecisionEvent carries one admission decision over the event relay. Delivery
// is at-least-once, so consumers must treat (CampaignID, UserID) as the
// idempotency key.
type DecisionEvent struct {
	CampaignID int64 `json:"campaignId"`
	UserID     int64 `json:"userId"`
	Selected   bool  `json:"selected"`
}
