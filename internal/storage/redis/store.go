// Package redis wraps the fast admission store. The per-campaign counter and
// per-(campaign, user) dedup marker defined here are the only shared mutable
// state on the apply hot path; all coordination happens through the store's
// atomic primitives, never through read-modify-write in application code.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	counterKeyPrefix = "campaign:apply:count:"
	appliedKeyPrefix = "campaign:apply:applied:"
)

type Store struct {
	client *goredis.Client
}

func NewStore(client *goredis.Client) *Store {
	return &Store{client: client}
}

func counterKey(campaignID int64) string {
	return fmt.Sprintf("%s%d", counterKeyPrefix, campaignID)
}

func appliedKey(campaignID, userID int64) string {
	return fmt.Sprintf("%s%d:%d", appliedKeyPrefix, campaignID, userID)
}

// IncrementApplicants atomically bumps the campaign's reservation counter and
// returns the post-increment value. The key expires with the campaign window
// so stale counters never outlive their campaign. An error means the outcome
// is unknown; callers must fail the request rather than retry the increment.
func (s *Store) IncrementApplicants(ctx context.Context, campaignID int64, ttl time.Duration) (int64, error) {
	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, counterKey(campaignID))
	pipe.ExpireNX(ctx, counterKey(campaignID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("increment applicants: %w", err)
	}
	return incr.Val(), nil
}

// DecrementApplicants rolls back one reservation after an over-capacity
// increment or a lost dedup race.
func (s *Store) DecrementApplicants(ctx context.Context, campaignID int64) error {
	if err := s.client.Decr(ctx, counterKey(campaignID)).Err(); err != nil {
		return fmt.Errorf("decrement applicants: %w", err)
	}
	return nil
}

// HasApplied reports whether a dedup marker exists for the pair.
func (s *Store) HasApplied(ctx context.Context, campaignID, userID int64) (bool, error) {
	n, err := s.client.Exists(ctx, appliedKey(campaignID, userID)).Result()
	if err != nil {
		return false, fmt.Errorf("check applied marker: %w", err)
	}
	return n > 0, nil
}

// MarkApplied sets the dedup marker for the pair. SETNX makes the check and
// the reservation one atomic step, so of two concurrent requests from the
// same user exactly one observes true.
func (s *Store) MarkApplied(ctx context.Context, campaignID, userID int64, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, appliedKey(campaignID, userID), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("set applied marker: %w", err)
	}
	return ok, nil
}
