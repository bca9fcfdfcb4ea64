package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sennaseo/BOINDANG-sub000/internal/domain"
)

// ApplicationRepository is the durable ledger of decided applications. It also
// owns the conditional applicant-count update on campaigns, since the two
// writes belong to one reconciliation transaction.
type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

func (r *ApplicationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *ApplicationRepository) FindApplication(ctx context.Context, campaignID, userID int64) (*domain.Application, error) {
	const query = `
SELECT campaign_id, user_id, selected, decided_at
FROM applications
WHERE campaign_id = $1 AND user_id = $2`

	var a domain.Application
	err := r.queryRow(ctx, query, campaignID, userID).
		Scan(&a.CampaignID, &a.UserID, &a.Selected, &a.DecidedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return &a, nil
}

// CreateApplicationIfAbsent inserts the application unless one already exists
// for the (campaign, user) pair. The unique constraint arbitrates concurrent
// inserts; redelivered events land on the conflict path and report false.
func (r *ApplicationRepository) CreateApplicationIfAbsent(ctx context.Context, app domain.Application) (bool, error) {
	const stmt = `
INSERT INTO applications (campaign_id, user_id, selected, decided_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (campaign_id, user_id) DO NOTHING`

	tag, err := r.exec(ctx, stmt, app.CampaignID, app.UserID, app.Selected, app.DecidedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, domain.ErrCampaignNotFound
		}
		return false, fmt.Errorf("create application: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// IncrementApplicantsIfBelowCapacity bumps the campaign's applicant count by
// one unless it is already at capacity. The guard lives in the statement so
// concurrent consumers cannot push the count past capacity.
func (r *ApplicationRepository) IncrementApplicantsIfBelowCapacity(ctx context.Context, campaignID int64) (bool, error) {
	const stmt = `
UPDATE campaigns
SET current_applicants = current_applicants + 1
WHERE id = $1 AND current_applicants < capacity`

	tag, err := r.exec(ctx, stmt, campaignID)
	if err != nil {
		return false, fmt.Errorf("increment applicants: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ApplicationRepository) ListApplicationsByUser(ctx context.Context, userID int64) ([]domain.UserApplication, error) {
	const query = `
SELECT a.campaign_id, c.name, a.selected, a.decided_at
FROM applications a
JOIN campaigns c ON c.id = a.campaign_id
WHERE a.user_id = $1
ORDER BY a.decided_at DESC, a.campaign_id DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var out []domain.UserApplication
	for rows.Next() {
		var ua domain.UserApplication
		if err := rows.Scan(&ua.CampaignID, &ua.Title, &ua.Selected, &ua.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		out = append(out, ua)
	}
	return out, rows.Err()
}

func (r *ApplicationRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *ApplicationRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
