package store

import (
	"database/sql"
	"fmt"
	"time"

	"canvasclub/models"
)

const subscriptionColumns = `id, user_id, stripe_subscription_id, stripe_price_id,
	status, current_period_end, cancel_at_period_end, created_at`

func scanSubscription(row *sql.Row) (*models.Subscription, error) {
	var sub models.Subscription
	err := row.Scan(&sub.ID, &sub.UserID, &sub.StripeSubscriptionID, &sub.StripePriceID,
		&sub.Status, &sub.CurrentPeriodEnd, &sub.CancelAtPeriodEnd, &sub.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan subscription: %w", err)
	}
	return &sub, nil
}

// UpsertSubscription writes the subscription created upstream. The partial
// unique index on (user_id) for non-terminal rows turns a concurrent double
// subscribe into an update of the same row instead of a duplicate.
func (s *Store) UpsertSubscription(userID, stripeSubID, priceID, status string, periodEnd *time.Time, cancelAtPeriodEnd bool) (*models.Subscription, error) {
	row := s.db.QueryRow(`
		INSERT INTO subscriptions
			(user_id, stripe_subscription_id, stripe_price_id, status, current_period_end, cancel_at_period_end)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) WHERE status NOT IN ('canceled', 'incomplete_expired')
		DO UPDATE SET
			stripe_subscription_id = EXCLUDED.stripe_subscription_id,
			stripe_price_id = EXCLUDED.stripe_price_id,
			status = EXCLUDED.status,
			current_period_end = EXCLUDED.current_period_end,
			cancel_at_period_end = EXCLUDED.cancel_at_period_end,
			updated_at = NOW()
		RETURNING `+subscriptionColumns,
		userID, stripeSubID, priceID, status, periodEnd, cancelAtPeriodEnd)
	return scanSubscription(row)
}

// CurrentSubscription returns the user's most recent subscription row, or nil.
func (s *Store) CurrentSubscription(userID string) (*models.Subscription, error) {
	row := s.db.QueryRow(`
		SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, userID)
	return scanSubscription(row)
}

func (s *Store) GetSubscriptionByStripeID(stripeSubID string) (*models.Subscription, error) {
	row := s.db.QueryRow(`
		SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE stripe_subscription_id = $1`, stripeSubID)
	return scanSubscription(row)
}

// OverwriteSubscriptionByStripeID applies the provider's authoritative state.
// A full overwrite keeps webhook handling idempotent under redelivery.
func (s *Store) OverwriteSubscriptionByStripeID(stripeSubID, status string, periodEnd *time.Time, cancelAtPeriodEnd bool) (*models.Subscription, error) {
	row := s.db.QueryRow(`
		UPDATE subscriptions
		SET status = $1, current_period_end = $2, cancel_at_period_end = $3, updated_at = NOW()
		WHERE stripe_subscription_id = $4
		RETURNING `+subscriptionColumns,
		status, periodEnd, cancelAtPeriodEnd, stripeSubID)
	return scanSubscription(row)
}

func (s *Store) SetCancelAtPeriodEnd(id string, cancel bool) error {
	_, err := s.db.Exec(
		`UPDATE subscriptions SET cancel_at_period_end = $1, updated_at = NOW() WHERE id = $2`,
		cancel, id)
	if err != nil {
		return fmt.Errorf("failed to update cancel flag: %w", err)
	}
	return nil
}

func (s *Store) SetSubscriptionStatus(id, status string) error {
	_, err := s.db.Exec(
		`UPDATE subscriptions SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("failed to update subscription status: %w", err)
	}
	return nil
}
