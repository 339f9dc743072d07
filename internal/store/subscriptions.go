package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Subscription is a recurring license or service cost.
type Subscription struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Provider       string  `json:"provider"`
	MonthlyCostEUR float64 `json:"monthly_cost_eur"`
	RenewsOn       string  `json:"renews_on"`
	Active         bool    `json:"active"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

var subscriptionSortColumns = map[string]string{
	"id":               "id",
	"name":             "name",
	"provider":         "provider",
	"monthly_cost_eur": "monthly_cost_eur",
	"renews_on":        "renews_on",
}

func (s *Store) ListSubscriptions(ctx context.Context, opts ListOptions) ([]Subscription, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, provider, monthly_cost_eur, renews_on, active, created_at, updated_at
		FROM subscriptions
		ORDER BY `+orderBy(opts, subscriptionSortColumns))
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer rows.Close()

	subs := make([]Subscription, 0)
	for rows.Next() {
		var sub Subscription
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Provider, &sub.MonthlyCostEUR, &sub.RenewsOn, &sub.Active, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", err)
	}
	return subs, nil
}

func (s *Store) GetSubscription(ctx context.Context, id int64) (Subscription, error) {
	var sub Subscription
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, provider, monthly_cost_eur, renews_on, active, created_at, updated_at
		FROM subscriptions
		WHERE id = ?
	`, id).Scan(&sub.ID, &sub.Name, &sub.Provider, &sub.MonthlyCostEUR, &sub.RenewsOn, &sub.Active, &sub.CreatedAt, &sub.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Subscription{}, fmt.Errorf("subscription %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Subscription{}, fmt.Errorf("query subscription: %w", err)
	}
	return sub, nil
}

func (s *Store) CreateSubscription(ctx context.Context, sub Subscription) (Subscription, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO subscriptions (name, provider, monthly_cost_eur, renews_on, active)
		VALUES (?, ?, ?, ?, ?)
	`, sub.Name, sub.Provider, sub.MonthlyCostEUR, sub.RenewsOn, sub.Active)
	if err != nil {
		return Subscription{}, fmt.Errorf("insert subscription: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Subscription{}, fmt.Errorf("subscription last insert id: %w", err)
	}
	return s.GetSubscription(ctx, id)
}

func (s *Store) UpdateSubscription(ctx context.Context, sub Subscription) (Subscription, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET
			name = ?,
			provider = ?,
			monthly_cost_eur = ?,
			renews_on = ?,
			active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, sub.Name, sub.Provider, sub.MonthlyCostEUR, sub.RenewsOn, sub.Active, sub.ID)
	if err != nil {
		return Subscription{}, fmt.Errorf("update subscription: %w", err)
	}
	if err := requireAffected(result, "update subscription"); err != nil {
		return Subscription{}, err
	}
	return s.GetSubscription(ctx, sub.ID)
}

func (s *Store) DeleteSubscription(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return requireAffected(result, "delete subscription")
}
