package store

import (
	"database/sql"
	"fmt"
	"time"

	"canvasclub/models"
)

const profileColumns = `id, email, password_hash, first_name, last_name, role,
	subscription_status, subscription_end_date, stripe_customer_id, created_at`

func scanProfile(row *sql.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.FirstName, &p.LastName,
		&p.Role, &p.SubscriptionStatus, &p.SubscriptionEndDate, &p.StripeCustomerID, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}
	return &p, nil
}

func (s *Store) CreateProfile(email, passwordHash, firstName, lastName string) (*models.Profile, error) {
	row := s.db.QueryRow(`
		INSERT INTO profiles (email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		RETURNING `+profileColumns,
		email, passwordHash, firstName, lastName)
	return scanProfile(row)
}

func (s *Store) GetProfileByID(id string) (*models.Profile, error) {
	row := s.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	return scanProfile(row)
}

func (s *Store) GetProfileByEmail(email string) (*models.Profile, error) {
	row := s.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email)
	return scanProfile(row)
}

func (s *Store) UpdateProfileName(id, firstName, lastName string) (*models.Profile, error) {
	row := s.db.QueryRow(`
		UPDATE profiles SET first_name = $1, last_name = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+profileColumns,
		firstName, lastName, id)
	return scanProfile(row)
}

func (s *Store) UpdatePassword(id, passwordHash string) error {
	_, err := s.db.Exec(
		`UPDATE profiles SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *Store) SetStripeCustomerID(id, customerID string) error {
	_, err := s.db.Exec(
		`UPDATE profiles SET stripe_customer_id = $1, updated_at = NOW() WHERE id = $2`,
		customerID, id)
	if err != nil {
		return fmt.Errorf("failed to set billing customer: %w", err)
	}
	return nil
}

// UpdateProfileSubscription mirrors billing state onto the profile.
func (s *Store) UpdateProfileSubscription(id, status string, endDate *time.Time) error {
	_, err := s.db.Exec(`
		UPDATE profiles SET subscription_status = $1, subscription_end_date = $2, updated_at = NOW()
		WHERE id = $3`,
		status, endDate, id)
	if err != nil {
		return fmt.Errorf("failed to update subscription status: %w", err)
	}
	return nil
}

func (s *Store) SetProfileSubscriptionStatus(id, status string) error {
	_, err := s.db.Exec(
		`UPDATE profiles SET subscription_status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("failed to set subscription status: %w", err)
	}
	return nil
}

func (s *Store) CountProfiles() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM profiles`).Scan(&n)
	return n, err
}

func (s *Store) CountSubscribers() (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM profiles WHERE subscription_status IN ('active', 'trialing')`,
	).Scan(&n)
	return n, err
}

func (s *Store) CountProfilesByStatus(status string) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM profiles WHERE subscription_status = $1`, status,
	).Scan(&n)
	return n, err
}

func (s *Store) RecentProfiles(limit int) ([]models.Profile, error) {
	rows, err := s.db.Query(
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := []models.Profile{}
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.FirstName, &p.LastName,
			&p.Role, &p.SubscriptionStatus, &p.SubscriptionEndDate, &p.StripeCustomerID, &p.CreatedAt); err != nil {
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// SubscriberSignupsSince returns creation times of profiles that have ever
// subscribed, for the growth-by-day analytics series.
func (s *Store) SubscriberSignupsSince(start time.Time) ([]time.Time, error) {
	rows, err := s.db.Query(`
		SELECT created_at FROM profiles
		WHERE subscription_status <> 'none' AND created_at >= $1`, start)
	if err != nil {
		return nil, fmt.Errorf("failed to query signups: %w", err)
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			continue
		}
		times = append(times, t)
	}
	return times, nil
}

func (s *Store) AllSubscriptionStatuses() ([]string, error) {
	rows, err := s.db.Query(`SELECT subscription_status FROM profiles`)
	if err != nil {
		return nil, fmt.Errorf("failed to query statuses: %w", err)
	}
	defer rows.Close()

	var statuses []string
	for rows.Next() {
		var st string
		if err := rows.Scan(&st); err != nil {
			continue
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}
