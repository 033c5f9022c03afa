package store

import (
	"fmt"

	"canvasclub/models"
)

func (s *Store) CreateContactMessage(name, email, subject, message string) (*models.ContactMessage, error) {
	var m models.ContactMessage
	err := s.db.QueryRow(`
		INSERT INTO contact_messages (name, email, subject, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, subject, message, status, created_at`,
		name, email, subject, message,
	).Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Status, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact message: %w", err)
	}
	return &m, nil
}

func (s *Store) ListContactMessages() ([]models.ContactMessage, error) {
	rows, err := s.db.Query(`
		SELECT id, name, email, subject, message, status, created_at
		FROM contact_messages
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer rows.Close()

	messages := []models.ContactMessage{}
	for rows.Next() {
		var m models.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Status, &m.CreatedAt); err != nil {
			continue
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (s *Store) UpdateContactMessageStatus(id, status string) (*models.ContactMessage, error) {
	var m models.ContactMessage
	err := s.db.QueryRow(`
		UPDATE contact_messages SET status = $1
		WHERE id = $2
		RETURNING id, name, email, subject, message, status, created_at`,
		status, id,
	).Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Status, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update message status: %w", err)
	}
	return &m, nil
}
