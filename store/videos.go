package store

import (
	"database/sql"
	"fmt"

	"canvasclub/models"
)

func (s *Store) CreateVideo(title, description, url, thumbnailURL string, isExclusive bool, uploadedBy string, tags []string) (*models.Video, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var v models.Video
	var uploader sql.NullString
	err = tx.QueryRow(`
		INSERT INTO videos (title, description, url, thumbnail_url, is_exclusive, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::uuid)
		RETURNING id, title, description, url, thumbnail_url, is_exclusive, uploaded_by, created_at`,
		title, description, url, thumbnailURL, isExclusive, uploadedBy,
	).Scan(&v.ID, &v.Title, &v.Description, &v.URL, &v.ThumbnailURL, &v.IsExclusive, &uploader, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create video: %w", err)
	}
	v.UploadedBy = uploader.String
	v.Tags = []models.Tag{}

	for _, name := range tags {
		var tagID string
		err := tx.QueryRow(`
			INSERT INTO tags (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`, name).Scan(&tagID)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert tag: %w", err)
		}
		if _, err := tx.Exec(`
			INSERT INTO video_tags (video_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, v.ID, tagID); err != nil {
			return nil, fmt.Errorf("failed to link tag: %w", err)
		}
		v.Tags = append(v.Tags, models.Tag{ID: tagID, Name: name})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit video: %w", err)
	}
	return &v, nil
}

func (s *Store) GetVideo(id string) (*models.Video, error) {
	var v models.Video
	var uploader sql.NullString
	err := s.db.QueryRow(`
		SELECT id, title, description, url, thumbnail_url, is_exclusive, uploaded_by, created_at
		FROM videos WHERE id = $1`, id,
	).Scan(&v.ID, &v.Title, &v.Description, &v.URL, &v.ThumbnailURL, &v.IsExclusive, &uploader, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	v.UploadedBy = uploader.String

	tags, err := s.videoTags(v.ID)
	if err != nil {
		return nil, err
	}
	v.Tags = tags
	return &v, nil
}

func (s *Store) ListVideos(page, limit int, tag string, exclusive *bool) ([]models.Video, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	where := " WHERE 1=1"
	args := []interface{}{}
	if exclusive != nil {
		args = append(args, *exclusive)
		where += fmt.Sprintf(" AND v.is_exclusive = $%d", len(args))
	}
	if tag != "" {
		args = append(args, tag)
		where += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM video_tags vt JOIN tags t ON t.id = vt.tag_id
			WHERE vt.video_id = v.id AND t.name = $%d)`, len(args))
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM videos v`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT v.id, v.title, v.description, v.url, v.thumbnail_url, v.is_exclusive, v.uploaded_by, v.created_at
		FROM videos v %s
		ORDER BY v.created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	videos := []models.Video{}
	for rows.Next() {
		var v models.Video
		var uploader sql.NullString
		if err := rows.Scan(&v.ID, &v.Title, &v.Description, &v.URL, &v.ThumbnailURL,
			&v.IsExclusive, &uploader, &v.CreatedAt); err != nil {
			continue
		}
		v.UploadedBy = uploader.String
		videos = append(videos, v)
	}

	for i := range videos {
		tags, err := s.videoTags(videos[i].ID)
		if err != nil {
			continue
		}
		videos[i].Tags = tags
	}

	return videos, total, nil
}

// DeleteVideo removes the row and returns the stored object URL so the caller
// can delete the file.
func (s *Store) DeleteVideo(id string) (string, error) {
	var url string
	err := s.db.QueryRow(`DELETE FROM videos WHERE id = $1 RETURNING url`, id).Scan(&url)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to delete video: %w", err)
	}
	return url, nil
}

func (s *Store) ListTags() ([]models.Tag, error) {
	rows, err := s.db.Query(`SELECT id, name FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			continue
		}
		tags = append(tags, t)
	}
	return tags, nil
}

func (s *Store) CountVideos() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM videos`).Scan(&n)
	return n, err
}

func (s *Store) CountExclusiveVideos() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM videos WHERE is_exclusive = TRUE`).Scan(&n)
	return n, err
}

func (s *Store) videoTags(videoID string) ([]models.Tag, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name FROM tags t
		JOIN video_tags vt ON vt.tag_id = t.id
		WHERE vt.video_id = $1
		ORDER BY t.name ASC`, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list video tags: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			continue
		}
		tags = append(tags, t)
	}
	return tags, nil
}
