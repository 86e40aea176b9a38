// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const storyColumns = `id, created_at, house_id, author_name, story, period_or_context, status`

func scanStory(row interface{ Scan(...any) error }) (PropertyStory, error) {
	var s PropertyStory
	err := row.Scan(&s.ID, &s.CreatedAt, &s.HouseID, &s.AuthorName, &s.Story,
		&s.PeriodOrContext, &s.Status)
	return s, err
}

// CreateStoryParams holds the fields for a new community story.
type CreateStoryParams struct {
	ID              string
	HouseID         string
	AuthorName      string
	Story           string
	PeriodOrContext sql.NullString
	Status          string
	CreatedAt       time.Time
}

// CreateStory inserts a story and returns it.
func (q *Queries) CreateStory(ctx context.Context, arg CreateStoryParams) (PropertyStory, error) {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO property_stories (id, created_at, house_id, author_name, story, period_or_context, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.ID, arg.CreatedAt, arg.HouseID, arg.AuthorName, arg.Story,
		arg.PeriodOrContext, arg.Status)
	if err != nil {
		return PropertyStory{}, err
	}
	return q.GetStoryByID(ctx, arg.ID)
}

// GetStoryByID returns a story by its identifier.
func (q *Queries) GetStoryByID(ctx context.Context, id string) (PropertyStory, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+storyColumns+` FROM property_stories WHERE id = ?`, id)
	return scanStory(row)
}

// ListStoriesByHouseAndStatus returns a house's stories in the given status,
// oldest first.
func (q *Queries) ListStoriesByHouseAndStatus(ctx context.Context, houseID, status string) ([]PropertyStory, error) {
	return q.listStories(ctx,
		`SELECT `+storyColumns+` FROM property_stories
		 WHERE house_id = ? AND status = ? ORDER BY created_at`, houseID, status)
}

// ListStoriesByStatus returns all stories in a status, newest first.
// Used for the moderation queue.
func (q *Queries) ListStoriesByStatus(ctx context.Context, status string) ([]PropertyStory, error) {
	return q.listStories(ctx,
		`SELECT `+storyColumns+` FROM property_stories
		 WHERE status = ? ORDER BY created_at DESC`, status)
}

func (q *Queries) listStories(ctx context.Context, query string, args ...any) ([]PropertyStory, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stories []PropertyStory
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		stories = append(stories, s)
	}
	return stories, rows.Err()
}

// ApproveStory transitions a story from pending to approved.
func (q *Queries) ApproveStory(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE property_stories SET status = 'approved' WHERE id = ? AND status = 'pending'`, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}
