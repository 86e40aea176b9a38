// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

// CreateEventParams holds the fields for a persisted log record.
type CreateEventParams struct {
	Level     string
	Message   string
	Source    sql.NullString
	CreatedAt time.Time
}

// CreateEvent stores a log record for admin diagnostics.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO events (level, message, source, created_at)
		VALUES (?, ?, ?, ?)`,
		arg.Level, arg.Message, arg.Source, arg.CreatedAt)
	return err
}

// ListRecentEvents returns the newest log records, up to limit.
func (q *Queries) ListRecentEvents(ctx context.Context, limit int64) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, level, message, source, created_at
		FROM events ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Message, &e.Source, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// PruneEvents deletes log records older than the cutoff.
func (q *Queries) PruneEvents(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// EnqueueDigestParams holds the fields for a queued digest entry.
type EnqueueDigestParams struct {
	HouseID       string
	AddressStreet string
	AddressSuburb string
	CreatedAt     time.Time
}

// EnqueueDigest queues a new-submission alert for the daily digest.
func (q *Queries) EnqueueDigest(ctx context.Context, arg EnqueueDigestParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO digest_queue (house_id, address_street, address_suburb, created_at)
		VALUES (?, ?, ?, ?)`,
		arg.HouseID, arg.AddressStreet, arg.AddressSuburb, arg.CreatedAt)
	return err
}

// ListDigestQueue returns every queued digest entry, oldest first.
func (q *Queries) ListDigestQueue(ctx context.Context) ([]DigestEntry, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, house_id, address_street, address_suburb, created_at
		FROM digest_queue ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []DigestEntry
	for rows.Next() {
		var e DigestEntry
		if err := rows.Scan(&e.ID, &e.HouseID, &e.AddressStreet, &e.AddressSuburb, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ClearDigestQueue removes every queued digest entry.
func (q *Queries) ClearDigestQueue(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM digest_queue`)
	return err
}
