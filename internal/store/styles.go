// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
)

// CreateStyleParams holds the fields for a new style taxonomy entry.
type CreateStyleParams struct {
	Name      string
	SortOrder int64
}

// CreateStyle inserts a style and returns it.
func (q *Queries) CreateStyle(ctx context.Context, arg CreateStyleParams) (HouseStyle, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO house_styles (name, sort_order) VALUES (?, ?)`,
		arg.Name, arg.SortOrder)
	if err != nil {
		return HouseStyle{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return HouseStyle{}, err
	}
	return HouseStyle{ID: id, Name: arg.Name, SortOrder: arg.SortOrder}, nil
}

// GetStyleByID returns a style by its identifier.
func (q *Queries) GetStyleByID(ctx context.Context, id int64) (HouseStyle, error) {
	var s HouseStyle
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, sort_order FROM house_styles WHERE id = ?`, id).
		Scan(&s.ID, &s.Name, &s.SortOrder)
	return s, err
}

// CountStylesByName returns how many styles share an exact name.
// Comparison is case-sensitive.
func (q *Queries) CountStylesByName(ctx context.Context, name string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM house_styles WHERE name = ?`, name).Scan(&count)
	return count, err
}

// ListStyles returns all styles in display order.
func (q *Queries) ListStyles(ctx context.Context) ([]HouseStyle, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, sort_order FROM house_styles ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var styles []HouseStyle
	for rows.Next() {
		var s HouseStyle
		if err := rows.Scan(&s.ID, &s.Name, &s.SortOrder); err != nil {
			return nil, err
		}
		styles = append(styles, s)
	}
	return styles, rows.Err()
}

// MaxStyleSortOrder returns the highest sort_order, or 0 when no styles exist.
func (q *Queries) MaxStyleSortOrder(ctx context.Context) (int64, error) {
	var max int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sort_order), 0) FROM house_styles`).Scan(&max)
	return max, err
}

// DeleteStyle removes a style taxonomy entry.
func (q *Queries) DeleteStyle(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM house_styles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}
