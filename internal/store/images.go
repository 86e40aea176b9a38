// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const imageColumns = `id, created_at, house_id, storage_path, caption, is_primary, sort_order`

func scanImage(row interface{ Scan(...any) error }) (Image, error) {
	var img Image
	err := row.Scan(&img.ID, &img.CreatedAt, &img.HouseID, &img.StoragePath,
		&img.Caption, &img.IsPrimary, &img.SortOrder)
	return img, err
}

// CreateImageParams holds the fields for attaching an image to a house.
type CreateImageParams struct {
	ID          string
	HouseID     string
	StoragePath string
	Caption     sql.NullString
	IsPrimary   bool
	SortOrder   int64
	CreatedAt   time.Time
}

// CreateImage inserts an image record and returns it.
func (q *Queries) CreateImage(ctx context.Context, arg CreateImageParams) (Image, error) {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO images (id, created_at, house_id, storage_path, caption, is_primary, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.ID, arg.CreatedAt, arg.HouseID, arg.StoragePath, arg.Caption,
		arg.IsPrimary, arg.SortOrder)
	if err != nil {
		return Image{}, err
	}
	return q.GetImageByID(ctx, arg.ID)
}

// GetImageByID returns an image by its identifier.
func (q *Queries) GetImageByID(ctx context.Context, id string) (Image, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+imageColumns+` FROM images WHERE id = ?`, id)
	return scanImage(row)
}

// ListImagesByHouse returns a house's images in display order.
func (q *Queries) ListImagesByHouse(ctx context.Context, houseID string) ([]Image, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+imageColumns+` FROM images WHERE house_id = ? ORDER BY sort_order, created_at`,
		houseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteImage removes an image record.
func (q *Queries) DeleteImage(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM images WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

// MaxImageSortOrder returns the highest sort_order among a house's images,
// or 0 when it has none.
func (q *Queries) MaxImageSortOrder(ctx context.Context, houseID string) (int64, error) {
	var max int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sort_order), 0) FROM images WHERE house_id = ?`, houseID).Scan(&max)
	return max, err
}
