// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const houseColumns = `id, created_at, updated_at, address_street, address_suburb,
	address_state, address_postcode, latitude, longitude, style, year_built,
	builder_name, condition, description, status, contributor_id, verified_by,
	verification_notes, listing_url, sold_listing_url, submitter_email,
	is_featured, slug`

func scanHouse(row interface{ Scan(...any) error }) (House, error) {
	var h House
	err := row.Scan(
		&h.ID, &h.CreatedAt, &h.UpdatedAt, &h.AddressStreet, &h.AddressSuburb,
		&h.AddressState, &h.AddressPostcode, &h.Latitude, &h.Longitude, &h.Style,
		&h.YearBuilt, &h.BuilderName, &h.Condition, &h.Description, &h.Status,
		&h.ContributorID, &h.VerifiedBy, &h.VerificationNotes, &h.ListingURL,
		&h.SoldListingURL, &h.SubmitterEmail, &h.IsFeatured, &h.Slug,
	)
	return h, err
}

func (q *Queries) listHouses(ctx context.Context, query string, args ...any) ([]House, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var houses []House
	for rows.Next() {
		h, err := scanHouse(rows)
		if err != nil {
			return nil, err
		}
		houses = append(houses, h)
	}
	return houses, rows.Err()
}

// CreateHouseParams holds the fields for a new house submission.
type CreateHouseParams struct {
	ID              string
	AddressStreet   string
	AddressSuburb   string
	AddressState    string
	AddressPostcode string
	Latitude        sql.NullFloat64
	Longitude       sql.NullFloat64
	Style           sql.NullString
	YearBuilt       sql.NullInt64
	BuilderName     sql.NullString
	Condition       sql.NullString
	Description     sql.NullString
	Status          string
	ContributorID   sql.NullString
	ListingURL      sql.NullString
	SoldListingURL  sql.NullString
	SubmitterEmail  sql.NullString
	Slug            string
	CreatedAt       time.Time
}

// CreateHouse inserts a new house and returns it.
func (q *Queries) CreateHouse(ctx context.Context, arg CreateHouseParams) (House, error) {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO houses (
			id, created_at, updated_at, address_street, address_suburb,
			address_state, address_postcode, latitude, longitude, style,
			year_built, builder_name, condition, description, status,
			contributor_id, listing_url, sold_listing_url, submitter_email,
			is_featured, slug
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		arg.ID, arg.CreatedAt, arg.CreatedAt, arg.AddressStreet, arg.AddressSuburb,
		arg.AddressState, arg.AddressPostcode, arg.Latitude, arg.Longitude, arg.Style,
		arg.YearBuilt, arg.BuilderName, arg.Condition, arg.Description, arg.Status,
		arg.ContributorID, arg.ListingURL, arg.SoldListingURL, arg.SubmitterEmail,
		arg.Slug,
	)
	if err != nil {
		return House{}, err
	}
	return q.GetHouseByID(ctx, arg.ID)
}

// GetHouseByID returns a house by its identifier.
func (q *Queries) GetHouseByID(ctx context.Context, id string) (House, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+houseColumns+` FROM houses WHERE id = ?`, id)
	return scanHouse(row)
}

// ListHousesByStatus returns houses in the given lifecycle status.
// Pending houses are newest-first; published houses sort by suburb for the
// public directory.
func (q *Queries) ListHousesByStatus(ctx context.Context, status string) ([]House, error) {
	order := "created_at DESC"
	if status == "published" {
		order = "address_suburb, address_street"
	}
	return q.listHouses(ctx,
		`SELECT `+houseColumns+` FROM houses WHERE status = ? ORDER BY `+order, status)
}

// ListPublishedWithCoordinates returns published houses that carry a map
// position.
func (q *Queries) ListPublishedWithCoordinates(ctx context.Context) ([]House, error) {
	return q.listHouses(ctx,
		`SELECT `+houseColumns+` FROM houses
		 WHERE status = 'published' AND latitude IS NOT NULL AND longitude IS NOT NULL
		 ORDER BY address_suburb, address_street`)
}

// CountHousesByStatus returns the number of houses in a lifecycle status.
func (q *Queries) CountHousesByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM houses WHERE status = ?`, status).Scan(&count)
	return count, err
}

// CountHousesByStyle returns how many houses reference a style name.
func (q *Queries) CountHousesByStyle(ctx context.Context, styleName string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM houses WHERE style = ?`, styleName).Scan(&count)
	return count, err
}

// UpdateHouseStatusParams holds the fields for a moderation transition.
type UpdateHouseStatusParams struct {
	ID                string
	Status            string
	VerificationNotes sql.NullString
	VerifiedBy        sql.NullString
	UpdatedAt         time.Time
}

// UpdateHouseStatus transitions a house to a new lifecycle status.
func (q *Queries) UpdateHouseStatus(ctx context.Context, arg UpdateHouseStatusParams) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE houses
		SET status = ?, verification_notes = ?, verified_by = ?, updated_at = ?
		WHERE id = ?`,
		arg.Status, arg.VerificationNotes, arg.VerifiedBy, arg.UpdatedAt, arg.ID)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

// UpdateHouseParams holds the full mutable field set for a listing edit.
type UpdateHouseParams struct {
	ID              string
	AddressStreet   string
	AddressSuburb   string
	AddressState    string
	AddressPostcode string
	Style           sql.NullString
	YearBuilt       sql.NullInt64
	BuilderName     sql.NullString
	Condition       sql.NullString
	Description     sql.NullString
	Latitude        sql.NullFloat64
	Longitude       sql.NullFloat64
	ListingURL      sql.NullString
	SoldListingURL  sql.NullString
	Slug            string
	UpdatedAt       time.Time
}

// UpdateHouse replaces all mutable attributes of a listing.
func (q *Queries) UpdateHouse(ctx context.Context, arg UpdateHouseParams) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE houses
		SET address_street = ?, address_suburb = ?, address_state = ?,
			address_postcode = ?, style = ?, year_built = ?, builder_name = ?,
			condition = ?, description = ?, latitude = ?, longitude = ?,
			listing_url = ?, sold_listing_url = ?, slug = ?, updated_at = ?
		WHERE id = ?`,
		arg.AddressStreet, arg.AddressSuburb, arg.AddressState, arg.AddressPostcode,
		arg.Style, arg.YearBuilt, arg.BuilderName, arg.Condition, arg.Description,
		arg.Latitude, arg.Longitude, arg.ListingURL, arg.SoldListingURL, arg.Slug,
		arg.UpdatedAt, arg.ID)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

// GetFeaturedHouse returns the currently featured house, if any.
func (q *Queries) GetFeaturedHouse(ctx context.Context) (House, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+houseColumns+` FROM houses WHERE is_featured = 1 LIMIT 1`)
	return scanHouse(row)
}

// ClearFeatured removes the featured flag from every house.
func (q *Queries) ClearFeatured(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, `UPDATE houses SET is_featured = 0 WHERE is_featured = 1`)
	return err
}

// SetFeatured marks a single house as featured.
func (q *Queries) SetFeatured(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `UPDATE houses SET is_featured = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

// requireRowsAffected converts a zero-row update into sql.ErrNoRows so
// callers can report not-found consistently.
func requireRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
