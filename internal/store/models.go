// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// User is an authenticated account.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Never expose in JSON
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	LastLoginAt  sql.NullTime `json:"last_login_at,omitempty"`
}

// Profile holds role and preference data, one-to-one with a User.
type Profile struct {
	UserID                string    `json:"user_id"`
	Role                  string    `json:"role"`
	EmailOnNewSubmission  bool      `json:"email_on_new_submission"`
	EmailOnApproval       bool      `json:"email_on_approval"`
	NotificationFrequency string    `json:"notification_frequency"`
	Theme                 string    `json:"theme"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// UserWithProfile joins a User with its Profile for the admin user list.
type UserWithProfile struct {
	ID                   string    `json:"id"`
	Email                string    `json:"email"`
	Role                 string    `json:"role"`
	EmailOnNewSubmission bool      `json:"email_on_new_submission"`
	EmailOnApproval      bool      `json:"email_on_approval"`
	CreatedAt            time.Time `json:"created_at"`
}

// House is a property listing moving through pending/published/rejected.
type House struct {
	ID                string          `json:"id"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	AddressStreet     string          `json:"address_street"`
	AddressSuburb     string          `json:"address_suburb"`
	AddressState      string          `json:"address_state"`
	AddressPostcode   string          `json:"address_postcode"`
	Latitude          sql.NullFloat64 `json:"-"`
	Longitude         sql.NullFloat64 `json:"-"`
	Style             sql.NullString  `json:"-"`
	YearBuilt         sql.NullInt64   `json:"-"`
	BuilderName       sql.NullString  `json:"-"`
	Condition         sql.NullString  `json:"-"`
	Description       sql.NullString  `json:"-"`
	Status            string          `json:"status"`
	ContributorID     sql.NullString  `json:"-"`
	VerifiedBy        sql.NullString  `json:"-"`
	VerificationNotes sql.NullString  `json:"-"`
	ListingURL        sql.NullString  `json:"-"`
	SoldListingURL    sql.NullString  `json:"-"`
	SubmitterEmail    sql.NullString  `json:"-"`
	IsFeatured        bool            `json:"is_featured"`
	Slug              string          `json:"slug"`
}

// Image belongs to exactly one House.
type Image struct {
	ID          string         `json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	HouseID     string         `json:"house_id"`
	StoragePath string         `json:"storage_path"`
	Caption     sql.NullString `json:"-"`
	IsPrimary   bool           `json:"is_primary"`
	SortOrder   int64          `json:"sort_order"`
}

// HouseStyle is a taxonomy entry for the architectural style picker.
type HouseStyle struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SortOrder int64  `json:"sort_order"`
}

// PropertyStory is a community-submitted historical anecdote.
type PropertyStory struct {
	ID              string         `json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	HouseID         string         `json:"house_id"`
	AuthorName      string         `json:"author_name"`
	Story           string         `json:"story"`
	PeriodOrContext sql.NullString `json:"-"`
	Status          string         `json:"status"`
}

// PasswordReset is a hashed single-use token for reset and invite flows.
type PasswordReset struct {
	TokenHash string    `json:"-"`
	UserID    string    `json:"user_id"`
	Purpose   string    `json:"purpose"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// DigestEntry is a queued new-submission alert awaiting the daily digest.
type DigestEntry struct {
	ID            int64     `json:"id"`
	HouseID       string    `json:"house_id"`
	AddressStreet string    `json:"address_street"`
	AddressSuburb string    `json:"address_suburb"`
	CreatedAt     time.Time `json:"created_at"`
}

// Event is a persisted log record for admin diagnostics.
type Event struct {
	ID        int64          `json:"id"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Source    sql.NullString `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
}

// Recipient is a resolved notification target.
type Recipient struct {
	Email                 string `json:"email"`
	NotificationFrequency string `json:"notification_frequency"`
}
