// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const userColumns = `id, email, password_hash, created_at, updated_at, last_login_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt)
	return u, err
}

// CreateUserParams holds the fields for a new account.
type CreateUserParams struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// CreateUser inserts an account and returns it.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		arg.ID, arg.Email, arg.PasswordHash, arg.CreatedAt, arg.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return q.GetUserByID(ctx, arg.ID)
}

// GetUserByID returns an account by its identifier.
func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail returns an account by email address.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// UpdateUserPassword replaces an account's password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, id, passwordHash string, now time.Time) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, now, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

// UpdateUserLastLogin stamps an account's last successful login.
func (q *Queries) UpdateUserLastLogin(ctx context.Context, id string, now time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`, now, id)
	return err
}

// DeleteUser removes an account. The profile row cascades.
func (q *Queries) DeleteUser(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

// CountUsers returns the total number of accounts.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// ListUsersWithProfiles returns every account joined with its profile,
// ordered by creation time. Used for the admin user list.
func (q *Queries) ListUsersWithProfiles(ctx context.Context) ([]UserWithProfile, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT u.id, u.email, p.role, p.email_on_new_submission, p.email_on_approval, u.created_at
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		ORDER BY u.created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []UserWithProfile
	for rows.Next() {
		var u UserWithProfile
		if err := rows.Scan(&u.ID, &u.Email, &u.Role, &u.EmailOnNewSubmission,
			&u.EmailOnApproval, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateProfileParams holds the fields for a new profile.
type CreateProfileParams struct {
	UserID    string
	Role      string
	CreatedAt time.Time
}

// CreateProfile inserts a profile with default preferences. An existing
// profile has its role replaced instead (upsert, matching invite semantics).
func (q *Queries) CreateProfile(ctx context.Context, arg CreateProfileParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, role, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET role = excluded.role, updated_at = excluded.updated_at`,
		arg.UserID, arg.Role, arg.CreatedAt, arg.CreatedAt)
	return err
}

const profileColumns = `user_id, role, email_on_new_submission, email_on_approval,
	notification_frequency, theme, created_at, updated_at`

// GetProfileByUserID returns a profile by its account identifier.
func (q *Queries) GetProfileByUserID(ctx context.Context, userID string) (Profile, error) {
	var p Profile
	err := q.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`, userID).
		Scan(&p.UserID, &p.Role, &p.EmailOnNewSubmission, &p.EmailOnApproval,
			&p.NotificationFrequency, &p.Theme, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// UpdateProfileRole replaces a profile's role.
func (q *Queries) UpdateProfileRole(ctx context.Context, userID, role string, now time.Time) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE profiles SET role = ?, updated_at = ? WHERE user_id = ?`,
		role, now, userID)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

// UpdateProfileNotificationsParams holds the self-service notification
// preference fields.
type UpdateProfileNotificationsParams struct {
	UserID                string
	EmailOnNewSubmission  bool
	EmailOnApproval       bool
	NotificationFrequency string
	UpdatedAt             time.Time
}

// UpdateProfileNotifications replaces a profile's notification preferences.
func (q *Queries) UpdateProfileNotifications(ctx context.Context, arg UpdateProfileNotificationsParams) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE profiles
		SET email_on_new_submission = ?, email_on_approval = ?,
			notification_frequency = ?, updated_at = ?
		WHERE user_id = ?`,
		arg.EmailOnNewSubmission, arg.EmailOnApproval, arg.NotificationFrequency,
		arg.UpdatedAt, arg.UserID)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

// UpdateProfileTheme replaces a profile's theme preference.
func (q *Queries) UpdateProfileTheme(ctx context.Context, userID, theme string, now time.Time) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE profiles SET theme = ?, updated_at = ? WHERE user_id = ?`,
		theme, now, userID)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

// ListSubmissionRecipients resolves the moderators who should hear about a
// new submission: role at admin or above with the toggle on, excluding
// profiles that opted out of all notifications.
func (q *Queries) ListSubmissionRecipients(ctx context.Context) ([]Recipient, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT u.email, p.notification_frequency
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.role IN ('admin', 'super_admin')
		  AND p.email_on_new_submission = 1
		  AND p.notification_frequency != 'none'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipients []Recipient
	for rows.Next() {
		var r Recipient
		if err := rows.Scan(&r.Email, &r.NotificationFrequency); err != nil {
			return nil, err
		}
		recipients = append(recipients, r)
	}
	return recipients, rows.Err()
}

// CreatePasswordResetParams holds the fields for a reset or invite token.
type CreatePasswordResetParams struct {
	TokenHash string
	UserID    string
	Purpose   string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// CreatePasswordReset stores a hashed single-use token.
func (q *Queries) CreatePasswordReset(ctx context.Context, arg CreatePasswordResetParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO password_resets (token_hash, user_id, purpose, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		arg.TokenHash, arg.UserID, arg.Purpose, arg.ExpiresAt, arg.CreatedAt)
	return err
}

// GetPasswordReset returns a stored token by hash.
func (q *Queries) GetPasswordReset(ctx context.Context, tokenHash string) (PasswordReset, error) {
	var pr PasswordReset
	err := q.db.QueryRowContext(ctx, `
		SELECT token_hash, user_id, purpose, expires_at, created_at
		FROM password_resets WHERE token_hash = ?`, tokenHash).
		Scan(&pr.TokenHash, &pr.UserID, &pr.Purpose, &pr.ExpiresAt, &pr.CreatedAt)
	return pr, err
}

// DeletePasswordReset consumes a token.
func (q *Queries) DeletePasswordReset(ctx context.Context, tokenHash string) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM password_resets WHERE token_hash = ?`, tokenHash)
	return err
}

// DeleteExpiredPasswordResets prunes tokens past their expiry.
func (q *Queries) DeleteExpiredPasswordResets(ctx context.Context, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM password_resets WHERE expires_at < ?`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
