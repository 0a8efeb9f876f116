package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/lab-freezer-inventory/internal/model"
	"github.com/iliyamo/lab-freezer-inventory/internal/utils"
)

// UserRepo provides persistence for user accounts.  Ordinary lookups run on
// the restricted handle; mutations of other people's accounts (role change,
// password reset, deactivation, deletion) belong to the admin surface and
// run on the privileged handle passed to NewUserRepo by the caller.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, username, email, password_hash, salt, role, is_active, created_at, last_login`

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var lastLogin sql.NullTime
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Salt,
		&u.Role, &u.IsActive, &u.CreatedAt, &lastLogin)
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, err
}

// Create hashes the password and inserts a user, returning its ID.  The
// username and email are normalized to lower case.  A uniqueness collision
// on either column yields ErrDuplicateIdentity.
func (r *UserRepo) Create(ctx context.Context, username, email, password, role string, cost int) (uint64, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	var id uint64
	err = r.DB.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash, salt, role) VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		username, email, hash, utils.SaltFromHash(hash), role).Scan(&id)
	if err != nil {
		return 0, translateDBError(err, ErrDuplicateIdentity)
	}
	return id, nil
}

// GetByUsername fetches a user by normalized username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username=$1 LIMIT 1`, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, notFound("user", username)
		}
		return u, translateDBError(err, nil)
	}
	return u, nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=$1 LIMIT 1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, ErrNotFound
		}
		return u, translateDBError(err, nil)
	}
	return u, nil
}

// List returns all users ordered by username, for the admin overview.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, translateDBError(err, nil)
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		var lastLogin sql.NullTime
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Salt,
			&u.Role, &u.IsActive, &u.CreatedAt, &lastLogin); err != nil {
			return nil, err
		}
		if lastLogin.Valid {
			t := lastLogin.Time
			u.LastLogin = &t
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Count returns the number of user rows.  Used at startup to decide whether
// the initial admin account must be seeded.
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, translateDBError(err, nil)
	}
	return n, nil
}

// TouchLastLogin records a successful authentication.
func (r *UserRepo) TouchLastLogin(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET last_login=NOW() WHERE id=$1`, id)
	return translateDBError(err, nil)
}

// UpdateRole changes a user's role to one of the closed set.
func (r *UserRepo) UpdateRole(ctx context.Context, id uint64, role string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET role=$1 WHERE id=$2`, role, id)
	if err != nil {
		return translateDBError(err, nil)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword rehashes and stores a new password for the user.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET password_hash=$1, salt=$2 WHERE id=$3`,
		hash, utils.SaltFromHash(hash), id)
	if err != nil {
		return translateDBError(err, nil)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive toggles the soft-disable flag.  Deactivated users keep their
// row and history but can no longer authenticate.
func (r *UserRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET is_active=$1 WHERE id=$2`, active, id)
	if err != nil {
		return translateDBError(err, nil)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user row entirely.  Soft-disable via SetActive is the
// normal path; hard deletion remains available to admins.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return translateDBError(err, nil)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
