package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"krishilink/internal/db"
	"krishilink/internal/domain"
	"krishilink/internal/domain/models"
)

// UserRepository wraps DB access for users.
type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB { return pick(r.DB) }

const userColumns = `
	id, name, COALESCE(username,''), email, phone, password_hash, role,
	state, district, village, farm_size, COALESCE(crop_types,'[]'),
	is_active, last_login, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var (
		u         models.User
		cropTypes string
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.PasswordHash, &u.Role,
		&u.Location.State, &u.Location.District, &u.Location.Village, &u.FarmSize, &cropTypes,
		&u.IsActive, &lastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.CropTypes = db.DecodeList(cropTypes)
	u.LastLogin = db.TimePtr(lastLogin)
	return &u, nil
}

func (r UserRepository) Create(ctx context.Context, u *models.User) (int64, error) {
	conn := r.db()
	if conn == nil {
		return 0, errNoDB()
	}
	now := time.Now().UTC()
	res, err := conn.ExecContext(ctx, `
		INSERT INTO users (name, username, email, phone, password_hash, role,
			state, district, village, farm_size, crop_types, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		u.Name, db.NullIfEmpty(u.Username), u.Email, u.Phone, u.PasswordHash, u.Role,
		u.Location.State, u.Location.District, u.Location.Village, u.FarmSize, db.EncodeList(u.CropTypes),
		now, now,
	)
	if err != nil {
		if db.IsDuplicateKey(err) {
			return 0, duplicateUser(err)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return res.LastInsertId()
}

func duplicateUser(err error) error {
	if strings.Contains(err.Error(), "username") {
		return domain.ConflictError{Resource: "user", Msg: "Username already taken", Err: err}
	}
	return domain.ConflictError{Resource: "user", Msg: "User already exists with this email", Err: err}
}

func (r UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	conn := r.db()
	if conn == nil {
		return nil, errNoDB()
	}
	u, err := scanUser(conn.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`, id))
	if err != nil {
		return nil, notFound("user", err)
	}
	return u, nil
}

// FindByEmail matches case-insensitively; emails are stored lower-cased.
func (r UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	conn := r.db()
	if conn == nil {
		return nil, errNoDB()
	}
	u, err := scanUser(conn.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`,
		strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		return nil, notFound("user", err)
	}
	return u, nil
}

// Taken reports which of email and username already belong to a user.
func (r UserRepository) Taken(ctx context.Context, email, username string) (emailTaken, usernameTaken bool, err error) {
	conn := r.db()
	if conn == nil {
		return false, false, errNoDB()
	}
	var e, u int
	err = conn.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(email = ?), 0),
			COALESCE(SUM(username = ?), 0)
		FROM users
		WHERE email = ? OR username = ?`,
		email, username, email, username,
	).Scan(&e, &u)
	if err != nil {
		return false, false, fmt.Errorf("check user: %w", err)
	}
	return e > 0, username != "" && u > 0, nil
}

func (r UserRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	conn := r.db()
	if conn == nil {
		return errNoDB()
	}
	_, err := conn.ExecContext(ctx, `UPDATE users SET last_login = ? WHERE id = ?`, at, id)
	return err
}

func (r UserRepository) UpdateProfile(ctx context.Context, u *models.User) error {
	conn := r.db()
	if conn == nil {
		return errNoDB()
	}
	_, err := conn.ExecContext(ctx, `
		UPDATE users
		SET name = ?, phone = ?, state = ?, district = ?, village = ?, farm_size = ?, updated_at = ?
		WHERE id = ?`,
		u.Name, u.Phone, u.Location.State, u.Location.District, u.Location.Village, u.FarmSize,
		time.Now().UTC(), u.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}
