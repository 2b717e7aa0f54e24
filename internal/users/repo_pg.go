package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PGRepo struct {
	DB *sql.DB
}

const userColumns = `id, name, email, password_hash, google_sub, picture_url, role, age, gender,
is_active, last_login, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, name, email, password_hash, google_sub, picture_url, role, age, gender, is_active, last_login, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		nullableString(user.PasswordHash),
		nullableString(user.GoogleSub),
		nullableString(user.PictureURL),
		user.Role,
		nullableInt(user.Age),
		nullableString(user.Gender),
		user.IsActive,
		user.LastLogin,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return mapWriteErr(err)
}

func (r *PGRepo) Update(ctx context.Context, user User) error {
	const query = `
UPDATE users SET
  name = $2,
  email = $3,
  password_hash = $4,
  google_sub = $5,
  picture_url = $6,
  role = $7,
  age = $8,
  gender = $9,
  is_active = $10,
  last_login = $11,
  updated_at = $12
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		nullableString(user.PasswordHash),
		nullableString(user.GoogleSub),
		nullableString(user.PictureURL),
		user.Role,
		nullableInt(user.Age),
		nullableString(user.Gender),
		user.IsActive,
		user.LastLogin,
		user.UpdatedAt,
	)
	if err != nil {
		return mapWriteErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 LIMIT 1`, userID)
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1) LIMIT 1`, email)
}

func (r *PGRepo) GetByGoogleSub(ctx context.Context, sub string) (User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE google_sub = $1 LIMIT 1`, sub)
}

func (r *PGRepo) Stats(ctx context.Context) (Stats, error) {
	const query = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE is_active),
       COUNT(*) FILTER (WHERE role = 'admin')
FROM users`
	var st Stats
	err := r.DB.QueryRowContext(ctx, query).Scan(&st.TotalUsers, &st.ActiveUsers, &st.AdminUsers)
	return st, err
}

func (r *PGRepo) getOne(ctx context.Context, query string, arg string) (User, error) {
	var (
		user         User
		passwordHash sql.NullString
		googleSub    sql.NullString
		pictureURL   sql.NullString
		age          sql.NullInt64
		gender       sql.NullString
		lastLogin    sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&passwordHash,
		&googleSub,
		&pictureURL,
		&user.Role,
		&age,
		&gender,
		&user.IsActive,
		&lastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.PasswordHash = passwordHash.String
	user.GoogleSub = googleSub.String
	user.PictureURL = pictureURL.String
	user.Age = int(age.Int64)
	user.Gender = gender.String
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLogin = &t
	}
	return user, nil
}

func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrEmailTaken
	}
	return err
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt(value int) any {
	if value == 0 {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
