package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fathima-sithara/contacts-service/internal/models"
)

const pgUniqueViolation = "23505"

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = "id, username, email, password, confirmed, avatar, refresh_token, created_at, updated_at"

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		user    models.User
		avatar  sql.NullString
		refresh sql.NullString
	)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Password,
		&user.Confirmed, &avatar, &refresh, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	user.Avatar = avatar.String
	if refresh.Valid {
		user.RefreshToken = &refresh.String
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, password, confirmed, avatar)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.Password, user.Confirmed, nullString(user.Avatar),
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepository) UpdateRefreshToken(ctx context.Context, email string, token *string) error {
	query := `UPDATE users SET refresh_token = $1, updated_at = now() WHERE email = $2`
	res, err := r.db.ExecContext(ctx, query, token, email)
	if err != nil {
		return fmt.Errorf("updating refresh token: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) RotateRefreshToken(ctx context.Context, email, old, new string) (bool, error) {
	query := `
		UPDATE users SET refresh_token = $1, updated_at = now()
		WHERE email = $2 AND refresh_token = $3`
	res, err := r.db.ExecContext(ctx, query, new, email, old)
	if err != nil {
		return false, fmt.Errorf("rotating refresh token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *PostgresUserRepository) ConfirmEmail(ctx context.Context, email string) error {
	query := `UPDATE users SET confirmed = true, updated_at = now() WHERE email = $1`
	res, err := r.db.ExecContext(ctx, query, email)
	if err != nil {
		return fmt.Errorf("confirming email: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) UpdateAvatar(ctx context.Context, email, url string) (*models.User, error) {
	query := `
		UPDATE users SET avatar = $1, updated_at = now()
		WHERE email = $2
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, query, url, email))
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
