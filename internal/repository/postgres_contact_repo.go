package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fathima-sithara/contacts-service/internal/models"
)

type PostgresContactRepository struct {
	db *sql.DB
}

func NewPostgresContactRepository(db *sql.DB) *PostgresContactRepository {
	return &PostgresContactRepository{db: db}
}

const contactColumns = "id, name, last_name, email, phone, born_date, user_id, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*models.Contact, error) {
	var (
		contact models.Contact
		email   sql.NullString
		born    sql.NullTime
	)
	err := row.Scan(&contact.ID, &contact.Name, &contact.LastName, &email,
		&contact.Phone, &born, &contact.UserID, &contact.CreatedAt, &contact.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if email.Valid {
		contact.Email = &email.String
	}
	if born.Valid {
		d := models.Date{Time: born.Time}
		contact.BornDate = &d
	}
	return &contact, nil
}

func (r *PostgresContactRepository) List(ctx context.Context, ownerID int64, filter ContactFilter) ([]models.Contact, error) {
	var (
		where = []string{"user_id = $1"}
		args  = []any{ownerID}
	)
	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		where = append(where, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("name", filter.Name)
	add("last_name", filter.LastName)
	add("email", filter.Email)

	query := `SELECT ` + contactColumns + ` FROM contacts WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY id`
	return r.queryContacts(ctx, query, args...)
}

func (r *PostgresContactRepository) ListWithBirthDate(ctx context.Context, ownerID int64) ([]models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts
		WHERE user_id = $1 AND born_date IS NOT NULL ORDER BY id`
	return r.queryContacts(ctx, query, ownerID)
}

func (r *PostgresContactRepository) queryContacts(ctx context.Context, query string, args ...any) ([]models.Contact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying contacts: %w", err)
	}
	defer rows.Close()

	contacts := []models.Contact{}
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}
		contacts = append(contacts, *contact)
	}
	return contacts, rows.Err()
}

func (r *PostgresContactRepository) Get(ctx context.Context, ownerID, id int64) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1 AND user_id = $2`
	contact, err := scanContact(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying contact: %w", err)
	}
	return contact, nil
}

func (r *PostgresContactRepository) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	query := `
		INSERT INTO contacts (name, last_name, email, phone, born_date, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		contact.Name, contact.LastName, contact.Email, contact.Phone, contact.BornDate, contact.UserID,
	).Scan(&contact.ID, &contact.CreatedAt, &contact.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("inserting contact: %w", err)
	}
	return contact, nil
}

func (r *PostgresContactRepository) Update(ctx context.Context, ownerID, id int64, contact *models.Contact) (*models.Contact, error) {
	query := `
		UPDATE contacts
		SET name = $1, last_name = $2, email = $3, phone = $4, born_date = $5, updated_at = now()
		WHERE id = $6 AND user_id = $7
		RETURNING ` + contactColumns

	updated, err := scanContact(r.db.QueryRowContext(ctx, query,
		contact.Name, contact.LastName, contact.Email, contact.Phone, contact.BornDate, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("updating contact: %w", err)
	}
	return updated, nil
}

func (r *PostgresContactRepository) Delete(ctx context.Context, ownerID, id int64) (*models.Contact, error) {
	query := `DELETE FROM contacts WHERE id = $1 AND user_id = $2 RETURNING ` + contactColumns
	deleted, err := scanContact(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("deleting contact: %w", err)
	}
	return deleted, nil
}
