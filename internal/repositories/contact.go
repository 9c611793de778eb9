package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/mkoval7/contacts-api/internal/logger"
	"github.com/mkoval7/contacts-api/internal/models"
)

const contactColumns = `id, first_name, last_name, email, phone, birthday, additional_data, user_id, created_at, updated_at`

// ContactReadRepository serves contact lookups scoped to an owning user.
type ContactReadRepository struct {
	db *sqlx.DB
}

func NewContactReadRepository(db *sqlx.DB) *ContactReadRepository {
	return &ContactReadRepository{db: db}
}

// List returns the owner's contacts with offset/limit pagination.
func (r *ContactReadRepository) List(ctx context.Context, ownerID int64, offset, limit int) ([]models.ContactDB, error) {
	const query = `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1
		ORDER BY id
		OFFSET $2 LIMIT $3
	`

	contacts := []models.ContactDB{}
	err := r.db.SelectContext(ctx, &contacts, query, ownerID, offset, limit)

	logger.Log.Infow("contact list",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{ownerID, offset, limit},
		"count", len(contacts),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return contacts, nil
}

// GetByID returns the contact only if it belongs to the owner; nil otherwise.
// An ownership mismatch is indistinguishable from absence.
func (r *ContactReadRepository) GetByID(ctx context.Context, id, ownerID int64) (*models.ContactDB, error) {
	const query = `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1 AND user_id = $2`

	var contact models.ContactDB
	err := r.db.GetContext(ctx, &contact, query, id, ownerID)

	logger.Log.Infow("contact get",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id, ownerID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// Search matches the query case-insensitively as a substring of first name,
// last name, email or phone, OR-ed across fields, scoped to the owner.
func (r *ContactReadRepository) Search(ctx context.Context, ownerID int64, query string) ([]models.ContactDB, error) {
	const stmt = `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1
		  AND (first_name ILIKE $2 OR last_name ILIKE $2 OR email ILIKE $2 OR phone ILIKE $2)
		ORDER BY id
	`
	pattern := "%" + query + "%"

	contacts := []models.ContactDB{}
	err := r.db.SelectContext(ctx, &contacts, stmt, ownerID, pattern)

	logger.Log.Infow("contact search",
		"query", strings.Join(strings.Fields(stmt), " "),
		"args", []any{ownerID, pattern},
		"count", len(contacts),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return contacts, nil
}

// GetAllByOwner returns every contact owned by the user.
func (r *ContactReadRepository) GetAllByOwner(ctx context.Context, ownerID int64) ([]models.ContactDB, error) {
	const query = `SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1 ORDER BY id`

	contacts := []models.ContactDB{}
	err := r.db.SelectContext(ctx, &contacts, query, ownerID)

	logger.Log.Infow("contact get all",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{ownerID},
		"count", len(contacts),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return contacts, nil
}

// ContactWriteRepository handles contact write operations. Writes prefer the
// per-request transaction from the context when one is present.
type ContactWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewContactWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *ContactWriteRepository {
	return &ContactWriteRepository{db: db, txGetter: txGetter}
}

func (r *ContactWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Save inserts a contact bound to its owner. Returns ErrConflict when the
// email or phone is already taken by any contact in the store.
func (r *ContactWriteRepository) Save(ctx context.Context, contact *models.ContactDB) (*models.ContactDB, error) {
	const query = `
		INSERT INTO contacts (first_name, last_name, email, phone, birthday, additional_data, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + contactColumns

	var saved models.ContactDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &saved, query,
		contact.FirstName, contact.LastName, contact.Email, contact.Phone,
		contact.Birthday, contact.AdditionalData, contact.UserID)

	logger.Log.Infow("contact insert",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{contact.Email, contact.Phone, contact.UserID},
		"error", err,
	)

	if isUniqueViolation(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Update applies only the fields present in the partial update and returns the
// refreshed record. Returns nil when no such owned contact exists.
func (r *ContactWriteRepository) Update(ctx context.Context, id, ownerID int64, upd models.ContactUpdate) (*models.ContactDB, error) {
	const query = `
		UPDATE contacts
		SET first_name = COALESCE($3, first_name),
		    last_name = COALESCE($4, last_name),
		    email = COALESCE($5, email),
		    phone = COALESCE($6, phone),
		    birthday = COALESCE($7, birthday),
		    additional_data = COALESCE($8, additional_data),
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + contactColumns

	var updated models.ContactDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &updated, query,
		id, ownerID, upd.FirstName, upd.LastName, upd.Email, upd.Phone,
		upd.Birthday, upd.AdditionalData)

	logger.Log.Infow("contact update",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id, ownerID},
		"error", err,
	)

	if isUniqueViolation(err) {
		return nil, ErrConflict
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the owned contact. Reports whether a row was deleted.
func (r *ContactWriteRepository) Delete(ctx context.Context, id, ownerID int64) (bool, error) {
	const query = `DELETE FROM contacts WHERE id = $1 AND user_id = $2`

	res, err := r.executor(ctx).ExecContext(ctx, query, id, ownerID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("contact delete",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id, ownerID},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}
