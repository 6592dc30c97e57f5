package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/apexeduai/vault-backend/internal/models"
	"github.com/apexeduai/vault-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type usersRepo struct{ pool *pgxpool.Pool }

const userCols = `id, phone_number, full_name, email, institution, password_hash,
       avatar_url, current_txn_ref, expiry_date, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.PhoneNumber, &u.FullName, &u.Email, &u.Institution,
		&u.PasswordHash, &u.AvatarURL, &u.CurrentTxnRef, &u.ExpiryDate,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, repository.ErrNotFound
	}
	return u, err
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE id=$1`, id))
}

func (r *usersRepo) GetByPhone(ctx context.Context, phone string) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE phone_number=$1`, phone))
}

func (r *usersRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userCols+` FROM users ORDER BY created_at DESC LIMIT 500`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

const userSet = `UPDATE users SET full_name=$2, email=$3, institution=$4,
       password_hash=$5, avatar_url=$6, current_txn_ref=$7, expiry_date=$8,
       is_active=$9, updated_at=now() WHERE id=$1`

func (r *usersRepo) Update(ctx context.Context, u models.User) error {
	tag, err := r.pool.Exec(ctx, userSet,
		u.ID, u.FullName, u.Email, u.Institution, u.PasswordHash,
		u.AvatarURL, u.CurrentTxnRef, u.ExpiryDate, u.IsActive)
	if err == nil && tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return err
}

func (r *usersRepo) Deactivate(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_active=false, updated_at=now() WHERE id=$1`, id)
	if err == nil && tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return err
}

func (r *usersRepo) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_active=false, updated_at=now()
		  WHERE expiry_date < $1 AND is_active = true`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *usersRepo) GetByPhoneForUpdate(ctx context.Context, tx pgx.Tx, phone string) (models.User, error) {
	return scanUser(tx.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE phone_number=$1 FOR UPDATE`, phone))
}

func (r *usersRepo) CreateTx(ctx context.Context, tx pgx.Tx, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return scanUser(tx.QueryRow(ctx,
		`INSERT INTO users (id, phone_number, full_name, email, institution,
		        password_hash, avatar_url, current_txn_ref, expiry_date, is_active)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 RETURNING `+userCols,
		u.ID, u.PhoneNumber, u.FullName, u.Email, u.Institution,
		u.PasswordHash, u.AvatarURL, u.CurrentTxnRef, u.ExpiryDate, u.IsActive))
}

func (r *usersRepo) UpdateTx(ctx context.Context, tx pgx.Tx, u models.User) error {
	tag, err := tx.Exec(ctx, userSet,
		u.ID, u.FullName, u.Email, u.Institution, u.PasswordHash,
		u.AvatarURL, u.CurrentTxnRef, u.ExpiryDate, u.IsActive)
	if err == nil && tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return err
}
