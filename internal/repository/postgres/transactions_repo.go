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

type transactionsRepo struct{ pool *pgxpool.Pool }

const txnCols = `id, reference, amount, currency, is_used, used_by_phone, used_at, created_at`

func scanTxn(row pgx.Row) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.Reference, &t.Amount, &t.Currency,
		&t.IsUsed, &t.UsedByPhone, &t.UsedAt, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Transaction{}, repository.ErrNotFound
	}
	return t, err
}

func (r *transactionsRepo) Create(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Currency == "" {
		t.Currency = "GHS"
	}
	return scanTxn(r.pool.QueryRow(ctx,
		`INSERT INTO transactions (id, reference, amount, currency)
		 VALUES ($1,$2,$3,$4)
		 RETURNING `+txnCols,
		t.ID, t.Reference, t.Amount, t.Currency))
}

func (r *transactionsRepo) GetByReference(ctx context.Context, ref string) (models.Transaction, error) {
	return scanTxn(r.pool.QueryRow(ctx,
		`SELECT `+txnCols+` FROM transactions WHERE reference=$1`, ref))
}

func (r *transactionsRepo) List(ctx context.Context) ([]models.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+txnCols+` FROM transactions ORDER BY created_at DESC LIMIT 500`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		t, err := scanTxn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *transactionsRepo) GetByReferenceForUpdate(ctx context.Context, tx pgx.Tx, ref string) (models.Transaction, error) {
	return scanTxn(tx.QueryRow(ctx,
		`SELECT `+txnCols+` FROM transactions WHERE reference=$1 FOR UPDATE`, ref))
}

func (r *transactionsRepo) Claim(ctx context.Context, tx pgx.Tx, id, phone string, at time.Time) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE transactions SET is_used=true, used_by_phone=$2, used_at=$3
		  WHERE id=$1 AND is_used=false`,
		id, phone, at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// WithTx runs fn inside a single database transaction. Row locks taken via the
// ForUpdate helpers serialize contending redemptions, so read committed is
// enough here; the loser wakes up to the committed claim and branches on it.
func (r *transactionsRepo) WithTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
