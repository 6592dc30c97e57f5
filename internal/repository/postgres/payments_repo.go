package postgres

import (
	"context"
	"errors"

	"github.com/apexeduai/vault-backend/internal/models"
	"github.com/apexeduai/vault-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type paymentsRepo struct{ pool *pgxpool.Pool }

func (r *paymentsRepo) Create(ctx context.Context, p models.Payment) (models.Payment, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO payments (id, full_name, phone, institution, package, screenshot_url)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 RETURNING created_at`,
		p.ID, p.FullName, p.Phone, p.Institution, p.Package, p.ScreenshotURL,
	).Scan(&p.CreatedAt)
	return p, err
}

func (r *paymentsRepo) GetByID(ctx context.Context, id string) (models.Payment, error) {
	var p models.Payment
	err := r.pool.QueryRow(ctx,
		`SELECT id, full_name, phone, institution, package, screenshot_url, created_at
		   FROM payments WHERE id=$1`, id,
	).Scan(&p.ID, &p.FullName, &p.Phone, &p.Institution, &p.Package, &p.ScreenshotURL, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Payment{}, repository.ErrNotFound
	}
	return p, err
}

func (r *paymentsRepo) List(ctx context.Context) ([]models.Payment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, full_name, phone, institution, package, screenshot_url, created_at
		   FROM payments ORDER BY created_at DESC LIMIT 500`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.FullName, &p.Phone, &p.Institution,
			&p.Package, &p.ScreenshotURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *paymentsRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM payments WHERE id=$1`, id)
	if err == nil && tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return err
}
