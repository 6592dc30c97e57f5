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

type examsRepo struct{ pool *pgxpool.Pool }

const examCols = `id, owner_id, title, topic, level, exam_type, difficulty, questions, created_at`

func (r *examsRepo) Create(ctx context.Context, e models.Exam) (models.Exam, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO exams (id, owner_id, title, topic, level, exam_type, difficulty, questions)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING created_at`,
		e.ID, e.OwnerID, e.Title, e.Topic, e.Level, e.ExamType, e.Difficulty, e.Questions,
	).Scan(&e.CreatedAt)
	return e, err
}

func (r *examsRepo) GetByID(ctx context.Context, id string) (models.Exam, error) {
	var e models.Exam
	err := r.pool.QueryRow(ctx,
		`SELECT `+examCols+` FROM exams WHERE id=$1`, id,
	).Scan(&e.ID, &e.OwnerID, &e.Title, &e.Topic, &e.Level, &e.ExamType,
		&e.Difficulty, &e.Questions, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Exam{}, repository.ErrNotFound
	}
	return e, err
}

func (r *examsRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+examCols+` FROM exams WHERE owner_id=$1
		  ORDER BY created_at DESC LIMIT 200`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Exam
	for rows.Next() {
		var e models.Exam
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Topic, &e.Level,
			&e.ExamType, &e.Difficulty, &e.Questions, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
