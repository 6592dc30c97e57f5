package postgres

import (
	"context"

	"github.com/apexeduai/vault-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type gameLogsRepo struct{ pool *pgxpool.Pool }

func (r *gameLogsRepo) Create(ctx context.Context, l models.GameLog) (models.GameLog, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO game_logs (id, user_id, game_title, question, answer)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING played_at`,
		l.ID, l.UserID, l.GameTitle, l.Question, l.Answer,
	).Scan(&l.PlayedAt)
	return l, err
}

func (r *gameLogsRepo) List(ctx context.Context) ([]models.GameLogEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT g.id, g.user_id, g.game_title, g.question, g.answer, g.played_at,
		        u.phone_number, u.full_name
		   FROM game_logs g JOIN users u ON u.id = g.user_id
		  ORDER BY g.played_at DESC LIMIT 500`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.GameLogEntry
	for rows.Next() {
		var e models.GameLogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.GameTitle, &e.Question,
			&e.Answer, &e.PlayedAt, &e.UserPhone, &e.UserName); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
