package postgres

import (
	repo "github.com/apexeduai/vault-backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Users        repo.Users
	Transactions repo.Transactions
	Exams        repo.Exams
	Payments     repo.Payments
	GameLogs     repo.GameLogs
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:        &usersRepo{pool},
		Transactions: &transactionsRepo{pool},
		Exams:        &examsRepo{pool},
		Payments:     &paymentsRepo{pool},
		GameLogs:     &gameLogsRepo{pool},
	}
}
