package repository

import (
	"context"
	"errors"
	"time"

	"github.com/apexeduai/vault-backend/internal/models"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned for missing rows so callers never depend on
// driver-level sentinels.
var ErrNotFound = errors.New("not found")

type Users interface {
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByPhone(ctx context.Context, phone string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, u models.User) error
	Deactivate(ctx context.Context, id string) error

	// DeactivateExpired flips is_active for every user whose window lapsed
	// before now. Idempotent; returns the number of rows changed.
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)

	// Row-locked variants used inside the redemption transaction.
	GetByPhoneForUpdate(ctx context.Context, tx pgx.Tx, phone string) (models.User, error)
	CreateTx(ctx context.Context, tx pgx.Tx, u models.User) (models.User, error)
	UpdateTx(ctx context.Context, tx pgx.Tx, u models.User) error
}

type Transactions interface {
	Create(ctx context.Context, t models.Transaction) (models.Transaction, error)
	GetByReference(ctx context.Context, ref string) (models.Transaction, error)
	List(ctx context.Context) ([]models.Transaction, error)

	// GetByReferenceForUpdate locks the row for the duration of tx so
	// concurrent redemptions of the same reference serialize.
	GetByReferenceForUpdate(ctx context.Context, tx pgx.Tx, ref string) (models.Transaction, error)

	// Claim marks the transaction used iff it is still unused; reports
	// whether this caller won the transition.
	Claim(ctx context.Context, tx pgx.Tx, id, phone string, at time.Time) (bool, error)

	// WithTx runs fn inside a single database transaction (pgx.Tx).
	WithTx(ctx context.Context, fn func(pgx.Tx) error) error
}

type Exams interface {
	Create(ctx context.Context, e models.Exam) (models.Exam, error)
	GetByID(ctx context.Context, id string) (models.Exam, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Exam, error)
}

type Payments interface {
	Create(ctx context.Context, p models.Payment) (models.Payment, error)
	GetByID(ctx context.Context, id string) (models.Payment, error)
	List(ctx context.Context) ([]models.Payment, error)
	Delete(ctx context.Context, id string) error
}

type GameLogs interface {
	Create(ctx context.Context, l models.GameLog) (models.GameLog, error)
	List(ctx context.Context) ([]models.GameLogEntry, error)
}
