package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/apexeduai/vault-backend/internal/metrics"
	repo "github.com/apexeduai/vault-backend/internal/repository"
)

// Sweeper periodically deactivates users whose access window has
// lapsed. Expiry is also enforced live on each authenticated request,
// the sweep just keeps the stored state honest for admin listings.
type Sweeper struct {
	users    repo.Users
	interval time.Duration
	now      func() time.Time
}

func NewSweeper(users repo.Users, interval time.Duration) *Sweeper {
	return &Sweeper{users: users, interval: interval, now: time.Now}
}

// Run sweeps once immediately and then on every tick until ctx ends.
func (s *Sweeper) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		_, _ = s.SweepOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// SweepOnce deactivates every lapsed user and reports how many rows
// changed. Running it twice in a row is a no-op the second time.
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	n, err := s.users.DeactivateExpired(ctx, s.now().UTC())
	if err != nil {
		slog.Error("expiry sweep", "err", err)
		return 0, err
	}
	if n > 0 {
		metrics.ExpiredDeactivated.Add(float64(n))
		slog.Info("expiry sweep", "deactivated", n)
	}
	return n, nil
}
