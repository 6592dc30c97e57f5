package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/apexeduai/vault-backend/internal/api/validate"
	"github.com/apexeduai/vault-backend/internal/auth"
	"github.com/apexeduai/vault-backend/internal/config"
	"github.com/apexeduai/vault-backend/internal/metrics"
	"github.com/apexeduai/vault-backend/internal/models"
	repo "github.com/apexeduai/vault-backend/internal/repository"
)

// Profile carries the optional fields a caller may attach to a
// redemption. Empty fields are left untouched on the stored user.
type Profile struct {
	FullName    string
	Email       string
	Institution string
	Password    string
}

// AccessGrant is the result of a successful redemption: the stored user
// and the access window it is entitled to.
type AccessGrant struct {
	User      models.User
	ExpiresAt time.Time
}

// RedemptionService turns payment transactions into access windows. All
// ledger and user mutations for one redemption happen inside a single
// database transaction, so a reference is consumed at most once.
type RedemptionService struct {
	users  repo.Users
	txns   repo.Transactions
	policy config.RedemptionPolicy
	now    func() time.Time
}

func NewRedemptionService(users repo.Users, txns repo.Transactions, policy config.RedemptionPolicy) *RedemptionService {
	return &RedemptionService{users: users, txns: txns, policy: policy, now: time.Now}
}

// Redeem grants, extends or re-issues access for phone against the
// given transaction reference.
//
// Strict mode resolves the reference in the ledger: an unused
// transaction is consumed and its amount picks the plan tier; a
// transaction already consumed by the same phone acts as a login for as
// long as the window lasts; one consumed by another phone is rejected.
// Bypass mode skips the ledger and grants the top tier, which only
// makes sense for demo deployments.
func (s *RedemptionService) Redeem(ctx context.Context, phone, reference string, p Profile) (AccessGrant, error) {
	phone, ok := validate.SanitizePhone(phone)
	if !ok {
		return s.reject(ErrInvalidPhone)
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return s.reject(ErrMissingReference)
	}
	p.sanitize()

	var grant AccessGrant
	outcome := "granted"
	err := s.txns.WithTx(ctx, func(tx pgx.Tx) error {
		now := s.now().UTC()

		var txn *models.Transaction
		if s.policy.Strict {
			t, err := s.txns.GetByReferenceForUpdate(ctx, tx, reference)
			if errors.Is(err, repo.ErrNotFound) {
				return ErrUnknownTransaction
			}
			if err != nil {
				return fmt.Errorf("resolve transaction: %w", err)
			}
			txn = &t
		}

		user, err := s.users.GetByPhoneForUpdate(ctx, tx, phone)
		found := err == nil
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("resolve user: %w", err)
		}

		// A consumed reference never grants new time: it either lets its
		// owner back in or is rejected outright.
		if txn != nil && txn.IsUsed {
			if !txn.ClaimedBy(phone) {
				return ErrTransactionClaimed
			}
			if !found || !user.HasActiveWindow(now) {
				return ErrAccessExpired
			}
			user.IsActive = true
			user.CurrentTxnRef = &reference
			if err := p.apply(&user); err != nil {
				return err
			}
			if err := s.users.UpdateTx(ctx, tx, user); err != nil {
				return fmt.Errorf("update user: %w", err)
			}
			grant = AccessGrant{User: user, ExpiresAt: *user.ExpiryDate}
			outcome = "relogin"
			return nil
		}

		duration := s.policy.TopTier()
		if txn != nil {
			d, ok := s.policy.Duration(txn.Amount)
			if !ok {
				return ErrInsufficientAmount
			}
			duration = d
		}

		if !found {
			expiry := now.Add(duration)
			user = models.User{
				PhoneNumber:   phone,
				ExpiryDate:    &expiry,
				CurrentTxnRef: &reference,
				IsActive:      true,
			}
			if err := p.apply(&user); err != nil {
				return err
			}
			user, err = s.users.CreateTx(ctx, tx, user)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
		} else {
			// Active windows stack; lapsed ones restart from now so dormant
			// accounts are not back-credited.
			var expiry time.Time
			if user.HasActiveWindow(now) {
				expiry = user.ExpiryDate.Add(duration)
			} else {
				expiry = now.Add(duration)
			}
			user.ExpiryDate = &expiry
			user.CurrentTxnRef = &reference
			user.IsActive = true
			if err := p.apply(&user); err != nil {
				return err
			}
			if err := s.users.UpdateTx(ctx, tx, user); err != nil {
				return fmt.Errorf("update user: %w", err)
			}
		}

		if txn != nil {
			claimed, err := s.txns.Claim(ctx, tx, txn.ID, phone, now)
			if err != nil {
				return fmt.Errorf("claim transaction: %w", err)
			}
			if !claimed {
				// The row lock should make this unreachable, but losing the
				// claim must roll back the whole grant.
				return ErrTransactionClaimed
			}
		}

		grant = AccessGrant{User: user, ExpiresAt: *user.ExpiryDate}
		return nil
	})
	if err != nil {
		if isRedemptionReject(err) {
			return s.reject(err)
		}
		return AccessGrant{}, err
	}

	metrics.RedemptionsTotal.WithLabelValues(outcome).Inc()
	slog.Info("redemption", "phone", phone, "outcome", outcome, "expires_at", grant.ExpiresAt)
	return grant, nil
}

func (s *RedemptionService) reject(err error) (AccessGrant, error) {
	metrics.RedemptionsTotal.WithLabelValues("rejected").Inc()
	return AccessGrant{}, err
}

func (p *Profile) sanitize() {
	p.FullName = validate.SanitizeText(p.FullName, 200)
	p.Email = validate.SanitizeText(p.Email, 320)
	p.Institution = validate.SanitizeText(p.Institution, 200)
}

// apply copies the supplied fields onto u, hashing the password. Empty
// fields never overwrite stored values.
func (p Profile) apply(u *models.User) error {
	if p.FullName != "" {
		u.FullName = &p.FullName
	}
	if p.Email != "" {
		u.Email = &p.Email
	}
	if p.Institution != "" {
		u.Institution = &p.Institution
	}
	if p.Password != "" {
		hash, err := auth.HashPassword(p.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = &hash
	}
	return nil
}

func isRedemptionReject(err error) bool {
	for _, e := range []error{
		ErrInvalidPhone, ErrMissingReference, ErrUnknownTransaction,
		ErrTransactionClaimed, ErrInsufficientAmount, ErrAccessExpired,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
