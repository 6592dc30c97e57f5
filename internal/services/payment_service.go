package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/apexeduai/vault-backend/internal/api/validate"
	"github.com/apexeduai/vault-backend/internal/media"
	"github.com/apexeduai/vault-backend/internal/models"
	repo "github.com/apexeduai/vault-backend/internal/repository"
)

// PaymentService records payment proof submissions and gives admins a
// window into the transaction ledger. Submitting a screenshot never
// grants access by itself; the window only opens once the matching
// transaction is redeemed.
type PaymentService struct {
	payments repo.Payments
	txns     repo.Transactions
	media    media.Store
}

func NewPaymentService(payments repo.Payments, txns repo.Transactions, media media.Store) *PaymentService {
	return &PaymentService{payments: payments, txns: txns, media: media}
}

type ScreenshotInput struct {
	FullName    string
	Phone       string
	Institution string
	Package     string
	FileName    string
	ContentType string
	Data        []byte
}

func (s *PaymentService) SubmitScreenshot(ctx context.Context, in ScreenshotInput) (models.Payment, error) {
	phone, ok := validate.SanitizePhone(in.Phone)
	if !ok {
		return models.Payment{}, ErrInvalidPhone
	}
	if len(in.Data) > maxImageBytes {
		return models.Payment{}, ErrFileTooLong
	}
	ext := strings.ToLower(filepath.Ext(in.FileName))
	if !imageExts[ext] || !strings.HasPrefix(in.ContentType, "image/") {
		return models.Payment{}, ErrUnsupportedImage
	}

	url, err := s.media.Put(ctx, "payments/"+uuid.NewString()+ext, in.ContentType, in.Data)
	if err != nil {
		return models.Payment{}, fmt.Errorf("store screenshot: %w", err)
	}

	p := models.Payment{
		FullName:      validate.SanitizeText(in.FullName, 200),
		Phone:         phone,
		ScreenshotURL: url,
	}
	if v := validate.SanitizeText(in.Institution, 200); v != "" {
		p.Institution = &v
	}
	if v := validate.SanitizeText(in.Package, 100); v != "" {
		p.Package = &v
	}
	p, err = s.payments.Create(ctx, p)
	if err != nil {
		return models.Payment{}, fmt.Errorf("record payment: %w", err)
	}
	slog.Info("payment screenshot submitted", "phone", phone, "payment_id", p.ID)
	return p, nil
}

func (s *PaymentService) ListPayments(ctx context.Context) ([]models.Payment, error) {
	return s.payments.List(ctx)
}

// DeletePayment drops the record and its stored screenshot.
func (s *PaymentService) DeletePayment(ctx context.Context, id string) error {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.payments.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.media.Remove(ctx, p.ScreenshotURL); err != nil {
		slog.Warn("remove screenshot", "url", p.ScreenshotURL, "err", err)
	}
	return nil
}

// AddTransaction seeds the ledger with a redeemable reference. Adding
// an existing reference is a no-op so the endpoint can be retried.
func (s *PaymentService) AddTransaction(ctx context.Context, reference string, amount int64) (models.Transaction, bool, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return models.Transaction{}, false, ErrMissingReference
	}
	if amount <= 0 {
		return models.Transaction{}, false, errors.New("amount must be > 0")
	}

	if existing, err := s.txns.GetByReference(ctx, reference); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		return models.Transaction{}, false, fmt.Errorf("check reference: %w", err)
	}

	t, err := s.txns.Create(ctx, models.Transaction{Reference: reference, Amount: amount})
	if err != nil {
		return models.Transaction{}, false, fmt.Errorf("create transaction: %w", err)
	}
	return t, true, nil
}

func (s *PaymentService) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	return s.txns.List(ctx)
}

// CheckReference looks a reference up without consuming it, so clients
// can tell a buyer whether their code is ready to redeem.
func (s *PaymentService) CheckReference(ctx context.Context, reference string) (models.Transaction, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return models.Transaction{}, ErrMissingReference
	}
	t, err := s.txns.GetByReference(ctx, reference)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Transaction{}, ErrUnknownTransaction
	}
	return t, err
}
