package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/apexeduai/vault-backend/internal/api/httpx"
	"github.com/apexeduai/vault-backend/internal/api/validate"
	"github.com/apexeduai/vault-backend/internal/services"
)

type PaymentHandler struct {
	svc *services.PaymentService
}

func NewPaymentHandler(svc *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// Upload records a payment screenshot for manual verification. It never
// grants access; that happens at login once the transaction is seeded.
func (h *PaymentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "expected multipart form data", nil)
		return
	}
	name, contentType, data, found, err := formFile(r, "screenshot", 5<<20)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !found {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "screenshot field is required", nil)
		return
	}
	var errs validate.Errs
	if e := validate.Required("full_name", r.FormValue("full_name")); e != nil {
		errs = append(errs, *e)
	}
	if e := validate.Required("phone_number", r.FormValue("phone_number")); e != nil {
		errs = append(errs, *e)
	}
	if len(errs) > 0 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "validation failed", errs)
		return
	}

	p, err := h.svc.SubmitScreenshot(r.Context(), services.ScreenshotInput{
		FullName:    r.FormValue("full_name"),
		Phone:       r.FormValue("phone_number"),
		Institution: r.FormValue("institution"),
		Package:     r.FormValue("package"),
		FileName:    name,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]string{
		"status":     "received",
		"payment_id": p.ID,
	})
}

type verifyReq struct {
	TransactionID string `json:"transaction_id"`
}

// Verify reports whether a reference exists and is still redeemable.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		return
	}
	t, err := h.svc.CheckReference(r.Context(), req.TransactionID)
	switch {
	case errors.Is(err, services.ErrUnknownTransaction):
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"valid": false, "reason": "unknown_transaction"})
	case errors.Is(err, services.ErrMissingReference):
		writeServiceError(w, err)
	case err != nil:
		writeServiceError(w, err)
	case t.IsUsed:
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"valid": false, "reason": "already_used"})
	default:
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"valid": true, "amount": t.Amount, "currency": t.Currency})
	}
}

type addTxnReq struct {
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
}

// AddTransaction seeds the ledger with a verified payment reference.
func (h *PaymentHandler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	var req addTxnReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		return
	}
	var errs validate.Errs
	if e := validate.MinLen("transaction_id", req.TransactionID, 4); e != nil {
		errs = append(errs, *e)
	}
	if e := validate.MinInt("amount", req.Amount, 1); e != nil {
		errs = append(errs, *e)
	}
	if len(errs) > 0 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "validation failed", errs)
		return
	}
	t, created, err := h.svc.AddTransaction(r.Context(), req.TransactionID, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	status := http.StatusOK
	state := "exists"
	if created {
		status = http.StatusCreated
		state = "created"
	}
	httpx.WriteJSON(w, status, map[string]any{"status": state, "transaction": t})
}

func (h *PaymentHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ts, err := h.svc.ListTransactions(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ts)
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.ListPayments(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ps)
}

func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePayment(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
