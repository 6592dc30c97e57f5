package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/apexeduai/vault-backend/internal/api/handlers"
	"github.com/apexeduai/vault-backend/internal/auth"
	"github.com/apexeduai/vault-backend/internal/config"
	"github.com/apexeduai/vault-backend/internal/extractor"
	"github.com/apexeduai/vault-backend/internal/generator"
	"github.com/apexeduai/vault-backend/internal/media"
	"github.com/apexeduai/vault-backend/internal/middleware"
	"github.com/apexeduai/vault-backend/internal/models"
	repo "github.com/apexeduai/vault-backend/internal/repository"
	"github.com/apexeduai/vault-backend/internal/services"
	"github.com/apexeduai/vault-backend/internal/worker"
)

const (
	adminPhone = "+233000000000"
	adminPass  = "adminpw"
)

// In-memory repositories backing the full HTTP stack.

type memUsers struct {
	mu   sync.Mutex
	seq  int
	rows map[string]models.User
}

var _ repo.Users = (*memUsers)(nil)

func (m *memUsers) GetByID(_ context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetByPhone(_ context.Context, phone string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.PhoneNumber == phone {
			return u, nil
		}
	}
	return models.User{}, repo.ErrNotFound
}

func (m *memUsers) List(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.rows))
	for _, u := range m.rows {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUsers) Update(_ context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[u.ID]; !ok {
		return repo.ErrNotFound
	}
	m.rows[u.ID] = u
	return nil
}

func (m *memUsers) Deactivate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.IsActive = false
	m.rows[id] = u
	return nil
}

func (m *memUsers) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, u := range m.rows {
		if u.IsActive && u.ExpiryDate != nil && u.ExpiryDate.Before(now) {
			u.IsActive = false
			m.rows[id] = u
			n++
		}
	}
	return n, nil
}

func (m *memUsers) GetByPhoneForUpdate(ctx context.Context, _ pgx.Tx, phone string) (models.User, error) {
	return m.GetByPhone(ctx, phone)
}

func (m *memUsers) CreateTx(_ context.Context, _ pgx.Tx, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	u.ID = fmt.Sprintf("user-%d", m.seq)
	u.CreatedAt = time.Now()
	m.rows[u.ID] = u
	return u, nil
}

func (m *memUsers) UpdateTx(ctx context.Context, _ pgx.Tx, u models.User) error {
	return m.Update(ctx, u)
}

type memTxns struct {
	mu   sync.Mutex
	seq  int
	rows map[string]models.Transaction
}

var _ repo.Transactions = (*memTxns)(nil)

func (m *memTxns) seed(ref string, amount int64) {
	_, _ = m.Create(context.Background(), models.Transaction{Reference: ref, Amount: amount, Currency: "GHS"})
}

func (m *memTxns) Create(_ context.Context, t models.Transaction) (models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t.ID = fmt.Sprintf("txn-%d", m.seq)
	t.CreatedAt = time.Now()
	m.rows[t.ID] = t
	return t, nil
}

func (m *memTxns) GetByReference(_ context.Context, ref string) (models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.rows {
		if t.Reference == ref {
			return t, nil
		}
	}
	return models.Transaction{}, repo.ErrNotFound
}

func (m *memTxns) List(_ context.Context) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Transaction, 0, len(m.rows))
	for _, t := range m.rows {
		out = append(out, t)
	}
	return out, nil
}

func (m *memTxns) GetByReferenceForUpdate(ctx context.Context, _ pgx.Tx, ref string) (models.Transaction, error) {
	return m.GetByReference(ctx, ref)
}

func (m *memTxns) Claim(_ context.Context, _ pgx.Tx, id, phone string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok || t.IsUsed {
		return false, nil
	}
	t.IsUsed = true
	t.UsedByPhone = &phone
	t.UsedAt = &at
	m.rows[id] = t
	return true, nil
}

func (m *memTxns) WithTx(_ context.Context, fn func(pgx.Tx) error) error { return fn(nil) }

type memExams struct {
	mu   sync.Mutex
	seq  int
	rows map[string]models.Exam
}

var _ repo.Exams = (*memExams)(nil)

func (m *memExams) Create(_ context.Context, e models.Exam) (models.Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	e.ID = fmt.Sprintf("exam-%d", m.seq)
	e.CreatedAt = time.Now()
	m.rows[e.ID] = e
	return e, nil
}

func (m *memExams) GetByID(_ context.Context, id string) (models.Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[id]
	if !ok {
		return models.Exam{}, repo.ErrNotFound
	}
	return e, nil
}

func (m *memExams) ListByOwner(_ context.Context, ownerID string) ([]models.Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Exam
	for _, e := range m.rows {
		if e.OwnerID != nil && *e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memPayments struct {
	mu   sync.Mutex
	seq  int
	rows map[string]models.Payment
}

var _ repo.Payments = (*memPayments)(nil)

func (m *memPayments) Create(_ context.Context, p models.Payment) (models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	p.ID = fmt.Sprintf("pay-%d", m.seq)
	p.CreatedAt = time.Now()
	m.rows[p.ID] = p
	return p, nil
}

func (m *memPayments) GetByID(_ context.Context, id string) (models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return models.Payment{}, repo.ErrNotFound
	}
	return p, nil
}

func (m *memPayments) List(_ context.Context) ([]models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Payment, 0, len(m.rows))
	for _, p := range m.rows {
		out = append(out, p)
	}
	return out, nil
}

func (m *memPayments) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type memGameLogs struct {
	mu   sync.Mutex
	logs []models.GameLog
}

var _ repo.GameLogs = (*memGameLogs)(nil)

func (m *memGameLogs) Create(_ context.Context, l models.GameLog) (models.GameLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = fmt.Sprintf("log-%d", len(m.logs)+1)
	l.PlayedAt = time.Now()
	m.logs = append(m.logs, l)
	return l, nil
}

func (m *memGameLogs) List(_ context.Context) ([]models.GameLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.GameLogEntry, 0, len(m.logs))
	for _, l := range m.logs {
		out = append(out, models.GameLogEntry{GameLog: l})
	}
	return out, nil
}

type memMedia struct {
	mu      sync.Mutex
	objects map[string][]byte
}

var _ media.Store = (*memMedia)(nil)

func (m *memMedia) Put(_ context.Context, name, _ string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = data
	return "mem://" + name, nil
}

func (m *memMedia) Remove(_ context.Context, _ string) error { return nil }

// stubGenerator answers instantly with a bank of the requested size.
type stubGenerator struct{}

var _ generator.Generator = stubGenerator{}

func (stubGenerator) Generate(_ context.Context, req generator.Request) (models.QuestionBank, string, error) {
	qs := make([]models.Question, req.Count)
	for i := range qs {
		qs[i] = models.Question{
			ID:       i + 1,
			Question: fmt.Sprintf("%s question %d?", req.Topic, i+1),
			Options:  []string{"a", "b", "c", "d"},
			Answer:   "a",
		}
	}
	return models.QuestionBank{Title: req.Topic + " Assessment", Questions: qs}, generator.ModeLive, nil
}

type routerEnv struct {
	router http.Handler
	users  *memUsers
	txns   *memTxns
	genSrv *httptest.Server
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()

	users := &memUsers{rows: map[string]models.User{}}
	txns := &memTxns{rows: map[string]models.Transaction{}}
	exams := &memExams{rows: map[string]models.Exam{}}
	payments := &memPayments{rows: map[string]models.Payment{}}
	logs := &memGameLogs{}
	store := &memMedia{objects: map[string][]byte{}}

	pool := worker.NewPool(1)
	t.Cleanup(pool.Stop)

	genSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(genSrv.Close)

	policy := config.RedemptionPolicy{
		Strict: true,
		Tiers: []config.Tier{
			{MinAmount: 100, Days: 90},
			{MinAmount: 50, Days: 30},
			{MinAmount: 20, Days: 7},
		},
	}

	userSvc := services.NewUserService(users, logs, store)
	redeemer := services.NewRedemptionService(users, txns, policy)
	paySvc := services.NewPaymentService(payments, txns, store)
	examSvc := services.NewExamService(exams, stubGenerator{}, extractor.PlainText{}, nil, pool, 5, time.Minute)

	tm := auth.NewTokenManager("router-test-secret", "vault-backend")
	admin := auth.NewStaticAdmin(adminPhone, adminPass)

	router := NewRouter(Deps{
		Cfg:      config.Config{RateRPS: 0},
		Auth:     handlers.NewAuthHandler(redeemer, userSvc, tm, nil, time.Hour, 10, time.Minute),
		Exams:    handlers.NewExamHandler(examSvc, genSrv.URL),
		Payments: handlers.NewPaymentHandler(paySvc),
		Admin:    handlers.NewAdminHandler(userSvc),
		AuthMW:   middleware.NewAuthMiddleware(tm, userSvc),
		AdminMW:  middleware.RequireAdmin(admin),
	})

	return &routerEnv{router: router, users: users, txns: txns, genSrv: genSrv}
}

func (e *routerEnv) do(t *testing.T, method, path string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *routerEnv) postJSON(t *testing.T, path string, payload any, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	if hdr == nil {
		hdr = map[string]string{}
	}
	hdr["Content-Type"] = "application/json"
	return e.do(t, http.MethodPost, path, bytes.NewReader(b), hdr)
}

func (e *routerEnv) login(t *testing.T, phone, ref string) string {
	t.Helper()
	rec := e.postJSON(t, "/api/v1/auth/login", map[string]string{
		"phone_number": phone, "transaction_id": ref,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		AccessToken string `json:"access_token"`
	}
	decodeBody(t, rec, &out)
	require.NotEmpty(t, out.AccessToken)
	return out.AccessToken
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func adminHeaders() map[string]string {
	return map[string]string{"X-Admin-Phone": adminPhone, "X-Admin-Password": adminPass}
}

type filePart struct {
	field, name, contentType string
	data                     []byte
}

func multipartBody(t *testing.T, fields map[string]string, file *filePart) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, file.field, file.name))
		h.Set("Content-Type", file.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHealthRoute(t *testing.T) {
	env := newRouterEnv(t)
	rec := env.do(t, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"ok"`)
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestLoginIssuesWorkingToken(t *testing.T) {
	env := newRouterEnv(t)
	env.txns.seed("MP-1", 100)

	rec := env.postJSON(t, "/api/v1/auth/login", map[string]string{
		"phone_number":   "+233 24 123 4567",
		"transaction_id": "MP-1",
		"full_name":      "Ama Mensah",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		User        struct {
			PhoneNumber   string `json:"phone_number"`
			FullName      string `json:"full_name"`
			DaysRemaining int    `json:"days_remaining"`
			IsActive      bool   `json:"is_active"`
		} `json:"user"`
	}
	decodeBody(t, rec, &out)
	require.Equal(t, "bearer", out.TokenType)
	require.Equal(t, "+233241234567", out.User.PhoneNumber)
	require.Equal(t, "Ama Mensah", out.User.FullName)
	require.True(t, out.User.IsActive)
	require.GreaterOrEqual(t, out.User.DaysRemaining, 89)

	me := env.do(t, http.MethodGet, "/api/v1/auth/me", nil, bearer(out.AccessToken))
	require.Equal(t, http.StatusOK, me.Code)
	require.Contains(t, me.Body.String(), "+233241234567")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/auth/me", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/exams/history", nil, bearer("garbage"))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginErrorCodes(t *testing.T) {
	env := newRouterEnv(t)
	env.txns.seed("MP-LOW", 10)
	env.txns.seed("MP-OK", 100)

	cases := []struct {
		name       string
		phone, ref string
		status     int
		code       string
	}{
		{"unknown reference", "+233200000001", "NOPE", http.StatusBadRequest, "unknown_transaction"},
		{"missing reference", "+233200000001", "  ", http.StatusBadRequest, "missing_reference"},
		{"invalid phone", "abc", "MP-OK", http.StatusBadRequest, "invalid_phone"},
		{"amount below plans", "+233200000001", "MP-LOW", http.StatusBadRequest, "insufficient_amount"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.postJSON(t, "/api/v1/auth/login", map[string]string{
				"phone_number": tc.phone, "transaction_id": tc.ref,
			}, nil)
			require.Equal(t, tc.status, rec.Code)
			var apiErr struct {
				Code string `json:"code"`
			}
			decodeBody(t, rec, &apiErr)
			require.Equal(t, tc.code, apiErr.Code)
		})
	}

	// A reference consumed by one phone is forbidden to every other.
	env.login(t, "+233200000001", "MP-OK")
	rec := env.postJSON(t, "/api/v1/auth/login", map[string]string{
		"phone_number": "+233200000002", "transaction_id": "MP-OK",
	}, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "transaction_claimed")
}

func TestAdminSurface(t *testing.T) {
	env := newRouterEnv(t)
	env.txns.seed("MP-1", 100)
	token := env.login(t, "+233241234567", "MP-1")

	rec := env.do(t, http.MethodGet, "/api/v1/admin/users", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/admin/users", nil, map[string]string{
		"X-Admin-Phone": adminPhone, "X-Admin-Password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/admin/users", nil, adminHeaders())
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	decodeBody(t, rec, &list)
	require.Len(t, list, 1)

	// Seeding the ledger is idempotent per reference.
	rec = env.postJSON(t, "/api/v1/admin/payments/add-dev-txn",
		map[string]any{"transaction_id": "DEV-1", "amount": 50}, adminHeaders())
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = env.postJSON(t, "/api/v1/admin/payments/add-dev-txn",
		map[string]any{"transaction_id": "DEV-1", "amount": 50}, adminHeaders())
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"exists"`)

	rec = env.postJSON(t, "/api/v1/admin/payments/add-dev-txn",
		map[string]any{"transaction_id": "x", "amount": 0}, adminHeaders())
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "transaction_id")

	// Deactivation takes effect on the very next authenticated request.
	var users []struct {
		ID string `json:"id"`
	}
	listRec := env.do(t, http.MethodGet, "/api/v1/admin/users", nil, adminHeaders())
	decodeBody(t, listRec, &users)
	rec = env.do(t, http.MethodPost, "/api/v1/admin/users/"+users[0].ID+"/deactivate", nil, adminHeaders())
	require.Equal(t, http.StatusOK, rec.Code)

	me := env.do(t, http.MethodGet, "/api/v1/auth/me", nil, bearer(token))
	require.Equal(t, http.StatusForbidden, me.Code)
	require.Contains(t, me.Body.String(), "account_inactive")
}

func TestVerifyReference(t *testing.T) {
	env := newRouterEnv(t)
	env.txns.seed("MP-1", 100)

	rec := env.postJSON(t, "/api/v1/payments/verify", map[string]string{"transaction_id": "NOPE"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "unknown_transaction")

	rec = env.postJSON(t, "/api/v1/payments/verify", map[string]string{"transaction_id": "MP-1"}, nil)
	var ok struct {
		Valid    bool   `json:"valid"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	decodeBody(t, rec, &ok)
	require.True(t, ok.Valid)
	require.EqualValues(t, 100, ok.Amount)
	require.Equal(t, "GHS", ok.Currency)

	env.login(t, "+233241234567", "MP-1")
	rec = env.postJSON(t, "/api/v1/payments/verify", map[string]string{"transaction_id": "MP-1"}, nil)
	require.Contains(t, rec.Body.String(), "already_used")
}

func TestExamEndpoints(t *testing.T) {
	env := newRouterEnv(t)
	env.txns.seed("MP-1", 100)
	token := env.login(t, "+233241234567", "MP-1")

	body, ctype := multipartBody(t, map[string]string{
		"topic": "Biology", "num_questions": "7",
	}, nil)
	rec := env.do(t, http.MethodPost, "/api/v1/exams/generate", body, map[string]string{
		"Authorization": "Bearer " + token,
		"Content-Type":  ctype,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var exam struct {
		ID        string `json:"id"`
		Topic     string `json:"topic"`
		Count     int    `json:"count"`
		Questions []struct {
			Options []string `json:"options"`
		} `json:"questions"`
	}
	decodeBody(t, rec, &exam)
	require.Equal(t, "Biology", exam.Topic)
	require.Equal(t, 7, exam.Count)
	require.Len(t, exam.Questions, 7)
	require.Len(t, exam.Questions[0].Options, 4)

	rec = env.do(t, http.MethodGet, "/api/v1/exams/history", nil, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	var hist []struct {
		ID            string `json:"id"`
		QuestionCount int    `json:"question_count"`
	}
	decodeBody(t, rec, &hist)
	require.Len(t, hist, 1)
	require.Equal(t, 7, hist[0].QuestionCount)

	rec = env.do(t, http.MethodGet, "/api/v1/exams/"+exam.ID, nil, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/exams/exam-999", nil, bearer(token))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGameLogRoundTrip(t *testing.T) {
	env := newRouterEnv(t)
	env.txns.seed("MP-1", 100)
	token := env.login(t, "+233241234567", "MP-1")

	rec := env.postJSON(t, "/api/v1/auth/game-log", map[string]string{
		"question": "2+2?", "answer": "4",
	}, bearer(token))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.postJSON(t, "/api/v1/auth/game-log", map[string]string{
		"game_title": "Quick Quiz", "question": "2+2?", "answer": "4",
	}, bearer(token))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/admin/game-logs", nil, adminHeaders())
	require.Equal(t, http.StatusOK, rec.Code)
	var logs []map[string]any
	decodeBody(t, rec, &logs)
	require.Len(t, logs, 1)
}

func TestPaymentScreenshotFlow(t *testing.T) {
	env := newRouterEnv(t)

	body, ctype := multipartBody(t, nil, &filePart{
		field: "screenshot", name: "receipt.png", contentType: "image/png", data: []byte{1, 2, 3},
	})
	rec := env.do(t, http.MethodPost, "/api/v1/payments/upload-payment", body, map[string]string{"Content-Type": ctype})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "full_name")

	body, ctype = multipartBody(t, map[string]string{
		"full_name": "Ama Mensah", "phone_number": "+233241234567", "institution": "Accra Tech",
	}, &filePart{field: "screenshot", name: "receipt.png", contentType: "image/png", data: []byte{1, 2, 3}})
	rec = env.do(t, http.MethodPost, "/api/v1/payments/upload-payment", body, map[string]string{"Content-Type": ctype})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		PaymentID string `json:"payment_id"`
	}
	decodeBody(t, rec, &created)
	require.NotEmpty(t, created.PaymentID)

	rec = env.do(t, http.MethodGet, "/api/v1/admin/payments", nil, adminHeaders())
	var payments []map[string]any
	decodeBody(t, rec, &payments)
	require.Len(t, payments, 1)

	rec = env.do(t, http.MethodDelete, "/api/v1/admin/payments/"+created.PaymentID, nil, adminHeaders())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/admin/payments", nil, adminHeaders())
	decodeBody(t, rec, &payments)
	require.Empty(t, payments)
}

func TestAvatarUpload(t *testing.T) {
	env := newRouterEnv(t)
	env.txns.seed("MP-1", 100)
	token := env.login(t, "+233241234567", "MP-1")

	body, ctype := multipartBody(t, nil, &filePart{
		field: "file", name: "me.png", contentType: "image/png", data: []byte{0x89, 0x50},
	})
	rec := env.do(t, http.MethodPost, "/api/v1/auth/upload-avatar", body, map[string]string{
		"Authorization": "Bearer " + token,
		"Content-Type":  ctype,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), "avatars/")
}

func TestAIStatusProbe(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/ai-status", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"online":true`)

	env.genSrv.Close()
	rec = env.do(t, http.MethodGet, "/api/v1/ai-status", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"online":false`)
}
