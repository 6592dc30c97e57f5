package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/apexeduai/vault-backend/internal/generator"
	"github.com/apexeduai/vault-backend/internal/media"
	"github.com/apexeduai/vault-backend/internal/models"
	repo "github.com/apexeduai/vault-backend/internal/repository"
)

// Map-backed repository fakes. The pgx.Tx parameters are ignored; the
// services under test never touch the tx handle themselves.

type fakeUsers struct {
	mu   sync.Mutex
	seq  int
	byID map[string]models.User
}

var _ repo.Users = (*fakeUsers)(nil)

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[string]models.User{}} }

func (f *fakeUsers) GetByID(_ context.Context, id string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByPhone(_ context.Context, phone string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.PhoneNumber == phone {
			return u, nil
		}
	}
	return models.User{}, repo.ErrNotFound
}

func (f *fakeUsers) List(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) Update(_ context.Context, u models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[u.ID]; !ok {
		return repo.ErrNotFound
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) Deactivate(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.IsActive = false
	f.byID[id] = u
	return nil
}

func (f *fakeUsers) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, u := range f.byID {
		if u.IsActive && u.ExpiryDate != nil && u.ExpiryDate.Before(now) {
			u.IsActive = false
			f.byID[id] = u
			n++
		}
	}
	return n, nil
}

func (f *fakeUsers) GetByPhoneForUpdate(ctx context.Context, _ pgx.Tx, phone string) (models.User, error) {
	return f.GetByPhone(ctx, phone)
}

func (f *fakeUsers) CreateTx(_ context.Context, _ pgx.Tx, u models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	u.ID = fmt.Sprintf("user-%d", f.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsers) UpdateTx(ctx context.Context, _ pgx.Tx, u models.User) error {
	return f.Update(ctx, u)
}

type fakeTxns struct {
	mu   sync.Mutex
	seq  int
	byID map[string]models.Transaction
}

var _ repo.Transactions = (*fakeTxns)(nil)

func newFakeTxns() *fakeTxns { return &fakeTxns{byID: map[string]models.Transaction{}} }

func (f *fakeTxns) seed(ref string, amount int64) models.Transaction {
	t, _ := f.Create(context.Background(), models.Transaction{Reference: ref, Amount: amount, Currency: "GHS"})
	return t
}

func (f *fakeTxns) Create(_ context.Context, t models.Transaction) (models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	t.ID = fmt.Sprintf("txn-%d", f.seq)
	t.CreatedAt = time.Now()
	if t.Currency == "" {
		t.Currency = "GHS"
	}
	f.byID[t.ID] = t
	return t, nil
}

func (f *fakeTxns) GetByReference(_ context.Context, ref string) (models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.byID {
		if t.Reference == ref {
			return t, nil
		}
	}
	return models.Transaction{}, repo.ErrNotFound
}

func (f *fakeTxns) List(_ context.Context) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Transaction, 0, len(f.byID))
	for _, t := range f.byID {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTxns) GetByReferenceForUpdate(ctx context.Context, _ pgx.Tx, ref string) (models.Transaction, error) {
	return f.GetByReference(ctx, ref)
}

func (f *fakeTxns) Claim(_ context.Context, _ pgx.Tx, id, phone string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byID[id]
	if !ok || t.IsUsed {
		return false, nil
	}
	t.IsUsed = true
	t.UsedByPhone = &phone
	t.UsedAt = &at
	f.byID[id] = t
	return true, nil
}

func (f *fakeTxns) WithTx(_ context.Context, fn func(pgx.Tx) error) error {
	return fn(nil)
}

type fakeExams struct {
	mu   sync.Mutex
	seq  int
	byID map[string]models.Exam
}

var _ repo.Exams = (*fakeExams)(nil)

func newFakeExams() *fakeExams { return &fakeExams{byID: map[string]models.Exam{}} }

func (f *fakeExams) Create(_ context.Context, e models.Exam) (models.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	e.ID = fmt.Sprintf("exam-%d", f.seq)
	e.CreatedAt = time.Now()
	f.byID[e.ID] = e
	return e, nil
}

func (f *fakeExams) GetByID(_ context.Context, id string) (models.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return models.Exam{}, repo.ErrNotFound
	}
	return e, nil
}

func (f *fakeExams) ListByOwner(_ context.Context, ownerID string) ([]models.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Exam
	for _, e := range f.byID {
		if e.OwnerID != nil && *e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakePayments struct {
	mu   sync.Mutex
	seq  int
	byID map[string]models.Payment
}

var _ repo.Payments = (*fakePayments)(nil)

func newFakePayments() *fakePayments { return &fakePayments{byID: map[string]models.Payment{}} }

func (f *fakePayments) Create(_ context.Context, p models.Payment) (models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	p.ID = fmt.Sprintf("pay-%d", f.seq)
	p.CreatedAt = time.Now()
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakePayments) GetByID(_ context.Context, id string) (models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return models.Payment{}, repo.ErrNotFound
	}
	return p, nil
}

func (f *fakePayments) List(_ context.Context) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Payment, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePayments) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeGameLogs struct {
	mu   sync.Mutex
	seq  int
	logs []models.GameLog
}

var _ repo.GameLogs = (*fakeGameLogs)(nil)

func (f *fakeGameLogs) Create(_ context.Context, l models.GameLog) (models.GameLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	l.ID = fmt.Sprintf("log-%d", f.seq)
	l.PlayedAt = time.Now()
	f.logs = append(f.logs, l)
	return l, nil
}

func (f *fakeGameLogs) List(_ context.Context) ([]models.GameLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.GameLogEntry, 0, len(f.logs))
	for _, l := range f.logs {
		out = append(out, models.GameLogEntry{GameLog: l})
	}
	return out, nil
}

type fakeMedia struct {
	mu      sync.Mutex
	objects map[string][]byte
	removed []string
}

var _ media.Store = (*fakeMedia)(nil)

func newFakeMedia() *fakeMedia { return &fakeMedia{objects: map[string][]byte{}} }

func (m *fakeMedia) Put(_ context.Context, name, _ string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = data
	return "mem://" + name, nil
}

func (m *fakeMedia) Remove(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, url)
	delete(m.objects, strings.TrimPrefix(url, "mem://"))
	return nil
}

// fakeGenerator returns a synthetic bank of the requested size and
// counts how often it was consulted.
type fakeGenerator struct {
	mu    sync.Mutex
	calls int
	last  generator.Request
	mode  string
	err   error
}

var _ generator.Generator = (*fakeGenerator)(nil)

func (g *fakeGenerator) Generate(_ context.Context, req generator.Request) (models.QuestionBank, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.last = req
	if g.err != nil {
		return models.QuestionBank{}, "", g.err
	}
	mode := g.mode
	if mode == "" {
		mode = generator.ModeLive
	}
	qs := make([]models.Question, req.Count)
	for i := range qs {
		qs[i] = models.Question{
			ID:       i + 1,
			Question: fmt.Sprintf("%s question %d?", req.Topic, i+1),
			Options:  []string{"a", "b", "c", "d"},
			Answer:   "a",
		}
	}
	return models.QuestionBank{
		Title:     fmt.Sprintf("%s Assessment (%d Questions)", req.Topic, req.Count),
		Questions: qs,
	}, mode, nil
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func (g *fakeGenerator) lastRequest() generator.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}
