package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/apexeduai/vault-backend/internal/api/validate"
	"github.com/apexeduai/vault-backend/internal/cache"
	"github.com/apexeduai/vault-backend/internal/extractor"
	"github.com/apexeduai/vault-backend/internal/generator"
	"github.com/apexeduai/vault-backend/internal/metrics"
	"github.com/apexeduai/vault-backend/internal/models"
	repo "github.com/apexeduai/vault-backend/internal/repository"
	"github.com/apexeduai/vault-backend/internal/worker"
)

const maxSourceBytes = 10 << 20

// ExamService builds question banks from a topic or an uploaded
// document, keeps a short-lived cache of live generations and persists
// every exam under its owner.
type ExamService struct {
	exams    repo.Exams
	gen      generator.Generator
	ext      extractor.Extractor
	cache    *cache.Cache
	wp       *worker.Pool
	count    int
	cacheTTL time.Duration
}

func NewExamService(exams repo.Exams, gen generator.Generator, ext extractor.Extractor,
	c *cache.Cache, wp *worker.Pool, defaultCount int, cacheTTL time.Duration) *ExamService {
	return &ExamService{
		exams: exams, gen: gen, ext: ext, cache: c, wp: wp,
		count: defaultCount, cacheTTL: cacheTTL,
	}
}

type GenerateInput struct {
	Topic      string
	FileName   string
	FileData   []byte
	Level      string
	ExamType   string
	Difficulty string
	Count      int // 0 means the configured default
}

// Generate produces a question bank and stores it as an exam owned by
// owner. The generation itself runs on the worker pool so concurrent
// requests against the slow upstream stay bounded.
func (s *ExamService) Generate(ctx context.Context, owner models.User, in GenerateInput) (models.Exam, models.QuestionBank, error) {
	topic := validate.SanitizeText(in.Topic, 200)
	source := ""

	if len(in.FileData) > 0 {
		if len(in.FileData) > maxSourceBytes {
			return models.Exam{}, models.QuestionBank{}, ErrFileTooLong
		}
		text, err := s.ext.Extract(in.FileName, in.FileData)
		if err != nil {
			return models.Exam{}, models.QuestionBank{}, err
		}
		source = text
		if topic == "" {
			base := filepath.Base(in.FileName)
			topic = strings.TrimSuffix(base, filepath.Ext(base))
		}
	}
	if topic == "" {
		return models.Exam{}, models.QuestionBank{}, ErrNoSource
	}

	n := in.Count
	if n <= 0 || n > 200 {
		n = s.count
	}
	req := generator.Request{
		Topic:      topic,
		Context:    source,
		Count:      n,
		Level:      validate.SanitizeText(in.Level, 50),
		ExamType:   validate.SanitizeText(in.ExamType, 50),
		Difficulty: validate.SanitizeText(in.Difficulty, 50),
	}

	bank, mode, err := s.generate(ctx, req)
	if err != nil {
		return models.Exam{}, models.QuestionBank{}, err
	}
	metrics.ExamsGenerated.WithLabelValues(mode).Inc()

	raw, err := json.Marshal(bank.Questions)
	if err != nil {
		return models.Exam{}, models.QuestionBank{}, fmt.Errorf("encode questions: %w", err)
	}
	exam := models.Exam{
		OwnerID:    &owner.ID,
		Title:      bank.Title,
		Topic:      topic,
		Level:      req.Level,
		ExamType:   req.ExamType,
		Difficulty: req.Difficulty,
		Questions:  raw,
	}
	exam, err = s.exams.Create(ctx, exam)
	if err != nil {
		return models.Exam{}, models.QuestionBank{}, fmt.Errorf("store exam: %w", err)
	}

	slog.Info("exam generated", "exam_id", exam.ID, "topic", topic, "mode", mode, "questions", len(bank.Questions))
	return exam, bank, nil
}

// generate consults the cache first, then runs the generator on the
// pool. Only live results are cached; fallback banks would otherwise
// mask a recovered upstream for a whole TTL.
func (s *ExamService) generate(ctx context.Context, req generator.Request) (models.QuestionBank, string, error) {
	key := s.cacheKey(req)
	if v, ok := s.cache.Get(ctx, key); ok {
		var bank models.QuestionBank
		if err := json.Unmarshal([]byte(v), &bank); err == nil && len(bank.Questions) > 0 {
			return bank, generator.ModeCache, nil
		}
	}

	var (
		bank models.QuestionBank
		mode string
		gerr error
	)
	err := s.wp.Do(ctx, func() {
		bank, mode, gerr = s.gen.Generate(ctx, req)
	})
	if err != nil {
		return models.QuestionBank{}, "", err
	}
	if gerr != nil {
		return models.QuestionBank{}, "", gerr
	}

	if mode == generator.ModeLive {
		if raw, err := json.Marshal(bank); err == nil {
			s.cache.Set(ctx, key, string(raw), s.cacheTTL)
		}
	}
	return bank, mode, nil
}

func (s *ExamService) cacheKey(req generator.Request) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%d|%s",
		strings.ToLower(req.Topic), req.Level, req.ExamType, req.Difficulty, req.Count, req.Context)
	return "gen:" + hex.EncodeToString(h.Sum(nil))
}

// History lists the caller's stored exams, newest first.
func (s *ExamService) History(ctx context.Context, ownerID string) ([]models.Exam, error) {
	return s.exams.ListByOwner(ctx, ownerID)
}

// Get returns one exam, concealing exams owned by anyone else.
func (s *ExamService) Get(ctx context.Context, id, ownerID string) (models.Exam, error) {
	e, err := s.exams.GetByID(ctx, id)
	if err != nil {
		return models.Exam{}, err
	}
	if e.OwnerID == nil || *e.OwnerID != ownerID {
		return models.Exam{}, repo.ErrNotFound
	}
	return e, nil
}
