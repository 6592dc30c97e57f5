package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/apexeduai/vault-backend/internal/api/httpx"
	"github.com/apexeduai/vault-backend/internal/middleware"
	"github.com/apexeduai/vault-backend/internal/models"
	"github.com/apexeduai/vault-backend/internal/services"
)

type ExamHandler struct {
	svc         *services.ExamService
	genEndpoint string
	probe       *http.Client
}

func NewExamHandler(svc *services.ExamService, genEndpoint string) *ExamHandler {
	return &ExamHandler{
		svc:         svc,
		genEndpoint: genEndpoint,
		probe:       &http.Client{Timeout: 3 * time.Second},
	}
}

type examResp struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Topic      string            `json:"topic"`
	Level      string            `json:"level,omitempty"`
	ExamType   string            `json:"exam_type,omitempty"`
	Difficulty string            `json:"difficulty,omitempty"`
	Questions  []models.Question `json:"questions"`
	Count      int               `json:"count"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Generate builds a question bank from a topic or an uploaded document
// and stores it under the caller.
func (h *ExamHandler) Generate(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing user context", nil)
		return
	}
	if err := r.ParseMultipartForm(12 << 20); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "expected multipart form data", nil)
		return
	}

	in := services.GenerateInput{
		Topic:      r.FormValue("topic"),
		Level:      r.FormValue("level"),
		ExamType:   r.FormValue("exam_type"),
		Difficulty: r.FormValue("difficulty"),
	}
	if v := r.FormValue("num_questions"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			in.Count = n
		}
	}
	name, _, data, found, err := formFile(r, "file", 10<<20)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if found {
		in.FileName = name
		in.FileData = data
	}

	exam, bank, err := h.svc.Generate(r.Context(), u, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, examResp{
		ID:         exam.ID,
		Title:      bank.Title,
		Topic:      exam.Topic,
		Level:      exam.Level,
		ExamType:   exam.ExamType,
		Difficulty: exam.Difficulty,
		Questions:  bank.Questions,
		Count:      len(bank.Questions),
		CreatedAt:  exam.CreatedAt,
	})
}

type examSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Topic         string    `json:"topic"`
	Level         string    `json:"level,omitempty"`
	ExamType      string    `json:"exam_type,omitempty"`
	Difficulty    string    `json:"difficulty,omitempty"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// History lists the caller's stored exams without their question bodies.
func (h *ExamHandler) History(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing user context", nil)
		return
	}
	exams, err := h.svc.History(r.Context(), u.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]examSummary, 0, len(exams))
	for _, e := range exams {
		var qs []json.RawMessage
		_ = json.Unmarshal(e.Questions, &qs)
		out = append(out, examSummary{
			ID:            e.ID,
			Title:         e.Title,
			Topic:         e.Topic,
			Level:         e.Level,
			ExamType:      e.ExamType,
			Difficulty:    e.Difficulty,
			QuestionCount: len(qs),
			CreatedAt:     e.CreatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// Get returns one of the caller's exams with its full question bank.
func (h *ExamHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing user context", nil)
		return
	}
	exam, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"), u.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var qs []models.Question
	if err := json.Unmarshal(exam.Questions, &qs); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, examResp{
		ID:         exam.ID,
		Title:      exam.Title,
		Topic:      exam.Topic,
		Level:      exam.Level,
		ExamType:   exam.ExamType,
		Difficulty: exam.Difficulty,
		Questions:  qs,
		Count:      len(qs),
		CreatedAt:  exam.CreatedAt,
	})
}

// AIStatus probes the generation endpoint so clients can warn about
// degraded generation before submitting.
func (h *ExamHandler) AIStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	online := false
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.genEndpoint, nil)
	if err == nil {
		if resp, err := h.probe.Do(req); err == nil {
			resp.Body.Close()
			online = resp.StatusCode < http.StatusInternalServerError
		}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"provider": "pollinations",
		"online":   online,
	})
}
