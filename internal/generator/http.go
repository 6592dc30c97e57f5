package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/apexeduai/vault-backend/internal/models"
)

// HTTPGenerator asks a pollinations-style text endpoint for a question
// bank: the prompt travels URL-escaped in the request path and the
// reply is JSON, possibly wrapped in markdown fences or chatter.
type HTTPGenerator struct {
	endpoint string
	client   *http.Client
}

func NewHTTPGenerator(endpoint string, timeout time.Duration) *HTTPGenerator {
	return &HTTPGenerator{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
	}
}

func (g *HTTPGenerator) Generate(ctx context.Context, req Request) (models.QuestionBank, string, error) {
	n := req.Count
	if n <= 0 {
		n = 10
	}

	qs, err := g.fetch(ctx, req, n)
	if err != nil && ctx.Err() != nil {
		return models.QuestionBank{}, "", ctx.Err()
	}

	mode := ModeLive
	if err != nil || len(qs) < usableThreshold(n) {
		if err != nil {
			slog.Warn("generator fetch failed, using fallback", "topic", req.Topic, "err", err)
		} else {
			slog.Warn("generator returned too few questions, using fallback",
				"topic", req.Topic, "got", len(qs), "want", n)
		}
		qs = fallbackQuestions(req.Topic)
		mode = ModeFallback
	}

	return models.QuestionBank{
		Title:     fmt.Sprintf("%s Assessment (%d Questions)", strings.TrimSpace(req.Topic), n),
		Questions: cycleToCount(qs, n),
	}, mode, nil
}

func (g *HTTPGenerator) fetch(ctx context.Context, req Request, n int) ([]models.Question, error) {
	prompt := buildPrompt(req, n)
	u := g.endpoint + "/" + url.PathEscape(prompt) + "?json=true"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generation endpoint returned %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read generation response: %w", err)
	}

	raw := extractJSON(string(body))
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in generation response")
	}
	var payload struct {
		Questions []models.Question `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decode generation response: %w", err)
	}
	return sanitizeQuestions(payload.Questions), nil
}

func buildPrompt(req Request, n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate exactly %d multiple-choice questions on %q for a %s %s exam at %s difficulty. ",
		n, req.Topic, orDefault(req.Level, "tertiary"), orDefault(req.ExamType, "quiz"), orDefault(req.Difficulty, "medium"))
	b.WriteString(`Respond with ONLY a JSON object shaped as {"questions":[{"id":1,"question":"...","options":["...","...","...","..."],"answer":"..."}]}. `)
	b.WriteString("Each question must have exactly 4 options and the answer must match one option verbatim. No markdown, no commentary.")
	if req.Context != "" {
		b.WriteString(" Base every question strictly on this source material: ")
		b.WriteString(req.Context)
	}
	return b.String()
}

// extractJSON digs the outermost JSON object out of a reply that may be
// fenced or surrounded by prose.
func extractJSON(s string) string {
	i := strings.Index(s, "{")
	j := strings.LastIndex(s, "}")
	if i < 0 || j <= i {
		return ""
	}
	return s[i : j+1]
}

// sanitizeQuestions drops malformed entries and repairs answers that do
// not match any option.
func sanitizeQuestions(qs []models.Question) []models.Question {
	out := make([]models.Question, 0, len(qs))
	for _, q := range qs {
		q.Question = strings.TrimSpace(q.Question)
		q.Answer = strings.TrimSpace(q.Answer)
		if q.Question == "" || len(q.Options) != 4 {
			continue
		}
		ok := false
		for i, opt := range q.Options {
			q.Options[i] = strings.TrimSpace(opt)
			if q.Options[i] == q.Answer {
				ok = true
			}
		}
		if !ok {
			q.Answer = q.Options[0]
		}
		out = append(out, q)
	}
	return out
}

// usableThreshold is the minimum number of valid questions a live reply
// must contain before it beats the fallback bank.
func usableThreshold(n int) int {
	t := n / 5
	if t < 5 {
		t = 5
	}
	return t
}

// cycleToCount repeats the bank until it holds exactly n questions,
// renumbering as it goes.
func cycleToCount(qs []models.Question, n int) []models.Question {
	if len(qs) == 0 || n <= 0 {
		return nil
	}
	out := make([]models.Question, n)
	for i := 0; i < n; i++ {
		q := qs[i%len(qs)]
		q.ID = i + 1
		out[i] = q
	}
	return out
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
