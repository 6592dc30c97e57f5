package models

import (
	"encoding/json"
	"time"
)

// Question is a single multiple-choice item. Options always has 4 entries and
// Answer matches one of them verbatim.
type Question struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// QuestionBank is the generated payload stored on an exam row.
type QuestionBank struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

type Exam struct {
	ID         string          `json:"id"`
	OwnerID    *string         `json:"owner_id,omitempty"`
	Title      string          `json:"title"`
	Topic      string          `json:"topic"`
	Level      string          `json:"level"`
	ExamType   string          `json:"exam_type"`
	Difficulty string          `json:"difficulty"`
	Questions  json.RawMessage `json:"questions"`
	CreatedAt  time.Time       `json:"created_at"`
}
