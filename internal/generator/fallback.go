package generator

import (
	"fmt"

	"github.com/apexeduai/vault-backend/internal/models"
)

// fallbackTemplates are generic study questions instantiated with the
// requested topic whenever the live endpoint cannot deliver. The answer
// index points into the options.
var fallbackTemplates = []struct {
	q    string
	opts [4]string
	ans  int
}{
	{
		q:    "What is the primary focus of %s?",
		opts: [4]string{"Understanding its core principles and applications", "Memorizing unrelated trivia", "Avoiding practical examples", "Studying a different subject entirely"},
		ans:  0,
	},
	{
		q:    "Which approach is most effective when studying %s?",
		opts: [4]string{"Cramming the night before", "Consistent practice with feedback", "Reading summaries only", "Skipping the fundamentals"},
		ans:  1,
	},
	{
		q:    "A strong foundation in %s typically begins with what?",
		opts: [4]string{"Advanced edge cases", "Its basic definitions and terminology", "Unrelated disciplines", "Guesswork"},
		ans:  1,
	},
	{
		q:    "Why is %s considered important in its field?",
		opts: [4]string{"It has no practical relevance", "It underpins key concepts and real-world applications", "It is only of historical interest", "It replaces all other subjects"},
		ans:  1,
	},
	{
		q:    "Which of the following best describes progress in %s?",
		opts: [4]string{"Building later concepts on earlier ones", "Learning topics in random order", "Ignoring prerequisites", "Relying on intuition alone"},
		ans:  0,
	},
	{
		q:    "When a problem in %s seems too hard, what is the best first step?",
		opts: [4]string{"Give up immediately", "Break it into smaller parts", "Change the subject", "Copy an answer without understanding"},
		ans:  1,
	},
	{
		q:    "How should examples be used while learning %s?",
		opts: [4]string{"Worked through actively to test understanding", "Skipped to save time", "Read once without notes", "Memorized without context"},
		ans:  0,
	},
	{
		q:    "What does mastery of %s usually require?",
		opts: [4]string{"A single reading of the material", "Repeated practice and self-testing", "Avoiding difficult questions", "Perfect recall of page numbers"},
		ans:  1,
	},
	{
		q:    "Which habit most improves long-term retention of %s?",
		opts: [4]string{"Spaced review over several sessions", "Studying only once", "Highlighting every sentence", "Reading silently without recall"},
		ans:  0,
	},
	{
		q:    "In an exam on %s, what should you do before answering a question?",
		opts: [4]string{"Answer without reading it fully", "Read it carefully and identify what is asked", "Pick the longest option", "Always choose the first option"},
		ans:  1,
	},
	{
		q:    "What is a common mistake when revising %s?",
		opts: [4]string{"Testing yourself frequently", "Practicing past questions", "Passive rereading without recall", "Explaining concepts to others"},
		ans:  2,
	},
	{
		q:    "Connecting ideas in %s to real situations mainly helps with what?",
		opts: [4]string{"Making the material harder", "Deepening understanding and recall", "Replacing the need for practice", "Shortening the syllabus"},
		ans:  1,
	},
	{
		q:    "Which resource is generally most reliable for learning %s?",
		opts: [4]string{"Unverified social media posts", "Course materials and recommended texts", "Rumors from classmates", "Outdated unrelated notes"},
		ans:  1,
	},
	{
		q:    "After getting a practice question on %s wrong, what is the best response?",
		opts: [4]string{"Ignore it and move on", "Review why the correct answer holds", "Assume the question was unfair", "Stop practicing"},
		ans:  1,
	},
	{
		q:    "What role does terminology play in %s?",
		opts: [4]string{"It allows precise communication of its concepts", "It only matters for lecturers", "It can be safely ignored", "It changes meaning at random"},
		ans:  0,
	},
	{
		q:    "Which plan best prepares a student for a %s exam?",
		opts: [4]string{"A steady schedule covering all assessed topics", "Studying only favorite topics", "Starting on exam morning", "Reading the syllabus once"},
		ans:  0,
	},
}

func fallbackQuestions(topic string) []models.Question {
	if topic == "" {
		topic = "this subject"
	}
	qs := make([]models.Question, len(fallbackTemplates))
	for i, t := range fallbackTemplates {
		qs[i] = models.Question{
			ID:       i + 1,
			Question: fmt.Sprintf(t.q, topic),
			Options:  t.opts[:],
			Answer:   t.opts[t.ans],
		}
	}
	return qs
}
