package quiz

import "context"

// Store persists quizzes and attempts. Implementations are safe for
// concurrent use.
type Store interface {
	// PutQuiz saves q and returns it with its assigned ID.
	PutQuiz(ctx context.Context, q Quiz) (Quiz, error)
	// GetQuiz returns the canonical (unshuffled) quiz.
	GetQuiz(ctx context.Context, id string) (Quiz, error)
	// ListQuizzes returns summaries in creation order, without attempts.
	ListQuizzes(ctx context.Context) ([]Summary, error)
	// DeleteQuiz removes the quiz, its questions and its attempts.
	DeleteQuiz(ctx context.Context, id string) error

	// RecordAttempt stores a submitted attempt by playerID.
	RecordAttempt(ctx context.Context, quizID, playerID string, a Attempt) (AttemptRecord, error)
	// LatestAttempts maps quiz ID to its most recently recorded attempt.
	LatestAttempts(ctx context.Context) (map[string]Attempt, error)

	// AllQuestions returns every stored question across all quizzes.
	AllQuestions(ctx context.Context) ([]Question, error)
}

// WithLastAttempts fills in LastAttempt on each summary from latest.
func WithLastAttempts(list []Summary, latest map[string]Attempt) []Summary {
	out := make([]Summary, len(list))
	for i, s := range list {
		if a, ok := latest[s.ID]; ok {
			s.LastAttempt = &a
		}
		out[i] = s
	}
	return out
}
