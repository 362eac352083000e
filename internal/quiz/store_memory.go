package quiz

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu       sync.RWMutex
	order    []string
	quizzes  map[string]Quiz
	attempts []AttemptRecord
	now      func() time.Time
}

func NewMemoryStore() Store {
	return &memoryStore{
		quizzes: map[string]Quiz{},
		now:     time.Now,
	}
}

func (m *memoryStore) PutQuiz(_ context.Context, q Quiz) (Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if _, exists := m.quizzes[q.ID]; !exists {
		m.order = append(m.order, q.ID)
	}
	m.quizzes[q.ID] = cloneQuiz(q)
	return cloneQuiz(q), nil
}

func (m *memoryStore) GetQuiz(_ context.Context, id string) (Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quizzes[id]
	if !ok {
		return Quiz{}, ErrNotFound
	}
	return cloneQuiz(q), nil
}

func (m *memoryStore) ListQuizzes(_ context.Context) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Summary, 0, len(m.order))
	for _, id := range m.order {
		q := m.quizzes[id]
		out = append(out, Summary{ID: q.ID, Name: q.Name, Description: q.Description})
	}
	return out, nil
}

func (m *memoryStore) DeleteQuiz(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[id]; !ok {
		return ErrNotFound
	}
	delete(m.quizzes, id)
	for i, qid := range m.order {
		if qid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	kept := m.attempts[:0]
	for _, a := range m.attempts {
		if a.QuizID != id {
			kept = append(kept, a)
		}
	}
	m.attempts = kept
	return nil
}

func (m *memoryStore) RecordAttempt(_ context.Context, quizID, playerID string, a Attempt) (AttemptRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[quizID]; !ok {
		return AttemptRecord{}, ErrNotFound
	}
	rec := AttemptRecord{
		ID:        uuid.NewString(),
		QuizID:    quizID,
		PlayerID:  playerID,
		Score:     a.Score,
		Total:     a.Total,
		CreatedAt: m.now(),
	}
	m.attempts = append(m.attempts, rec)
	return rec, nil
}

func (m *memoryStore) LatestAttempts(_ context.Context) (map[string]Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := map[string]Attempt{}
	// attempts are appended in order, so the last one per quiz wins
	for _, a := range m.attempts {
		out[a.QuizID] = a.Attempt()
	}
	return out, nil
}

func (m *memoryStore) AllQuestions(_ context.Context) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Question
	for _, id := range m.order {
		out = append(out, cloneQuiz(m.quizzes[id]).Questions...)
	}
	return out, nil
}

func cloneQuiz(q Quiz) Quiz {
	qs := make([]Question, len(q.Questions))
	for i, qq := range q.Questions {
		qq.Options = append([]string(nil), qq.Options...)
		qs[i] = qq
	}
	q.Questions = qs
	return q
}
