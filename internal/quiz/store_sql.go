package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/quizforge/internal/db"
)

type SQLStore struct {
	db     *sql.DB
	driver db.Driver
	now    func() time.Time
}

func NewSQLStore(h *sql.DB, driver db.Driver) *SQLStore {
	return &SQLStore{db: h, driver: driver, now: time.Now}
}

func (s *SQLStore) PutQuiz(ctx context.Context, q Quiz) (Quiz, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO quizzes (id,name,description,created_at)
			VALUES ($1,$2,$3,$4)
			ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, description=EXCLUDED.description`,
			q.ID, q.Name, q.Description, s.now().UnixNano()); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE quiz_id=$1`, q.ID); err != nil {
			return err
		}
		for i, qq := range q.Questions {
			opts, err := json.Marshal(qq.Options)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO questions (quiz_id,position,type,question,correct_answer,options_json)
				VALUES ($1,$2,$3,$4,$5,$6)`,
				q.ID, i, string(qq.Type), qq.Question, qq.CorrectAnswer, string(opts)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Quiz{}, fmt.Errorf("put quiz: %w", err)
	}
	return q, nil
}

func (s *SQLStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	var q Quiz
	row := s.db.QueryRowContext(ctx, `SELECT id,name,description FROM quizzes WHERE id=$1`, id)
	if err := row.Scan(&q.ID, &q.Name, &q.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrNotFound
		}
		return Quiz{}, err
	}
	qs, err := s.questions(ctx, `WHERE quiz_id=$1`, id)
	if err != nil {
		return Quiz{}, err
	}
	q.Questions = qs
	return q, nil
}

func (s *SQLStore) ListQuizzes(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,name,description FROM quizzes ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Summary{}
	for rows.Next() {
		var sm Summary
		if err := rows.Scan(&sm.ID, &sm.Name, &sm.Description); err != nil {
			return nil, err
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

// DeleteQuiz removes child rows explicitly; the mattn driver leaves foreign
// keys off unless the DSN enables them.
func (s *SQLStore) DeleteQuiz(ctx context.Context, id string) error {
	return db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM attempts WHERE quiz_id=$1`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE quiz_id=$1`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM quizzes WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *SQLStore) RecordAttempt(ctx context.Context, quizID, playerID string, a Attempt) (AttemptRecord, error) {
	var exist int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM quizzes WHERE id=$1`, quizID).Scan(&exist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AttemptRecord{}, ErrNotFound
		}
		return AttemptRecord{}, err
	}
	rec := AttemptRecord{
		ID:        uuid.NewString(),
		QuizID:    quizID,
		PlayerID:  playerID,
		Score:     a.Score,
		Total:     a.Total,
		CreatedAt: s.now(),
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO attempts (id,quiz_id,player_id,score,total,created_at) VALUES ($1,$2,$3,$4,$5,$6)`,
		rec.ID, rec.QuizID, rec.PlayerID, rec.Score, rec.Total, rec.CreatedAt.UnixNano())
	if err != nil {
		return AttemptRecord{}, fmt.Errorf("record attempt: %w", err)
	}
	return rec, nil
}

// LatestAttempts picks the last inserted attempt per quiz. seq is used rather
// than created_at so equal timestamps still resolve to insertion order.
func (s *SQLStore) LatestAttempts(ctx context.Context) (map[string]Attempt, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT quiz_id,score,total FROM attempts ORDER BY seq DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]Attempt{}
	for rows.Next() {
		var quizID string
		var a Attempt
		if err := rows.Scan(&quizID, &a.Score, &a.Total); err != nil {
			return nil, err
		}
		if _, seen := out[quizID]; !seen {
			out[quizID] = a
		}
	}
	return out, rows.Err()
}

func (s *SQLStore) AllQuestions(ctx context.Context) ([]Question, error) {
	return s.questions(ctx, "")
}

func (s *SQLStore) questions(ctx context.Context, where string, args ...any) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT type,question,correct_answer,options_json FROM questions `+where+` ORDER BY quiz_id, position`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Question{}
	for rows.Next() {
		var q Question
		var typ, opts string
		if err := rows.Scan(&typ, &q.Question, &q.CorrectAnswer, &opts); err != nil {
			return nil, err
		}
		q.Type = QuestionType(typ)
		if err := json.Unmarshal([]byte(opts), &q.Options); err != nil {
			return nil, fmt.Errorf("question options: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
