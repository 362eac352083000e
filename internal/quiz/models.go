package quiz

import (
	"encoding/json"
	"time"
)

type QuestionType string

const TypeMultipleChoice QuestionType = "MultipleChoice"

// OptionsPerQuestion is the number of choices an uploaded question must carry.
const OptionsPerQuestion = 4

type Question struct {
	Type          QuestionType `json:"type"`
	Question      string       `json:"question"`
	CorrectAnswer string       `json:"correctAnswer"`
	Options       []string     `json:"options"`
}

// UnmarshalJSON accepts the legacy "multiChoiceOptions" key used by older
// uploads and by the generation prompt.
func (q *Question) UnmarshalJSON(b []byte) error {
	var raw struct {
		Type               QuestionType `json:"type"`
		Question           string       `json:"question"`
		CorrectAnswer      string       `json:"correctAnswer"`
		Options            []string     `json:"options"`
		MultiChoiceOptions []string     `json:"multiChoiceOptions"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	q.Type = raw.Type
	q.Question = raw.Question
	q.CorrectAnswer = raw.CorrectAnswer
	q.Options = raw.Options
	if len(q.Options) == 0 {
		q.Options = raw.MultiChoiceOptions
	}
	return nil
}

type Quiz struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions"`
}

// Attempt is the outcome of one submitted session.
type Attempt struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// AttemptRecord is a stored attempt. PlayerID is the token subject of
// whoever submitted it.
type AttemptRecord struct {
	ID        string    `json:"id"`
	QuizID    string    `json:"quiz_id"`
	PlayerID  string    `json:"player_id,omitempty"`
	Score     int       `json:"score"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

func (r AttemptRecord) Attempt() Attempt { return Attempt{Score: r.Score, Total: r.Total} }

// Summary is a catalog entry. LastAttempt is nil until the quiz has been taken.
type Summary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	LastAttempt *Attempt `json:"lastAttempt,omitempty"`
}

// Answers maps a question index to the selected option. A missing key means
// the question is unanswered.
type Answers map[int]string

func (a Answers) clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
