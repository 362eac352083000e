package quiz

import (
	"fmt"
	"strings"
)

// Materialize returns a session-ready copy of q with the question order and
// each question's options shuffled. Correct answers are matched by value, so
// they survive the reordering. q itself is not modified.
func Materialize(q Quiz, r Rand) (Quiz, error) {
	if err := checkPlayable(q); err != nil {
		return Quiz{}, err
	}
	questions := make([]Question, len(q.Questions))
	for i, qq := range q.Questions {
		qq.Options = Shuffle(qq.Options, r)
		questions[i] = qq
	}
	out := q
	out.Questions = Shuffle(questions, r)
	return out, nil
}

// checkPlayable rejects quizzes that could not be completed or scored.
func checkPlayable(q Quiz) error {
	if len(q.Questions) == 0 {
		return fmt.Errorf("%w: quiz %q has no questions", ErrMalformedQuiz, q.ID)
	}
	for i, qq := range q.Questions {
		if qq.Type != "" && qq.Type != TypeMultipleChoice {
			return fmt.Errorf("%w: question %d: unsupported type %q", ErrMalformedQuiz, i+1, qq.Type)
		}
		if !contains(qq.Options, qq.CorrectAnswer) {
			return fmt.Errorf("%w: question %d: options do not contain the correct answer", ErrMalformedQuiz, i+1)
		}
	}
	return nil
}

// Normalize prepares an uploaded or generated quiz for storage: it trims the
// name and drops questions of unsupported types. A question with an empty type
// is treated as multiple choice.
func Normalize(q Quiz) Quiz {
	q.Name = strings.TrimSpace(q.Name)
	q.Description = strings.TrimSpace(q.Description)
	kept := make([]Question, 0, len(q.Questions))
	for _, qq := range q.Questions {
		if qq.Type == "" {
			qq.Type = TypeMultipleChoice
		}
		if qq.Type != TypeMultipleChoice {
			continue
		}
		kept = append(kept, qq)
	}
	q.Questions = kept
	return q
}

// Validate checks a normalized quiz before it is stored.
func Validate(q Quiz) error {
	if q.Name == "" {
		return fmt.Errorf("%w: name required", ErrMalformedQuiz)
	}
	if len(q.Questions) == 0 {
		return fmt.Errorf("%w: at least one multiple choice question required", ErrMalformedQuiz)
	}
	for i, qq := range q.Questions {
		if strings.TrimSpace(qq.Question) == "" {
			return fmt.Errorf("%w: question %d: text required", ErrMalformedQuiz, i+1)
		}
		if len(qq.Options) != OptionsPerQuestion {
			return fmt.Errorf("%w: question %d: want %d options, got %d", ErrMalformedQuiz, i+1, OptionsPerQuestion, len(qq.Options))
		}
		if n := count(qq.Options, qq.CorrectAnswer); n != 1 {
			return fmt.Errorf("%w: question %d: correct answer must appear exactly once in options (found %d)", ErrMalformedQuiz, i+1, n)
		}
	}
	return nil
}

func contains(xs []string, s string) bool { return count(xs, s) > 0 }

func count(xs []string, s string) int {
	n := 0
	for _, x := range xs {
		if x == s {
			n++
		}
	}
	return n
}
