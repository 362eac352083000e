package quiz

import "fmt"

// Session is one in-progress attempt at a materialized quiz. It starts on the
// first question and ends when Submit succeeds. A Session is not safe for
// concurrent use.
type Session struct {
	quiz    Quiz
	index   int
	answers Answers
	result  *Result
}

// NewSession starts a session on q, which should already be materialized.
func NewSession(q Quiz) (*Session, error) {
	if err := checkPlayable(q); err != nil {
		return nil, err
	}
	return &Session{quiz: q, answers: Answers{}}, nil
}

func (s *Session) Quiz() Quiz        { return s.quiz }
func (s *Session) Index() int        { return s.index }
func (s *Session) Len() int          { return len(s.quiz.Questions) }
func (s *Session) IsFirst() bool     { return s.index == 0 }
func (s *Session) IsLast() bool      { return s.index == len(s.quiz.Questions)-1 }
func (s *Session) Finished() bool    { return s.result != nil }
func (s *Session) Current() Question { return s.quiz.Questions[s.index] }

// Answer returns the selection recorded for question i, if any.
func (s *Session) Answer(i int) (string, bool) {
	a, ok := s.answers[i]
	return a, ok
}

// Answers returns a copy of all recorded selections.
func (s *Session) Answers() Answers { return s.answers.clone() }

func (s *Session) answered() bool {
	_, ok := s.answers[s.index]
	return ok
}

func (s *Session) CanGoBack() bool { return !s.Finished() && s.index > 0 }
func (s *Session) CanGoNext() bool { return !s.Finished() && !s.IsLast() && s.answered() }
func (s *Session) CanSubmit() bool { return !s.Finished() && s.IsLast() && s.answered() }

// SelectAnswer records choice for the current question, replacing any earlier
// selection.
func (s *Session) SelectAnswer(choice string) error {
	if s.Finished() {
		return fmt.Errorf("%w: session already submitted", ErrIllegalTransition)
	}
	s.answers[s.index] = choice
	return nil
}

func (s *Session) GoBack() error {
	if !s.CanGoBack() {
		return s.reject("go back")
	}
	s.index--
	return nil
}

// GoNext advances to the next question. The current question must be answered.
func (s *Session) GoNext() error {
	if !s.CanGoNext() {
		return s.reject("advance")
	}
	s.index++
	return nil
}

// Submit scores the session and moves it to the results state. It succeeds
// only once, on the last question, after it has been answered.
func (s *Session) Submit() (Result, error) {
	if !s.CanSubmit() {
		return Result{}, s.reject("submit")
	}
	res := Grade(s.quiz, s.answers)
	s.result = &res
	return res, nil
}

// Result returns the scored result once the session has been submitted.
func (s *Session) Result() (Result, bool) {
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

func (s *Session) reject(op string) error {
	switch {
	case s.Finished():
		return fmt.Errorf("%w: cannot %s, session already submitted", ErrIllegalTransition, op)
	case op == "go back":
		return fmt.Errorf("%w: cannot go back from the first question", ErrIllegalTransition)
	case op == "submit" && !s.IsLast():
		return fmt.Errorf("%w: cannot submit before the last question", ErrIllegalTransition)
	case op == "advance" && s.IsLast():
		return fmt.Errorf("%w: already on the last question", ErrIllegalTransition)
	default:
		return fmt.Errorf("%w: cannot %s, question %d is unanswered", ErrIllegalTransition, op, s.index+1)
	}
}
