package grading

// Q is the view of a question needed for grading.
type Q struct {
	Type      string
	AnswerKey string
}

// Result is the outcome of grading a single question response.
type Result struct {
	Correct  bool
	Feedback []string
}

// Strategy grades a single question.
type Strategy interface {
	Grade(q Q, response string) Result
}

// StrategyFunc adapts a plain function to Strategy.
type StrategyFunc func(q Q, response string) Result

func (f StrategyFunc) Grade(q Q, response string) Result { return f(q, response) }

// Grader routes by question type to the correct Strategy.
type Grader interface {
	Grade(q Q, response string) Result
}

type defaultGrader struct {
	strategies map[string]Strategy
}

func (g *defaultGrader) Grade(q Q, response string) Result {
	s, ok := g.strategies[q.Type]
	if !ok {
		return Result{Feedback: []string{"no strategy available"}}
	}
	return s.Grade(q, response)
}

type Option func(*config)

type config struct {
	strategies map[string]Strategy
}

// WithStrategy installs or replaces the strategy for a question type.
func WithStrategy(typ string, s Strategy) Option {
	return func(c *config) { c.strategies[typ] = s }
}

// NewDefaultGrader installs built-in strategies.
func NewDefaultGrader(opts ...Option) Grader {
	cfg := &config{
		strategies: map[string]Strategy{
			"MultipleChoice": exactMatchStrategy{},
		},
	}
	for _, o := range opts {
		o(cfg)
	}
	return &defaultGrader{strategies: cfg.strategies}
}

// Default is the grader used for scoring sessions.
var Default = NewDefaultGrader()

// --- Strategies ---

// exactMatchStrategy compares the response to the key byte for byte. No
// trimming or case folding.
type exactMatchStrategy struct{}

func (exactMatchStrategy) Grade(q Q, response string) Result {
	return Result{Correct: response == q.AnswerKey}
}
