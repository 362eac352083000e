package quiz

import "github.com/mind-engage/quizforge/internal/grading"

// QuestionReview is one line of the results screen.
type QuestionReview struct {
	Index         int    `json:"index"`
	Question      string `json:"question"`
	Answer        string `json:"answer,omitempty"`
	Answered      bool   `json:"answered"`
	CorrectAnswer string `json:"correctAnswer"`
	Correct       bool   `json:"correct"`
}

// Result is a scored session.
type Result struct {
	Attempt
	Review []QuestionReview `json:"review"`
}

// Score counts the answered questions whose answer equals the correct answer
// exactly. Unanswered questions count as zero.
func Score(q Quiz, a Answers) int {
	score := 0
	for i, qq := range q.Questions {
		if ans, ok := a[i]; ok && correct(qq, ans) {
			score++
		}
	}
	return score
}

// Grade scores q and builds the per-question review.
func Grade(q Quiz, a Answers) Result {
	res := Result{
		Attempt: Attempt{Total: len(q.Questions)},
		Review:  make([]QuestionReview, len(q.Questions)),
	}
	for i, qq := range q.Questions {
		ans, ok := a[i]
		rv := QuestionReview{
			Index:         i,
			Question:      qq.Question,
			Answer:        ans,
			Answered:      ok,
			CorrectAnswer: qq.CorrectAnswer,
			Correct:       ok && correct(qq, ans),
		}
		if rv.Correct {
			res.Score++
		}
		res.Review[i] = rv
	}
	return res
}

func correct(q Question, answer string) bool {
	typ := q.Type
	if typ == "" {
		typ = TypeMultipleChoice
	}
	return grading.Default.Grade(grading.Q{Type: string(typ), AnswerKey: q.CorrectAnswer}, answer).Correct
}
