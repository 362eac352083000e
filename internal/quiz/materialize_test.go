package quiz

import (
	"encoding/json"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcq(text, correct string, others ...string) Question {
	return Question{
		Type:          TypeMultipleChoice,
		Question:      text,
		CorrectAnswer: correct,
		Options:       append([]string{correct}, others...),
	}
}

func sampleQuiz(n int) Quiz {
	q := Quiz{ID: "quiz-1", Name: "Capitals", Description: "European capitals"}
	for i := 0; i < n; i++ {
		q.Questions = append(q.Questions, mcq(
			fmt.Sprintf("Question %d", i),
			fmt.Sprintf("right-%d", i),
			fmt.Sprintf("wrong-%d-a", i), fmt.Sprintf("wrong-%d-b", i), fmt.Sprintf("wrong-%d-c", i),
		))
	}
	return q
}

func questionKeys(q Quiz) []string {
	out := make([]string, len(q.Questions))
	for i, qq := range q.Questions {
		opts := append([]string(nil), qq.Options...)
		sort.Strings(opts)
		out[i] = fmt.Sprintf("%s|%s|%v", qq.Question, qq.CorrectAnswer, opts)
	}
	sort.Strings(out)
	return out
}

func TestMaterializePreservesContent(t *testing.T) {
	src := sampleQuiz(8)
	before := questionKeys(src)
	firstOptions := append([]string(nil), src.Questions[0].Options...)

	for seed := uint64(0); seed < 20; seed++ {
		got, err := Materialize(src, seeded(seed))
		require.NoError(t, err)
		assert.Equal(t, src.ID, got.ID)
		assert.Equal(t, src.Name, got.Name)
		assert.Equal(t, before, questionKeys(got))
		for _, qq := range got.Questions {
			assert.Contains(t, qq.Options, qq.CorrectAnswer)
		}
	}
	assert.Equal(t, "Question 0", src.Questions[0].Question, "source order untouched")
	assert.Equal(t, firstOptions, src.Questions[0].Options, "source options untouched")
}

func TestMaterializeReorders(t *testing.T) {
	src := sampleQuiz(8)
	moved := false
	for seed := uint64(0); seed < 10 && !moved; seed++ {
		got, err := Materialize(src, seeded(seed))
		require.NoError(t, err)
		for i := range got.Questions {
			if got.Questions[i].Question != src.Questions[i].Question {
				moved = true
			}
		}
	}
	assert.True(t, moved, "question order should change for some seed")
}

func TestMaterializeRejectsMalformed(t *testing.T) {
	_, err := Materialize(Quiz{ID: "empty"}, nil)
	assert.ErrorIs(t, err, ErrMalformedQuiz)

	bad := sampleQuiz(2)
	bad.Questions[1].CorrectAnswer = "not an option"
	_, err = Materialize(bad, nil)
	assert.ErrorIs(t, err, ErrMalformedQuiz)
}

func TestMaterializeRejectsUnsupportedType(t *testing.T) {
	q := Quiz{ID: "tf", Name: "True or false", Questions: []Question{
		{Type: "TrueFalse", Question: "Is A first?", CorrectAnswer: "A", Options: []string{"A", "B"}},
	}}
	_, err := Materialize(q, nil)
	assert.ErrorIs(t, err, ErrMalformedQuiz)

	_, err = NewSession(q)
	assert.ErrorIs(t, err, ErrMalformedQuiz)

	// an empty type is played as multiple choice and can be won
	q.Questions[0].Type = ""
	s, err := NewSession(q)
	require.NoError(t, err)
	require.NoError(t, s.SelectAnswer("A"))
	res, err := s.Submit()
	require.NoError(t, err)
	assert.Equal(t, Attempt{Score: 1, Total: 1}, res.Attempt)
}

func TestNormalizeAndValidate(t *testing.T) {
	q := Normalize(Quiz{
		Name: "  Mixed  ",
		Questions: []Question{
			mcq("kept", "a", "b", "c", "d"),
			{Type: "TrueFalse", Question: "dropped", CorrectAnswer: "true", Options: []string{"true", "false"}},
			{Question: "untyped", CorrectAnswer: "x", Options: []string{"x", "y", "z", "w"}},
		},
	})
	assert.Equal(t, "Mixed", q.Name)
	require.Len(t, q.Questions, 2)
	assert.Equal(t, TypeMultipleChoice, q.Questions[1].Type)
	assert.NoError(t, Validate(q))

	tests := map[string]Quiz{
		"no name":       {Questions: []Question{mcq("q", "a", "b", "c", "d")}},
		"no questions":  {Name: "n"},
		"three options": {Name: "n", Questions: []Question{mcq("q", "a", "b", "c")}},
		"missing key":   {Name: "n", Questions: []Question{{Question: "q", CorrectAnswer: "z", Options: []string{"a", "b", "c", "d"}}}},
		"duplicate key": {Name: "n", Questions: []Question{mcq("q", "a", "a", "c", "d")}},
		"blank text":    {Name: "n", Questions: []Question{mcq(" ", "a", "b", "c", "d")}},
	}
	for name, q := range tests {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, Validate(q), ErrMalformedQuiz)
		})
	}
}

func TestQuestionDecodesLegacyOptionsKey(t *testing.T) {
	var q Quiz
	err := json.Unmarshal([]byte(`{
		"name": "Legacy",
		"questions": [
			{"type": "MultipleChoice", "question": "2+2?", "correctAnswer": "4", "multiChoiceOptions": ["1","2","3","4"]},
			{"type": "MultipleChoice", "question": "3+3?", "correctAnswer": "6", "options": ["6","7","8","9"]}
		]
	}`), &q)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4"}, q.Questions[0].Options)
	assert.Equal(t, []string{"6", "7", "8", "9"}, q.Questions[1].Options)
}
