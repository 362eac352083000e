package main

import (
	"bufio"
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/mind-engage/quizforge/internal/api/http"
	authmw "github.com/mind-engage/quizforge/internal/auth/middleware"
	"github.com/mind-engage/quizforge/internal/catalog"
	"github.com/mind-engage/quizforge/internal/client"
	"github.com/mind-engage/quizforge/internal/play"
	"github.com/mind-engage/quizforge/internal/quiz"
)

func TestUIPlaysAQuiz(t *testing.T) {
	ctx := context.Background()
	store := quiz.NewMemoryStore()
	srv := httptest.NewServer(api.NewRouter(api.Deps{Store: store, Auth: authmw.NewAuthService("t"), GuestAuth: true}))
	t.Cleanup(srv.Close)

	c := client.New(srv.URL)
	_, err := c.Guest(ctx)
	require.NoError(t, err)
	id, err := c.UploadQuiz(ctx, quiz.Quiz{Name: "One", Questions: []quiz.Question{
		{Type: quiz.TypeMultipleChoice, Question: "Pick", CorrectAnswer: "a", Options: []string{"a", "b", "c", "d"}},
	}})
	require.NoError(t, err)

	var out bytes.Buffer
	u := &ui{
		api: c,
		ctl: play.New(c, nil),
		in:  bufio.NewScanner(strings.NewReader("s 1\nn\n2\ns\nc\nq\n")),
		out: &out,
	}
	require.NoError(t, u.run(ctx))

	assert.Contains(t, out.String(), "One: question 1 of 1")
	assert.Contains(t, out.String(), "You scored")
	latest, err := store.LatestAttempts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, latest[id].Total)
}

func TestRenderWindow(t *testing.T) {
	assert.Equal(t, "-", renderWindow(nil, 1))
	assert.Equal(t, "1 … 4 [5] 6 … 10", renderWindow(catalog.Window(5, 10), 5))
}
