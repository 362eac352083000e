// Package play drives the catalog and the active quiz session for an
// interactive front end.
package play

import (
	"context"
	"errors"
	"fmt"

	"github.com/mind-engage/quizforge/internal/catalog"
	"github.com/mind-engage/quizforge/internal/quiz"
)

var ErrNoSession = errors.New("no quiz in progress")

// Backend is the subset of the API the controller needs. *client.Client
// implements it.
type Backend interface {
	ListQuizzes(ctx context.Context) ([]quiz.Summary, error)
	GetQuiz(ctx context.Context, id string) (quiz.Quiz, error)
	DeleteQuiz(ctx context.Context, id string) error
	RecordAttempt(ctx context.Context, quizID string, a quiz.Attempt) error
}

type Controller struct {
	backend Backend
	pager   *catalog.Pager
	session *quiz.Session
	quizID  string
	rnd     quiz.Rand
}

// New returns a controller with an empty catalog. A nil rnd uses the global
// random source.
func New(b Backend, rnd quiz.Rand) *Controller {
	return &Controller{backend: b, pager: catalog.NewPager(nil), rnd: rnd}
}

// Refresh reloads the catalog and returns to the first page.
func (c *Controller) Refresh(ctx context.Context) error {
	list, err := c.backend.ListQuizzes(ctx)
	if err != nil {
		return fmt.Errorf("load quizzes: %w", err)
	}
	c.pager.SetItems(list)
	return nil
}

func (c *Controller) Page() catalog.Page { return c.pager.Current() }
func (c *Controller) GoToPage(n int)     { c.pager.GoTo(n) }
func (c *Controller) NextPage()          { c.pager.Next() }
func (c *Controller) PrevPage()          { c.pager.Prev() }

// Start fetches quiz id, shuffles it and begins a new session, replacing any
// session already in progress.
func (c *Controller) Start(ctx context.Context, id string) (*quiz.Session, error) {
	q, err := c.backend.GetQuiz(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load quiz %s: %w", id, err)
	}
	m, err := quiz.Materialize(q, c.rnd)
	if err != nil {
		return nil, err
	}
	s, err := quiz.NewSession(m)
	if err != nil {
		return nil, err
	}
	c.session, c.quizID = s, id
	return s, nil
}

// Session returns the session in progress, or nil.
func (c *Controller) Session() *quiz.Session { return c.session }

// Submit scores the session and records the attempt once. The result is
// returned even when recording fails; the error then reports the failure.
func (c *Controller) Submit(ctx context.Context) (quiz.Result, error) {
	if c.session == nil {
		return quiz.Result{}, ErrNoSession
	}
	res, err := c.session.Submit()
	if err != nil {
		return quiz.Result{}, err
	}
	if err := c.backend.RecordAttempt(ctx, c.quizID, res.Attempt); err != nil {
		return res, fmt.Errorf("record attempt: %w", err)
	}
	c.pager.SetLastAttempt(c.quizID, res.Attempt)
	return res, nil
}

// RestartToCatalog drops the session and leaves the catalog where it was.
func (c *Controller) RestartToCatalog() {
	c.session, c.quizID = nil, ""
}

// Delete removes quiz id from the backend and the catalog. The current page is
// clamped if it no longer exists.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.backend.DeleteQuiz(ctx, id); err != nil {
		return fmt.Errorf("delete quiz %s: %w", id, err)
	}
	c.pager.Remove(id)
	if c.quizID == id {
		c.RestartToCatalog()
	}
	return nil
}
