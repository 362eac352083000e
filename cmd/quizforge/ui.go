package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mind-engage/quizforge/internal/catalog"
	"github.com/mind-engage/quizforge/internal/client"
	"github.com/mind-engage/quizforge/internal/generate"
	"github.com/mind-engage/quizforge/internal/play"
	"github.com/mind-engage/quizforge/internal/quiz"
)

var errQuit = errors.New("quit")

type ui struct {
	api *client.Client
	ctl *play.Controller
	in  *bufio.Scanner
	out io.Writer
}

func (u *ui) printf(format string, args ...any) { fmt.Fprintf(u.out, format, args...) }

func (u *ui) run(ctx context.Context) error {
	if err := u.ctl.Refresh(ctx); err != nil {
		return err
	}
	for {
		var err error
		switch s := u.ctl.Session(); {
		case s == nil:
			err = u.catalogStep(ctx)
		case s.Finished():
			err = u.resultStep(ctx)
		default:
			err = u.questionStep(ctx)
		}
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			u.printf("error: %v\n", err)
		}
	}
}

func (u *ui) read(prompt string) (cmd, arg string, err error) {
	u.printf("%s> ", prompt)
	if !u.in.Scan() {
		if err := u.in.Err(); err != nil {
			return "", "", err
		}
		return "", "", errQuit
	}
	line := strings.TrimSpace(u.in.Text())
	cmd, arg, _ = strings.Cut(line, " ")
	return strings.ToLower(cmd), strings.TrimSpace(arg), nil
}

func (u *ui) catalogStep(ctx context.Context) error {
	p := u.ctl.Page()
	u.printf("\nQuizzes (page %d of %d)\n", p.Number, p.TotalPages)
	if len(p.Items) == 0 {
		u.printf("  no quizzes yet: upload one with 'u <file>' or generate one with 'gen <topic>'\n")
	}
	for i, s := range p.Items {
		last := "not attempted"
		if s.LastAttempt != nil {
			last = "last score " + strconv.Itoa(s.LastAttempt.Score) + "/" + strconv.Itoa(s.LastAttempt.Total)
		}
		u.printf("  %d) %s  [%s]\n", i+1, s.Name, last)
		if s.Description != "" {
			u.printf("     %s\n", s.Description)
		}
	}
	u.printf("  pages: %s\n", renderWindow(catalog.Window(p.Number, p.TotalPages), p.Number))
	u.printf("  s N start · d N delete · n/p page · g N go to page · u FILE upload · gen TOPIC · m [N] mock exam · r refresh · q quit\n")

	cmd, arg, err := u.read("catalog")
	if err != nil {
		return err
	}
	switch cmd {
	case "q", "quit":
		return errQuit
	case "n":
		u.ctl.NextPage()
	case "p":
		u.ctl.PrevPage()
	case "g":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return errors.New("usage: g PAGE")
		}
		u.ctl.GoToPage(n)
	case "r":
		return u.ctl.Refresh(ctx)
	case "s", "d":
		s, err := pick(p, arg)
		if err != nil {
			return err
		}
		if cmd == "s" {
			_, err = u.ctl.Start(ctx, s.ID)
			return err
		}
		return u.ctl.Delete(ctx, s.ID)
	case "u":
		return u.upload(ctx, arg)
	case "gen":
		return u.generate(ctx, arg)
	case "m":
		n, _ := strconv.Atoi(arg)
		id, err := u.api.MockExam(ctx, n)
		if err != nil {
			return err
		}
		return u.refreshAndStart(ctx, id)
	case "":
	default:
		return errors.New("unknown command " + strconv.Quote(cmd))
	}
	return nil
}

func pick(p catalog.Page, arg string) (quiz.Summary, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(p.Items) {
		return quiz.Summary{}, errors.New("pick a quiz number shown on this page")
	}
	return p.Items[n-1], nil
}

func (u *ui) upload(ctx context.Context, path string) error {
	if path == "" {
		return errors.New("usage: u FILE")
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	id, err := u.api.Upload(ctx, filepath.Base(path), f)
	if err != nil {
		return err
	}
	u.printf("uploaded quiz %s\n", id)
	return u.ctl.Refresh(ctx)
}

func (u *ui) generate(ctx context.Context, topic string) error {
	u.printf("generating...\n")
	q, err := u.api.Generate(ctx, generate.Request{Context: topic})
	if err != nil {
		return err
	}
	id, err := u.api.UploadQuiz(ctx, q)
	if err != nil {
		return err
	}
	u.printf("saved %q with %d questions\n", q.Name, len(q.Questions))
	return u.refreshAndStart(ctx, id)
}

func (u *ui) refreshAndStart(ctx context.Context, id string) error {
	if err := u.ctl.Refresh(ctx); err != nil {
		return err
	}
	_, err := u.ctl.Start(ctx, id)
	return err
}

func (u *ui) questionStep(ctx context.Context) error {
	s := u.ctl.Session()
	q := s.Current()
	u.printf("\n%s: question %d of %d\n%s\n", s.Quiz().Name, s.Index()+1, s.Len(), q.Question)
	chosen, _ := s.Answer(s.Index())
	for i, opt := range q.Options {
		mark := " "
		if opt == chosen {
			mark = "*"
		}
		u.printf(" %s %d) %s\n", mark, i+1, opt)
	}
	var hints []string
	if s.CanGoBack() {
		hints = append(hints, "b back")
	}
	if s.IsLast() {
		hints = append(hints, "s submit")
	} else {
		hints = append(hints, "n next")
	}
	hints = append(hints, "x quit quiz")
	u.printf("  1-%d choose · %s\n", len(q.Options), strings.Join(hints, " · "))

	cmd, _, err := u.read("answer")
	if err != nil {
		return err
	}
	switch cmd {
	case "b":
		return s.GoBack()
	case "n":
		return s.GoNext()
	case "s":
		res, err := u.ctl.Submit(ctx)
		if err != nil && res.Total > 0 {
			u.printf("warning: score not saved: %v\n", err)
			return nil
		}
		return err
	case "x":
		u.ctl.RestartToCatalog()
		return nil
	}
	n, err := strconv.Atoi(cmd)
	if err != nil || n < 1 || n > len(q.Options) {
		return errors.New("choose an option number")
	}
	return s.SelectAnswer(q.Options[n-1])
}

func (u *ui) resultStep(ctx context.Context) error {
	s := u.ctl.Session()
	res, _ := s.Result()
	u.printf("\nYou scored %d out of %d\n", res.Score, res.Total)
	for _, r := range res.Review {
		mark := "✗"
		if r.Correct {
			mark = "✓"
		}
		ans := r.Answer
		if !r.Answered {
			ans = "(no answer)"
		}
		u.printf(" %s %d. %s\n     your answer: %s · correct: %s\n", mark, r.Index+1, r.Question, ans, r.CorrectAnswer)
	}
	u.printf("  c catalog · r retake · q quit\n")

	cmd, _, err := u.read("results")
	if err != nil {
		return err
	}
	switch cmd {
	case "q":
		return errQuit
	case "r":
		_, err := u.ctl.Start(ctx, s.Quiz().ID)
		return err
	default:
		u.ctl.RestartToCatalog()
	}
	return nil
}

func renderWindow(items []catalog.WindowItem, current int) string {
	if len(items) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(items))
	for _, it := range items {
		switch {
		case it.Ellipsis:
			parts = append(parts, "…")
		case it.Page == current:
			parts = append(parts, "["+strconv.Itoa(it.Page)+"]")
		default:
			parts = append(parts, strconv.Itoa(it.Page))
		}
	}
	return strings.Join(parts, " ")
}
