// Package client is a typed HTTP client for the quiz API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mind-engage/quizforge/internal/generate"
	"github.com/mind-engage/quizforge/internal/quiz"
)

// StatusError is returned for any non-2xx response. A 404 also matches
// quiz.ErrNotFound via errors.Is.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: %d %s: %s", e.Code, http.StatusText(e.Code), e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == quiz.ErrNotFound && e.Code == http.StatusNotFound
}

type Client struct {
	HTTP    *http.Client
	BaseURL string
	token   string
}

func New(baseURL string) *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: 90 * time.Second},
		BaseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (c *Client) SetToken(tok string) { c.token = tok }

type Token struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
	Role        string `json:"role"`
}

// Login authenticates as the admin and keeps the token for later calls.
func (c *Client) Login(ctx context.Context, user, pass string) (Token, error) {
	var tok Token
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", map[string]string{"username": user, "password": pass}, &tok)
	if err == nil {
		c.token = tok.AccessToken
	}
	return tok, err
}

// Guest obtains a player token and keeps it for later calls.
func (c *Client) Guest(ctx context.Context) (Token, error) {
	var tok Token
	err := c.doJSON(ctx, http.MethodPost, "/auth/guest", nil, &tok)
	if err == nil {
		c.token = tok.AccessToken
	}
	return tok, err
}

func (c *Client) ListQuizzes(ctx context.Context) ([]quiz.Summary, error) {
	var out []quiz.Summary
	return out, c.doJSON(ctx, http.MethodGet, "/quizzes", nil, &out)
}

func (c *Client) GetQuiz(ctx context.Context, id string) (quiz.Quiz, error) {
	var out quiz.Quiz
	return out, c.doJSON(ctx, http.MethodGet, "/quizzes/"+url.PathEscape(id), nil, &out)
}

func (c *Client) DeleteQuiz(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/quizzes/"+url.PathEscape(id), nil, nil)
}

func (c *Client) RecordAttempt(ctx context.Context, quizID string, a quiz.Attempt) error {
	return c.doJSON(ctx, http.MethodPost, "/quizzes/"+url.PathEscape(quizID)+"/attempts", a, nil)
}

func (c *Client) LatestAttempts(ctx context.Context) (map[string]quiz.Attempt, error) {
	out := map[string]quiz.Attempt{}
	return out, c.doJSON(ctx, http.MethodGet, "/attempts", nil, &out)
}

type created struct {
	Message string `json:"message"`
	QuizID  string `json:"quiz_id"`
}

// Upload sends a quiz file as multipart form data and returns the new id.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}
	var out created
	err = c.do(ctx, http.MethodPost, "/upload", &buf, mw.FormDataContentType(), &out)
	return out.QuizID, err
}

// UploadQuiz encodes q and uploads it.
func (c *Client) UploadQuiz(ctx context.Context, q quiz.Quiz) (string, error) {
	b, err := json.Marshal(q)
	if err != nil {
		return "", err
	}
	return c.Upload(ctx, "quiz.json", bytes.NewReader(b))
}

// Generate asks the server to write a quiz. The result is not saved.
func (c *Client) Generate(ctx context.Context, req generate.Request) (quiz.Quiz, error) {
	var out quiz.Quiz
	return out, c.doJSON(ctx, http.MethodPost, "/generate", req, &out)
}

func (c *Client) MockExam(ctx context.Context, numQuestions int) (string, error) {
	var out created
	err := c.doJSON(ctx, http.MethodPost, "/mock-exam", map[string]int{"numQuestions": numQuestions}, &out)
	return out.QuizID, err
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	ct := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body, ct = bytes.NewReader(b), "application/json"
	}
	return c.do(ctx, method, path, body, ct, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &StatusError{Code: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}
