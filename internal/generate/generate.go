// Package generate asks an OpenAI-compatible chat model to write a quiz from
// free-form context text.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mind-engage/quizforge/internal/quiz"
)

const (
	DefaultQuestions = 5
	MaxQuestions     = 50
)

var (
	ErrNoContent     = errors.New("context is required")
	ErrEmptyResponse = errors.New("model returned no choices")
	ErrNotConfigured = errors.New("generation is not configured")
)

type Request struct {
	Context      string `json:"context"`
	NumQuestions int    `json:"numQuestions,omitempty"`
}

// Normalize trims the context and applies the question count defaults.
func (r Request) Normalize() (Request, error) {
	r.Context = strings.TrimSpace(r.Context)
	if r.Context == "" {
		return r, ErrNoContent
	}
	if r.NumQuestions <= 0 {
		r.NumQuestions = DefaultQuestions
	}
	if r.NumQuestions > MaxQuestions {
		r.NumQuestions = MaxQuestions
	}
	return r, nil
}

type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	Referer string
	Title   string
	Timeout time.Duration
}

// Service is implemented by Generator and by test doubles.
type Service interface {
	Generate(ctx context.Context, req Request) (quiz.Quiz, error)
}

type Generator struct {
	client *openai.Client
	model  string
}

func New(o Options) (*Generator, error) {
	if o.APIKey == "" {
		return nil, ErrNotConfigured
	}
	cfg := openai.DefaultConfig(o.APIKey)
	if o.BaseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(o.BaseURL, "/")
	}
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	cfg.HTTPClient = &http.Client{
		Timeout:   o.Timeout,
		Transport: headerTransport{referer: o.Referer, title: o.Title, next: http.DefaultTransport},
	}
	return &Generator{client: openai.NewClientWithConfig(cfg), model: o.Model}, nil
}

// Generate returns a validated quiz. The quiz is not saved.
func (g *Generator) Generate(ctx context.Context, req Request) (quiz.Quiz, error) {
	req, err := req.Normalize()
	if err != nil {
		return quiz.Quiz{}, err
	}
	log.Printf("generate: %d questions with %s", req.NumQuestions, g.model)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildPrompt(req)},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return quiz.Quiz{}, fmt.Errorf("generate quiz: %w", err)
	}
	if len(resp.Choices) == 0 {
		return quiz.Quiz{}, ErrEmptyResponse
	}
	return Parse(resp.Choices[0].Message.Content)
}

// Parse decodes a model reply into a playable quiz.
func Parse(raw string) (quiz.Quiz, error) {
	var q quiz.Quiz
	if err := json.Unmarshal([]byte(stripFences(raw)), &q); err != nil {
		return quiz.Quiz{}, fmt.Errorf("%w: model reply is not a quiz: %v", quiz.ErrMalformedQuiz, err)
	}
	q.ID = ""
	q = quiz.Normalize(q)
	if err := quiz.Validate(q); err != nil {
		return quiz.Quiz{}, err
	}
	return q, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func buildPrompt(req Request) string {
	var sb strings.Builder
	sb.WriteString("You are generating a JSON quiz object in English for a quiz app. The quiz object must have:\n\n")
	sb.WriteString("- \"name\" (string): The title of the quiz, based on the context.\n")
	sb.WriteString("- \"description\" (string): A brief summary of the quiz topic.\n")
	sb.WriteString(fmt.Sprintf("- \"questions\" (array): exactly %d multiple-choice questions.\n\n", req.NumQuestions))
	sb.WriteString("Each question must have the following fields:\n\n")
	sb.WriteString("- \"type\": always \"MultipleChoice\".\n")
	sb.WriteString("- \"question\": a clear and concise question based on the context.\n")
	sb.WriteString("- \"correctAnswer\": the correct answer string.\n")
	sb.WriteString(fmt.Sprintf("- \"multiChoiceOptions\": an array of exactly %d answer choices including the correct answer.\n\n", quiz.OptionsPerQuestion))
	sb.WriteString("Context:\n")
	sb.WriteString(req.Context)
	sb.WriteString("\n\nKeep questions and answers in English and relevant to the context. ")
	sb.WriteString("Output only the JSON object, with no explanation or metadata.\n")
	return sb.String()
}

// headerTransport adds the attribution headers OpenRouter asks for.
type headerTransport struct {
	referer, title string
	next           http.RoundTripper
}

func (t headerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	if t.referer != "" {
		r.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		r.Header.Set("X-Title", t.title)
	}
	return t.next.RoundTrip(r)
}
