package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authmw "github.com/mind-engage/quizforge/internal/auth/middleware"
	"github.com/mind-engage/quizforge/internal/catalog"
	"github.com/mind-engage/quizforge/internal/generate"
	"github.com/mind-engage/quizforge/internal/quiz"
	"github.com/mind-engage/quizforge/internal/storage"
	syncx "github.com/mind-engage/quizforge/internal/sync"
)

const uploadJSON = `{
  "name": "Capitals",
  "description": "Europe",
  "questions": [
    {"type": "MultipleChoice", "question": "Capital of France?", "correctAnswer": "Paris",
     "multiChoiceOptions": ["Paris", "Rome", "Madrid", "Berlin"]},
    {"type": "MultipleChoice", "question": "Capital of Italy?", "correctAnswer": "Rome",
     "options": ["Paris", "Rome", "Madrid", "Berlin"]},
    {"type": "TrueFalse", "question": "Berlin is in Spain", "correctAnswer": "False"}
  ]
}`

type events struct {
	mu  sync.Mutex
	got []syncx.Event
}

func (e *events) Append(_ context.Context, ev syncx.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.got = append(e.got, ev)
	return nil
}

func (e *events) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []string
	for _, ev := range e.got {
		out = append(out, ev.Type)
	}
	return out
}

func (e *events) Since(_ context.Context, seq int64, limit int) ([]syncx.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []syncx.Event
	for i, ev := range e.got {
		ev.Seq = int64(i + 1)
		if ev.Seq > seq && len(out) < limit {
			out = append(out, ev)
		}
	}
	return out, nil
}

type fakeGen struct{ q quiz.Quiz }

func (f fakeGen) Generate(_ context.Context, req generate.Request) (quiz.Quiz, error) {
	return f.q, nil
}

type fakeJobs struct {
	mu   sync.Mutex
	reqs []generate.Request
}

func (f *fakeJobs) EnqueueGenerate(_ context.Context, req generate.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return "task-1", nil
}

type env struct {
	srv    *httptest.Server
	store  quiz.Store
	blobs  *storage.FSStore
	events *events
	jobs   *fakeJobs
	player string
	admin  string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	bs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	authSvc := authmw.NewAuthService("test")
	e := &env{store: quiz.NewMemoryStore(), blobs: bs, events: &events{}, jobs: &fakeJobs{}}
	e.srv = httptest.NewServer(NewRouter(Deps{
		Store:        e.store,
		Blobs:        bs,
		Events:       e.events,
		Gen:          fakeGen{q: quiz.Quiz{Name: "Generated"}},
		Jobs:         e.jobs,
		Feed:         e.events,
		Auth:         authSvc,
		GuestAuth:    true,
		MockExamSize: 3,
	}))
	t.Cleanup(e.srv.Close)

	e.player, err = authSvc.IssueJWT("guest|p", authmw.RolePlayer)
	require.NoError(t, err)
	e.admin, err = authSvc.IssueJWT("admin", authmw.RoleAdmin)
	require.NoError(t, err)
	return e
}

func (e *env) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, e.srv.URL+path, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func (e *env) upload(t *testing.T, token, content string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "quiz.json")
	require.NoError(t, err)
	_, _ = fw.Write([]byte(content))
	require.NoError(t, mw.Close())
	return e.do(t, http.MethodPost, "/upload", token, &buf, mw.FormDataContentType())
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&v))
	return v
}

func TestUploadGetAndArchive(t *testing.T) {
	e := newEnv(t)

	res := e.upload(t, e.player, uploadJSON)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	created := decode[CreatedResponse](t, res)
	require.NotEmpty(t, created.QuizID)

	res = e.do(t, http.MethodGet, "/quizzes/"+created.QuizID, e.player, nil, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	q := decode[quiz.Quiz](t, res)
	assert.Equal(t, "Capitals", q.Name)
	require.Len(t, q.Questions, 2, "true/false question dropped")
	assert.Equal(t, "Capital of France?", q.Questions[0].Question, "server order is canonical")

	rc, err := e.blobs.Get(storage.UploadKey(created.QuizID))
	require.NoError(t, err)
	raw, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, uploadJSON, string(raw))
	assert.Equal(t, []string{syncx.EventQuizCreated}, e.events.types())
}

func TestUploadRejectsInvalidQuiz(t *testing.T) {
	e := newEnv(t)
	bad := []string{
		`not json`,
		`{"name":"","questions":[]}`,
		`{"name":"x","questions":[{"question":"q","correctAnswer":"z","options":["a","b","c","d"]}]}`,
		`{"name":"x","questions":[{"question":"q","correctAnswer":"a","options":["a","b"]}]}`,
	}
	for _, b := range bad {
		res := e.upload(t, e.player, b)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode, b)
	}

	res := e.do(t, http.MethodPost, "/upload", e.player, strings.NewReader("{}"), "application/json")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestAuthAndRoles(t *testing.T) {
	e := newEnv(t)

	res := e.do(t, http.MethodGet, "/quizzes", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	created := decode[CreatedResponse](t, e.upload(t, e.player, uploadJSON))

	res = e.do(t, http.MethodDelete, "/quizzes/"+created.QuizID, e.player, nil, "")
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res = e.do(t, http.MethodDelete, "/quizzes/"+created.QuizID, e.admin, nil, "")
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res = e.do(t, http.MethodDelete, "/quizzes/"+created.QuizID, e.admin, nil, "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	_, err := e.blobs.Get(storage.UploadKey(created.QuizID))
	assert.Error(t, err, "archived upload removed with the quiz")

	res = e.do(t, http.MethodPost, "/auth/guest", "", nil, "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestAttemptsAndCatalog(t *testing.T) {
	e := newEnv(t)
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, decode[CreatedResponse](t, e.upload(t, e.player, uploadJSON)).QuizID)
	}

	post := func(id, body string) int {
		return e.do(t, http.MethodPost, "/quizzes/"+id+"/attempts", e.player, strings.NewReader(body), "application/json").StatusCode
	}
	assert.Equal(t, http.StatusCreated, post(ids[0], `{"score":1,"total":2}`))
	assert.Equal(t, http.StatusCreated, post(ids[0], `{"score":2,"total":2}`))
	assert.Equal(t, http.StatusBadRequest, post(ids[0], `{"score":1}`))
	assert.Equal(t, http.StatusBadRequest, post(ids[0], `{"score":3,"total":2}`))
	assert.Equal(t, http.StatusBadRequest, post(ids[0], `{"score":-1,"total":2}`))
	assert.Equal(t, http.StatusNotFound, post("missing", `{"score":0,"total":2}`))

	latest := decode[map[string]quiz.Attempt](t, e.do(t, http.MethodGet, "/attempts", e.player, nil, ""))
	assert.Equal(t, map[string]quiz.Attempt{ids[0]: {Score: 2, Total: 2}}, latest)

	list := decode[[]quiz.Summary](t, e.do(t, http.MethodGet, "/quizzes", e.player, nil, ""))
	require.Len(t, list, 5)
	require.NotNil(t, list[0].LastAttempt)
	assert.Equal(t, 2, list[0].LastAttempt.Score)
	assert.Nil(t, list[1].LastAttempt)

	page := decode[catalog.Page](t, e.do(t, http.MethodGet, "/quizzes?page=9", e.player, nil, ""))
	assert.Equal(t, 2, page.Number, "page clamps to the last page")
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, ids[4], page.Items[0].ID)

	assert.Equal(t, []string{
		syncx.EventQuizCreated, syncx.EventQuizCreated, syncx.EventQuizCreated, syncx.EventQuizCreated, syncx.EventQuizCreated,
		syncx.EventAttemptRecorded, syncx.EventAttemptRecorded,
	}, e.events.types())
}

func TestMockExam(t *testing.T) {
	e := newEnv(t)

	res := e.do(t, http.MethodPost, "/mock-exam", e.player, nil, "")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "no questions stored yet")

	for i := 0; i < 2; i++ {
		e.upload(t, e.player, uploadJSON)
	}

	res = e.do(t, http.MethodPost, "/mock-exam", e.player, nil, "")
	require.Equal(t, http.StatusCreated, res.StatusCode)
	mock, err := e.store.GetQuiz(context.Background(), decode[CreatedResponse](t, res).QuizID)
	require.NoError(t, err)
	assert.Equal(t, "Mock Exam", mock.Name)
	assert.Equal(t, "Randomized mock exam from all topics", mock.Description)
	assert.Len(t, mock.Questions, 3, "default size")

	res = e.do(t, http.MethodPost, "/mock-exam", e.player, strings.NewReader(`{"numQuestions":100}`), "application/json")
	require.Equal(t, http.StatusCreated, res.StatusCode)
	mock, err = e.store.GetQuiz(context.Background(), decode[CreatedResponse](t, res).QuizID)
	require.NoError(t, err)
	// 4 uploaded questions plus the 3 from the first mock exam
	assert.Len(t, mock.Questions, 7)
}

func TestGenerate(t *testing.T) {
	e := newEnv(t)

	res := e.do(t, http.MethodPost, "/generate", e.player, strings.NewReader(`{"context":"  "}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = e.do(t, http.MethodPost, "/generate", e.player, strings.NewReader(`{"context":"go"}`), "application/json")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Generated", decode[quiz.Quiz](t, res).Name)

	list, err := e.store.ListQuizzes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list, "synchronous generation does not save")

	res = e.do(t, http.MethodPost, "/generate?async=1", e.player, strings.NewReader(`{"context":"go","numQuestions":80}`), "application/json")
	require.Equal(t, http.StatusAccepted, res.StatusCode)
	assert.Equal(t, "task-1", decode[QueuedResponse](t, res).TaskID)
	require.Len(t, e.jobs.reqs, 1)
	assert.Equal(t, generate.MaxQuestions, e.jobs.reqs[0].NumQuestions)
}

func TestHealth(t *testing.T) {
	e := newEnv(t)
	for _, p := range []string{"/healthz", "/readyz"} {
		res := e.do(t, http.MethodGet, p, "", nil, "")
		assert.Equal(t, http.StatusOK, res.StatusCode, p)
	}
}

func TestQuizSource(t *testing.T) {
	e := newEnv(t)
	id := decode[CreatedResponse](t, e.upload(t, e.player, uploadJSON)).QuizID

	res := e.do(t, http.MethodGet, "/quizzes/"+id+"/source", e.player, nil, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, uploadJSON, string(raw))

	res = e.do(t, http.MethodGet, "/quizzes/missing/source", e.player, nil, "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestQuizSourceRejectsTraversal(t *testing.T) {
	e := newEnv(t)
	h := QuizSourceHandler(e.blobs)
	for _, id := range []string{"..", "../../etc/passwd", ""} {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("quizID", id)
		req := httptest.NewRequest(http.MethodGet, "/quizzes/x/source", nil)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code, "id %q", id)
	}
}

func TestAdminEvents(t *testing.T) {
	e := newEnv(t)
	e.upload(t, e.player, uploadJSON)
	e.upload(t, e.player, uploadJSON)

	res := e.do(t, http.MethodGet, "/admin/events", e.player, nil, "")
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res = e.do(t, http.MethodGet, "/admin/events?since=1", e.admin, nil, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	list := decode[[]syncx.Event](t, res)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].Seq)
	assert.Equal(t, syncx.EventQuizCreated, list[0].Type)
}

func TestAttemptRecordsPlayer(t *testing.T) {
	e := newEnv(t)
	id := decode[CreatedResponse](t, e.upload(t, e.player, uploadJSON)).QuizID

	res := e.do(t, http.MethodPost, "/quizzes/"+id+"/attempts", e.player, strings.NewReader(`{"score":1,"total":2}`), "application/json")
	require.Equal(t, http.StatusCreated, res.StatusCode)
	rec := decode[quiz.AttemptRecord](t, res)
	assert.Equal(t, "guest|p", rec.PlayerID)
	assert.Equal(t, id, rec.QuizID)

	e.events.mu.Lock()
	last := e.events.got[len(e.events.got)-1]
	e.events.mu.Unlock()
	assert.Equal(t, syncx.EventAttemptRecorded, last.Type)
	var data quiz.AttemptRecord
	require.NoError(t, json.Unmarshal([]byte(last.DataJSON), &data))
	assert.Equal(t, "guest|p", data.PlayerID)
}
