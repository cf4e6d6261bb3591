package quiz

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizdeck/quizdeck-go/internal/api"
	"github.com/quizdeck/quizdeck-go/internal/credentials"
	"github.com/quizdeck/quizdeck-go/internal/session"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := credentials.NewMemoryStore()
	store.SetTokens("T1", "R1")
	client := api.New(api.Options{
		BaseURL: srv.URL,
		Store:   store,
		Logout:  session.NewBroadcaster(0, nil),
		Logger:  zerolog.Nop(),
	})
	return NewService(client)
}

func TestListSendsFiltersAsRepeatedKeys(t *testing.T) {
	quizID := uuid.New()
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quizzes", r.URL.Path)
		assert.Equal(t, []string{"go", "testing"}, r.URL.Query()["tag"])
		fmt.Fprintf(w, `{
			"items": [{"id": %q, "title": "Go basics", "questionCount": 10}],
			"page": 1, "perPage": 20, "totalItems": 1, "totalPages": 1
		}`, quizID)
	})

	quizzes, info, err := svc.List(context.Background(), api.ListParams{
		Page:    1,
		PerPage: 20,
		Filter:  url.Values{"tag": {"go", "testing"}},
	})
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	assert.Equal(t, quizID, quizzes[0].ID)
	assert.Equal(t, "Go basics", quizzes[0].Title)
	assert.Equal(t, 1, info.TotalItems)
}

func TestGet(t *testing.T) {
	quizID := uuid.New()
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quizzes/"+quizID.String(), r.URL.Path)
		fmt.Fprintf(w, `{"id": %q, "title": "Capitals"}`, quizID)
	})

	q, err := svc.Get(context.Background(), quizID)
	require.NoError(t, err)
	assert.Equal(t, "Capitals", q.Title)
}

func TestCreate(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"title": "New quiz", "tags": ["go"]}`, string(body))
		fmt.Fprintf(w, `{"id": %q, "title": "New quiz", "tags": ["go"]}`, uuid.New())
	})

	q, err := svc.Create(context.Background(), CreateQuizInput{Title: "New quiz", Tags: []string{"go"}})
	require.NoError(t, err)
	assert.Equal(t, "New quiz", q.Title)
}

func TestDelete(t *testing.T) {
	quizID := uuid.New()
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/quizzes/"+quizID.String(), r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, svc.Delete(context.Background(), quizID))
}

func TestUploadDocumentSendsMultipart(t *testing.T) {
	docID := uuid.New()
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents", r.URL.Path)
		assert.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data; boundary=")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "syllabus.pdf", header.Filename)
		content, _ := io.ReadAll(file)
		assert.Equal(t, "fake pdf bytes", string(content))

		fmt.Fprintf(w, `{"id": %q, "filename": "syllabus.pdf", "size": 14, "status": "processed"}`, docID)
	})

	doc, err := svc.UploadDocument(context.Background(), "syllabus.pdf", strings.NewReader("fake pdf bytes"))
	require.NoError(t, err)
	assert.Equal(t, docID, doc.ID)
	assert.Equal(t, "processed", doc.Status)
}

func TestGenerate(t *testing.T) {
	docID := uuid.New()
	quizID := uuid.New()
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, fmt.Sprintf("/documents/%s/generate", docID), r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"questionCount": 15}`, string(body))
		fmt.Fprintf(w, `{"id": %q, "title": "Generated quiz", "questionCount": 15}`, quizID)
	})

	q, err := svc.Generate(context.Background(), docID, GenerateOptions{QuestionCount: 15})
	require.NoError(t, err)
	assert.Equal(t, quizID, q.ID)
	assert.Equal(t, 15, q.QuestionCount)
}
