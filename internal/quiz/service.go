// Package quiz is a thin resource service over the authenticated API client.
// It carries no business rules; the backend owns validation.
package quiz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"

	"github.com/quizdeck/quizdeck-go/internal/api"
)

type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// List fetches one page of quizzes. Filters with multiple values (for example
// several tags) go out as repeated query keys.
func (s *Service) List(ctx context.Context, params api.ListParams) ([]Quiz, *api.PageInfo, error) {
	var quizzes []Quiz
	info, err := s.client.GetPage(ctx, "/quizzes", params, &quizzes)
	if err != nil {
		return nil, nil, err
	}
	return quizzes, info, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Quiz, error) {
	var q Quiz
	if err := s.client.GetJSON(ctx, "/quizzes/"+id.String(), nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *Service) Create(ctx context.Context, input CreateQuizInput) (*Quiz, error) {
	var q Quiz
	if err := s.client.PostJSON(ctx, "/quizzes", input, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.Delete(ctx, "/quizzes/"+id.String())
}

// UploadDocument sends a source document as a multipart upload. The content
// type comes from the multipart writer so the boundary stays intact, and the
// upload wait budget applies.
func (s *Service) UploadDocument(ctx context.Context, filename string, r io.Reader) (*Document, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	resp, err := s.client.Do(ctx, api.Request{
		Method:      http.MethodPost,
		Path:        "/documents",
		Body:        buf.Bytes(),
		ContentType: w.FormDataContentType(),
		Multipart:   true,
	})
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(resp.Body, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return &doc, nil
}

// Generate asks the backend to build a quiz from an uploaded document. The
// call blocks server-side until generation finishes, so the long-running wait
// budget applies.
func (s *Service) Generate(ctx context.Context, documentID uuid.UUID, opts GenerateOptions) (*Quiz, error) {
	body, err := json.Marshal(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generate options: %w", err)
	}
	resp, err := s.client.Do(ctx, api.Request{
		Method:      http.MethodPost,
		Path:        "/documents/" + documentID.String() + "/generate",
		Body:        body,
		LongRunning: true,
	})
	if err != nil {
		return nil, err
	}
	var q Quiz
	if err := json.Unmarshal(resp.Body, &q); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quiz: %w", err)
	}
	return &q, nil
}
