// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/wyndholt/arcana/internal/models"
)

// MockService is a test double for [services.Service]
//
// Cards are returned as-is; StreamBody is replayed as the reading stream.
type MockService struct {
	Cards      []models.Card
	StreamBody string
	Err        error
}

func (m *MockService) ListCards(ctx context.Context) ([]models.Card, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Cards, nil
}

func (m *MockService) OpenReadingStream(ctx context.Context, req models.ReadingRequest) (io.ReadCloser, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return io.NopCloser(strings.NewReader(m.StreamBody)), nil
}

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// QueueRoundTripper replays responses in order and records each request,
// for endpoints that are hit more than once (e.g. paginated fetches).
type QueueRoundTripper struct {
	Responses []*http.Response
	Requests  []*http.Request
}

func (q *QueueRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	q.Requests = append(q.Requests, r)
	if len(q.Responses) == 0 {
		return nil, errors.New("no responses queued")
	}
	resp := q.Responses[0]
	q.Responses = q.Responses[1:]
	return resp, nil
}

// JSONResponse builds a 200 response with a JSON string body.
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
