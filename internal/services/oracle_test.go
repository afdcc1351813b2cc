package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wyndholt/arcana/internal/models"
	"github.com/wyndholt/arcana/internal/shared"
	arcanatest "github.com/wyndholt/arcana/internal/testing"
)

func newService(t *testing.T, rt http.RoundTripper, cfg shared.ServiceConfig, pageSize int) *OracleService {
	t.Helper()
	svc, err := NewOracleService(OracleOpts{
		Config:     cfg,
		HTTPClient: &http.Client{Transport: rt},
		PageSize:   pageSize,
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}

func TestOracleService(t *testing.T) {
	t.Run("ListCards", func(t *testing.T) {
		t.Run("Single Page", func(t *testing.T) {
			rt := &arcanatest.QueueRoundTripper{Responses: []*http.Response{
				arcanatest.JSONResponse(200, `{"cards":[{"id":1,"name":"The Fool","arcana":"major"}],"total":1}`),
			}}

			svc := newService(t, rt, shared.ServiceConfig{}, 40)
			cards, err := svc.ListCards(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(cards) != 1 || cards[0].Name != "The Fool" {
				t.Errorf("unexpected cards: %+v", cards)
			}
		})

		t.Run("Paginates Until Short Page", func(t *testing.T) {
			rt := &arcanatest.QueueRoundTripper{Responses: []*http.Response{
				arcanatest.JSONResponse(200, `{"cards":[{"id":1},{"id":2}],"total":3}`),
				arcanatest.JSONResponse(200, `{"cards":[{"id":3}],"total":3}`),
			}}

			svc := newService(t, rt, shared.ServiceConfig{}, 2)
			cards, err := svc.ListCards(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(cards) != 3 {
				t.Fatalf("expected 3 cards, got %d", len(cards))
			}
			if len(rt.Requests) != 2 {
				t.Fatalf("expected 2 page requests, got %d", len(rt.Requests))
			}
			if page := rt.Requests[1].URL.Query().Get("page"); page != "2" {
				t.Errorf("expected second request for page 2, got %q", page)
			}
		})

		t.Run("Empty Catalogue", func(t *testing.T) {
			rt := &arcanatest.QueueRoundTripper{Responses: []*http.Response{
				arcanatest.JSONResponse(200, `{"cards":[],"total":0}`),
			}}

			svc := newService(t, rt, shared.ServiceConfig{}, 40)
			if _, err := svc.ListCards(context.Background()); !errors.Is(err, shared.ErrDeckEmpty) {
				t.Fatalf("expected ErrDeckEmpty, got %v", err)
			}
		})

		t.Run("Transport Error", func(t *testing.T) {
			rt := arcanatest.NewMockRoundTripper(nil, errors.New("connection refused"))

			svc := newService(t, rt, shared.ServiceConfig{}, 40)
			if _, err := svc.ListCards(context.Background()); err == nil {
				t.Fatal("expected transport error to surface")
			}
		})

		t.Run("Non-Success Status", func(t *testing.T) {
			rt := &arcanatest.QueueRoundTripper{Responses: []*http.Response{
				arcanatest.JSONResponse(503, `{"detail":"down"}`),
			}}

			svc := newService(t, rt, shared.ServiceConfig{}, 40)
			if _, err := svc.ListCards(context.Background()); !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}
		})
	})

	t.Run("OpenReadingStream", func(t *testing.T) {
		t.Run("Returns Body On Success", func(t *testing.T) {
			rt := &arcanatest.QueueRoundTripper{Responses: []*http.Response{
				{
					StatusCode: 200,
					Header:     http.Header{"Content-Type": []string{"text/event-stream"}},
					Body:       io.NopCloser(strings.NewReader("event: started\ndata: {}\n")),
				},
			}}

			svc := newService(t, rt, shared.ServiceConfig{}, 40)
			body, err := svc.OpenReadingStream(context.Background(), models.ReadingRequest{Spread: "single"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			defer body.Close()

			req := rt.Requests[0]
			if req.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", req.Method)
			}
			if accept := req.Header.Get("Accept"); accept != "text/event-stream" {
				t.Errorf("expected event-stream accept header, got %q", accept)
			}
			if req.Header.Get("X-Request-ID") == "" {
				t.Error("expected a request id header")
			}

			data, _ := io.ReadAll(body)
			if !strings.Contains(string(data), "event: started") {
				t.Errorf("unexpected stream body: %s", data)
			}
		})

		t.Run("Non-Success Status Closes Body", func(t *testing.T) {
			rt := &arcanatest.QueueRoundTripper{Responses: []*http.Response{
				arcanatest.JSONResponse(401, `{"detail":"bad token"}`),
			}}

			svc := newService(t, rt, shared.ServiceConfig{}, 40)
			if _, err := svc.OpenReadingStream(context.Background(), models.ReadingRequest{}); !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Replays Captured Headers", func(t *testing.T) {
			dir := t.TempDir()
			curl := filepath.Join(dir, "session.sh")
			script := "curl 'http://localhost:8000/api/v1/readings/stream' \\\n" +
				"  -H 'X-Gateway-Session: abc123' \\\n" +
				"  -b 'sid=s3cret'\n"
			if err := os.WriteFile(curl, []byte(script), 0644); err != nil {
				t.Fatal(err)
			}

			rt := &arcanatest.QueueRoundTripper{Responses: []*http.Response{
				{
					StatusCode: 200,
					Header:     http.Header{},
					Body:       io.NopCloser(strings.NewReader("")),
				},
			}}

			svc := newService(t, rt, shared.ServiceConfig{HeadersPath: curl}, 40)
			body, err := svc.OpenReadingStream(context.Background(), models.ReadingRequest{})
			if err != nil {
				t.Fatal(err)
			}
			body.Close()

			req := rt.Requests[0]
			if got := req.Header.Get("X-Gateway-Session"); got != "abc123" {
				t.Errorf("expected captured header replayed, got %q", got)
			}
			if got := req.Header.Get("Cookie"); got != "sid=s3cret" {
				t.Errorf("expected captured cookie replayed, got %q", got)
			}
		})
	})

	t.Run("Defaults", func(t *testing.T) {
		svc, err := NewOracleService(OracleOpts{Config: shared.ServiceConfig{}})
		if err != nil {
			t.Fatal(err)
		}
		if svc.baseURL != defaultOracleBaseURL {
			t.Errorf("expected default base URL, got %q", svc.baseURL)
		}
		if svc.pageSize != defaultPageSize {
			t.Errorf("expected default page size, got %d", svc.pageSize)
		}
	})
}
