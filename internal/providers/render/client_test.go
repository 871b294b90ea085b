package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"server/internal/domain"
)

type roundTripFunc func(r *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestRenderPDFSendsDocumentEnvelope(t *testing.T) {
	var captured *http.Request
	var capturedBody []byte
	client := NewClient(Options{
		APIKey:   "key-123",
		TestMode: true,
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			captured = r
			capturedBody, _ = io.ReadAll(r.Body)
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString("%PDF-1.7 fake")),
			}, nil
		})},
	})
	pdf, err := client.RenderPDF(context.Background(), "<html><body>hi</body></html>", "guide.pdf")
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("pdf = %q", pdf)
	}
	user, _, ok := captured.BasicAuth()
	if !ok || user != "key-123" {
		t.Fatalf("basic auth user = %q ok=%v", user, ok)
	}
	if !strings.HasSuffix(captured.URL.Path, "/docs") {
		t.Fatalf("path = %q", captured.URL.Path)
	}
	var payload struct {
		Test            bool   `json:"test"`
		DocumentContent string `json:"document_content"`
		Name            string `json:"name"`
		DocumentType    string `json:"document_type"`
	}
	if err := json.Unmarshal(capturedBody, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if !payload.Test || payload.DocumentType != "pdf" || payload.Name != "guide.pdf" {
		t.Fatalf("payload = %+v", payload)
	}
	if !strings.Contains(payload.DocumentContent, "<body>hi</body>") {
		t.Fatalf("document_content = %q", payload.DocumentContent)
	}
}

func TestRenderPDFWithoutKeyFailsFast(t *testing.T) {
	calls := 0
	client := NewClient(Options{
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			calls++
			return nil, errors.New("should not be reached")
		})},
	})
	_, err := client.RenderPDF(context.Background(), "<html></html>", "guide.pdf")
	if !errors.Is(err, domain.ErrRender) {
		t.Fatalf("err = %v, want render error", err)
	}
	if !strings.Contains(err.Error(), "rendering unavailable") {
		t.Fatalf("err = %v, want unavailable message", err)
	}
	if calls != 0 {
		t.Fatalf("transport called %d times, want 0", calls)
	}
}

func TestRenderPDFSurfacesRemoteFailure(t *testing.T) {
	client := NewClient(Options{
		APIKey: "key-123",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusUnprocessableEntity,
				Body:       io.NopCloser(bytes.NewBufferString(`{"error":"invalid css"}`)),
			}, nil
		})},
	})
	_, err := client.RenderPDF(context.Background(), "<html></html>", "guide.pdf")
	if !errors.Is(err, domain.ErrRender) {
		t.Fatalf("err = %v, want render error", err)
	}
	if !strings.Contains(err.Error(), "422") {
		t.Fatalf("err = %v, want status in message", err)
	}
}
