// Package render submits bound HTML to the DocRaptor document-generation
// API and returns the produced PDF bytes. Rendering happens entirely in the
// external service; this client only moves bytes.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
)

const (
	defaultBaseURL = "https://api.docraptor.com"
	defaultTimeout = 60 * time.Second
)

// Options configures the DocRaptor client.
type Options struct {
	APIKey         string
	BaseURL        string
	TestMode       bool
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client renders HTML documents to PDF via the remote service.
type Client struct {
	apiKey     string
	baseURL    string
	testMode   bool
	httpClient *http.Client
	logger     *infra.Logger
}

type createDocRequest struct {
	Test            bool   `json:"test"`
	DocumentContent string `json:"document_content"`
	Name            string `json:"name"`
	DocumentType    string `json:"document_type"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		testMode:   opts.TestMode,
		httpClient: httpClient,
		logger:     logger,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// RenderPDF submits the HTML document and returns the PDF bytes. The
// filename labels the document in the remote dashboard only.
func (c *Client) RenderPDF(ctx context.Context, markup, filename string) ([]byte, error) {
	if !c.HasCredentials() {
		return nil, fmt.Errorf("%w: rendering unavailable, render API key is missing", domain.ErrRender)
	}
	if strings.TrimSpace(markup) == "" {
		return nil, fmt.Errorf("%w: empty document markup", domain.ErrRender)
	}
	payload := createDocRequest{
		Test:            c.testMode,
		DocumentContent: markup,
		Name:            filename,
		DocumentType:    "pdf",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", domain.ErrRender, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/docs", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrRender, err)
	}
	req.Header.Set("Content-Type", "application/json")
	// DocRaptor authenticates with the API key as the basic-auth username.
	req.SetBasicAuth(c.apiKey, "")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRender, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrRender, err)
	}
	if resp.StatusCode >= 300 {
		detail := strings.TrimSpace(string(raw))
		if len(detail) > 512 {
			detail = detail[:512]
		}
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrRender, resp.StatusCode, detail)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty document returned", domain.ErrRender)
	}
	c.logger.Debug().
		Str("name", filename).
		Int("bytes", len(raw)).
		Dur("took", time.Since(started)).
		Bool("test", c.testMode).
		Msg("document rendered")
	return raw, nil
}
