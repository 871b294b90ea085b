// Package aicontent talks to the Perplexity chat-completions API and turns
// its JSON replies into domain content documents. The API is OpenAI
// compatible, so the client rides on go-openai with a swapped base URL.
package aicontent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"server/internal/domain"
	"server/internal/infra"
)

const (
	defaultBaseURL        = "https://api.perplexity.ai"
	defaultAttemptTimeout = 20 * time.Second
	defaultMaxRetries     = 2

	contentMaxTokens = 4000
	sloganMaxTokens  = 30
)

// The primary model is tried first; timeouts walk down to the cheaper one
// for the final attempt.
var defaultModels = []string{"sonar-pro", "sonar"}

// Options configures the Perplexity client.
type Options struct {
	APIKey         string
	BaseURL        string
	Models         []string
	AttemptTimeout time.Duration
	MaxRetries     int
	HTTPClient     *http.Client
	Logger         *infra.Logger
}

// Client generates lead-magnet content documents and slogans.
type Client struct {
	api            *openai.Client
	apiKey         string
	models         []string
	attemptTimeout time.Duration
	maxRetries     int
	logger         *infra.Logger
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	apiKey := strings.TrimSpace(opts.APIKey)
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}
	models := opts.Models
	if len(models) == 0 {
		models = defaultModels
	}
	attemptTimeout := opts.AttemptTimeout
	if attemptTimeout <= 0 {
		attemptTimeout = defaultAttemptTimeout
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
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
		api:            openai.NewClientWithConfig(cfg),
		apiKey:         apiKey,
		models:         models,
		attemptTimeout: attemptTimeout,
		maxRetries:     maxRetries,
		logger:         logger,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// GenerateContent asks the model for a complete content document built from
// the firm facts and the user's answers. Timeouts retry down the model
// ladder; any other upstream failure is returned immediately.
func (c *Client) GenerateContent(ctx context.Context, facts domain.FirmFacts, answers domain.GenerationRequest) (*domain.ContentDocument, error) {
	if !c.HasCredentials() {
		return nil, fmt.Errorf("%w: content API key is missing", domain.ErrConfiguration)
	}
	req := openai.ChatCompletionRequest{
		MaxTokens:   contentMaxTokens,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an expert content creator specializing in professional lead magnets. Generate comprehensive, valuable content in strict JSON format. Your response must be valid JSON only, no other text.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildContentPrompt(facts, answers),
			},
		},
	}
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req.Model = c.modelForAttempt(attempt)
		raw, err := c.complete(ctx, req)
		if err == nil {
			return decodeContentPayload(raw)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
		}
		c.logger.Warn().
			Str("model", req.Model).
			Int("attempt", attempt+1).
			Dur("timeout", c.attemptTimeout).
			Msg("content generation attempt timed out")
	}
	return nil, fmt.Errorf("%w: %d attempts of %s each", domain.ErrUpstreamTimeout, c.maxRetries+1, c.attemptTimeout)
}

// GenerateSlogan produces a short tagline for the firm. No retry ladder: a
// slogan is cheap to re-request and the caller treats failure as soft.
func (c *Client) GenerateSlogan(ctx context.Context, facts domain.FirmFacts, answers domain.GenerationRequest) (string, error) {
	if !c.HasCredentials() {
		return "", fmt.Errorf("%w: content API key is missing", domain.ErrConfiguration)
	}
	req := openai.ChatCompletionRequest{
		Model:     c.models[len(c.models)-1],
		MaxTokens: sloganMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildSloganPrompt(facts, answers)},
		},
	}
	raw, err := c.complete(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if isTimeout(err) {
			return "", fmt.Errorf("%w: slogan request exceeded %s", domain.ErrUpstreamTimeout, c.attemptTimeout)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	slogan := strings.Trim(strings.TrimSpace(raw), `"`)
	if slogan == "" {
		return "", &domain.MalformedResponseError{Raw: raw, Reason: errors.New("empty slogan")}
	}
	return slogan, nil
}

func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	actx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()
	resp, err := c.api.CreateChatCompletion(actx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", &domain.MalformedResponseError{Reason: errors.New("response carried no choices")}
	}
	return resp.Choices[0].Message.Content, nil
}

// modelForAttempt keeps the primary model for every retry except the last,
// which drops to the end of the ladder.
func (c *Client) modelForAttempt(attempt int) string {
	if attempt >= c.maxRetries {
		return c.models[len(c.models)-1]
	}
	return c.models[0]
}

func decodeContentPayload(raw string) (*domain.ContentDocument, error) {
	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return nil, &domain.MalformedResponseError{Raw: raw, Reason: errors.New("empty payload")}
	}
	if err := validatePayloadShape(cleaned); err != nil {
		return nil, &domain.MalformedResponseError{Raw: raw, Reason: err}
	}
	var doc domain.ContentDocument
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, &domain.MalformedResponseError{Raw: raw, Reason: err}
	}
	return &doc, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
