// Package api implements the HTTP client for the CardWiz gateway and the
// resolution of its failure payloads into user-facing messages.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/cardwiz/cardwiz/internal/model"
)

// Client talks to the CardWiz gateway. A bearer credential is attached to
// every request; a 401 response invokes the configured unauthorized hook so
// the stored credential can be cleared.
type Client struct {
	httpClient     *http.Client
	onUnauthorized func()
	baseURL        string
	token          string
}

// Config holds gateway client configuration.
type Config struct {
	// BaseURL is the gateway root, e.g. "https://cardwiz.example.com".
	BaseURL string
	// Token is the bearer credential attached to every request.
	Token string
	// OnUnauthorized is invoked once per 401 response. Optional.
	OnUnauthorized func()
	// HTTPClient overrides the default 30s-timeout client. Optional.
	HTTPClient *http.Client
}

// NewClient creates a gateway client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("gateway base URL is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:        cfg.BaseURL,
		token:          cfg.Token,
		onUnauthorized: cfg.OnUnauthorized,
		httpClient:     httpClient,
	}, nil
}

// GetRecommendation asks the backend for a best-card recommendation. The
// response body is returned raw because the backend answers in one of two
// schemas; normalization happens in the advisor package.
func (c *Client) GetRecommendation(ctx context.Context, req model.RecommendationRequest) (json.RawMessage, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recommendation request: %w", err)
	}
	return c.do(ctx, http.MethodPost, "/api/v1/cards/recommendations", "application/json", bytes.NewReader(body))
}

// ListHistory fetches the persisted conversation history, oldest first.
func (c *Client) ListHistory(ctx context.Context) ([]model.ConversationMessage, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/v1/advisor/history", "", nil)
	if err != nil {
		return nil, err
	}
	var messages []model.ConversationMessage
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}
	return messages, nil
}

// AppendHistory persists one conversation message.
func (c *Client) AppendHistory(ctx context.Context, msg model.ConversationMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	_, err = c.do(ctx, http.MethodPost, "/api/v1/advisor/history", "application/json", bytes.NewReader(body))
	return err
}

// ClearHistory deletes all persisted conversation messages.
func (c *Client) ClearHistory(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/advisor/history", "", nil)
	return err
}

// ListCards fetches the user's wallet.
func (c *Client) ListCards(ctx context.Context) ([]model.Card, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/v1/cards", "", nil)
	if err != nil {
		return nil, err
	}
	var cards []model.Card
	if err := json.Unmarshal(raw, &cards); err != nil {
		return nil, fmt.Errorf("failed to parse cards: %w", err)
	}
	return cards, nil
}

// AddCard registers a new card and returns the stored record.
func (c *Client) AddCard(ctx context.Context, card model.Card) (model.Card, error) {
	body, err := json.Marshal(card)
	if err != nil {
		return model.Card{}, fmt.Errorf("failed to marshal card: %w", err)
	}
	raw, err := c.do(ctx, http.MethodPost, "/api/v1/cards", "application/json", bytes.NewReader(body))
	if err != nil {
		return model.Card{}, err
	}
	var stored model.Card
	if err := json.Unmarshal(raw, &stored); err != nil {
		return model.Card{}, fmt.Errorf("failed to parse card: %w", err)
	}
	return stored, nil
}

// KnowledgeCoverage reports which cards have indexed reward-rule documents.
// The gateway keys the map by stringified card ID.
func (c *Client) KnowledgeCoverage(ctx context.Context) (model.KnowledgeCoverage, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/v1/cards/knowledge-coverage", "", nil)
	if err != nil {
		return nil, err
	}
	var byKey map[string]bool
	if err := json.Unmarshal(raw, &byKey); err != nil {
		return nil, fmt.Errorf("failed to parse coverage: %w", err)
	}
	coverage := make(model.KnowledgeCoverage, len(byKey))
	for key, covered := range byKey {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		coverage[id] = covered
	}
	return coverage, nil
}

// ListValidations fetches the user's validated transactions, most recent
// first, for context-digest construction.
func (c *Client) ListValidations(ctx context.Context) ([]model.Validation, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/v1/transactions", "", nil)
	if err != nil {
		return nil, err
	}
	var validations []model.Validation
	if err := json.Unmarshal(raw, &validations); err != nil {
		return nil, fmt.Errorf("failed to parse validations: %w", err)
	}
	return validations, nil
}

// AnalyzeResponse is the synchronous part of a document submission.
type AnalyzeResponse struct {
	DocumentID     string                `json:"documentId"`
	AISummary      string                `json:"aiSummary"`
	ExtractedRules []model.ExtractedRule `json:"extractedRules"`
}

// analyzeEnvelope tolerates the two places the gateway has put the summary.
type analyzeEnvelope struct {
	Analysis *struct {
		AISummary      string                `json:"aiSummary"`
		ExtractedRules []model.ExtractedRule `json:"extractedRules"`
	} `json:"analysis"`
	DocumentID json.Number `json:"documentId"`
	AISummary  string      `json:"aiSummary"`
}

// AnalyzeDocument submits a statement or brochure for asynchronous
// analysis. cardID scopes the document to one card; pass 0 for a
// wallet-level statement.
func (c *Client) AnalyzeDocument(ctx context.Context, cardID int64, fileName string, file io.Reader, docType model.DocumentType) (AnalyzeResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return AnalyzeResponse{}, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return AnalyzeResponse{}, fmt.Errorf("failed to read upload file: %w", err)
	}
	if err := writer.WriteField("documentType", string(docType)); err != nil {
		return AnalyzeResponse{}, fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return AnalyzeResponse{}, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	path := "/api/v1/cards/documents/analyze"
	if cardID != 0 {
		path = fmt.Sprintf("/api/v1/cards/%d/documents/analyze", cardID)
	}
	raw, err := c.do(ctx, http.MethodPost, path, writer.FormDataContentType(), &buf)
	if err != nil {
		return AnalyzeResponse{}, err
	}

	var envelope analyzeEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return AnalyzeResponse{}, fmt.Errorf("failed to parse analysis response: %w", err)
	}
	resp := AnalyzeResponse{
		DocumentID: envelope.DocumentID.String(),
		AISummary:  envelope.AISummary,
	}
	if envelope.Analysis != nil {
		if envelope.Analysis.AISummary != "" {
			resp.AISummary = envelope.Analysis.AISummary
		}
		resp.ExtractedRules = envelope.Analysis.ExtractedRules
	}
	return resp, nil
}

// DocumentStatus queries the analysis job state for a submitted document.
func (c *Client) DocumentStatus(ctx context.Context, documentID string) (model.DocumentJob, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/v1/cards/documents/"+documentID+"/status", "", nil)
	if err != nil {
		return model.DocumentJob{}, err
	}
	var job model.DocumentJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return model.DocumentJob{}, fmt.Errorf("failed to parse job status: %w", err)
	}
	return job, nil
}

// MissedSavingsRequest asks for a missed-savings analysis of an already
// analyzed statement.
type MissedSavingsRequest struct {
	StatementKey      string  `json:"statementS3Key"`
	Currency          string  `json:"currency,omitempty"`
	ContextNotes      string  `json:"contextNotes,omitempty"`
	ActualCardID      int64   `json:"actualCardId,omitempty"`
	AvailableCardIDs  []int64 `json:"availableCardIds,omitempty"`
	LimitTransactions int     `json:"limitTransactions,omitempty"`
}

// MissedSavings runs the missed-savings analysis for a statement.
func (c *Client) MissedSavings(ctx context.Context, req MissedSavingsRequest) (model.MissedSavingsReport, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return model.MissedSavingsReport{}, fmt.Errorf("failed to marshal request: %w", err)
	}
	raw, err := c.do(ctx, http.MethodPost, "/api/v1/advisor/statements/missed-savings", "application/json", bytes.NewReader(body))
	if err != nil {
		return model.MissedSavingsReport{}, err
	}
	var report model.MissedSavingsReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return model.MissedSavingsReport{}, fmt.Errorf("failed to parse report: %w", err)
	}
	return report, nil
}

// do executes one request and returns the response body, converting any
// non-2xx status into an *Error that keeps the body and Retry-After header.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		slog.Debug("gateway request failed",
			"method", method,
			"path", path,
			"status", resp.StatusCode)
		return nil, &Error{
			StatusCode: resp.StatusCode,
			RetryAfter: resp.Header.Get("Retry-After"),
			Body:       respBody,
		}
	}

	return respBody, nil
}
