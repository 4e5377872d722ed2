package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bliq/internal/ledger"
	"bliq/internal/logger"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-2.0-flash"
)

// GeminiAdvisor asks the Gemini generateContent API for a short commentary
// on a month of transactions.
type GeminiAdvisor struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	retry      RetryConfig
}

// GeminiOption customizes a GeminiAdvisor.
type GeminiOption func(*GeminiAdvisor)

// WithBaseURL points the advisor at another API root, e.g. a test server.
func WithBaseURL(baseURL string) GeminiOption {
	return func(a *GeminiAdvisor) {
		if baseURL != "" {
			a.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithModel selects the Gemini model.
func WithModel(model string) GeminiOption {
	return func(a *GeminiAdvisor) {
		if model != "" {
			a.model = model
		}
	}
}

// WithRetryConfig replaces DefaultRetryConfig.
func WithRetryConfig(cfg RetryConfig) GeminiOption {
	return func(a *GeminiAdvisor) { a.retry = cfg }
}

// WithTimeout bounds every HTTP attempt.
func WithTimeout(timeout time.Duration) GeminiOption {
	return func(a *GeminiAdvisor) {
		if timeout > 0 {
			a.httpClient.Timeout = timeout
		}
	}
}

// NewGeminiAdvisor creates an advisor for the given API key.
func NewGeminiAdvisor(apiKey string, opts ...GeminiOption) *GeminiAdvisor {
	a := &GeminiAdvisor{
		apiKey:     apiKey,
		model:      defaultGeminiModel,
		baseURL:    defaultGeminiBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retry:      DefaultRetryConfig,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// transactionForPrompt is the compact transaction shape sent to the model.
type transactionForPrompt struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Type        string `json:"type"`
	Status      string `json:"status"`
}

// Advise implements Advisor.
func (a *GeminiAdvisor) Advise(ctx context.Context, month ledger.Month, txs []ledger.Transaction) (string, error) {
	if a.apiKey == "" {
		return "", fmt.Errorf("Gemini API key not configured")
	}

	prompt, err := buildPrompt(month, txs)
	if err != nil {
		return "", err
	}

	text, err := WithRetry(ctx, a.retry, func(ctx context.Context) (string, error) {
		return a.callGemini(ctx, prompt)
	})
	if err != nil {
		logger.Get().Warnw("gemini advice failed", "month", month.String(), "error", err)
		return "", err
	}
	return text, nil
}

func buildPrompt(month ledger.Month, txs []ledger.Transaction) (string, error) {
	list := make([]transactionForPrompt, 0, len(txs))
	for _, tx := range txs {
		list = append(list, transactionForPrompt{
			Description: tx.Description,
			Amount:      tx.Amount.StringFixed(2),
			Date:        tx.Date.String(),
			Category:    tx.Category,
			Type:        string(tx.Type),
			Status:      string(tx.Status),
		})
	}

	txJSON, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("marshal transactions: %w", err)
	}

	return fmt.Sprintf(`Você é um consultor financeiro pessoal. Analise as transações do mês de %s.
Transações PENDING ainda não foram pagas ou recebidas; CONFIRMED já foram.

Responda em português, em no máximo três parágrafos curtos separados por quebras de linha:
um resumo do mês, os principais pontos de atenção e uma recomendação prática.
Não use markdown.

Transações:
%s`, month.String(), string(txJSON)), nil
}

// callGemini performs one generateContent request.
func (a *GeminiAdvisor) callGemini(ctx context.Context, prompt string) (string, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", a.baseURL, a.model, url.QueryEscape(a.apiKey))

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     0.4,
			"maxOutputTokens": 1024,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", permanent(fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", permanent(ctx.Err())
		}
		return "", fmt.Errorf("Gemini API call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := fmt.Errorf("Gemini API error %d: %s", resp.StatusCode, truncate(string(respBody), 200))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return "", apiErr
		}
		return "", permanent(apiErr)
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &geminiResp); err != nil {
		return "", permanent(fmt.Errorf("parse Gemini response: %w", err))
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", permanent(fmt.Errorf("empty Gemini response"))
	}

	var sb strings.Builder
	for _, part := range geminiResp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", permanent(fmt.Errorf("empty Gemini response"))
	}
	return text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
