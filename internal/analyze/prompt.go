// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/audit-miner/internal/httputil"
)

// analysisPrompt is the fixed system instruction sent with every document.
// The sentinel values here must stay in sync with pkg/types.
const analysisPrompt = `You are an IR analyst. I will provide you the content of an IR file. Your task is:

1. Identify the following details from the IR file:
   - State = Name of the Indian state (return 'Unknown' if not found).
   - Location = Clean town/city/taluka name (avoid full addresses, return 'Unknown' if not found).
   - Department = Only one overall department, always ending with 'Department' (return 'Unknown Department' if not found).
   - Audit Conducted Year = The **Date of Audit** (must be present in the Scope of Audit section, return 'Unviable' if not found, formats 'DD-MM-YYYY' or 'YYYY-YYYY' when possible).
   - Financial Year = The **Period of Audit / Reporting Period** (must be present in the Headings or Scope of Audit section, return 'Unviable' if not found, formats 'DD-MM-YYYY' or 'YYYY-YYYY' when possible).

Return only a valid JSON object with exactly these 5 keys:

{
  "state": "...",
  "location": "...",
  "department": "...",
  "audit_conducted_year": "...",
  "financial_year": "..."
}
`

// groqAPIURL is the Groq chat-completions endpoint (OpenAI-compatible).
// Package-level var for test substitution.
var groqAPIURL = "https://api.groq.com/openai/v1/chat/completions"

// GroqBackend calls the Groq API to analyze one document's text.
type GroqBackend struct {
	APIKey     string
	Model      string
	UserAgent  string
	MaxRetries int
	Client     *http.Client
}

// chatRequest is the request body for the chat-completions API.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// chatMessage is a single message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response body from the chat-completions API.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// chatChoice is one completion alternative; only the first is used.
type chatChoice struct {
	Message chatMessage `json:"message"`
}

// Analyze sends the system instruction plus the document text and returns
// the model's reply text. Rate-limited requests are retried at the HTTP
// layer; any other failure is returned as-is for the caller to degrade.
func (g *GroqBackend) Analyze(ctx context.Context, docText string) (string, error) {
	reqBody := chatRequest{
		Model: g.Model,
		Messages: []chatMessage{
			{Role: "system", Content: analysisPrompt},
			{Role: "user", Content: docText},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, groqAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)
	if g.UserAgent != "" {
		req.Header.Set("User-Agent", g.UserAgent)
	}

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, g.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("calling Groq API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Groq API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Groq response: %w", err)
	}

	if len(cResp.Choices) == 0 {
		return "", fmt.Errorf("Groq API returned no choices")
	}

	return strings.TrimSpace(cResp.Choices[0].Message.Content), nil
}
