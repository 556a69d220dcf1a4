package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"clipper/clipper/utils/jsonutils"
	"clipper/clipper/utils/logging"
)

// maxPromptChars bounds how much article text goes into the prompt.
const maxPromptChars = 6000

// Client calls the chat-completions API to derive summary, tags, and a
// category for a fully-extracted clip. Basic clips never reach it.
type Client struct {
	apiKey  string
	model   string
	baseURL string
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.openai.com/v1/chat/completions",
	}
}

// Result is the enrichment payload the model must return.
type Result struct {
	Summary  string   `json:"summary"`
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Enrich summarizes and tags the given content. The caller's context
// bounds the call; a failed enrichment must never invalidate the clip.
func (c *Client) Enrich(ctx context.Context, title, text, language string) (*Result, error) {
	defer logging.LogDuration(ctx, "enrich")()

	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{
				Role: "system",
				Content: "You summarize saved web content. Respond with a JSON object only: " +
					`{"summary": string, "tags": [up to 5 short strings], "category": string}. ` +
					"Write the summary in language code " + language + ".",
			},
			{
				Role:    "user",
				Content: fmt.Sprintf("Title: %s\n\nContent:\n%s", title, text),
			},
		},
	}

	// Manual POST because we need custom headers
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("enrichment request failed: %s - %s", resp.Status, string(b))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("enrichment returned no choices")
	}

	var result Result
	raw := jsonutils.ExtractJSON(parsed.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("unparseable enrichment output: %w", err)
	}
	if strings.TrimSpace(result.Summary) == "" {
		return nil, fmt.Errorf("enrichment returned empty summary")
	}
	return &result, nil
}
