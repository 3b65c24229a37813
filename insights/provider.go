package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	providerTimeout = 60 * time.Second

	openRouterURL   = "https://openrouter.ai/api/v1/chat/completions"
	openRouterModel = "tngtech/deepseek-r1t2-chimera:free"

	mistralURL   = "https://api.mistral.ai/v1/chat/completions"
	mistralModel = "mistral-small-latest"
)

// ErrRateLimited is returned when a provider answers with HTTP 429. It is the
// only failure that routes the request to the secondary provider.
var ErrRateLimited = errors.New("rate limited")

// chatProvider calls an OpenAI-compatible chat-completions endpoint.
type chatProvider struct {
	source  string // recorded on insights produced from this provider
	url     string
	apiKey  string
	model   string
	headers map[string]string
	client  *http.Client
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// call sends the prompt and returns the raw message content of the first
// choice.
func (p *chatProvider) call(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(chatRequest{
		Model:       p.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.3,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	for k, v := range p.headers {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s API error: %w", p.source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%s: %w", p.source, ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%s API %d: %s", p.source, resp.StatusCode, string(b))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("%s API: decoding response: %w", p.source, err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("%s API: empty response", p.source)
	}
	return cr.Choices[0].Message.Content, nil
}
