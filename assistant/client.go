// Package assistant talks to the OpenAI Assistants API (v2) over plain HTTP.
// One GenerateSchedule call is a full assistant run: create thread, append the
// prompt, start a run, poll until a terminal status, then pull the last
// message and parse its text as JSON.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Dosada05/volley-planning/models"
)

const OpenAIURL = "https://api.openai.com"

const (
	defaultPollInterval = 3 * time.Second
	defaultPollTimeout  = 120 * time.Second
)

var (
	ErrRunFailed  = errors.New("assistant run did not complete")
	ErrRunTimeout = errors.New("assistant run timed out")
	ErrNoReply    = errors.New("assistant returned no message")
)

type Client interface {
	GenerateSchedule(ctx context.Context, prompt string) (json.RawMessage, error)
}

type client struct {
	url          string
	apiKey       string
	assistantID  string
	httpClient   *http.Client
	pollInterval time.Duration
	pollTimeout  time.Duration
}

func New(apiKey, assistantID string) Client {
	return &client{
		url:         OpenAIURL,
		apiKey:      apiKey,
		assistantID: assistantID,
		httpClient: &http.Client{
			Timeout: 1 * time.Minute,
		},
		pollInterval: defaultPollInterval,
		pollTimeout:  defaultPollTimeout,
	}
}

// NewForTest указывает клиент на подставной сервер и ускоряет поллинг.
func NewForTest(url string, pollInterval, pollTimeout time.Duration) Client {
	return &client{
		url:          url,
		apiKey:       "test-key",
		assistantID:  "asst_test",
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
	}
}

type thread struct {
	ID string `json:"id"`
}

type run struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type messageList struct {
	Data []struct {
		Content []struct {
			Type string `json:"type"`
			Text struct {
				Value string `json:"value"`
			} `json:"text"`
		} `json:"content"`
	} `json:"data"`
}

func (c *client) GenerateSchedule(ctx context.Context, prompt string) (json.RawMessage, error) {
	var th thread
	if err := c.post(ctx, "/v1/threads", map[string]interface{}{}, &th); err != nil {
		return nil, fmt.Errorf("creating thread: %w", err)
	}

	message := map[string]interface{}{"role": "user", "content": prompt}
	if err := c.post(ctx, fmt.Sprintf("/v1/threads/%s/messages", th.ID), message, nil); err != nil {
		return nil, fmt.Errorf("submitting prompt: %w", err)
	}

	var r run
	body := map[string]interface{}{"assistant_id": c.assistantID}
	if err := c.post(ctx, fmt.Sprintf("/v1/threads/%s/runs", th.ID), body, &r); err != nil {
		return nil, fmt.Errorf("starting run: %w", err)
	}

	if err := c.waitForCompletion(ctx, th.ID, r.ID); err != nil {
		return nil, err
	}

	text, err := c.lastMessageText(ctx, th.ID)
	if err != nil {
		return nil, err
	}
	return parseScheduleText(text)
}

// waitForCompletion опрашивает статус запуска с фиксированным интервалом.
// Экспоненциального backoff нет намеренно: один запуск на запрос генерации,
// вызовов мало.
func (c *client) waitForCompletion(ctx context.Context, threadID, runID string) error {
	deadline := time.Now().Add(c.pollTimeout)

	for {
		var r run
		path := fmt.Sprintf("/v1/threads/%s/runs/%s", threadID, runID)
		if err := c.get(ctx, path, &r); err != nil {
			return fmt.Errorf("polling run status: %w", err)
		}

		switch r.Status {
		case "completed":
			return nil
		case "failed", "cancelled", "expired":
			return fmt.Errorf("%w: status %q", ErrRunFailed, r.Status)
		}

		if time.Now().After(deadline) {
			return ErrRunTimeout
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *client) lastMessageText(ctx context.Context, threadID string) (string, error) {
	var list messageList
	path := fmt.Sprintf("/v1/threads/%s/messages?order=desc&limit=1", threadID)
	if err := c.get(ctx, path, &list); err != nil {
		return "", fmt.Errorf("fetching assistant reply: %w", err)
	}

	if len(list.Data) == 0 {
		return "", ErrNoReply
	}
	for _, content := range list.Data[0].Content {
		if content.Type == "text" {
			return content.Text.Value, nil
		}
	}
	return "", ErrNoReply
}

// parseScheduleText снимает markdown-ограждение, если оно есть, и проверяет
// минимальный контракт ответа: JSON-объект с полем type_tournoi. Оба условия
// жёсткие, мягкого фолбэка нет.
func parseScheduleText(text string) (json.RawMessage, error) {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	if _, err := models.ParseScheduleData([]byte(clean)); err != nil {
		return nil, err
	}
	return json.RawMessage(clean), nil
}

func (c *client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(payload), out)
}

func (c *client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *client) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.url+path, body)
	if err != nil {
		return fmt.Errorf("error creating http request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("OpenAI-Beta", "assistants=v2")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status code %d from %s: %s", resp.StatusCode, path, string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error parsing response from assistant api: %w", err)
	}
	return nil
}
