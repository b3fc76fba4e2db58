package memu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"unsort/internal/application"
	"unsort/internal/domain"
	"unsort/internal/ports"
)

const (
	DefaultBaseURL = "https://api.memu.so/api/v3"
	DefaultUserID  = "unsort_user_001"
	DefaultAgentID = "unsort_agent_001"
	DefaultTimeout = 30 * time.Second
)

// Replies inserted between the user's turns when shaping a conversation.
const (
	contextReply = "了解しました。続けてください。"
	recordReply  = "記録しました。"
	closingTurn  = "以上"
)

// Options configures a Client. Zero values fall back to the defaults.
type Options struct {
	BaseURL string
	Token   string
	UserID  string
	AgentID string
	Timeout time.Duration
	Logger  *log.Logger
}

// Client implements ports.MemoryService against the memU REST API
type Client struct {
	baseURL    string
	token      string
	userID     string
	agentID    string
	httpClient *http.Client
	logger     *log.Logger
}

// Ensure Client implements MemoryService
var _ ports.MemoryService = (*Client)(nil)

// NewClient creates a new memU client
func NewClient(opts Options) *Client {
	c := &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		userID:  opts.UserID,
		agentID: opts.AgentID,
		logger:  opts.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.userID == "" {
		c.userID = DefaultUserID
	}
	if c.agentID == "" {
		c.agentID = DefaultAgentID
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c.httpClient = &http.Client{Timeout: timeout}
	return c
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type memorizeRequest struct {
	Conversation []message `json:"conversation"`
	UserID       string    `json:"user_id"`
	AgentID      string    `json:"agent_id"`
}

type memorizeResponse struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// checker is implemented by responses that can be structurally invalid
// even when they decode
type checker interface {
	check() error
}

func (r *memorizeResponse) check() error {
	if r.TaskID == "" {
		return errors.New("response has no task_id")
	}
	return nil
}

type statusResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

type scopeRequest struct {
	UserID  string `json:"user_id"`
	AgentID string `json:"agent_id"`
}

type categoriesResponse struct {
	Categories []domain.RemoteCategory `json:"categories"`
}

type retrieveRequest struct {
	UserID  string `json:"user_id"`
	AgentID string `json:"agent_id"`
	Query   string `json:"query"`
}

type retrieveResponse struct {
	RewrittenQuery string                  `json:"rewritten_query"`
	Categories     []domain.RemoteCategory `json:"categories"`
	Items          []domain.RetrievedItem  `json:"items"`
}

// conversation shapes a note, and the note before it, into chat turns
func conversation(text, priorContext string) []message {
	if strings.TrimSpace(priorContext) != "" {
		return []message{
			{Role: "user", Content: priorContext},
			{Role: "assistant", Content: contextReply},
			{Role: "user", Content: text},
		}
	}
	return []message{
		{Role: "user", Content: text},
		{Role: "assistant", Content: recordReply},
		{Role: "user", Content: closingTurn},
	}
}

// Submit sends a note for memorization and returns the task id
func (c *Client) Submit(ctx context.Context, text, priorContext string) (string, error) {
	body := memorizeRequest{
		Conversation: conversation(text, priorContext),
		UserID:       c.userID,
		AgentID:      c.agentID,
	}
	var resp memorizeResponse
	if err := c.do(ctx, "memorize", http.MethodPost, "/memory/memorize", body, &resp); err != nil {
		return "", err
	}
	c.logger.Debug("note submitted", "task", resp.TaskID, "status", resp.Status)
	return resp.TaskID, nil
}

// PollStatus checks a memorization task
func (c *Client) PollStatus(ctx context.Context, taskID string) (domain.TaskStatus, error) {
	var resp statusResponse
	path := "/memory/memorize/status/" + url.PathEscape(taskID)
	if err := c.do(ctx, "status", http.MethodGet, path, nil, &resp); err != nil {
		return domain.TaskPending, err
	}

	switch resp.Status {
	case "SUCCESS":
		return domain.TaskSuccess, nil
	case "FAILED":
		return domain.TaskFailed, &application.ServiceError{
			Op:  "status",
			Err: fmt.Errorf("task %s failed", taskID),
		}
	default:
		return domain.TaskPending, nil
	}
}

// FetchCategories returns the categories derived for the user
func (c *Client) FetchCategories(ctx context.Context) ([]domain.RemoteCategory, error) {
	var resp categoriesResponse
	body := scopeRequest{UserID: c.userID, AgentID: c.agentID}
	if err := c.do(ctx, "categories", http.MethodPost, "/memory/categories", body, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// Retrieve runs a retrieval query
func (c *Client) Retrieve(ctx context.Context, query string) (*domain.Retrieval, error) {
	var resp retrieveResponse
	body := retrieveRequest{UserID: c.userID, AgentID: c.agentID, Query: query}
	if err := c.do(ctx, "retrieve", http.MethodPost, "/memory/retrieve", body, &resp); err != nil {
		return nil, err
	}
	return &domain.Retrieval{
		RewrittenQuery: resp.RewrittenQuery,
		Categories:     resp.Categories,
		Items:          resp.Items,
	}, nil
}

// do executes a JSON request and decodes the response into out.
// Every failure is reported as an *application.ServiceError for op.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	fail := func(status int, err error) error {
		c.logger.Warn("memory service request failed", "op", op, "status", status, "err", err)
		return &application.ServiceError{Op: op, StatusCode: status, Err: err}
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fail(0, fmt.Errorf("marshal body: %w", err))
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fail(0, fmt.Errorf("create request: %w", err))
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(0, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(resp.StatusCode, fmt.Errorf("read response: %w", err))
	}
	c.logger.Debug("memory service", "op", op, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, fmt.Errorf("%s", errorMessage(respBody)))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fail(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	if v, ok := out.(checker); ok {
		if err := v.check(); err != nil {
			return fail(resp.StatusCode, err)
		}
	}
	return nil
}

// errorMessage pulls a readable message out of an error body
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, msg := range []string{payload.Message, payload.Detail, payload.Error} {
			if msg != "" {
				return msg
			}
		}
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return "empty response"
	}
	return domain.Snippet(text, 200)
}
