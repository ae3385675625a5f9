package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/spec-kit/mood-tracker/internal/domain"
)

// genericErrorMessage is shown when the server response carries no
// structured error.
const genericErrorMessage = "something went wrong; please try again"

// Entry mirrors the API representation of a mood entry.
type Entry struct {
	ID        string      `json:"id"`
	Mood      domain.Mood `json:"mood"`
	Note      string      `json:"note"`
	EntryDate string      `json:"entry_date"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// EntryList is the paginated history response.
type EntryList struct {
	Entries     []Entry `json:"entries"`
	TotalCount  int     `json:"totalCount"`
	CurrentPage int     `json:"currentPage"`
	TotalPages  int     `json:"totalPages"`
	Today       string  `json:"today"`
}

// Analytics is the trailing 7-day mood count response.
type Analytics struct {
	MoodCounts map[domain.Mood]int `json:"moodCounts"`
	Today      string              `json:"today"`
}

// User mirrors the API representation of an account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// APIError is a structured error returned by the service. Structured
// messages are surfaced verbatim; anything else falls back to a generic one.
type APIError struct {
	Code    string
	Message string
	Status  int
	Details map[string]any
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to the mood tracker API. It keeps the bearer token issued at
// login; failed calls surface immediately with no automatic retry.
type Client struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
}

// New constructs a client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	cli := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout)
	return &Client{http: cli}
}

// SetToken stores the bearer credential used on authenticated calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = strings.TrimSpace(token)
}

// Token returns the stored bearer credential.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type authResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type entryMutationResponse struct {
	Message string `json:"message"`
	Entry   Entry  `json:"entry"`
}

// Register creates an account and stores the issued token.
func (c *Client) Register(ctx context.Context, email, password string) (*User, error) {
	var out authResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).
		Post("/auth/register")
	if err != nil {
		return nil, fmt.Errorf("register request: %w", err)
	}
	if err := mapAPIError(resp); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out.User, nil
}

// Login authenticates and stores the issued token.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out authResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).
		Post("/auth/login")
	if err != nil {
		return nil, fmt.Errorf("login request: %w", err)
	}
	if err := mapAPIError(resp); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out.User, nil
}

// CreateEntry logs a mood for today.
func (c *Client) CreateEntry(ctx context.Context, mood domain.Mood, note string) (*Entry, error) {
	var out entryMutationResponse
	resp, err := c.authorized().
		SetContext(ctx).
		SetBody(map[string]string{"mood": string(mood), "note": note}).
		SetResult(&out).
		Post("/moods")
	if err != nil {
		return nil, fmt.Errorf("create entry request: %w", err)
	}
	if err := mapAPIError(resp); err != nil {
		return nil, err
	}
	return &out.Entry, nil
}

// ListEntries fetches a page of history.
func (c *Client) ListEntries(ctx context.Context, page, limit int) (*EntryList, error) {
	var out EntryList
	resp, err := c.authorized().
		SetContext(ctx).
		SetQueryParam("page", fmt.Sprintf("%d", page)).
		SetQueryParam("limit", fmt.Sprintf("%d", limit)).
		SetResult(&out).
		Get("/moods")
	if err != nil {
		return nil, fmt.Errorf("list entries request: %w", err)
	}
	if err := mapAPIError(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEntry overwrites mood and note of an owned entry.
func (c *Client) UpdateEntry(ctx context.Context, id string, mood domain.Mood, note string) (*Entry, error) {
	var out entryMutationResponse
	resp, err := c.authorized().
		SetContext(ctx).
		SetBody(map[string]string{"mood": string(mood), "note": note}).
		SetResult(&out).
		Put("/moods/" + id)
	if err != nil {
		return nil, fmt.Errorf("update entry request: %w", err)
	}
	if err := mapAPIError(resp); err != nil {
		return nil, err
	}
	return &out.Entry, nil
}

// DeleteEntry permanently removes an owned entry.
func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	resp, err := c.authorized().
		SetContext(ctx).
		Delete("/moods/" + id)
	if err != nil {
		return fmt.Errorf("delete entry request: %w", err)
	}
	return mapAPIError(resp)
}

// WeeklyAnalytics fetches per-mood counts for the trailing 7 days.
func (c *Client) WeeklyAnalytics(ctx context.Context) (*Analytics, error) {
	var out Analytics
	resp, err := c.authorized().
		SetContext(ctx).
		SetResult(&out).
		Get("/moods/analytics")
	if err != nil {
		return nil, fmt.Errorf("analytics request: %w", err)
	}
	if err := mapAPIError(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) authorized() *resty.Request {
	req := c.http.R().SetHeader("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func mapAPIError(resp *resty.Response) error {
	if resp.StatusCode() < 400 {
		return nil
	}

	var envelope struct {
		Error struct {
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil || envelope.Error.Message == "" {
		return &APIError{Message: genericErrorMessage, Status: resp.StatusCode()}
	}
	return &APIError{
		Code:    envelope.Error.Code,
		Message: envelope.Error.Message,
		Status:  resp.StatusCode(),
		Details: envelope.Error.Details,
	}
}
