// Package apiclient is a typed HTTP client for the notehub API, shared by the
// web client and the CLI.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/crucial707/notehub/internal/models"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status of an *APIError, or 0 for any other error.
func StatusOf(err error) int {
	var e *APIError
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	var u models.User
	_, err := c.do(ctx, http.MethodPost, "/users", "", req, &u)
	return u, err
}

func (c *Client) Login(ctx context.Context, username, password string) (models.LoginResponse, error) {
	var out models.LoginResponse
	_, err := c.do(ctx, http.MethodPost, "/login", "", models.LoginRequest{Username: username, Password: password}, &out)
	return out, err
}

// ListNotes returns one page of notes and the total from x-total-count.
func (c *Client) ListNotes(ctx context.Context, page, perPage int) (models.NotePage, error) {
	q := url.Values{}
	q.Set("_page", strconv.Itoa(page))
	q.Set("_per_page", strconv.Itoa(perPage))

	var notes []models.Note
	hdr, err := c.do(ctx, http.MethodGet, "/notes?"+q.Encode(), "", nil, &notes)
	if err != nil {
		return models.NotePage{}, err
	}
	total, err := strconv.Atoi(hdr.Get("x-total-count"))
	if err != nil {
		total = len(notes)
	}
	return models.NotePage{Notes: notes, Total: total}, nil
}

func (c *Client) GetNote(ctx context.Context, id int64) (models.Note, error) {
	var n models.Note
	_, err := c.do(ctx, http.MethodGet, notePath(id), "", nil, &n)
	return n, err
}

func (c *Client) CreateNote(ctx context.Context, token string, in models.NoteInput) (models.Note, error) {
	var n models.Note
	_, err := c.do(ctx, http.MethodPost, "/notes", token, in, &n)
	return n, err
}

func (c *Client) UpdateNote(ctx context.Context, token string, id int64, in models.NoteInput) (models.Note, error) {
	var n models.Note
	_, err := c.do(ctx, http.MethodPut, notePath(id), token, in, &n)
	return n, err
}

func (c *Client) DeleteNote(ctx context.Context, token string, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, notePath(id), token, nil, nil)
	return err
}

func notePath(id int64) string {
	return "/notes/" + strconv.FormatInt(id, 10)
}

// do sends body as JSON and decodes a 2xx response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) (http.Header, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg struct {
			Message string            `json:"message"`
			Fields  map[string]string `json:"fields"`
		}
		if json.Unmarshal(data, &msg) == nil && msg.Message != "" {
			apiErr.Message = msg.Message
			apiErr.Fields = msg.Fields
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return resp.Header, apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.Header, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.Header, nil
}
