package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"BlogPortal/internal/domain"
	"BlogPortal/internal/ports"
)

// Client talks to the remote blog store over its REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ ports.BlogStore = (*Client)(nil)

// NewClient creates a reusable HTTP client for the given API base URL
// (e.g. "https://store.example.org/api/v1").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// blogPayload is the outgoing body for create and update. The store owns id
// and createdAt, so they are never sent. Password is omitted when nil.
type blogPayload struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Password *string  `json:"password,omitempty"`
}

// deletePayload always carries the password key, null when no password is
// known, so the store sees an explicit empty value rather than a missing one.
type deletePayload struct {
	Password *string `json:"password"`
}

func toPayload(blog domain.Blog) blogPayload {
	return blogPayload{
		Title:    blog.Title,
		Author:   blog.Author,
		Content:  blog.Content,
		Tags:     blog.Tags,
		Password: blog.Password,
	}
}

// List fetches all blogs. Passwords are never requested on this path.
func (c *Client) List(ctx context.Context) ([]domain.Blog, error) {
	var blogs []domain.Blog
	if err := c.do(ctx, http.MethodGet, "/blogs", nil, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// Get fetches one blog. With includePassword set the store is asked to
// reveal the stored password alongside the public fields.
func (c *Client) Get(ctx context.Context, id string, includePassword bool) (domain.Blog, error) {
	path := "/blogs/" + url.PathEscape(id)
	if includePassword {
		path += "?includePassword=true"
	}

	var blog domain.Blog
	if err := c.do(ctx, http.MethodGet, path, nil, &blog); err != nil {
		return domain.Blog{}, err
	}
	return blog, nil
}

// Create posts a new blog and returns it with the server-assigned id and
// creation timestamp.
func (c *Client) Create(ctx context.Context, blog domain.Blog) (domain.Blog, error) {
	var created domain.Blog
	if err := c.do(ctx, http.MethodPost, "/blogs", toPayload(blog), &created); err != nil {
		return domain.Blog{}, err
	}
	return created, nil
}

// Update replaces the blog's editable fields.
func (c *Client) Update(ctx context.Context, id string, blog domain.Blog) (domain.Blog, error) {
	var updated domain.Blog
	path := "/blogs/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPut, path, toPayload(blog), &updated); err != nil {
		return domain.Blog{}, err
	}
	return updated, nil
}

// Delete removes the blog, forwarding the known password for the store's own
// check. A nil password is sent as an explicit null.
func (c *Client) Delete(ctx context.Context, id string, password *string) error {
	path := "/blogs/" + url.PathEscape(id)
	return c.do(ctx, http.MethodDelete, path, deletePayload{Password: password}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload any, v any) error {
	var reqBody *bytes.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		reqBody = bytes.NewReader(body)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return ports.ErrNotFound
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return fmt.Errorf("unexpected status %s, close body: %v", resp.Status, closeErr)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if v == nil {
		if err := resp.Body.Close(); err != nil {
			return fmt.Errorf("close response body: %w", err)
		}
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		_ = resp.Body.Close()
		return fmt.Errorf("decode response: %w", err)
	}

	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return nil
}
