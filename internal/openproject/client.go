package openproject

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/model"
)

const (
	apiKeyUser = "apikey"
	// maxPages bounds pagination in case the server keeps returning the same next link.
	maxPages = 10000
)

// Client reads projects, time entries and groups from the OpenProject API v3.
type Client struct {
	baseURL  string
	apiKey   string
	pageSize int
	http     *http.Client
	log      zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithPageSize sets the pageSize query parameter; 0 leaves it to the server.
func WithPageSize(n int) Option {
	return func(c *Client) { c.pageSize = n }
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient returns a client for the given OpenProject base URL and API key.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" || strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openproject: base URL and API key are required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("openproject: invalid base URL: %w", err)
	}
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    http.DefaultClient,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListProjects returns every visible project.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var out []model.Project
	err := c.getPaginated(ctx, "list projects", c.baseURL+"/api/v3/projects", func(raw json.RawMessage) error {
		var p projectElement
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		out = append(out, p.toModel())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListTimeEntries returns the time entries booked on projectID.
func (c *Client) ListTimeEntries(ctx context.Context, projectID string) ([]model.TimeEntry, error) {
	filters, err := json.Marshal([]map[string]any{
		{"project_id": map[string]any{"operator": "=", "values": []string{projectID}}},
	})
	if err != nil {
		return nil, &model.SourceError{Op: "list time entries", Err: err}
	}
	endpoint := c.baseURL + "/api/v3/time_entries?filters=" + url.QueryEscape(string(filters))

	var out []model.TimeEntry
	err = c.getPaginated(ctx, "list time entries", endpoint, func(raw json.RawMessage) error {
		var e timeEntryElement
		if err := json.Unmarshal(raw, &e); err != nil {
			return err
		}
		out = append(out, e.toModel())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListGroups returns every group with its member references.
func (c *Client) ListGroups(ctx context.Context) ([]model.Group, error) {
	var out []model.Group
	err := c.getPaginated(ctx, "list groups", c.baseURL+"/api/v3/groups", func(raw json.RawMessage) error {
		var g groupElement
		if err := json.Unmarshal(raw, &g); err != nil {
			return err
		}
		out = append(out, g.toModel())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// getPaginated walks a HAL collection following _links.nextByOffset and hands each
// element to fn. Any failure aborts the walk; partial results are never returned.
func (c *Client) getPaginated(ctx context.Context, op, endpoint string, fn func(json.RawMessage) error) error {
	next := c.withPageSize(endpoint)
	for page := 0; next != ""; page++ {
		if page >= maxPages {
			return &model.SourceError{Op: op, Err: fmt.Errorf("more than %d pages", maxPages)}
		}
		col, err := c.getCollection(ctx, op, next)
		if err != nil {
			return err
		}
		for _, raw := range col.Embedded.Elements {
			if err := fn(raw); err != nil {
				return &model.SourceError{Op: op, Err: fmt.Errorf("decode element: %w", err)}
			}
		}
		c.log.Debug().Str("op", op).Int("page", page+1).Int("elements", len(col.Embedded.Elements)).Msg("fetched page")
		next = c.resolve(col.Links.NextByOffset.Href)
	}
	return nil
}

func (c *Client) getCollection(ctx context.Context, op, endpoint string) (*collection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &model.SourceError{Op: op, Err: err}
	}
	req.SetBasicAuth(apiKeyUser, c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &model.SourceError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &model.SourceError{Op: op, StatusCode: resp.StatusCode, Err: apiError(body)}
	}

	var col collection
	if err := json.NewDecoder(resp.Body).Decode(&col); err != nil {
		return nil, &model.SourceError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &col, nil
}

// resolve turns a next link into an absolute URL. Relative links are joined to the
// base URL.
func (c *Client) resolve(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return c.baseURL + "/" + strings.TrimLeft(href, "/")
}

func (c *Client) withPageSize(endpoint string) string {
	if c.pageSize <= 0 {
		return endpoint
	}
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + "pageSize=" + strconv.Itoa(c.pageSize)
}

// apiError extracts the message of an OpenProject error document.
func apiError(body []byte) error {
	var doc struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &doc); err == nil && doc.Message != "" {
		return errors.New(doc.Message)
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = "empty response"
	}
	return errors.New(msg)
}
