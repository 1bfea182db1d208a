package client

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

	"github.com/pkg/errors"

	"wall-elevation/internal/elevation/models"
	"wall-elevation/internal/elevation/repository"
)

// ============================================================
// HTTP Client
// ============================================================

const defaultTimeout = 10 * time.Second

// Client ходит в HTTP API сервиса стен. Реализует interaction.Persistence.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// SampleWallID спрашивает у сервера id демонстрационной стены.
func (c *Client) SampleWallID(ctx context.Context) (string, error) {
	var out struct {
		WallID string `json:"wallId"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/sample-wall", nil, &out); err != nil {
		return "", err
	}
	return out.WallID, nil
}

func (c *Client) GetWallWithFixtures(ctx context.Context, id string) (*models.WallWithFixtures, error) {
	var wall models.WallWithFixtures
	if err := c.do(ctx, http.MethodGet, "/api/v1/walls/"+url.PathEscape(id), nil, &wall); err != nil {
		return nil, errors.Wrapf(err, "get wall %s", id)
	}
	return &wall, nil
}

func (c *Client) UpdateFixture(ctx context.Context, id string, patch models.FixturePatch) (*models.Fixture, error) {
	var fixture models.Fixture
	if err := c.do(ctx, http.MethodPatch, "/api/v1/fixtures/"+url.PathEscape(id), patch, &fixture); err != nil {
		return nil, errors.Wrapf(err, "update fixture %s", id)
	}
	return &fixture, nil
}

// StatusError: ответ сервера вне 2xx.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return notFound(resp)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Message: readError(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

// notFound переводит 404 в repository.ErrNotFound с текстом сервера.
func notFound(resp *http.Response) error {
	msg := readError(resp.Body)
	if msg == "" {
		msg = "not found"
	}
	return errors.Wrap(repository.ErrNotFound, msg)
}

func readError(r io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil {
		return ""
	}
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(data))
}
