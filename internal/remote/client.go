// Package remote stores clients and payments in an external REST API exposing /clients and
// /payments resources, the layout served by json-server.
package remote

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

	"github.com/billbook/billbook/internal/config"
	log "github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("remote resource not found")
var ErrUnexpectedStatus = errors.New("unexpected status from remote store")

type Client struct {
	baseUrl    string
	httpClient *http.Client
}

func NewClient(cfg config.Remote) *Client {
	return NewClientWithHTTP(cfg.BaseUrl, &http.Client{Timeout: cfg.Timeout})
}

func NewClientWithHTTP(baseUrl string, httpClient *http.Client) *Client {
	return &Client{
		baseUrl:    strings.TrimRight(baseUrl, "/"),
		httpClient: httpClient,
	}
}

// get decodes the JSON body of GET path into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) send(ctx context.Context, method string, path string, body any, out any) error {
	return c.do(ctx, method, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method string, path string, query url.Values, body any, out any) error {
	target := c.baseUrl + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to execute %s %s: %v", method, target, err)
		return fmt.Errorf("remote store %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("%w: %s %s returned %d", ErrUnexpectedStatus, method, path, resp.StatusCode)
		log.Error(err)
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Errorf("Failed to decode response of %s %s: %v", method, path, err)
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// id accepts both string and numeric identifiers, json-server assigns either depending on the
// seed data.
type id string

func (i *id) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = id(s)
		return nil
	}
	if string(data) == "null" {
		*i = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*i = id(n.String())
	return nil
}
