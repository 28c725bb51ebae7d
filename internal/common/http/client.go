// Package http wraps the standard client with the config-derived
// timeout so remote store calls cannot hang past their budget. Requests
// carry their own context; the wrapper adds nothing else.
package http

import (
	"net/http"
	"time"
)

type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}
