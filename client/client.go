// Package client provides a full Go API client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/canonical/lxd/shared/api"
	"github.com/canonical/lxd/shared/logger"

	"github.com/cephmod/cephmod/api/types"
)

// Client talks to a cephmod server.
type Client struct {
	base *url.URL
	http *http.Client
}

// New returns a client for the server at baseURL, e.g. http://127.0.0.1:7480.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server address %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid server address %q: scheme and host are required", baseURL)
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{base: base, http: httpClient}, nil
}

// ApplyModule sends the request to '/1.0/modules/{module}' to run one invocation of a module.
func (c *Client) ApplyModule(ctx context.Context, module string, args map[string]any, checkMode bool) (types.Result, error) {
	queryCtx, cancel := context.WithTimeout(ctx, time.Second*120)
	defer cancel()

	var result types.Result
	data := types.ApplyRequest{Args: args, CheckMode: checkMode}

	err := c.query(queryCtx, http.MethodPost, c.url("modules", module), data, &result)
	if err != nil {
		logger.Errorf("error applying module '%s': %v", module, err)
		return result, fmt.Errorf("failed applying module %s: %w", module, err)
	}
	return result, nil
}

// ListModules sends the request to '/1.0/modules' to describe the available modules.
func (c *Client) ListModules(ctx context.Context) (types.Modules, error) {
	queryCtx, cancel := context.WithTimeout(ctx, time.Second*30)
	defer cancel()

	var modules types.Modules
	err := c.query(queryCtx, http.MethodGet, c.url("modules"), nil, &modules)
	if err != nil {
		return nil, fmt.Errorf("failed listing modules: %w", err)
	}
	return modules, nil
}

func (c *Client) url(parts ...string) string {
	u := api.NewURL().Scheme(c.base.Scheme).Host(c.base.Host).Path(append([]string{types.APIVersion}, parts...)...)
	return u.String()
}

func (c *Client) query(ctx context.Context, method string, target string, data any, out any) error {
	var body bytes.Buffer
	if data != nil {
		err := json.NewEncoder(&body).Encode(data)
		if err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope api.Response
	err = json.NewDecoder(resp.Body).Decode(&envelope)
	if err != nil {
		return fmt.Errorf("failed decoding response from %s (status %d): %w", target, resp.StatusCode, err)
	}

	if envelope.Type == api.ErrorResponse {
		return api.StatusErrorf(envelope.Code, "%s", envelope.Error)
	}

	return envelope.MetadataAsStruct(out)
}
