// Package client is the HTTP client of the EduMatch API used by the portal.
// The session token is read from a session.TokenStore on every call and
// attached as a bearer header; a 401 response clears it.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/edumatch/core"
	"github.com/trezcool/edumatch/core/session"
	"github.com/trezcool/edumatch/core/user"
)

const defaultTimeout = 30 * time.Second

// APIError is an error response the client has no sentinel error for.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string // validation errors, keyed by field
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for f, msg := range e.Fields {
			parts = append(parts, f+": "+msg)
		}
		sort.Strings(parts)
		return fmt.Sprintf("api error %d: %s", e.StatusCode, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	rest    *rest.Client
	tokens  session.TokenStore
}

var _ session.Authenticator = (*Client)(nil)

// New returns a client of the API at baseURL. A nil httpClient uses a client with a default timeout.
func New(baseURL string, tokens session.TokenStore, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		rest:    &rest.Client{HTTPClient: httpClient},
		tokens:  tokens,
	}
}

type call struct {
	method rest.Method
	path   string
	query  map[string]string
	body   interface{}
	out    interface{}
}

func (c *Client) send(ctx context.Context, cl call) (*rest.Response, error) {
	req := rest.Request{
		Method:      cl.method,
		BaseURL:     c.baseURL + cl.path,
		Headers:     map[string]string{"Accept": "application/json"},
		QueryParams: cl.query,
	}
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request body")
		}
		req.Body = b
		req.Headers["Content-Type"] = "application/json"
	}

	token, err := c.tokens.Get(ctx)
	switch errors.Cause(err) {
	case nil:
		req.Headers["Authorization"] = "Bearer " + token
	case session.ErrNoToken:
	default:
		return nil, errors.Wrap(err, "reading token")
	}

	res, err := c.rest.SendWithContext(ctx, req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", cl.method, cl.path)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return nil, c.responseError(ctx, res)
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, cl call) error {
	res, err := c.send(ctx, cl)
	if err != nil {
		return err
	}
	if cl.out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	return errors.Wrapf(json.Unmarshal([]byte(res.Body), cl.out), "decoding %s %s response", cl.method, cl.path)
}

// responseError maps an error response to the service errors.
func (c *Client) responseError(ctx context.Context, res *rest.Response) error {
	var msg string
	var fields map[string]string

	var body map[string]interface{}
	if err := json.Unmarshal([]byte(res.Body), &body); err == nil {
		if m, ok := body["error"].(string); ok && len(body) == 1 {
			msg = m
		} else {
			fields = make(map[string]string, len(body))
			for k, v := range body {
				fields[k] = fmt.Sprint(v)
			}
		}
	} else {
		msg = strings.TrimSpace(res.Body)
	}

	switch res.StatusCode {
	case http.StatusUnauthorized:
		if err := c.tokens.Delete(ctx); err != nil {
			return errors.Wrap(err, "clearing rejected token")
		}
		return errors.Wrap(session.ErrNotAuthenticated, msg)
	case http.StatusForbidden:
		if msg == core.ErrForbidden.Error() {
			return core.ErrForbidden
		}
	case http.StatusServiceUnavailable:
		return errors.Wrap(core.ErrServiceUnavailable, msg)
	case http.StatusBadRequest:
		if msg == user.ErrInvalidCredentials.Error() {
			return user.ErrInvalidCredentials
		}
	}
	return &APIError{StatusCode: res.StatusCode, Message: msg, Fields: fields}
}
