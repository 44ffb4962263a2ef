package registry

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/pkgtopo/pkg/buildinfo"
	"github.com/matzehuels/pkgtopo/pkg/errors"
	"github.com/matzehuels/pkgtopo/pkg/httputil"
	"github.com/matzehuels/pkgtopo/pkg/observability"
)

// DefaultPageSize is the page size used by [Client.ListAll].
const DefaultPageSize = 100

// maxPages guards against a registry that never stops returning tokens.
const maxPages = 10000

// ListRequest mirrors the query parameters of GET /v1/packages.
type ListRequest struct {
	Namespace  string
	Kind       string
	NamePrefix string
	PageSize   int
	PageToken  string
}

// ListResponse is one page of packages.
type ListResponse struct {
	Packages      []Package `json:"packages"`
	NextPageToken string    `json:"nextPageToken,omitempty"`
}

// Client talks to the package registry HTTP API.
type Client struct {
	baseURL    string
	token      string
	http       *http.Client
	attempts   int
	retryDelay time.Duration
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithToken sends token as a bearer credential.
func WithToken(token string) ClientOption {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithRetry sets the number of attempts and the initial backoff delay.
func WithRetry(attempts int, delay time.Duration) ClientOption {
	return func(c *Client) {
		c.attempts = attempts
		c.retryDelay = delay
	}
}

// NewClient creates a client for the registry at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       httputil.NewClient(),
		attempts:   httputil.DefaultAttempts,
		retryDelay: httputil.DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the registry base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// List fetches a single page of packages.
func (c *Client) List(ctx context.Context, req ListRequest) (*ListResponse, error) {
	q := url.Values{}
	setIf(q, "namespace", req.Namespace)
	setIf(q, "kind", req.Kind)
	setIf(q, "name_prefix", req.NamePrefix)
	setIf(q, "page_token", req.PageToken)
	if req.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(req.PageSize))
	}

	endpoint := c.baseURL + "/v1/packages"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var resp ListResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListAll follows page tokens until the registry reports no further pages.
// PageSize and PageToken of req are ignored.
func (c *Client) ListAll(ctx context.Context, req ListRequest) ([]Package, error) {
	req.PageSize = DefaultPageSize
	req.PageToken = ""

	var out []Package
	for range maxPages {
		page, err := c.List(ctx, req)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Packages...)
		if page.NextPageToken == "" {
			return out, nil
		}
		req.PageToken = page.NextPageToken
	}
	return nil, errors.New(errors.ErrCodeNetwork, "registry returned more than %d pages", maxPages)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	err := httputil.Retry(ctx, c.attempts, c.retryDelay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", buildinfo.UserAgent())
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		hooks := observability.HTTP()
		hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
			return &httputil.RetryableError{Err: err}
		}
		defer resp.Body.Close()
		hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

		if err := httputil.CheckStatus(resp); err != nil {
			return err
		}
		return json.NewDecoder(resp.Body).Decode(v)
	})
	return classify(ctx, endpoint, err)
}

func classify(ctx context.Context, endpoint string, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return errors.Wrap(errors.ErrCodeTimeout, err, "request %s", endpoint)
	}

	var se *httputil.StatusError
	if stderrors.As(err, &se) {
		switch {
		case se.StatusCode == http.StatusNotFound:
			return errors.Wrap(errors.ErrCodeNotFound, err, "registry: %s", statusText(se))
		case se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden:
			return errors.Wrap(errors.ErrCodeUnauthorized, err, "registry: %s", statusText(se))
		case se.StatusCode >= 500 || se.StatusCode == http.StatusTooManyRequests:
			return errors.Wrap(errors.ErrCodeNetwork, err, "registry: %s", statusText(se))
		default:
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "registry: %s", statusText(se))
		}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &syntaxErr) || stderrors.As(err, &typeErr) {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode registry response")
	}
	return errors.Wrap(errors.ErrCodeNetwork, err, "request %s", endpoint)
}

func statusText(se *httputil.StatusError) string {
	if se.Message != "" {
		return se.Message
	}
	return se.Status
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
