package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/stellarbit/hubclient/internal/common"
	"github.com/stellarbit/hubclient/internal/models"
)

// DefaultEndpoint is the hub address used when Options.Endpoint is empty.
const DefaultEndpoint = "http://localhost:3000/"

const maxErrorBody = 512

type Options struct {
	// Endpoint is the hub base URL, e.g. https://hub.example.com/
	Endpoint string
	Username string
	Password string
	// PasswordFunc supplies the password when Password is empty and the
	// session has to log in, e.g. after a resumed session expired.
	PasswordFunc func(username string) (string, error)

	// Timeout bounds each round trip. Zero leaves it to the transport
	// and the request context.
	Timeout time.Duration
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// HTTPClient replaces the underlying transport client. A cookie jar is
	// installed if it has none.
	HTTPClient *http.Client
}

// Client is an authenticated hub client. It is safe for concurrent use;
// all calls share one session.
type Client struct {
	baseURL  *url.URL
	http     *resty.Client
	session  *Session
	executor *Executor

	userID int64
}

func newClient(opts Options) (*Client, error) {

	if len(opts.Username) == 0 {
		return nil, errors.New("hub username is required")
	}

	endpoint := opts.Endpoint
	if len(endpoint) == 0 {
		endpoint = DefaultEndpoint
	}

	baseURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid hub endpoint: %w", err)
	} else if len(baseURL.Scheme) == 0 || len(baseURL.Host) == 0 {
		return nil, fmt.Errorf("invalid hub endpoint: %s", endpoint)
	}

	var httpClient *resty.Client
	if opts.HTTPClient != nil {
		httpClient = resty.NewWithClient(opts.HTTPClient)
	} else {
		httpClient = resty.New()
	}

	userAgent := opts.UserAgent
	if len(userAgent) == 0 {
		userAgent = common.UserAgent()
	}

	httpClient.
		SetBaseURL(strings.TrimSuffix(baseURL.String(), "/")).
		SetHeader("User-Agent", userAgent).
		SetHeader("X-Client-Id", common.GetClientIdentifier().String())

	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}

	session, err := newSession(httpClient, baseURL, Credentials{
		Username:     opts.Username,
		Password:     opts.Password,
		PasswordFunc: opts.PasswordFunc,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:  baseURL,
		http:     httpClient,
		session:  session,
		executor: NewExecutor(&restySender{client: httpClient}, session),
	}, nil
}

// Connect logs in to the hub and resolves the caller's own user id. Either
// both steps succeed and a ready client is returned, or neither result is
// kept.
func Connect(ctx context.Context, opts Options) (*Client, error) {

	client, err := newClient(opts)
	if err != nil {
		return nil, err
	}

	if err := client.session.Login(ctx); err != nil {
		return nil, fmt.Errorf("failed to login to hub: %w", err)
	}

	user, err := client.UserByUsername(ctx, opts.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user id for %s: %w", opts.Username, err)
	}

	client.userID = user.ID

	logrus.WithFields(logrus.Fields{
		"hub":      client.baseURL.String(),
		"username": user.Username,
		"userId":   user.ID,
	}).Debugln("Connected to hub")

	return client, nil
}

// Resume rebuilds a client from a previously exported session without any
// network I/O. If the stored cookies have expired the first call
// re-authenticates through the usual retry path.
func Resume(opts Options, state *models.HubSession) (*Client, error) {

	if state == nil {
		return nil, errors.New("no session state to resume")
	}

	if len(state.Username) > 0 && !strings.EqualFold(state.Username, opts.Username) {
		return nil, fmt.Errorf("stored session belongs to %s, not %s", state.Username, opts.Username)
	}

	client, err := newClient(opts)
	if err != nil {
		return nil, err
	}

	client.session.SetCookies(state.GetHTTPCookies())
	client.userID = state.UserID

	return client, nil
}

// UserID is the id of the authenticated user, resolved during Connect.
func (c *Client) UserID() int64 {
	return c.userID
}

func (c *Client) Username() string {
	return c.session.Username()
}

func (c *Client) Endpoint() string {
	return c.baseURL.String()
}

func (c *Client) Session() *Session {
	return c.session
}

// Login forces a fresh hub session.
func (c *Client) Login(ctx context.Context) error {
	return c.session.Login(ctx)
}

// Do runs an arbitrary request through the authenticated pipeline. The
// response is returned whatever its status.
func (c *Client) Do(ctx context.Context, req Request) (*resty.Response, error) {
	return c.executor.Execute(ctx, req)
}

// State exports the current session for persistence.
func (c *Client) State() *models.HubSession {
	return &models.HubSession{
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Endpoint:  c.baseURL.String(),
		Username:  c.session.Username(),
		UserID:    c.userID,
		Cookies:   models.NewCookies(c.session.Cookies()),
	}
}

// call executes req and fails with a RequestError on any non-2xx answer.
func (c *Client) call(ctx context.Context, req Request) (*resty.Response, error) {

	resp, err := c.executor.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		logrus.WithFields(logrus.Fields{
			"request": req.String(),
			"status":  resp.StatusCode(),
		}).Debugln("Hub request failed")
		return nil, newRequestError(req, resp)
	}

	return resp, nil
}

func newRequestError(req Request, resp *resty.Response) *RequestError {
	return &RequestError{
		Method:     req.Method,
		Path:       req.ExpandedPath(),
		StatusCode: resp.StatusCode(),
		Body:       common.TruncateBody(resp.Body(), maxErrorBody),
	}
}

func decode[T any](req Request, resp *resty.Response) (*T, error) {
	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w: %w", req, ErrInvalidResponse, err)
	}
	return &result, nil
}

func callJSON[T any](ctx context.Context, c *Client, req Request) (*T, error) {
	resp, err := c.call(ctx, req)
	if err != nil {
		return nil, err
	}
	return decode[T](req, resp)
}
