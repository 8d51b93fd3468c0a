package hub

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/singleflight"
)

const loginPath = "/api/login"

// Credentials are fixed for the lifetime of a client, except that an empty
// Password is filled in once from PasswordFunc.
type Credentials struct {
	Username string
	Password string

	// PasswordFunc is asked for the password on the first login that needs
	// one when Password is empty.
	PasswordFunc func(username string) (string, error)
}

// Session owns the credentials and the cookie jar holding the hub session.
// Concurrent logins are collapsed into a single round trip; the hub replaces
// rather than stacks sessions, so a duplicate login is harmless anyway.
type Session struct {
	client      *resty.Client
	baseURL     *url.URL
	credentials Credentials
	mu          sync.Mutex

	group  singleflight.Group
	logins atomic.Int64
}

func newSession(client *resty.Client, baseURL *url.URL, credentials Credentials) (*Session, error) {

	// resty installs a jar by default, but a caller supplied http.Client
	// may come without one
	if client.GetClient().Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		client.SetCookieJar(jar)
	}

	return &Session{
		client:      client,
		baseURL:     baseURL,
		credentials: credentials,
	}, nil
}

// Login submits the credentials to the hub and stores the returned session
// cookies. Callers racing on Login share the outcome of one request. A
// caller whose context ends stops waiting, but the shared request keeps
// running for the others.
func (s *Session) Login(ctx context.Context) error {
	results := s.group.DoChan("login", func() (any, error) {
		return nil, s.login(context.WithoutCancel(ctx))
	})

	select {
	case res := <-results:
		if res.Shared {
			logrus.WithFields(logrus.Fields{
				"username": s.credentials.Username,
			}).Debugln("Joined in-flight hub login")
		}
		return res.Err
	case <-ctx.Done():
		return &TransportError{Method: http.MethodPost, Path: loginPath, Err: ctx.Err()}
	}
}

func (s *Session) login(ctx context.Context) error {

	password, err := s.password()
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"hub":      s.baseURL.String(),
		"username": s.credentials.Username,
	}).Debugln("Logging in to hub")

	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"username": s.credentials.Username,
			"password": password,
		}).
		Post(loginPath)

	if err != nil {
		return &TransportError{Method: http.MethodPost, Path: loginPath, Err: err}
	}

	if !resp.IsSuccess() {
		logrus.WithFields(logrus.Fields{
			"username": s.credentials.Username,
			"status":   resp.StatusCode(),
		}).Warnln("Hub rejected login")
		return &AuthenticationError{Username: s.credentials.Username, StatusCode: resp.StatusCode()}
	}

	s.logins.Add(1)
	return nil
}

func (s *Session) password() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.credentials.Password) > 0 || s.credentials.PasswordFunc == nil {
		return s.credentials.Password, nil
	}

	password, err := s.credentials.PasswordFunc(s.credentials.Username)
	if err != nil {
		return "", fmt.Errorf("failed to obtain hub password for %s: %w", s.credentials.Username, err)
	}

	s.credentials.Password = password
	return password, nil
}

// Logins returns how many successful logins this session performed.
func (s *Session) Logins() int64 {
	return s.logins.Load()
}

func (s *Session) Username() string {
	return s.credentials.Username
}

// Cookies returns the session cookies the jar would send to the hub.
func (s *Session) Cookies() []*http.Cookie {
	return s.client.GetClient().Jar.Cookies(s.baseURL)
}

// SetCookies seeds the jar with previously exported session cookies.
func (s *Session) SetCookies(cookies []*http.Cookie) {
	for _, c := range cookies {
		if len(c.Path) == 0 {
			c.Path = "/"
		}
	}
	s.client.GetClient().Jar.SetCookies(s.baseURL, cookies)
}
