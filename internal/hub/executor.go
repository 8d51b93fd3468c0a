package hub

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Sender performs a single round trip for a request template.
type Sender interface {
	Send(ctx context.Context, req Request) (*resty.Response, error)
}

// Authenticator establishes a fresh hub session.
type Authenticator interface {
	Login(ctx context.Context) error
}

// Executor wraps every hub call with the session recovery pipeline: an
// unauthorized answer triggers one login and one resend of the same
// request. Everything else, transport failures included, is passed up
// untouched.
type Executor struct {
	sender Sender
	auth   Authenticator
}

func NewExecutor(sender Sender, auth Authenticator) *Executor {
	return &Executor{sender: sender, auth: auth}
}

func (e *Executor) Execute(ctx context.Context, req Request) (*resty.Response, error) {

	resp, err := e.sender.Send(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != http.StatusUnauthorized {
		return resp, nil
	}

	logrus.WithFields(logrus.Fields{
		"request": req.String(),
	}).Debugln("Hub session expired, re-authenticating")

	if err := e.auth.Login(ctx); err != nil {
		return nil, fmt.Errorf("failed to re-authenticate for %s: %w", req, err)
	}

	// Only one retry. A second 401 goes back to the caller as is.
	return e.sender.Send(ctx, req)
}
