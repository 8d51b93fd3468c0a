// Package hub provides the public hub client. The client logs in with a
// username and password, keeps the resulting cookie session and logs in
// again once when the hub answers 401.
//
//	client, err := hub.Connect(ctx, hub.Options{
//		Endpoint: "https://hub.example.com/",
//		Username: "nova",
//		Password: "stardust",
//	})
//	servers, err := client.Servers(ctx)
package hub

import internal "github.com/stellarbit/hubclient/internal/hub"

// DefaultEndpoint is used when Options.Endpoint is empty.
const DefaultEndpoint = internal.DefaultEndpoint

// Options configures a client.
type Options = internal.Options

// Client is an authenticated hub client, safe for concurrent use.
type Client = internal.Client

// Request is an immutable request template for Client.Do.
type Request = internal.Request

// TransportError reports a request that never got an HTTP answer.
type TransportError = internal.TransportError

// AuthenticationError reports a login rejected by the hub.
type AuthenticationError = internal.AuthenticationError

// RequestError reports a non-2xx answer from the hub.
type RequestError = internal.RequestError

// ErrInvalidResponse is wrapped when a successful answer cannot be decoded.
var ErrInvalidResponse = internal.ErrInvalidResponse

var (
	// Connect logs in and resolves the caller's user id.
	Connect = internal.Connect
	// Resume rebuilds a client from an exported session without network I/O.
	Resume = internal.Resume
	// Get builds a GET request template.
	Get = internal.Get
	// Post builds a POST request template.
	Post = internal.Post
	// IsUnauthorized reports whether err is a 401 answer from the hub.
	IsUnauthorized = internal.IsUnauthorized
)
